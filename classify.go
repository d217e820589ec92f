package lfslog

// MaxSpecs is the number of conversion specifiers classified per message.
// littlefs trace lines carry at most a dozen arguments.
const MaxSpecs = 16

// Kind is the argument class a conversion specifier asks for
type Kind uint8

const (
	KindUnknown Kind = iota
	KindSigned
	KindUnsigned
	KindHex
	KindFloat
	KindChar
	KindString
	KindPointer
	KindWriteTarget
	KindPercent
)

var kindNames = [...]string{
	KindUnknown:     "unknown",
	KindSigned:      "signed",
	KindUnsigned:    "unsigned",
	KindHex:         "hex",
	KindFloat:       "float",
	KindChar:        "char",
	KindString:      "string",
	KindPointer:     "pointer",
	KindWriteTarget: "write-target",
	KindPercent:     "percent",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Spec is one classified conversion specifier
type Spec struct {
	Kind Kind
	Long bool // an 'l' length modifier preceded the conversion letter
	Verb byte // conversion letter
	Off  int  // offset of '%' in the template
	Len  int  // 2, or 3 with a length modifier
}

// Slot returns the argument width the specifier consumes
func (s Spec) Slot() Slot {
	switch s.Kind {
	case KindFloat:
		return SlotDouble
	case KindString, KindPointer, KindWriteTarget:
		return SlotPointer
	}
	if s.Long {
		return SlotLong
	}
	return SlotInt
}

// Segment is a zero-copy view of literal template text
type Segment struct {
	Off int
	Len int
}

// Bytes returns the segment's text within template
func (s Segment) Bytes(template []byte) []byte {
	return template[s.Off : s.Off+s.Len]
}

// Plan is the fixed-capacity result of classifying one template. Segment i
// renders immediately before the value of spec i; an optional extra segment
// trails the last spec.
type Plan struct {
	specs     [MaxSpecs]Spec
	segs      [MaxSpecs + 1]Segment
	nspecs    int
	nsegs     int
	truncated bool
}

// Specs returns the classified specifiers in template order
func (p *Plan) Specs() []Spec { return p.specs[:p.nspecs] }

// Segments returns the literal segments in template order
func (p *Plan) Segments() []Segment { return p.segs[:p.nsegs] }

// Truncated reports whether classification stopped at the specifier capacity
func (p *Plan) Truncated() bool { return p.truncated }

func (p *Plan) reset() {
	p.nspecs = 0
	p.nsegs = 0
	p.truncated = false
}

// push records the segment preceding spec and spec itself. It refuses both
// once the specifier capacity is reached so the lists stay index-aligned.
func (p *Plan) push(seg Segment, spec Spec) bool {
	if p.nspecs == len(p.specs) {
		p.truncated = true
		return false
	}
	p.segs[p.nsegs] = seg
	p.nsegs++
	p.specs[p.nspecs] = spec
	p.nspecs++
	return true
}

func (p *Plan) pushTrailing(seg Segment) {
	if seg.Len == 0 || p.nsegs == len(p.segs) {
		return
	}
	p.segs[p.nsegs] = seg
	p.nsegs++
}

// Classify scans template and fills p. The final two template bytes are the
// "%s" terminator appended by the hook macros and are never scanned.
func Classify(template []byte, p *Plan) {
	if len(template) < 2 {
		p.reset()
		return
	}
	classifyBody(template[:len(template)-2], p)
}

// classifyBody scans every byte of body
func classifyBody(body []byte, p *Plan) {
	p.reset()

	src := byteSource{b: body}
	cur := NewLookahead(src.next)
	pos, start := 0, 0

	for {
		c, ok := cur.Next()
		if !ok {
			break
		}
		if c != '%' {
			pos++
			continue
		}

		verb, ok := cur.Peek()
		if !ok {
			break
		}
		long, n := false, 2
		if verb == 'l' {
			if verb, ok = cur.Peek2(); !ok {
				break
			}
			long, n = true, 3
		}

		spec := Spec{Kind: kindOf(verb, long), Long: long, Verb: verb, Off: pos, Len: n}
		if !p.push(Segment{Off: start, Len: pos - start}, spec) {
			break
		}
		for i := 1; i < n; i++ {
			cur.Next()
		}
		pos += n
		start = pos
	}

	p.pushTrailing(Segment{Off: start, Len: pos - start})
}

// kindOf maps a conversion letter to its argument kind
func kindOf(verb byte, long bool) Kind {
	if long {
		switch verb {
		case 'd', 'i':
			return KindSigned
		case 'u', 'o':
			return KindUnsigned
		}
		return KindUnknown
	}

	switch verb {
	case 'd', 'i':
		return KindSigned
	case 'u', 'o':
		return KindUnsigned
	case 'x', 'X':
		return KindHex
	case 'f', 'F', 'e', 'E', 'g', 'G', 'a', 'A':
		return KindFloat
	case 'c':
		return KindChar
	case 's':
		return KindString
	case 'p':
		return KindPointer
	case 'n':
		return KindWriteTarget
	case '%':
		return KindPercent
	}
	return KindUnknown
}
