package lfslog

import (
	"math"
	"strconv"
	"unicode/utf8"
)

// fragCap is the scratch size for one rendered number
const fragCap = 64

var (
	nullString  = []byte("(null)")
	percentSign = []byte("%")
)

// extract pulls the argument spec describes off args and renders it.
// Numeric text is built in scratch; string arguments are returned as a view
// of the argument memory. ok is false when the value cannot be rendered;
// the argument has still been consumed.
func extract(scratch *[fragCap]byte, template []byte, spec Spec, args ArgCursor) (frag []byte, ok bool) {
	buf := scratch[:0]

	switch spec.Kind {
	case KindPercent:
		return percentSign, true

	case KindSigned:
		raw := args.Next(spec.Slot())
		v := int64(raw)
		if !spec.Long {
			v = int64(int32(raw))
		}
		return appendInt(buf, v), true

	case KindUnsigned:
		v := args.Next(spec.Slot())
		if !spec.Long {
			v = uint64(uint32(v))
		}
		if spec.Verb == 'o' {
			return appendUint(buf, v, 8, digitsLower), true
		}
		return appendUint(buf, v, 10, digitsLower), true

	case KindHex:
		v := uint64(uint32(args.Next(spec.Slot())))
		buf = append(buf, '0', 'x')
		return appendUint(buf, v, 16, digitsUpper), true

	case KindFloat:
		f := math.Float64frombits(args.Next(SlotDouble))
		return appendFloat(buf, f, spec.Verb), true

	case KindChar:
		c := byte(args.Next(SlotInt))
		if c < utf8.RuneSelf {
			return append(buf, c), true
		}
		return utf8.AppendRune(buf, rune(c)), true

	case KindString:
		addr := args.Next(SlotPointer)
		if addr == 0 {
			return nullString, true
		}
		s, ok := args.CString(addr)
		if !ok || !utf8.Valid(s) {
			return nil, false
		}
		return s, true

	case KindPointer:
		buf = append(buf, '0', 'x')
		return appendUint(buf, args.Next(SlotPointer), 16, digitsLower), true
	}

	// Unsupported: consume the slot so later arguments stay aligned and say so
	args.Next(spec.Slot())
	buf = append(buf, "<unsupported "...)
	buf = append(buf, template[spec.Off:spec.Off+spec.Len]...)
	return append(buf, '>'), true
}

// appendFloat renders f the way C's printf does for verb with the default
// precision of 6.
func appendFloat(buf []byte, f float64, verb byte) []byte {
	start := len(buf)

	switch {
	case math.IsNaN(f):
		buf = append(buf, "nan"...)
	case math.IsInf(f, 1):
		buf = append(buf, "inf"...)
	case math.IsInf(f, -1):
		buf = append(buf, "-inf"...)
	default:
		switch verb {
		case 'e', 'E':
			buf = strconv.AppendFloat(buf, f, 'e', 6, 64)
		case 'g', 'G':
			buf = strconv.AppendFloat(buf, f, 'g', 6, 64)
		case 'a', 'A':
			buf = strconv.AppendFloat(buf, f, 'x', -1, 64)
		default:
			buf = strconv.AppendFloat(buf, f, 'f', 6, 64)
		}
	}

	if verb >= 'A' && verb <= 'Z' {
		upper(buf[start:])
	}
	return buf
}
