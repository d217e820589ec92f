package lfslog

// Lookahead is a forward-only cursor with up to two values of lookahead.
// Peeking never consumes: calling Peek or Peek2 repeatedly without Next
// returns the same value.
type Lookahead[T any] struct {
	src  func() (T, bool)
	buf  [2]T
	n    int // buffered values
	done bool
}

// NewLookahead wraps src. src must keep returning false once exhausted.
func NewLookahead[T any](src func() (T, bool)) Lookahead[T] {
	return Lookahead[T]{src: src}
}

// fill buffers values until n are available or the source ends
func (l *Lookahead[T]) fill(n int) bool {
	for l.n < n {
		if l.done {
			return false
		}
		v, ok := l.src()
		if !ok {
			l.done = true
			return false
		}
		l.buf[l.n] = v
		l.n++
	}
	return true
}

// Peek returns the next value without consuming it
func (l *Lookahead[T]) Peek() (T, bool) {
	if !l.fill(1) {
		var zero T
		return zero, false
	}
	return l.buf[0], true
}

// Peek2 returns the value after the next one without consuming anything
func (l *Lookahead[T]) Peek2() (T, bool) {
	if !l.fill(2) {
		var zero T
		return zero, false
	}
	return l.buf[1], true
}

// Next consumes and returns the earliest buffered value, falling back to
// the underlying source.
func (l *Lookahead[T]) Next() (T, bool) {
	if !l.fill(1) {
		var zero T
		return zero, false
	}
	v := l.buf[0]
	l.buf[0] = l.buf[1]
	l.n--
	return v, true
}

// byteSource yields the bytes of b in order
type byteSource struct {
	b   []byte
	pos int
}

//go:inline
func (s *byteSource) next() (byte, bool) {
	if s.pos >= len(s.b) {
		return 0, false
	}
	c := s.b[s.pos]
	s.pos++
	return c, true
}
