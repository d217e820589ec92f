package lfslog

// MessageCap is the capacity of one composed message
const MessageCap = 256

// Buffer is a fixed-capacity message buffer. An append that does not fit
// is dropped whole, so the content is always a sequence of complete
// fragments.
type Buffer struct {
	b [MessageCap]byte
	n int
}

// Append appends p if it fits and reports whether it did
//
//go:inline
func (b *Buffer) Append(p []byte) bool {
	if len(p) > len(b.b)-b.n {
		return false
	}
	b.n += copy(b.b[b.n:], p)
	return true
}

// AppendString appends s if it fits and reports whether it did
//
//go:inline
func (b *Buffer) AppendString(s string) bool {
	if len(s) > len(b.b)-b.n {
		return false
	}
	b.n += copy(b.b[b.n:], s)
	return true
}

// Bytes returns the buffer content. It aliases the buffer.
func (b *Buffer) Bytes() []byte { return b.b[:b.n] }

// Len returns the number of bytes written
func (b *Buffer) Len() int { return b.n }

// Reset empties the buffer
func (b *Buffer) Reset() { b.n = 0 }
