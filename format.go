package lfslog

// Fast integer to text conversion without allocation

const (
	digitsLower = "0123456789abcdef"
	digitsUpper = "0123456789ABCDEF"
)

func appendInt(buf []byte, v int64) []byte {
	if v < 0 {
		buf = append(buf, '-')
		return appendUint(buf, uint64(-v), 10, digitsLower)
	}
	return appendUint(buf, uint64(v), 10, digitsLower)
}

func appendUint(buf []byte, v uint64, base uint64, digits string) []byte {
	if v == 0 {
		return append(buf, '0')
	}

	// Use a small buffer on stack
	var tmp [64]byte
	i := len(tmp)

	for v > 0 {
		i--
		tmp[i] = digits[v%base]
		v /= base
	}

	return append(buf, tmp[i:]...)
}

// upper converts ASCII letters in b to upper case in place
func upper(b []byte) {
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
}
