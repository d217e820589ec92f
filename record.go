package lfslog

import (
	"encoding/binary"
	"errors"
)

// Binary record layout written by Logger:
//
//	magic   uint32 LE
//	version uint8
//	level   uint8
//	seq     uint64 LE
//	time    uint64 LE unix nanoseconds
//	msglen  uint16 LE, msg bytes
//	nfields uint8, then per field: keylen uint8, key, type uint8, value
//
// Int, uint and bool values are 8 bytes LE; strings are uint16 LE length
// plus bytes.
const (
	MagicHeader = 0x4C53464C // "LFSL"
	Version     = 1

	headerSize = 22
	recordCap  = 512
)

var (
	errShortRecord = errors.New("invalid log record: too short")
	errBadMagic    = errors.New("invalid log record: bad magic header")
)

// encodeRecord writes a record into buf and returns its length. The message
// and fields are clipped to what fits.
func encodeRecord(buf *[recordCap]byte, level Level, seq, now uint64, msg []byte, fields []Field) int {
	binary.LittleEndian.PutUint32(buf[0:], MagicHeader)
	buf[4] = Version
	buf[5] = byte(level)
	binary.LittleEndian.PutUint64(buf[6:], seq)
	binary.LittleEndian.PutUint64(buf[14:], now)
	pos := headerSize

	// Message, leaving room for the field count
	msgLen := len(msg)
	if room := len(buf) - pos - 3; msgLen > room {
		msgLen = room
	}
	binary.LittleEndian.PutUint16(buf[pos:], uint16(msgLen))
	pos += 2
	pos += copy(buf[pos:], msg[:msgLen])

	countAt := pos
	pos++
	count := 0
	for i := range fields {
		if count == 255 {
			break
		}
		n := encodeField(buf[pos:], &fields[i])
		if n == 0 {
			break // No more space
		}
		pos += n
		count++
	}
	buf[countAt] = byte(count)

	return pos
}

// encodeField encodes a field, or returns 0 if it does not fit whole
func encodeField(buf []byte, f *Field) int {
	keyLen := len(f.Key)
	if keyLen > 255 {
		keyLen = 255
	}

	need := 1 + keyLen + 1
	switch f.Type {
	case FieldTypeString:
		need += 2 + len(f.str)
	default:
		need += 8
	}
	if need > len(buf) || len(f.str) > 0xFFFF {
		return 0
	}

	pos := 0
	buf[pos] = byte(keyLen)
	pos++
	pos += copy(buf[pos:], f.Key[:keyLen])
	buf[pos] = byte(f.Type)
	pos++

	if f.Type == FieldTypeString {
		binary.LittleEndian.PutUint16(buf[pos:], uint16(len(f.str)))
		pos += 2
		pos += copy(buf[pos:], f.str)
		return pos
	}
	binary.LittleEndian.PutUint64(buf[pos:], f.num)
	return pos + 8
}

// Record is a decoded view of a binary log record. Slices alias the input.
type Record struct {
	Level    Level
	Sequence uint64
	Time     uint64
	Msg      []byte

	fields  []byte
	nfields int
}

// ParseRecord decodes the record in b
func ParseRecord(b []byte) (Record, error) {
	if len(b) < headerSize+2 {
		return Record{}, errShortRecord
	}
	if binary.LittleEndian.Uint32(b[0:4]) != MagicHeader {
		return Record{}, errBadMagic
	}

	r := Record{
		Level:    Level(b[5]),
		Sequence: binary.LittleEndian.Uint64(b[6:14]),
		Time:     binary.LittleEndian.Uint64(b[14:22]),
	}
	pos := headerSize
	msgLen := int(binary.LittleEndian.Uint16(b[pos:]))
	pos += 2
	if pos+msgLen > len(b) {
		return Record{}, errShortRecord
	}
	r.Msg = b[pos : pos+msgLen]
	pos += msgLen

	if pos < len(b) {
		r.nfields = int(b[pos])
		r.fields = b[pos+1:]
	}
	return r, nil
}

// RecordField is one decoded field
type RecordField struct {
	Key  []byte
	Type FieldType
	Num  uint64
	Str  []byte
}

// EachField calls fn for every well-formed field in order
func (r *Record) EachField(fn func(RecordField)) {
	b := r.fields
	for i := 0; i < r.nfields; i++ {
		if len(b) < 1 {
			return
		}
		keyLen := int(b[0])
		if len(b) < 1+keyLen+1 {
			return
		}
		f := RecordField{Key: b[1 : 1+keyLen], Type: FieldType(b[1+keyLen])}
		b = b[2+keyLen:]

		switch f.Type {
		case FieldTypeString:
			if len(b) < 2 {
				return
			}
			n := int(binary.LittleEndian.Uint16(b))
			if len(b) < 2+n {
				return
			}
			f.Str = b[2 : 2+n]
			b = b[2+n:]
		case FieldTypeInt, FieldTypeUint, FieldTypeBool:
			if len(b) < 8 {
				return
			}
			f.Num = binary.LittleEndian.Uint64(b)
			b = b[8:]
		default:
			return
		}
		fn(f)
	}
}

// AppendValue renders the field value as text
func (f RecordField) AppendValue(buf []byte) []byte {
	switch f.Type {
	case FieldTypeInt:
		return appendInt(buf, int64(f.Num))
	case FieldTypeUint:
		return appendUint(buf, f.Num, 10, digitsLower)
	case FieldTypeBool:
		if f.Num != 0 {
			return append(buf, "true"...)
		}
		return append(buf, "false"...)
	default:
		return append(buf, f.Str...)
	}
}
