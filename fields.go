package lfslog

import (
	"strconv"
)

// FieldType represents the type of a field
type FieldType uint8

const (
	FieldTypeInt FieldType = iota
	FieldTypeUint
	FieldTypeString
	FieldTypeBool
)

// Field is a typed key/value attached to a message without allocations
type Field struct {
	Key  string
	Type FieldType
	// Union-like storage - only one is used based on Type
	num uint64 // For int/uint/bool
	str string // For string
}

// Int creates an int field
//
//go:inline
func Int(key string, val int64) Field {
	return Field{Key: key, Type: FieldTypeInt, num: uint64(val)}
}

// Uint creates a uint field
//
//go:inline
func Uint(key string, val uint64) Field {
	return Field{Key: key, Type: FieldTypeUint, num: val}
}

// String creates a string field
//
//go:inline
func String(key string, val string) Field {
	return Field{Key: key, Type: FieldTypeString, str: val}
}

// Bool creates a bool field
//
//go:inline
func Bool(key string, val bool) Field {
	n := uint64(0)
	if val {
		n = 1
	}
	return Field{Key: key, Type: FieldTypeBool, num: n}
}

// Int64 returns the value of an int field
func (f Field) Int64() int64 { return int64(f.num) }

// Uint64 returns the value of a uint field
func (f Field) Uint64() uint64 { return f.num }

// Str returns the value of a string field
func (f Field) Str() string { return f.str }

// Bool returns the value of a bool field
func (f Field) Bool() bool { return f.num != 0 }

// Value renders the field value as text
func (f Field) Value() string {
	switch f.Type {
	case FieldTypeInt:
		return strconv.FormatInt(int64(f.num), 10)
	case FieldTypeUint:
		return strconv.FormatUint(f.num, 10)
	case FieldTypeBool:
		return strconv.FormatBool(f.num != 0)
	default:
		return f.str
	}
}
