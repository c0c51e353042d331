// Package models defines data structures shared by the merge engine, the codec and the store.
package models

import (
	"strconv"
	"time"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	// KindEmpty is a cell without a value.
	KindEmpty Kind = iota
	// KindText is a string cell.
	KindText
	// KindNumber is a numeric cell.
	KindNumber
	// KindBoolean is a TRUE/FALSE cell.
	KindBoolean
	// KindDateTime is a numeric cell carrying a date or time number format.
	KindDateTime
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindDateTime:
		return "datetime"
	}
	return "unknown"
}

// Value is a single cell value. The zero Value is empty.
type Value struct {
	kind Kind
	text string
	num  float64
	b    bool
	t    time.Time
}

// Empty returns an empty value.
func Empty() Value { return Value{} }

// Text returns a text value.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Number returns a numeric value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBoolean, b: b} }

// DateTime returns a date/time value.
func DateTime(t time.Time) Value { return Value{kind: KindDateTime, t: t} }

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsEmpty reports whether v holds no value.
func (v Value) IsEmpty() bool { return v.kind == KindEmpty }

// AsDateTime returns the time held by a date/time value.
func (v Value) AsDateTime() (time.Time, bool) { return v.t, v.kind == KindDateTime }

// Interface returns the Go value handed to the spreadsheet writer.
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return v.num
	case KindBoolean:
		return v.b
	case KindDateTime:
		return v.t
	default:
		return nil
	}
}

// String returns a display form of the value.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBoolean:
		if v.b {
			return "TRUE"
		}
		return "FALSE"
	case KindDateTime:
		return v.t.Format(time.RFC3339)
	default:
		return ""
	}
}

// Equal reports whether two values hold the same variant and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindText:
		return v.text == o.text
	case KindNumber:
		return v.num == o.num
	case KindBoolean:
		return v.b == o.b
	case KindDateTime:
		return v.t.Equal(o.t)
	}
	return true
}
