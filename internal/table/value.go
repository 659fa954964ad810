package table

import (
	"fmt"
	"strconv"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindMissing Kind = iota
	KindString
	KindNumber
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is a tagged scalar cell. The zero Value is Missing, which is
// distinct from a present empty string.
type Value struct {
	kind Kind
	str  string
	num  float64
}

// Missing returns the explicit missing marker.
func Missing() Value { return Value{} }

// String returns a present text value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number returns a present numeric value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsMissing reports whether v is the missing marker.
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// Str returns the text payload and whether v holds text.
func (v Value) Str() (string, bool) { return v.str, v.kind == KindString }

// Num returns the numeric payload and whether v holds a number.
func (v Value) Num() (float64, bool) { return v.num, v.kind == KindNumber }

// Text renders a present value as a string. Numbers use the shortest
// representation that round-trips, so 1234 renders as "1234".
// Missing renders as the empty string with ok=false.
func (v Value) Text() (s string, ok bool) {
	switch v.kind {
	case KindString:
		return v.str, true
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64), true
	default:
		return "", false
	}
}

// Equal reports whether a and b hold the same variant and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindNumber:
		return v.num == o.num
	default:
		return true
	}
}

// GoString is used by %#v and test failure output.
func (v Value) GoString() string {
	switch v.kind {
	case KindString:
		return strconv.Quote(v.str)
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	default:
		return "<missing>"
	}
}

// String implements fmt.Stringer.
func (v Value) String() string { return v.GoString() }
