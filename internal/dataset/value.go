package dataset

import (
	"strconv"
	"strings"
	"time"
)

// Kind identifies what a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindInt
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindInt:
		return "int"
	case KindDate:
		return "date"
	default:
		return "null"
	}
}

// Value is a single typed, nullable cell. The zero Value is null.
type Value struct {
	kind Kind
	str  string
	num  float64
	n    int
	t    time.Time
}

// Null returns the absent marker.
func Null() Value { return Value{} }

// String returns a text cell.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number returns a floating point cell.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Int returns an integer cell.
func Int(n int) Value { return Value{kind: KindInt, n: n} }

// Date returns a date cell.
func Date(t time.Time) Value { return Value{kind: KindDate, t: t} }

// Kind reports the kind of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the absent marker.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Text returns the raw text of a string cell and "" for any other kind.
func (v Value) Text() string {
	if v.kind == KindString {
		return v.str
	}
	return ""
}

// Float returns the numeric content of number and integer cells.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindInt:
		return float64(v.n), true
	default:
		return 0, false
	}
}

// IntValue returns the content of an integer cell.
func (v Value) IntValue() (int, bool) {
	if v.kind == KindInt {
		return v.n, true
	}
	return 0, false
}

// Time returns the content of a date cell.
func (v Value) Time() (time.Time, bool) {
	if v.kind == KindDate {
		return v.t, true
	}
	return time.Time{}, false
}

// String formats v for flat output. Nulls format as "".
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindInt:
		return strconv.Itoa(v.n)
	case KindDate:
		return FormatDate(v.t)
	default:
		return ""
	}
}

// Any returns v as a plain Go value for database drivers: nil, string,
// float64, int or time.Time.
func (v Value) Any() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindInt:
		return v.n
	case KindDate:
		return v.t
	default:
		return nil
	}
}

// Equal reports whether two cells hold the same kind and content. Two
// nulls are equal.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindNumber:
		return v.num == o.num
	case KindInt:
		return v.n == o.n
	case KindDate:
		return v.t.Equal(o.t)
	default:
		return true
	}
}

// key is a kind-qualified, length-prefixed encoding used for row identity.
// Keys of consecutive cells can be concatenated without ambiguity.
func (v Value) key() string {
	s := v.String()
	return strconv.Itoa(int(v.kind)) + ":" + strconv.Itoa(len(s)) + ":" + s
}

// FormatDate renders a date as 2006-01-02, keeping the clock only when it
// is not midnight.
func FormatDate(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(time.DateOnly)
	}
	return t.Format(time.DateTime)
}

var nullTokens = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// IsNullToken reports whether a raw cell should load as null.
func IsNullToken(s string) bool {
	_, ok := nullTokens[strings.TrimSpace(s)]
	return ok
}
