package table

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindNested
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindNested:
		return "nested"
	}
	return "unknown"
}

// Value is a single table cell. The zero Value is null.
type Value struct {
	kind   Kind
	str    string
	num    float64
	flag   bool
	nested any
}

func Null() Value                { return Value{} }
func String(s string) Value      { return Value{kind: KindString, str: s} }
func Number(f float64) Value     { return Value{kind: KindNumber, num: f} }
func Bool(b bool) Value          { return Value{kind: KindBool, flag: b} }
func Nested(v any) Value         { return Value{kind: KindNested, nested: v} }
func (v Value) Kind() Kind       { return v.kind }
func (v Value) IsNull() bool     { return v.kind == KindNull }
func (v Value) Raw() (any, bool) { return v.nested, v.kind == KindNested }

// FromAny converts a decoded JSON (or driver) value into a cell.
// Anything that is not a scalar becomes a nested value.
func FromAny(x any) Value {
	switch t := x.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case string:
		return String(t)
	case []byte:
		return String(string(t))
	case bool:
		return Bool(t)
	case float64:
		if math.IsNaN(t) {
			return Null()
		}
		return Number(t)
	case float32:
		return FromAny(float64(t))
	case int:
		return Number(float64(t))
	case int8:
		return Number(float64(t))
	case int16:
		return Number(float64(t))
	case int32:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case uint:
		return Number(float64(t))
	case uint8:
		return Number(float64(t))
	case uint16:
		return Number(float64(t))
	case uint32:
		return Number(float64(t))
	case uint64:
		return Number(float64(t))
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return Number(f)
		}
		return String(t.String())
	}
	return Nested(x)
}

// Text renders the value the way a user would read it. Null renders as "".
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.flag)
	case KindNested:
		return encodeNested(v.nested)
	}
	return ""
}

// Float reports the numeric reading of the value. Strings are parsed.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Canonical returns a deterministic serialization used for identity
// comparisons. Two cells are equal exactly when their canonical forms are.
func (v Value) Canonical() string {
	switch v.kind {
	case KindString:
		return "s:" + v.str
	case KindNumber:
		n := v.num
		if n == 0 {
			// -0 and 0 are the same cell value
			n = 0
		}
		return "n:" + strconv.FormatFloat(n, 'g', -1, 64)
	case KindBool:
		if v.flag {
			return "b:true"
		}
		return "b:false"
	case KindNested:
		return "j:" + encodeNested(v.nested)
	}
	return "\x00null"
}

// encodeNested relies on encoding/json sorting map keys; values it cannot
// encode fall back to fmt formatting.
func encodeNested(x any) string {
	b, err := json.Marshal(x)
	if err != nil {
		return fmt.Sprintf("%v", x)
	}
	return string(b)
}
