package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Request fields arrive as raw JSON so that "absent" and null stay
// distinguishable and loosely typed clients (numbers sent as strings, and so
// on) are coerced the same way a browser's Number()/String() would.

var decimalLiteral = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// ErrNotString is returned when a field that must be text holds an object or array.
var ErrNotString = errors.New("value is not a string")

// Present reports whether the field appeared in the request body at all.
func Present(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) > 0
}

// Nullish reports whether the field is absent or an explicit null.
func Nullish(raw json.RawMessage) bool {
	v, ok := decodeRaw(raw)
	return !ok || v == nil
}

// Truthy applies JavaScript truthiness to a JSON value: absent, null, false,
// 0, NaN and "" are falsy, everything else (including objects) is truthy.
func Truthy(raw json.RawMessage) bool {
	v, ok := decodeRaw(raw)
	if !ok {
		return false
	}
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case json.Number:
		f := numberFromLiteral(val.String())
		return f != 0 && !math.IsNaN(f)
	case string:
		return val != ""
	default:
		return true
	}
}

// NumberOf converts a JSON value with Number() semantics. An absent field is
// NaN, null is 0, booleans are 1/0, strings are parsed after trimming
// (blank is 0) and anything that does not parse is NaN.
func NumberOf(raw json.RawMessage) float64 {
	v, ok := decodeRaw(raw)
	if !ok {
		return math.NaN()
	}
	switch val := v.(type) {
	case nil:
		return 0
	case bool:
		if val {
			return 1
		}
		return 0
	case json.Number:
		return numberFromLiteral(val.String())
	case string:
		return ParseNumber(val)
	case []any:
		// Number([]) is 0 and Number([x]) is Number(String(x)).
		switch len(val) {
		case 0:
			return 0
		case 1:
			inner, err := json.Marshal(val[0])
			if err != nil {
				return math.NaN()
			}
			s, err := StringOf(inner)
			if err != nil {
				return math.NaN()
			}
			return ParseNumber(s)
		}
		return math.NaN()
	default:
		return math.NaN()
	}
}

// StringOf converts a JSON value to text. Absent and null yield "", numbers
// and booleans are formatted, objects and arrays are rejected.
func StringOf(raw json.RawMessage) (string, error) {
	v, ok := decodeRaw(raw)
	if !ok {
		return "", nil
	}
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case bool:
		return strconv.FormatBool(val), nil
	case json.Number:
		return FormatNumber(numberFromLiteral(val.String())), nil
	default:
		return "", ErrNotString
	}
}

// AsString returns the value only when the field holds a JSON string.
func AsString(raw json.RawMessage) (string, bool) {
	v, ok := decodeRaw(raw)
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

// ParseNumber parses text the way Number(string) does: surrounding
// whitespace is ignored, blank text is 0, and decimal, exponent, Infinity
// and 0x/0o/0b integer forms are accepted. Everything else is NaN.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			n, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return math.NaN()
			}
			return float64(n)
		}
	}
	return numberFromLiteral(s)
}

// FormatNumber renders a float the way String(number) does for the values
// the catalog deals with.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// IsInteger reports whether f is finite and has no fractional part.
func IsInteger(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f == math.Trunc(f)
}

func numberFromLiteral(s string) float64 {
	if !decimalLiteral.MatchString(s) {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Out-of-range literals saturate to ±Inf (or 0) like a JS engine.
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return f
		}
		return math.NaN()
	}
	return f
}

func decodeRaw(raw json.RawMessage) (any, bool) {
	if !Present(raw) {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	return v, true
}
