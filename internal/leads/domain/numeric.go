package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

type numericKind uint8

const (
	numericAbsent numericKind = iota
	numericNumber
	numericString
)

// NumericInput is a lead's loosely typed numeric field: absent, a number or
// whatever text was captured ("Acme, $50,000").
type NumericInput struct {
	kind   numericKind
	number float64
	raw    string
}

// Number wraps a numeric value.
func Number(v float64) NumericInput {
	return NumericInput{kind: numericNumber, number: v}
}

// RawString wraps free text captured for a numeric field.
func RawString(s string) NumericInput {
	return NumericInput{kind: numericString, raw: s}
}

// IsZero reports whether the value is absent.
func (n NumericInput) IsZero() bool {
	return n.kind == numericAbsent
}

// Normalize returns the non-negative number the input represents.
func (n NumericInput) Normalize() float64 {
	return NormalizeNumeric(n)
}

// String renders the captured value for logs and tests.
func (n NumericInput) String() string {
	switch n.kind {
	case numericNumber:
		return strconv.FormatFloat(n.number, 'f', -1, 64)
	case numericString:
		return n.raw
	default:
		return ""
	}
}

// NormalizeNumeric coerces in to a finite, non-negative float64.
// Strings keep only digits and dots; the longest leading decimal of what
// remains is parsed. Anything unparseable yields 0.
func NormalizeNumeric(in NumericInput) float64 {
	switch in.kind {
	case numericNumber:
		return clampNumber(in.number)
	case numericString:
		return clampNumber(parseLeadingDecimal(stripNonNumeric(in.raw)))
	default:
		return 0
	}
}

func clampNumber(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func stripNonNumeric(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// parseLeadingDecimal parses the longest prefix of s (digits and dots only)
// that forms a decimal number, so "1.2.3" yields 1.2.
func parseLeadingDecimal(s string) float64 {
	end := len(s)
	if first := strings.IndexByte(s, '.'); first >= 0 {
		if second := strings.IndexByte(s[first+1:], '.'); second >= 0 {
			end = first + 1 + second
		}
	}
	prefix := s[:end]
	if strings.Trim(prefix, ".") == "" {
		return 0
	}

	v, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		return 0
	}
	return v
}

// MarshalJSON encodes absent as null and keeps the captured shape otherwise.
func (n NumericInput) MarshalJSON() ([]byte, error) {
	switch n.kind {
	case numericNumber:
		if math.IsNaN(n.number) || math.IsInf(n.number, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(n.number)
	case numericString:
		return json.Marshal(n.raw)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts null, a JSON number or a JSON string.
func (n *NumericInput) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*n = NumericInput{}
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		*n = RawString(raw)
		return nil
	}

	var number float64
	if err := json.Unmarshal(data, &number); err != nil {
		return fmt.Errorf("numeric input: expected number or string, got %s", trimmed)
	}
	*n = Number(number)
	return nil
}

// MarshalBSONValue stores absent values as null.
func (n NumericInput) MarshalBSONValue() (bsontype.Type, []byte, error) {
	switch n.kind {
	case numericNumber:
		return bson.MarshalValue(n.number)
	case numericString:
		return bson.MarshalValue(n.raw)
	default:
		return bsontype.Null, nil, nil
	}
}

// UnmarshalBSONValue accepts null, double, int32, int64 and string values.
func (n *NumericInput) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*n = NumericInput{}
		return nil
	case bsontype.String:
		s, ok := rv.StringValueOK()
		if !ok {
			return fmt.Errorf("numeric input: malformed string")
		}
		*n = RawString(s)
		return nil
	case bsontype.Double:
		v, ok := rv.DoubleOK()
		if !ok {
			return fmt.Errorf("numeric input: malformed double")
		}
		*n = Number(v)
		return nil
	case bsontype.Int32:
		v, ok := rv.Int32OK()
		if !ok {
			return fmt.Errorf("numeric input: malformed int32")
		}
		*n = Number(float64(v))
		return nil
	case bsontype.Int64:
		v, ok := rv.Int64OK()
		if !ok {
			return fmt.Errorf("numeric input: malformed int64")
		}
		*n = Number(float64(v))
		return nil
	default:
		return fmt.Errorf("numeric input: unsupported bson type %s", t)
	}
}
