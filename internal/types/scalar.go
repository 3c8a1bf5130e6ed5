package types

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Scalar holds a JSON or SQL scalar as text. The upstream API mixes strings and
// numbers for the same field, so nothing is coerced until a caller asks for it.
type Scalar struct {
	Raw string
	Set bool
}

// S builds a Scalar from text.
func S(raw string) Scalar {
	return Scalar{Raw: raw, Set: true}
}

// String returns the raw text, empty when unset.
func (s Scalar) String() string {
	return s.Raw
}

// Empty reports whether the scalar is unset or blank.
func (s Scalar) Empty() bool {
	return !s.Set || strings.TrimSpace(s.Raw) == ""
}

// Float returns the value as float64, or 0.0 when it is missing or not numeric.
func (s Scalar) Float() float64 {
	f, ok := s.ParseFloat()
	if !ok {
		return 0.0
	}
	return f
}

// ParseFloat parses the trimmed text and reports whether it was a finite number.
func (s Scalar) ParseFloat() (float64, bool) {
	if s.Empty() {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s.Raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func (s *Scalar) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*s = Scalar{}
		return nil
	}
	if b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = S(str)
		return nil
	}
	if b[0] == '{' || b[0] == '[' {
		return fmt.Errorf("expected scalar, got %s", string(b[:1]))
	}
	*s = S(string(b))
	return nil
}

func (s Scalar) MarshalJSON() ([]byte, error) {
	if !s.Set {
		return []byte("null"), nil
	}
	return json.Marshal(s.Raw)
}

// Scan implements sql.Scanner.
func (s *Scalar) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*s = Scalar{}
	case []byte:
		*s = S(string(v))
	case string:
		*s = S(v)
	case int64:
		*s = S(strconv.FormatInt(v, 10))
	case float64:
		*s = S(strconv.FormatFloat(v, 'f', -1, 64))
	case bool:
		*s = S(strconv.FormatBool(v))
	case time.Time:
		*s = S(v.Format(time.RFC3339))
	default:
		return fmt.Errorf("cannot scan %T into Scalar", src)
	}
	return nil
}

// Value implements driver.Valuer. Blank values are stored as NULL.
func (s Scalar) Value() (driver.Value, error) {
	if s.Empty() {
		return nil, nil
	}
	return s.Raw, nil
}

// Number is a Scalar bound for a numeric column: anything that does not parse
// as a float is stored as NULL rather than failing the whole statement.
type Number struct {
	Scalar
}

// N builds a Number from text.
func N(raw string) Number {
	return Number{Scalar: S(raw)}
}

// F builds a Number from a float.
func F(v float64) Number {
	return N(strconv.FormatFloat(v, 'f', -1, 64))
}

func (n Number) Value() (driver.Value, error) {
	if _, ok := n.ParseFloat(); !ok {
		return nil, nil
	}
	return strings.TrimSpace(n.Raw), nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if f, ok := n.ParseFloat(); ok {
		return json.Marshal(f)
	}
	return n.Scalar.MarshalJSON()
}
