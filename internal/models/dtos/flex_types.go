package dtos

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// -------- helper types -----------------------------------------------------
//
// The provider is loose with JSON types: ids arrive as numbers or numeric
// strings, flags as 0/1 or booleans, money as numbers or strings. These types
// never fail decoding; a value that cannot be read becomes "absent".

// FlexInt accepts 12, 12.0, "12", true/false and null.
type FlexInt struct {
	Value int
	Valid bool
}

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	*f = FlexInt{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	switch b[0] {
	case 't':
		*f = FlexInt{Value: 1, Valid: true}
	case 'f':
		*f = FlexInt{Value: 0, Valid: true}
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			*f = FlexInt{Value: n, Valid: true}
		}
	default:
		var n float64
		if err := json.Unmarshal(b, &n); err == nil && !math.IsInf(n, 0) && !math.IsNaN(n) {
			*f = FlexInt{Value: int(n), Valid: true}
		}
	}
	return nil
}

func (f FlexInt) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(f.Value)), nil
}

// Ptr returns nil when absent
func (f FlexInt) Ptr() *int {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}

// Is reports whether the value is present and equal to n
func (f FlexInt) Is(n int) bool {
	return f.Valid && f.Value == n
}

// FlexString accepts strings, numbers and booleans as text; null is absent.
// Surrounding whitespace is kept; callers trim.
type FlexString struct {
	Value string
	Valid bool
}

func (f *FlexString) UnmarshalJSON(b []byte) error {
	*f = FlexString{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		*f = FlexString{Value: s, Valid: true}
		return nil
	}
	if b[0] == '{' || b[0] == '[' {
		return nil
	}
	*f = FlexString{Value: string(b), Valid: true}
	return nil
}

func (f FlexString) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Trimmed returns the trimmed value, or nil when absent or blank
func (f FlexString) Trimmed() *string {
	if !f.Valid {
		return nil
	}
	s := strings.TrimSpace(f.Value)
	if s == "" {
		return nil
	}
	return &s
}

// FlexDecimal accepts numbers and numeric strings; blanks and garbage are absent.
type FlexDecimal struct {
	decimal.NullDecimal
}

func (f *FlexDecimal) UnmarshalJSON(b []byte) error {
	f.NullDecimal = decimal.NullDecimal{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	s := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	f.NullDecimal = decimal.NewNullDecimal(d)
	return nil
}

func (f FlexDecimal) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return []byte(f.Decimal.String()), nil
}

// Display renders the value, or fallback when absent
func (f FlexDecimal) Display(fallback string) string {
	if !f.Valid {
		return fallback
	}
	return f.Decimal.String()
}
