package roblox

import (
	"bytes"
	"math"
	"strconv"
)

// Robux is a price as reported upstream. Prices arrive as integers, null,
// or occasionally as floats or quoted numbers; anything that is not an
// integral number decodes as invalid instead of failing the whole body.
type Robux struct {
	Value int64
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Robux) UnmarshalJSON(b []byte) error {
	*r = Robux{}

	s := string(bytes.Trim(bytes.TrimSpace(b), `"`))
	if s == "" || s == "null" {
		return nil
	}

	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		*r = Robux{Value: v, Valid: true}
		return nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt64/2 {
		return nil
	}
	*r = Robux{Value: int64(f), Valid: true}
	return nil
}

// Positive returns the price and whether it is a usable positive amount.
func (r Robux) Positive() (int64, bool) {
	if !r.Valid || r.Value <= 0 {
		return 0, false
	}
	return r.Value, true
}

// Price builds a valid Robux value.
func Price(v int64) Robux {
	return Robux{Value: v, Valid: true}
}

// MarshalJSON implements json.Marshaler. Invalid prices encode as null.
func (r Robux) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte("null"), nil
	}
	return strconv.AppendInt(nil, r.Value, 10), nil
}
