// Package money provides a fixed-point monetary amount stored as integer
// cents. Sums never pass through binary floating point; conversion to a
// two-decimal float happens only at the JSON boundary.
package money

import (
	"fmt"
	"math"
	"strconv"
)

// Amount is a monetary value in cents.
type Amount int64

// FromFloat converts a two-decimal float (as received from JSON) to cents,
// rounding to the nearest cent.
func FromFloat(f float64) Amount {
	return Amount(math.Round(f * 100))
}

// Float64 returns the amount as a float for JSON transport.
func (a Amount) Float64() float64 {
	return float64(a) / 100
}

// String formats the amount with two decimal places, e.g. "750.00".
func (a Amount) String() string {
	return strconv.FormatFloat(a.Float64(), 'f', 2, 64)
}

// MarshalJSON encodes the amount as a two-decimal JSON number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON decodes a JSON number into cents.
func (a *Amount) UnmarshalJSON(data []byte) error {
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid monetary amount %q: %w", string(data), err)
	}
	*a = FromFloat(f)
	return nil
}
