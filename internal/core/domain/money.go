package domain

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Cents is a fixed-point monetary amount held as an integer number of
// cents. All arithmetic stays exact; two-decimal formatting happens only
// at the parse/format boundary.
type Cents int64

var errInvalidAmount = errors.New("invalid amount")

// ParseCents parses a decimal string such as "12.34" or "-0.05".
// At most two fractional digits are accepted.
func ParseCents(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errInvalidAmount
	}

	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	intPart, fracPart, _ := strings.Cut(s, ".")
	if intPart == "" {
		intPart = "0"
	}
	// strconv.ParseInt would accept a sign inside either part, so both
	// must be plain digits here.
	if !allDigits(intPart) || (fracPart != "" && !allDigits(fracPart)) {
		return 0, fmt.Errorf("%w: %q", errInvalidAmount, s)
	}
	units, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errInvalidAmount, s)
	}

	var frac int64
	switch len(fracPart) {
	case 0:
	case 1:
		d, err := strconv.ParseInt(fracPart, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", errInvalidAmount, s)
		}
		frac = d * 10
	case 2:
		d, err := strconv.ParseInt(fracPart, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", errInvalidAmount, s)
		}
		frac = d
	default:
		return 0, fmt.Errorf("%w: %q has more than two decimal places", errInvalidAmount, s)
	}

	c := Cents(units*100 + frac)
	if neg {
		c = -c
	}
	return c, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// MulInt multiplies the amount by a unit count.
func (c Cents) MulInt(n int) Cents {
	return c * Cents(n)
}

func (c Cents) String() string {
	v := int64(c)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON renders the amount as a plain JSON number with exactly two
// decimal places.
func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalJSON accepts either a JSON number or a quoted decimal string.
func (c *Cents) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseCents(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Scan accepts the integer column value either natively or as the
// driver's textual representation (MySQL's text protocol delivers
// BIGINT columns as []byte).
func (c *Cents) Scan(src any) error {
	switch v := src.(type) {
	case int64:
		*c = Cents(v)
		return nil
	case []byte:
		return c.scanText(string(v))
	case string:
		return c.scanText(v)
	default:
		return fmt.Errorf("cents: cannot scan %T", src)
	}
}

func (c *Cents) scanText(s string) error {
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("cents: cannot scan %q: %w", s, err)
	}
	*c = Cents(i)
	return nil
}

func (c Cents) Value() (driver.Value, error) {
	return int64(c), nil
}
