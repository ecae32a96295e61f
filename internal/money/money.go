// Package money centralises monetary rounding and formatting so totals never
// diverge across call sites.
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrValueConversion indicates an amount could not be parsed as a number.
var ErrValueConversion = errors.New("money: value conversion")

// Zero is the canonical zero amount at scale 2.
var Zero = decimal.New(0, -2)

// Quantize converts any numeric representation to a decimal with exactly two
// fractional digits, rounding half away from zero (0.005 -> 0.01, -0.005 -> -0.01).
func Quantize(value any) (decimal.Decimal, error) {
	d, err := parse(value)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return d.Round(2), nil
}

// String renders an amount as a fixed two-decimal string for wire transport.
func String(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func parse(value any) (decimal.Decimal, error) {
	switch v := value.(type) {
	case decimal.Decimal:
		return v, nil
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrValueConversion, v)
		}
		return d, nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case float32:
		return decimal.NewFromFloat32(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int32:
		return decimal.NewFromInt32(v), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case nil:
		return decimal.Decimal{}, fmt.Errorf("%w: nil amount", ErrValueConversion)
	default:
		return decimal.Decimal{}, fmt.Errorf("%w: unsupported type %T", ErrValueConversion, value)
	}
}
