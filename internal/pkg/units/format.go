package units

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// ErrAmountRange is returned by ParseUnits for amounts that cannot be
// encoded at the requested precision: negative values, fractional digits
// beyond the precision, or magnitudes past 256 bits.
var ErrAmountRange = errors.New("units: amount not representable at this precision")

// FormatUnits renders a raw balance as a human-readable decimal string,
// e.g. FormatUnits(1500000, 6) == "1.5".
func FormatUnits(balance *uint256.Int, decimals uint8) string {
	return decimal.NewFromBigInt(balance.ToBig(), -int32(decimals)).String()
}

// ParseUnits parses a human-readable decimal string into the raw balance
// it encodes at the given precision.
func ParseUnits(s string, decimals uint8) (*uint256.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("units: parsing %q: %w", s, err)
	}
	raw := d.Shift(int32(decimals))
	if raw.Sign() < 0 || !raw.IsInteger() {
		return nil, ErrAmountRange
	}
	v, overflow := uint256.FromBig(raw.BigInt())
	if overflow {
		return nil, ErrAmountRange
	}
	return v, nil
}
