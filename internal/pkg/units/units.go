// Package units converts token balances between decimal precisions.
//
// A balance is only meaningful together with the decimal count it was
// encoded under; the functions here never carry that pairing implicitly,
// callers track it themselves.
package units

import (
	"errors"

	"github.com/holiman/uint256"
)

// maxFactorExp is the largest n for which 10^n fits in 256 bits.
const maxFactorExp = 77

// ErrOverflow is returned when a conversion factor or product exceeds the
// 256-bit range. Balance math never wraps silently.
var ErrOverflow = errors.New("units: value exceeds 256 bits")

var ten = uint256.NewInt(10)

// DecimalFactor returns 10^diff, the scaling factor between two precisions
// diff decimal places apart.
func DecimalFactor(diff uint8) (*uint256.Int, error) {
	if diff > maxFactorExp {
		return nil, ErrOverflow
	}
	return new(uint256.Int).Exp(ten, uint256.NewInt(uint64(diff))), nil
}

// Normalize rescales balance, encoded with originDecimals fractional
// digits, to the equivalent amount encoded with targetDecimals fractional
// digits. Reducing precision floor-divides and silently drops the
// truncated digits; Remainder recovers them. Increasing precision
// multiplies exactly.
//
// The input is never mutated; a fresh value is returned.
func Normalize(originDecimals, targetDecimals uint8, balance *uint256.Int) (*uint256.Int, error) {
	switch {
	case originDecimals == targetDecimals:
		return new(uint256.Int).Set(balance), nil
	case originDecimals > targetDecimals:
		factor, err := DecimalFactor(originDecimals - targetDecimals)
		if err != nil {
			return nil, err
		}
		return new(uint256.Int).Div(balance, factor), nil
	default:
		factor, err := DecimalFactor(targetDecimals - originDecimals)
		if err != nil {
			return nil, err
		}
		scaled, overflow := new(uint256.Int).MulOverflow(balance, factor)
		if overflow {
			return nil, ErrOverflow
		}
		return scaled, nil
	}
}

// Remainder returns the amount Normalize discards when reducing
// originDecimals down to a smaller targetDecimals, so that
//
//	normalized*10^(origin-target) + remainder == balance
//
// For originDecimals <= targetDecimals nothing is truncated and the
// result is zero.
func Remainder(originDecimals, targetDecimals uint8, balance *uint256.Int) (*uint256.Int, error) {
	if originDecimals <= targetDecimals {
		return new(uint256.Int), nil
	}
	factor, err := DecimalFactor(originDecimals - targetDecimals)
	if err != nil {
		return nil, err
	}
	return new(uint256.Int).Mod(balance, factor), nil
}
