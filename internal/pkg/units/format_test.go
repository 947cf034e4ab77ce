package units

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestFormatUnits(t *testing.T) {
	tests := []struct {
		raw      string
		decimals uint8
		want     string
	}{
		{"1500000", 6, "1.5"},
		{"1000000000000000000", 18, "1"},
		{"1234567890123456789", 18, "1.234567890123456789"},
		{"42", 0, "42"},
		{"0", 18, "0"},
		{"1", 18, "0.000000000000000001"},
	}

	for _, tt := range tests {
		v := new(uint256.Int)
		require.NoError(t, v.SetFromDecimal(tt.raw))
		require.Equal(t, tt.want, FormatUnits(v, tt.decimals), "FormatUnits(%s, %d)", tt.raw, tt.decimals)
	}
}

func TestParseUnits(t *testing.T) {
	tests := []struct {
		s        string
		decimals uint8
		want     string
	}{
		{"1.5", 6, "1500000"},
		{"1", 18, "1000000000000000000"},
		{"0.000001", 6, "1"},
		{"0", 0, "0"},
		{"12.34", 30, "12340000000000000000000000000000"},
	}

	for _, tt := range tests {
		v, err := ParseUnits(tt.s, tt.decimals)
		require.NoError(t, err, "ParseUnits(%q, %d)", tt.s, tt.decimals)
		require.Equal(t, tt.want, v.Dec())
	}
}

func TestParseUnits_Errors(t *testing.T) {
	// Negative amounts have no raw encoding.
	_, err := ParseUnits("-1", 6)
	require.ErrorIs(t, err, ErrAmountRange)

	// Fractional dust beyond the precision cannot be encoded.
	_, err = ParseUnits("0.0000001", 6)
	require.ErrorIs(t, err, ErrAmountRange)

	// 2^256 does not fit.
	_, err = ParseUnits("115792089237316195423570985008687907853269984665640564039457584007913129639936", 0)
	require.ErrorIs(t, err, ErrAmountRange)

	// Garbage input.
	_, err = ParseUnits("one", 6)
	require.Error(t, err)
}

func TestFormatParseRoundTrip(t *testing.T) {
	for _, raw := range []string{"1", "999999", "1000000000000000000", "1234567890123456789"} {
		v := new(uint256.Int)
		require.NoError(t, v.SetFromDecimal(raw))

		back, err := ParseUnits(FormatUnits(v, 18), 18)
		require.NoError(t, err)
		require.True(t, back.Eq(v), "round trip of %s", raw)
	}
}
