package testutil

import (
	"testing"

	"github.com/btclayer2/optimism/internal/pkg/abis"
)

// DecimalsWord encodes v as a decimals() return payload: one 32-byte
// word holding a uint8.
func DecimalsWord(v uint8) []byte {
	word := make([]byte, 32)
	word[31] = v
	return word
}

// PackString ABI-encodes s as return data for a string-returning ERC20
// accessor ("symbol" or "name").
func PackString(t *testing.T, method, s string) []byte {
	t.Helper()
	erc20ABI, err := abis.ERC20()
	if err != nil {
		t.Fatalf("loading ERC20 ABI: %v", err)
	}
	data, err := erc20ABI.Methods[method].Outputs.Pack(s)
	if err != nil {
		t.Fatalf("packing %s: %v", method, err)
	}
	return data
}

// MulticallResult matches the multicall3 aggregate3 output tuple.
type MulticallResult struct {
	Success    bool
	ReturnData []byte
}

// PackAggregate3 ABI-encodes results as aggregate3 return data.
func PackAggregate3(t *testing.T, results []MulticallResult) []byte {
	t.Helper()
	multicallABI, err := abis.Multicall3()
	if err != nil {
		t.Fatalf("loading multicall3 ABI: %v", err)
	}
	data, err := multicallABI.Methods["aggregate3"].Outputs.Pack(results)
	if err != nil {
		t.Fatalf("packing aggregate3: %v", err)
	}
	return data
}
