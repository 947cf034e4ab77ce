package tokenmeta

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/btclayer2/optimism/internal/ports/outbound"
	"github.com/btclayer2/optimism/internal/testutil"
)

var (
	dai  = common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F")
	usdc = common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
)

func metadataResults(t *testing.T, decimals outbound.Result, symbol, name string) []outbound.Result {
	t.Helper()
	return []outbound.Result{
		decimals,
		{Success: true, ReturnData: testutil.PackString(t, "symbol", symbol)},
		{Success: true, ReturnData: testutil.PackString(t, "name", name)},
	}
}

func TestService_Resolve(t *testing.T) {
	mc := testutil.NewMockMulticaller()
	mc.ExecuteFn = func(_ context.Context, calls []outbound.Call, blockNumber *big.Int) ([]outbound.Result, error) {
		if len(calls) != 6 {
			t.Fatalf("expected 6 calls (3 per token), got %d", len(calls))
		}
		for _, call := range calls {
			if !call.AllowFailure {
				t.Errorf("call to %s has AllowFailure=false, want true", call.Target.Hex())
			}
		}
		if blockNumber != nil {
			t.Errorf("blockNumber = %s, want nil", blockNumber)
		}
		var results []outbound.Result
		results = append(results, metadataResults(t,
			outbound.Result{Success: true, ReturnData: testutil.DecimalsWord(18)}, "DAI", "Dai Stablecoin")...)
		results = append(results, metadataResults(t,
			outbound.Result{Success: true, ReturnData: testutil.DecimalsWord(6)}, "USDC", "USD Coin")...)
		return results, nil
	}

	svc, err := NewService(mc, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	got, err := svc.Resolve(context.Background(), []common.Address{dai, usdc})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d tokens, want 2", len(got))
	}
	if got[dai].Decimals != 18 || got[dai].Symbol != "DAI" {
		t.Errorf("dai = %+v", got[dai])
	}
	if got[usdc].Decimals != 6 || got[usdc].Name != "USD Coin" {
		t.Errorf("usdc = %+v", got[usdc])
	}
}

func TestService_Resolve_DecimalsFallback(t *testing.T) {
	tests := []struct {
		name     string
		decimals outbound.Result
		want     uint8
	}{
		{
			name:     "call failed",
			decimals: outbound.Result{Success: false},
			want:     18,
		},
		{
			name:     "payload empty",
			decimals: outbound.Result{Success: true, ReturnData: []byte{}},
			want:     18,
		},
		{
			name:     "payload wrong size",
			decimals: outbound.Result{Success: true, ReturnData: make([]byte, 64)},
			want:     18,
		},
		{
			name:     "payload valid",
			decimals: outbound.Result{Success: true, ReturnData: testutil.DecimalsWord(8)},
			want:     8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mc := testutil.NewMockMulticaller()
			mc.ExecuteFn = func(_ context.Context, _ []outbound.Call, _ *big.Int) ([]outbound.Result, error) {
				return metadataResults(t, tt.decimals, "TKN", "Token"), nil
			}

			svc, err := NewService(mc, nil)
			if err != nil {
				t.Fatalf("NewService: %v", err)
			}

			got, err := svc.Resolve(context.Background(), []common.Address{dai})
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if got[dai].Decimals != tt.want {
				t.Errorf("Decimals = %d, want %d", got[dai].Decimals, tt.want)
			}
		})
	}
}

func TestService_Resolve_CachesAcrossCalls(t *testing.T) {
	mc := testutil.NewMockMulticaller()
	mc.ExecuteFn = func(_ context.Context, _ []outbound.Call, _ *big.Int) ([]outbound.Result, error) {
		return metadataResults(t,
			outbound.Result{Success: true, ReturnData: testutil.DecimalsWord(6)}, "USDC", "USD Coin"), nil
	}

	svc, err := NewService(mc, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	for i := 0; i < 2; i++ {
		got, err := svc.Resolve(context.Background(), []common.Address{usdc})
		if err != nil {
			t.Fatalf("Resolve #%d: %v", i+1, err)
		}
		if got[usdc].Decimals != 6 {
			t.Errorf("Resolve #%d Decimals = %d, want 6", i+1, got[usdc].Decimals)
		}
	}
	if mc.CallCount != 1 {
		t.Errorf("CallCount = %d, want 1 (second resolve served from cache)", mc.CallCount)
	}
}

func TestService_Resolve_DeduplicatesRequest(t *testing.T) {
	mc := testutil.NewMockMulticaller()
	mc.ExecuteFn = func(_ context.Context, calls []outbound.Call, _ *big.Int) ([]outbound.Result, error) {
		if len(calls) != 3 {
			t.Fatalf("expected 3 calls for one unique token, got %d", len(calls))
		}
		return metadataResults(t,
			outbound.Result{Success: true, ReturnData: testutil.DecimalsWord(18)}, "DAI", "Dai Stablecoin"), nil
	}

	svc, err := NewService(mc, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	got, err := svc.Resolve(context.Background(), []common.Address{dai, dai, dai})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("got %d tokens, want 1", len(got))
	}
}

func TestService_Resolve_MulticallError(t *testing.T) {
	mc := testutil.NewMockMulticaller()
	mc.ExecuteFn = func(_ context.Context, _ []outbound.Call, _ *big.Int) ([]outbound.Result, error) {
		return nil, errors.New("connection refused")
	}

	svc, err := NewService(mc, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if _, err := svc.Resolve(context.Background(), []common.Address{dai}); err == nil {
		t.Fatal("expected error, got nil")
	}
}
