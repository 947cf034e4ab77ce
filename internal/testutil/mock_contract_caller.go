package testutil

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
)

// MockContractCaller implements ethereum.ContractCaller for testing.
type MockContractCaller struct {
	mu        sync.Mutex
	CallFn    func(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	CallCount int
}

func (m *MockContractCaller) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	m.mu.Lock()
	m.CallCount++
	m.mu.Unlock()
	if m.CallFn != nil {
		return m.CallFn(ctx, call, blockNumber)
	}
	return nil, errors.New("CallContract not mocked")
}
