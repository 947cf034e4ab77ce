// Package tokenmeta resolves ERC20 token metadata in batches over a
// Multicaller.
package tokenmeta

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/btclayer2/optimism/internal/domain/entity"
	"github.com/btclayer2/optimism/internal/pkg/abis"
	"github.com/btclayer2/optimism/internal/ports/outbound"
)

const (
	defaultDecimals     = 18
	callsPerToken       = 3 // decimals, symbol, name
	decimalsPayloadSize = 32
)

// Service batches decimals()/symbol()/name() lookups, three calls per
// token in one multicall round trip. Tokens resolved once are served
// from an in-process cache on later calls; the cache lives only as long
// as the Service.
type Service struct {
	mc       outbound.Multicaller
	erc20ABI *abi.ABI
	logger   *slog.Logger

	cacheMu sync.RWMutex
	cache   map[common.Address]entity.Token
}

// NewService creates a batch metadata service.
func NewService(mc outbound.Multicaller, logger *slog.Logger) (*Service, error) {
	erc20ABI, err := abis.ERC20()
	if err != nil {
		return nil, fmt.Errorf("loading ERC20 ABI: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		mc:       mc,
		erc20ABI: erc20ABI,
		logger:   logger,
		cache:    make(map[common.Address]entity.Token),
	}, nil
}

// Resolve returns metadata for each requested token. Per-token failures
// are absorbed: decimals falls back to 18 under the same success
// condition as the single lookup, symbol and name fall back to empty.
func (s *Service) Resolve(ctx context.Context, tokens []common.Address) (map[common.Address]entity.Token, error) {
	result := make(map[common.Address]entity.Token)

	var toFetch []common.Address
	seen := make(map[common.Address]bool)
	s.cacheMu.RLock()
	for _, token := range tokens {
		if seen[token] {
			continue
		}
		seen[token] = true
		if cached, ok := s.cache[token]; ok {
			result[token] = cached
		} else {
			toFetch = append(toFetch, token)
		}
	}
	s.cacheMu.RUnlock()

	if len(toFetch) == 0 {
		return result, nil
	}

	calls, err := s.buildCalls(toFetch)
	if err != nil {
		return nil, err
	}

	results, err := s.mc.Execute(ctx, calls, nil)
	if err != nil {
		return result, fmt.Errorf("multicall failed: %w", err)
	}

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	for i, token := range toFetch {
		idx := i * callsPerToken
		if idx+callsPerToken > len(results) {
			break
		}

		decimals := s.decodeDecimals(token, results[idx])
		symbol := s.decodeString(token, "symbol", results[idx+1])
		name := s.decodeString(token, "name", results[idx+2])

		meta, err := entity.NewToken(token, symbol, name, decimals)
		if err != nil {
			s.logger.Warn("skipping token with invalid metadata", "token", token.Hex(), "error", err)
			continue
		}

		result[token] = *meta
		s.cache[token] = *meta
	}

	return result, nil
}

func (s *Service) buildCalls(tokens []common.Address) ([]outbound.Call, error) {
	calls := make([]outbound.Call, 0, len(tokens)*callsPerToken)
	for _, token := range tokens {
		for _, method := range []string{"decimals", "symbol", "name"} {
			callData, err := s.erc20ABI.Pack(method)
			if err != nil {
				return nil, fmt.Errorf("packing %s: %w", method, err)
			}
			calls = append(calls, outbound.Call{
				Target:       token,
				AllowFailure: true,
				CallData:     callData,
			})
		}
	}
	return calls, nil
}

// decodeDecimals applies the defaulting contract of the single lookup:
// the call must have succeeded and returned exactly one 32-byte word.
func (s *Service) decodeDecimals(token common.Address, res outbound.Result) uint8 {
	if !res.Success || len(res.ReturnData) != decimalsPayloadSize {
		s.logger.Debug("decimals unavailable, using default",
			"token", token.Hex(), "default", defaultDecimals)
		return defaultDecimals
	}
	var decimals uint8
	if err := s.erc20ABI.UnpackIntoInterface(&decimals, "decimals", res.ReturnData); err != nil {
		s.logger.Debug("decimals undecodable, using default",
			"token", token.Hex(), "default", defaultDecimals, "error", err)
		return defaultDecimals
	}
	return decimals
}

func (s *Service) decodeString(token common.Address, method string, res outbound.Result) string {
	if !res.Success || len(res.ReturnData) == 0 {
		return ""
	}
	var v string
	if err := s.erc20ABI.UnpackIntoInterface(&v, method, res.ReturnData); err != nil {
		s.logger.Debug("metadata string undecodable",
			"token", token.Hex(), "method", method, "error", err)
		return ""
	}
	return v
}
