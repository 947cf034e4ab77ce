// Package erc20 queries token contracts for their metadata accessors
// over eth_call.
package erc20

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/time/rate"

	"github.com/btclayer2/optimism/internal/pkg/abis"
	"github.com/btclayer2/optimism/internal/ports/outbound"
)

const (
	// DefaultDecimals is assumed for tokens whose decimals() accessor is
	// missing, reverts, or answers with a malformed payload. decimals()
	// is optional in the ERC20 standard, so the lookup must be total.
	DefaultDecimals uint8 = 18

	// returnWordSize is the ABI-encoded width of one static return value.
	returnWordSize = 32
)

// Config holds configuration for the metadata caller.
type Config struct {
	// RateLimit caps outbound eth_calls per second. Zero disables limiting.
	RateLimit rate.Limit

	// RateBurst is the limiter burst size. Defaults to 1 when limiting
	// is enabled.
	RateBurst int

	// Logger is the structured logger. Defaults to slog.Default().
	Logger *slog.Logger
}

// Caller resolves token metadata one contract call at a time.
type Caller struct {
	client  ethereum.ContractCaller
	abi     *abi.ABI
	limiter *rate.Limiter
	logger  *slog.Logger
}

// Compile-time check that Caller implements outbound.TokenMetadataSource
var _ outbound.TokenMetadataSource = (*Caller)(nil)

// NewCaller creates a metadata caller on top of any ContractCaller,
// typically an *ethclient.Client.
func NewCaller(client ethereum.ContractCaller, cfg Config) (*Caller, error) {
	erc20ABI, err := abis.ERC20()
	if err != nil {
		return nil, fmt.Errorf("loading ERC20 ABI: %w", err)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(cfg.RateLimit, burst)
	}
	return &Caller{
		client:  client,
		abi:     erc20ABI,
		limiter: limiter,
		logger:  cfg.Logger,
	}, nil
}

// Decimals queries the token's decimals() accessor. The lookup is
// attempt-once and uncached, and never fails: a reverted call or any
// payload other than exactly one 32-byte word falls back to
// DefaultDecimals.
func (c *Caller) Decimals(ctx context.Context, token common.Address) uint8 {
	ret, err := c.call(ctx, token, "decimals")
	if err != nil {
		c.logger.Debug("decimals lookup failed, using default",
			"token", token.Hex(), "default", DefaultDecimals, "error", err)
		return DefaultDecimals
	}
	if len(ret) != returnWordSize {
		c.logger.Debug("decimals payload malformed, using default",
			"token", token.Hex(), "default", DefaultDecimals, "length", len(ret))
		return DefaultDecimals
	}
	var decimals uint8
	if err := c.abi.UnpackIntoInterface(&decimals, "decimals", ret); err != nil {
		c.logger.Debug("decimals payload undecodable, using default",
			"token", token.Hex(), "default", DefaultDecimals, "error", err)
		return DefaultDecimals
	}
	return decimals
}

// Symbol queries the token's symbol() accessor.
func (c *Caller) Symbol(ctx context.Context, token common.Address) (string, error) {
	return c.callString(ctx, token, "symbol")
}

// Name queries the token's name() accessor.
func (c *Caller) Name(ctx context.Context, token common.Address) (string, error) {
	return c.callString(ctx, token, "name")
}

func (c *Caller) callString(ctx context.Context, token common.Address, method string) (string, error) {
	ret, err := c.call(ctx, token, method)
	if err != nil {
		return "", err
	}
	var s string
	if err := c.abi.UnpackIntoInterface(&s, method, ret); err != nil {
		return "", fmt.Errorf("unpacking %s for %s: %w", method, token.Hex(), err)
	}
	return s, nil
}

func (c *Caller) call(ctx context.Context, target common.Address, method string) ([]byte, error) {
	data, err := c.abi.Pack(method)
	if err != nil {
		return nil, fmt.Errorf("packing %s: %w", method, err)
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	msg := ethereum.CallMsg{
		To:   &target,
		Data: data,
	}
	ret, err := c.client.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("calling %s on %s: %w", method, target.Hex(), err)
	}
	return ret, nil
}
