// Package main provides a CLI for converting token balances between
// decimal precisions and resolving token decimals on-chain.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/holiman/uint256"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"github.com/btclayer2/optimism/internal/adapters/outbound/erc20"
	"github.com/btclayer2/optimism/internal/pkg/env"
	"github.com/btclayer2/optimism/internal/pkg/multicall"
	"github.com/btclayer2/optimism/internal/pkg/units"
	"github.com/btclayer2/optimism/internal/ports/outbound"
	"github.com/btclayer2/optimism/internal/services/tokenmeta"
)

// Build-time variables - can be set via ldflags, otherwise populated from Go's build info.
var (
	GitCommit string
	BuildTime string
)

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				if GitCommit == "" {
					GitCommit = setting.Value
				}
			case "vcs.time":
				if BuildTime == "" {
					BuildTime = setting.Value
				}
			}
		}
	}
}

func main() {
	_ = godotenv.Load()

	mode := flag.String("mode", "convert", "Mode: 'convert', 'decimals' or 'metadata'")
	fromDecimals := flag.Uint("from-decimals", 18, "Decimal precision the amount is encoded under")
	toDecimals := flag.Uint("to-decimals", 6, "Decimal precision to convert the amount to")
	amount := flag.String("amount", "", "Balance to convert: raw integer, or decimal string (e.g. 1.5)")
	tokens := flag.String("tokens", "", "Comma-separated token addresses for 'decimals'/'metadata' modes")
	multicallAddr := flag.String("multicall", multicall.Multicall3Address, "Multicall3 contract address")
	direct := flag.Bool("direct", false, "Batch per-target eth_call instead of using Multicall3")
	rateLimit := flag.Float64("rate-limit", 0, "Max eth_calls per second in 'decimals' mode (0 = unlimited)")
	showVersion := flag.Bool("version", false, "Show version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("token-units\n")
		fmt.Printf("  Commit:     %s\n", GitCommit)
		fmt.Printf("  Build Time: %s\n", BuildTime)
		os.Exit(0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: env.ParseLogLevel(slog.LevelInfo),
	}))
	slog.SetDefault(logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("received signal, shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx, logger, *mode, *fromDecimals, *toDecimals, *amount, *tokens, *multicallAddr, *direct, *rateLimit); err != nil {
		logger.Error("failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, mode string, fromDecimals, toDecimals uint, amount, tokens, multicallAddr string, direct bool, rateLimit float64) error {
	switch mode {
	case "convert":
		return runConvert(fromDecimals, toDecimals, amount)
	case "decimals":
		return runDecimals(ctx, logger, tokens, rateLimit)
	case "metadata":
		return runMetadata(ctx, logger, tokens, multicallAddr, direct)
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
}

func runConvert(fromDecimals, toDecimals uint, amount string) error {
	if amount == "" {
		return errors.New("-amount is required for convert mode")
	}
	if fromDecimals > 255 || toDecimals > 255 {
		return errors.New("decimal precisions must fit in uint8")
	}
	origin := uint8(fromDecimals)
	target := uint8(toDecimals)

	balance, err := parseAmount(amount, origin)
	if err != nil {
		return err
	}

	normalized, err := units.Normalize(origin, target, balance)
	if err != nil {
		return fmt.Errorf("normalizing: %w", err)
	}
	remainder, err := units.Remainder(origin, target, balance)
	if err != nil {
		return fmt.Errorf("computing remainder: %w", err)
	}

	fmt.Printf("normalized: %s (%s at %d decimals)\n",
		normalized.Dec(), units.FormatUnits(normalized, target), target)
	fmt.Printf("remainder:  %s\n", remainder.Dec())
	return nil
}

// parseAmount accepts either a raw integer balance or a human-readable
// decimal amount at the origin precision.
func parseAmount(amount string, decimals uint8) (*uint256.Int, error) {
	if strings.Contains(amount, ".") {
		return units.ParseUnits(amount, decimals)
	}
	balance := new(uint256.Int)
	if err := balance.SetFromDecimal(amount); err != nil {
		return nil, fmt.Errorf("parsing amount %q: %w", amount, err)
	}
	return balance, nil
}

func runDecimals(ctx context.Context, logger *slog.Logger, tokens string, rateLimit float64) error {
	addrs, err := parseTokens(tokens)
	if err != nil {
		return err
	}

	client, err := dial(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	caller, err := erc20.NewCaller(client, erc20.Config{
		RateLimit: rate.Limit(rateLimit),
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	for _, addr := range addrs {
		fmt.Printf("%s %d\n", addr.Hex(), caller.Decimals(ctx, addr))
	}
	return nil
}

func runMetadata(ctx context.Context, logger *slog.Logger, tokens, multicallAddr string, direct bool) error {
	addrs, err := parseTokens(tokens)
	if err != nil {
		return err
	}

	mc, closeFn, err := buildMulticaller(ctx, multicallAddr, direct)
	if err != nil {
		return err
	}
	defer closeFn()

	service, err := tokenmeta.NewService(mc, logger)
	if err != nil {
		return err
	}

	resolved, err := service.Resolve(ctx, addrs)
	if err != nil {
		return fmt.Errorf("resolving metadata: %w", err)
	}

	for _, addr := range addrs {
		token, ok := resolved[addr]
		if !ok {
			logger.Warn("no metadata resolved", "token", addr.Hex())
			continue
		}
		fmt.Printf("%s decimals=%d symbol=%q name=%q\n",
			token.Address.Hex(), token.Decimals, token.Symbol, token.Name)
	}
	return nil
}

func buildMulticaller(ctx context.Context, multicallAddr string, direct bool) (outbound.Multicaller, func(), error) {
	rpcURL := env.Get("ETH_RPC_URL", "")
	if rpcURL == "" {
		return nil, nil, errors.New("ETH_RPC_URL is required")
	}

	if direct {
		rpcClient, err := rpc.DialContext(ctx, rpcURL)
		if err != nil {
			return nil, nil, fmt.Errorf("dialing %s: %w", rpcURL, err)
		}
		return multicall.NewDirectCaller(rpcClient), rpcClient.Close, nil
	}

	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, nil, fmt.Errorf("dialing %s: %w", rpcURL, err)
	}
	mc, err := multicall.NewClient(client, common.HexToAddress(multicallAddr))
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	return mc, client.Close, nil
}

func dial(ctx context.Context) (*ethclient.Client, error) {
	rpcURL := env.Get("ETH_RPC_URL", "")
	if rpcURL == "" {
		return nil, errors.New("ETH_RPC_URL is required")
	}
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", rpcURL, err)
	}
	return client, nil
}

func parseTokens(tokens string) ([]common.Address, error) {
	if tokens == "" {
		return nil, errors.New("-tokens is required for this mode")
	}
	var addrs []common.Address
	for _, raw := range strings.Split(tokens, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if !common.IsHexAddress(raw) {
			return nil, fmt.Errorf("invalid token address %q", raw)
		}
		addrs = append(addrs, common.HexToAddress(raw))
	}
	if len(addrs) == 0 {
		return nil, errors.New("no token addresses given")
	}
	return addrs, nil
}
