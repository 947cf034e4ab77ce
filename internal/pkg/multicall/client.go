// Package multicall batches read-only contract calls, either through the
// Multicall3 aggregate contract or as a raw JSON-RPC batch.
package multicall

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/btclayer2/optimism/internal/pkg/abis"
	"github.com/btclayer2/optimism/internal/ports/outbound"
)

// Multicall3Address is the canonical Multicall3 deployment, identical on
// most EVM chains.
const Multicall3Address = "0xcA11bde05977b3631167028862bE2a173976CA11"

// Client implements outbound.Multicaller via the Multicall3 contract's
// aggregate3 entrypoint.
type Client struct {
	caller  ethereum.ContractCaller
	address common.Address
	abi     *abi.ABI
}

var _ outbound.Multicaller = (*Client)(nil)

// NewClient creates a Multicall3 client. caller is typically an
// *ethclient.Client.
func NewClient(caller ethereum.ContractCaller, multicall3Address common.Address) (*Client, error) {
	multicallABI, err := abis.Multicall3()
	if err != nil {
		return nil, fmt.Errorf("loading multicall3 ABI: %w", err)
	}
	return &Client{
		caller:  caller,
		address: multicall3Address,
		abi:     multicallABI,
	}, nil
}

func (c *Client) Address() common.Address {
	return c.address
}

func (c *Client) Execute(ctx context.Context, calls []outbound.Call, blockNumber *big.Int) ([]outbound.Result, error) {
	if len(calls) == 0 {
		return []outbound.Result{}, nil
	}

	data, err := c.abi.Pack("aggregate3", calls)
	if err != nil {
		return nil, fmt.Errorf("packing multicall: %w", err)
	}

	msg := ethereum.CallMsg{
		To:   &c.address,
		Data: data,
	}

	result, err := c.caller.CallContract(ctx, msg, blockNumber)
	if err != nil {
		return nil, fmt.Errorf("calling multicall contract at address=%s block=%s calls=%d: %w",
			c.address.Hex(), blockNumberString(blockNumber), len(calls), err)
	}

	unpacked, err := c.abi.Unpack("aggregate3", result)
	if err != nil {
		return nil, fmt.Errorf("unpacking multicall response at block=%s: %w",
			blockNumberString(blockNumber), err)
	}

	resultsRaw := unpacked[0].([]struct {
		Success    bool   `json:"success"`
		ReturnData []byte `json:"returnData"`
	})

	results := make([]outbound.Result, len(resultsRaw))
	for i, r := range resultsRaw {
		results[i] = outbound.Result{
			Success:    r.Success,
			ReturnData: r.ReturnData,
		}
	}

	return results, nil
}

func blockNumberString(blockNumber *big.Int) string {
	if blockNumber == nil {
		return "latest"
	}
	return blockNumber.String()
}
