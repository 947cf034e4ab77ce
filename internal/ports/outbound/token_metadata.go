package outbound

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// TokenMetadataSource resolves on-chain ERC20 metadata.
//
// Decimals is total: tokens without a working decimals() accessor report
// the conventional default of 18 instead of an error. Symbol and Name
// have no such convention and surface failures to the caller.
type TokenMetadataSource interface {
	Decimals(ctx context.Context, token common.Address) uint8
	Symbol(ctx context.Context, token common.Address) (string, error)
	Name(ctx context.Context, token common.Address) (string, error)
}
