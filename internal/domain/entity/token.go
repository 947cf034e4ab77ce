package entity

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// maxMetadataLen caps the symbol and name strings. Both come from
// arbitrary external contracts and can be adversarially large.
const maxMetadataLen = 128

// Token represents an ERC20 token and the decimal precision its
// balances are encoded under.
type Token struct {
	Address  common.Address
	Symbol   string
	Name     string
	Decimals uint8
}

// NewToken creates a new Token entity with validation.
func NewToken(address common.Address, symbol, name string, decimals uint8) (*Token, error) {
	t := &Token{
		Address:  address,
		Symbol:   symbol,
		Name:     name,
		Decimals: decimals,
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// validate checks that all fields have valid values. Symbol and name may
// be empty: both accessors are optional in the ERC20 standard.
func (t *Token) validate() error {
	if t.Address == (common.Address{}) {
		return fmt.Errorf("address must not be zero")
	}
	if len(t.Symbol) > maxMetadataLen {
		return fmt.Errorf("symbol too long: %d bytes", len(t.Symbol))
	}
	if len(t.Name) > maxMetadataLen {
		return fmt.Errorf("name too long: %d bytes", len(t.Name))
	}
	return nil
}
