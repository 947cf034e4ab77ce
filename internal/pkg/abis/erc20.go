package abis

import "github.com/ethereum/go-ethereum/accounts/abi"

// ERC20 returns the metadata subset of the ERC20 ABI: the optional
// decimals(), symbol() and name() accessors.
func ERC20() (*abi.ABI, error) {
	return ParseABI(`[
		{
			"inputs": [],
			"name": "decimals",
			"outputs": [{"name": "", "type": "uint8"}],
			"stateMutability": "view",
			"type": "function"
		},
		{
			"inputs": [],
			"name": "symbol",
			"outputs": [{"name": "", "type": "string"}],
			"stateMutability": "view",
			"type": "function"
		},
		{
			"inputs": [],
			"name": "name",
			"outputs": [{"name": "", "type": "string"}],
			"stateMutability": "view",
			"type": "function"
		}
	]`)
}
