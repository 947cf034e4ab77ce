package abis

import "github.com/ethereum/go-ethereum/accounts/abi"

// Multicall3 returns the aggregate3 subset of the Multicall3 ABI.
func Multicall3() (*abi.ABI, error) {
	return ParseABI(`[
		{
			"inputs": [
				{
					"components": [
						{"internalType": "address", "name": "target", "type": "address"},
						{"internalType": "bool", "name": "allowFailure", "type": "bool"},
						{"internalType": "bytes", "name": "callData", "type": "bytes"}
					],
					"internalType": "struct Multicall3.Call3[]",
					"name": "calls",
					"type": "tuple[]"
				}
			],
			"name": "aggregate3",
			"outputs": [
				{
					"components": [
						{"internalType": "bool", "name": "success", "type": "bool"},
						{"internalType": "bytes", "name": "returnData", "type": "bytes"}
					],
					"internalType": "struct Multicall3.Result[]",
					"name": "returnData",
					"type": "tuple[]"
				}
			],
			"stateMutability": "payable",
			"type": "function"
		}
	]`)
}
