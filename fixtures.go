package statusweb3mockgo

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Fixture tables. Read-only after package init, shared by every dispatch.

var whaleAddress = common.HexToAddress("0x28C6c06298d514Db089934071355E5743bf21d60")

var (
	whaleBalance       = uint256.MustFromDecimal("10000000000000000000000") // 10000 ETH
	testAddressBalance = uint256.MustFromDecimal("10000000000000000000")    // 10 ETH
	defaultBalance     = uint256.MustFromDecimal("500000000000000000")      // 0.5 ETH
)

var (
	whaleTokenBalance = uint256.MustFromDecimal("1000000000000000000000000") // 1M tokens
	testTokenBalance  = uint256.MustFromDecimal("1000000000000000000000")    // 1000 tokens
)

const (
	mockTokenName     = "Mock Token"
	mockTokenSymbol   = "MOCK"
	mockTokenDecimals = 18
)

var (
	gasPrice       = uint256.NewInt(20_000_000_000) // 20 gwei
	priorityFee    = uint256.NewInt(1_500_000_000)  // 1.5 gwei
	gasEstimate    = uint256.NewInt(21_000)
	blockNumberMin = uint64(18_000_000)
	blockNumberMax = uint64(19_000_000)
	maxTxCount     = 100
)

// A minimal ERC-20 runtime prefix; only its non-emptiness matters to callers.
var fixtureBytecode = map[common.Address]string{
	whaleAddress: "0x608060405234801561001057600080fd5b50600436106100415760003560e01c806306fdde031461004657806370a082311461006457806395d89b4114610094575b600080fd5b",
}

// balanceFor picks the balance tier of addr for the given test address.
func balanceFor(addr common.Address, testAddress string) *uint256.Int {
	switch {
	case addr == whaleAddress:
		return whaleBalance
	case testAddress != "" && addr == common.HexToAddress(testAddress):
		return testAddressBalance
	default:
		return defaultBalance
	}
}

func tokenBalanceFor(addr common.Address, testAddress string) *uint256.Int {
	switch {
	case addr == whaleAddress:
		return whaleTokenBalance
	case testAddress != "" && addr == common.HexToAddress(testAddress):
		return testTokenBalance
	default:
		return new(uint256.Int)
	}
}
