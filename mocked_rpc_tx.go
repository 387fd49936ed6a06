package statusweb3mockgo

import (
	"context"
	"crypto/rand"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/core/types"
)

func randomHash() (common.Hash, error) {
	var h common.Hash
	if _, err := rand.Read(h[:]); err != nil {
		return common.Hash{}, fmt.Errorf("generating transaction hash: %w", err)
	}
	return h, nil
}

func (md *MockDispatcher) handleSendTransaction(_ context.Context, call *Call) (interface{}, error) {
	if len(call.Params) == 0 {
		return nil, invalidParams(call.Method, "expected a transaction parameter")
	}
	h, err := randomHash()
	if err != nil {
		return nil, err
	}
	return h.Hex(), nil
}

func (md *MockDispatcher) handleGetTransactionReceipt(_ context.Context, call *Call) (interface{}, error) {
	txHash, ok := paramString(call.Params, 0)
	if !ok || len(txHash) != 2*common.HashLength+2 {
		return nil, invalidParams(call.Method, "expected a transaction hash")
	}
	hash := common.HexToHash(txHash)

	var from interface{}
	if isTestAddress(call.Address) {
		from = lowerAddress(call.Address)
	}

	return map[string]interface{}{
		"transactionHash":   hash.Hex(),
		"transactionIndex":  "0x0",
		"blockHash":         common.BytesToHash(crypto.Keccak256(hash[:])).Hex(),
		"blockNumber":       hexutil.EncodeUint64(randomBlockNumber()),
		"from":              from,
		"to":                nil,
		"cumulativeGasUsed": gasEstimate.Hex(),
		"gasUsed":           gasEstimate.Hex(),
		"effectiveGasPrice": gasPrice.Hex(),
		"contractAddress":   nil,
		"logs":              []interface{}{},
		"logsBloom":         hexutil.Encode(make([]byte, types.BloomByteLength)),
		"status":            hexutil.EncodeUint64(types.ReceiptStatusSuccessful),
		"type":              hexutil.EncodeUint64(types.DynamicFeeTxType),
	}, nil
}
