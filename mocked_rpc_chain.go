package statusweb3mockgo

import (
	"context"
	"math/rand"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

func randomBlockNumber() uint64 {
	return blockNumberMin + uint64(rand.Int63n(int64(blockNumberMax-blockNumberMin)))
}

func (md *MockDispatcher) handleBlockNumber(context.Context, *Call) (interface{}, error) {
	return hexutil.EncodeUint64(randomBlockNumber()), nil
}

func (md *MockDispatcher) handleGasPrice(context.Context, *Call) (interface{}, error) {
	return gasPrice.Hex(), nil
}

func (md *MockDispatcher) handleMaxPriorityFee(context.Context, *Call) (interface{}, error) {
	return priorityFee.Hex(), nil
}

func (md *MockDispatcher) handleEstimateGas(context.Context, *Call) (interface{}, error) {
	return gasEstimate.Hex(), nil
}

func (md *MockDispatcher) handleGetTransactionCount(_ context.Context, call *Call) (interface{}, error) {
	if _, ok := paramString(call.Params, 0); !ok {
		return nil, invalidParams(call.Method, "expected an address as first parameter")
	}
	return hexutil.EncodeUint64(uint64(rand.Intn(maxTxCount))), nil
}
