package statusweb3mockgo

import (
	"context"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

func (md *MockDispatcher) handleAccounts(_ context.Context, call *Call) (interface{}, error) {
	if !isTestAddress(call.Address) {
		return []string{}, nil
	}
	return []string{lowerAddress(call.Address)}, nil
}

func (md *MockDispatcher) handleCoinbase(_ context.Context, call *Call) (interface{}, error) {
	if !isTestAddress(call.Address) {
		return nil, nil
	}
	return lowerAddress(call.Address), nil
}

func (md *MockDispatcher) handleChainID(_ context.Context, call *Call) (interface{}, error) {
	return hexutil.EncodeUint64(call.ChainID), nil
}

func (md *MockDispatcher) handleNetVersion(_ context.Context, call *Call) (interface{}, error) {
	return strconv.FormatUint(call.ChainID, 10), nil
}

func (md *MockDispatcher) handleNetListening(context.Context, *Call) (interface{}, error) {
	return true, nil
}

func (md *MockDispatcher) handleClientVersion(context.Context, *Call) (interface{}, error) {
	return clientVersion, nil
}

func (md *MockDispatcher) handleGetBalance(_ context.Context, call *Call) (interface{}, error) {
	addr, ok := paramString(call.Params, 0)
	if !ok || !common.IsHexAddress(addr) {
		return nil, invalidParams(call.Method, "expected an address as first parameter")
	}
	return balanceFor(common.HexToAddress(addr), call.Address).Hex(), nil
}

func (md *MockDispatcher) handleGetCode(_ context.Context, call *Call) (interface{}, error) {
	addr, ok := paramString(call.Params, 0)
	if !ok || !common.IsHexAddress(addr) {
		return nil, invalidParams(call.Method, "expected an address as first parameter")
	}
	if code, ok := fixtureBytecode[common.HexToAddress(addr)]; ok {
		return code, nil
	}
	return "0x", nil
}
