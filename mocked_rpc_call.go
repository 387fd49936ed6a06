package statusweb3mockgo

import (
	"context"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

func (md *MockDispatcher) handleCall(_ context.Context, call *Call) (interface{}, error) {
	tx, ok := paramObject(call.Params, 0)
	if !ok {
		return nil, invalidParams(call.Method, "expected a call object as first parameter")
	}

	// "input" is the newer name of the same field.
	input, _ := tx["data"].(string)
	if input == "" {
		input, _ = tx["input"].(string)
	}
	if input == "" {
		return "0x", nil
	}

	data, err := hexutil.Decode(input)
	if err != nil {
		return nil, invalidParams(call.Method, "call data is not 0x-prefixed hex")
	}

	out, err := encodeCall(data, call)
	if err != nil {
		return nil, invalidParams(call.Method, err.Error())
	}
	return hexutil.Encode(out), nil
}
