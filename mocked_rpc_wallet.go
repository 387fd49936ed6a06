package statusweb3mockgo

import (
	"context"
)

func (md *MockDispatcher) handleWatchAsset(_ context.Context, call *Call) (interface{}, error) {
	if _, ok := paramObject(call.Params, 0); !ok && len(call.Params) > 0 {
		return nil, invalidParams(call.Method, "expected an asset object")
	}
	return true, nil
}

func (md *MockDispatcher) handleNoop(context.Context, *Call) (interface{}, error) {
	return nil, nil
}

func (md *MockDispatcher) handlePermissions(_ context.Context, call *Call) (interface{}, error) {
	if !isTestAddress(call.Address) {
		return []interface{}{}, nil
	}

	return []interface{}{
		map[string]interface{}{
			"parentCapability": MethodAccounts,
			"caveats": []interface{}{
				map[string]interface{}{
					"type":  "restrictReturnedAccounts",
					"value": []string{lowerAddress(call.Address)},
				},
			},
		},
	}, nil
}
