package statusweb3mockgo

import (
	"context"
	"sort"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/log"
)

// Dispatcher computes the response for one forwarded call.
type Dispatcher interface {
	Dispatch(ctx context.Context, call *Call) (interface{}, error)
}

// HandlerFunc answers a single RPC method.
type HandlerFunc func(ctx context.Context, call *Call) (interface{}, error)

// MockDispatcher answers wallet RPC methods from fixture tables. The table of
// built-in handlers is fixed at construction; Register layers overrides on top.
type MockDispatcher struct {
	handlers map[string]HandlerFunc

	mu        sync.RWMutex
	overrides map[string]HandlerFunc
}

// noopMethods succeed with a null result and change nothing.
var noopMethods = mapset.NewSet[string](
	MethodAddEthereumChain,
	MethodSwitchEthereumChain,
)

func NewMockDispatcher() *MockDispatcher {
	md := &MockDispatcher{
		overrides: make(map[string]HandlerFunc),
	}

	md.handlers = map[string]HandlerFunc{
		MethodAccounts:            md.handleAccounts,
		MethodRequestAccounts:     md.handleAccounts,
		MethodCoinbase:            md.handleCoinbase,
		MethodChainID:             md.handleChainID,
		MethodNetVersion:          md.handleNetVersion,
		MethodNetListening:        md.handleNetListening,
		MethodClientVersion:       md.handleClientVersion,
		MethodBlockNumber:         md.handleBlockNumber,
		MethodGetBalance:          md.handleGetBalance,
		MethodGasPrice:            md.handleGasPrice,
		MethodMaxPriorityFee:      md.handleMaxPriorityFee,
		MethodEstimateGas:         md.handleEstimateGas,
		MethodGetTransactionCount: md.handleGetTransactionCount,
		MethodGetCode:             md.handleGetCode,
		MethodCall:                md.handleCall,
		MethodPersonalSign:        md.handlePersonalSign,
		MethodSign:                md.handleEthSign,
		MethodSignTypedData:       md.handleSignTypedData,
		MethodSignTypedDataV3:     md.handleSignTypedData,
		MethodSignTypedDataV4:     md.handleSignTypedData,
		MethodSendTransaction:     md.handleSendTransaction,
		MethodSendRawTransaction:  md.handleSendTransaction,
		MethodGetTransactionRcpt:  md.handleGetTransactionReceipt,
		MethodWatchAsset:          md.handleWatchAsset,
		MethodRequestPermissions:  md.handlePermissions,
		MethodGetPermissions:      md.handlePermissions,
	}
	noopMethods.Each(func(method string) bool {
		md.handlers[method] = md.handleNoop
		return false
	})

	return md
}

// Register overrides the response for method. Passing nil removes the override.
func (md *MockDispatcher) Register(method string, h HandlerFunc) {
	md.mu.Lock()
	defer md.mu.Unlock()

	if h == nil {
		delete(md.overrides, method)
		return
	}
	md.overrides[method] = h
}

func (md *MockDispatcher) lookup(method string) (HandlerFunc, bool) {
	md.mu.RLock()
	h, ok := md.overrides[method]
	md.mu.RUnlock()
	if ok {
		return h, true
	}

	h, ok = md.handlers[method]
	return h, ok
}

// Methods returns the set of methods the dispatcher answers.
func (md *MockDispatcher) Methods() mapset.Set[string] {
	methods := mapset.NewSet[string]()
	for m := range md.handlers {
		methods.Add(m)
	}

	md.mu.RLock()
	for m := range md.overrides {
		methods.Add(m)
	}
	md.mu.RUnlock()

	return methods
}

// SortedMethods is Methods in lexical order.
func (md *MockDispatcher) SortedMethods() []string {
	methods := md.Methods().ToSlice()
	sort.Strings(methods)
	return methods
}

func (md *MockDispatcher) Dispatch(ctx context.Context, call *Call) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h, ok := md.lookup(call.Method)
	if !ok {
		logger.Debug("unsupported method", "method", call.Method, "id", call.ID)
		return nil, unsupportedMethod(call.Method)
	}

	return h(ctx, call)
}

// All general log messages in this package should be routed through this logger.
var logger = log.New("package", "status-web3-mock")
