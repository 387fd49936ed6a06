package statusweb3mockgo

// Methods answered by the mock dispatcher.
const (
	MethodAccounts            = "eth_accounts"
	MethodRequestAccounts     = "eth_requestAccounts"
	MethodCoinbase            = "eth_coinbase"
	MethodChainID             = "eth_chainId"
	MethodNetVersion          = "net_version"
	MethodNetListening        = "net_listening"
	MethodClientVersion       = "web3_clientVersion"
	MethodBlockNumber         = "eth_blockNumber"
	MethodGetBalance          = "eth_getBalance"
	MethodGasPrice            = "eth_gasPrice"
	MethodMaxPriorityFee      = "eth_maxPriorityFeePerGas"
	MethodEstimateGas         = "eth_estimateGas"
	MethodGetTransactionCount = "eth_getTransactionCount"
	MethodCall                = "eth_call"
	MethodGetCode             = "eth_getCode"
	MethodPersonalSign        = "personal_sign"
	MethodSign                = "eth_sign"
	MethodSignTypedData       = "eth_signTypedData"
	MethodSignTypedDataV3     = "eth_signTypedData_v3"
	MethodSignTypedDataV4     = "eth_signTypedData_v4"
	MethodSendTransaction     = "eth_sendTransaction"
	MethodSendRawTransaction  = "eth_sendRawTransaction"
	MethodGetTransactionRcpt  = "eth_getTransactionReceipt"
	MethodWatchAsset          = "wallet_watchAsset"
	MethodAddEthereumChain    = "wallet_addEthereumChain"
	MethodSwitchEthereumChain = "wallet_switchEthereumChain"
	MethodRequestPermissions  = "wallet_requestPermissions"
	MethodGetPermissions      = "wallet_getPermissions"
)

// Events emitted by the content-side provider.
const (
	EventConnect         = "connect"
	EventDisconnect      = "disconnect"
	EventAccountsChanged = "accountsChanged"
	EventChainChanged    = "chainChanged"
)

// EIP-6963 discovery events.
const (
	EventRequestProvider  = "eip6963:requestProvider"
	EventAnnounceProvider = "eip6963:announceProvider"
)

// Content-side provider states.
const (
	StateUninitialized = "uninitialized"
	StateConnecting    = "connecting"
	StateConnected     = "connected"
	StateDisconnected  = "disconnected"
)

// Transports the content program can use to reach the bridge.
const (
	TransportWebKit    = "webkit"
	TransportWebSocket = "websocket"
)

const (
	defHandlerName        = "statusWeb3Mock"
	defAutoconnectDelayMs = 500
	defAnnounceDelayMs    = 100
	defChainID            = 1
	clientVersion         = "StatusWeb3Mock/v0.1.0"
)
