package entity

// NetworkClass distinguishes production networks from test networks.
type NetworkClass int

const (
	// Mainnet marks a production network with real economic value.
	Mainnet NetworkClass = iota
	// Testnet marks a test network whose assets carry no market value.
	Testnet
)

// String returns the lowercase name used in API responses and config.
func (c NetworkClass) String() string {
	if c == Testnet {
		return "testnet"
	}
	return "mainnet"
}

// ChainDescriptor holds the static identity of a supported blockchain network.
// Descriptors are loaded once at startup and never mutated afterwards.
type ChainDescriptor struct {
	ChainID      uint64       `json:"chainId" yaml:"chainId"`
	Name         string       `json:"name" yaml:"name"`
	NativeSymbol string       `json:"nativeSymbol" yaml:"nativeSymbol"`
	NetworkClass NetworkClass `json:"-" yaml:"-"`
	// PriceFeedKey is the external market-data identifier for the native
	// asset (e.g. "ethereum" for ETH). Empty means no USD value is derivable.
	PriceFeedKey string `json:"priceFeedKey,omitempty" yaml:"priceFeedKey,omitempty"`
	// NativeDecimals is 18 for every EVM chain we support; kept explicit so
	// the aggregator never hardcodes it.
	NativeDecimals uint8 `json:"decimals" yaml:"decimals"`
}

// EndpointSet is the ordered list of candidate RPC URLs for one chain.
// Order encodes preference: endpoints are tried first-to-last on every call
// and the order is never adapted at runtime.
type EndpointSet struct {
	ChainID   uint64
	Endpoints []string
}
