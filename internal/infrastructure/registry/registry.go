package registry

import (
	"sort"

	"chainfolio/internal/app/port"
	"chainfolio/internal/domain/entity"
)

// Predefined chain descriptors for every supported network.
var supportedChains = []entity.ChainDescriptor{
	// Mainnets
	{ChainID: 1, Name: "Ethereum", NativeSymbol: "ETH", NetworkClass: entity.Mainnet, PriceFeedKey: "ethereum", NativeDecimals: 18},
	{ChainID: 137, Name: "Polygon", NativeSymbol: "MATIC", NetworkClass: entity.Mainnet, PriceFeedKey: "matic-network", NativeDecimals: 18},
	{ChainID: 42161, Name: "Arbitrum", NativeSymbol: "ETH", NetworkClass: entity.Mainnet, PriceFeedKey: "ethereum", NativeDecimals: 18},
	{ChainID: 10, Name: "Optimism", NativeSymbol: "ETH", NetworkClass: entity.Mainnet, PriceFeedKey: "ethereum", NativeDecimals: 18},
	{ChainID: 8453, Name: "Base", NativeSymbol: "ETH", NetworkClass: entity.Mainnet, PriceFeedKey: "ethereum", NativeDecimals: 18},
	{ChainID: 43114, Name: "Avalanche", NativeSymbol: "AVAX", NetworkClass: entity.Mainnet, PriceFeedKey: "avalanche-2", NativeDecimals: 18},
	{ChainID: 56, Name: "BSC", NativeSymbol: "BNB", NetworkClass: entity.Mainnet, PriceFeedKey: "binancecoin", NativeDecimals: 18},
	{ChainID: 1101, Name: "Polygon zkEVM", NativeSymbol: "ETH", NetworkClass: entity.Mainnet, PriceFeedKey: "ethereum", NativeDecimals: 18},
	{ChainID: 59144, Name: "Linea", NativeSymbol: "ETH", NetworkClass: entity.Mainnet, PriceFeedKey: "ethereum", NativeDecimals: 18},
	{ChainID: 534352, Name: "Scroll", NativeSymbol: "ETH", NetworkClass: entity.Mainnet, PriceFeedKey: "ethereum", NativeDecimals: 18},

	// Testnets: feed keys point at the mainnet asset so the dashboard can
	// still show indicative USD values for test balances.
	{ChainID: 11155111, Name: "Sepolia", NativeSymbol: "ETH", NetworkClass: entity.Testnet, PriceFeedKey: "ethereum", NativeDecimals: 18},
	{ChainID: 17000, Name: "Holesky", NativeSymbol: "ETH", NetworkClass: entity.Testnet, PriceFeedKey: "ethereum", NativeDecimals: 18},
	{ChainID: 80002, Name: "Polygon Amoy", NativeSymbol: "MATIC", NetworkClass: entity.Testnet, PriceFeedKey: "matic-network", NativeDecimals: 18},
	{ChainID: 97, Name: "BSC Testnet", NativeSymbol: "BNB", NetworkClass: entity.Testnet, PriceFeedKey: "binancecoin", NativeDecimals: 18},
	{ChainID: 421614, Name: "Arbitrum Sepolia", NativeSymbol: "ETH", NetworkClass: entity.Testnet, PriceFeedKey: "ethereum", NativeDecimals: 18},
	{ChainID: 11155420, Name: "Optimism Sepolia", NativeSymbol: "ETH", NetworkClass: entity.Testnet, PriceFeedKey: "ethereum", NativeDecimals: 18},
	{ChainID: 84532, Name: "Base Sepolia", NativeSymbol: "ETH", NetworkClass: entity.Testnet, PriceFeedKey: "ethereum", NativeDecimals: 18},
	{ChainID: 43113, Name: "Avalanche Fuji", NativeSymbol: "AVAX", NetworkClass: entity.Testnet, PriceFeedKey: "avalanche-2", NativeDecimals: 18},
}

// ChainRegistry implements port.ChainRegistry over the static chain table.
// Read-only after construction.
type ChainRegistry struct {
	byID    map[uint64]entity.ChainDescriptor
	ordered []entity.ChainDescriptor
}

// NewChainRegistry builds the registry from the predefined chain table.
func NewChainRegistry() port.ChainRegistry {
	byID := make(map[uint64]entity.ChainDescriptor, len(supportedChains))
	for _, desc := range supportedChains {
		byID[desc.ChainID] = desc
	}

	ordered := make([]entity.ChainDescriptor, len(supportedChains))
	copy(ordered, supportedChains)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ChainID < ordered[j].ChainID })

	return &ChainRegistry{byID: byID, ordered: ordered}
}

// Describe returns the descriptor for a chain id.
func (r *ChainRegistry) Describe(chainID uint64) (entity.ChainDescriptor, bool) {
	desc, ok := r.byID[chainID]
	return desc, ok
}

// ListByClass returns all descriptors of the given network class, ordered by
// chain id.
func (r *ChainRegistry) ListByClass(class entity.NetworkClass) []entity.ChainDescriptor {
	var out []entity.ChainDescriptor
	for _, desc := range r.ordered {
		if desc.NetworkClass == class {
			out = append(out, desc)
		}
	}
	return out
}

// All returns every supported descriptor, ordered by chain id.
func (r *ChainRegistry) All() []entity.ChainDescriptor {
	out := make([]entity.ChainDescriptor, len(r.ordered))
	copy(out, r.ordered)
	return out
}
