package registry

import (
	"fmt"

	"chainfolio/internal/app/port"
	"chainfolio/internal/domain/entity"
)

// primaryRPCURLs are keyless public endpoints, the most reliable option per
// chain when no provider key is configured.
var primaryRPCURLs = map[uint64]string{
	1:      "https://ethereum-rpc.publicnode.com",
	137:    "https://polygon-rpc.publicnode.com",
	42161:  "https://arbitrum-rpc.publicnode.com",
	10:     "https://optimism-rpc.publicnode.com",
	8453:   "https://base-rpc.publicnode.com",
	43114:  "https://avalanche-rpc.publicnode.com",
	56:     "https://bsc-rpc.publicnode.com",
	1101:   "https://zkevm-rpc.com",
	59144:  "https://rpc.linea.build",
	534352: "https://rpc.scroll.io",

	11155111: "https://rpc.sepolia.org",
	17000:    "https://ethereum-holesky.publicnode.com",
	80002:    "https://rpc-amoy.polygon.technology",
	97:       "https://bsc-testnet.public.blastapi.io",
	421614:   "https://arbitrum-sepolia-rpc.publicnode.com",
	11155420: "https://optimism-sepolia-rpc.publicnode.com",
	84532:    "https://base-sepolia-rpc.publicnode.com",
	43113:    "https://avalanche-fuji-rpc.publicnode.com",
}

// fallbackRPCURLs back up the primaries with a second public provider.
var fallbackRPCURLs = map[uint64]string{
	1:      "https://eth.api.onfinality.io/public",
	137:    "https://polygon.api.onfinality.io/public",
	42161:  "https://arbitrum.api.onfinality.io/public",
	10:     "https://optimism.api.onfinality.io/public",
	8453:   "https://base.api.onfinality.io/public",
	43114:  "https://avalanche.api.onfinality.io/public",
	56:     "https://bsc.api.onfinality.io/public",
	1101:   "https://polygon-zkevm.drpc.org",
	59144:  "https://linea-rpc.publicnode.com",
	534352: "https://scroll-rpc.publicnode.com",

	11155111: "https://rpc2.sepolia.org",
	17000:    "https://ethereum-holesky-rpc.publicnode.com",
	80002:    "https://polygon-amoy-rpc.publicnode.com",
	97:       "https://bsc-testnet-rpc.publicnode.com",
	421614:   "https://arbitrum-sepolia.publicnode.com",
	11155420: "https://optimism-sepolia.publicnode.com",
	84532:    "https://base-sepolia.publicnode.com",
	43113:    "https://avalanche-fuji.publicnode.com",
}

// alchemySubdomains map chain ids to the Alchemy network slug. One API key
// works for every network.
var alchemySubdomains = map[uint64]string{
	1:      "eth-mainnet",
	137:    "polygon-mainnet",
	42161:  "arb-mainnet",
	10:     "opt-mainnet",
	8453:   "base-mainnet",
	43114:  "avax-mainnet",
	56:     "bnb-mainnet",
	1101:   "polygonzkevm-mainnet",
	59144:  "linea-mainnet",
	534352: "scroll-mainnet",

	11155111: "eth-sepolia",
	17000:    "eth-holesky",
	80002:    "polygon-amoy",
	97:       "bsc-testnet",
	421614:   "arb-sepolia",
	11155420: "opt-sepolia",
	84532:    "base-sepolia",
	43113:    "avax-fuji",
}

// EndpointResolver implements port.EndpointResolver. The per-chain endpoint
// order is fixed at construction: the keyed Alchemy endpoint first when a key
// is configured (it also serves the token/NFT extension methods), then the
// public primary, then the public fallback. Single-URL chains are simply
// one-element sets.
type EndpointResolver struct {
	sets map[uint64]entity.EndpointSet
}

// NewEndpointResolver builds the endpoint table. alchemyAPIKey may be empty,
// in which case only the keyless public endpoints are used.
func NewEndpointResolver(alchemyAPIKey string) port.EndpointResolver {
	sets := make(map[uint64]entity.EndpointSet, len(primaryRPCURLs))
	for chainID, primary := range primaryRPCURLs {
		var endpoints []string
		if alchemyAPIKey != "" {
			if slug, ok := alchemySubdomains[chainID]; ok {
				endpoints = append(endpoints, fmt.Sprintf("https://%s.g.alchemy.com/v2/%s", slug, alchemyAPIKey))
			}
		}
		endpoints = append(endpoints, primary)
		if fallback, ok := fallbackRPCURLs[chainID]; ok {
			endpoints = append(endpoints, fallback)
		}
		sets[chainID] = entity.EndpointSet{ChainID: chainID, Endpoints: endpoints}
	}
	return &EndpointResolver{sets: sets}
}

// Resolve returns the endpoint set for a chain id.
func (r *EndpointResolver) Resolve(chainID uint64) (entity.EndpointSet, bool) {
	set, ok := r.sets[chainID]
	return set, ok
}
