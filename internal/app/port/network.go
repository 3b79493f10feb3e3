package port

import (
	"context"
	"encoding/json"

	"chainfolio/internal/domain/entity"
)

// ChainRegistry provides read-only access to the supported chain table.
type ChainRegistry interface {
	// Describe returns the descriptor for a chain id, with found=false for
	// unknown ids. Callers must treat unknown chains as a non-fatal skip.
	Describe(chainID uint64) (entity.ChainDescriptor, bool)

	// ListByClass returns every descriptor of the given network class.
	ListByClass(class entity.NetworkClass) []entity.ChainDescriptor

	// All returns every supported descriptor.
	All() []entity.ChainDescriptor
}

// EndpointResolver maps a chain id to its ordered candidate RPC endpoints.
// Deterministic, no I/O.
type EndpointResolver interface {
	Resolve(chainID uint64) (entity.EndpointSet, bool)
}

// RPCGateway executes a single JSON-RPC method against one chain, rotating
// through the chain's endpoint set on transport or node-sync failures.
type RPCGateway interface {
	// Call returns the raw JSON-RPC result on success. It fails with
	// entity.ErrUnsupportedChain for unknown chains, a *entity.RPCError for a
	// clean node-level error, or entity.ErrAllEndpointsFailed when the whole
	// endpoint set is exhausted.
	Call(ctx context.Context, chainID uint64, method string, params []any) (json.RawMessage, error)
}
