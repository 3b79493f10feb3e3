package entity

import (
	"errors"
	"fmt"
)

// Error taxonomy of the aggregation core. Only ErrInvalidAddress and
// ErrEmptyChainList are fatal to a request; everything else is recovered
// locally and encoded as data on the returned snapshot.
var (
	// ErrInvalidAddress rejects the whole aggregation call.
	ErrInvalidAddress = errors.New("invalid wallet address")
	// ErrEmptyChainList rejects an aggregation call with no chains requested.
	ErrEmptyChainList = errors.New("no chain ids requested")
	// ErrUnsupportedChain marks a chain id missing from the registry; callers
	// skip the chain silently.
	ErrUnsupportedChain = errors.New("unsupported chain id")
	// ErrAllEndpointsFailed marks a chain whose whole endpoint set was
	// exhausted without a clean result.
	ErrAllEndpointsFailed = errors.New("all rpc endpoints failed")
	// ErrPriceUnavailable marks a feed key the price source could not serve;
	// affected lines are simply left unvalued.
	ErrPriceUnavailable = errors.New("price unavailable")
	// ErrGeneratorFailure surfaces an insight generation failure to the
	// caller as a whole; no partial AI result is fabricated.
	ErrGeneratorFailure = errors.New("insight generator failure")
	// ErrHistoryDisabled is returned by history operations when no store is
	// configured.
	ErrHistoryDisabled = errors.New("insight history disabled")
)

// RPCError is a JSON-RPC level error returned by an upstream node with a
// 2xx transport status.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}
