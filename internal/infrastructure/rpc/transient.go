package rpc

import (
	"strings"

	"chainfolio/internal/domain/entity"
)

// TransientErrorPredicate decides whether a JSON-RPC level error is an
// endpoint-specific flake worth rotating past, as opposed to a request-level
// error that must be returned to the caller.
type TransientErrorPredicate func(*entity.RPCError) bool

// Message fragments that public nodes return while they are catching up.
// Matching is heuristic by nature; the predicate is pluggable so the list
// can be tested and swapped without touching gateway control flow.
var syncProblemFragments = []string{
	"syncing",
	"not synced",
	"still catching up",
	"behind",
	"header not found",
	"block is not available",
	"missing trie node",
	"getting state",
}

// IsNodeSyncError is the default predicate: true only for errors whose code
// or message indicates a node-sync problem. Everything else, including
// rate-limit and method-not-found errors, is treated as a clean node-level
// answer and short-circuits endpoint rotation.
func IsNodeSyncError(rpcErr *entity.RPCError) bool {
	if rpcErr == nil {
		return false
	}
	// Some providers use a dedicated code for "node not ready".
	if rpcErr.Code == -32002 {
		return true
	}
	msg := strings.ToLower(rpcErr.Message)
	for _, fragment := range syncProblemFragments {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}
