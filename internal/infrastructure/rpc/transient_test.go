package rpc

import (
	"testing"

	"chainfolio/internal/domain/entity"
)

func TestIsNodeSyncError(t *testing.T) {
	tests := []struct {
		name string
		err  *entity.RPCError
		want bool
	}{
		{"nil", nil, false},
		{"node not ready code", &entity.RPCError{Code: -32002, Message: "resource unavailable"}, true},
		{"syncing message", &entity.RPCError{Code: -32000, Message: "node is syncing"}, true},
		{"not synced", &entity.RPCError{Code: -32000, Message: "RPC node is not synced yet"}, true},
		{"header not found", &entity.RPCError{Code: -32000, Message: "header not found"}, true},
		{"missing trie node", &entity.RPCError{Code: -32000, Message: "missing trie node abc123"}, true},
		{"case insensitive", &entity.RPCError{Code: -32000, Message: "Node Is SYNCING"}, true},
		{"execution revert", &entity.RPCError{Code: 3, Message: "execution reverted"}, false},
		{"method not found", &entity.RPCError{Code: -32601, Message: "the method eth_foo does not exist"}, false},
		{"rate limited", &entity.RPCError{Code: -32005, Message: "too many requests"}, false},
		{"invalid params", &entity.RPCError{Code: -32602, Message: "invalid argument 0"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNodeSyncError(tt.err); got != tt.want {
				t.Errorf("IsNodeSyncError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
