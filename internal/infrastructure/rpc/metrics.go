package rpc

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rpcAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chainfolio_rpc_attempts_total",
		Help: "JSON-RPC attempts per chain, including fallback retries.",
	}, []string{"chain"})

	rpcRotationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chainfolio_rpc_endpoint_rotations_total",
		Help: "Times an endpoint was skipped for the next one in the set.",
	}, []string{"chain", "reason"})

	rpcExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chainfolio_rpc_endpoints_exhausted_total",
		Help: "Calls that failed after trying every endpoint of a chain.",
	}, []string{"chain"})
)
