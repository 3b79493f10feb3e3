package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"chainfolio/internal/app/port"
	"chainfolio/internal/domain/entity"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

var jsonCodec = jsoniter.ConfigCompatibleWithStandardLibrary

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcResponse struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      int              `json:"id"`
	Result  json.RawMessage  `json:"result"`
	Error   *entity.RPCError `json:"error"`
}

// Gateway executes JSON-RPC calls with endpoint fallback. One call makes at
// most one pass through a chain's endpoint set: transport failures and
// node-sync errors rotate to the next endpoint, any other node-level answer
// is returned immediately. No backoff between attempts; the caller retries
// at its own cadence (periodic UI refresh).
type Gateway struct {
	resolver    port.EndpointResolver
	client      *fasthttp.Client
	callTimeout time.Duration
	isTransient TransientErrorPredicate
	logger      *zap.Logger
}

// NewGateway creates a gateway over the given endpoint resolver. A nil
// predicate selects IsNodeSyncError.
func NewGateway(resolver port.EndpointResolver, callTimeout time.Duration, isTransient TransientErrorPredicate, logger *zap.Logger) *Gateway {
	if isTransient == nil {
		isTransient = IsNodeSyncError
	}
	return &Gateway{
		resolver:    resolver,
		client:      &fasthttp.Client{},
		callTimeout: callTimeout,
		isTransient: isTransient,
		logger:      logger.Named("RpcGateway"),
	}
}

// Call implements port.RPCGateway.
func (g *Gateway) Call(ctx context.Context, chainID uint64, method string, params []any) (json.RawMessage, error) {
	set, ok := g.resolver.Resolve(chainID)
	if !ok || len(set.Endpoints) == 0 {
		return nil, fmt.Errorf("%w: %d", entity.ErrUnsupportedChain, chainID)
	}

	if params == nil {
		params = []any{}
	}
	body, err := jsonCodec.Marshal(rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal rpc request: %w", err)
	}

	chainLabel := strconv.FormatUint(chainID, 10)
	var lastErr error

	for i, endpoint := range set.Endpoints {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		rpcAttemptsTotal.WithLabelValues(chainLabel).Inc()
		result, rpcErr, err := g.attempt(ctx, endpoint, body)
		if err != nil {
			g.logger.Warn("RPC transport failure, rotating endpoint",
				zap.Uint64("chainId", chainID),
				zap.String("method", method),
				zap.String("endpoint", endpoint),
				zap.Int("attempt", i+1),
				zap.Error(err))
			rpcRotationsTotal.WithLabelValues(chainLabel, "transport").Inc()
			lastErr = err
			continue
		}
		if rpcErr != nil {
			if g.isTransient(rpcErr) {
				g.logger.Warn("RPC node-sync error, rotating endpoint",
					zap.Uint64("chainId", chainID),
					zap.String("method", method),
					zap.String("endpoint", endpoint),
					zap.Error(rpcErr))
				rpcRotationsTotal.WithLabelValues(chainLabel, "sync").Inc()
				lastErr = rpcErr
				continue
			}
			// A consistent node-level answer; returning it immediately keeps
			// real request errors visible instead of masking them behind
			// fallback attempts.
			return nil, rpcErr
		}

		g.logger.Debug("RPC call succeeded",
			zap.Uint64("chainId", chainID),
			zap.String("method", method),
			zap.Int("attempt", i+1))
		return result, nil
	}

	rpcExhaustedTotal.WithLabelValues(chainLabel).Inc()
	return nil, fmt.Errorf("%w: chain %d: %w", entity.ErrAllEndpointsFailed, chainID, lastErr)
}

// attempt sends one request to one endpoint. The error return is a transport
// failure; rpcErr is a JSON-RPC level error with a clean transport.
func (g *Gateway) attempt(ctx context.Context, endpoint string, body []byte) (json.RawMessage, *entity.RPCError, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(endpoint)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	deadline := time.Now().Add(g.callTimeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := g.client.DoDeadline(req, resp, deadline); err != nil {
		return nil, nil, fmt.Errorf("request to %s failed: %w", endpoint, err)
	}

	if code := resp.StatusCode(); code < 200 || code > 299 {
		return nil, nil, fmt.Errorf("endpoint %s returned HTTP %d", endpoint, code)
	}

	var parsed rpcResponse
	if err := jsonCodec.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, nil, fmt.Errorf("failed to decode response from %s: %w", endpoint, err)
	}
	if parsed.Error != nil {
		return nil, parsed.Error, nil
	}
	return parsed.Result, nil, nil
}
