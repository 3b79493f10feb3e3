package restapi

import (
	"errors"
	"net/http"

	"chainfolio/internal/app/port"
	"chainfolio/internal/domain/entity"
	"chainfolio/internal/pkg/utils"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

var jsonCodec = jsoniter.ConfigCompatibleWithStandardLibrary

// ProxyRequest is the body of a raw JSON-RPC proxy call.
type ProxyRequest struct {
	ChainID uint64 `json:"chainId" binding:"required"`
	Method  string `json:"method" binding:"required"`
	Params  []any  `json:"params"`
}

// FormattedBalance is the human-readable companion attached to
// eth_getBalance proxy responses.
type FormattedBalance struct {
	Wei    string `json:"wei"`
	Value  string `json:"value"`
	Symbol string `json:"symbol"`
	Chain  string `json:"chain"`
	Raw    string `json:"raw"`
}

// ChainInfo is one entry of the supported chain listing.
type ChainInfo struct {
	ChainID uint64 `json:"chainId"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
	Network string `json:"network"`
	RpcURL  string `json:"rpcUrl,omitempty"`
}

// ProxyHandler serves the raw JSON-RPC proxy and the chain listing.
type ProxyHandler struct {
	gateway  port.RPCGateway
	registry port.ChainRegistry
	resolver port.EndpointResolver
	logger   *zap.Logger
}

func NewProxyHandler(gateway port.RPCGateway, registry port.ChainRegistry, resolver port.EndpointResolver, logger *zap.Logger) *ProxyHandler {
	return &ProxyHandler{
		gateway:  gateway,
		registry: registry,
		resolver: resolver,
		logger:   logger.Named("ProxyHandler"),
	}
}

// ProxyRequestHandler forwards one JSON-RPC call to the chain's endpoint set.
// Node-level errors come back as a JSON-RPC error envelope with HTTP 200 so
// wallet tooling sees the same contract a direct node would give it.
func (h *ProxyHandler) ProxyRequestHandler(c *gin.Context) {
	var req ProxyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "chainId and method are required"})
		return
	}

	result, err := h.gateway.Call(c.Request.Context(), req.ChainID, req.Method, req.Params)
	if err != nil {
		var rpcErr *entity.RPCError
		switch {
		case errors.As(err, &rpcErr):
			c.JSON(http.StatusOK, gin.H{
				"jsonrpc": "2.0",
				"id":      1,
				"error":   rpcErr,
			})
		case errors.Is(err, entity.ErrUnsupportedChain):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Unsupported chain ID",
				"supported": lo.Map(h.registry.All(), func(d entity.ChainDescriptor, _ int) uint64 {
					return d.ChainID
				}),
			})
		case errors.Is(err, entity.ErrAllEndpointsFailed):
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "chainId": req.ChainID})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	response := gin.H{
		"jsonrpc": "2.0",
		"id":      1,
		"result":  result,
	}
	if req.Method == "eth_getBalance" {
		if formatted := h.formatBalance(req.ChainID, result); formatted != nil {
			response["result_formatted"] = formatted
		}
	}
	c.JSON(http.StatusOK, response)
}

// formatBalance decorates a raw hex balance with a decimal rendering. Returns
// nil when the result is not a plain hex quantity.
func (h *ProxyHandler) formatBalance(chainID uint64, raw []byte) *FormattedBalance {
	var quantity string
	if err := jsonCodec.Unmarshal(raw, &quantity); err != nil {
		return nil
	}
	amount, err := utils.ParseHexQuantity(quantity)
	if err != nil {
		return nil
	}
	desc, ok := h.registry.Describe(chainID)
	if !ok {
		return nil
	}
	return &FormattedBalance{
		Wei:    quantity,
		Value:  utils.FormatUnits(amount, desc.NativeDecimals),
		Symbol: desc.NativeSymbol,
		Chain:  desc.Name,
		Raw:    quantity,
	}
}

// ListChainsHandler returns every supported chain with its primary endpoint.
func (h *ProxyHandler) ListChainsHandler(c *gin.Context) {
	chains := lo.Map(h.registry.All(), func(desc entity.ChainDescriptor, _ int) ChainInfo {
		info := ChainInfo{
			ChainID: desc.ChainID,
			Name:    desc.Name,
			Symbol:  desc.NativeSymbol,
			Network: desc.NetworkClass.String(),
		}
		if set, ok := h.resolver.Resolve(desc.ChainID); ok && len(set.Endpoints) > 0 {
			info.RpcURL = set.Endpoints[0]
		}
		return info
	})
	c.JSON(http.StatusOK, gin.H{"supportedChains": chains})
}
