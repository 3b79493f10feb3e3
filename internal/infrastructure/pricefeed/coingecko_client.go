package pricefeed

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"chainfolio/internal/domain/entity"

	jsoniter "github.com/json-iterator/go"
	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const seriesCachePrefix = "series:"

// CoinGeckoClient implements port.PriceSource against the CoinGecko API.
// Quotes are cached per feed key with a short TTL and historical series with
// a longer one; expiry is lazy, checked on read by the cache itself. A
// last-writer-wins race between concurrent refreshes of the same key is
// acceptable: values from the same window are equivalent.
type CoinGeckoClient struct {
	client      *fasthttp.Client
	baseURL     string
	apiKey      string
	timeout     time.Duration
	limiter     *rate.Limiter
	quoteCache  *gocache.Cache
	seriesCache *gocache.Cache
	logger      *zap.Logger
}

// NewCoinGeckoClient creates a price source. quoteTTL covers current quotes
// (~5 minutes), seriesTTL historical daily series (~60 minutes). apiKey may
// be empty for the keyless public tier.
func NewCoinGeckoClient(baseURL, apiKey string, timeout, quoteTTL, seriesTTL time.Duration, logger *zap.Logger) *CoinGeckoClient {
	return &CoinGeckoClient{
		client:      &fasthttp.Client{},
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		timeout:     timeout,
		limiter:     rate.NewLimiter(rate.Every(2*time.Second), 3),
		quoteCache:  gocache.New(quoteTTL, 0),
		seriesCache: gocache.New(seriesTTL, 0),
		logger:      logger.Named("CoinGeckoClient"),
	}
}

// SimplePrices returns current USD quotes for the given feed keys, fetching
// only the keys missing from the cache. Keys CoinGecko does not know are
// absent from the result.
func (c *CoinGeckoClient) SimplePrices(ctx context.Context, feedKeys []string) (map[string]entity.PriceQuote, error) {
	quotes := make(map[string]entity.PriceQuote, len(feedKeys))
	var missing []string
	for _, key := range feedKeys {
		if cached, ok := c.quoteCache.Get(key); ok {
			quotes[key] = cached.(entity.PriceQuote)
			continue
		}
		missing = append(missing, key)
	}
	if len(missing) == 0 {
		return quotes, nil
	}

	fetched, err := c.fetchSimplePrices(ctx, missing)
	if err != nil {
		if len(quotes) > 0 {
			// Serve what the cache had; missing keys degrade to unvalued
			// lines instead of failing the batch.
			c.logger.Warn("Price fetch failed, serving cached quotes only",
				zap.Strings("missing", missing), zap.Error(err))
			return quotes, nil
		}
		return nil, err
	}
	for key, quote := range fetched {
		c.quoteCache.SetDefault(key, quote)
		quotes[key] = quote
	}
	return quotes, nil
}

// DailySeries returns the trailing daily price series for one feed key.
func (c *CoinGeckoClient) DailySeries(ctx context.Context, feedKey string, days int) ([]entity.SeriesPoint, error) {
	cacheKey := fmt.Sprintf("%s%s:%d", seriesCachePrefix, feedKey, days)
	if cached, ok := c.seriesCache.Get(cacheKey); ok {
		return cached.([]entity.SeriesPoint), nil
	}

	requestURL := fmt.Sprintf("%s/coins/%s/market_chart?vs_currency=usd&days=%d&interval=daily",
		c.baseURL, url.PathEscape(feedKey), days)
	body, err := c.get(ctx, requestURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", entity.ErrPriceUnavailable, feedKey, err)
	}

	var payload struct {
		Prices [][2]float64 `json:"prices"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode market chart for %s: %w", feedKey, err)
	}

	points := make([]entity.SeriesPoint, 0, len(payload.Prices))
	for _, pair := range payload.Prices {
		points = append(points, entity.SeriesPoint{
			Time:  time.UnixMilli(int64(pair[0])).UTC(),
			Price: decimal.NewFromFloat(pair[1]),
		})
	}
	c.seriesCache.SetDefault(cacheKey, points)
	return points, nil
}

func (c *CoinGeckoClient) fetchSimplePrices(ctx context.Context, feedKeys []string) (map[string]entity.PriceQuote, error) {
	requestURL := fmt.Sprintf(
		"%s/simple/price?ids=%s&vs_currencies=usd&include_24hr_change=true&include_market_cap=true&include_24hr_vol=true",
		c.baseURL, url.QueryEscape(strings.Join(feedKeys, ",")))

	body, err := c.get(ctx, requestURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrPriceUnavailable, err)
	}

	// Shape: {"ethereum":{"usd":2500.1,"usd_24h_change":-1.2,...},...}
	var raw map[string]map[string]float64
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode price response: %w", err)
	}

	quotes := make(map[string]entity.PriceQuote, len(raw))
	for _, key := range feedKeys {
		fields, ok := raw[key]
		if !ok {
			continue
		}
		quotes[key] = entity.PriceQuote{
			FeedKey:   key,
			Usd:       decimal.NewFromFloat(fields["usd"]),
			Change24h: fields["usd_24h_change"],
			MarketCap: decimal.NewFromFloat(fields["usd_market_cap"]),
			Volume24h: decimal.NewFromFloat(fields["usd_24h_vol"]),
		}
	}
	return quotes, nil
}

func (c *CoinGeckoClient) get(ctx context.Context, requestURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	if c.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.apiKey)
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", requestURL, err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("price API returned HTTP %d: %s", resp.StatusCode(), resp.Body())
	}

	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())
	return body, nil
}
