package service

import (
	"context"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"chainfolio/internal/app/port"
	"chainfolio/internal/domain/entity"
	"chainfolio/internal/pkg/utils"

	"github.com/ethereum/go-ethereum/common"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var jsonCodec = jsoniter.ConfigCompatibleWithStandardLibrary

// PortfolioService implements port.PortfolioAggregator: one wallet address
// fanned out across all requested chains, partial failures collected as data.
type PortfolioService struct {
	registry      port.ChainRegistry
	gateway       port.RPCGateway
	logger        *zap.Logger
	maxConcurrent int
	enrichTokens  bool
	maxTokenLines int
}

// NewPortfolioService creates a new aggregator. maxConcurrent bounds the
// number of in-flight chain tasks; enrichTokens toggles the best-effort
// token/NFT enrichment for mainnet chains.
func NewPortfolioService(
	registry port.ChainRegistry,
	gateway port.RPCGateway,
	logger *zap.Logger,
	maxConcurrent int,
	enrichTokens bool,
	maxTokenLines int,
) *PortfolioService {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &PortfolioService{
		registry:      registry,
		gateway:       gateway,
		logger:        logger.Named("PortfolioService"),
		maxConcurrent: maxConcurrent,
		enrichTokens:  enrichTokens,
		maxTokenLines: maxTokenLines,
	}
}

// chainResult collects the per-chain outcome; slots are written by separate
// tasks and merged after the join.
type chainResult struct {
	desc     entity.ChainDescriptor
	native   entity.AssetLine
	nativeOK bool
	extras   []entity.AssetLine
}

// Aggregate implements port.PortfolioAggregator. Chains missing from the
// registry are omitted silently; a chain whose RPC calls fail contributes a
// native line with FetchError set and a zero amount. The call duration is
// bounded by the slowest chain, not the sum.
func (s *PortfolioService) Aggregate(ctx context.Context, address string, chainIDs []uint64) (entity.PortfolioSnapshot, error) {
	if !common.IsHexAddress(address) {
		return entity.PortfolioSnapshot{}, fmt.Errorf("%w: %q", entity.ErrInvalidAddress, address)
	}
	if len(chainIDs) == 0 {
		return entity.PortfolioSnapshot{}, entity.ErrEmptyChainList
	}
	normalized := strings.ToLower(address)

	var results []*chainResult
	for _, chainID := range chainIDs {
		desc, ok := s.registry.Describe(chainID)
		if !ok {
			s.logger.Debug("Skipping unsupported chain", zap.Uint64("chainId", chainID))
			continue
		}
		results = append(results, &chainResult{desc: desc})
	}

	// One task per (chain x call-type); the join is all-settled, a failure in
	// one task never cancels siblings.
	g := &errgroup.Group{}
	g.SetLimit(s.maxConcurrent)
	for _, res := range results {
		res := res
		g.Go(func() error {
			res.native, res.nativeOK = s.fetchNativeLine(ctx, res.desc, normalized)
			return nil
		})
		if s.enrichTokens && res.desc.NetworkClass == entity.Mainnet {
			g.Go(func() error {
				res.extras = s.fetchEnrichmentLines(ctx, res.desc, normalized)
				return nil
			})
		}
	}
	_ = g.Wait()

	snapshot := entity.PortfolioSnapshot{
		WalletAddress: normalized,
		GeneratedAt:   time.Now().UTC(),
	}
	for _, res := range results {
		snapshot.AssetLines = append(snapshot.AssetLines, res.native)
		snapshot.AssetLines = append(snapshot.AssetLines, res.extras...)
		if res.nativeOK {
			snapshot.ConnectedChainCount++
		}
	}
	snapshot.RecomputeTotal()

	s.logger.Debug("Aggregation complete",
		zap.String("wallet", normalized),
		zap.Int("requestedChains", len(chainIDs)),
		zap.Int("lines", len(snapshot.AssetLines)),
		zap.Int("connectedChains", snapshot.ConnectedChainCount))
	return snapshot, nil
}

// fetchNativeLine queries the chain's base-currency balance. Failures are
// encoded on the returned line, never propagated.
func (s *PortfolioService) fetchNativeLine(ctx context.Context, desc entity.ChainDescriptor, address string) (entity.AssetLine, bool) {
	line := entity.AssetLine{
		ChainID:   desc.ChainID,
		ChainName: desc.Name,
		Symbol:    desc.NativeSymbol,
		Kind:      entity.AssetNative,
		Decimals:  desc.NativeDecimals,
		RawAmount: big.NewInt(0),
		Formatted: "0",
	}

	result, err := s.gateway.Call(ctx, desc.ChainID, "eth_getBalance", []any{address, "latest"})
	if err != nil {
		s.logger.Warn("Native balance fetch failed",
			zap.String("chain", desc.Name), zap.String("wallet", address), zap.Error(err))
		line.FetchError = err.Error()
		return line, false
	}

	var quantity string
	if err := jsonCodec.Unmarshal(result, &quantity); err != nil {
		line.FetchError = fmt.Sprintf("unexpected balance payload: %v", err)
		return line, false
	}
	amount, err := utils.ParseHexQuantity(quantity)
	if err != nil {
		line.FetchError = err.Error()
		return line, false
	}

	line.RawAmount = amount
	line.Formatted = utils.FormatUnits(amount, desc.NativeDecimals)
	return line, true
}

// fetchEnrichmentLines collects token balances and the NFT count via the
// provider extension methods. These are enhancement calls: every failure here
// is logged and absorbed so the core balance fetch is never blocked by them.
func (s *PortfolioService) fetchEnrichmentLines(ctx context.Context, desc entity.ChainDescriptor, address string) []entity.AssetLine {
	var lines []entity.AssetLine

	tokens, err := s.fetchTokenLines(ctx, desc, address)
	if err != nil {
		s.logger.Debug("Token enrichment skipped",
			zap.String("chain", desc.Name), zap.String("wallet", address), zap.Error(err))
	} else {
		lines = append(lines, tokens...)
	}

	nftLine, err := s.fetchNFTLine(ctx, desc, address)
	if err != nil {
		s.logger.Debug("NFT enrichment skipped",
			zap.String("chain", desc.Name), zap.String("wallet", address), zap.Error(err))
	} else if nftLine != nil {
		lines = append(lines, *nftLine)
	}
	return lines
}

type tokenBalancesResult struct {
	Address       string `json:"address"`
	TokenBalances []struct {
		ContractAddress string `json:"contractAddress"`
		TokenBalance    string `json:"tokenBalance"`
		Error           string `json:"error"`
	} `json:"tokenBalances"`
}

type tokenMetadataResult struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

func (s *PortfolioService) fetchTokenLines(ctx context.Context, desc entity.ChainDescriptor, address string) ([]entity.AssetLine, error) {
	result, err := s.gateway.Call(ctx, desc.ChainID, "alchemy_getTokenBalances", []any{address, "erc20"})
	if err != nil {
		return nil, err
	}
	var balances tokenBalancesResult
	if err := jsonCodec.Unmarshal(result, &balances); err != nil {
		return nil, fmt.Errorf("unexpected token balances payload: %w", err)
	}

	var lines []entity.AssetLine
	for _, tb := range balances.TokenBalances {
		if len(lines) >= s.maxTokenLines {
			break
		}
		if tb.Error != "" {
			continue
		}
		amount, err := utils.ParseHexQuantity(tb.TokenBalance)
		if err != nil || amount.Sign() == 0 {
			continue
		}

		line := entity.AssetLine{
			ChainID:      desc.ChainID,
			ChainName:    desc.Name,
			Kind:         entity.AssetToken,
			TokenAddress: strings.ToLower(tb.ContractAddress),
			RawAmount:    amount,
			Symbol:       "UNKNOWN",
			Decimals:     18,
		}
		if meta, err := s.fetchTokenMetadata(ctx, desc.ChainID, tb.ContractAddress); err == nil {
			if meta.Symbol != "" {
				line.Symbol = meta.Symbol
			}
			if meta.Decimals > 0 {
				line.Decimals = meta.Decimals
			}
		}
		line.Formatted = utils.FormatUnits(amount, line.Decimals)
		lines = append(lines, line)
	}
	return lines, nil
}

func (s *PortfolioService) fetchTokenMetadata(ctx context.Context, chainID uint64, contract string) (tokenMetadataResult, error) {
	var meta tokenMetadataResult
	result, err := s.gateway.Call(ctx, chainID, "alchemy_getTokenMetadata", []any{contract})
	if err != nil {
		return meta, err
	}
	if err := jsonCodec.Unmarshal(result, &meta); err != nil {
		return meta, fmt.Errorf("unexpected token metadata payload: %w", err)
	}
	return meta, nil
}

func (s *PortfolioService) fetchNFTLine(ctx context.Context, desc entity.ChainDescriptor, address string) (*entity.AssetLine, error) {
	result, err := s.gateway.Call(ctx, desc.ChainID, "alchemy_getNFTs", []any{map[string]any{
		"owner":        address,
		"withMetadata": false,
	}})
	if err != nil {
		return nil, err
	}
	var payload struct {
		TotalCount int64 `json:"totalCount"`
	}
	if err := jsonCodec.Unmarshal(result, &payload); err != nil {
		return nil, fmt.Errorf("unexpected nft payload: %w", err)
	}
	if payload.TotalCount == 0 {
		return nil, nil
	}
	return &entity.AssetLine{
		ChainID:   desc.ChainID,
		ChainName: desc.Name,
		Symbol:    "NFT",
		Kind:      entity.AssetNFT,
		RawAmount: big.NewInt(payload.TotalCount),
		Decimals:  0,
		Formatted: strconv.FormatInt(payload.TotalCount, 10),
	}, nil
}
