package aggregate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/TheCleopatra/tradingflow-aptos-contract/internal/metrics"
	"github.com/TheCleopatra/tradingflow-aptos-contract/internal/model"
)

const (
	// MetadataResourceType is the fungible-asset metadata resource.
	MetadataResourceType = "0x1::fungible_asset::Metadata"

	// DefaultConcurrency bounds parallel metadata lookups.
	DefaultConcurrency = 8

	aptSymbol = "APT"
)

// PoolSource enumerates and looks up DEX pools.
type PoolSource interface {
	AllPools(ctx context.Context) ([]model.PoolRecord, error)
	PoolByID(ctx context.Context, poolID string) (*model.PoolRecord, error)
	PoolByTokenPair(ctx context.Context, token1, token2 string, feeTier model.FeeTier) (*model.PoolRecord, error)
}

// ResourceReader reads on-chain account resources.
type ResourceReader interface {
	AccountResource(ctx context.Context, address, resourceType string) (map[string]any, error)
}

// Config controls aggregation behavior.
type Config struct {
	Concurrency int
}

// Service augments DEX pools with prices and token metadata.
// It keeps no state between calls.
type Service struct {
	cfg       Config
	pools     PoolSource
	resources ResourceReader
	logger    *zap.Logger
}

func NewService(cfg Config, pools PoolSource, resources ResourceReader, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	return &Service{cfg: cfg, pools: pools, resources: resources, logger: logger}
}

// ListPools returns every pool with both prices computed.
func (s *Service) ListPools(ctx context.Context) ([]model.PoolInfo, error) {
	records, err := s.pools.AllPools(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pools: %w", err)
	}

	out := make([]model.PoolInfo, 0, len(records))
	for _, rec := range records {
		out = append(out, withPrices(rec))
	}
	return out, nil
}

// GetPool returns the pool with display symbols refreshed from on-chain
// metadata, or nil when the pool cannot be found.
func (s *Service) GetPool(ctx context.Context, poolID string) (*model.PoolInfo, error) {
	rec, err := s.pools.PoolByID(ctx, poolID)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		s.logger.Warn("pool lookup failed", zap.String("pool", poolID), zap.Error(err))
		return nil, nil
	}
	if rec == nil {
		s.logger.Debug("pool not found", zap.String("pool", poolID))
		return nil, nil
	}

	// Symbol refresh is best-effort; GetTokenMetadata only fails on ctx.
	var meta1, meta2 *model.TokenMetadata
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		meta1, _ = s.GetTokenMetadata(ctx, rec.Token1)
	}()
	go func() {
		defer wg.Done()
		meta2, _ = s.GetTokenMetadata(ctx, rec.Token2)
	}()
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if meta1 != nil && meta1.Symbol != "" {
		rec.Token1Symbol = meta1.Symbol
	}
	if meta2 != nil && meta2.Symbol != "" {
		rec.Token2Symbol = meta2.Symbol
	}

	info := withPrices(*rec)
	return &info, nil
}

// GetPoolByPair returns the pool for the token pair and fee tier index, or
// nil when none exists. The index must be an integer in [0,3].
func (s *Service) GetPoolByPair(ctx context.Context, token1, token2 string, feeTierIndex float64) (*model.PoolInfo, error) {
	feeTier, err := model.FeeTierFromIndex(feeTierIndex)
	if err != nil {
		return nil, err
	}

	rec, err := s.pools.PoolByTokenPair(ctx, token1, token2, feeTier)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		s.logger.Warn("pool pair lookup failed",
			zap.String("token1", token1),
			zap.String("token2", token2),
			zap.Stringer("fee_tier", feeTier),
			zap.Error(err),
		)
		return nil, nil
	}
	if rec == nil {
		return nil, nil
	}

	info := withPrices(*rec)
	return &info, nil
}

// GetTokenMetadata reads the fungible-asset metadata stored at address.
// Absent resources and read failures both yield nil.
func (s *Service) GetTokenMetadata(ctx context.Context, address string) (*model.TokenMetadata, error) {
	data, err := s.resources.AccountResource(ctx, address, MetadataResourceType)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if errors.Is(err, model.ErrNotFound) {
			metrics.RecordLookup(metrics.LookupAbsent)
			s.logger.Debug("token metadata absent", zap.String("token", address))
		} else {
			metrics.RecordLookup(metrics.LookupFailed)
			s.logger.Warn("token metadata lookup failed", zap.String("token", address), zap.Error(err))
		}
		return nil, nil
	}
	if data == nil {
		metrics.RecordLookup(metrics.LookupAbsent)
		return nil, nil
	}

	metrics.RecordLookup(metrics.LookupFound)
	meta := metadataFromResource(address, data)
	return &meta, nil
}

// GetAllTokens resolves metadata for every distinct token that appears in
// any pool. Tokens whose metadata cannot be resolved are omitted.
func (s *Service) GetAllTokens(ctx context.Context) ([]model.TokenMetadata, error) {
	records, err := s.pools.AllPools(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tokens: %w", err)
	}

	cache := NewTokenMetaCache()
	for _, rec := range records {
		cache.Add(rec.Token1)
		cache.Add(rec.Token2)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for _, id := range cache.IDs() {
		g.Go(func() error {
			meta, err := s.GetTokenMetadata(gctx, id)
			if err != nil {
				return err
			}
			if meta != nil {
				cache.Set(id, meta)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("list tokens: %w", err)
	}

	tokens := cache.Resolved()
	s.logger.Debug("tokens resolved",
		zap.Int("pools", len(records)),
		zap.Int("distinct", len(cache.IDs())),
		zap.Int("resolved", len(tokens)),
	)
	return tokens, nil
}

// AptMetadataID returns the metadata object id of the first pool leg whose
// symbol is APT.
func (s *Service) AptMetadataID(ctx context.Context) (string, error) {
	records, err := s.pools.AllPools(ctx)
	if err != nil {
		return "", fmt.Errorf("find APT metadata: %w", err)
	}
	for _, rec := range records {
		if rec.Token1Symbol == aptSymbol {
			return rec.Token1, nil
		}
		if rec.Token2Symbol == aptSymbol {
			return rec.Token2, nil
		}
	}
	return "", fmt.Errorf("%w: no pool quotes %s", model.ErrNotFound, aptSymbol)
}

func withPrices(rec model.PoolRecord) model.PoolInfo {
	return model.PoolInfo{
		PoolRecord:  rec,
		Token1Price: CalculatePrice(rec.SqrtPrice, rec.Token1Decimals, rec.Token2Decimals, true),
		Token2Price: CalculatePrice(rec.SqrtPrice, rec.Token1Decimals, rec.Token2Decimals, false),
	}
}

func metadataFromResource(address string, data map[string]any) model.TokenMetadata {
	meta := model.TokenMetadata{
		Address:     address,
		Name:        stringField(data, "name"),
		Symbol:      stringField(data, "symbol"),
		Decimals:    intField(data, "decimals"),
		LogoURI:     stringField(data, "icon_uri"),
		ProjectURL:  stringField(data, "project_uri"),
		Description: stringField(data, "description"),
	}
	if meta.Name == "" {
		meta.Name = "Unknown"
	}
	if meta.Symbol == "" {
		meta.Symbol = "UNKNOWN"
	}
	return meta
}

func stringField(data map[string]any, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

func intField(data map[string]any, key string) int {
	switch v := data[key].(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return int(v)
	case int:
		return v
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0
		}
		return int(n)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}
