package dex

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hasura/go-graphql-client"
	"go.uber.org/zap"

	"github.com/TheCleopatra/tradingflow-aptos-contract/internal/model"
)

// Default configuration values.
const (
	DefaultEndpoint = "https://api.hyperion.xyz/v1/graphql"
	DefaultTimeout  = 30 * time.Second
)

// Client queries the Hyperion DEX GraphQL API.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	gql        *graphql.Client
	logger     *zap.Logger
}

// ClientOption configures Client.
type ClientOption func(*Client)

// WithAPIKey sets the API key sent as a bearer token.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = strings.TrimSpace(key)
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a new DEX client. An empty endpoint uses DefaultEndpoint.
func NewClient(endpoint string, opts ...ClientOption) *Client {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = DefaultEndpoint
	}
	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.gql = graphql.NewClient(c.endpoint, c.httpClient)
	if c.apiKey != "" {
		bearer := "Bearer " + c.apiKey
		c.gql = c.gql.WithRequestModifier(func(req *http.Request) {
			req.Header.Set("Authorization", bearer)
		})
	}
	return c
}

// AllPools returns every pool known to the indexer.
func (c *Client) AllPools(ctx context.Context) ([]model.PoolRecord, error) {
	var data poolStatData
	if err := c.query(ctx, allPoolsQuery, nil, &data); err != nil {
		return nil, fmt.Errorf("fetch all pools: %w", err)
	}

	pools := make([]model.PoolRecord, 0, len(data.API.GetPoolStat))
	for _, stat := range data.API.GetPoolStat {
		if stat.Pool == nil || stat.Pool.PoolID == "" {
			continue
		}
		pools = append(pools, stat.Pool.record())
	}
	return pools, nil
}

// PoolByID returns the pool with the given id, or nil when it does not exist.
func (c *Client) PoolByID(ctx context.Context, poolID string) (*model.PoolRecord, error) {
	var data poolStatData
	vars := map[string]any{"poolId": poolID}
	if err := c.query(ctx, poolByIDQuery, vars, &data); err != nil {
		return nil, fmt.Errorf("fetch pool %s: %w", poolID, err)
	}

	for _, stat := range data.API.GetPoolStat {
		if stat.Pool != nil && sameToken(stat.Pool.PoolID, poolID) {
			rec := stat.Pool.record()
			return &rec, nil
		}
	}
	return nil, nil
}

// PoolByTokenPair returns the pool for the token pair (either order) and fee
// tier, or nil when none exists.
func (c *Client) PoolByTokenPair(ctx context.Context, token1, token2 string, feeTier model.FeeTier) (*model.PoolRecord, error) {
	pools, err := c.AllPools(ctx)
	if err != nil {
		return nil, err
	}

	for i := range pools {
		if matchesPair(pools[i], token1, token2, feeTier) {
			return &pools[i], nil
		}
	}
	return nil, nil
}

func (c *Client) query(ctx context.Context, query string, vars map[string]any, out any) error {
	start := time.Now()
	data, err := c.gql.ExecRaw(ctx, query, vars)
	c.logger.Debug("dex query",
		zap.Int("bytes", len(data)),
		zap.Duration("elapsed", time.Since(start)),
		zap.Bool("failed", err != nil),
	)
	if err != nil {
		return queryError(err)
	}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("graphql: empty data")
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	return nil
}

// queryError flattens the client's error list into one readable error.
func queryError(err error) error {
	var netErr graphql.NetworkError
	if errors.As(err, &netErr) {
		return fmt.Errorf("HTTP %d: %s", netErr.StatusCode(), truncate(netErr.Body(), 200))
	}

	var gqlErrs graphql.Errors
	if !errors.As(err, &gqlErrs) || len(gqlErrs) == 0 {
		return err
	}
	msgs := make([]string, 0, len(gqlErrs))
	for _, e := range gqlErrs {
		msgs = append(msgs, e.Message)
	}
	return fmt.Errorf("graphql: %s", strings.Join(msgs, "; "))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
