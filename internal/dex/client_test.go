package dex

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/hasura/go-graphql-client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheCleopatra/tradingflow-aptos-contract/internal/model"
)

const poolsResponse = `{
  "data": {
    "api": {
      "getPoolStat": [
        {"pool": {
          "poolId": "0xp1", "feeTier": 1, "feeRate": "500", "currentTick": -120,
          "sqrtPrice": "1.5", "liquidity": 123456789,
          "token1": "0xa", "token2": "0xb",
          "token1Info": {"symbol": "APT", "name": "Aptos Coin", "decimals": 8},
          "token2Info": {"symbol": "USDC", "name": "USD Coin", "decimals": 6}
        }},
        {"pool": {
          "poolId": "0xp2", "feeTier": 2, "currentTick": 7,
          "sqrtPrice": "0.25", "liquidity": "42",
          "token1": "0xb", "token2": "0xc",
          "token1Info": {"symbol": "USDC", "name": "USD Coin", "decimals": 6},
          "token2Info": null
        }},
        {"pool": null}
      ]
    }
  }
}`

func newTestServer(t *testing.T, handler func(req graphql.GraphQLRequestPayload) (int, string)) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req graphql.GraphQLRequestPayload
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		status, body := handler(req)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestClientAllPools(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(poolsResponse))
	}))
	defer server.Close()

	client := NewClient(server.URL, WithAPIKey("secret"))
	pools, err := client.AllPools(context.Background())
	require.NoError(t, err)
	require.Len(t, pools, 2)

	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, model.PoolRecord{
		PoolID:         "0xp1",
		Token1:         "0xa",
		Token2:         "0xb",
		Token1Symbol:   "APT",
		Token2Symbol:   "USDC",
		Token1Decimals: 8,
		Token2Decimals: 6,
		FeeTier:        model.FeeTier5bp,
		Liquidity:      "123456789",
		SqrtPrice:      "1.5",
		Tick:           -120,
	}, pools[0])
	assert.Equal(t, "42", pools[1].Liquidity)
	assert.Equal(t, "", pools[1].Token2Symbol)
}

func TestClientPoolByID(t *testing.T) {
	server := newTestServer(t, func(req graphql.GraphQLRequestPayload) (int, string) {
		if !strings.Contains(req.Query, "queryPoolById") {
			t.Errorf("unexpected query: %s", req.Query)
		}
		if req.Variables["poolId"] == "0xp2" {
			return http.StatusOK, poolsResponse
		}
		return http.StatusOK, `{"data": {"api": {"getPoolStat": []}}}`
	})

	client := NewClient(server.URL)

	pool, err := client.PoolByID(context.Background(), "0xp2")
	require.NoError(t, err)
	require.NotNil(t, pool)
	assert.Equal(t, "0xp2", pool.PoolID)

	pool, err = client.PoolByID(context.Background(), "unknown-id")
	require.NoError(t, err)
	assert.Nil(t, pool)
}

func TestClientPoolByTokenPair(t *testing.T) {
	server := newTestServer(t, func(graphql.GraphQLRequestPayload) (int, string) {
		return http.StatusOK, poolsResponse
	})
	client := NewClient(server.URL)
	ctx := context.Background()

	pool, err := client.PoolByTokenPair(ctx, "0xB", "0xA", model.FeeTier5bp)
	require.NoError(t, err)
	require.NotNil(t, pool)
	assert.Equal(t, "0xp1", pool.PoolID)

	pool, err = client.PoolByTokenPair(ctx, "0xa", "0xb", model.FeeTier30bp)
	require.NoError(t, err)
	assert.Nil(t, pool)
}

func TestClientErrors(t *testing.T) {
	server := newTestServer(t, func(graphql.GraphQLRequestPayload) (int, string) {
		return http.StatusOK, `{"errors": [{"message": "rate limited"}]}`
	})
	_, err := NewClient(server.URL).AllPools(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")

	var calls atomic.Int32
	server = newTestServer(t, func(graphql.GraphQLRequestPayload) (int, string) {
		calls.Add(1)
		return http.StatusBadGateway, `upstream down`
	})
	_, err = NewClient(server.URL).AllPools(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 502: upstream down")
	assert.Equal(t, int32(1), calls.Load())

	server = newTestServer(t, func(graphql.GraphQLRequestPayload) (int, string) {
		return http.StatusOK, `{"data": null}`
	})
	_, err = NewClient(server.URL).AllPools(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty data")
}

func TestClientCustomHTTPClient(t *testing.T) {
	server := newTestServer(t, func(graphql.GraphQLRequestPayload) (int, string) {
		return http.StatusOK, poolsResponse
	})

	client := NewClient(server.URL, WithHTTPClient(server.Client()), WithAPIKey("  "))
	pools, err := client.AllPools(context.Background())
	require.NoError(t, err)
	assert.Len(t, pools, 2)
}
