package oracle

import (
	"context"
	"creditmanager/core"
	"creditmanager/pkg/resthttp"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTickerServer(t *testing.T, hits *int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/api/v2/tickers/weth":
			_, _ = w.Write([]byte(`{"provider":"test","symbol":"WETH","price":"2000.5","decimals":18}`))
		case "/api/v2/tickers/usdc":
			_, _ = w.Write([]byte(`{"provider":"test","symbol":"USDC","price":"1","decimals":6}`))
		case "/api/v2/tickers/zero":
			_, _ = w.Write([]byte(`{"provider":"test","symbol":"ZERO","price":"0","decimals":6}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"not found"}`))
		}
	}))
}

func TestPriceService(t *testing.T) {
	var hits int32
	server := newTickerServer(t, &hits)
	defer server.Close()

	ctx := context.Background()
	s := New(&core.Config{PriceOracle: core.PriceOracle{EndPoint: server.URL + "/", CacheSeconds: 60}})

	value, err := s.ValueOf(ctx, "weth", uint256.MustFromDecimal("1500000000000000000"))
	require.Nil(t, err)
	assert.Equal(t, "300075000000", value.Dec())

	amount, err := s.AmountOf(ctx, "weth", value)
	require.Nil(t, err)
	assert.Equal(t, "1500000000000000000", amount.Dec())
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	value, err = s.ValueOf(ctx, "usdc", uint256.NewInt(2_500_000))
	require.Nil(t, err)
	assert.Equal(t, "250000000", value.Dec())
}

func TestPriceServiceErrors(t *testing.T) {
	var hits int32
	server := newTickerServer(t, &hits)
	defer server.Close()

	ctx := context.Background()
	s := New(&core.Config{PriceOracle: core.PriceOracle{EndPoint: server.URL}})

	_, err := s.ValueOf(ctx, "dai", uint256.NewInt(1))
	var httpErr *resthttp.Error
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)

	_, err = s.ValueOf(ctx, "zero", uint256.NewInt(1))
	assert.Error(t, err)
}
