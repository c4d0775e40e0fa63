package oracle

import (
	"context"
	"creditmanager/core"
	"creditmanager/pkg/credit"
	"creditmanager/pkg/number"
	"creditmanager/pkg/resthttp"
	"fmt"
	"strings"
	"time"

	"github.com/bluele/gcache"
	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/uuid"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// PriceDecimals precision of quote currency values
const PriceDecimals = 8

const defaultCacheSeconds = 10

// PriceService price oracle backed by a ticker endpoint. A value is
// amount * price / 10^decimals at PriceDecimals precision.
type PriceService struct {
	endpoint string
	ttl      time.Duration
	cache    gcache.Cache
	sf       *singleflight.Group
}

var _ core.IPriceOracle = (*PriceService)(nil)

// New new oracle price service
func New(config *core.Config) *PriceService {
	seconds := config.PriceOracle.CacheSeconds
	if seconds <= 0 {
		seconds = defaultCacheSeconds
	}

	return &PriceService{
		endpoint: strings.TrimSuffix(config.PriceOracle.EndPoint, "/"),
		ttl:      time.Duration(seconds) * time.Second,
		cache:    gcache.New(2048).LRU().Build(),
		sf:       &singleflight.Group{},
	}
}

// PullPriceTicker pull the current price ticker of token
func (s *PriceService) PullPriceTicker(ctx context.Context, token string) (*core.PriceTicker, error) {
	url := fmt.Sprintf("%s/api/v2/tickers/%s", s.endpoint, token)
	logger.FromContext(ctx).Debugln("pull price:", url)

	resp, err := resthttp.WithRequestID(ctx, uuid.New()).Get(url)
	if err != nil {
		return nil, err
	}

	var ticker core.PriceTicker
	if err := resthttp.ParseResponse(resp, &ticker); err != nil {
		return nil, err
	}

	if !ticker.Price.IsPositive() {
		return nil, fmt.Errorf("invalid price %s for %s", ticker.Price, token)
	}

	if ticker.Decimals < 0 {
		return nil, fmt.Errorf("invalid decimals %d for %s", ticker.Decimals, token)
	}

	return &ticker, nil
}

func (s *PriceService) ticker(ctx context.Context, token string) (*core.PriceTicker, error) {
	if v, err := s.cache.Get(token); err == nil {
		if ticker, ok := v.(*core.PriceTicker); ok {
			return ticker, nil
		}
	}

	v, err, _ := s.sf.Do(token, func() (interface{}, error) {
		ticker, err := s.PullPriceTicker(ctx, token)
		if err != nil {
			return nil, err
		}

		_ = s.cache.SetWithExpire(token, ticker, s.ttl)
		return ticker, nil
	})
	if err != nil {
		logger.FromContext(ctx).WithError(err).WithField("token", token).Errorln("PullPriceTicker")
		return nil, err
	}

	return v.(*core.PriceTicker), nil
}

func (s *PriceService) factors(ctx context.Context, token string) (price, unit *uint256.Int, err error) {
	ticker, err := s.ticker(ctx, token)
	if err != nil {
		return nil, nil, err
	}

	if price, err = number.ToRaw(ticker.Price, PriceDecimals); err != nil {
		return nil, nil, err
	}

	if price.IsZero() {
		return nil, nil, fmt.Errorf("price of %s below quote precision", token)
	}

	unit, overflow := uint256.FromBig(decimal.New(1, ticker.Decimals).BigInt())
	if overflow {
		return nil, nil, core.ErrArithmeticOverflow
	}
	return price, unit, nil
}

// ValueOf implements core.IPriceOracle
func (s *PriceService) ValueOf(ctx context.Context, token string, amount *uint256.Int) (*uint256.Int, error) {
	price, unit, err := s.factors(ctx, token)
	if err != nil {
		return nil, err
	}
	return credit.MulDiv(amount, price, unit)
}

// AmountOf implements core.IPriceOracle
func (s *PriceService) AmountOf(ctx context.Context, token string, value *uint256.Int) (*uint256.Int, error) {
	price, unit, err := s.factors(ctx, token)
	if err != nil {
		return nil, err
	}
	return credit.MulDiv(value, unit, price)
}
