package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/GoPolymarket/liqwatch/internal/config"
	"github.com/GoPolymarket/liqwatch/internal/pkg/apperrors"
	"github.com/GoPolymarket/liqwatch/internal/pkg/metrics"
)

const (
	DefaultBaseURL    = "https://api.coingecko.com/api/v3"
	DefaultCoinID     = "ethereum"
	DefaultVsCurrency = "usd"
	DefaultTimeout    = 10 * time.Second
)

// CoinGeckoClient reads spot prices from the /simple/price endpoint.
type CoinGeckoClient struct {
	baseURL    string
	coinID     string
	vsCurrency string
	http       *http.Client
}

func NewCoinGeckoClient(cfg config.PriceConfig, httpClient *http.Client) *CoinGeckoClient {
	c := &CoinGeckoClient{
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		coinID:     strings.ToLower(strings.TrimSpace(cfg.CoinID)),
		vsCurrency: strings.ToLower(strings.TrimSpace(cfg.VsCurrency)),
		http:       httpClient,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.coinID == "" {
		c.coinID = DefaultCoinID
	}
	if c.vsCurrency == "" {
		c.vsCurrency = DefaultVsCurrency
	}
	if c.http == nil {
		timeout := cfg.Timeout()
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		c.http = &http.Client{Timeout: timeout}
	}
	return c
}

// simplePriceResponse is {"ethereum": {"usd": 2000.12}}
type simplePriceResponse map[string]map[string]float64

func (c *CoinGeckoClient) Price(ctx context.Context) (float64, error) {
	q := url.Values{}
	q.Set("ids", c.coinID)
	q.Set("vs_currencies", c.vsCurrency)
	endpoint := c.baseURL + "/simple/price?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, apperrors.New(apperrors.ErrInternal, "build price request", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.UpstreamLatency.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return 0, apperrors.NewUpstream("price request failed", err)
	}
	defer resp.Body.Close()
	metrics.UpstreamLatency.WithLabelValues(strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, apperrors.NewUpstream(fmt.Sprintf("API error: %d", resp.StatusCode), nil)
	}

	var body simplePriceResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, apperrors.NewUpstream("decode price response", err)
	}
	quote, ok := body[c.coinID][c.vsCurrency]
	if !ok {
		return 0, apperrors.NewUpstream(fmt.Sprintf("price for %s/%s missing from response", c.coinID, c.vsCurrency), nil)
	}
	return quote, nil
}

// Pair returns the asset and quote currency this client tracks, e.g. ("ethereum", "usd").
func (c *CoinGeckoClient) Pair() (string, string) {
	return c.coinID, c.vsCurrency
}
