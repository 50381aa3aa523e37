package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"meme-scanner/shared/logger"

	"golang.org/x/time/rate"
)

const dexScreenerAPI = "https://api.dexscreener.com"

// Pair is the DexScreener market snapshot. Every nested field is optional on
// the wire; accessors below default missing values to zero so a partial
// response never fails a tick.
type Pair struct {
	ChainID       string             `json:"chainId"`
	DexID         string             `json:"dexId"`
	URL           string             `json:"url"`
	PairAddress   string             `json:"pairAddress"`
	BaseToken     Token              `json:"baseToken"`
	QuoteToken    Token              `json:"quoteToken"`
	PriceNative   string             `json:"priceNative"`
	PriceUsd      string             `json:"priceUsd"`
	Transactions  map[string]TxData  `json:"txns"`
	Volume        map[string]float64 `json:"volume"`
	PriceChange   map[string]float64 `json:"priceChange"`
	Liquidity     *Liquidity         `json:"liquidity"`
	FDV           float64            `json:"fdv"`
	MarketCap     float64            `json:"marketCap"`
	PairCreatedAt int64              `json:"pairCreatedAt"`
	Info          *TokenInfo         `json:"info"`
}

type Token struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

type Liquidity struct {
	Usd   float64 `json:"usd"`
	Base  float64 `json:"base"`
	Quote float64 `json:"quote"`
}

type TxData struct {
	Buys  int `json:"buys"`
	Sells int `json:"sells"`
}

type TokenInfo struct {
	ImageURL string `json:"imageUrl"`
}

func (p *Pair) LiquidityUSD() float64 {
	if p.Liquidity == nil {
		return 0
	}
	return p.Liquidity.Usd
}

func (p *Pair) Symbol() string {
	if p.BaseToken.Symbol == "" {
		return "?"
	}
	return p.BaseToken.Symbol
}

// PriceUSD parses the quoted price, falling back to the native price when
// the USD quote is missing.
func (p *Pair) PriceUSD() float64 {
	if v, err := strconv.ParseFloat(p.PriceUsd, 64); err == nil {
		return v
	}
	if v, err := strconv.ParseFloat(p.PriceNative, 64); err == nil {
		return v
	}
	return 0
}

func (p *Pair) VolumeWindow(window string) float64 {
	return p.Volume[window]
}

func (p *Pair) PriceChangeWindow(window string) float64 {
	return p.PriceChange[window]
}

func (p *Pair) TxWindow(window string) TxData {
	return p.Transactions[window]
}

type pairsResponse struct {
	Pairs []Pair `json:"pairs"`
}

// DexClient talks to the DexScreener public API under a shared rate limit.
type DexClient struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	log     *logger.Logger
}

func NewDexClient(log *logger.Logger) *DexClient {
	return &DexClient{
		baseURL: dexScreenerAPI,
		http:    &http.Client{Timeout: 20 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(4.66), 5),
		log:     log,
	}
}

func (c *DexClient) getPairs(ctx context.Context, path string, query url.Values) ([]Pair, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("dexscreener rate limiter: %w", err)
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dexscreener request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("dexscreener rate limit exceeded (429)")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dexscreener responded %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading dexscreener response: %w", err)
	}

	var parsed pairsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("dexscreener JSON parsing failed: %w", err)
	}
	return parsed.Pairs, nil
}

// PairDetails looks up one pair. DexScreener serves pair lookups under two
// path shapes depending on the listing; both are tried before giving up.
func (c *DexClient) PairDetails(ctx context.Context, chain, pairAddress string) (*Pair, error) {
	paths := []string{
		"/latest/dex/pairs/" + pairAddress,
		"/latest/dex/pairs/" + chain + "/" + pairAddress,
	}
	var lastErr error
	for _, path := range paths {
		pairs, err := c.getPairs(ctx, path, nil)
		if err != nil {
			lastErr = err
			continue
		}
		if len(pairs) > 0 {
			return &pairs[0], nil
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, fmt.Errorf("pair %s not found on dexscreener", pairAddress)
}

// SearchPairs returns the freshest pairs matching a chain query.
func (c *DexClient) SearchPairs(ctx context.Context, query string) ([]Pair, error) {
	return c.getPairs(ctx, "/latest/dex/search", url.Values{"q": {query}})
}

// PriceNow fetches the current USD price for a pair, for outcome labeling.
func (c *DexClient) PriceNow(ctx context.Context, chain, pairAddress string) (float64, error) {
	pair, err := c.PairDetails(ctx, chain, pairAddress)
	if err != nil {
		return 0, err
	}
	return pair.PriceUSD(), nil
}
