package venue

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/haliaxis/triarb/internal/opportunity"
)

// RESTAdapterConfig configures a generic HMAC-signed REST venue adapter.
// The signing scheme (timestamp+method+path+body, standard base64 HMAC-
// SHA256) follows the convention used across KuCoin-style CEX APIs.
type RESTAdapterConfig struct {
	VenueName     string
	BaseURL       string
	APIKey        string
	APISecret     string
	APIPassphrase string
	FeeToken      string
	FeeDiscount   float64
	SymbolTTL     time.Duration
	Timeout       time.Duration
	Logger        *zap.Logger
}

// RESTAdapter is a venue Adapter backed by an HMAC-signed REST API.
type RESTAdapter struct {
	name          string
	client        *resty.Client
	apiKey        string
	apiSecret     string
	apiPassphrase string
	feeToken      string
	feeDiscount   float64
	logger        *zap.Logger
	cache         *symbolCache

	// timeSkewMS is updated only by SyncTime (single-writer); reads via
	// atomic.Int64 are lock-free, matching spec.md §5's shared-resource
	// discipline for the Venue Adapter's clock-offset field.
	timeSkewMS atomic.Int64
}

// NewRESTAdapter builds a RESTAdapter from cfg.
func NewRESTAdapter(cfg RESTAdapterConfig) *RESTAdapter {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ttl := cfg.SymbolTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout)

	return &RESTAdapter{
		name:          cfg.VenueName,
		client:        client,
		apiKey:        cfg.APIKey,
		apiSecret:     cfg.APISecret,
		apiPassphrase: cfg.APIPassphrase,
		feeToken:      cfg.FeeToken,
		feeDiscount:   cfg.FeeDiscount,
		logger:        cfg.Logger,
		cache:         newSymbolCache(ttl),
	}
}

// Name implements Adapter.
func (a *RESTAdapter) Name() string {
	return a.name
}

type orderbookResponse struct {
	Bids [][2]string `json:"bids"`
	Asks [][2]string `json:"asks"`
}

// GetOrderbook implements Adapter.
func (a *RESTAdapter) GetOrderbook(ctx context.Context, symbol string, depth int) (*OrderbookSnapshot, error) {
	start := time.Now()

	var raw orderbookResponse
	path := fmt.Sprintf("/api/v1/market/orderbook/level2_%d", depth)
	resp, err := a.signedRequest(ctx, "GET", path, map[string]string{"symbol": symbol}, nil, &raw)
	OrderbookFetchDurationSeconds.WithLabelValues(a.name).Observe(time.Since(start).Seconds())
	if err != nil {
		OrderbookFetchesTotal.WithLabelValues(a.name, "error").Inc()
		return nil, fmt.Errorf("get orderbook %s: %w", symbol, err)
	}
	_ = resp

	snapshot := &OrderbookSnapshot{
		Symbol:     symbol,
		CapturedAt: time.Now(),
	}
	snapshot.Bids = parseLevels(raw.Bids)
	snapshot.Asks = parseLevels(raw.Asks)

	if len(snapshot.Bids) == 0 || len(snapshot.Asks) == 0 {
		OrderbookFetchesTotal.WithLabelValues(a.name, "no_liquidity").Inc()
		return nil, NewAdapterError(ErrNoLiquidity, symbol, "empty top of book")
	}

	OrderbookFetchesTotal.WithLabelValues(a.name, "ok").Inc()
	return snapshot, nil
}

func parseLevels(raw [][2]string) []PriceLevel {
	levels := make([]PriceLevel, 0, len(raw))
	for _, pair := range raw {
		price, err := strconv.ParseFloat(pair[0], 64)
		if err != nil {
			continue
		}
		size, err := strconv.ParseFloat(pair[1], 64)
		if err != nil {
			continue
		}
		levels = append(levels, PriceLevel{Price: price, Size: size})
	}
	return levels
}

type orderResponse struct {
	OrderID     string `json:"orderId"`
	Status      string `json:"status"`
	FilledSize  string `json:"dealSize"`
	FilledFunds string `json:"dealFunds"`
	Fee         string `json:"fee"`
	FeeCurrency string `json:"feeCurrency"`
}

// PlaceMarketOrder implements Adapter.
func (a *RESTAdapter) PlaceMarketOrder(ctx context.Context, symbol string, side opportunity.Side, quantity float64) (*LegResult, error) {
	start := time.Now()

	body := map[string]string{
		"symbol": symbol,
		"side":   string(side),
		"type":   "market",
	}
	if side == opportunity.Buy {
		body["funds"] = strconv.FormatFloat(quantity, 'f', -1, 64)
	} else {
		body["size"] = strconv.FormatFloat(quantity, 'f', -1, 64)
	}

	var raw orderResponse
	_, err := a.signedRequest(ctx, "POST", "/api/v1/orders", nil, body, &raw)
	OrderDurationSeconds.WithLabelValues(a.name).Observe(time.Since(start).Seconds())
	if err != nil {
		OrdersPlacedTotal.WithLabelValues(a.name, string(side), "error").Inc()
		return nil, fmt.Errorf("place market order %s %s: %w", side, symbol, err)
	}

	filledBase, _ := strconv.ParseFloat(raw.FilledSize, 64)
	costQuote, _ := strconv.ParseFloat(raw.FilledFunds, 64)
	fee, _ := strconv.ParseFloat(raw.Fee, 64)

	if filledBase == 0 && costQuote == 0 {
		OrdersPlacedTotal.WithLabelValues(a.name, string(side), "zero_fill").Inc()
		return nil, NewAdapterError(ErrRejected, symbol, "order filled zero quantity")
	}

	OrdersPlacedTotal.WithLabelValues(a.name, string(side), "ok").Inc()

	return &LegResult{
		Symbol:      symbol,
		Side:        side,
		FilledBase:  filledBase,
		CostQuote:   costQuote,
		FeePaid:     fee,
		FeeCurrency: raw.FeeCurrency,
		WallclockMS: time.Since(start).Milliseconds(),
	}, nil
}

type timeResponse struct {
	ServerTimeMS int64 `json:"serverTime"`
}

// SyncTime implements Adapter.
func (a *RESTAdapter) SyncTime(ctx context.Context) (int64, error) {
	var raw timeResponse
	sendStart := time.Now()
	_, err := a.signedRequest(ctx, "GET", "/api/v1/timestamp", nil, nil, &raw)
	if err != nil {
		return 0, fmt.Errorf("sync time: %w", err)
	}
	localMS := sendStart.Add(time.Since(sendStart) / 2).UnixMilli()
	drift := raw.ServerTimeMS - localMS

	a.timeSkewMS.Store(drift)
	TimeSkewMS.WithLabelValues(a.name).Set(float64(drift))

	a.logger.Info("venue-time-synced",
		zap.String("venue", a.name),
		zap.Int64("drift-ms", drift))

	return drift, nil
}

// SymbolInfo implements Adapter.
func (a *RESTAdapter) SymbolInfo(ctx context.Context, symbol string) (SymbolInfo, error) {
	if info, ok := a.cache.get(symbol); ok {
		return info, nil
	}

	var raw struct {
		BaseMinSize  string `json:"baseMinSize"`
		PriceIncr    string `json:"priceIncrement"`
		BaseIncr     string `json:"baseIncrement"`
		QuoteMinSize string `json:"quoteMinSize"`
	}
	_, err := a.signedRequest(ctx, "GET", "/api/v1/symbols/"+symbol, nil, nil, &raw)
	if err != nil {
		return SymbolInfo{}, fmt.Errorf("symbol info %s: %w", symbol, err)
	}

	tick, _ := strconv.ParseFloat(raw.PriceIncr, 64)
	lot, _ := strconv.ParseFloat(raw.BaseIncr, 64)
	minNotional, _ := strconv.ParseFloat(raw.QuoteMinSize, 64)

	info := SymbolInfo{
		Symbol:      symbol,
		TickSize:    tick,
		LotStep:     lot,
		MinNotional: minNotional,
		FetchedAt:   time.Now(),
	}
	a.cache.set(info)
	return info, nil
}

// FeeDiscountActive implements Adapter. A real venue would check the fee
// token balance; whether the discount is active is reported here so the
// Revalidator can apply it without the adapter leaking balance details.
func (a *RESTAdapter) FeeDiscountActive(ctx context.Context) (bool, error) {
	if a.feeToken == "" {
		return false, nil
	}

	var raw struct {
		Balance string `json:"available"`
	}
	_, err := a.signedRequest(ctx, "GET", "/api/v1/accounts", map[string]string{"currency": a.feeToken}, nil, &raw)
	if err != nil {
		return false, fmt.Errorf("check fee discount balance: %w", err)
	}

	balance, _ := strconv.ParseFloat(raw.Balance, 64)
	return balance > 0, nil
}

// signedRequest issues an HMAC-signed request against the venue API.
// Grounded on the teacher's OrderClient.submitOrder HMAC pattern:
// signature payload is timestamp+method+path+body, the secret is
// base64-decoded (used as raw bytes if it is not valid base64) and the
// signature is encoded as standard base64.
func (a *RESTAdapter) signedRequest(ctx context.Context, method, path string, query map[string]string, body map[string]string, out any) (*resty.Response, error) {
	timestamp := fmt.Sprintf("%d", time.Now().UnixMilli()+a.timeSkewMS.Load())

	var bodyStr string
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		bodyStr = string(raw)
	}

	signaturePayload := timestamp + method + path + bodyStr

	secretBytes, err := base64.StdEncoding.DecodeString(a.apiSecret)
	if err != nil {
		secretBytes = []byte(a.apiSecret)
	}
	h := hmac.New(sha256.New, secretBytes)
	h.Write([]byte(signaturePayload))
	signature := base64.StdEncoding.EncodeToString(h.Sum(nil))

	req := a.client.R().
		SetContext(ctx).
		SetHeader("API-KEY", a.apiKey).
		SetHeader("API-SIGN", signature).
		SetHeader("API-TIMESTAMP", timestamp).
		SetHeader("API-PASSPHRASE", a.apiPassphrase).
		SetHeader("Content-Type", "application/json").
		SetResult(out)

	if query != nil {
		req = req.SetQueryParams(query)
	}
	if body != nil {
		req = req.SetBody(bodyStr)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, NewAdapterError(ErrTimeout, path, err.Error())
	}
	if resp.IsError() {
		return resp, NewAdapterError(ErrRejected, path, fmt.Sprintf("status %d: %s", resp.StatusCode(), resp.String()))
	}

	return resp, nil
}
