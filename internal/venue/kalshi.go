package venue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"parlay/internal/config"
	"parlay/internal/logger"
	"parlay/internal/types"

	"github.com/tidwall/gjson"
)

// KalshiClient wraps the Kalshi trade API endpoints the executor needs:
// login, order placement and market lookups.
type KalshiClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	email      string
	password   string

	tokenMu     sync.Mutex
	token       string
	tokenExpiry time.Time

	rateMu      sync.Mutex
	lastRequest time.Time
	rateDelay   time.Duration
}

const (
	kalshiDemoURL = "https://demo-api.kalshi.co/trade-api/v2"
	kalshiProdURL = "https://api.kalshi.co/trade-api/v2"

	tokenLifetime = 24 * time.Hour
)

// NewKalshiClient constructs a client from configuration. The demo flag
// selects the demo environment; api_url overrides both when set.
func NewKalshiClient(cfg config.VenueConfig) (*KalshiClient, error) {
	raw := strings.TrimSpace(cfg.APIURL)
	if raw == "" {
		raw = kalshiProdURL
		if cfg.Demo {
			raw = kalshiDemoURL
		}
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing venue.api_url failed: %w", err)
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &KalshiClient{
		baseURL:    parsed,
		httpClient: &http.Client{Timeout: timeout},
		email:      strings.TrimSpace(cfg.Email),
		password:   strings.TrimSpace(cfg.Password),
		rateDelay:  200 * time.Millisecond,
	}, nil
}

// SetHTTPClient sets the HTTP client for testing.
func (c *KalshiClient) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// PlaceOrder validates the request locally, then posts it with
// time_in_force=gtc. Transport and non-2xx responses come back as VenueError.
func (c *KalshiClient) PlaceOrder(ctx context.Context, req OrderRequest) (*OrderResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	payload := map[string]any{
		"ticker":        req.Ticker,
		"side":          string(req.Side),
		"type":          req.Type.OrderType(),
		"price":         req.Price,
		"size":          req.Size,
		"time_in_force": "gtc",
	}
	body, err := c.doJSON(ctx, http.MethodPost, "/orders", payload)
	if err != nil {
		return nil, &types.VenueError{Op: "place_order", Err: err}
	}
	parsed := gjson.ParseBytes(body)
	orderID := parsed.Get("order_id").String()
	if orderID == "" {
		orderID = parsed.Get("order.order_id").String()
	}
	if orderID == "" {
		return nil, &types.VenueError{Op: "place_order", Err: fmt.Errorf("response missing order_id")}
	}
	status := parsed.Get("status").String()
	if status == "" {
		status = "resting"
	}
	return &OrderResult{OrderID: orderID, Status: status}, nil
}

// MarketSnapshot fetches current prices for a ticker. Missing markets and
// transport failures both surface as ErrSnapshotUnavailable so the monitor
// can skip-and-retry uniformly.
func (c *KalshiClient) MarketSnapshot(ctx context.Context, ticker string) (*Snapshot, error) {
	if strings.TrimSpace(ticker) == "" {
		return nil, types.NewValidationError("ticker", "must not be empty")
	}
	body, err := c.doJSON(ctx, http.MethodGet, "/markets/"+url.PathEscape(ticker), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrSnapshotUnavailable, err)
	}
	parsed := gjson.ParseBytes(body)
	market := parsed.Get("market")
	if !market.Exists() {
		market = parsed
	}
	yes := int(market.Get("yes_price").Int())
	no := int(market.Get("no_price").Int())
	if yes == 0 && no == 0 {
		return nil, fmt.Errorf("%w: no prices for %s", types.ErrSnapshotUnavailable, ticker)
	}
	if no == 0 && yes > 0 {
		no = 100 - yes
	}
	snap := &Snapshot{
		Ticker:   ticker,
		YesPrice: yes,
		NoPrice:  no,
		Volume:   market.Get("volume").Int(),
	}
	if raw := market.Get("close_time").String(); raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			snap.CloseTime = &ts
		} else {
			logger.Debugf("kalshi: unparsable close_time %q for %s", raw, ticker)
		}
	}
	return snap, nil
}

func (c *KalshiClient) doJSON(ctx context.Context, method, path string, payload any) ([]byte, error) {
	if err := c.ensureToken(ctx); err != nil {
		return nil, err
	}
	c.throttle()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(encoded)
	}
	endpoint := strings.TrimRight(c.baseURL.String(), "/") + path
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.tokenMu.Lock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	c.tokenMu.Unlock()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("%s %s: status=%d body=%s", method, path, resp.StatusCode, truncate(data, 200))
	}
	return data, nil
}

// ensureToken logs in lazily and refreshes the bearer token before expiry.
func (c *KalshiClient) ensureToken(ctx context.Context) error {
	if c.email == "" {
		// Unauthenticated mode: public market endpoints still work.
		return nil
	}
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()
	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return nil
	}
	payload, err := json.Marshal(map[string]string{"email": c.email, "password": c.password})
	if err != nil {
		return err
	}
	endpoint := strings.TrimRight(c.baseURL.String(), "/") + "/login"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("login failed: status=%d body=%s", resp.StatusCode, truncate(data, 200))
	}
	token := gjson.GetBytes(data, "token").String()
	if token == "" {
		return fmt.Errorf("login response missing token")
	}
	c.token = token
	c.tokenExpiry = time.Now().Add(tokenLifetime)
	logger.Infof("kalshi: logged in as %s", c.email)
	return nil
}

// throttle keeps at least rateDelay between consecutive requests.
func (c *KalshiClient) throttle() {
	c.rateMu.Lock()
	defer c.rateMu.Unlock()
	if c.rateDelay <= 0 {
		return
	}
	if since := time.Since(c.lastRequest); since < c.rateDelay {
		time.Sleep(c.rateDelay - since)
	}
	c.lastRequest = time.Now()
}

func truncate(data []byte, n int) string {
	s := string(data)
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
