package client

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"crypto-trading-sim/internal/config"
	"crypto-trading-sim/internal/models"
	"crypto-trading-sim/internal/trader"
	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const maxRetries = 3

// APIClientInterface defines the operations the CLI needs from the web server.
type APIClientInterface interface {
	GetPrices(ctx context.Context) ([]Price, error)
	GetPortfolio(ctx context.Context) (*trader.Valuation, error)
	Trade(ctx context.Context, side models.Side, coin models.CoinSymbol, amount string) (*trader.Valuation, error)
}

// Client talks to the simulator's JSON API.
// It implements the APIClientInterface.
type Client struct {
	client  *resty.Client
	logger  *zap.Logger
	limiter *rate.Limiter
	backoff time.Duration
}

// ensure Client implements the interface
var _ APIClientInterface = (*Client)(nil)

// NewClient creates a client for the server at cfg.BaseURL.
func NewClient(cfg *config.Client, logger *zap.Logger) *Client {
	return &Client{
		client:  resty.New().SetBaseURL(cfg.BaseURL).SetTimeout(10 * time.Second),
		logger:  logger.Named("api-client"),
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst),
		backoff: time.Second,
	}
}

// Price is one entry of the market price table.
type Price struct {
	Coin  models.CoinSymbol `json:"coin"`
	Price decimal.Decimal   `json:"price"`
}

// APIError is returned when the server rejects a request.
// Rejected trades unwrap to trader.ErrInvalidAmount or trader.ErrInsufficientBalance.
type APIError struct {
	StatusCode int
	Message    string `json:"error"`
	Kind       string `json:"kind"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server replied %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return trader.ErrorForKind(e.Kind)
}

// GetPrices fetches the market price table.
func (c *Client) GetPrices(ctx context.Context) ([]Price, error) {
	var prices []Price
	req := c.client.R().SetResult(&prices)

	if _, err := c.doRequest(ctx, http.MethodGet, "/api/prices", req); err != nil {
		return nil, fmt.Errorf("failed to get prices: %w", err)
	}
	return prices, nil
}

// GetPortfolio fetches the valuation of the current portfolio.
func (c *Client) GetPortfolio(ctx context.Context) (*trader.Valuation, error) {
	req := c.client.R().SetResult(&trader.Valuation{})

	resp, err := c.doRequest(ctx, http.MethodGet, "/api/portfolio", req)
	if err != nil {
		return nil, fmt.Errorf("failed to get portfolio: %w", err)
	}
	return resp.Result().(*trader.Valuation), nil
}

// Trade submits a buy or sell. amount is sent as entered; the server validates it.
func (c *Client) Trade(ctx context.Context, side models.Side, coin models.CoinSymbol, amount string) (*trader.Valuation, error) {
	path := "/api/buy"
	if side == models.SideSell {
		path = "/api/sell"
	}

	req := c.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(models.TradeRequest{Coin: coin, Amount: amount}).
		SetResult(&trader.Valuation{})

	resp, err := c.doRequest(ctx, http.MethodPost, path, req)
	if err != nil {
		return nil, fmt.Errorf("failed to %s %s: %w", side, coin, err)
	}
	return resp.Result().(*trader.Valuation), nil
}

// doRequest handles the actual request execution with rate limiting and retry logic.
func (c *Client) doRequest(ctx context.Context, method, url string, req *resty.Request) (*resty.Response, error) {
	var resp *resty.Response
	var err error

	req.SetContext(ctx).SetError(&APIError{})

	for i := 0; i < maxRetries; i++ {
		// Wait for the rate limiter
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}

		c.logger.Debug("Executing request", zap.String("method", method), zap.String("url", c.client.BaseURL+url))
		resp, err = req.Execute(method, url)

		if err == nil && !resp.IsError() {
			return resp, nil // Success
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}

		// Analyze error and decide whether to retry
		shouldRetry := false
		var retryAfter time.Duration

		if err == nil {
			statusCode := resp.StatusCode()
			if statusCode == http.StatusTooManyRequests {
				shouldRetry = true
				if seconds, convErr := strconv.Atoi(resp.Header().Get("Retry-After")); convErr == nil {
					retryAfter = time.Duration(seconds) * time.Second
				}
			} else if statusCode >= 500 {
				shouldRetry = true
			}
			err = responseError(resp)
		} else { // Network or other client-side errors
			shouldRetry = true
		}

		if !shouldRetry {
			return nil, err
		}
		if i == maxRetries-1 {
			break
		}

		// Exponential backoff: 1, 2, 4 times the base delay
		if retryAfter == 0 {
			retryAfter = time.Duration(math.Pow(2, float64(i))) * c.backoff
		}

		c.logger.Warn("Request failed, retrying...",
			zap.Int("attempt", i+1),
			zap.Duration("retry_after", retryAfter),
			zap.Error(err),
		)

		select {
		case <-time.After(retryAfter):
			continue
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", maxRetries, err)
}

func responseError(resp *resty.Response) error {
	apiErr, ok := resp.Error().(*APIError)
	if !ok || apiErr == nil || apiErr.Message == "" {
		return &APIError{StatusCode: resp.StatusCode(), Message: resp.Status()}
	}
	apiErr.StatusCode = resp.StatusCode()
	return apiErr
}
