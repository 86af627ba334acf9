// Package rateprovider fetches daily exchange rates from an exchangerate.host style HTTP API.
package rateprovider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SscSPs/family_finance_engine/internal/apperrors"
	portsrepo "github.com/SscSPs/family_finance_engine/internal/core/ports/repositories"
	"github.com/SscSPs/family_finance_engine/internal/logging"
	"github.com/SscSPs/family_finance_engine/internal/utils/period"
	"github.com/shopspring/decimal"
)

const (
	defaultTimeout = 15 * time.Second
	defaultRetries = 2
	defaultBackoff = 500 * time.Millisecond
	// maxErrorBody bounds how much of a failed response is kept for the error message.
	maxErrorBody = 512
)

// Client talks to the rate provider. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	name       string
	retries    int
	backoff    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, including its timeout.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		if d > 0 {
			cl.httpClient = &http.Client{Timeout: d}
		}
	}
}

// WithAPIKey sends key as the access_key query parameter.
func WithAPIKey(key string) Option {
	return func(cl *Client) { cl.apiKey = key }
}

// WithRetries sets how many times a failed request is retried, and the fixed wait between attempts.
func WithRetries(retries int, backoff time.Duration) Option {
	return func(cl *Client) {
		if retries >= 0 {
			cl.retries = retries
		}
		if backoff >= 0 {
			cl.backoff = backoff
		}
	}
}

// WithName overrides the source name stored with ingested rates.
func WithName(name string) Option {
	return func(cl *Client) { cl.name = name }
}

// New creates a client for the provider at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		name:       hostName(baseURL),
		retries:    defaultRetries,
		backoff:    defaultBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ portsrepo.RateProvider = (*Client)(nil)

// Name identifies the provider by host.
func (c *Client) Name() string {
	return c.name
}

// ratesResponse covers both payload shapes: a flat "rates" map, or "quotes" keyed by BASE+SYMBOL.
type ratesResponse struct {
	Success *bool                      `json:"success"`
	Base    string                     `json:"base"`
	Source  string                     `json:"source"`
	Rates   map[string]decimal.Decimal `json:"rates"`
	Quotes  map[string]decimal.Decimal `json:"quotes"`
	Error   *struct {
		Type string `json:"type"`
		Info string `json:"info"`
	} `json:"error"`
}

// statusError is a non-2xx answer from the provider.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.code, e.body)
}

// FetchRates fetches the rates of symbols against base for date.
func (c *Client) FetchRates(ctx context.Context, date time.Time, base string, symbols []string) (map[string]decimal.Decimal, error) {
	base = strings.ToUpper(base)
	endpoint := c.endpoint(date, base, symbols)
	logger := logging.FromContext(ctx)

	var (
		payload *ratesResponse
		err     error
	)
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			logger.Warn("Retrying rate provider request",
				"attempt", attempt, "error", err.Error())
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", apperrors.ErrIngestion, ctx.Err())
			case <-time.After(c.backoff):
			}
		}

		payload, err = c.get(ctx, endpoint)
		if err == nil || !retryable(err) {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", apperrors.ErrIngestion, c.name, err)
	}

	return parseRates(payload, base)
}

func (c *Client) endpoint(date time.Time, base string, symbols []string) string {
	q := url.Values{}
	q.Set("base", base)
	q.Set("source", base)
	q.Set("symbols", strings.Join(symbols, ","))
	if c.apiKey != "" {
		q.Set("access_key", c.apiKey)
	}
	return c.baseURL + "/" + period.DateKey(date) + "?" + q.Encode()
}

func (c *Client) get(ctx context.Context, endpoint string) (*ratesResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building rates request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rates request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(body))}
	}

	var payload ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &decodeError{err: err}
	}
	return &payload, nil
}

type decodeError struct{ err error }

func (e *decodeError) Error() string { return "decoding rates response: " + e.err.Error() }
func (e *decodeError) Unwrap() error { return e.err }

// retryable reports whether another attempt may succeed: transport failures and 5xx answers.
func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= 500
	}
	var de *decodeError
	return !errors.As(err, &de)
}

func parseRates(payload *ratesResponse, base string) (map[string]decimal.Decimal, error) {
	if payload.Success != nil && !*payload.Success {
		msg := "provider reported failure"
		if payload.Error != nil {
			msg = fmt.Sprintf("%s: %s %s", msg, payload.Error.Type, payload.Error.Info)
		}
		return nil, fmt.Errorf("%w: %s", apperrors.ErrIngestion, strings.TrimSpace(msg))
	}

	rates := make(map[string]decimal.Decimal, len(payload.Rates)+len(payload.Quotes))
	for sym, rate := range payload.Rates {
		rates[strings.ToUpper(sym)] = rate
	}

	prefix := base
	if payload.Source != "" {
		prefix = strings.ToUpper(payload.Source)
	}
	for pair, rate := range payload.Quotes {
		pair = strings.ToUpper(pair)
		sym := strings.TrimPrefix(pair, prefix)
		if sym == pair || sym == "" {
			continue
		}
		rates[sym] = rate
	}

	if len(rates) == 0 {
		return nil, fmt.Errorf("%w: provider returned no rates", apperrors.ErrIngestion)
	}
	return rates, nil
}

func hostName(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "rate-provider"
	}
	return u.Host
}
