package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/wmbgolfco/engraving-backend/pkg/config"
	pkgerrors "github.com/wmbgolfco/engraving-backend/pkg/errors"
	"github.com/wmbgolfco/engraving-backend/pkg/logger"
	"github.com/wmbgolfco/engraving-backend/pkg/metrics"
)

const (
	defaultAPIVersion           = "2024-10"
	tokenHeader                 = "X-Shopify-Storefront-Access-Token"
	responseBodyReadLimit int64 = 1 << 20
	errorBodyReadLimit    int64 = 1024
	breakerName                 = "shopify-storefront"
)

var (
	errDomainRequired = errors.New("shopify store domain is required")
	errTokenRequired  = errors.New("shopify storefront token is required")
)

// BreakerSettings tunes the circuit breaker guarding the Storefront API.
type BreakerSettings struct {
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	FailureRatio float64
	MinRequests  uint32
}

// DefaultBreakerSettings trips after half of at least five calls fail.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests:  1,
		Interval:     60 * time.Second,
		Timeout:      30 * time.Second,
		FailureRatio: 0.5,
		MinRequests:  5,
	}
}

// Client talks to the Shopify Storefront GraphQL API.
type Client struct {
	httpClient *http.Client
	endpoint   string
	token      string
	breaker    *gobreaker.CircuitBreaker[[]byte]
	settings   BreakerSettings
	logg       *logger.Logger
	metrics    *metrics.BreakerMetrics
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithEndpoint overrides the GraphQL endpoint derived from the store domain.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(endpoint); trimmed != "" {
			c.endpoint = trimmed
		}
	}
}

func WithBreakerSettings(settings BreakerSettings) Option {
	return func(c *Client) {
		c.settings = settings
	}
}

func WithLogger(logg *logger.Logger) Option {
	return func(c *Client) {
		if logg != nil {
			c.logg = logg
		}
	}
}

func WithBreakerMetrics(m *metrics.BreakerMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient builds a Storefront client for the given store.
func NewClient(domain, token, apiVersion string, opts ...Option) (*Client, error) {
	domain = strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(domain), "https://"), "/")
	if domain == "" {
		return nil, errDomainRequired
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errTokenRequired
	}
	if strings.TrimSpace(apiVersion) == "" {
		apiVersion = defaultAPIVersion
	}

	client := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		endpoint:   fmt.Sprintf("https://%s/api/%s/graphql.json", domain, apiVersion),
		token:      token,
		settings:   DefaultBreakerSettings(),
		logg:       logger.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	client.breaker = client.newBreaker()
	client.metrics.SetState(breakerName, stateToFloat(gobreaker.StateClosed))
	return client, nil
}

// NewClientFromConfig wires the client from the Shopify config section.
func NewClientFromConfig(cfg config.ShopifyConfig, logg *logger.Logger, m *metrics.BreakerMetrics) (*Client, error) {
	settings := DefaultBreakerSettings()
	if cfg.BreakerMaxRequests > 0 {
		settings.MaxRequests = cfg.BreakerMaxRequests
	}
	if cfg.BreakerInterval > 0 {
		settings.Interval = cfg.BreakerInterval
	}
	if cfg.BreakerTimeout > 0 {
		settings.Timeout = cfg.BreakerTimeout
	}
	if cfg.BreakerFailureRatio > 0 {
		settings.FailureRatio = cfg.BreakerFailureRatio
	}
	if cfg.BreakerMinRequests > 0 {
		settings.MinRequests = cfg.BreakerMinRequests
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return NewClient(cfg.StoreDomain, cfg.StorefrontToken, cfg.APIVersion,
		WithHTTPClient(&http.Client{Timeout: timeout}),
		WithBreakerSettings(settings),
		WithLogger(logg),
		WithBreakerMetrics(m),
	)
}

func (c *Client) newBreaker() *gobreaker.CircuitBreaker[[]byte] {
	settings := c.settings
	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < settings.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= settings.FailureRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			ctx := c.logg.WithFields(context.Background(), map[string]any{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
			c.logg.Warn(ctx, "circuit breaker state change")
			c.metrics.SetState(name, stateToFloat(to))
		},
	})
}

// State reports the breaker state.
func (c *Client) State() gobreaker.State {
	return c.breaker.State()
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// execute posts a GraphQL document and decodes data into out. Only transport
// failures and non-200 responses count against the breaker.
func (c *Client) execute(ctx context.Context, op, query string, variables map[string]any, out any) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "shopify client not configured")
	}
	payload, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal "+op+" request")
	}

	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.post(ctx, payload)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storefront temporarily unavailable")
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op+" request failed")
	}

	var resp graphQLResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode "+op+" response")
	}
	if len(resp.Errors) > 0 {
		msgs := make([]string, 0, len(resp.Errors))
		for _, e := range resp.Errors {
			msgs = append(msgs, e.Message)
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New(strings.Join(msgs, "; ")), msgs[0])
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode "+op+" data")
	}
	return nil
}

func (c *Client) post(ctx context.Context, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(tokenHeader, c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}
