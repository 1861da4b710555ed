package yahoo

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/fantasy-matchup/internal/platform/jsonnode"
	"github.com/riskibarqy/fantasy-matchup/internal/platform/logging"
	"github.com/riskibarqy/fantasy-matchup/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-matchup/internal/usecase"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultAPIBaseURL = "https://fantasysports.yahooapis.com/fantasy/v2"
	defaultTimeout    = 10 * time.Second
)

var errTransport = crerr.New("yahoo transport failure")

// CallRecorder observes upstream calls; *metrics.Collector satisfies it.
type CallRecorder interface {
	ObserveProviderCall(resource string, status int, elapsed time.Duration)
}

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.BreakerConfig
	Metrics        CallRecorder
}

// Client reads Fantasy API resources with a user's bearer token. It never
// retries and never refreshes tokens; an expired token surfaces as a
// ProviderError with the provider's status.
type Client struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
	logger     *logging.Logger
	breaker    *resilience.Breaker
	metrics    CallRecorder
	flight     singleflight.Group
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultAPIBaseURL
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		timeout:    timeout,
		logger:     logger,
		breaker:    resilience.NewBreaker(cfg.CircuitBreaker),
		metrics:    cfg.Metrics,
	}
}

// Fetch returns the decoded JSON document at path.
func (c *Client) Fetch(ctx context.Context, accessToken, path string) (jsonnode.Node, error) {
	raw, err := c.FetchRaw(ctx, accessToken, path)
	if err != nil {
		return jsonnode.Node{}, err
	}

	node, err := jsonnode.Parse(raw)
	if err != nil {
		return jsonnode.Node{}, crerr.Wrapf(err, "decode yahoo response %s", path)
	}
	return node, nil
}

// FetchRaw returns the undecoded response body at path.
func (c *Client) FetchRaw(ctx context.Context, accessToken, path string) ([]byte, error) {
	token := strings.TrimSpace(accessToken)
	if token == "" {
		return nil, fmt.Errorf("%w: access token is required", usecase.ErrUnauthorized)
	}

	fullURL := resourceURL(c.baseURL, path)
	key := hashToken(token) + " " + fullURL

	// The shared call outlives any single caller: one caller going away must
	// not fail the others waiting on the same key. c.timeout still bounds it.
	shared := context.WithoutCancel(ctx)
	results := c.flight.DoChan(key, func() (any, error) {
		var raw []byte
		callErr := c.breaker.Do(func() error {
			var reqErr error
			raw, reqErr = c.execute(shared, token, fullURL, path)
			return reqErr
		}, isBreakerFailure)
		return raw, callErr
	})

	var out any
	var err error
	select {
	case <-ctx.Done():
		return nil, crerr.Wrapf(ctx.Err(), "yahoo request %s", path)
	case res := <-results:
		out, err = res.Val, res.Err
	}
	if stderrors.Is(err, resilience.ErrOpen) {
		c.logger.WarnContext(ctx, "yahoo circuit breaker rejected request", "path", path, "state", c.breaker.State())
		return nil, fmt.Errorf("%w: fantasy provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, crerr.Newf("unexpected response payload type %T", out)
	}
	return raw, nil
}

func (c *Client) execute(ctx context.Context, token, fullURL, path string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, crerr.Wrap(err, "build yahoo request")
	}
	req.Header.Set("Accept", "application/json")
	(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(req)

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(path, 0, started)
		return nil, crerr.Mark(crerr.Wrapf(err, "send yahoo request %s", path), errTransport)
	}
	defer resp.Body.Close()

	raw, err := readBody(resp.Body)
	c.observe(path, resp.StatusCode, started)
	if err != nil {
		return nil, crerr.Mark(crerr.Wrapf(err, "read yahoo response %s", path), errTransport)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.WarnContext(ctx, "yahoo api request failed",
			"status_code", resp.StatusCode,
			"url", fullURL,
			"body", abbreviateBody(raw),
		)
		return nil, &ProviderError{StatusCode: resp.StatusCode, Path: path}
	}

	return raw, nil
}

func (c *Client) observe(path string, status int, started time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.ObserveProviderCall(resourceLabel(path), status, time.Since(started))
}

func isBreakerFailure(err error) bool {
	var providerErr *ProviderError
	if stderrors.As(err, &providerErr) {
		return providerErr.Temporary()
	}
	if crerr.Is(err, context.Canceled) {
		return false
	}
	return crerr.Is(err, errTransport)
}
