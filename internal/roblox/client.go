// Package roblox is a typed client for the public Roblox web APIs used to
// discover a user's game passes.
package roblox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/passfinder/passfinder/internal/metrics"
)

const (
	// ClientTimeout is the hard cap for any request, including body reads.
	ClientTimeout = 30 * time.Second
	// DialTimeout is the connection timeout.
	DialTimeout = 5 * time.Second
	// TLSHandshakeTimeout is the TLS negotiation timeout.
	TLSHandshakeTimeout = 5 * time.Second
	// ResponseHeaderTimeout is time to wait for response headers.
	ResponseHeaderTimeout = 10 * time.Second

	// DefaultCallTimeout bounds a single upstream call when none is configured.
	DefaultCallTimeout = 10 * time.Second

	// maxBodyBytes caps how much of an upstream body is read.
	maxBodyBytes = 4 << 20

	userAgent = "passfinder/1.0"
)

// Endpoint labels, used for logging and metrics.
const (
	EndpointCatalog     = "catalog"
	EndpointUserGames   = "user_games"
	EndpointGamePasses  = "game_passes"
	EndpointPassDetail  = "pass_detail"
	EndpointUserPasses  = "user_passes"
	EndpointExperiences = "experiences"
)

// Config configures a Client. Zero values fall back to the public hosts.
type Config struct {
	CatalogBaseURL string
	GamesBaseURL   string
	APIsBaseURL    string
	APIKey         string
	CallTimeout    time.Duration
	HTTPClient     *http.Client
	Metrics        metrics.Recorder
}

// Client issues read-only GET requests against the upstream APIs.
// It is safe for concurrent use.
type Client struct {
	catalogBase string
	gamesBase   string
	apisBase    string
	apiKey      string
	callTimeout time.Duration
	http        *http.Client
	metrics     metrics.Recorder
}

// New creates a Client.
func New(cfg Config) *Client {
	if cfg.CatalogBaseURL == "" {
		cfg.CatalogBaseURL = "https://catalog.roblox.com"
	}
	if cfg.GamesBaseURL == "" {
		cfg.GamesBaseURL = "https://games.roblox.com"
	}
	if cfg.APIsBaseURL == "" {
		cfg.APIsBaseURL = "https://apis.roblox.com"
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = DefaultCallTimeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = NewHTTPClient()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewNoop()
	}

	return &Client{
		catalogBase: strings.TrimRight(cfg.CatalogBaseURL, "/"),
		gamesBase:   strings.TrimRight(cfg.GamesBaseURL, "/"),
		apisBase:    strings.TrimRight(cfg.APIsBaseURL, "/"),
		apiKey:      strings.TrimSpace(cfg.APIKey),
		callTimeout: cfg.CallTimeout,
		http:        cfg.HTTPClient,
		metrics:     cfg.Metrics,
	}
}

// HasAPIKey reports whether privileged endpoints can be called.
func (c *Client) HasAPIKey() bool {
	return c.apiKey != ""
}

// NewHTTPClient creates an HTTP client configured for upstream API calls.
// It has appropriate timeouts and does not follow redirects.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout: ClientTimeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   DialTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   TLSHandshakeTimeout,
			ResponseHeaderTimeout: ResponseHeaderTimeout,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   16,
			IdleConnTimeout:       90 * time.Second,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// getJSON performs a GET and decodes a 2xx JSON body into T.
// Failures are classified as TransportError, HTTPStatusError or DecodeError.
func getJSON[T any](ctx context.Context, c *Client, endpoint string, u *url.URL, header http.Header) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		c.metrics.IncUpstreamRequest(endpoint, metrics.OutcomeTransportError)
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.IncUpstreamRequest(endpoint, metrics.OutcomeTransportError)
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		c.metrics.IncUpstreamRequest(endpoint, metrics.OutcomeTransportError)
		return nil, &TransportError{Endpoint: endpoint, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.metrics.IncUpstreamRequest(endpoint, metrics.OutcomeStatusError)
		return nil, &HTTPStatusError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: truncate(string(raw), 256)}
	}

	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		c.metrics.IncUpstreamRequest(endpoint, metrics.OutcomeDecodeError)
		return nil, &DecodeError{Endpoint: endpoint, Err: err}
	}

	c.metrics.IncUpstreamRequest(endpoint, metrics.OutcomeOK)
	return &out, nil
}

func buildURL(base, path string, query url.Values) (*url.URL, error) {
	u, err := url.Parse(base + path)
	if err != nil {
		return nil, fmt.Errorf("invalid upstream url: %w", err)
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
