// Package catalog provides the music catalog search client.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"spotpick/internal/core"
	"spotpick/internal/record"
)

const (
	// SearchPath is appended to the configured base URL
	SearchPath = "/search"
	// SearchTypeTrack restricts results to tracks
	SearchTypeTrack = "track"
	// MaxResponseBytes caps how much of a response body is read
	MaxResponseBytes = 8 << 20
)

type Client struct {
	config  *core.CatalogConfig
	logger  *zap.Logger
	http    *http.Client
	metrics core.MetricsRecorder
}

var _ core.Searcher = (*Client)(nil)

// NewClient builds a catalog client. When client credentials are configured
// every request carries an app token obtained with the client credentials
// flow; otherwise requests are sent as is.
func NewClient(config *core.CatalogConfig, logger *zap.Logger, metrics core.MetricsRecorder) *Client {
	if metrics == nil {
		metrics = core.NopMetrics{}
	}

	httpClient := &http.Client{Timeout: config.Timeout}
	if config.HasCredentials() {
		creds := &clientcredentials.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			TokenURL:     spotifyauth.TokenURL,
		}
		tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
		httpClient = creds.Client(tokenCtx)
		httpClient.Timeout = config.Timeout
		logger.Debug("Catalog requests will use client credentials")
	}

	return &Client{
		config:  config,
		logger:  logger,
		http:    httpClient,
		metrics: metrics,
	}
}

// Search issues one blocking track search and returns the tracks found under
// tracks.items, in catalog order. An empty item list is not an error.
func (c *Client) Search(ctx context.Context, term string) (core.SearchResult, error) {
	start := time.Now()
	result, err := c.search(ctx, term)
	c.metrics.RecordSearch(searchStatus(err), time.Since(start))

	if err != nil {
		c.logger.Warn("Catalog search failed", zap.String("term", term), zap.Error(err))
		return nil, err
	}

	c.logger.Debug("Catalog search completed",
		zap.String("term", term),
		zap.Int("tracks", len(result)),
		zap.Duration("elapsed", time.Since(start)))

	return result, nil
}

func (c *Client) search(ctx context.Context, term string) (core.SearchResult, error) {
	endpoint := c.searchEndpoint()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+c.searchParams(term).Encode(), http.NoBody)
	if err != nil {
		return nil, &core.NetworkError{Op: "search", URL: endpoint, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &core.NetworkError{Op: "search", URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes))
	if err != nil {
		return nil, &core.NetworkError{Op: "search", URL: endpoint, Err: fmt.Errorf("failed to read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &core.NetworkError{Op: "search", URL: endpoint, StatusCode: resp.StatusCode}
	}

	return parseSearchResult(body)
}

func (c *Client) searchEndpoint() string {
	return strings.TrimRight(c.config.BaseURL, "/") + SearchPath
}

func (c *Client) searchParams(term string) url.Values {
	params := url.Values{
		"q":    {term},
		"type": {SearchTypeTrack},
	}
	if c.config.Limit > 0 {
		params.Set("limit", strconv.Itoa(c.config.Limit))
	}
	return params
}

func parseSearchResult(body []byte) (core.SearchResult, error) {
	doc, err := record.Parse(body)
	if err != nil {
		return nil, &core.MalformedResponseError{Reason: "body is not JSON", Err: err}
	}

	items, ok := doc.Get("tracks", "items").Records()
	if !ok {
		return nil, &core.MalformedResponseError{Reason: "tracks.items is missing or not an array"}
	}

	return core.SearchResult(items), nil
}

func searchStatus(err error) string {
	var malformed *core.MalformedResponseError
	switch {
	case err == nil:
		return core.SearchStatusOK
	case errors.As(err, &malformed):
		return core.SearchStatusMalformed
	default:
		return core.SearchStatusNetwork
	}
}
