package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/de-tools/ecfr-atlas/pkg/models/domain"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

const (
	DefaultTimeout = 60 * time.Second
	maxBodyBytes   = 32 << 20
)

type Settings struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client talks to the eCFR analyzer REST API. It holds no state besides its
// configuration and never retries.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(settings Settings) (*Client, error) {
	base := strings.TrimRight(settings.BaseURL, "/")
	if base == "" {
		return nil, fmt.Errorf("base url is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", settings.BaseURL, err)
	}

	httpClient := settings.HTTPClient
	if httpClient == nil {
		timeout := settings.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL: base,
		http:    httpClient,
	}, nil
}

func (c *Client) getJSON(ctx context.Context, resource string, query url.Values, out any) error {
	body, err := c.get(ctx, resource, query)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &domain.ServerError{
			Resource:   resource,
			StatusCode: http.StatusOK,
			Err:        fmt.Errorf("decode response: %w", err),
		}
	}
	return nil
}

func (c *Client) get(ctx context.Context, resource string, query url.Values) ([]byte, error) {
	logger := zerolog.Ctx(ctx)

	target := c.baseURL + resource
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", resource, err)
	}
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Warn().Err(err).Str("resource", resource).Msg("api request failed")
		return nil, &domain.NetworkError{Op: "GET " + resource, Err: err}
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close response body")
		}
	}(resp.Body)

	logger.Debug().
		Str("resource", resource).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(started)).
		Msg("api request")

	switch {
	case resp.StatusCode >= 500:
		return nil, &domain.ServerError{Resource: resource, StatusCode: resp.StatusCode}
	case resp.StatusCode >= 400:
		return nil, &domain.NotFoundError{Resource: resource, StatusCode: resp.StatusCode}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, &domain.ServerError{Resource: resource, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &domain.NetworkError{Op: "read " + resource, Err: err}
	}
	return body, nil
}
