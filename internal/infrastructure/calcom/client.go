// Package calcom talks to the Cal.com v2 platform API on behalf of managed
// coach accounts.
package calcom

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/coachhub/coachhub/internal/application/scheduling/provider"
	"github.com/coachhub/coachhub/internal/domain/integration"
	"github.com/coachhub/coachhub/internal/infrastructure/ratelimit"
	"github.com/coachhub/coachhub/internal/shared/config"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

const (
	requestTimeout     = 15 * time.Second
	maxResponseSize    = 1 << 20
	scheduleAPIVersion = "2024-06-11"
	platformLimiterKey = "platform"
)

var _ provider.CalcomClient = (*Client)(nil)

type Client struct {
	baseURL    string
	clientID   string
	secretKey  string
	apiVersion string
	httpClient *http.Client
	limiter    *ratelimit.ProviderLimiter
	logger     logger.Interface
}

func NewClient(cfg config.CalcomConfig, log logger.Interface) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		clientID:   cfg.ClientID,
		secretKey:  cfg.SecretKey,
		apiVersion: cfg.APIVersion,
		httpClient: &http.Client{Timeout: requestTimeout},
		limiter:    ratelimit.NewProviderLimiter(cfg.RequestsPerSec),
		logger:     log,
	}
}

func (c *Client) Provider() integration.Provider {
	return integration.ProviderCalcom
}

// envelope is the {status, data, error} wrapper every v2 endpoint returns.
type envelope struct {
	Status     string          `json:"status"`
	Data       json.RawMessage `json:"data"`
	Pagination *struct {
		HasNextPage bool `json:"hasNextPage"`
	} `json:"pagination,omitempty"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type request struct {
	op          string
	method      string
	path        string
	query       map[string]string
	body        any
	accessToken string
	platform    bool
	apiVersion  string
	limiterKey  string
}

// do sends req and decodes the envelope's data into out.
func (c *Client) do(ctx context.Context, req request, out any) (*envelope, error) {
	key := req.limiterKey
	if key == "" {
		key = platformLimiterKey
	}
	if err := c.limiter.Wait(ctx, key); err != nil {
		return nil, err
	}

	var body io.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s request: %w", req.op, err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", req.op, err)
	}
	if len(req.query) > 0 {
		q := httpReq.URL.Query()
		for k, v := range req.query {
			q.Set(k, v)
		}
		httpReq.URL.RawQuery = q.Encode()
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	version := req.apiVersion
	if version == "" {
		version = c.apiVersion
	}
	if version != "" {
		httpReq.Header.Set("cal-api-version", version)
	}
	if req.platform {
		httpReq.Header.Set("x-cal-client-id", c.clientID)
		httpReq.Header.Set("x-cal-secret-key", c.secretKey)
	}
	if req.accessToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.accessToken)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calcom %s: %w", req.op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read calcom %s response: %w", req.op, err)
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil && resp.StatusCode < 300 {
			return nil, fmt.Errorf("failed to decode calcom %s response: %w", req.op, err)
		}
	}

	if resp.StatusCode >= 300 || env.Status == "error" {
		apiErr := &provider.Error{
			Provider:   integration.ProviderCalcom,
			Op:         req.op,
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
		}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		c.logger.Warnw("calcom request failed", "op", req.op, "status", resp.StatusCode, "code", apiErr.Code)
		return nil, apiErr
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("failed to decode calcom %s data: %w", req.op, err)
		}
	}
	return &env, nil
}
