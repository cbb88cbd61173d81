package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
}

type HTTPClient struct {
	cfg    Config
	client *http.Client
	log    *zap.Logger
}

func NewHTTP(cfg Config, log *zap.Logger) *HTTPClient {
	return &HTTPClient{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
		log:    log.Named("providers.marketplace"),
	}
}

func (c *HTTPClient) Initiate(ctx context.Context, req InitiateRequest) (*InitiateResponse, error) {
	return c.post(ctx, "/v1/transactions/initiate", req)
}

func (c *HTTPClient) Speculate(ctx context.Context, req InitiateRequest) (*InitiateResponse, error) {
	return c.post(ctx, "/v1/transactions/initiate_speculative", req)
}

func (c *HTTPClient) post(ctx context.Context, path string, payload InitiateRequest) (*InitiateResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal initiate request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn("marketplace initiate rejected",
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode),
		)
		return nil, fmt.Errorf("marketplace returned status %d", resp.StatusCode)
	}

	var out InitiateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode initiate response: %w", err)
	}
	return &out, nil
}
