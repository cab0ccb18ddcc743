package backoffice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/subhlabh/billing/internal/config"
)

// Client talks to the back-office endpoints that own sales and customers.
// Requests are never retried.
type Client struct {
	baseURL      string
	apiToken     string
	salePath     string
	customerPath string
	httpClient   *http.Client
	logger       *zap.Logger
}

// NewClient creates a new back-office client
func NewClient(cfg config.BackofficeConfig, logger *zap.Logger) *Client {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")

	return &Client{
		baseURL:      baseURL,
		apiToken:     cfg.APIToken,
		salePath:     cfg.SalePath,
		customerPath: cfg.CustomerPath,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// PrintURL is the printable view of a saved sale
func (c *Client) PrintURL(saleID int64) string {
	return fmt.Sprintf("%s/sales/%d/print/", c.baseURL, saleID)
}

// post sends body to path and decodes a JSON response into out
func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader, headers map[string]string, out interface{}) error {
	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("Back office returned non-OK status",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return fmt.Errorf("back office error: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload interface{}, headers map[string]string, out interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	return c.post(ctx, path, "application/json", bytes.NewBuffer(jsonData), headers, out)
}
