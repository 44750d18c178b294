// Package pms is the HTTP client for the invoicing system's monthly revenue API.
package pms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/innledger/backend/internal/domain/revenue"
	"github.com/innledger/backend/internal/domain/shared"
	"github.com/innledger/backend/internal/infrastructure/config"
)

// maxResponseSize caps how much of a response body is read (10MB)
const maxResponseSize = 10 * 1024 * 1024

const systemName = "PMS"

// Client fetches monthly branch revenue
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	now        func() time.Time
}

// NewClient creates a PMS client from configuration
func NewClient(cfg config.PMSConfig) *Client {
	return NewClientWithHTTP(cfg, &http.Client{Timeout: cfg.Timeout})
}

// NewClientWithHTTP creates a PMS client that sends requests through httpClient
func NewClientWithHTTP(cfg config.PMSConfig, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

type monthlyResponse struct {
	Data []branchRevenue `json:"data"`
}

type branchRevenue struct {
	BranchID   string          `json:"branchId"`
	BranchName string          `json:"branchName"`
	BranchCode string          `json:"branchCode"`
	Amount     decimal.Decimal `json:"amount"`
	LastDate   *string         `json:"lastDate"`
}

// FetchMonthly returns one record per branch for the month. Rows without a
// branch id are dropped.
func (c *Client) FetchMonthly(ctx context.Context, month shared.YearMonth) ([]revenue.PmsRecord, error) {
	if c.baseURL == "" {
		return nil, shared.NewUpstreamError(systemName, "base URL is not configured")
	}

	query := url.Values{}
	query.Set("month", month.String())
	body, err := c.doRequest(ctx, "/api/revenue/monthly?"+query.Encode())
	if err != nil {
		return nil, err
	}

	var resp monthlyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, shared.NewUpstreamError(systemName, "malformed response body")
	}

	syncedAt := c.now()
	records := make([]revenue.PmsRecord, 0, len(resp.Data))
	for _, row := range resp.Data {
		if strings.TrimSpace(row.BranchID) == "" {
			continue
		}
		records = append(records, revenue.PmsRecord{
			Month:      month,
			BranchID:   row.BranchID,
			BranchName: row.BranchName,
			BranchCode: row.BranchCode,
			Amount:     row.Amount.Round(2),
			LastDate:   parseLastDate(row.LastDate),
			SyncedAt:   syncedAt,
		})
	}
	return records, nil
}

// parseLastDate accepts a plain date or an RFC 3339 timestamp and returns nil
// for anything else.
func parseLastDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	if t, err := time.Parse(shared.DateLayout, *s); err == nil {
		return &t
	}
	if t, err := time.Parse(time.RFC3339, *s); err == nil {
		d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		return &d
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("pms: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, shared.NewUpstreamError(systemName, "service unreachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, shared.NewUpstreamError(systemName, "failed to read response")
	}

	if resp.StatusCode >= 400 {
		return nil, shared.NewUpstreamError(systemName, fmt.Sprintf("HTTP %d", resp.StatusCode))
	}

	return body, nil
}

var _ revenue.PmsSource = (*Client)(nil)
