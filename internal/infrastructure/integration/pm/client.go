// Package pm is the HTTP client for the hotel-management system's transaction API.
package pm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/innledger/backend/internal/domain/revenue"
	"github.com/innledger/backend/internal/domain/shared"
	"github.com/innledger/backend/internal/infrastructure/config"
)

// maxResponseSize caps how much of a response body is read (10MB)
const maxResponseSize = 10 * 1024 * 1024

// maxPages stops a misbehaving upstream that always reports hasMore
const maxPages = 10000

const systemName = "PM"

// Client fetches transactions page by page
type Client struct {
	baseURL    string
	apiKey     string
	pageSize   int
	httpClient *http.Client
	now        func() time.Time
}

// NewClient creates a PM client from configuration
func NewClient(cfg config.PMConfig) *Client {
	return NewClientWithHTTP(cfg, &http.Client{Timeout: cfg.Timeout})
}

// NewClientWithHTTP creates a PM client that sends requests through httpClient
func NewClientWithHTTP(cfg config.PMConfig, httpClient *http.Client) *Client {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 500
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		pageSize:   pageSize,
		httpClient: httpClient,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

type transactionPage struct {
	Data    []transaction `json:"data"`
	HasMore bool          `json:"hasMore"`
}

type transaction struct {
	ID          flexString      `json:"id"`
	Date        string          `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	BranchName  string          `json:"branchName"`
	RoomNo      flexString      `json:"roomNo"`
	Description string          `json:"description"`
}

// flexString accepts a JSON string or number
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// FetchRange returns every transaction between start and end inclusive.
// Records without an id or with an unparseable date come back with an empty
// RecordID so the caller counts them as skipped.
func (c *Client) FetchRange(ctx context.Context, start, end time.Time) ([]revenue.PmRecord, error) {
	if c.baseURL == "" {
		return nil, shared.NewUpstreamError(systemName, "base URL is not configured")
	}

	syncedAt := c.now()
	var records []revenue.PmRecord
	for page := 1; page <= maxPages; page++ {
		resp, err := c.fetchPage(ctx, start, end, page)
		if err != nil {
			return nil, err
		}
		for _, tx := range resp.Data {
			id := strings.TrimSpace(string(tx.ID))
			date, ok := parseDate(tx.Date)
			if !ok {
				// without an id the record is counted as skipped, never stored
				id = ""
			}
			records = append(records, revenue.PmRecord{
				RecordID:    id,
				Date:        date,
				Amount:      tx.Amount.Round(2),
				BranchName:  tx.BranchName,
				RoomNo:      string(tx.RoomNo),
				Description: tx.Description,
				SyncedAt:    syncedAt,
			})
		}
		if !resp.HasMore || len(resp.Data) == 0 {
			return records, nil
		}
	}
	return nil, shared.NewUpstreamError(systemName, "pagination did not terminate")
}

func (c *Client) fetchPage(ctx context.Context, start, end time.Time, page int) (*transactionPage, error) {
	query := url.Values{}
	query.Set("startDate", start.Format(shared.DateLayout))
	query.Set("endDate", end.Format(shared.DateLayout))
	query.Set("page", strconv.Itoa(page))
	query.Set("pageSize", strconv.Itoa(c.pageSize))

	body, err := c.doRequest(ctx, "/api/transactions?"+query.Encode())
	if err != nil {
		return nil, err
	}
	var resp transactionPage
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, shared.NewUpstreamError(systemName, "malformed response body")
	}
	return &resp, nil
}

func parseDate(s string) (time.Time, bool) {
	if t, err := time.Parse(shared.DateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

func (c *Client) doRequest(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("pm: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
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

var _ revenue.PmSource = (*Client)(nil)
