package firefly

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pocketledger/pocket_ledger_sync/internal/apperrors"
	"github.com/pocketledger/pocket_ledger_sync/internal/core/domain"
	portssvc "github.com/pocketledger/pocket_ledger_sync/internal/core/ports/services"
	"github.com/pocketledger/pocket_ledger_sync/internal/dto"
)

const (
	defaultTimeout  = 30 * time.Second
	queryDateLayout = "2006-01-02"
)

// Client talks to a Firefly III compatible ledger API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http client, e.g. in tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a remote ledger client for the given base URL and
// personal access token.
func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ portssvc.RemoteLedgerClient = (*Client)(nil)

// CreateGroup submits a group of legs as one atomic remote write.
func (c *Client) CreateGroup(ctx context.Context, sub dto.GroupSubmission) (*dto.GroupResponse, error) {
	return c.submitGroup(ctx, http.MethodPost, c.baseURL+"/api/v1/transactions", sub)
}

// UpdateGroup updates an existing remote group.
func (c *Client) UpdateGroup(ctx context.Context, groupID int64, sub dto.GroupSubmission) (*dto.GroupResponse, error) {
	endpoint := fmt.Sprintf("%s/api/v1/transactions/%d", c.baseURL, groupID)
	return c.submitGroup(ctx, http.MethodPut, endpoint, sub)
}

func (c *Client) submitGroup(ctx context.Context, method, endpoint string, sub dto.GroupSubmission) (*dto.GroupResponse, error) {
	form := sub.FormValues()
	req, err := http.NewRequestWithContext(ctx, method, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("building group request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if sub.IdempotencyKey != "" {
		req.Header.Set("X-Idempotency-Key", sub.IdempotencyKey)
	}

	body, status, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, dto.DecodeRemoteError(status, body)
	}
	resp, err := dto.DecodeGroupResponse(body)
	if err != nil {
		return nil, fmt.Errorf("decoding group response: %w", err)
	}
	return resp, nil
}

// DeleteByID deletes one remote transaction by journal id and returns the raw
// status code. The caller owns the status interpretation.
func (c *Client) DeleteByID(ctx context.Context, journalID int64) (int, error) {
	endpoint := fmt.Sprintf("%s/api/v1/transaction-journals/%d", c.baseURL, journalID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("building delete request: %w", err)
	}
	_, status, err := c.do(req)
	if err != nil {
		return 0, err
	}
	return status, nil
}

// ListPage fetches one page of the remote paginated listing for a window.
func (c *Client) ListPage(ctx context.Context, window domain.MirrorWindow, page int) (*dto.PageResponse, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	if !window.Range.IsUnscoped() {
		query.Set("start", window.Range.Start.Format(queryDateLayout))
		query.Set("end", window.Range.End.Format(queryDateLayout))
	}
	if window.Kind != "" {
		query.Set("type", string(window.Kind))
	}
	return c.getPage(ctx, c.baseURL+"/api/v1/transactions?"+query.Encode())
}

// SearchText runs the remote full-text search.
func (c *Client) SearchText(ctx context.Context, q string) (*dto.PageResponse, error) {
	query := url.Values{}
	query.Set("query", q)
	return c.getPage(ctx, c.baseURL+"/api/v1/search/transactions?"+query.Encode())
}

func (c *Client) getPage(ctx context.Context, endpoint string) (*dto.PageResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building page request: %w", err)
	}
	body, status, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, dto.DecodeRemoteError(status, body)
	}
	var page dto.PageResponse
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("decoding page response: %w", err)
	}
	return &page, nil
}

// AttachmentsForJournal lists the remote attachments of a journal id.
func (c *Client) AttachmentsForJournal(ctx context.Context, journalID int64) ([]dto.RemoteAttachment, error) {
	endpoint := fmt.Sprintf("%s/api/v1/transaction-journals/%d/attachments", c.baseURL, journalID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building attachments request: %w", err)
	}
	body, status, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, dto.DecodeRemoteError(status, body)
	}
	var resp dto.AttachmentsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding attachments response: %w", err)
	}
	return resp.Data, nil
}

// do executes the request with auth headers and reads the full body. Failing
// to obtain a response at all is a transport failure per the port contract.
func (c *Client) do(req *http.Request) ([]byte, int, error) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", apperrors.ErrRemoteUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: reading response body: %v", apperrors.ErrRemoteUnreachable, err)
	}
	return body, resp.StatusCode, nil
}
