package ynab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.youneedabudget.com/v1"

// maxErrorBody caps how much of a failed response is kept for logging.
const maxErrorBody = 4 << 10

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("unexpected status code %d: %s", e.StatusCode, e.Body)
}

// Client talks to one budget of the budgeting service.
type Client struct {
	baseURL  string
	apiKey   string
	budgetID string
	client   *http.Client
}

func NewClient(baseURL, apiKey, budgetID string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		budgetID: budgetID,
		client:   &http.Client{Timeout: timeout},
	}
}

// Payees lists every payee of the budget.
func (c *Client) Payees(ctx context.Context) ([]Payee, error) {
	var resp PayeesResponse
	if err := c.do(ctx, http.MethodGet, "/payees", nil, &resp); err != nil {
		return nil, fmt.Errorf("fetching payees: %w", err)
	}

	return resp.Data.Payees, nil
}

// Transactions lists the budget's transaction history in the order the service returns it.
func (c *Client) Transactions(ctx context.Context) ([]Transaction, error) {
	var resp TransactionsResponse
	if err := c.do(ctx, http.MethodGet, "/transactions", nil, &resp); err != nil {
		return nil, fmt.Errorf("fetching transactions: %w", err)
	}

	return resp.Data.Transactions, nil
}

// BulkCreate submits all transactions in one request. The service accepts or rejects the batch as a whole.
func (c *Client) BulkCreate(ctx context.Context, txs []SaveTransaction) (*BulkResult, error) {
	var resp BulkResponse
	if err := c.do(ctx, http.MethodPost, "/transactions/bulk", BulkRequest{Transactions: txs}, &resp); err != nil {
		return nil, fmt.Errorf("creating transactions: %w", err)
	}

	return &resp.Data.Bulk, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	endpoint := c.baseURL + "/budgets/" + url.PathEscape(c.budgetID) + path

	var reqBody io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}

		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}
