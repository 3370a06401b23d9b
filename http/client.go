// Package http provides the Federal Register API client, implementing
// fedreg.Lister and fedreg.DetailFetcher over the public JSON endpoints.
package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/regsync/fedreg"
)

// DefaultBaseURL is the public Federal Register host.
const DefaultBaseURL = "https://www.federalregister.gov"

// Fixed per-call timeouts. There is no run-level deadline: a sync run is
// bounded by its page cap and retry budget, not by a wall clock.
const (
	DefaultListTimeout   = 30 * time.Second
	DefaultDetailTimeout = 20 * time.Second
)

// Ensure Client implements the fetch interfaces at compile time.
var (
	_ fedreg.Lister        = (*Client)(nil)
	_ fedreg.DetailFetcher = (*Client)(nil)
)

// Client retrieves document listings and detail records from the Federal
// Register API.
type Client struct {
	baseURL       string
	client        *http.Client
	listTimeout   time.Duration
	detailTimeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API host, e.g. for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// WithTimeouts overrides the per-call timeouts.
func WithTimeouts(list, detail time.Duration) Option {
	return func(c *Client) {
		c.listTimeout = list
		c.detailTimeout = detail
	}
}

// NewClient creates a new Federal Register API client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:       DefaultBaseURL,
		listTimeout:   DefaultListTimeout,
		detailTimeout: DefaultDetailTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = &http.Client{}
	}
	return c
}

// ListDocuments fetches one page of shallow document records for the date
// window in params. Returns EUNAVAILABLE for transport and HTTP failures
// (retryable) and EINVALID for structurally invalid responses (not
// retryable).
func (c *Client) ListDocuments(ctx context.Context, params fedreg.ListParams, page int) (*fedreg.ListingPage, error) {
	values := url.Values{}
	values.Set("conditions[publication_date][gte]", params.StartDate.Format("2006-01-02"))
	values.Set("conditions[publication_date][lte]", params.EndDate.Format("2006-01-02"))
	values.Set("per_page", strconv.Itoa(params.PerPage))
	values.Set("order", "newest")
	values.Set("page", strconv.Itoa(page))

	ctx, cancel := context.WithTimeout(ctx, c.listTimeout)
	defer cancel()

	body, err := c.get(ctx, c.baseURL+"/api/v1/documents.json?"+values.Encode())
	if err != nil {
		return nil, err
	}

	// The response must be an object carrying a results array; anything
	// else aborts pagination rather than being retried.
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fedreg.Errorf(fedreg.EINVALID, "malformed listing response for page %d: %s", page, err)
	}
	rawResults, ok := envelope["results"]
	if !ok {
		return nil, fedreg.Errorf(fedreg.EINVALID, "listing response for page %d has no results field", page)
	}
	var results []fedreg.RawDocument
	if err := json.Unmarshal(rawResults, &results); err != nil {
		return nil, fedreg.Errorf(fedreg.EINVALID, "malformed results field for page %d: %s", page, err)
	}

	return &fedreg.ListingPage{Raw: body, Results: results}, nil
}

// FetchDocument fetches the detail record for a single document number.
func (c *Client) FetchDocument(ctx context.Context, documentNumber string) (fedreg.RawDocument, error) {
	if documentNumber == "" {
		return nil, fedreg.Errorf(fedreg.EINVALID, "document number required")
	}

	ctx, cancel := context.WithTimeout(ctx, c.detailTimeout)
	defer cancel()

	body, err := c.get(ctx, c.baseURL+"/api/v1/documents/"+url.PathEscape(documentNumber)+".json")
	if err != nil {
		return nil, err
	}

	var doc fedreg.RawDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fedreg.Errorf(fedreg.EINVALID, "malformed detail response for %s: %s", documentNumber, err)
	}
	return doc, nil
}

// get performs a GET request and returns the response body.
func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fedreg.Errorf(fedreg.EUNAVAILABLE, "request failed: %s", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fedreg.Errorf(fedreg.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fedreg.Errorf(fedreg.EUNAVAILABLE, "read response: %s", err)
	}
	return body, nil
}
