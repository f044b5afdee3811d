// Package canvas implements a client for the Instructure Data Access Platform
// (DAP), the bulk export API used to replicate Canvas tables.
package canvas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const jobStatusComplete = "complete"

// Client talks to the DAP gateway using client-credential authentication.
// It is not safe for concurrent use while a login is in flight; the sync
// worker owns a single client and replicates tables sequentially.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	accessToken  string
}

// Option customises client construction.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient constructs a DAP client. Call Login before issuing queries.
func NewClient(baseURL, clientID, clientSecret string, opts ...Option) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TableSchema describes one replicated table as reported by the gateway.
type TableSchema struct {
	Table   string          `json:"table"`
	Version int             `json:"version"`
	Schema  json.RawMessage `json:"schema"`
}

// Job is an asynchronous table export job.
type Job struct {
	ID        string   `json:"id"`
	Status    string   `json:"status"`
	Objects   []Object `json:"objects,omitempty"`
	At        string   `json:"at,omitempty"`
	SchemaVer int      `json:"schema_version,omitempty"`
}

// Object identifies one exported data file.
type Object struct {
	ID string `json:"id"`
}

// Complete reports whether the export finished.
func (j Job) Complete() bool {
	return j.Status == jobStatusComplete
}

// Login exchanges the client credentials for a bearer token.
func (c *Client) Login(ctx context.Context) error {
	form := strings.NewReader("grant_type=client_credentials")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ids/auth/login", form)
	if err != nil {
		return fmt.Errorf("build login request: %w", err)
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("login failed with status %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("decode login response: %w", err)
	}
	if payload.AccessToken == "" {
		return fmt.Errorf("login response carried no access token")
	}
	c.accessToken = payload.AccessToken
	return nil
}

// ListTables returns the names of all tables available in the canvas namespace.
func (c *Client) ListTables(ctx context.Context) ([]string, error) {
	var payload struct {
		Tables []string `json:"tables"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/dap/query/canvas/table", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Tables, nil
}

// GetTableSchema fetches the schema descriptor for one table.
func (c *Client) GetTableSchema(ctx context.Context, table string) (*TableSchema, error) {
	var schema TableSchema
	path := fmt.Sprintf("/dap/query/canvas/table/%s/schema", table)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &schema); err != nil {
		return nil, err
	}
	return &schema, nil
}

// StartSnapshot begins a full-table export and returns the job handle.
func (c *Client) StartSnapshot(ctx context.Context, table string) (*Job, error) {
	body := map[string]string{"format": "csv"}
	var job Job
	path := fmt.Sprintf("/dap/query/canvas/table/%s/data", table)
	if err := c.doJSON(ctx, http.MethodPost, path, body, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// GetJob fetches the current state of an export job.
func (c *Client) GetJob(ctx context.Context, table, jobID string) (*Job, error) {
	var job Job
	path := fmt.Sprintf("/dap/query/canvas/table/%s/data/%s", table, jobID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// WaitForJob polls the job until it completes, the context is cancelled, or
// the gateway reports a terminal failure.
func (c *Client) WaitForJob(ctx context.Context, table, jobID string, pollInterval time.Duration) (*Job, error) {
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		job, err := c.GetJob(ctx, table, jobID)
		if err != nil {
			return nil, err
		}
		if job.Complete() {
			return job, nil
		}
		if job.Status == "failed" {
			return nil, fmt.Errorf("export job %s for table %s failed", jobID, table)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// ResolveObjectURLs exchanges object ids for presigned download URLs.
func (c *Client) ResolveObjectURLs(ctx context.Context, objects []Object) (map[string]string, error) {
	var payload struct {
		URLs map[string]struct {
			URL string `json:"url"`
		} `json:"urls"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/dap/object/url", objects, &payload); err != nil {
		return nil, err
	}

	urls := make(map[string]string, len(payload.URLs))
	for id, entry := range payload.URLs {
		urls[id] = entry.URL
	}
	return urls, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, dest interface{}) error {
	if c.accessToken == "" {
		return fmt.Errorf("not logged in")
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s %s returned status %d: %s", method, path, resp.StatusCode, string(raw))
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response for %s %s: %w", method, path, err)
	}
	return nil
}
