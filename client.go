package hubspot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/syncline/hubspot/internal/ratelimit"
)

// HubSpot v1 endpoint paths.
const (
	contactsPath   = "/contacts/v1/contact"
	groupsPath     = "/properties/v1/contacts/groups"
	propertiesPath = "/properties/v1/contacts/properties"
)

// Client is a thin wrapper over HubSpot's REST API authenticated with an
// API key. Every call is a single synchronous request; non-2xx responses
// surface as *APIError. The client applies no retries, leaving retry policy
// to the caller.
type Client struct {
	// Logger receives one record per request. Defaults to slog.Default
	// when nil.
	Logger *slog.Logger

	// Limiter, when set, throttles requests to stay inside HubSpot's
	// rate limit.
	Limiter *ratelimit.Limiter

	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client from cfg.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// CreatePropertyGroup creates a contact property group.
func (c *Client) CreatePropertyGroup(ctx context.Context, g Group) error {
	return c.do(ctx, http.MethodPost, groupsPath, g, nil)
}

// UpdatePropertyGroup updates an existing contact property group's display
// name.
func (c *Client) UpdatePropertyGroup(ctx context.Context, g Group) error {
	body := struct {
		DisplayName string `json:"displayName"`
	}{DisplayName: g.DisplayName}
	return c.do(ctx, http.MethodPut, groupsPath+"/named/"+url.PathEscape(g.Name), body, nil)
}

// ListPropertyGroups returns every contact property group defined in the
// portal.
func (c *Client) ListPropertyGroups(ctx context.Context) ([]Group, error) {
	var groups []Group
	if err := c.do(ctx, http.MethodGet, groupsPath, nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// CreateProperty creates a contact property from its schema.
func (c *Client) CreateProperty(ctx context.Context, schema PropertySchema) error {
	return c.do(ctx, http.MethodPost, propertiesPath, schema, nil)
}

// UpdateProperty updates an existing contact property. The property is
// addressed by schema.Name; the name itself cannot change.
func (c *Client) UpdateProperty(ctx context.Context, schema PropertySchema) error {
	name := schema.Name
	schema.Name = ""
	return c.do(ctx, http.MethodPut, propertiesPath+"/named/"+url.PathEscape(name), schema, nil)
}

// DeleteProperty deletes a contact property by name.
func (c *Client) DeleteProperty(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodDelete, propertiesPath+"/named/"+url.PathEscape(name), nil, nil)
}

// ListProperties returns every contact property defined in the portal.
func (c *Client) ListProperties(ctx context.Context) ([]PropertySchema, error) {
	var props []PropertySchema
	if err := c.do(ctx, http.MethodGet, propertiesPath, nil, &props); err != nil {
		return nil, err
	}
	return props, nil
}

// UpsertContact creates or updates the contact identified by email with the
// given property values. Absent properties are left unchanged by HubSpot.
func (c *Client) UpsertContact(ctx context.Context, email string, update ContactUpdate) (*UpsertResult, error) {
	path := contactsPath + "/createOrUpdate/email/" + url.PathEscape(email)
	var result UpsertResult
	if err := c.do(ctx, http.MethodPost, path, update, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// do performs one request against the HubSpot API: waits on the limiter,
// attaches the API key and a request ID, sends the body as JSON, and
// decodes the response into out when provided.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	reqURL := c.baseURL + path + "?hapikey=" + url.QueryEscape(c.apiKey)
	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	requestID := uuid.NewString()
	req.Header.Set("X-Request-Id", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	c.logger().Debug("hubspot request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start).String(),
		"request_id", requestID,
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, data)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response body: %w", err)
		}
	}
	return nil
}
