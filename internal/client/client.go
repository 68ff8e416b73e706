package client

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

	"portal/internal/domain/models"
	"portal/internal/domain/services"
)

// DefaultTimeout is the default HTTP timeout for API requests
const DefaultTimeout = 15 * time.Second

// Client calls the portal HTTP API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// SessionInfo is the server's view of a bearer token
type SessionInfo struct {
	User      models.PublicUser `json:"user"`
	ExpiresAt time.Time         `json:"expiresAt"`
}

// New creates a client for the API rooted at baseURL
func New(baseURL string) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{Timeout: DefaultTimeout})
}

// NewWithHTTPClient creates a client with a custom http.Client
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Login exchanges credentials for a token
func (c *Client) Login(ctx context.Context, username, password string) (*services.AuthResult, error) {
	var result services.AuthResult
	req := services.LoginRequest{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth-login", nil, "", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Signup creates an account and returns its first token
func (c *Client) Signup(ctx context.Context, req *services.SignupRequest) (*services.AuthResult, error) {
	var result services.AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth-signup", nil, "", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Session asks the server to verify token
func (c *Client) Session(ctx context.Context, token string) (*SessionInfo, error) {
	var info SessionInfo
	if err := c.do(ctx, http.MethodGet, "/auth-session", nil, token, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// PortalInfo looks up an active portal by name
func (c *Client) PortalInfo(ctx context.Context, name string) (*models.Portal, error) {
	var portal models.Portal
	query := url.Values{"portalName": {name}}
	if err := c.do(ctx, http.MethodGet, "/portal-api/getPortalInfo", query, "", nil, &portal); err != nil {
		return nil, err
	}
	return &portal, nil
}

// PortalFolders lists the folders token's user may view in a portal
func (c *Client) PortalFolders(ctx context.Context, token, portalID string) (*models.PortalFolders, error) {
	var folders models.PortalFolders
	query := url.Values{"portalId": {portalID}}
	if err := c.do(ctx, http.MethodGet, "/portal-api/getPortalFolders", query, token, nil, &folders); err != nil {
		return nil, err
	}
	return &folders, nil
}

// FolderDetails returns one folder and its visible children
func (c *Client) FolderDetails(ctx context.Context, token, folderID string) (*models.FolderDetails, error) {
	var details models.FolderDetails
	query := url.Values{"folderId": {folderID}}
	if err := c.do(ctx, http.MethodGet, "/portal-api/getFolderDetails", query, token, nil, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, token string, in, out interface{}) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }() // Error ignored: response consumed

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, data)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
