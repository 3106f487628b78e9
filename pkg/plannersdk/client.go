// Package plannersdk is a small Go client for the squad planner API.
// An SDKClient covers the unauthenticated surface (login, invitation
// redemption, health); logging in yields a Session for the
// authenticated endpoints.
package plannersdk

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

// SDKClient is a client for the squad planner service.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Login authenticates with email and password and returns a Session
// holding the bearer token for subsequent calls.
func (c *SDKClient) Login(ctx context.Context, email, password string) (*Session, error) {
	var resp LoginResponse
	err := c.doJSON(ctx, http.MethodPost, "/v1/login", LoginRequest{
		Email:    email,
		Password: password,
	}, &resp, http.StatusOK, "")
	if err != nil {
		return nil, err
	}
	return &Session{client: c, token: resp.Token}, nil
}

// RedeemInvitation consumes an invitation credential, creating the
// account when the email is new.
func (c *SDKClient) RedeemInvitation(ctx context.Context, req RedeemInvitationRequest) (RedeemInvitationResponse, error) {
	var resp RedeemInvitationResponse
	err := c.doJSON(ctx, http.MethodPost, "/v1/invitations/redeem", req, &resp, http.StatusOK, "")
	return resp, err
}

// Livez reports whether the service process is up.
func (c *SDKClient) Livez(ctx context.Context) (HealthResponse, error) {
	var resp HealthResponse
	err := c.doJSON(ctx, http.MethodGet, "/livez", nil, &resp, http.StatusOK, "")
	return resp, err
}

// doJSON sends an optional JSON body and decodes a JSON response,
// attaching the bearer token when one is given.
func (c *SDKClient) doJSON(
	ctx context.Context,
	method, path string,
	payload any,
	target any,
	expectedStatus int,
	token string,
) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != expectedStatus {
		return parseErrorResponse(resp, raw)
	}
	if target == nil {
		return nil
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
