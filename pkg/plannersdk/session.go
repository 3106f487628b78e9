package plannersdk

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Session is an authenticated client holding a bearer session token.
type Session struct {
	client *SDKClient
	token  string
}

// NewSessionFromToken wraps an existing session token, for callers that
// obtained one outside this client.
func (c *SDKClient) NewSessionFromToken(token string) *Session {
	return &Session{client: c, token: token}
}

// Token returns the raw session token.
func (s *Session) Token() string {
	return s.token
}

// IssueInvitation creates a new invitation and returns its one-time
// credential.
func (s *Session) IssueInvitation(ctx context.Context, req IssueInvitationRequest) (InvitationResponse, error) {
	var resp InvitationResponse
	err := s.client.doJSON(ctx, http.MethodPost, "/v1/invitations", req, &resp, http.StatusCreated, s.token)
	return resp, err
}

// ListInvitations fetches one page of invitations. Pass the previous
// response's NextCursor to continue.
func (s *Session) ListInvitations(ctx context.Context, status, emailContains, cursor string, limit int) (ListInvitationsResponse, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", status)
	}
	if emailContains != "" {
		query.Set("email", emailContains)
	}
	if cursor != "" {
		query.Set("cursor", cursor)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	path := "/v1/invitations"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var resp ListInvitationsResponse
	err := s.client.doJSON(ctx, http.MethodGet, path, nil, &resp, http.StatusOK, s.token)
	return resp, err
}

// RegenerateInvitation rotates an invitation's credential, expiring the
// old one.
func (s *Session) RegenerateInvitation(ctx context.Context, invitationID string) (InvitationResponse, error) {
	var resp InvitationResponse
	err := s.client.doJSON(ctx, http.MethodPost,
		"/v1/invitations/"+url.PathEscape(invitationID)+"/regenerate", nil, &resp, http.StatusCreated, s.token)
	return resp, err
}

// RevokeInvitation expires a pending invitation.
func (s *Session) RevokeInvitation(ctx context.Context, invitationID string) error {
	return s.client.doJSON(ctx, http.MethodDelete,
		"/v1/invitations/"+url.PathEscape(invitationID), nil, nil, http.StatusNoContent, s.token)
}

// CreateSquad provisions a new squad.
func (s *Session) CreateSquad(ctx context.Context, name string) (Squad, error) {
	var resp Squad
	err := s.client.doJSON(ctx, http.MethodPost, "/v1/squads", CreateSquadRequest{Name: name}, &resp, http.StatusCreated, s.token)
	return resp, err
}

// ListSquads lists all squads.
func (s *Session) ListSquads(ctx context.Context) (ListSquadsResponse, error) {
	var resp ListSquadsResponse
	err := s.client.doJSON(ctx, http.MethodGet, "/v1/squads", nil, &resp, http.StatusOK, s.token)
	return resp, err
}
