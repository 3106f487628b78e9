package plannersdk

// LoginRequest is the payload for POST /v1/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the session token returned by a login.
type LoginResponse struct {
	Token string `json:"token"`
}

// IssueInvitationRequest is the payload for POST /v1/invitations.
type IssueInvitationRequest struct {
	Email       string  `json:"email"`
	SquadID     *string `json:"squad_id,omitempty"`
	InvitedRole string  `json:"invited_role"`
}

// InvitationResponse is returned when an invitation is issued or
// regenerated. Token holds the raw credential and is the only place it
// ever appears.
type InvitationResponse struct {
	ID        string `json:"id"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

// Invitation is one row in an invitation listing. The credential
// fingerprint is deliberately absent.
type Invitation struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	SquadID     *string `json:"squad_id,omitempty"`
	InvitedRole string  `json:"invited_role"`
	Status      string  `json:"status"`
	ExpiresAt   string  `json:"expires_at"`
	CreatedAt   string  `json:"created_at"`
}

// ListInvitationsResponse is a page of invitations. NextCursor is empty
// on the last page.
type ListInvitationsResponse struct {
	Invitations []Invitation `json:"invitations"`
	NextCursor  string       `json:"next_cursor,omitempty"`
}

// RedeemInvitationRequest is the payload for POST /v1/invitations/redeem.
type RedeemInvitationRequest struct {
	Token    string `json:"token"`
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	Password string `json:"password,omitempty"`
}

// RedeemInvitationResponse identifies the account the invitation was
// redeemed into.
type RedeemInvitationResponse struct {
	AccountID string `json:"account_id"`
}

// CreateSquadRequest is the payload for POST /v1/squads.
type CreateSquadRequest struct {
	Name string `json:"name"`
}

// Squad is a single squad.
type Squad struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ListSquadsResponse lists all squads.
type ListSquadsResponse struct {
	Squads []Squad `json:"squads"`
}

// ErrorResponse is the error envelope every endpoint uses.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// HealthResponse is returned by the health endpoints.
type HealthResponse struct {
	Status  string        `json:"status"`
	Version string        `json:"version,omitempty"`
	Uptime  string        `json:"uptime,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports per-dependency readiness.
type HealthChecks struct {
	Database string `json:"database"`
}
