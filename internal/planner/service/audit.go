package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/squadcap/squadcap/internal/planner/domain"
	"github.com/squadcap/squadcap/internal/planner/store"
	"github.com/squadcap/squadcap/pkg/idx"
	"github.com/squadcap/squadcap/pkg/slogx"
)

// Audit actions recorded by the invitation lifecycle.
const (
	AuditInvitationIssued      = "invitation.issued"
	AuditInvitationRegenerated = "invitation.regenerated"
	AuditInvitationRedeemed    = "invitation.redeemed"
	AuditInvitationRevoked     = "invitation.revoked"
)

// Auditor appends entries to the audit log. Recording is best-effort:
// failures are logged and swallowed so an audit outage never blocks
// the operation being audited.
type Auditor struct {
	Store store.Store
}

func NewAuditor(s store.Store) *Auditor {
	return &Auditor{Store: s}
}

// Record writes one audit entry. Marshal or store failures are logged
// at warn level and otherwise ignored.
func (a *Auditor) Record(ctx context.Context, actorID, action string, metadata map[string]any) {
	payload, err := json.Marshal(metadata)
	if err != nil {
		slogx.FromContext(ctx).Warn("failed to encode audit metadata",
			"action", action, "error", err)
		payload = []byte("{}")
	}

	entry := domain.AuditEntry{
		ID:        idx.New().String(),
		ActorID:   actorID,
		Action:    action,
		Metadata:  string(payload),
		CreatedAt: time.Now().UTC(),
	}
	if err := a.Store.Audit().RecordEntry(ctx, entry); err != nil {
		slogx.FromContext(ctx).Warn("failed to record audit entry",
			"action", action, "actor_id", actorID, "error", err)
	}
}
