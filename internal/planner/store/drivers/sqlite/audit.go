package sqlite

import (
	"context"
	"time"

	"github.com/squadcap/squadcap/internal/planner/domain"
)

type auditRepo struct {
	db dbtx
}

func (r *auditRepo) RecordEntry(ctx context.Context, e domain.AuditEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_log (id, actor_id, action, metadata, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.ActorID, e.Action, e.Metadata, time.Now().UTC(),
	)
	return err
}
