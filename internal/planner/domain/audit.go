package domain

import "time"

// AuditEntry records who did what to which resource. Writes are best-effort:
// a failed audit write never fails the operation it describes.
type AuditEntry struct {
	ID        string
	ActorID   string
	Action    string
	Metadata  string // JSON object, free-form per action
	CreatedAt time.Time
}
