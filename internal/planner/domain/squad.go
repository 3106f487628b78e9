package domain

import "time"

// Squad is a team that members belong to and sprints are planned against.
type Squad struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
