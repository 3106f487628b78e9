package sqlite

import (
	"context"
	"time"

	"github.com/squadcap/squadcap/internal/planner/domain"
)

type squadsRepo struct {
	db dbtx
}

func (r *squadsRepo) GetSquadByID(ctx context.Context, id string) (domain.Squad, error) {
	var s domain.Squad
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM squads WHERE id = ?`, id,
	).Scan(&s.ID, &s.Name, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return domain.Squad{}, mapNotFound(err)
	}
	return s, nil
}

func (r *squadsRepo) ListSquads(ctx context.Context) ([]domain.Squad, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, created_at, updated_at FROM squads ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var squads []domain.Squad
	for rows.Next() {
		var s domain.Squad
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		squads = append(squads, s)
	}
	return squads, rows.Err()
}

func (r *squadsRepo) CreateSquad(ctx context.Context, s domain.Squad) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO squads (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		s.ID, s.Name, now, now,
	)
	return err
}

func (r *squadsRepo) AddMember(ctx context.Context, squadID, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO squad_members (squad_id, user_id, created_at) VALUES (?, ?, ?)
		 ON CONFLICT (squad_id, user_id) DO NOTHING`,
		squadID, userID, time.Now().UTC(),
	)
	return err
}
