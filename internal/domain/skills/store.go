package skills

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) List(ctx context.Context, includeInactive bool) ([]Skill, error) {
	query := "SELECT id, name, is_active, created_at, updated_at FROM skills"
	if !includeInactive {
		query += " WHERE is_active"
	}
	query += " ORDER BY name"

	rows, err := s.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Skill
	for rows.Next() {
		var skill Skill
		if err := rows.Scan(&skill.ID, &skill.Name, &skill.Active, &skill.CreatedAt, &skill.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, skill)
	}
	return out, rows.Err()
}

func (s *Store) ActiveSkills(ctx context.Context) ([]Skill, error) {
	return s.List(ctx, false)
}

// Deactivate soft-disables a skill: new tasks no longer rate it, existing
// ratings stay untouched.
func (s *Store) Deactivate(ctx context.Context, skillID string) error {
	tag, err := s.DB.Exec(ctx, "UPDATE skills SET is_active = false, updated_at = now() WHERE id = $1", skillID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
