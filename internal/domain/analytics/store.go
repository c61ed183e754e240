package analytics

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// Observations returns the caller's rating rows joined with task dates.
// The join deliberately ignores skills.is_active: deactivating a skill
// changes future validation, never historical aggregates.
func (s *Store) Observations(ctx context.Context, userID string, from, to *time.Time) ([]Observation, error) {
	query := `
    SELECT r.skill_id, s.name, r.rating, t.task_date
    FROM skill_ratings r
    JOIN tasks t ON r.task_id = t.id
    JOIN skills s ON r.skill_id = s.id
    WHERE t.user_id = $1
  `
	args := []any{userID}
	if from != nil {
		args = append(args, *from)
		query += " AND t.task_date >= $2"
	}
	if to != nil {
		args = append(args, *to)
		if from != nil {
			query += " AND t.task_date <= $3"
		} else {
			query += " AND t.task_date <= $2"
		}
	}
	query += " ORDER BY t.task_date"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Observation
	for rows.Next() {
		var obs Observation
		if err := rows.Scan(&obs.SkillID, &obs.SkillName, &obs.Rating, &obs.TaskDate); err != nil {
			return nil, err
		}
		out = append(out, obs)
	}
	return out, rows.Err()
}

func (s *Store) TaskFlags(ctx context.Context, userID string, from, to *time.Time) ([]TaskFlags, error) {
	query := `
    SELECT delivered_on_time, manager_found_issues, manager_helped_analysis
    FROM tasks
    WHERE user_id = $1
  `
	args := []any{userID}
	if from != nil {
		args = append(args, *from)
		query += " AND task_date >= $2"
	}
	if to != nil {
		args = append(args, *to)
		if from != nil {
			query += " AND task_date <= $3"
		} else {
			query += " AND task_date <= $2"
		}
	}

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TaskFlags
	for rows.Next() {
		var flags TaskFlags
		if err := rows.Scan(&flags.DeliveredOnTime, &flags.ManagerFoundIssues, &flags.ManagerHelpedAnalysis); err != nil {
			return nil, err
		}
		out = append(out, flags)
	}
	return out, rows.Err()
}
