package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) InsertTask(ctx context.Context, userID string, in Input) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO tasks (user_id, title, description, task_date, external_link, priority,
                       delivered_on_time, manager_found_issues, manager_notes, manager_helped_analysis)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
    RETURNING id
  `, userID, in.Title, in.Description, in.TaskDate, nullIfEmpty(in.ExternalLink), in.Priority,
		in.DeliveredOnTime, in.ManagerFoundIssues, nullIfEmpty(in.ManagerNotes), in.ManagerHelpedAnalysis).Scan(&id)
	return id, err
}

func (s *Store) UpdateTask(ctx context.Context, userID, taskID string, in Input) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE tasks
    SET title = $1, description = $2, task_date = $3, external_link = $4, priority = $5,
        delivered_on_time = $6, manager_found_issues = $7, manager_notes = $8,
        manager_helped_analysis = $9, updated_at = now()
    WHERE id = $10 AND user_id = $11
  `, in.Title, in.Description, in.TaskDate, nullIfEmpty(in.ExternalLink), in.Priority,
		in.DeliveredOnTime, in.ManagerFoundIssues, nullIfEmpty(in.ManagerNotes), in.ManagerHelpedAnalysis,
		taskID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteTask(ctx context.Context, userID, taskID string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM tasks WHERE id = $1 AND user_id = $2", taskID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTaskRow removes a task by ID without an ownership guard. It exists
// only for the compensating delete after a failed rating insert; the task
// it removes was created in the same request.
func (s *Store) DeleteTaskRow(ctx context.Context, taskID string) error {
	_, err := s.DB.Exec(ctx, "DELETE FROM tasks WHERE id = $1", taskID)
	return err
}

// ReplaceRatings writes the full rating set in one multi-row upsert, then
// prunes rows for skills no longer in the set. The upsert runs first so the
// task never transits through a state missing a required rating.
func (s *Store) ReplaceRatings(ctx context.Context, taskID string, ratings map[string]int) error {
	if len(ratings) == 0 {
		return errors.New("rating set must not be empty")
	}

	values := make([]string, 0, len(ratings))
	args := []any{taskID}
	keep := make([]string, 0, len(ratings))
	i := 2
	for skillID, score := range ratings {
		values = append(values, fmt.Sprintf("($1, $%d, $%d)", i, i+1))
		args = append(args, skillID, score)
		keep = append(keep, skillID)
		i += 2
	}

	query := `
    INSERT INTO skill_ratings (task_id, skill_id, rating)
    VALUES ` + strings.Join(values, ", ") + `
    ON CONFLICT (task_id, skill_id)
    DO UPDATE SET rating = EXCLUDED.rating, updated_at = now()
  `
	if _, err := s.DB.Exec(ctx, query, args...); err != nil {
		return err
	}

	_, err := s.DB.Exec(ctx, "DELETE FROM skill_ratings WHERE task_id = $1 AND NOT (skill_id = ANY($2))", taskID, keep)
	return err
}

func (s *Store) List(ctx context.Context, userID string, limit, offset int) ([]Task, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT t.id, t.user_id, t.title, t.description, t.task_date,
           t.external_link, t.priority, t.delivered_on_time, t.manager_found_issues,
           t.manager_notes, t.manager_helped_analysis,
           COALESCE(AVG(r.rating), 0),
           t.created_at, t.updated_at
    FROM tasks t
    LEFT JOIN skill_ratings r ON r.task_id = t.id
    WHERE t.user_id = $1
    GROUP BY t.id
    ORDER BY t.task_date DESC, t.created_at DESC
    LIMIT $2 OFFSET $3
  `, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, userID, taskID string) (Task, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT t.id, t.user_id, t.title, t.description, t.task_date,
           t.external_link, t.priority, t.delivered_on_time, t.manager_found_issues,
           t.manager_notes, t.manager_helped_analysis,
           COALESCE(AVG(r.rating), 0),
           t.created_at, t.updated_at
    FROM tasks t
    LEFT JOIN skill_ratings r ON r.task_id = t.id
    WHERE t.id = $1 AND t.user_id = $2
    GROUP BY t.id
  `, taskID, userID)

	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		return Task{}, err
	}

	ratings, err := s.ratingsForTask(ctx, taskID)
	if err != nil {
		return Task{}, err
	}
	task.Ratings = ratings
	return task, nil
}

func (s *Store) ratingsForTask(ctx context.Context, taskID string) ([]Rating, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT r.id, r.skill_id, s.name, r.rating
    FROM skill_ratings r
    JOIN skills s ON r.skill_id = s.id
    WHERE r.task_id = $1
    ORDER BY s.name
  `, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Rating
	for rows.Next() {
		var rating Rating
		if err := rows.Scan(&rating.ID, &rating.SkillID, &rating.SkillName, &rating.Rating); err != nil {
			return nil, err
		}
		out = append(out, rating)
	}
	return out, rows.Err()
}

func scanTask(row pgx.Row) (Task, error) {
	var task Task
	var link, notes sql.NullString
	err := row.Scan(&task.ID, &task.UserID, &task.Title, &task.Description, &task.TaskDate,
		&link, &task.Priority, &task.DeliveredOnTime, &task.ManagerFoundIssues,
		&notes, &task.ManagerHelpedAnalysis, &task.AverageRating,
		&task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return Task{}, err
	}
	task.ExternalLink = link.String
	task.ManagerNotes = notes.String
	return task, nil
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
