package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"skilltrack/internal/domain/skills"
)

type Service struct {
	store        *Store
	activeSkills *skills.Snapshot
}

func NewService(store *Store, activeSkills *skills.Snapshot) *Service {
	return &Service{store: store, activeSkills: activeSkills}
}

// Create validates against the current active-skill snapshot, writes the
// task row, then the rating rows. If the rating write fails the task row is
// deleted again so no task ever persists with an incomplete rating set.
func (s *Service) Create(ctx context.Context, userID string, in Input) (Task, error) {
	if err := s.validate(ctx, in); err != nil {
		return Task{}, err
	}

	taskID, err := s.store.InsertTask(ctx, userID, in)
	if err != nil {
		return Task{}, fmt.Errorf("insert task: %w", err)
	}

	if err := s.store.ReplaceRatings(ctx, taskID, in.Ratings); err != nil {
		if delErr := s.store.DeleteTaskRow(ctx, taskID); delErr != nil {
			slog.Error("compensating delete failed, orphaned task row", "taskId", taskID, "err", delErr)
		}
		return Task{}, fmt.Errorf("insert ratings: %w", err)
	}

	return s.store.Get(ctx, userID, taskID)
}

// Update replaces the task fields and the entire rating set.
func (s *Service) Update(ctx context.Context, userID, taskID string, in Input) (Task, error) {
	if err := s.validate(ctx, in); err != nil {
		return Task{}, err
	}

	if err := s.store.UpdateTask(ctx, userID, taskID, in); err != nil {
		return Task{}, err
	}

	if err := s.store.ReplaceRatings(ctx, taskID, in.Ratings); err != nil {
		return Task{}, fmt.Errorf("replace ratings: %w", err)
	}

	return s.store.Get(ctx, userID, taskID)
}

func (s *Service) Delete(ctx context.Context, userID, taskID string) error {
	return s.store.DeleteTask(ctx, userID, taskID)
}

func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Task, error) {
	return s.store.List(ctx, userID, limit, offset)
}

func (s *Service) Get(ctx context.Context, userID, taskID string) (Task, error) {
	return s.store.Get(ctx, userID, taskID)
}

func (s *Service) validate(ctx context.Context, in Input) error {
	active, err := s.activeSkills.Active(ctx)
	if err != nil {
		return fmt.Errorf("load active skills: %w", err)
	}
	return ValidateInput(in, active)
}
