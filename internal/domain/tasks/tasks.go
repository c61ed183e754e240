// Package tasks is the write-side store for employee task submissions and
// their per-skill self-ratings.
package tasks

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"skilltrack/internal/domain/skills"
)

const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

var Priorities = []string{PriorityHigh, PriorityMedium, PriorityLow}

const (
	MinRating = 1
	MaxRating = 5
)

var ErrNotFound = errors.New("task not found")

type Task struct {
	ID                    string    `json:"id"`
	UserID                string    `json:"userId"`
	Title                 string    `json:"title"`
	Description           string    `json:"description"`
	TaskDate              time.Time `json:"taskDate"`
	ExternalLink          string    `json:"externalLink,omitempty"`
	Priority              string    `json:"priority"`
	DeliveredOnTime       bool      `json:"deliveredOnTime"`
	ManagerFoundIssues    bool      `json:"managerFoundIssues"`
	ManagerNotes          string    `json:"managerNotes,omitempty"`
	ManagerHelpedAnalysis bool      `json:"managerHelpedAnalysis"`
	AverageRating         float64   `json:"averageRating"`
	Ratings               []Rating  `json:"ratings,omitempty"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

type Rating struct {
	ID        string `json:"id"`
	SkillID   string `json:"skillId"`
	SkillName string `json:"skillName"`
	Rating    int    `json:"rating"`
}

// Input carries the fields of a create or update request. Ratings maps
// skill ID to score and must cover the active catalog exactly.
type Input struct {
	Title                 string
	Description           string
	TaskDate              time.Time
	ExternalLink          string
	Priority              string
	DeliveredOnTime       bool
	ManagerFoundIssues    bool
	ManagerNotes          string
	ManagerHelpedAnalysis bool
	Ratings               map[string]int
}

type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	return "task validation failed: " + strings.Join(e.Issues, "; ")
}

// ValidateInput checks the task fields and that the rating map's key set
// equals the active-skill set, with every score in [1,5]. The active set is
// injected so the check never reaches for the database itself.
func ValidateInput(in Input, active []skills.Skill) error {
	var issues []string

	if strings.TrimSpace(in.Title) == "" {
		issues = append(issues, "title is required")
	}
	if in.TaskDate.IsZero() {
		issues = append(issues, "taskDate is required")
	}
	valid := false
	for _, p := range Priorities {
		if in.Priority == p {
			valid = true
			break
		}
	}
	if !valid {
		issues = append(issues, fmt.Sprintf("priority must be one of %s", strings.Join(Priorities, ", ")))
	}

	activeIDs := make(map[string]string, len(active))
	for _, skill := range active {
		activeIDs[skill.ID] = skill.Name
	}

	var missing []string
	for _, skill := range active {
		if _, ok := in.Ratings[skill.ID]; !ok {
			missing = append(missing, skill.Name)
		}
	}
	sort.Strings(missing)
	for _, name := range missing {
		issues = append(issues, fmt.Sprintf("missing rating for skill %q", name))
	}

	var unknown []string
	for skillID, score := range in.Ratings {
		name, ok := activeIDs[skillID]
		if !ok {
			unknown = append(unknown, skillID)
			continue
		}
		if score < MinRating || score > MaxRating {
			issues = append(issues, fmt.Sprintf("rating for skill %q must be between %d and %d", name, MinRating, MaxRating))
		}
	}
	sort.Strings(unknown)
	for _, skillID := range unknown {
		issues = append(issues, fmt.Sprintf("rating references unknown or inactive skill %s", skillID))
	}

	if len(issues) > 0 {
		sort.Strings(issues)
		return &ValidationError{Issues: issues}
	}
	return nil
}
