package tasks

import (
	"errors"
	"strings"
	"testing"
	"time"

	"skilltrack/internal/domain/skills"
)

func activeSet() []skills.Skill {
	return []skills.Skill{
		{ID: "s1", Name: "Analysis", Active: true},
		{ID: "s2", Name: "Planning", Active: true},
		{ID: "s3", Name: "Testing", Active: true},
	}
}

func validInput() Input {
	return Input{
		Title:    "Ship search endpoint",
		TaskDate: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		Priority: PriorityMedium,
		Ratings:  map[string]int{"s1": 4, "s2": 3, "s3": 5},
	}
}

func TestValidateInputAccepts(t *testing.T) {
	if err := ValidateInput(validInput(), activeSet()); err != nil {
		t.Fatalf("expected valid input, got %v", err)
	}
}

func TestValidateInputMissingSkill(t *testing.T) {
	in := validInput()
	delete(in.Ratings, "s2")

	err := ValidateInput(in, activeSet())
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	found := false
	for _, issue := range verr.Issues {
		if strings.Contains(issue, "Planning") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected missing-skill issue naming Planning, got %v", verr.Issues)
	}
}

func TestValidateInputUnknownSkill(t *testing.T) {
	in := validInput()
	in.Ratings["ghost"] = 3

	err := ValidateInput(in, activeSet())
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestValidateInputRatingOutOfRange(t *testing.T) {
	for _, score := range []int{0, 6, -1} {
		in := validInput()
		in.Ratings["s1"] = score
		if err := ValidateInput(in, activeSet()); err == nil {
			t.Fatalf("expected rating %d to be rejected", score)
		}
	}
}

func TestValidateInputPriorityEnum(t *testing.T) {
	in := validInput()
	in.Priority = "urgent"
	if err := ValidateInput(in, activeSet()); err == nil {
		t.Fatal("expected invalid priority to be rejected")
	}

	for _, p := range Priorities {
		in.Priority = p
		if err := ValidateInput(in, activeSet()); err != nil {
			t.Fatalf("expected priority %q to be accepted: %v", p, err)
		}
	}
}

func TestValidateInputRequiredFields(t *testing.T) {
	in := validInput()
	in.Title = "  "
	in.TaskDate = time.Time{}

	err := ValidateInput(in, activeSet())
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(verr.Issues) < 2 {
		t.Fatalf("expected title and taskDate issues, got %v", verr.Issues)
	}
}

func TestValidationErrorIsDeterministic(t *testing.T) {
	in := validInput()
	delete(in.Ratings, "s1")
	delete(in.Ratings, "s3")

	first := ValidateInput(in, activeSet()).Error()
	for i := 0; i < 5; i++ {
		if got := ValidateInput(in, activeSet()).Error(); got != first {
			t.Fatalf("validation message order not stable: %q vs %q", first, got)
		}
	}
}
