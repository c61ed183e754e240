// Package skills owns the fixed evaluation catalog. Skills are seeded once,
// soft-deactivated and never deleted; historical ratings keep referencing them.
package skills

import (
	"errors"
	"time"
)

// Catalog is the fixed set of skills every task must be rated against.
var Catalog = []string{
	"Analysis",
	"Planning",
	"Development",
	"QA",
	"English",
	"Task Comments",
	"Edge Cases Covered",
	"PR Review",
	"Code Quality",
	"Problem Solving",
	"Testing",
	"Debugging",
	"Time Management",
	"Initiative/Proactivity",
	"Mentoring Others",
}

var ErrNotFound = errors.New("skill not found")

type Skill struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
