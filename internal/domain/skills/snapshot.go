package skills

import (
	"context"
	"sync"
	"time"
)

// Snapshot caches the active-skill set for a short TTL so task validation
// does not hit the database on every write. Deactivation must call
// Invalidate to take effect immediately.
type Snapshot struct {
	loader func(context.Context) ([]Skill, error)
	ttl    time.Duration

	mu      sync.Mutex
	cached  []Skill
	expires time.Time
}

func NewSnapshot(loader func(context.Context) ([]Skill, error), ttl time.Duration) *Snapshot {
	return &Snapshot{loader: loader, ttl: ttl}
}

func (s *Snapshot) Active(ctx context.Context) ([]Skill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if !s.expires.IsZero() && now.Before(s.expires) {
		return s.cached, nil
	}

	loaded, err := s.loader(ctx)
	if err != nil {
		return nil, err
	}
	s.cached = loaded
	s.expires = now.Add(s.ttl)
	return loaded, nil
}

func (s *Snapshot) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.expires = time.Time{}
	s.mu.Unlock()
}
