package skills

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSnapshotCachesWithinTTL(t *testing.T) {
	calls := 0
	snapshot := NewSnapshot(func(context.Context) ([]Skill, error) {
		calls++
		return []Skill{{ID: "s1", Name: "Testing", Active: true}}, nil
	}, time.Minute)

	for i := 0; i < 3; i++ {
		active, err := snapshot.Active(context.Background())
		if err != nil {
			t.Fatalf("active failed: %v", err)
		}
		if len(active) != 1 || active[0].Name != "Testing" {
			t.Fatalf("unexpected snapshot: %+v", active)
		}
	}
	if calls != 1 {
		t.Fatalf("expected one loader call, got %d", calls)
	}
}

func TestSnapshotInvalidateForcesReload(t *testing.T) {
	calls := 0
	snapshot := NewSnapshot(func(context.Context) ([]Skill, error) {
		calls++
		return nil, nil
	}, time.Minute)

	if _, err := snapshot.Active(context.Background()); err != nil {
		t.Fatalf("active failed: %v", err)
	}
	snapshot.Invalidate()
	if _, err := snapshot.Active(context.Background()); err != nil {
		t.Fatalf("active failed: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected reload after invalidate, got %d calls", calls)
	}
}

func TestSnapshotExpiresAfterTTL(t *testing.T) {
	calls := 0
	snapshot := NewSnapshot(func(context.Context) ([]Skill, error) {
		calls++
		return []Skill{{ID: "s1"}}, nil
	}, 10*time.Millisecond)

	if _, err := snapshot.Active(context.Background()); err != nil {
		t.Fatalf("active failed: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if _, err := snapshot.Active(context.Background()); err != nil {
		t.Fatalf("active failed: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected expired cache to reload, got %d calls", calls)
	}
}

func TestSnapshotPropagatesLoaderError(t *testing.T) {
	boom := errors.New("db down")
	snapshot := NewSnapshot(func(context.Context) ([]Skill, error) {
		return nil, boom
	}, time.Minute)

	if _, err := snapshot.Active(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}
}

func TestCatalogHasFifteenUniqueNames(t *testing.T) {
	if len(Catalog) != 15 {
		t.Fatalf("expected 15 catalog skills, got %d", len(Catalog))
	}
	seen := map[string]bool{}
	for _, name := range Catalog {
		if seen[name] {
			t.Fatalf("duplicate catalog skill %q", name)
		}
		seen[name] = true
	}
}
