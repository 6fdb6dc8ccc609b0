package favorites

import (
	"context"
	"testing"

	pkgerrors "github.com/MuzPas1/fleety-mobile/pkg/errors"
)

type memorySets struct {
	sets map[string]map[string]struct{}
}

func newMemorySets() *memorySets {
	return &memorySets{sets: make(map[string]map[string]struct{})}
}

func (m *memorySets) SAdd(_ context.Context, key string, members ...any) error {
	set, ok := m.sets[key]
	if !ok {
		set = make(map[string]struct{})
		m.sets[key] = set
	}
	for _, member := range members {
		set[member.(string)] = struct{}{}
	}
	return nil
}

func (m *memorySets) SRem(_ context.Context, key string, members ...any) error {
	set, ok := m.sets[key]
	if !ok {
		return nil
	}
	for _, member := range members {
		delete(set, member.(string))
	}
	return nil
}

func (m *memorySets) SMembers(_ context.Context, key string) ([]string, error) {
	var members []string
	for member := range m.sets[key] {
		members = append(members, member)
	}
	return members, nil
}

func (m *memorySets) FavoritesKey(userID string) string {
	return "favorites:" + userID
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(newMemorySets())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestAddListRemove(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.Add(ctx, "u1", "r2"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := svc.Add(ctx, "u1", "r1"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := svc.Add(ctx, "u1", "r1"); err != nil {
		t.Fatalf("Add duplicate: %v", err)
	}

	list, err := svc.List(ctx, "u1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0] != "r1" || list[1] != "r2" {
		t.Fatalf("expected sorted unique favorites, got %v", list)
	}

	if err := svc.Remove(ctx, "u1", "r1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	favored, err := svc.IsFavorite(ctx, "u1", "r1")
	if err != nil {
		t.Fatalf("IsFavorite: %v", err)
	}
	if favored {
		t.Fatal("expected r1 removed from favorites")
	}
}

func TestToggle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	on, err := svc.Toggle(ctx, "u1", "r1")
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if !on {
		t.Fatal("expected toggle on")
	}

	off, err := svc.Toggle(ctx, "u1", "r1")
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if off {
		t.Fatal("expected toggle off")
	}
}

func TestFavoritesAreIsolatedPerUser(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.Add(ctx, "alice", "r1"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	favored, err := svc.IsFavorite(ctx, "bob", "r1")
	if err != nil {
		t.Fatalf("IsFavorite: %v", err)
	}
	if favored {
		t.Fatal("expected bob's favorites to be empty")
	}
}

func TestAddValidation(t *testing.T) {
	svc := newTestService(t)

	err := svc.Add(context.Background(), "u1", "  ")
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
