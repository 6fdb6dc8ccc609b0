package favorites

import (
	"context"
	"fmt"
	"sort"
	"strings"

	pkgerrors "github.com/MuzPas1/fleety-mobile/pkg/errors"
)

type setStore interface {
	SAdd(ctx context.Context, key string, members ...any) error
	SRem(ctx context.Context, key string, members ...any) error
	SMembers(ctx context.Context, key string) ([]string, error)
	FavoritesKey(userID string) string
}

// Service keeps each user's favorite restaurant ids in a Redis set.
type Service struct {
	store setStore
}

// NewService builds a favorites service.
func NewService(store setStore) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("set store required")
	}
	return &Service{store: store}, nil
}

func (s *Service) Add(ctx context.Context, userID, restaurantID string) error {
	if strings.TrimSpace(restaurantID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "restaurant id is required")
	}
	if err := s.store.SAdd(ctx, s.store.FavoritesKey(userID), restaurantID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add favorite")
	}
	return nil
}

func (s *Service) Remove(ctx context.Context, userID, restaurantID string) error {
	if strings.TrimSpace(restaurantID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "restaurant id is required")
	}
	if err := s.store.SRem(ctx, s.store.FavoritesKey(userID), restaurantID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove favorite")
	}
	return nil
}

// List returns the user's favorite restaurant ids in a stable order.
func (s *Service) List(ctx context.Context, userID string) ([]string, error) {
	members, err := s.store.SMembers(ctx, s.store.FavoritesKey(userID))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list favorites")
	}
	sort.Strings(members)
	return members, nil
}

func (s *Service) IsFavorite(ctx context.Context, userID, restaurantID string) (bool, error) {
	members, err := s.List(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, member := range members {
		if member == restaurantID {
			return true, nil
		}
	}
	return false, nil
}

// Toggle flips the favorite state and reports the new state.
func (s *Service) Toggle(ctx context.Context, userID, restaurantID string) (bool, error) {
	favored, err := s.IsFavorite(ctx, userID, restaurantID)
	if err != nil {
		return false, err
	}
	if favored {
		return false, s.Remove(ctx, userID, restaurantID)
	}
	return true, s.Add(ctx, userID, restaurantID)
}
