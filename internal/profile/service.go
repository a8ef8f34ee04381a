package profile

import (
	"context"
	"fmt"
	"time"

	"biglibrary/internal/role"
)

type Service struct {
	repo  Repository
	allow role.AllowList
	now   func() time.Time
}

func NewService(repo Repository, allow role.AllowList) *Service {
	return &Service{repo: repo, allow: allow, now: time.Now}
}

// Ensure writes the profile for userID. The role always comes from the
// allow-list; nothing the client sends can change it.
func (s *Service) Ensure(ctx context.Context, userID, email string) (Profile, error) {
	p := Profile{
		UserID:    userID,
		Email:     email,
		Role:      s.allow.RoleFor(email),
		IsAdmin:   s.allow.IsAdmin(email),
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Upsert(ctx, &p); err != nil {
		return Profile{}, fmt.Errorf("upsert profile %s: %w", userID, err)
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, userID string) (Profile, error) {
	return s.repo.Get(ctx, userID)
}
