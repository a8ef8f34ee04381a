package favorites

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Add records bookID as a favorite of userID. Adding an existing favorite
// is a no-op that returns the stored id with created=false.
func (s *Service) Add(ctx context.Context, userID string, in AddInput) (string, bool, error) {
	in.BookID = strings.TrimSpace(in.BookID)
	in.Title = strings.TrimSpace(in.Title)
	if userID == "" || in.BookID == "" || in.Title == "" {
		return "", false, ErrInvalidInput
	}

	f := Favorite{
		UserID:   userID,
		BookID:   in.BookID,
		Title:    in.Title,
		ImageURL: strings.TrimSpace(in.ImageURL),
		AddedAt:  s.now().UTC(),
	}
	for _, a := range in.Authors {
		if a = strings.TrimSpace(a); a != "" {
			f.Authors = append(f.Authors, a)
		}
	}

	created, err := s.repo.Insert(ctx, &f)
	if err != nil {
		return "", false, fmt.Errorf("insert favorite: %w", err)
	}
	return f.ID, created, nil
}

// Remove deletes every favorite of userID pointing at bookID.
func (s *Service) Remove(ctx context.Context, userID, bookID string) error {
	if userID == "" || strings.TrimSpace(bookID) == "" {
		return ErrInvalidInput
	}
	n, err := s.repo.DeleteByBook(ctx, userID, strings.TrimSpace(bookID))
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	s.logger.Debug("favorites removed", slog.String("user_id", userID), slog.String("book_id", bookID), slog.Int("count", n))
	return nil
}

// List returns the user's favorites, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]Favorite, error) {
	favs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	if favs == nil {
		favs = []Favorite{}
	}
	return favs, nil
}

// Exists reports whether bookID is a favorite of userID. Store failures are
// logged and reported as false.
func (s *Service) Exists(ctx context.Context, userID, bookID string) bool {
	ok, err := s.repo.Exists(ctx, userID, bookID)
	if err != nil {
		s.logger.Warn("favorite lookup failed",
			slog.String("user_id", userID),
			slog.String("book_id", bookID),
			slog.Any("error", err),
		)
		return false
	}
	return ok
}
