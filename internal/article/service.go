package article

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

type Service struct {
	repo    Repository
	content *bluemonday.Policy
	text    *bluemonday.Policy
	now     func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:    repo,
		content: bluemonday.UGCPolicy(),
		text:    bluemonday.StrictPolicy(),
		now:     time.Now,
	}
}

func (s *Service) plain(v string) string {
	return strings.TrimSpace(html.UnescapeString(s.text.Sanitize(v)))
}

func (s *Service) rich(v string) string {
	return strings.TrimSpace(s.content.Sanitize(v))
}

// Publish stores a new article authored by author and returns it with its id.
func (s *Service) Publish(ctx context.Context, author string, in Input) (Article, error) {
	a := Article{
		Title:       s.plain(in.Title),
		Description: s.plain(in.Description),
		Content:     s.rich(in.Content),
		Category:    s.plain(in.Category),
		Author:      author,
		CreatedAt:   s.now().UTC(),
	}
	if a.Title == "" || a.Description == "" || a.Content == "" {
		return Article{}, ErrInvalidInput
	}

	if err := s.repo.Create(ctx, &a); err != nil {
		return Article{}, fmt.Errorf("create article: %w", err)
	}
	return a, nil
}

// Update applies p and returns the article as stored afterwards.
func (s *Service) Update(ctx context.Context, id string, p Patch) (Article, error) {
	c := Changes{UpdatedAt: s.now().UTC()}
	var err error
	if c.Title, err = s.requiredText(p.Title, s.plain); err != nil {
		return Article{}, err
	}
	if c.Description, err = s.requiredText(p.Description, s.plain); err != nil {
		return Article{}, err
	}
	if c.Content, err = s.requiredText(p.Content, s.rich); err != nil {
		return Article{}, err
	}
	if p.Category != nil {
		v := s.plain(*p.Category)
		c.Category = &v
	}

	if err := s.repo.Update(ctx, id, c); err != nil {
		return Article{}, fmt.Errorf("update article %s: %w", id, err)
	}

	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return Article{}, fmt.Errorf("reload article %s: %w", id, err)
	}
	return a, nil
}

func (s *Service) requiredText(v *string, clean func(string) string) (*string, error) {
	if v == nil {
		return nil, nil
	}
	out := clean(*v)
	if out == "" {
		return nil, ErrInvalidInput
	}
	return &out, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete article %s: %w", id, err)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (Article, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Article, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	if list == nil {
		list = []Article{}
	}
	return list, nil
}
