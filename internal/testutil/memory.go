package testutil

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"biglibrary/internal/article"
	"biglibrary/internal/favorites"
	"biglibrary/internal/identity"
	"biglibrary/internal/profile"
)

// MemoryFavorites is an in-memory favorites.Repository with the same
// uniqueness guarantee as the real stores.
type MemoryFavorites struct {
	mu      sync.Mutex
	nextID  int
	records []favorites.Favorite
	// Err, when set, is returned by every call.
	Err error
}

func NewMemoryFavorites() *MemoryFavorites {
	return &MemoryFavorites{}
}

func (m *MemoryFavorites) Insert(_ context.Context, f *favorites.Favorite) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	for _, r := range m.records {
		if r.UserID == f.UserID && r.BookID == f.BookID {
			f.ID = r.ID
			return false, nil
		}
	}
	m.nextID++
	f.ID = fmt.Sprintf("fav-%d", m.nextID)
	m.records = append(m.records, *f)
	return true, nil
}

func (m *MemoryFavorites) DeleteByBook(_ context.Context, userID, bookID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	kept := m.records[:0]
	removed := 0
	for _, r := range m.records {
		if r.UserID == userID && r.BookID == bookID {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	m.records = kept
	return removed, nil
}

func (m *MemoryFavorites) ListByUser(_ context.Context, userID string) ([]favorites.Favorite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var out []favorites.Favorite
	for _, r := range m.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AddedAt.After(out[j].AddedAt) })
	return out, nil
}

func (m *MemoryFavorites) Exists(_ context.Context, userID, bookID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	for _, r := range m.records {
		if r.UserID == userID && r.BookID == bookID {
			return true, nil
		}
	}
	return false, nil
}

// Count returns the number of stored records for userID.
func (m *MemoryFavorites) Count(userID string) int {
	list, _ := m.ListByUser(context.Background(), userID)
	return len(list)
}

// MemoryArticles is an in-memory article.Repository.
type MemoryArticles struct {
	mu     sync.Mutex
	nextID int
	byID   map[string]article.Article
}

func NewMemoryArticles() *MemoryArticles {
	return &MemoryArticles{byID: map[string]article.Article{}}
}

func (m *MemoryArticles) Create(_ context.Context, a *article.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	a.ID = fmt.Sprintf("art-%d", m.nextID)
	m.byID[a.ID] = *a
	return nil
}

func (m *MemoryArticles) Update(_ context.Context, id string, c article.Changes) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return article.ErrNotFound
	}
	if c.Title != nil {
		a.Title = *c.Title
	}
	if c.Description != nil {
		a.Description = *c.Description
	}
	if c.Content != nil {
		a.Content = *c.Content
	}
	if c.Category != nil {
		a.Category = *c.Category
	}
	updated := c.UpdatedAt
	a.UpdatedAt = &updated
	m.byID[id] = a
	return nil
}

func (m *MemoryArticles) Get(_ context.Context, id string) (article.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return article.Article{}, article.ErrNotFound
	}
	return a, nil
}

func (m *MemoryArticles) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return article.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *MemoryArticles) List(_ context.Context) ([]article.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]article.Article, 0, len(m.byID))
	for _, a := range m.byID {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// ErrStoreDown is a generic store failure for tests.
var ErrStoreDown = errors.New("store unavailable")

// MemoryAccounts is an in-memory identity.AccountRepository.
type MemoryAccounts struct {
	mu      sync.Mutex
	nextID  int
	byEmail map[string]identity.Account
}

func NewMemoryAccounts() *MemoryAccounts {
	return &MemoryAccounts{byEmail: map[string]identity.Account{}}
}

func (m *MemoryAccounts) Create(_ context.Context, a *identity.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[a.Email]; ok {
		return identity.ErrEmailTaken
	}
	m.nextID++
	a.ID = fmt.Sprintf("acc-%d", m.nextID)
	a.CreatedAt = time.Now().UTC()
	m.byEmail[a.Email] = *a
	return nil
}

func (m *MemoryAccounts) GetByEmail(_ context.Context, email string) (identity.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byEmail[email]
	if !ok {
		return identity.Account{}, identity.ErrNotFound
	}
	return a, nil
}

func (m *MemoryAccounts) GetByID(_ context.Context, id string) (identity.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.byEmail {
		if a.ID == id {
			return a, nil
		}
	}
	return identity.Account{}, identity.ErrNotFound
}

// MemoryBlacklist is an in-memory identity.Blacklist.
type MemoryBlacklist struct {
	mu   sync.Mutex
	jtis map[string]time.Time
}

func NewMemoryBlacklist() *MemoryBlacklist {
	return &MemoryBlacklist{jtis: map[string]time.Time{}}
}

func (m *MemoryBlacklist) Add(_ context.Context, jti, _ string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jtis[jti] = expiresAt
	return nil
}

func (m *MemoryBlacklist) Contains(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.jtis[jti]
	return ok, nil
}

// MemoryProfiles is an in-memory profile.Repository.
type MemoryProfiles struct {
	mu   sync.Mutex
	docs map[string]profile.Profile
}

func NewMemoryProfiles() *MemoryProfiles {
	return &MemoryProfiles{docs: map[string]profile.Profile{}}
}

func (m *MemoryProfiles) Upsert(_ context.Context, p *profile.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.docs[p.UserID]; ok {
		p.CreatedAt = old.CreatedAt
	}
	m.docs[p.UserID] = *p
	return nil
}

func (m *MemoryProfiles) Get(_ context.Context, userID string) (profile.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.docs[userID]
	if !ok {
		return profile.Profile{}, profile.ErrNotFound
	}
	return p, nil
}
