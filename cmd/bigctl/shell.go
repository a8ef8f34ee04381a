package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"biglibrary/internal/article"
	"biglibrary/internal/catalog"
	"biglibrary/internal/client"
	"biglibrary/internal/favorites"
	"biglibrary/internal/gate"
	"biglibrary/internal/session"
)

// defaultQuery is what the library screen shows before the user searches.
const defaultQuery = "books"

// maxRedirects bounds gate redirect chains.
const maxRedirects = 4

var errQuit = errors.New("quit")

type api interface {
	catalog.Searcher
	FavoritesView(ctx context.Context, page, pageSize int) ([]favorites.Entry, client.PageMeta, error)
	AddFavorite(ctx context.Context, in favorites.AddInput) (string, bool, error)
	RemoveFavorite(ctx context.Context, bookID string) error
	ListArticles(ctx context.Context) ([]article.Article, error)
}

type view int

const (
	viewBrowse view = iota
	viewFavorites
)

type shell struct {
	api      api
	resolver *session.Resolver
	browser  *catalog.Browser
	pageSize int

	mu     sync.Mutex
	out    io.Writer
	path   string
	screen string

	view       view
	query      catalog.Query
	browsePage int
	favPage    int
}

func newShell(a api, resolver *session.Resolver, out io.Writer, pageSize int) *shell {
	if pageSize <= 0 || pageSize > catalog.MaxLimit {
		pageSize = catalog.DefaultLimit
	}
	return &shell{
		api:      a,
		resolver: resolver,
		browser:  catalog.NewBrowser(a, nil),
		pageSize: pageSize,
		out:      out,
		path:     gate.PathRoot,
		query:    catalog.Query{Q: defaultQuery, Order: catalog.OrderRelevance},
	}
}

// watch re-runs the gate for the current path on every session change.
func (s *shell) watch(ctx context.Context) {
	states := s.resolver.Observe(ctx)
	go func() {
		for range states {
			s.mu.Lock()
			before := s.screen
			s.navigateLocked(s.resolver.Current(), s.path)
			if s.screen != before {
				fmt.Fprintf(s.out, "\n[%s] %s\n", s.path, s.screen)
			}
			s.mu.Unlock()
		}
	}()
}

func (s *shell) loop(ctx context.Context, in io.Reader) error {
	sc := bufio.NewScanner(in)
	s.printf("bigctl ready, type 'help' for commands\n")
	for {
		s.printf("> ")
		if !sc.Scan() {
			return sc.Err()
		}
		err := s.exec(ctx, sc.Text())
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			s.printf("error: %v\n", err)
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func (s *shell) exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "help":
		s.help()
		return nil
	case "quit", "exit":
		return errQuit
	case "signup":
		return s.authenticate(ctx, args, s.resolver.SignUp)
	case "login":
		return s.authenticate(ctx, args, s.resolver.SignIn)
	case "logout":
		return s.resolver.LogOut(ctx)
	case "whoami":
		s.whoami()
		return nil
	case "open":
		if len(args) != 1 {
			return errors.New("usage: open <path>")
		}
		s.open(args[0])
		return nil
	case "search":
		q := strings.Join(args, " ")
		if q == "" {
			q = defaultQuery
		}
		s.query.Q = q
		return s.browse(ctx, 0)
	case "order":
		if len(args) != 1 {
			return errors.New("usage: order relevance|newest")
		}
		s.query.Order = catalog.Order(args[0])
		return s.browse(ctx, 0)
	case "category":
		s.query.Category = strings.Join(args, " ")
		return s.browse(ctx, 0)
	case "favorites":
		page := 0
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return errors.New("usage: favorites [page]")
			}
			page = n - 1
		}
		return s.showFavorites(ctx, page)
	case "next", "prev":
		delta := 1
		if cmd == "prev" {
			delta = -1
		}
		if s.view == viewFavorites {
			return s.showFavorites(ctx, s.favPage+delta)
		}
		return s.browse(ctx, s.browsePage+delta)
	case "fav-add":
		if len(args) < 2 {
			return errors.New("usage: fav-add <bookId> <title>")
		}
		return s.addFavorite(ctx, args[0], strings.Join(args[1:], " "))
	case "fav-rm":
		if len(args) != 1 {
			return errors.New("usage: fav-rm <bookId>")
		}
		if err := s.api.RemoveFavorite(ctx, args[0]); err != nil {
			return err
		}
		s.printf("removed %s\n", args[0])
		return nil
	case "articles":
		return s.articles(ctx)
	default:
		return fmt.Errorf("unknown command %q, type 'help'", cmd)
	}
}

func (s *shell) help() {
	s.printf(`commands:
  signup <email> <password>    create an account
  login <email> <password>     sign in
  logout                       sign out
  whoami                       show the current session
  open <path>                  navigate (/, /login, /signup, /library, /articles, /admin)
  search [query]               search the catalog (page 1)
  order relevance|newest       change the search order
  category [name]              filter by category, empty to clear
  next | prev                  page through the current view
  favorites [page]             show favorites with catalog details
  fav-add <bookId> <title>     add a favorite
  fav-rm <bookId>              remove a favorite
  articles                     list articles
  quit                         leave
`)
}

func (s *shell) authenticate(ctx context.Context, args []string, fn func(context.Context, string, string) error) error {
	if len(args) != 2 {
		return errors.New("usage: <email> <password>")
	}
	if err := fn(ctx, args[0], args[1]); err != nil {
		return err
	}
	s.whoami()
	s.open(gate.PathRoot)
	return nil
}

func (s *shell) whoami() {
	st := s.resolver.Current()
	switch {
	case st.Loading:
		s.printf("session loading\n")
	case st.User == nil:
		s.printf("signed out\n")
	default:
		r := "student"
		if st.IsAdmin {
			r = "admin"
		}
		s.printf("%s (%s) uid=%s\n", st.User.Email, r, st.User.UID)
	}
}

func (s *shell) open(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.navigateLocked(s.resolver.Current(), path)
	fmt.Fprintf(s.out, "[%s] %s\n", s.path, s.screen)
}

// enter navigates to path and reports whether screen was rendered there.
func (s *shell) enter(path, screen string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.navigateLocked(s.resolver.Current(), path)
	if s.screen != screen {
		fmt.Fprintf(s.out, "[%s] %s\n", s.path, s.screen)
		return false
	}
	return true
}

func (s *shell) navigateLocked(st session.State, path string) {
	gs := gate.State{Loading: st.Loading, Authenticated: st.SignedIn(), IsAdmin: st.IsAdmin}
	path = gate.Clean(path)
	for i := 0; i <= maxRedirects; i++ {
		d := gate.Decide(gs, path)
		switch d.Kind {
		case gate.Redirect:
			path = d.Location
			continue
		case gate.Placeholder:
			s.path, s.screen = path, "loading"
		default:
			s.path, s.screen = path, d.Screen
		}
		return
	}
	s.path, s.screen = path, "loading"
}

// browse loads one page of search results. The browse page index is kept
// apart from the favorites one.
func (s *shell) browse(ctx context.Context, page int) error {
	if !s.enter(gate.PathLibrary, gate.ScreenLibrary) {
		return nil
	}
	if page < 0 {
		page = 0
	}
	s.view = viewBrowse
	s.browsePage = page

	q := s.query
	q.Limit = s.pageSize
	q.Offset = page * s.pageSize

	st, applied := s.browser.Search(ctx, q)
	if !applied {
		return nil
	}
	if st.Err != nil {
		return st.Err
	}

	for i, it := range st.Page.Items {
		s.printf("%3d. %s", q.Offset+i+1, it.Title)
		if len(it.Authors) > 0 {
			s.printf(" by %s", strings.Join(it.Authors, ", "))
		}
		s.printf("  [%s]\n", it.ID)
	}
	s.printf("page %d/%d (%d results)\n", page+1, st.TotalPages(), st.Page.TotalItems)
	return nil
}

func (s *shell) showFavorites(ctx context.Context, page int) error {
	if !s.enter(gate.PathLibrary, gate.ScreenLibrary) {
		return nil
	}
	if page < 0 {
		page = 0
	}
	s.view = viewFavorites
	s.favPage = page

	entries, meta, err := s.api.FavoritesView(ctx, page+1, s.pageSize)
	if err != nil {
		return err
	}
	if meta.Total == 0 {
		s.printf("no favorites yet\n")
		return nil
	}
	for i, e := range entries {
		s.printf("%3d. %s", page*s.pageSize+i+1, e.Title)
		if len(e.Authors) > 0 {
			s.printf(" by %s", strings.Join(e.Authors, ", "))
		}
		if !e.Enriched {
			s.printf(" (catalog details unavailable)")
		}
		s.printf("  [%s]\n", e.ID)
	}
	s.printf("page %d/%d (%d favorites)\n", page+1, meta.TotalPages, meta.Total)
	return nil
}

func (s *shell) addFavorite(ctx context.Context, bookID, title string) error {
	in := favorites.AddInput{BookID: bookID, Title: title}
	for _, it := range s.browser.State().Page.Items {
		if it.ID == bookID {
			in.ImageURL = it.ImageURL
			in.Authors = it.Authors
			break
		}
	}

	_, created, err := s.api.AddFavorite(ctx, in)
	if err != nil {
		return err
	}
	if !created {
		s.printf("%s is already in favorites\n", bookID)
		return nil
	}
	s.printf("added %s\n", bookID)
	return nil
}

func (s *shell) articles(ctx context.Context) error {
	if !s.enter(gate.PathArticles, gate.ScreenArticles) {
		return nil
	}
	list, err := s.api.ListArticles(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		s.printf("no articles yet\n")
		return nil
	}
	for _, a := range list {
		s.printf("- %s (%s, %s)\n  %s\n", a.Title, a.Author, a.CreatedAt.Format("2006-01-02"), a.Description)
	}
	return nil
}

func (s *shell) location() (path, screen string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path, s.screen
}

func (s *shell) printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, format, args...)
}
