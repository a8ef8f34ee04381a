package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"biglibrary/internal/role"
)

const (
	msgSignUpFailed  = "Failed to create account"
	msgSignInFailed  = "Failed to sign in"
	msgSignOutFailed = "Failed to sign out"
)

// Resolver keeps the current session and fans it out to observers.
//
// A single provider subscription is held while at least one observer is
// active. Every admin derivation goes through the same role.AllowList.
type Resolver struct {
	provider Provider
	profiles ProfileWriter
	allow    role.AllowList
	logger   *slog.Logger
	now      func() time.Time

	// lifecycle serialises subscribe and unsubscribe. It is never held
	// while mu is wanted by a provider callback.
	lifecycle   sync.Mutex
	unsubscribe func()

	mu        sync.Mutex
	state     State
	settled   bool
	observers map[int]chan State
	nextID    int
}

func NewResolver(provider Provider, profiles ProfileWriter, allow role.AllowList, logger *slog.Logger) *Resolver {
	return &Resolver{
		provider:  provider,
		profiles:  profiles,
		allow:     allow,
		logger:    logger,
		now:       time.Now,
		state:     State{Loading: true},
		observers: make(map[int]chan State),
	}
}

// Observe returns a channel of session states. The first value is the
// current state, which is Loading until the provider has reported once.
// The channel closes when ctx is done. A slow reader only ever sees the
// newest state.
func (r *Resolver) Observe(ctx context.Context) <-chan State {
	ch := make(chan State, 1)

	r.lifecycle.Lock()
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.observers[id] = ch
	offer(ch, r.state)
	first := len(r.observers) == 1
	r.mu.Unlock()

	if first {
		r.unsubscribe = r.provider.Subscribe(r.handleAuthState)
	}
	r.lifecycle.Unlock()

	go func() {
		<-ctx.Done()
		r.release(id)
	}()
	return ch
}

func (r *Resolver) release(id int) {
	r.lifecycle.Lock()
	defer r.lifecycle.Unlock()

	r.mu.Lock()
	ch, ok := r.observers[id]
	delete(r.observers, id)
	last := len(r.observers) == 0
	r.mu.Unlock()

	if last && r.unsubscribe != nil {
		r.unsubscribe()
		r.unsubscribe = nil
	}
	if ok {
		close(ch)
	}
}

func (r *Resolver) handleAuthState(u *User) {
	if u == nil {
		r.set(State{})
		return
	}
	r.set(r.signedIn(u.UID, u.Email))
}

// SignUp creates the account, writes its profile and sets the session
// without waiting for the provider's notification.
func (r *Resolver) SignUp(ctx context.Context, email, password string) error {
	u, err := r.provider.CreateAccount(ctx, email, password)
	if err != nil {
		return r.fail("signup", msgSignUpFailed, err)
	}
	if u.Email == "" {
		u.Email = email
	}

	p := Profile{
		Email:     u.Email,
		IsAdmin:   r.allow.IsAdmin(u.Email),
		Role:      r.allow.RoleFor(u.Email),
		CreatedAt: r.now().UTC(),
	}
	if err := r.profiles.PutProfile(ctx, u.UID, p); err != nil {
		return r.fail("signup", msgSignUpFailed, err)
	}

	r.set(r.signedIn(u.UID, u.Email))
	return nil
}

// SignIn verifies the credentials and sets the session eagerly.
func (r *Resolver) SignIn(ctx context.Context, email, password string) error {
	u, err := r.provider.VerifyCredentials(ctx, email, password)
	if err != nil {
		return r.fail("signin", msgSignInFailed, err)
	}
	if u.Email == "" {
		u.Email = email
	}
	r.set(r.signedIn(u.UID, u.Email))
	return nil
}

func (r *Resolver) LogOut(ctx context.Context) error {
	if err := r.provider.SignOut(ctx); err != nil {
		return r.fail("logout", msgSignOutFailed, err)
	}
	r.set(State{})
	return nil
}

// Current returns the latest state.
func (r *Resolver) Current() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Resolver) signedIn(uid, email string) State {
	isAdmin := r.allow.IsAdmin(email)
	return State{
		User:    &User{UID: uid, Email: email, IsAdmin: isAdmin},
		IsAdmin: isAdmin,
	}
}

func (r *Resolver) set(s State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = s
	r.settled = true
	r.broadcastLocked()
}

// fail records the error on the current state and returns it wrapped.
func (r *Resolver) fail(op, fallback string, err error) error {
	msg := fallback
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	serr := &Error{Op: op, Message: msg, Err: err}
	r.logger.Warn("session operation failed", slog.String("op", op), slog.Any("error", err))

	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Err = serr
	r.state.Loading = !r.settled
	r.broadcastLocked()
	return serr
}

func (r *Resolver) broadcastLocked() {
	for _, ch := range r.observers {
		offer(ch, r.state)
	}
}

// offer replaces any unread value in ch with s.
func offer(ch chan State, s State) {
	select {
	case ch <- s:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- s:
	default:
	}
}
