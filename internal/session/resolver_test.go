package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biglibrary/internal/role"
)

const adminEmail = "admin@example.com"

type fakeProvider struct {
	mu         sync.Mutex
	current    *User
	subs       map[int]func(*User)
	nextID     int
	subscribed int
	createErr  error
	verifyErr  error
	signOutErr error
	silentAuth bool
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{subs: make(map[int]func(*User))}
}

func (p *fakeProvider) CreateAccount(_ context.Context, email, _ string) (User, error) {
	if p.createErr != nil {
		return User{}, p.createErr
	}
	u := User{UID: "uid-" + email, Email: email}
	p.push(&u)
	return u, nil
}

func (p *fakeProvider) VerifyCredentials(_ context.Context, email, _ string) (User, error) {
	if p.verifyErr != nil {
		return User{}, p.verifyErr
	}
	u := User{UID: "uid-" + email, Email: email}
	p.push(&u)
	return u, nil
}

func (p *fakeProvider) SignOut(context.Context) error {
	if p.signOutErr != nil {
		return p.signOutErr
	}
	p.push(nil)
	return nil
}

func (p *fakeProvider) Subscribe(fn func(*User)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.subs[id] = fn
	p.subscribed++
	cur := p.current
	p.mu.Unlock()

	fn(cur)
	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}

func (p *fakeProvider) push(u *User) {
	p.mu.Lock()
	p.current = u
	var fns []func(*User)
	if !p.silentAuth {
		for _, fn := range p.subs {
			fns = append(fns, fn)
		}
	}
	p.mu.Unlock()
	for _, fn := range fns {
		fn(u)
	}
}

func (p *fakeProvider) active() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.subs)
}

type memProfiles struct {
	mu   sync.Mutex
	docs map[string]Profile
	err  error
}

func (m *memProfiles) PutProfile(_ context.Context, uid string, p Profile) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.docs == nil {
		m.docs = make(map[string]Profile)
	}
	m.docs[uid] = p
	return nil
}

func newResolver(p Provider, profiles ProfileWriter) *Resolver {
	r := NewResolver(p, profiles, role.NewAllowList(adminEmail), slog.New(slog.NewTextHandler(io.Discard, nil)))
	r.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return r
}

func next(t *testing.T, ch <-chan State) State {
	t.Helper()
	select {
	case s, ok := <-ch:
		require.True(t, ok, "channel closed")
		return s
	case <-time.After(time.Second):
		t.Fatal("no state emitted")
		return State{}
	}
}

func TestResolver_StartsLoading(t *testing.T) {
	r := newResolver(newFakeProvider(), &memProfiles{})
	assert.True(t, r.Current().Loading)
}

func TestResolver_SignInSetsAdminImmediately(t *testing.T) {
	p := newFakeProvider()
	p.silentAuth = true // no push notification arrives
	r := newResolver(p, &memProfiles{})

	require.NoError(t, r.SignIn(context.Background(), adminEmail, "secret1"))

	s := r.Current()
	require.NotNil(t, s.User)
	assert.True(t, s.IsAdmin)
	assert.True(t, s.User.IsAdmin)
	assert.False(t, s.Loading)
	assert.Equal(t, "uid-"+adminEmail, s.User.UID)
}

func TestResolver_SignInStudent(t *testing.T) {
	r := newResolver(newFakeProvider(), &memProfiles{})

	require.NoError(t, r.SignIn(context.Background(), "student@example.com", "secret1"))
	assert.False(t, r.Current().IsAdmin)
}

func TestResolver_AllowListIsCaseSensitive(t *testing.T) {
	r := newResolver(newFakeProvider(), &memProfiles{})

	require.NoError(t, r.SignIn(context.Background(), "Admin@example.com", "secret1"))
	assert.False(t, r.Current().IsAdmin)
}

func TestResolver_SignUpWritesProfile(t *testing.T) {
	profiles := &memProfiles{}
	r := newResolver(newFakeProvider(), profiles)

	require.NoError(t, r.SignUp(context.Background(), adminEmail, "secret1"))

	doc, ok := profiles.docs["uid-"+adminEmail]
	require.True(t, ok)
	assert.Equal(t, Profile{
		Email:     adminEmail,
		IsAdmin:   true,
		Role:      role.Admin,
		CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}, doc)
	assert.True(t, r.Current().IsAdmin)
}

func TestResolver_EagerSetAndPushConverge(t *testing.T) {
	p := newFakeProvider()
	r := newResolver(p, &memProfiles{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := r.Observe(ctx)
	// Subscribe pushes the signed-out state right away.
	assert.False(t, next(t, ch).SignedIn())

	require.NoError(t, r.SignUp(context.Background(), adminEmail, "secret1"))
	eager := r.Current()

	p.push(&User{UID: "uid-" + adminEmail, Email: adminEmail})
	pushed := r.Current()

	assert.Equal(t, *eager.User, *pushed.User)
	assert.Equal(t, eager.IsAdmin, pushed.IsAdmin)
	assert.True(t, next(t, ch).IsAdmin)
}

func TestResolver_FailureIsSurfacedAndKeepsSubscription(t *testing.T) {
	p := newFakeProvider()
	p.verifyErr = errors.New("Firebase: wrong password")
	r := newResolver(p, &memProfiles{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := r.Observe(ctx)
	next(t, ch)

	err := r.SignIn(context.Background(), "student@example.com", "bad")
	require.Error(t, err)

	var serr *Error
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "Firebase: wrong password", serr.Message)
	assert.ErrorIs(t, err, p.verifyErr)
	assert.Equal(t, serr, r.Current().Err)

	s := next(t, ch)
	assert.Equal(t, serr, s.Err)

	p.verifyErr = nil
	require.NoError(t, r.SignIn(context.Background(), "student@example.com", "good1"))
	s = next(t, ch)
	assert.True(t, s.SignedIn())
	assert.Nil(t, s.Err)
	assert.Equal(t, 1, p.active())
}

func TestResolver_EmptyErrorMessageFallsBack(t *testing.T) {
	p := newFakeProvider()
	p.signOutErr = errors.New("")
	r := newResolver(p, &memProfiles{})

	err := r.LogOut(context.Background())
	require.Error(t, err)
	assert.Equal(t, msgSignOutFailed, err.Error())
}

func TestResolver_LogOutClears(t *testing.T) {
	r := newResolver(newFakeProvider(), &memProfiles{})
	require.NoError(t, r.SignIn(context.Background(), adminEmail, "secret1"))

	require.NoError(t, r.LogOut(context.Background()))

	s := r.Current()
	assert.Nil(t, s.User)
	assert.False(t, s.IsAdmin)
	assert.False(t, s.Loading)
}

func TestResolver_ObserveUnsubscribesOnCancel(t *testing.T) {
	p := newFakeProvider()
	r := newResolver(p, &memProfiles{})

	ctx1, cancel1 := context.WithCancel(context.Background())
	ctx2, cancel2 := context.WithCancel(context.Background())
	ch1 := r.Observe(ctx1)
	ch2 := r.Observe(ctx2)
	assert.Equal(t, 1, p.active())

	cancel1()
	for range ch1 {
	}
	assert.Equal(t, 1, p.active())

	cancel2()
	for range ch2 {
	}
	assert.Equal(t, 0, p.active())

	// Restart subscribes again.
	ctx3, cancel3 := context.WithCancel(context.Background())
	defer cancel3()
	ch3 := r.Observe(ctx3)
	next(t, ch3)
	assert.Equal(t, 1, p.active())
	assert.Equal(t, 2, p.subscribed)
}

func TestResolver_SlowObserverSeesLatest(t *testing.T) {
	p := newFakeProvider()
	r := newResolver(p, &memProfiles{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := r.Observe(ctx)

	p.push(&User{UID: "a", Email: "student@example.com"})
	p.push(nil)
	p.push(&User{UID: "b", Email: adminEmail})

	s := next(t, ch)
	require.NotNil(t, s.User)
	assert.Equal(t, "b", s.User.UID)
	assert.True(t, s.IsAdmin)
}
