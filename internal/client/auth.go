package client

import (
	"context"
	"net/http"
	"time"

	"biglibrary/internal/session"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      struct {
		UID     string `json:"uid"`
		Email   string `json:"email"`
		Role    string `json:"role"`
		IsAdmin bool   `json:"isAdmin"`
	} `json:"user"`
}

// CreateAccount signs up and keeps the returned token.
func (c *Client) CreateAccount(ctx context.Context, email, password string) (session.User, error) {
	return c.authenticate(ctx, "/v1/auth/signup", email, password)
}

// VerifyCredentials logs in and keeps the returned token.
func (c *Client) VerifyCredentials(ctx context.Context, email, password string) (session.User, error) {
	return c.authenticate(ctx, "/v1/auth/login", email, password)
}

func (c *Client) authenticate(ctx context.Context, path, email, password string) (session.User, error) {
	var res authResult
	if err := c.doData(ctx, http.MethodPost, path, credentials{Email: email, Password: password}, &res, nil); err != nil {
		return session.User{}, err
	}

	u := session.User{UID: res.User.UID, Email: res.User.Email, IsAdmin: res.User.IsAdmin}
	c.setSession(res.Token, &u)
	return u, nil
}

// SignOut revokes the token on the server and forgets it. A token the
// server no longer accepts counts as signed out.
func (c *Client) SignOut(ctx context.Context) error {
	if c.Token() == "" {
		c.setSession("", nil)
		return nil
	}
	if err := c.do(ctx, http.MethodPost, "/v1/auth/logout", nil, nil); err != nil && !IsUnauthorized(err) {
		return err
	}
	c.setSession("", nil)
	return nil
}

// Subscribe registers fn for auth-state changes and calls it once with the
// current user.
func (c *Client) Subscribe(fn func(*session.User)) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	cur := c.user
	c.mu.Unlock()

	fn(cur)
	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// PutProfile writes the caller's profile document. The server keys it by
// the token's subject, so uid must be the signed-in user.
func (c *Client) PutProfile(ctx context.Context, uid string, p session.Profile) error {
	return c.doData(ctx, http.MethodPut, "/v1/me/profile", p, nil, nil)
}

func (c *Client) setSession(token string, u *session.User) {
	c.mu.Lock()
	c.token = token
	c.user = u
	fns := make([]func(*session.User), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(u)
	}
}
