package client

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"pdfcatalog/internal/localstore"
)

// TokenKey is the store key holding the bearer token.
const TokenKey = "auth_token"

// AuthEvent names a session transition. The zero value is used for the
// immediate call made on subscription.
type AuthEvent string

const (
	EventSignedIn  AuthEvent = "SIGNED_IN"
	EventSignedOut AuthEvent = "SIGNED_OUT"
)

// User is the signed-in account.
type User struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture,omitempty"`
}

// Session is what /auth/verify returns for a valid token.
type Session struct {
	User      *User  `json:"user"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

// AuthListener observes session changes.
type AuthListener func(event AuthEvent, session *Session)

// AuthContext owns the client session and its observers. Listeners run on
// the caller's goroutine, outside the internal lock.
type AuthContext struct {
	client *Client
	store  localstore.Store

	mu        sync.Mutex
	session   *Session
	listeners []AuthListener
}

func NewAuthContext(c *Client, store localstore.Store) *AuthContext {
	return &AuthContext{client: c, store: store}
}

// SignInURL is where the browser is sent to start the Google sign-in.
func (a *AuthContext) SignInURL() string {
	return a.client.endpoint("/auth/google")
}

// Init restores the session from a callback token or the stored token and
// announces SIGNED_IN when one is found.
func (a *AuthContext) Init(ctx context.Context, callbackToken string) (*Session, error) {
	if callbackToken != "" {
		return a.HandleCallback(ctx, callbackToken)
	}
	s, err := a.CheckSession(ctx)
	if err != nil {
		return nil, err
	}
	if s != nil {
		a.notify(EventSignedIn, s)
	}
	return s, nil
}

// CheckSession verifies the stored token. Any failure, including transport
// errors, clears the token and returns a nil session.
func (a *AuthContext) CheckSession(ctx context.Context) (*Session, error) {
	raw, ok, err := a.store.Get(TokenKey)
	if err != nil {
		return nil, err
	}
	if ok && len(raw) > 0 {
		if s, err := a.verify(ctx, string(raw)); err == nil {
			a.mu.Lock()
			a.session = s
			a.mu.Unlock()
			return s, nil
		}
	}

	a.mu.Lock()
	a.session = nil
	a.mu.Unlock()
	return nil, a.store.Delete(TokenKey)
}

// HandleCallback stores the token delivered by the OAuth redirect and
// verifies it.
func (a *AuthContext) HandleCallback(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, nil
	}
	if err := a.store.Set(TokenKey, []byte(token)); err != nil {
		return nil, err
	}
	s, err := a.CheckSession(ctx)
	if err != nil {
		return nil, err
	}
	if s != nil {
		a.notify(EventSignedIn, s)
	}
	return s, nil
}

// SignOut tells the server, then forgets the token whatever the server said.
func (a *AuthContext) SignOut(ctx context.Context) error {
	raw, ok, err := a.store.Get(TokenKey)
	if err != nil {
		return err
	}
	if ok && len(raw) > 0 {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.client.endpoint("/auth/signout"), nil)
		if err == nil {
			req.Header.Set("Authorization", "Bearer "+string(raw))
			_ = a.client.do(req, nil)
		}
	}

	a.mu.Lock()
	a.session = nil
	a.mu.Unlock()

	if err := a.store.Delete(TokenKey); err != nil {
		return err
	}
	a.notify(EventSignedOut, nil)
	return nil
}

// CurrentUser returns the signed-in user or nil.
func (a *AuthContext) CurrentUser() *User {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return nil
	}
	return a.session.User
}

// OnAuthStateChange registers l and calls it at once with the current session.
func (a *AuthContext) OnAuthStateChange(l AuthListener) {
	a.mu.Lock()
	a.listeners = append(a.listeners, l)
	s := a.session
	a.mu.Unlock()

	l("", s)
}

func (a *AuthContext) notify(event AuthEvent, s *Session) {
	a.mu.Lock()
	ls := append([]AuthListener(nil), a.listeners...)
	a.mu.Unlock()

	for _, l := range ls {
		l(event, s)
	}
}

func (a *AuthContext) verify(ctx context.Context, token string) (*Session, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.client.endpoint("/auth/verify"), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	var s Session
	if err := a.client.do(req, &s); err != nil {
		return nil, err
	}
	if s.User == nil {
		return nil, errors.New("session without user")
	}
	return &s, nil
}
