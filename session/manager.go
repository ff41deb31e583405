package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"bioskop-cli/model"
	"bioskop-cli/store"
	"bioskop-cli/validate"
)

var (
	ErrNotSignedIn        = errors.New("login required")
	ErrUnexpectedResponse = errors.New("unexpected authentication response")
)

// AuthAPI is the subset of the API the manager talks to.
type AuthAPI interface {
	Login(ctx context.Context, creds model.Credentials) (any, error)
	Register(ctx context.Context, reg model.Registration) (any, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (any, error)
}

// Persister keeps the session across runs.
type Persister interface {
	Load() (*store.SavedSession, error)
	Save(store.SavedSession) error
	Clear() error
}

// Manager owns the current session and performs the auth transitions.
type Manager struct {
	current   atomic.Pointer[Session]
	saveMu    sync.Mutex
	auth      AuthAPI
	persist   Persister
	validator *validate.Validator
	logger    *slog.Logger
	now       func() time.Time
}

type Option func(*Manager)

func WithPersister(p Persister) Option {
	return func(m *Manager) {
		m.persist = p
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

func WithValidator(v *validate.Validator) Option {
	return func(m *Manager) {
		if v != nil {
			m.validator = v
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager starts anonymous. The auth API is attached with SetAuth once the
// client that uses the manager as its token source exists.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		validator: validate.New(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	anon := Anonymous
	m.current.Store(&anon)
	return m
}

func (m *Manager) SetAuth(auth AuthAPI) {
	m.auth = auth
}

// Current returns the session snapshot.
func (m *Manager) Current() Session {
	return *m.current.Load()
}

// Token makes the manager usable as the API client's token source.
func (m *Manager) Token() string {
	return m.current.Load().token
}

// Restore loads the persisted session. Tokens that carry an expiry in the
// past are discarded together with the saved file.
func (m *Manager) Restore() (Session, error) {
	if m.persist == nil {
		return m.Current(), nil
	}
	saved, err := m.persist.Load()
	if err != nil {
		return m.Current(), fmt.Errorf("restore session: %w", err)
	}
	if saved == nil || saved.User == nil {
		return m.Current(), nil
	}
	if m.expired(saved.Token) {
		m.logger.Info("saved session expired", "user", saved.User.Email)
		if err := m.persist.Clear(); err != nil {
			m.logger.Warn("clear expired session", "err", err)
		}
		return m.Current(), nil
	}
	s := New(saved.User, saved.Token)
	m.current.Store(&s)
	m.logger.Debug("session restored", "user", saved.User.Email)
	return s, nil
}

// expired reports whether token is a JWT whose exp claim has passed. Opaque
// tokens never expire client-side.
func (m *Manager) expired(token string) bool {
	if token == "" {
		return false
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(m.now())
}

// Login signs in. On failure the previous session is kept.
func (m *Manager) Login(ctx context.Context, creds model.Credentials) (Session, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if err := m.validator.Struct(creds); err != nil {
		return m.Current(), err
	}
	if err := m.requireAuth(); err != nil {
		return m.Current(), err
	}
	body, err := m.auth.Login(ctx, creds)
	if err != nil {
		m.logger.Info("login failed", "email", creds.Email, "err", err)
		return m.Current(), err
	}
	return m.signIn(ctx, body)
}

// Register checks the form locally before contacting the server. A
// registration response without credentials is followed by a login.
func (m *Manager) Register(ctx context.Context, reg model.Registration) (Session, error) {
	reg.Name = strings.TrimSpace(reg.Name)
	reg.Email = strings.TrimSpace(reg.Email)
	if err := m.validator.Struct(reg); err != nil {
		return m.Current(), err
	}
	if err := m.requireAuth(); err != nil {
		return m.Current(), err
	}
	body, err := m.auth.Register(ctx, reg)
	if err != nil {
		m.logger.Info("registration failed", "email", reg.Email, "err", err)
		return m.Current(), err
	}
	if token, user := ParseAuthResponse(body); token != "" || user != nil {
		return m.signIn(ctx, body)
	}
	return m.Login(ctx, model.Credentials{Email: reg.Email, Password: reg.Password})
}

// Logout always ends the local session, even when the API call fails.
func (m *Manager) Logout(ctx context.Context) error {
	if !m.Current().IsAuthenticated() {
		m.set(Anonymous)
		return nil
	}
	var err error
	if m.auth != nil {
		err = m.auth.Logout(ctx)
		if err != nil {
			m.logger.Warn("logout request failed", "err", err)
		}
	}
	m.set(Anonymous)
	return err
}

// Refresh reloads the signed-in user's profile.
func (m *Manager) Refresh(ctx context.Context) (Session, error) {
	current := m.Current()
	if !current.IsAuthenticated() {
		return current, ErrNotSignedIn
	}
	if err := m.requireAuth(); err != nil {
		return current, err
	}
	body, err := m.auth.Profile(ctx)
	if err != nil {
		return m.Current(), err
	}
	user, err := decodeUser(body)
	if err != nil {
		return m.Current(), err
	}
	// A 401 during the call may already have signed the user out.
	if m.Token() != current.token {
		return m.Current(), ErrNotSignedIn
	}
	next := New(user, current.token)
	m.set(next)
	return next, nil
}

// Expire drops the session after the API rejected its token.
func (m *Manager) Expire() {
	if !m.Current().IsAuthenticated() {
		return
	}
	m.logger.Info("session expired")
	m.set(Anonymous)
}

func (m *Manager) signIn(ctx context.Context, body any) (Session, error) {
	token, user := ParseAuthResponse(body)
	if user == nil {
		if token == "" {
			return m.Current(), ErrUnexpectedResponse
		}
		previous := m.current.Load()
		pending := Session{token: token}
		m.current.Store(&pending)
		profile, err := m.auth.Profile(ctx)
		if err == nil {
			user, err = decodeUser(profile)
		}
		if err != nil {
			m.current.Store(previous)
			return *previous, fmt.Errorf("load profile: %w", err)
		}
	}
	next := New(user, token)
	m.set(next)
	m.logger.Info("signed in", "user", user.Email, "admin", next.IsAdmin())
	return next, nil
}

func (m *Manager) set(s Session) {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.current.Store(&s)
	if m.persist == nil {
		return
	}
	var err error
	if s.IsAuthenticated() {
		user, _ := s.User()
		err = m.persist.Save(store.SavedSession{Token: s.token, User: &user})
	} else {
		err = m.persist.Clear()
	}
	if err != nil {
		m.logger.Warn("persist session", "err", err)
	}
}

func (m *Manager) requireAuth() error {
	if m.auth == nil {
		return errors.New("session manager has no auth api")
	}
	return nil
}

// ParseAuthResponse extracts the token and user from a login or register
// response. The token is read from token, access_token or data.token and the
// user from user, data.user or data itself.
func ParseAuthResponse(body any) (string, *model.User) {
	obj, ok := body.(map[string]any)
	if !ok {
		return "", nil
	}
	data, _ := obj["data"].(map[string]any)

	token := stringField(obj, "token", "access_token")
	if token == "" && data != nil {
		token = stringField(data, "token", "access_token")
	}

	var raw map[string]any
	switch {
	case isObject(obj["user"]):
		raw = obj["user"].(map[string]any)
	case data != nil && isObject(data["user"]):
		raw = data["user"].(map[string]any)
	case data != nil && data["id"] != nil:
		raw = data
	}
	if raw == nil {
		return token, nil
	}
	user, err := model.Decode[model.User](raw)
	if err != nil {
		return token, nil
	}
	return token, &user
}

func decodeUser(body any) (*model.User, error) {
	obj, ok := body.(map[string]any)
	if !ok {
		return nil, ErrUnexpectedResponse
	}
	if inner, ok := obj["user"].(map[string]any); ok {
		obj = inner
	}
	user, err := model.Decode[model.User](obj)
	if err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &user, nil
}

func stringField(obj map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := obj[key].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func isObject(v any) bool {
	_, ok := v.(map[string]any)
	return ok
}
