package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bioskop-cli/model"
	"bioskop-cli/store"
	"bioskop-cli/validate"
)

type fakeAuth struct {
	loginBody    any
	loginErr     error
	registerBody any
	registerErr  error
	logoutErr    error
	profileBody  any
	profileErr   error

	logins    int
	registers int
	logouts   int
	profiles  int
	tokens    []string
	manager   *Manager
}

func (f *fakeAuth) Login(ctx context.Context, creds model.Credentials) (any, error) {
	f.logins++
	return f.loginBody, f.loginErr
}

func (f *fakeAuth) Register(ctx context.Context, reg model.Registration) (any, error) {
	f.registers++
	return f.registerBody, f.registerErr
}

func (f *fakeAuth) Logout(ctx context.Context) error {
	f.logouts++
	return f.logoutErr
}

func (f *fakeAuth) Profile(ctx context.Context) (any, error) {
	f.profiles++
	if f.manager != nil {
		f.tokens = append(f.tokens, f.manager.Token())
	}
	return f.profileBody, f.profileErr
}

type memoryPersister struct {
	saved   *store.SavedSession
	cleared int
}

func (p *memoryPersister) Load() (*store.SavedSession, error) { return p.saved, nil }

func (p *memoryPersister) Save(s store.SavedSession) error {
	p.saved = &s
	return nil
}

func (p *memoryPersister) Clear() error {
	p.saved = nil
	p.cleared++
	return nil
}

func newManager(auth *fakeAuth, persist *memoryPersister) *Manager {
	m := NewManager(WithPersister(persist))
	m.SetAuth(auth)
	auth.manager = m
	return m
}

func assertInvariant(t *testing.T, s Session) {
	t.Helper()
	_, hasUser := s.User()
	assert.Equal(t, hasUser, s.IsAuthenticated())
	if !s.IsAuthenticated() {
		assert.False(t, s.IsAdmin())
		assert.Empty(t, s.Token())
	}
}

var adminLogin = map[string]any{
	"token": "tok-1",
	"user":  map[string]any{"id": 1.0, "name": "Rina", "email": "rina@mail.co", "role": "admin"},
}

func TestLoginLogout(t *testing.T) {
	auth := &fakeAuth{loginBody: adminLogin}
	persist := &memoryPersister{}
	m := newManager(auth, persist)
	assertInvariant(t, m.Current())

	s, err := m.Login(context.Background(), model.Credentials{Email: " rina@mail.co ", Password: "x"})
	require.NoError(t, err)
	assertInvariant(t, s)
	assert.True(t, s.IsAuthenticated())
	assert.True(t, s.IsAdmin())
	assert.Equal(t, "tok-1", m.Token())
	assert.Equal(t, "Rina", s.Name())
	require.NotNil(t, persist.saved)
	assert.Equal(t, "tok-1", persist.saved.Token)

	auth.logoutErr = errors.New("network down")
	err = m.Logout(context.Background())
	assert.EqualError(t, err, "network down")
	assertInvariant(t, m.Current())
	assert.False(t, m.Current().IsAuthenticated())
	assert.Nil(t, persist.saved)
	assert.Equal(t, 1, auth.logouts)

	require.NoError(t, m.Logout(context.Background()))
	assert.Equal(t, 1, auth.logouts)
}

func TestLoginFailureKeepsSession(t *testing.T) {
	auth := &fakeAuth{loginBody: adminLogin}
	m := newManager(auth, &memoryPersister{})
	_, err := m.Login(context.Background(), model.Credentials{Email: "rina@mail.co", Password: "x"})
	require.NoError(t, err)

	auth.loginErr = errors.New("invalid credentials")
	s, err := m.Login(context.Background(), model.Credentials{Email: "other@mail.co", Password: "y"})
	assert.EqualError(t, err, "invalid credentials")
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "tok-1", m.Token())
}

func TestLoginRequiresFields(t *testing.T) {
	auth := &fakeAuth{}
	m := newManager(auth, &memoryPersister{})
	_, err := m.Login(context.Background(), model.Credentials{Email: " "})
	errs, ok := validate.AsErrors(err)
	require.True(t, ok)
	assert.Equal(t, "is required", errs.Field("email"))
	assert.Zero(t, auth.logins)
}

func TestLoginFetchesProfileWhenUserMissing(t *testing.T) {
	auth := &fakeAuth{
		loginBody:   map[string]any{"data": map[string]any{"access_token": "tok-2"}},
		profileBody: map[string]any{"id": 2.0, "name": "Budi", "role": "user"},
	}
	m := newManager(auth, &memoryPersister{})

	s, err := m.Login(context.Background(), model.Credentials{Email: "budi@mail.co", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, []string{"tok-2"}, auth.tokens)
	assert.True(t, s.IsAuthenticated())
	assert.False(t, s.IsAdmin())

	auth.loginBody = map[string]any{"token": "tok-3"}
	auth.profileErr = errors.New("boom")
	s, err = m.Login(context.Background(), model.Credentials{Email: "budi@mail.co", Password: "x"})
	require.Error(t, err)
	assert.Equal(t, "tok-2", s.Token())
	assert.Equal(t, "tok-2", m.Token())
}

func TestLoginUnexpectedResponse(t *testing.T) {
	auth := &fakeAuth{loginBody: []any{}}
	m := newManager(auth, &memoryPersister{})
	_, err := m.Login(context.Background(), model.Credentials{Email: "a@b.co", Password: "x"})
	assert.ErrorIs(t, err, ErrUnexpectedResponse)
	assertInvariant(t, m.Current())
}

func TestRegisterGatesBeforeServer(t *testing.T) {
	auth := &fakeAuth{}
	m := newManager(auth, &memoryPersister{})

	_, err := m.Register(context.Background(), model.Registration{
		Name:                 "Rina",
		Email:                "rina@mail.co",
		Password:             "abc",
		PasswordConfirmation: "abc",
	})
	errs, ok := validate.AsErrors(err)
	require.True(t, ok)
	assert.Contains(t, errs.Field("password"), "password strength too low")
	assert.Zero(t, auth.registers)

	_, err = m.Register(context.Background(), model.Registration{
		Name:                 "Rina",
		Email:                "user..x@mail.com",
		Password:             "Abcdef1!",
		PasswordConfirmation: "Abcdef1!",
	})
	errs, ok = validate.AsErrors(err)
	require.True(t, ok)
	assert.NotEmpty(t, errs.Field("email"))
	assert.Zero(t, auth.registers)
}

func TestRegisterSignsIn(t *testing.T) {
	reg := model.Registration{
		Name:                 "Rina",
		Email:                "rina@mail.co",
		Password:             "Abcdef1!",
		PasswordConfirmation: "Abcdef1!",
	}

	auth := &fakeAuth{registerBody: map[string]any{
		"data": map[string]any{"token": "tok-r", "user": map[string]any{"id": 5.0, "name": "Rina"}},
	}}
	m := newManager(auth, &memoryPersister{})
	s, err := m.Register(context.Background(), reg)
	require.NoError(t, err)
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "tok-r", s.Token())
	assert.Zero(t, auth.logins)

	auth = &fakeAuth{registerBody: map[string]any{"message": "created"}, loginBody: adminLogin}
	m = newManager(auth, &memoryPersister{})
	s, err = m.Register(context.Background(), reg)
	require.NoError(t, err)
	assert.Equal(t, 1, auth.logins)
	assert.True(t, s.IsAuthenticated())
}

func TestRefresh(t *testing.T) {
	auth := &fakeAuth{loginBody: adminLogin}
	m := newManager(auth, &memoryPersister{})

	_, err := m.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrNotSignedIn)

	_, err = m.Login(context.Background(), model.Credentials{Email: "rina@mail.co", Password: "x"})
	require.NoError(t, err)

	auth.profileBody = map[string]any{"id": 1.0, "name": "Rina Putri", "role": "user"}
	s, err := m.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Rina Putri", s.Name())
	assert.False(t, s.IsAdmin())
	assert.Equal(t, "tok-1", s.Token())
}

func TestExpire(t *testing.T) {
	persist := &memoryPersister{}
	m := newManager(&fakeAuth{loginBody: adminLogin}, persist)
	_, err := m.Login(context.Background(), model.Credentials{Email: "rina@mail.co", Password: "x"})
	require.NoError(t, err)

	m.Expire()
	assertInvariant(t, m.Current())
	assert.False(t, m.Current().IsAuthenticated())
	assert.Nil(t, persist.saved)
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "1", "exp": exp.Unix()})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestRestore(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	user := &model.User{Id: 1, Name: "Rina", Role: "admin"}

	tests := []struct {
		name      string
		saved     *store.SavedSession
		wantAuth  bool
		wantClear bool
	}{
		{name: "nothing saved"},
		{name: "no user", saved: &store.SavedSession{Token: "x"}},
		{name: "opaque token", saved: &store.SavedSession{Token: "12|abcdef", User: user}, wantAuth: true},
		{name: "live jwt", saved: &store.SavedSession{Token: signedToken(t, now.Add(time.Hour)), User: user}, wantAuth: true},
		{name: "expired jwt", saved: &store.SavedSession{Token: signedToken(t, now.Add(-time.Minute)), User: user}, wantClear: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			persist := &memoryPersister{saved: tt.saved}
			m := NewManager(WithPersister(persist), WithClock(func() time.Time { return now }))

			s, err := m.Restore()
			require.NoError(t, err)
			assertInvariant(t, s)
			assert.Equal(t, tt.wantAuth, s.IsAuthenticated())
			if tt.wantAuth {
				assert.True(t, s.IsAdmin())
				assert.Equal(t, tt.saved.Token, m.Token())
			}
			if tt.wantClear {
				assert.Equal(t, 1, persist.cleared)
			}
		})
	}
}

func TestAllow(t *testing.T) {
	anon := Anonymous
	member := New(&model.User{Id: 2, Role: "user"}, "t")
	admin := New(&model.User{Id: 1, Role: "ADMIN"}, "t")

	tests := []struct {
		name    string
		s       Session
		access  Access
		allowed bool
	}{
		{"public anon", anon, Public, true},
		{"auth anon", anon, Authenticated, false},
		{"auth member", member, Authenticated, true},
		{"admin anon", anon, Admin, false},
		{"admin member", member, Admin, false},
		{"admin admin", admin, Admin, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Allow(tt.s, tt.access)
			assert.Equal(t, tt.allowed, d.Allowed)
			if tt.allowed {
				assert.Empty(t, d.Redirect)
			} else {
				assert.Equal(t, RedirectLogin, d.Redirect)
				assert.NotEmpty(t, d.Reason)
			}
		})
	}
}

func TestNewCopiesUser(t *testing.T) {
	user := &model.User{Id: 1, Name: "Rina"}
	s := New(user, "tok")
	user.Name = "changed"
	got, ok := s.User()
	require.True(t, ok)
	assert.Equal(t, "Rina", got.Name)

	assert.Equal(t, Anonymous, New(nil, "tok"))
}

func TestParseAuthResponse(t *testing.T) {
	token, user := ParseAuthResponse(map[string]any{
		"data": map[string]any{"id": 3.0, "name": "Sari", "token": "tok-d"},
	})
	assert.Equal(t, "tok-d", token)
	require.NotNil(t, user)
	assert.Equal(t, 3, user.Id.Int())

	token, user = ParseAuthResponse("nope")
	assert.Empty(t, token)
	assert.Nil(t, user)
}
