package session

import "bioskop-cli/model"

// Session is an immutable snapshot of who is signed in. A new value replaces
// the old one on every transition.
type Session struct {
	user  *model.User
	token string
}

// Anonymous is the signed-out session.
var Anonymous = Session{}

// New builds a session. A nil user yields an anonymous session and the token
// is dropped with it.
func New(user *model.User, token string) Session {
	if user == nil {
		return Anonymous
	}
	u := *user
	return Session{user: &u, token: token}
}

// User returns a copy of the signed-in user.
func (s Session) User() (model.User, bool) {
	if s.user == nil {
		return model.User{}, false
	}
	return *s.user, true
}

func (s Session) Token() string {
	return s.token
}

func (s Session) IsAuthenticated() bool {
	return s.user != nil
}

func (s Session) IsAdmin() bool {
	return s.user != nil && s.user.IsAdmin()
}

// Name is the display name of the signed-in user, or empty.
func (s Session) Name() string {
	if s.user == nil {
		return ""
	}
	if s.user.Name != "" {
		return s.user.Name
	}
	return s.user.Email
}
