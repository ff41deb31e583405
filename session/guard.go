package session

// Access is the requirement a screen or command places on the session.
type Access int

const (
	Public Access = iota
	Authenticated
	Admin
)

func (a Access) String() string {
	switch a {
	case Authenticated:
		return "authenticated"
	case Admin:
		return "admin"
	default:
		return "public"
	}
}

// RedirectLogin is where denied decisions send the user.
const RedirectLogin = "login"

type Decision struct {
	Allowed  bool
	Redirect string
	Reason   string
}

// Allow decides whether s may enter something guarded by access.
func Allow(s Session, access Access) Decision {
	switch access {
	case Public:
		return Decision{Allowed: true}
	case Authenticated:
		if s.IsAuthenticated() {
			return Decision{Allowed: true}
		}
		return Decision{Redirect: RedirectLogin, Reason: "login required"}
	case Admin:
		if s.IsAdmin() {
			return Decision{Allowed: true}
		}
		if s.IsAuthenticated() {
			return Decision{Redirect: RedirectLogin, Reason: "admin access required"}
		}
		return Decision{Redirect: RedirectLogin, Reason: "login required"}
	default:
		return Decision{Redirect: RedirectLogin, Reason: "unknown access level"}
	}
}
