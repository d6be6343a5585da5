package models

// View is the screen the client currently shows.
type View string

const (
	ViewLogin    View = "login"
	ViewRegister View = "register"
	ViewHome     View = "home"
	ViewProfile  View = "profile"
)

// Valid reports whether v is one of the four known views.
func (v View) Valid() bool {
	switch v {
	case ViewLogin, ViewRegister, ViewHome, ViewProfile:
		return true
	}
	return false
}

// RequiresUser reports whether v may only be shown to a signed-in user.
func (v View) RequiresUser() bool {
	return v == ViewHome || v == ViewProfile
}

// SessionState is the client-owned session: current view, signed-in user
// and whether a request is pending. Only User is ever persisted.
type SessionState struct {
	View    View
	User    *User
	Loading bool
}

// Consistent reports whether the view/user invariant holds.
func (s SessionState) Consistent() bool {
	if !s.View.Valid() {
		return false
	}
	return !s.View.RequiresUser() || s.User != nil
}

// LoggedIn reports whether a user is present.
func (s SessionState) LoggedIn() bool {
	return s.User != nil
}

// LoginForm is the sign-in input buffer.
type LoginForm struct {
	Email    string
	Password string
}

func (f *LoginForm) Reset() { *f = LoginForm{} }

// RegisterForm is the registration input buffer.
type RegisterForm struct {
	Email    string
	Password string
	FullName string
}

func (f *RegisterForm) Reset() { *f = RegisterForm{} }
