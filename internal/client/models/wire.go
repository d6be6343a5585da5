package models

// Action is the discriminator field telling the account endpoint which
// operation a request is for.
type Action string

const (
	ActionLogin    Action = "login"
	ActionRegister Action = "register"
)

// AuthRequest is the body POSTed to the account endpoint.
type AuthRequest struct {
	Action   Action `json:"action"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name,omitempty"`
}

// AuthResponse is the body returned by the account and avatar endpoints.
// User is present on a successful login (and, by some deployments, on
// register); Error carries the rejection reason.
type AuthResponse struct {
	Success bool   `json:"success"`
	User    *User  `json:"user,omitempty"`
	Error   string `json:"error,omitempty"`
}

// AvatarRequest is the body POSTed to the avatar endpoint. AvatarData is
// base64 image data.
type AvatarRequest struct {
	UserID     int64  `json:"user_id"`
	AvatarData string `json:"avatar_data"`
}
