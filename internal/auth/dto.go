package auth

import "github.com/rmarconi/threadline-backend/internal/users"

// Credentials carries a username/password pair for register and login.
type Credentials struct {
	Username string
	Password string
}

// AuthResponse is returned by both register and login.
type AuthResponse struct {
	Token string         `json:"token"`
	User  *users.UserDTO `json:"user"`
}
