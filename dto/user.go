package dto

import "maplenotes/model"

// CredentialsRequest is the body for both signup and login.
type CredentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse echoes the identity fields after a successful signup
// or login. The password hash never leaves the process.
type AuthResponse struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

func ToAuthResponse(user *model.User) AuthResponse {
	return AuthResponse{
		UserID:   user.UserID,
		Username: user.Username,
	}
}
