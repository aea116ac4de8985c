package repository

import (
	"context"

	"maplenotes/model"
	"maplenotes/services"
	"maplenotes/utils"
)

// verifyCredentials implements VerifyCredentials on top of a store's
// own username lookup. Unknown username and hash mismatch collapse
// into the same error.
func verifyCredentials(ctx context.Context, s Store, username, password string) (*model.User, error) {
	user, err := s.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		utils.TrackError("auth", "unknown_user")
		return nil, ErrInvalidCredentials
	}

	match, err := services.VerifyPassword(user.Password, password)
	if err != nil {
		return nil, err
	}
	if !match {
		utils.TrackError("auth", "password_mismatch")
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
