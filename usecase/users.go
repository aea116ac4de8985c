package usecase

import (
	"context"

	"maplenotes/model"
	"maplenotes/repository"
	"maplenotes/services"
	"maplenotes/utils"
)

// UserService hashes credentials before they reach the store; the
// adapters only ever see the encoded hash.
type UserService struct {
	Store repository.Store
}

func (s *UserService) Register(ctx context.Context, username, password string) (*model.User, error) {
	passwordHash, err := services.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err := s.Store.InsertUser(ctx, username, passwordHash)
	if err != nil {
		utils.TrackAuthAttempt("failure", "signup")
		return nil, err
	}

	utils.TrackAuthAttempt("success", "signup")
	return user, nil
}

func (s *UserService) Login(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.Store.VerifyCredentials(ctx, username, password)
	if err != nil {
		utils.TrackAuthAttempt("failure", "login")
		return nil, err
	}

	utils.TrackAuthAttempt("success", "login")
	return user, nil
}
