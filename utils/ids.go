package utils

import "github.com/google/uuid"

// GenerateID returns a random UUID string used for user and note ids.
func GenerateID() string {
	return uuid.NewString()
}
