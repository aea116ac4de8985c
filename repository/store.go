// Package repository defines the storage adapter contract and its
// MongoDB, DynamoDB and in-memory implementations. The two database
// adapters expose identical semantics over very different physical
// models: Mongo keeps users and notes in separate collections and
// queries arbitrary fields, Dynamo packs both entities into one table
// keyed so every operation is a single-key read or write.
package repository

import (
	"context"
	"errors"

	"maplenotes/model"
)

var (
	// ErrUsernameTaken is returned by InsertUser when the username is
	// already claimed.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidCredentials covers both unknown username and wrong
	// password so callers cannot distinguish the two.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNoteNotFound is returned by DeleteNote when no note matched.
	ErrNoteNotFound = errors.New("note not found")

	// ErrMissingUserID is returned by DeleteNote on backends that need
	// the owner id to form the delete key.
	ErrMissingUserID = errors.New("user id is required")

	// ErrMissingFields is returned by InsertNote when userID or title
	// is empty.
	ErrMissingFields = errors.New("user id and title are required")
)

// Store is the uniform contract over the storage engines. A single
// Store is constructed at startup and shared by all requests.
type Store interface {
	// FindUserByUsername returns (nil, nil) when no user exists.
	FindUserByUsername(ctx context.Context, username string) (*model.User, error)

	// InsertUser atomically creates a user if the username is absent.
	// The password argument must already be hashed.
	InsertUser(ctx context.Context, username, passwordHash string) (*model.User, error)

	// VerifyCredentials returns the user when the password matches the
	// stored hash, ErrInvalidCredentials otherwise.
	VerifyCredentials(ctx context.Context, username, password string) (*model.User, error)

	// ListNotesForUser returns the user's notes newest first. A user
	// with no notes yields an empty slice, never an error.
	ListNotesForUser(ctx context.Context, userID string) ([]*model.Note, error)

	// InsertNote creates a note with a generated id and timestamp.
	InsertNote(ctx context.Context, userID, title, content string) (*model.Note, error)

	// DeleteNote removes a note, returning ErrNoteNotFound when
	// nothing matched. Backends keyed by owner require userID and
	// return ErrMissingUserID without it.
	DeleteNote(ctx context.Context, noteID, userID string) error

	// Backend names the storage engine for the health endpoint.
	Backend() string

	// Ping probes connectivity to the storage engine.
	Ping(ctx context.Context) error
}
