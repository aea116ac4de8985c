package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"maplenotes/model"
	"maplenotes/utils"
)

// MemoryStore is a map-backed Store for tests and for running the
// server without a database (STORAGE_BACKEND=memory). It mirrors the
// partitioned backend's shape: notes are bucketed by owner, so
// DeleteNote needs the owner id just like DynamoDB does.
type MemoryStore struct {
	mu          sync.RWMutex
	usersByName map[string]*model.User
	notesByUser map[string][]*model.Note
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		usersByName: make(map[string]*model.User),
		notesByUser: make(map[string][]*model.Note),
	}
}

func (s *MemoryStore) Backend() string { return "memory" }

func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

func (s *MemoryStore) FindUserByUsername(ctx context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.usersByName[username]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (s *MemoryStore) InsertUser(ctx context.Context, username, passwordHash string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.usersByName[username]; ok {
		return nil, ErrUsernameTaken
	}

	user := &model.User{
		UserID:    utils.GenerateID(),
		Username:  username,
		Password:  passwordHash,
		CreatedAt: time.Now().UTC(),
	}
	s.usersByName[username] = user

	copied := *user
	return &copied, nil
}

func (s *MemoryStore) VerifyCredentials(ctx context.Context, username, password string) (*model.User, error) {
	return verifyCredentials(ctx, s, username, password)
}

func (s *MemoryStore) ListNotesForUser(ctx context.Context, userID string) ([]*model.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	notes := make([]*model.Note, 0, len(s.notesByUser[userID]))
	for _, note := range s.notesByUser[userID] {
		copied := *note
		notes = append(notes, &copied)
	}

	sort.Slice(notes, func(i, j int) bool {
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})

	return notes, nil
}

func (s *MemoryStore) InsertNote(ctx context.Context, userID, title, content string) (*model.Note, error) {
	if userID == "" || title == "" {
		return nil, ErrMissingFields
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	note := &model.Note{
		NoteID:    utils.GenerateID(),
		UserID:    userID,
		Title:     title,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	s.notesByUser[userID] = append(s.notesByUser[userID], note)

	copied := *note
	return &copied, nil
}

func (s *MemoryStore) DeleteNote(ctx context.Context, noteID, userID string) error {
	if userID == "" {
		return ErrMissingUserID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	notes := s.notesByUser[userID]
	for i, note := range notes {
		if note.NoteID == noteID {
			s.notesByUser[userID] = append(notes[:i], notes[i+1:]...)
			return nil
		}
	}

	return ErrNoteNotFound
}
