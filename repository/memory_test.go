package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"maplenotes/services"
)

// The memory store doubles as the reference implementation of the
// Store contract, so these tests spell out the behavior every backend
// must share.

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := services.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	return hash
}

func TestMemoryStoreUsers(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	t.Run("FindUnknownUser", func(t *testing.T) {
		user, err := store.FindUserByUsername(ctx, "nobody")
		if err != nil {
			t.Fatalf("FindUserByUsername failed: %v", err)
		}
		if user != nil {
			t.Errorf("expected nil user, got %+v", user)
		}
	})

	t.Run("InsertAndFind", func(t *testing.T) {
		created, err := store.InsertUser(ctx, "alice", mustHash(t, "pw"))
		if err != nil {
			t.Fatalf("InsertUser failed: %v", err)
		}
		if created.UserID == "" {
			t.Error("expected a generated user id")
		}
		if created.CreatedAt.IsZero() {
			t.Error("expected a creation timestamp")
		}

		found, err := store.FindUserByUsername(ctx, "alice")
		if err != nil {
			t.Fatalf("FindUserByUsername failed: %v", err)
		}
		if found == nil || found.UserID != created.UserID {
			t.Errorf("lookup returned %+v, want id %s", found, created.UserID)
		}
	})

	t.Run("DuplicateUsername", func(t *testing.T) {
		_, err := store.InsertUser(ctx, "alice", mustHash(t, "other"))
		if !errors.Is(err, ErrUsernameTaken) {
			t.Errorf("expected ErrUsernameTaken, got %v", err)
		}
	})

	t.Run("VerifyCredentials", func(t *testing.T) {
		user, err := store.VerifyCredentials(ctx, "alice", "pw")
		if err != nil {
			t.Fatalf("VerifyCredentials failed: %v", err)
		}
		if user.Username != "alice" {
			t.Errorf("got user %q", user.Username)
		}

		if _, err := store.VerifyCredentials(ctx, "alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
		}
		if _, err := store.VerifyCredentials(ctx, "nobody", "pw"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("unknown user: expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestMemoryStoreNotes(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	user, err := store.InsertUser(ctx, "bob", mustHash(t, "pw"))
	if err != nil {
		t.Fatalf("InsertUser failed: %v", err)
	}

	t.Run("ListEmpty", func(t *testing.T) {
		notes, err := store.ListNotesForUser(ctx, user.UserID)
		if err != nil {
			t.Fatalf("ListNotesForUser failed: %v", err)
		}
		if notes == nil || len(notes) != 0 {
			t.Errorf("expected empty slice, got %v", notes)
		}
	})

	t.Run("ListUnknownUser", func(t *testing.T) {
		notes, err := store.ListNotesForUser(ctx, "no-such-user")
		if err != nil {
			t.Fatalf("unknown user must not be an error, got %v", err)
		}
		if len(notes) != 0 {
			t.Errorf("expected no notes, got %d", len(notes))
		}
	})

	t.Run("CreateAndList", func(t *testing.T) {
		first, err := store.InsertNote(ctx, user.UserID, "First", "content one")
		if err != nil {
			t.Fatalf("InsertNote failed: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
		second, err := store.InsertNote(ctx, user.UserID, "Second", "")
		if err != nil {
			t.Fatalf("InsertNote failed: %v", err)
		}

		notes, err := store.ListNotesForUser(ctx, user.UserID)
		if err != nil {
			t.Fatalf("ListNotesForUser failed: %v", err)
		}
		if len(notes) != 2 {
			t.Fatalf("expected 2 notes, got %d", len(notes))
		}
		if notes[0].NoteID != second.NoteID || notes[1].NoteID != first.NoteID {
			t.Error("expected notes newest first")
		}
		if notes[1].Title != "First" || notes[1].Content != "content one" {
			t.Errorf("note fields changed: %+v", notes[1])
		}
	})

	t.Run("Delete", func(t *testing.T) {
		notes, _ := store.ListNotesForUser(ctx, user.UserID)
		target := notes[0]

		if err := store.DeleteNote(ctx, target.NoteID, user.UserID); err != nil {
			t.Fatalf("DeleteNote failed: %v", err)
		}

		remaining, _ := store.ListNotesForUser(ctx, user.UserID)
		for _, note := range remaining {
			if note.NoteID == target.NoteID {
				t.Error("deleted note still listed")
			}
		}

		if err := store.DeleteNote(ctx, target.NoteID, user.UserID); !errors.Is(err, ErrNoteNotFound) {
			t.Errorf("expected ErrNoteNotFound, got %v", err)
		}
	})

	t.Run("InsertWithoutRequiredFields", func(t *testing.T) {
		if _, err := store.InsertNote(ctx, "", "T", ""); !errors.Is(err, ErrMissingFields) {
			t.Errorf("missing user id: expected ErrMissingFields, got %v", err)
		}
		if _, err := store.InsertNote(ctx, user.UserID, "", ""); !errors.Is(err, ErrMissingFields) {
			t.Errorf("missing title: expected ErrMissingFields, got %v", err)
		}
	})

	t.Run("DeleteWithoutUserID", func(t *testing.T) {
		if err := store.DeleteNote(ctx, "whatever", ""); !errors.Is(err, ErrMissingUserID) {
			t.Errorf("expected ErrMissingUserID, got %v", err)
		}
	})
}
