package repository

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"maplenotes/config"
)

// setupMongoTest connects to a local MongoDB, skipping when none is
// configured: MONGO_TEST_URI=mongodb://localhost:27017 go test ./repository/
func setupMongoTest(t *testing.T) (*MongoStore, func()) {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	store, err := NewMongoStore(ctx, config.MongoConfig{
		URI:             uri,
		DatabaseName:    "maplenotes_test",
		MaxPoolSize:     10,
		MinPoolSize:     1,
		MaxConnIdleTime: time.Minute,
		ConnectTimeout:  5 * time.Second,
	})
	if err != nil {
		t.Fatalf("Failed to set up MongoDB store: %v", err)
	}

	cleanup := func() {
		ctx := context.Background()
		if err := store.users.Drop(ctx); err != nil {
			t.Errorf("Failed to drop users collection: %v", err)
		}
		if err := store.notes.Drop(ctx); err != nil {
			t.Errorf("Failed to drop notes collection: %v", err)
		}
		if err := store.Disconnect(ctx); err != nil {
			t.Errorf("Failed to disconnect from MongoDB: %v", err)
		}
	}

	return store, cleanup
}

func TestMongoStoreUsers(t *testing.T) {
	store, cleanup := setupMongoTest(t)
	defer cleanup()
	ctx := context.Background()

	user, err := store.InsertUser(ctx, "alice", mustHash(t, "pw"))
	if err != nil {
		t.Fatalf("InsertUser failed: %v", err)
	}

	t.Run("DuplicateUsername", func(t *testing.T) {
		// The unique index must reject this without a prior lookup.
		if _, err := store.InsertUser(ctx, "alice", mustHash(t, "other")); !errors.Is(err, ErrUsernameTaken) {
			t.Errorf("expected ErrUsernameTaken, got %v", err)
		}
	})

	t.Run("FindAfterInsert", func(t *testing.T) {
		found, err := store.FindUserByUsername(ctx, "alice")
		if err != nil {
			t.Fatalf("FindUserByUsername failed: %v", err)
		}
		if found == nil || found.UserID != user.UserID {
			t.Errorf("lookup returned %+v", found)
		}
	})

	t.Run("FindUnknown", func(t *testing.T) {
		found, err := store.FindUserByUsername(ctx, "nobody")
		if err != nil {
			t.Fatalf("FindUserByUsername failed: %v", err)
		}
		if found != nil {
			t.Errorf("expected nil, got %+v", found)
		}
	})

	t.Run("VerifyCredentials", func(t *testing.T) {
		if _, err := store.VerifyCredentials(ctx, "alice", "pw"); err != nil {
			t.Errorf("VerifyCredentials failed: %v", err)
		}
		if _, err := store.VerifyCredentials(ctx, "alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestMongoStoreNotes(t *testing.T) {
	store, cleanup := setupMongoTest(t)
	defer cleanup()
	ctx := context.Background()

	user, err := store.InsertUser(ctx, "bob", mustHash(t, "pw"))
	if err != nil {
		t.Fatalf("InsertUser failed: %v", err)
	}

	t.Run("ListEmpty", func(t *testing.T) {
		notes, err := store.ListNotesForUser(ctx, user.UserID)
		if err != nil {
			t.Fatalf("ListNotesForUser failed: %v", err)
		}
		if len(notes) != 0 {
			t.Errorf("expected no notes, got %d", len(notes))
		}
	})

	t.Run("Lifecycle", func(t *testing.T) {
		note, err := store.InsertNote(ctx, user.UserID, "T", "C")
		if err != nil {
			t.Fatalf("InsertNote failed: %v", err)
		}

		notes, err := store.ListNotesForUser(ctx, user.UserID)
		if err != nil {
			t.Fatalf("ListNotesForUser failed: %v", err)
		}
		if len(notes) != 1 || notes[0].Title != "T" || notes[0].Content != "C" {
			t.Fatalf("expected the inserted note, got %v", notes)
		}

		// The document backend can delete on the note id alone.
		if err := store.DeleteNote(ctx, note.NoteID, ""); err != nil {
			t.Fatalf("DeleteNote failed: %v", err)
		}
		if err := store.DeleteNote(ctx, note.NoteID, ""); !errors.Is(err, ErrNoteNotFound) {
			t.Errorf("expected ErrNoteNotFound, got %v", err)
		}
	})
}
