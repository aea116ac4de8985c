package repository

import (
	"context"
	"fmt"
	"time"

	"maplenotes/config"
	"maplenotes/model"
	"maplenotes/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoStore implements Store on two collections, "users" and "notes".
// Username uniqueness is enforced by a unique index, so InsertUser is a
// single conditional write rather than a find-then-insert.
type MongoStore struct {
	client *mongo.Client
	users  *mongo.Collection
	notes  *mongo.Collection
}

// NewMongoStore connects to MongoDB, verifies the connection and
// creates the indexes the adapter relies on.
func NewMongoStore(ctx context.Context, cfg config.MongoConfig) (*MongoStore, error) {
	clientOptions := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetMaxConnIdleTime(cfg.MaxConnIdleTime).
		SetConnectTimeout(cfg.ConnectTimeout)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(cfg.DatabaseName)
	store := &MongoStore{
		client: client,
		users:  db.Collection("users"),
		notes:  db.Collection("notes"),
	}

	if err := store.setupIndexes(ctx); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *MongoStore) setupIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	userIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "username", Value: 1}},
			Options: options.Index().
				SetName("username_unique").
				SetUnique(true),
		},
	}

	noteIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().
				SetName("user_notes_date"),
		},
	}

	if _, err := s.users.Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("failed to create users indexes: %w", err)
	}
	if _, err := s.notes.Indexes().CreateMany(ctx, noteIndexes); err != nil {
		return fmt.Errorf("failed to create notes indexes: %w", err)
	}

	return nil
}

func (s *MongoStore) Backend() string { return "mongodb" }

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Disconnect releases the underlying client during shutdown.
func (s *MongoStore) Disconnect(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) FindUserByUsername(ctx context.Context, username string) (*model.User, error) {
	timer := utils.TrackDBOperation("find", "users")
	defer timer.ObserveDuration()

	var user model.User
	err := s.users.FindOne(ctx, bson.D{{Key: "username", Value: username}}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		utils.TrackError("database", "user_lookup_error")
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &user, nil
}

func (s *MongoStore) InsertUser(ctx context.Context, username, passwordHash string) (*model.User, error) {
	timer := utils.TrackDBOperation("insert", "users")
	defer timer.ObserveDuration()

	user := &model.User{
		UserID:    utils.GenerateID(),
		Username:  username,
		Password:  passwordHash,
		CreatedAt: time.Now().UTC(),
	}

	// The unique index on username turns a duplicate signup into a
	// duplicate-key error instead of a check-then-insert race.
	if _, err := s.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrUsernameTaken
		}
		utils.TrackError("database", "user_creation_failed")
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	return user, nil
}

func (s *MongoStore) VerifyCredentials(ctx context.Context, username, password string) (*model.User, error) {
	return verifyCredentials(ctx, s, username, password)
}

func (s *MongoStore) ListNotesForUser(ctx context.Context, userID string) ([]*model.Note, error) {
	timer := utils.TrackDBOperation("find", "notes")
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.notes.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		utils.TrackError("database", "notes_list_error")
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer cursor.Close(ctx)

	notes := []*model.Note{}
	if err := cursor.All(ctx, &notes); err != nil {
		return nil, fmt.Errorf("failed to decode notes: %w", err)
	}

	return notes, nil
}

func (s *MongoStore) InsertNote(ctx context.Context, userID, title, content string) (*model.Note, error) {
	if userID == "" || title == "" {
		return nil, ErrMissingFields
	}

	timer := utils.TrackDBOperation("insert", "notes")
	defer timer.ObserveDuration()

	note := &model.Note{
		NoteID:    utils.GenerateID(),
		UserID:    userID,
		Title:     title,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	if _, err := s.notes.InsertOne(ctx, note); err != nil {
		utils.TrackError("database", "note_creation_failed")
		return nil, fmt.Errorf("failed to insert note: %w", err)
	}

	return note, nil
}

// DeleteNote matches on the note id alone; the owner id narrows the
// filter when the caller provides it.
func (s *MongoStore) DeleteNote(ctx context.Context, noteID, userID string) error {
	timer := utils.TrackDBOperation("delete", "notes")
	defer timer.ObserveDuration()

	filter := bson.M{"_id": noteID}
	if userID != "" {
		filter["user_id"] = userID
	}

	result, err := s.notes.DeleteOne(ctx, filter)
	if err != nil {
		utils.TrackError("database", "note_deletion_failed")
		return fmt.Errorf("failed to delete note: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNoteNotFound
	}

	return nil
}
