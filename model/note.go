package model

import "time"

// Note belongs to exactly one user via UserID. Notes are created and
// deleted, never edited in place.
type Note struct {
	NoteID    string    `bson:"_id" json:"noteId"`
	UserID    string    `bson:"user_id" json:"userId"`
	Title     string    `bson:"title" json:"title"`
	Content   string    `bson:"content,omitempty" json:"content"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
