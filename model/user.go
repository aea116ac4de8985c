package model

import "time"

// User is both the storage record and the wire shape for a registered
// account. The password field holds the encoded argon2id hash and is
// never serialized into responses.
type User struct {
	UserID    string    `bson:"_id" json:"userId"`
	Username  string    `bson:"username" json:"username"`
	Password  string    `bson:"password" json:"-"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
