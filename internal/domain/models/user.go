// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a forum member.
//
// NOTE:
//   - Identity ("id") is the external, stable identifier issued by the
//     identity provider. All lookups go through it, never through _id.
//   - Username is always stored lower-cased.
type User struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Identity    string               `bson:"id" json:"id"`
	Username    string               `bson:"username" json:"username"`
	Name        string               `bson:"name" json:"name"`
	Bio         string               `bson:"bio" json:"bio"`
	Image       string               `bson:"image" json:"image"`
	Onboarded   bool                 `bson:"onboarded" json:"onboarded"`
	Threads     []primitive.ObjectID `bson:"threads" json:"threads"`
	Communities []primitive.ObjectID `bson:"communities" json:"communities"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// AuthorSummary is the projection of a User used when a thread's author is
// expanded: only _id, id, name, and image are loaded.
type AuthorSummary struct {
	ID       primitive.ObjectID `bson:"_id" json:"_id"`
	Identity string             `bson:"id" json:"id"`
	Name     string             `bson:"name" json:"name"`
	Image    string             `bson:"image" json:"image"`
}
