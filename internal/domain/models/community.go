// internal/domain/models/community.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Community groups users and threads. It is read-only for the user actions;
// only seeding and fixtures create communities.
type Community struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Identity  string               `bson:"id" json:"id"`
	Username  string               `bson:"username" json:"username"`
	Name      string               `bson:"name" json:"name"`
	Image     string               `bson:"image" json:"image"`
	Bio       string               `bson:"bio" json:"bio"`
	CreatedBy *primitive.ObjectID  `bson:"created_by,omitempty" json:"created_by,omitempty"`
	Members   []primitive.ObjectID `bson:"members" json:"members"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// CommunitySummary is the projection of a Community attached to a thread:
// only _id, id, name, and image are loaded.
type CommunitySummary struct {
	ID       primitive.ObjectID `bson:"_id" json:"_id"`
	Identity string             `bson:"id" json:"id"`
	Name     string             `bson:"name" json:"name"`
	Image    string             `bson:"image" json:"image"`
}
