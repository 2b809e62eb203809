// internal/domain/models/thread.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Thread is a post. Top-level threads have no ParentID; replies point at
// the thread they answer and are listed in that thread's Children.
//
// NOTE:
//   - Author references User._id.
//   - Children are references used for traversal only. A child's author
//     may differ from the parent's.
type Thread struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Text      string               `bson:"text" json:"text"`
	Author    primitive.ObjectID   `bson:"author" json:"author"`
	Community *primitive.ObjectID  `bson:"community,omitempty" json:"community,omitempty"`
	ParentID  *primitive.ObjectID  `bson:"parent_id,omitempty" json:"parent_id,omitempty"`
	Children  []primitive.ObjectID `bson:"children" json:"children"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
