package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Tag names are case-insensitively unique; the collection carries a
// unique collated index on name.
type Tag struct {
	ID        bson.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name      string          `bson:"name" json:"name"`
	Questions []bson.ObjectID `bson:"questions" json:"questions"`
	CreatedAt time.Time       `bson:"created_at" json:"created_at"`
}
