package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type User struct {
	ID         bson.ObjectID `bson:"_id,omitempty" json:"id"`
	ExternalID string        `bson:"external_id" json:"external_id"`
	Name       string        `bson:"name" json:"name"`
	Picture    string        `bson:"picture,omitempty" json:"picture,omitempty"`
	Reputation int64         `bson:"reputation" json:"reputation"`
	CreatedAt  time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time     `bson:"updated_at" json:"updated_at"`
}
