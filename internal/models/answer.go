package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Answer struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Question  bson.ObjectID `bson:"question" json:"question"`
	Author    bson.ObjectID `bson:"author" json:"author"`
	Content   string        `bson:"content" json:"content"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
}
