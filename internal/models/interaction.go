package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const ActionAskQuestion = "ask_question"

// Interaction records a user action against a question, with a snapshot of
// the question's tags at the time. Snapshots feed the recommendation query.
type Interaction struct {
	ID        bson.ObjectID   `bson:"_id,omitempty" json:"id"`
	User      bson.ObjectID   `bson:"user" json:"user"`
	Action    string          `bson:"action" json:"action"`
	Question  bson.ObjectID   `bson:"question" json:"question"`
	Tags      []bson.ObjectID `bson:"tags" json:"tags"`
	CreatedAt time.Time       `bson:"created_at" json:"created_at"`
}
