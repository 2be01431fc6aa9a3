package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Question struct {
	ID        bson.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title     string          `bson:"title" json:"title"`
	Content   string          `bson:"content" json:"content"`
	Author    bson.ObjectID   `bson:"author" json:"author"`
	Tags      []bson.ObjectID `bson:"tags" json:"tags"`
	Upvotes   []bson.ObjectID `bson:"upvotes" json:"upvotes"`
	Downvotes []bson.ObjectID `bson:"downvotes" json:"downvotes"`
	Answers   []bson.ObjectID `bson:"answers" json:"answers"`
	Views     int64           `bson:"views" json:"views"`
	CreatedAt time.Time       `bson:"created_at" json:"created_at"`
}

// TagRef is the minimal tag projection embedded in question responses.
type TagRef struct {
	ID   bson.ObjectID `json:"id"`
	Name string        `json:"name"`
}

// AuthorRef is the minimal author projection embedded in question responses.
type AuthorRef struct {
	ID      bson.ObjectID `json:"id"`
	Name    string        `json:"name"`
	Picture string        `json:"picture,omitempty"`
}

// QuestionDetail is a question with its tag and author references resolved.
type QuestionDetail struct {
	Question
	TagRefs   []TagRef  `json:"tag_refs"`
	AuthorRef AuthorRef `json:"author_ref"`
}
