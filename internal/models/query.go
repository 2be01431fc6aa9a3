package models

import "go.mongodb.org/mongo-driver/v2/bson"

// Question list filters. Anything else falls through to natural order.
const (
	FilterNewest     = "newest"
	FilterFrequent   = "frequent"
	FilterUnanswered = "unanswered"
)

// QuestionListQuery selects and pages questions. Zero values mean
// "no constraint" for Search, TagIDs and ExcludeAuthor.
type QuestionListQuery struct {
	Search        string
	Filter        string
	TagIDs        []bson.ObjectID
	ExcludeAuthor bson.ObjectID
	Skip          int64
	Limit         int64
}

// VoteUpdate describes set membership changes for one vote transition.
// A user id is never added to and pulled from the same set.
type VoteUpdate struct {
	AddUpvote    bool
	PullUpvote   bool
	AddDownvote  bool
	PullDownvote bool
}
