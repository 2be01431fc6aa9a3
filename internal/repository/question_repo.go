package repository

import (
	"context"
	"regexp"
	"time"

	"devflow-backend/internal/database"
	"devflow-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const hotQuestionLimit = 5

type QuestionRepo struct {
	collection *mongo.Collection
}

func NewQuestionRepo(db *database.Mongo) *QuestionRepo {
	return &QuestionRepo{
		collection: db.Collection("questions"),
	}
}

func (r *QuestionRepo) Insert(ctx context.Context, question *models.Question) error {
	question.CreatedAt = time.Now()
	if question.Tags == nil {
		question.Tags = []bson.ObjectID{}
	}
	if question.Upvotes == nil {
		question.Upvotes = []bson.ObjectID{}
	}
	if question.Downvotes == nil {
		question.Downvotes = []bson.ObjectID{}
	}
	if question.Answers == nil {
		question.Answers = []bson.ObjectID{}
	}
	result, err := r.collection.InsertOne(ctx, question)
	if err != nil {
		return err
	}
	question.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

func (r *QuestionRepo) FindByID(ctx context.Context, id bson.ObjectID) (*models.Question, error) {
	var question models.Question
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&question)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &question, nil
}

// List returns one page of matching questions plus the total match count.
func (r *QuestionRepo) List(ctx context.Context, query models.QuestionListQuery) ([]models.Question, int64, error) {
	filter := bson.M{}
	if query.Search != "" {
		filter["$or"] = searchClause(query.Search)
	}
	if len(query.TagIDs) > 0 {
		filter["tags"] = bson.M{"$in": query.TagIDs}
	} else if query.TagIDs != nil {
		// Empty (non-nil) tag set matches nothing.
		filter["tags"] = bson.M{"$in": bson.A{}}
	}
	if !query.ExcludeAuthor.IsZero() {
		filter["author"] = bson.M{"$ne": query.ExcludeAuthor}
	}

	findOpts := options.Find().SetSkip(query.Skip).SetLimit(query.Limit)
	switch query.Filter {
	case models.FilterNewest:
		findOpts = findOpts.SetSort(bson.D{{Key: "created_at", Value: -1}})
	case models.FilterFrequent:
		findOpts = findOpts.SetSort(bson.D{{Key: "views", Value: -1}})
	case models.FilterUnanswered:
		filter["answers"] = bson.M{"$size": 0}
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	cursor, err := r.collection.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, 0, err
	}
	var questions []models.Question
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, 0, err
	}
	return questions, total, nil
}

// searchClause matches the search text as a literal, case-insensitive
// substring of title or content. Quoting keeps user input like "c++" or
// "(go" from being interpreted as a regex pattern.
func searchClause(search string) bson.A {
	pattern := regexp.QuoteMeta(search)
	return bson.A{
		bson.M{"title": bson.M{"$regex": pattern, "$options": "i"}},
		bson.M{"content": bson.M{"$regex": pattern, "$options": "i"}},
	}
}

// Hot returns the top questions by view count, then upvote count.
func (r *QuestionRepo) Hot(ctx context.Context) ([]models.Question, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$addFields", Value: bson.M{"upvote_count": bson.M{"$size": "$upvotes"}}}},
		{{Key: "$sort", Value: bson.D{{Key: "views", Value: -1}, {Key: "upvote_count", Value: -1}}}},
		{{Key: "$limit", Value: hotQuestionLimit}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var questions []models.Question
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *QuestionRepo) SetTags(ctx context.Context, id bson.ObjectID, tagIDs []bson.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"tags": tagIDs},
	})
	return err
}

func (r *QuestionRepo) UpdateContent(ctx context.Context, id bson.ObjectID, title, content string) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"title": title, "content": content},
	})
	return err
}

// ApplyVote mutates the vote sets in one update. $addToSet/$pull keep the
// sets duplicate-free even if the caller's reported state was stale.
func (r *QuestionRepo) ApplyVote(ctx context.Context, id, userID bson.ObjectID, change models.VoteUpdate) error {
	pull := bson.M{}
	add := bson.M{}
	if change.PullUpvote {
		pull["upvotes"] = userID
	}
	if change.PullDownvote {
		pull["downvotes"] = userID
	}
	if change.AddUpvote {
		add["upvotes"] = userID
	}
	if change.AddDownvote {
		add["downvotes"] = userID
	}

	update := bson.M{}
	if len(pull) > 0 {
		update["$pull"] = pull
	}
	if len(add) > 0 {
		update["$addToSet"] = add
	}
	if len(update) == 0 {
		return nil
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

func (r *QuestionRepo) IncrementViews(ctx context.Context, id bson.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"views": 1},
	})
	return err
}

func (r *QuestionRepo) Delete(ctx context.Context, id bson.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// EnsureIndexes creates necessary indexes for the questions collection
func (r *QuestionRepo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "views", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "tags", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "author", Value: 1}},
		},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}
