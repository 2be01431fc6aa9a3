package repository

import (
	"context"

	"devflow-backend/internal/database"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type AnswerRepo struct {
	collection *mongo.Collection
}

func NewAnswerRepo(db *database.Mongo) *AnswerRepo {
	return &AnswerRepo{
		collection: db.Collection("answers"),
	}
}

// DeleteByQuestion removes every answer referencing the question. Only the
// cascade path touches answers in this service.
func (r *AnswerRepo) DeleteByQuestion(ctx context.Context, questionID bson.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"question": questionID})
	return err
}

// EnsureIndexes creates necessary indexes for the answers collection
func (r *AnswerRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "question", Value: 1}},
	})
	return err
}
