package repository

import (
	"context"
	"time"

	"devflow-backend/internal/database"
	"devflow-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type InteractionRepo struct {
	collection *mongo.Collection
}

func NewInteractionRepo(db *database.Mongo) *InteractionRepo {
	return &InteractionRepo{
		collection: db.Collection("interactions"),
	}
}

func (r *InteractionRepo) Insert(ctx context.Context, interaction *models.Interaction) error {
	interaction.CreatedAt = time.Now()
	if interaction.Tags == nil {
		interaction.Tags = []bson.ObjectID{}
	}
	result, err := r.collection.InsertOne(ctx, interaction)
	if err != nil {
		return err
	}
	interaction.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

func (r *InteractionRepo) ListByUser(ctx context.Context, userID bson.ObjectID) ([]models.Interaction, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"user": userID})
	if err != nil {
		return nil, err
	}
	var interactions []models.Interaction
	if err := cursor.All(ctx, &interactions); err != nil {
		return nil, err
	}
	return interactions, nil
}

func (r *InteractionRepo) DeleteByQuestion(ctx context.Context, questionID bson.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"question": questionID})
	return err
}

// EnsureIndexes creates necessary indexes for the interactions collection
func (r *InteractionRepo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "question", Value: 1}},
		},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}
