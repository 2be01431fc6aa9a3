package repository

import (
	"context"
	"time"

	"devflow-backend/internal/database"
	"devflow-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// caseInsensitive matches tag names regardless of casing, in both the
// unique index and the upsert filter.
var caseInsensitive = options.Collation{Locale: "en", Strength: 2}

type TagRepo struct {
	collection *mongo.Collection
}

func NewTagRepo(db *database.Mongo) *TagRepo {
	return &TagRepo{
		collection: db.Collection("tags"),
	}
}

// UpsertByName finds the tag whose name matches case-insensitively, creating
// it if absent, and adds the question reference to its question list. When
// two concurrent upserts race on the same new name, the unique collated
// index rejects the loser with a duplicate-key error; one retry then finds
// the winner's document and converges.
func (r *TagRepo) UpsertByName(ctx context.Context, name string, questionID bson.ObjectID) (*models.Tag, error) {
	return upsertWithRetry(func() (*models.Tag, error) {
		return r.upsertOnce(ctx, name, questionID)
	})
}

func (r *TagRepo) upsertOnce(ctx context.Context, name string, questionID bson.ObjectID) (*models.Tag, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After).
		SetCollation(&caseInsensitive)

	update := bson.M{
		"$setOnInsert": bson.M{"name": name, "created_at": time.Now()},
		"$addToSet":    bson.M{"questions": questionID},
	}

	var tag models.Tag
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"name": name}, update, opts).Decode(&tag)
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func upsertWithRetry(attempt func() (*models.Tag, error)) (*models.Tag, error) {
	tag, err := attempt()
	if err != nil && mongo.IsDuplicateKeyError(err) {
		return attempt()
	}
	return tag, err
}

func (r *TagRepo) FindManyByIDs(ctx context.Context, ids []bson.ObjectID) ([]models.Tag, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var tags []models.Tag
	if err := cursor.All(ctx, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// PullQuestion removes the question reference from every tag listing it.
func (r *TagRepo) PullQuestion(ctx context.Context, questionID bson.ObjectID) error {
	_, err := r.collection.UpdateMany(ctx, bson.M{"questions": questionID}, bson.M{
		"$pull": bson.M{"questions": questionID},
	})
	return err
}

// EnsureIndexes creates necessary indexes for the tags collection
func (r *TagRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true).SetCollation(&caseInsensitive),
	})
	return err
}
