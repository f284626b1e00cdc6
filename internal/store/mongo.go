package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/breatheapp/breathe-backend/internal/models"
)

const profilesCollection = "profiles"

// MongoStore persists profiles in a MongoDB collection keyed by profile id.
type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

func (s *MongoStore) collection() *mongo.Collection {
	return s.db.Collection(profilesCollection)
}

func (s *MongoStore) Load(ctx context.Context, id string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := s.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (s *MongoStore) Create(ctx context.Context, p *models.UserProfile) error {
	// Upsert so a resubmitted onboarding form never fails on a duplicate key.
	opts := options.Replace().SetUpsert(true)
	_, err := s.collection().ReplaceOne(ctx, bson.M{"_id": p.ID}, p, opts)
	return err
}

func (s *MongoStore) UpdateDailyMessage(ctx context.Context, id string, msg models.DailyMessage) error {
	update := bson.M{"$set": bson.M{
		"daily_message": msg,
		"updated_at":    time.Now(),
	}}
	res, err := s.collection().UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
