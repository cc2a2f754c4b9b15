package providerRepo

import (
	"context"
	"time"

	"servicehub/database"
	"servicehub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create inserts a new provider document.
func (r *MongoProviderRepo) Create(ctx context.Context, provider *models.Provider) error {
	ctx, cancel := database.OpContext(ctx, opTimeout)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, provider)
	return database.TranslateError(err, "provider for account", provider.UserID)
}

func (r *MongoProviderRepo) GetByID(ctx context.Context, id string) (*models.Provider, error) {
	return r.findOne(ctx, bson.M{"id": id}, id)
}

func (r *MongoProviderRepo) GetByUserID(ctx context.Context, userID string) (*models.Provider, error) {
	return r.findOne(ctx, bson.M{"userId": userID}, userID)
}

func (r *MongoProviderRepo) findOne(ctx context.Context, filter bson.M, key string) (*models.Provider, error) {
	ctx, cancel := database.OpContext(ctx, opTimeout)
	defer cancel()

	var provider models.Provider
	if err := r.coll.FindOne(ctx, filter).Decode(&provider); err != nil {
		return nil, database.TranslateError(err, "provider", key)
	}
	return &provider, nil
}

// profileSet builds the $set document for a profile update.
func profileSet(update models.ProviderProfileUpdate, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if update.BusinessName != nil {
		set["businessName"] = *update.BusinessName
	}
	if update.Tagline != nil {
		set["tagline"] = *update.Tagline
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Category != nil {
		set["category"] = *update.Category
	}
	if update.ExperienceYears != nil {
		set["experienceYears"] = *update.ExperienceYears
	}
	if update.HourlyRate != nil {
		set["hourlyRate"] = *update.HourlyRate
	}
	if update.Location != nil {
		set["location"] = *update.Location
	}
	if update.Address != nil {
		set["address"] = *update.Address
	}
	return set
}

func (r *MongoProviderRepo) UpdateProfile(ctx context.Context, id string, update models.ProviderProfileUpdate) (*models.Provider, error) {
	return r.findOneAndSet(ctx, id, profileSet(update, time.Now().UTC()))
}

// SetVerified updates the verification flag.
func (r *MongoProviderRepo) SetVerified(ctx context.Context, id string, verified bool) (*models.Provider, error) {
	return r.findOneAndSet(ctx, id, bson.M{"verified": verified, "updatedAt": time.Now().UTC()})
}

func (r *MongoProviderRepo) findOneAndSet(ctx context.Context, id string, set bson.M) (*models.Provider, error) {
	ctx, cancel := database.OpContext(ctx, opTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var provider models.Provider
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": set}, opts).Decode(&provider); err != nil {
		return nil, database.TranslateError(err, "provider", id)
	}
	return &provider, nil
}
