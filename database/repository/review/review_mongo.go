package reviewRepo

import (
	"context"
	"fmt"
	"time"

	"servicehub/database"
	"servicehub/models"
	"servicehub/utils"

	"github.com/juju/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const opTimeout = 5 * time.Second

// MongoReviewRepo implements ReviewRepository using MongoDB.
type MongoReviewRepo struct {
	coll *mongo.Collection
}

func NewMongoReviewRepo(db *mongo.Database) ReviewRepository {
	repo := &MongoReviewRepo{coll: db.Collection("reviews")}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Error("Failed to ensure review indexes", zap.Error(err))
	}
	return repo
}

// ensureIndexes includes the unique bookingId index that backs the
// one-review-per-booking rule when two submissions race.
func (r *MongoReviewRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "bookingId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "providerId", Value: 1}, {Key: "createdAt", Value: -1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoReviewRepo) Create(ctx context.Context, review *models.Review) error {
	ctx, cancel := database.OpContext(ctx, opTimeout)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, review)
	return database.TranslateError(err, "review for booking", review.BookingID)
}

func (r *MongoReviewRepo) GetByID(ctx context.Context, id string) (*models.Review, error) {
	ctx, cancel := database.OpContext(ctx, opTimeout)
	defer cancel()

	var review models.Review
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&review); err != nil {
		return nil, database.TranslateError(err, "review", id)
	}
	return &review, nil
}

func (r *MongoReviewRepo) ExistsForBooking(ctx context.Context, bookingID string) (bool, error) {
	ctx, cancel := database.OpContext(ctx, opTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"bookingId": bookingID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to count reviews for booking %s: %w", bookingID, err)
	}
	return n > 0, nil
}

func (r *MongoReviewRepo) RatingsForProvider(ctx context.Context, providerID string) ([]int, error) {
	ctx, cancel := database.OpContext(ctx, 2*opTimeout)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"rating": 1, "_id": 0})
	cursor, err := r.coll.Find(ctx, bson.M{"providerId": providerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings for provider %s: %w", providerID, err)
	}
	defer cursor.Close(ctx)

	ratings := []int{}
	for cursor.Next(ctx) {
		var doc struct {
			Rating int `bson:"rating"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode rating: %w", err)
		}
		ratings = append(ratings, doc.Rating)
	}
	return ratings, cursor.Err()
}

func (r *MongoReviewRepo) ListByProvider(ctx context.Context, providerID string) ([]models.Review, error) {
	ctx, cancel := database.OpContext(ctx, 2*opTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "id", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"providerId": providerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews for provider %s: %w", providerID, err)
	}
	defer cursor.Close(ctx)

	reviews := []models.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}
	return reviews, nil
}

func (r *MongoReviewRepo) SetProviderResponse(ctx context.Context, id string, response models.ProviderResponse) (*models.Review, error) {
	ctx, cancel := database.OpContext(ctx, opTimeout)
	defer cancel()

	filter := bson.M{"id": id, "providerResponse": bson.M{"$exists": false}}
	update := bson.M{"$set": bson.M{"providerResponse": response}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var review models.Review
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&review)
	if err == nil {
		return &review, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, database.TranslateError(err, "review", id)
	}
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, errors.AlreadyExistsf("response to review %q", id)
}
