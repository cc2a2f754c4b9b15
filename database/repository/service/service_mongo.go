package serviceRepo

import (
	"context"
	"fmt"
	"time"

	"servicehub/database"
	"servicehub/models"
	"servicehub/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const opTimeout = 5 * time.Second

// MongoServiceRepo implements ServiceRepository using MongoDB.
type MongoServiceRepo struct {
	coll *mongo.Collection
}

func NewMongoServiceRepo(db *mongo.Database) ServiceRepository {
	repo := &MongoServiceRepo{coll: db.Collection("services")}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := repo.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "providerId", Value: 1}, {Key: "isActive", Value: 1}}},
	})
	if err != nil {
		utils.GetLogger().Error("Failed to ensure service indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoServiceRepo) Create(ctx context.Context, service *models.Service) error {
	ctx, cancel := database.OpContext(ctx, opTimeout)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, service)
	return database.TranslateError(err, "service", service.ID)
}

func (r *MongoServiceRepo) GetByID(ctx context.Context, id string) (*models.Service, error) {
	ctx, cancel := database.OpContext(ctx, opTimeout)
	defer cancel()

	var service models.Service
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&service); err != nil {
		return nil, database.TranslateError(err, "service", id)
	}
	return &service, nil
}

func (r *MongoServiceRepo) ListActiveByProvider(ctx context.Context, providerID string) ([]models.Service, error) {
	ctx, cancel := database.OpContext(ctx, 2*opTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"providerId": providerID, "isActive": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query services for provider %s: %w", providerID, err)
	}
	defer cursor.Close(ctx)

	services := []models.Service{}
	if err := cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("failed to decode services: %w", err)
	}
	return services, nil
}
