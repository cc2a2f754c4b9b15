package providerRepo

import (
	"time"

	"servicehub/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	collectionName = "providers"
	opTimeout      = 5 * time.Second
	earthRadiusKm  = 6371.0
)

// MongoProviderRepo implements ProviderRepository using MongoDB.
type MongoProviderRepo struct {
	coll *mongo.Collection
}

// NewMongoProviderRepo creates a new instance of ProviderRepository using MongoDB.
func NewMongoProviderRepo(db *mongo.Database) ProviderRepository {
	repo := &MongoProviderRepo{coll: db.Collection(collectionName)}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Error("Failed to ensure provider indexes", zap.Error(err))
	}
	return repo
}
