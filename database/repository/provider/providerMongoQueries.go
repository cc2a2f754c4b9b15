package providerRepo

import (
	"context"
	"fmt"

	"servicehub/database"
	"servicehub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// geoSlackKm widens the server-side cap so that points sitting exactly on the
// radius are never lost to differences in spherical arithmetic.
const geoSlackKm = 0.05

// List retrieves providers matching the filter, sorted by rating descending.
func (r *MongoProviderRepo) List(ctx context.Context, filter models.ProviderFilter) ([]models.Provider, error) {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.MinRating > 0 {
		query["rating.average"] = bson.M{"$gte": filter.MinRating}
	}
	if filter.MaxPrice > 0 {
		query["hourlyRate"] = bson.M{"$lte": filter.MaxPrice}
	}
	if filter.Verified != nil {
		query["verified"] = *filter.Verified
	}
	opts := options.Find().SetSort(bson.D{
		{Key: "rating.average", Value: -1},
		{Key: "createdAt", Value: 1},
		{Key: "id", Value: 1},
	})
	return r.find(ctx, query, opts)
}

// FindVerified scans verified providers, narrowed by $geoWithin when a center
// is given. Sorted by createdAt then id so callers can sort stably on top.
func (r *MongoProviderRepo) FindVerified(ctx context.Context, criteria NearbyCriteria) ([]models.Provider, error) {
	query := bson.M{"verified": true}
	// Near pi radians the cap covers the whole sphere; skip the narrowing there.
	if criteria.Center.Valid() && criteria.RadiusKm+geoSlackKm < earthRadiusKm*3 {
		query["location"] = bson.M{"$geoWithin": bson.M{
			"$centerSphere": bson.A{
				bson.A{criteria.Center.Lon(), criteria.Center.Lat()},
				(criteria.RadiusKm + geoSlackKm) / earthRadiusKm,
			},
		}}
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "id", Value: 1}})
	return r.find(ctx, query, opts)
}

func (r *MongoProviderRepo) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]models.Provider, error) {
	ctx, cancel := database.OpContext(ctx, 10*opTimeout)
	defer cancel()

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query providers: %w", err)
	}
	defer cursor.Close(ctx)

	providers := []models.Provider{}
	if err := cursor.All(ctx, &providers); err != nil {
		return nil, fmt.Errorf("failed to decode providers: %w", err)
	}
	return providers, nil
}
