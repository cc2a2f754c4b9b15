package providerRepo

import (
	"context"
	"time"

	"servicehub/database"
	"servicehub/models"

	"github.com/juju/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// IncTotalBookings increments stats.totalBookings server side and keeps the
// completion rate in step with the new denominator.
func (r *MongoProviderRepo) IncTotalBookings(ctx context.Context, id string) error {
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "stats.totalBookings", Value: bson.D{{Key: "$add", Value: bson.A{"$stats.totalBookings", 1}}}},
			{Key: "updatedAt", Value: time.Now().UTC()},
		}}},
		completionRateStage(),
	}
	return r.updateByID(ctx, id, pipeline)
}

// ApplyCompletion increments completedBookings and totalEarnings, then
// derives completionRate from the stored counters in the same update.
func (r *MongoProviderRepo) ApplyCompletion(ctx context.Context, id string, amount float64) error {
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "stats.completedBookings", Value: bson.D{{Key: "$add", Value: bson.A{"$stats.completedBookings", 1}}}},
			{Key: "stats.totalEarnings", Value: bson.D{{Key: "$add", Value: bson.A{"$stats.totalEarnings", amount}}}},
			{Key: "updatedAt", Value: time.Now().UTC()},
		}}},
		completionRateStage(),
	}
	return r.updateByID(ctx, id, pipeline)
}

// SetRating writes the derived rating.
func (r *MongoProviderRepo) SetRating(ctx context.Context, id string, rating models.Rating) error {
	update := bson.M{"$set": bson.M{
		"rating.average": rating.Average,
		"rating.count":   rating.Count,
		"updatedAt":      time.Now().UTC(),
	}}
	return r.updateByID(ctx, id, update)
}

// completionRateStage computes floor(completed/total*100 + 0.5), or 0 when
// there are no bookings. $round is avoided because it rounds half to even.
func completionRateStage() bson.D {
	return bson.D{{Key: "$set", Value: bson.D{
		{Key: "stats.completionRate", Value: bson.D{{Key: "$cond", Value: bson.D{
			{Key: "if", Value: bson.D{{Key: "$gt", Value: bson.A{"$stats.totalBookings", 0}}}},
			{Key: "then", Value: bson.D{{Key: "$toInt", Value: bson.D{{Key: "$floor", Value: bson.D{{Key: "$add", Value: bson.A{
				bson.D{{Key: "$multiply", Value: bson.A{
					bson.D{{Key: "$divide", Value: bson.A{"$stats.completedBookings", "$stats.totalBookings"}}},
					100,
				}}},
				0.5,
			}}}}}}}},
			{Key: "else", Value: 0},
		}}}},
	}}}
}

func (r *MongoProviderRepo) updateByID(ctx context.Context, id string, update interface{}) error {
	ctx, cancel := database.OpContext(ctx, opTimeout)
	defer cancel()

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return database.TranslateError(err, "provider", id)
	}
	if result.MatchedCount == 0 {
		return errors.NotFoundf("provider %q", id)
	}
	return nil
}
