package providerRepo

import (
	"context"
	"os"
	"testing"
	"time"

	"servicehub/models"

	"github.com/google/uuid"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestCompletionRateStageShape(t *testing.T) {
	raw, err := bson.MarshalExtJSON(completionRateStage(), false, false)
	require.NoError(t, err)

	assert.JSONEq(t, `{"$set": {"stats.completionRate": {"$cond": {
		"if": {"$gt": ["$stats.totalBookings", 0]},
		"then": {"$toInt": {"$floor": {"$add": [
			{"$multiply": [{"$divide": ["$stats.completedBookings", "$stats.totalBookings"]}, 100]},
			0.5
		]}}},
		"else": 0
	}}}}`, string(raw))
	assert.NotContains(t, string(raw), "$round")
}

func TestProfileSetOnlyTouchesGivenFields(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	name := "Sparkle Cleaners"
	rate := 25.0

	set := profileSet(models.ProviderProfileUpdate{BusinessName: &name, HourlyRate: &rate}, now)
	assert.Equal(t, bson.M{"businessName": name, "hourlyRate": rate, "updatedAt": now}, set)

	set = profileSet(models.ProviderProfileUpdate{Location: models.NewGeoPoint(77.59, 12.97)}, now)
	assert.Equal(t, *models.NewGeoPoint(77.59, 12.97), set["location"])
	assert.NotContains(t, set, "stats")
	assert.NotContains(t, set, "verified")
}

// testDatabase connects to SERVICEHUB_TEST_MONGO_URL and returns a throwaway
// database that is dropped when the test ends.
func testDatabase(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("SERVICEHUB_TEST_MONGO_URL")
	if uri == "" {
		t.Skip("SERVICEHUB_TEST_MONGO_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	require.NoError(t, client.Ping(ctx, nil))

	db := client.Database("servicehub_test_" + uuid.NewString()[:8])
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return db
}

func TestMongoStatsCountersRoundHalfUp(t *testing.T) {
	db := testDatabase(t)
	ctx := context.Background()
	repo := NewMongoProviderRepo(db)
	require.NoError(t, repo.Create(ctx, &models.Provider{ID: "p-1", UserID: "u-1", Category: models.CategoryCleaner}))

	for i := 0; i < 8; i++ {
		require.NoError(t, repo.IncTotalBookings(ctx, "p-1"))
	}
	require.NoError(t, repo.ApplyCompletion(ctx, "p-1", 40))

	p, err := repo.GetByID(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, 8, p.Stats.TotalBookings)
	assert.Equal(t, 1, p.Stats.CompletedBookings)
	// 12.5 rounds up; $round would give 12.
	assert.Equal(t, 13, p.Stats.CompletionRate)
	assert.Equal(t, 40.0, p.Stats.TotalEarnings)

	require.NoError(t, repo.ApplyCompletion(ctx, "p-1", 60))
	p, err = repo.GetByID(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, 25, p.Stats.CompletionRate)
	assert.Equal(t, 100.0, p.Stats.TotalEarnings)

	err = repo.IncTotalBookings(ctx, "missing")
	assert.True(t, errors.Is(err, errors.NotFound))
}

func TestMongoUpdateProfileKeepsStats(t *testing.T) {
	db := testDatabase(t)
	ctx := context.Background()
	repo := NewMongoProviderRepo(db)
	require.NoError(t, repo.Create(ctx, &models.Provider{ID: "p-1", UserID: "u-1", BusinessName: "Old", Category: models.CategoryCleaner}))
	require.NoError(t, repo.IncTotalBookings(ctx, "p-1"))

	name := "New"
	p, err := repo.UpdateProfile(ctx, "p-1", models.ProviderProfileUpdate{BusinessName: &name})
	require.NoError(t, err)
	assert.Equal(t, "New", p.BusinessName)
	assert.Equal(t, 1, p.Stats.TotalBookings)

	_, err = repo.UpdateProfile(ctx, "missing", models.ProviderProfileUpdate{BusinessName: &name})
	assert.True(t, errors.Is(err, errors.NotFound))
}
