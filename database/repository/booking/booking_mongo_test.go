package bookingRepo

import (
	"context"
	"os"
	"testing"
	"time"

	"servicehub/models"
	"servicehub/utils"

	"github.com/google/uuid"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestGuardedFilterKeepsGuardIntact(t *testing.T) {
	guard := bson.M{"status": models.BookingPending}
	filter := guardedFilter("b-1", guard)

	assert.Equal(t, bson.M{"id": "b-1", "status": models.BookingPending}, filter)
	assert.Equal(t, bson.M{"status": models.BookingPending}, guard)
}

func TestListSortIsBookingDateFirst(t *testing.T) {
	require.Len(t, listSort, 3)
	assert.Equal(t, bson.E{Key: "bookingDate", Value: -1}, listSort[0])
	assert.Equal(t, bson.E{Key: "createdAt", Value: -1}, listSort[1])
	assert.Equal(t, bson.E{Key: "id", Value: 1}, listSort[2])
}

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

func TestMongoCompareAndSet(t *testing.T) {
	db := testDatabase(t)
	ctx := context.Background()
	repo := NewMongoBookingRepo(db)
	require.NoError(t, repo.Create(ctx, &models.Booking{ID: "b-1", CustomerID: "c-1", ProviderID: "p-1", Status: models.BookingPending}))

	b, err := repo.UpdateStatus(ctx, "b-1", models.BookingPending, models.BookingConfirmed, "")
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, b.Status)

	_, err = repo.UpdateStatus(ctx, "b-1", models.BookingPending, models.BookingCancelled, "late")
	assert.True(t, errors.Is(err, utils.InvalidState))

	_, err = repo.SetCancellationReason(ctx, "b-1", "changed my mind")
	assert.True(t, errors.Is(err, utils.InvalidState))

	_, err = repo.UpdateStatus(ctx, "missing", models.BookingPending, models.BookingConfirmed, "")
	assert.True(t, errors.Is(err, errors.NotFound))

	b, err = repo.UpdateStatus(ctx, "b-1", models.BookingConfirmed, models.BookingCancelled, "provider unavailable")
	require.NoError(t, err)
	assert.Equal(t, "provider unavailable", b.CancellationReason)
}

func TestMongoListsLatestBookingDateFirst(t *testing.T) {
	db := testDatabase(t)
	ctx := context.Background()
	repo := NewMongoBookingRepo(db)
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, tc := range []struct {
		id      string
		daysOut int
	}{
		{"b-june", 90},
		{"b-march", 2},
		{"b-april", 30},
	} {
		require.NoError(t, repo.Create(ctx, &models.Booking{
			ID: tc.id, CustomerID: "c-1", ProviderID: "p-1", Status: models.BookingPending,
			BookingDate: base.AddDate(0, 0, tc.daysOut),
			CreatedAt:   base.Add(time.Duration(i) * time.Hour),
		}))
	}

	all, err := repo.ListByCustomer(ctx, "c-1", "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"b-june", "b-april", "b-march"}, []string{all[0].ID, all[1].ID, all[2].ID})
}
