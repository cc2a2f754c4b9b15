package bookingRepo

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

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

func NewMongoBookingRepo(db *mongo.Database) BookingRepository {
	repo := &MongoBookingRepo{coll: db.Collection("bookings")}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Error("Failed to ensure booking indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoBookingRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "customerId", Value: 1}, {Key: "bookingDate", Value: -1}}},
		{Keys: bson.D{{Key: "providerId", Value: 1}, {Key: "status", Value: 1}, {Key: "bookingDate", Value: -1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := database.OpContext(ctx, opTimeout)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, booking)
	return database.TranslateError(err, "booking", booking.ID)
}

func (r *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := database.OpContext(ctx, opTimeout)
	defer cancel()

	var booking models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking); err != nil {
		return nil, database.TranslateError(err, "booking", id)
	}
	return &booking, nil
}

func (r *MongoBookingRepo) UpdateStatus(ctx context.Context, id string, from, to models.BookingStatus, reason string) (*models.Booking, error) {
	set := bson.M{"status": to, "updatedAt": time.Now().UTC()}
	if reason != "" {
		set["cancellationReason"] = reason
	}
	return r.compareAndSet(ctx, id, bson.M{"status": from}, bson.M{"$set": set})
}

func (r *MongoBookingRepo) UpdateDetails(ctx context.Context, id string, patch models.BookingPatch) (*models.Booking, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if patch.BookingDate != nil {
		set["bookingDate"] = *patch.BookingDate
	}
	if patch.BookingTime != nil {
		set["bookingTime"] = *patch.BookingTime
	}
	if patch.ServiceAddress != nil {
		set["serviceAddress"] = *patch.ServiceAddress
	}
	if patch.ContactPhone != nil {
		set["contactPhone"] = *patch.ContactPhone
	}
	if patch.AdditionalNotes != nil {
		set["additionalNotes"] = *patch.AdditionalNotes
	}
	return r.compareAndSet(ctx, id, bson.M{"status": models.BookingPending}, bson.M{"$set": set})
}

func (r *MongoBookingRepo) SetCancellationReason(ctx context.Context, id, reason string) (*models.Booking, error) {
	guard := bson.M{"status": bson.M{"$in": bson.A{models.BookingCancelled, models.BookingDeclined}}}
	update := bson.M{"$set": bson.M{"cancellationReason": reason, "updatedAt": time.Now().UTC()}}
	return r.compareAndSet(ctx, id, guard, update)
}

// compareAndSet applies update only when guard still holds. A miss is
// reported as NotFound when the booking is gone and InvalidState otherwise.
func (r *MongoBookingRepo) compareAndSet(ctx context.Context, id string, guard bson.M, update bson.M) (*models.Booking, error) {
	ctx, cancel := database.OpContext(ctx, opTimeout)
	defer cancel()

	filter := guardedFilter(id, guard)
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var booking models.Booking
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&booking)
	if err == nil {
		return &booking, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, database.TranslateError(err, "booking", id)
	}
	current, getErr := r.GetByID(ctx, id)
	if getErr != nil {
		return nil, getErr
	}
	return nil, utils.InvalidStatef("booking %s is %s", id, current.Status)
}

func guardedFilter(id string, guard bson.M) bson.M {
	filter := bson.M{"id": id}
	for k, v := range guard {
		filter[k] = v
	}
	return filter
}

func (r *MongoBookingRepo) ListByCustomer(ctx context.Context, customerID string, status models.BookingStatus) ([]models.Booking, error) {
	return r.list(ctx, bson.M{"customerId": customerID}, status)
}

func (r *MongoBookingRepo) ListByProvider(ctx context.Context, providerID string, status models.BookingStatus) ([]models.Booking, error) {
	return r.list(ctx, bson.M{"providerId": providerID}, status)
}

// listSort orders booking lists by the scheduled date, latest first.
var listSort = bson.D{{Key: "bookingDate", Value: -1}, {Key: "createdAt", Value: -1}, {Key: "id", Value: 1}}

func (r *MongoBookingRepo) list(ctx context.Context, filter bson.M, status models.BookingStatus) ([]models.Booking, error) {
	ctx, cancel := database.OpContext(ctx, 2*opTimeout)
	defer cancel()

	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().SetSort(listSort)
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}
