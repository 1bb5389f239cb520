package repository

import (
	"context"
	"fmt"
	"time"

	"loftalgerie/pkg/config"
	mongotx "loftalgerie/pkg/db/mongo"
	"loftalgerie/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	BookingsCollection = "Bookings"
)

// BookingLookup reads the bookings collection owned by the bookings service.
// The lofts service only needs it to refuse deleting a loft that is still
// booked.
type BookingLookup interface {
	CountActive(ctx context.Context, loftID string, now time.Time) (int64, error)
}

type mongoBookingLookup struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoBookingLookup(cfg *config.Config) BookingLookup {
	db := cfg.Client.Mongo.Client.Database(cfg.MongoDatabaseName)
	return &mongoBookingLookup{
		cfg:        cfg,
		collection: db.Collection(BookingsCollection),
	}
}

func (r *mongoBookingLookup) CountActive(ctx context.Context, loftID string, now time.Time) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"loft_id":   loftID,
		"status":    bson.M{"$in": []string{model.BookingStatusPending, model.BookingStatusConfirmed}},
		"check_out": bson.M{"$gt": now},
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count active bookings: %w", err)
	}
	return count, nil
}
