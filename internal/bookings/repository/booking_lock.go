package repository

import (
	"context"
	"fmt"
	"time"

	bookingserrors "loftalgerie/internal/bookings/errors"
	"loftalgerie/pkg/config"
	mongotx "loftalgerie/pkg/db/mongo"
	"loftalgerie/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const LocksCollection = "Booking_locks"

// LockKey names the advisory lock guarding one loft check-in slot.
func LockKey(loftID string, checkIn time.Time) string {
	return fmt.Sprintf("booking_lock_%s_%d", loftID, checkIn.Unix())
}

// BookingLockRepository holds short-lived slot locks. The TTL index on
// expires_at reaps abandoned locks; Acquire also takes over a lock whose
// expiry has passed but which the TTL monitor has not removed yet.
type BookingLockRepository interface {
	// Acquire returns ErrSlotLocked when a live lock with the same ID exists.
	Acquire(ctx context.Context, lock *model.BookingLock) error
	Release(ctx context.Context, lockID string) error
}

type mongoBookingLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewBookingLockRepository(cfg *config.Config) BookingLockRepository {
	return &mongoBookingLockRepository{
		cfg:        cfg,
		collection: cfg.Client.Mongo.Client.Database(cfg.MongoDatabaseName).Collection(LocksCollection),
	}
}

func (r *mongoBookingLockRepository) Acquire(ctx context.Context, lock *model.BookingLock) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if lock.CreatedAt.IsZero() {
		lock.CreatedAt = time.Now().UTC()
	}

	stale := bson.M{"_id": lock.ID, "expires_at": bson.M{"$lte": lock.CreatedAt}}
	if _, err := r.collection.DeleteOne(ctx, stale); err != nil {
		return fmt.Errorf("reap expired lock %s: %w", lock.ID, err)
	}

	if _, err := r.collection.InsertOne(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", bookingserrors.ErrSlotLocked, lock.ID)
		}
		return err
	}
	return nil
}

func (r *mongoBookingLockRepository) Release(ctx context.Context, lockID string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID})
	return err
}
