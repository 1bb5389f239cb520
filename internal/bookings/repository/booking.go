package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "loftalgerie/internal/bookings/errors"
	"loftalgerie/pkg/config"
	mongotx "loftalgerie/pkg/db/mongo"
	"loftalgerie/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Bookings"
)

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindAll(ctx context.Context, scope model.Scope, limit int, offset int64) ([]*model.Booking, error)
	Count(ctx context.Context, scope model.Scope) (int64, error)
	FindByLoft(ctx context.Context, scope model.Scope, loftID string, from, to *time.Time, limit int, offset int64) ([]*model.Booking, error)
	CountByLoft(ctx context.Context, scope model.Scope, loftID string, from, to *time.Time) (int64, error)
	FindOverlapping(ctx context.Context, loftID string, checkIn, checkOut time.Time, excludeID string) ([]*model.Booking, error)
	Update(ctx context.Context, id string, booking *model.Booking) error
	// UpdateStatus writes the new status only while the stored status is
	// still from; otherwise it returns ErrStatusChanged.
	UpdateStatus(ctx context.Context, id, from, status, paymentStatus string) error
	SetReference(ctx context.Context, id string, reference string) error
	Delete(ctx context.Context, id string) error

	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Client.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo.Client),
	}
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	booking.CreatedAt = now
	booking.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	var booking model.Booking
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) FindAll(ctx context.Context, scope model.Scope, limit int, offset int64) ([]*model.Booking, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "check_in", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)
	return r.find(ctx, scopeFilter(scope), opts)
}

func (r *mongoBookingRepository) Count(ctx context.Context, scope model.Scope) (int64, error) {
	return r.count(ctx, scopeFilter(scope))
}

func (r *mongoBookingRepository) FindByLoft(
	ctx context.Context,
	scope model.Scope,
	loftID string,
	from, to *time.Time,
	limit int, offset int64,
) ([]*model.Booking, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "check_in", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)
	return r.find(ctx, buildSearchFilter(scope, loftID, from, to), opts)
}

func (r *mongoBookingRepository) CountByLoft(ctx context.Context, scope model.Scope, loftID string, from, to *time.Time) (int64, error) {
	return r.count(ctx, buildSearchFilter(scope, loftID, from, to))
}

// FindOverlapping returns the non-cancelled bookings of loftID whose
// [check_in, check_out) range intersects the given one.
func (r *mongoBookingRepository) FindOverlapping(ctx context.Context, loftID string, checkIn, checkOut time.Time, excludeID string) ([]*model.Booking, error) {
	filter := bson.M{
		"loft_id":   loftID,
		"status":    bson.M{"$ne": model.BookingStatusCancelled},
		"check_in":  bson.M{"$lt": checkOut},
		"check_out": bson.M{"$gt": checkIn},
	}
	if excludeID != "" {
		objectID, err := primitive.ObjectIDFromHex(excludeID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, excludeID)
		}
		filter["_id"] = bson.M{"$ne": objectID}
	}

	opts := options.Find().SetSort(bson.D{{Key: "check_in", Value: 1}})
	return r.find(ctx, filter, opts)
}

func (r *mongoBookingRepository) Update(ctx context.Context, id string, booking *model.Booking) error {
	booking.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	return r.updateOne(ctx, id, bson.M{
		"guest_name":       booking.GuestName,
		"guest_email":      booking.GuestEmail,
		"guest_phone":      booking.GuestPhone,
		"guest_country":    booking.GuestCountry,
		"guest_count":      booking.GuestCount,
		"check_in":         booking.CheckIn,
		"check_out":        booking.CheckOut,
		"nights":           booking.Nights,
		"total_price":      booking.TotalPrice,
		"special_requests": booking.SpecialRequests,
		"updated_at":       booking.UpdatedAt,
	})
}

func (r *mongoBookingRepository) UpdateStatus(ctx context.Context, id, from, status, paymentStatus string) error {
	set := bson.M{
		"status":     status,
		"updated_at": time.Now().UTC().Truncate(time.Millisecond),
	}
	if paymentStatus != "" {
		set["payment_status"] = paymentStatus
	}

	err := r.updateOneWhere(ctx, id, bson.M{"status": from}, set)
	if !errors.Is(err, bookingserrors.ErrNotFound) {
		return err
	}

	// Nothing matched: either the booking is gone or someone moved it first.
	if _, findErr := r.FindByID(ctx, id); findErr != nil {
		return findErr
	}
	return fmt.Errorf("%w: expected %s", bookingserrors.ErrStatusChanged, from)
}

func (r *mongoBookingRepository) SetReference(ctx context.Context, id string, reference string) error {
	return r.updateOne(ctx, id, bson.M{"reference": reference})
}

func (r *mongoBookingRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}

	if result.DeletedCount == 0 {
		return bookingserrors.ErrNotFound
	}

	return nil
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}

func (r *mongoBookingRepository) updateOne(ctx context.Context, id string, set bson.M) error {
	return r.updateOneWhere(ctx, id, nil, set)
}

func (r *mongoBookingRepository) updateOneWhere(ctx context.Context, id string, where, set bson.M) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID}
	for k, v := range where {
		filter[k] = v
	}

	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	if result.MatchedCount == 0 {
		return bookingserrors.ErrNotFound
	}
	return nil
}

func (r *mongoBookingRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingRepository) count(ctx context.Context, filter bson.M) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

func scopeFilter(scope model.Scope) bson.M {
	filter := bson.M{}
	if scope.All {
		return filter
	}
	if scope.OwnerID != "" {
		filter["owner_id"] = scope.OwnerID
	}
	if scope.ClientID != "" {
		filter["client_id"] = scope.ClientID
	}
	return filter
}

func buildSearchFilter(scope model.Scope, loftID string, from, to *time.Time) bson.M {
	filter := scopeFilter(scope)
	filter["loft_id"] = loftID

	if from != nil {
		filter["check_out"] = bson.M{"$gt": *from}
	}
	if to != nil {
		filter["check_in"] = bson.M{"$lt": *to}
	}

	return filter
}
