package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	notificationserrors "loftalgerie/internal/notifications/errors"
	"loftalgerie/pkg/config"
	mongotx "loftalgerie/pkg/db/mongo"
	"loftalgerie/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	NotificationsCollection = "Notifications"
)

// NotificationRepository reads and writes notifications. Every per-user call
// filters on user_id so one user can never reach another user's rows.
type NotificationRepository interface {
	// CreateMany returns the notifications actually stored. Rows whose
	// (event_id, user_id) already exists are skipped, not reported as errors.
	CreateMany(ctx context.Context, notifications []*model.Notification) ([]*model.Notification, error)
	FindByUser(ctx context.Context, userID string, unreadOnly bool, limit int, offset int64) ([]*model.Notification, error)
	CountByUser(ctx context.Context, userID string, unreadOnly bool) (int64, error)
	// MarkRead reports whether the notification was unread before the call.
	MarkRead(ctx context.Context, id, userID string, at time.Time) (bool, error)
	MarkAllRead(ctx context.Context, userID string, at time.Time) (int64, error)
	Delete(ctx context.Context, id, userID string) error
}

type mongoNotificationRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoNotificationRepository(cfg *config.Config) NotificationRepository {
	db := cfg.Client.Mongo.Client.Database(cfg.MongoDatabaseName)
	return &mongoNotificationRepository{
		cfg:        cfg,
		collection: db.Collection(NotificationsCollection),
	}
}

func (r *mongoNotificationRepository) CreateMany(ctx context.Context, notifications []*model.Notification) ([]*model.Notification, error) {
	if len(notifications) == 0 {
		return nil, nil
	}

	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	docs := make([]any, 0, len(notifications))
	for _, n := range notifications {
		if n.CreatedAt.IsZero() {
			n.CreatedAt = now
		}
		docs = append(docs, n)
	}

	result, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	duplicates, err := duplicateRows(err)
	if err != nil {
		return nil, fmt.Errorf("failed to create notifications: %w", err)
	}

	stored := make([]*model.Notification, 0, len(notifications))
	for i, n := range notifications {
		if duplicates[i] {
			continue
		}
		if result != nil && i < len(result.InsertedIDs) {
			if oid, ok := result.InsertedIDs[i].(primitive.ObjectID); ok {
				n.ID = oid.Hex()
			}
		}
		stored = append(stored, n)
	}
	return stored, nil
}

// duplicateRows picks the rows an unordered insert rejected for a duplicate
// key. Any other failure is returned as is.
func duplicateRows(err error) (map[int]bool, error) {
	if err == nil {
		return nil, nil
	}
	var bulkErr mongo.BulkWriteException
	if !errors.As(err, &bulkErr) || bulkErr.WriteConcernError != nil {
		return nil, err
	}

	rows := make(map[int]bool, len(bulkErr.WriteErrors))
	for _, we := range bulkErr.WriteErrors {
		if !mongo.IsDuplicateKeyError(we.WriteError) {
			return nil, err
		}
		rows[we.Index] = true
	}
	return rows, nil
}

func (r *mongoNotificationRepository) FindByUser(ctx context.Context, userID string, unreadOnly bool, limit int, offset int64) ([]*model.Notification, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, userFilter(userID, unreadOnly), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find notifications: %w", err)
	}
	defer cursor.Close(ctx)

	var notifications []*model.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}
	return notifications, nil
}

func (r *mongoNotificationRepository) CountByUser(ctx context.Context, userID string, unreadOnly bool) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, userFilter(userID, unreadOnly))
	if err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return count, nil
}

func (r *mongoNotificationRepository) MarkRead(ctx context.Context, id, userID string, at time.Time) (bool, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, fmt.Errorf("%w: %s", notificationserrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID, "user_id": userID}
	update := bson.M{"$set": bson.M{"is_read": true, "read_at": at}}

	// Only unread rows are stamped, so a second read keeps the first read_at.
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID, "user_id": userID, "is_read": false}, update)
	if err != nil {
		return false, fmt.Errorf("failed to mark notification read: %w", err)
	}
	if result.ModifiedCount == 1 {
		return true, nil
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("failed to check notification: %w", err)
	}
	if count == 0 {
		return false, notificationserrors.ErrNotFound
	}
	return false, nil
}

func (r *mongoNotificationRepository) MarkAllRead(ctx context.Context, userID string, at time.Time) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.UpdateMany(ctx,
		userFilter(userID, true),
		bson.M{"$set": bson.M{"is_read": true, "read_at": at}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return result.ModifiedCount, nil
}

func (r *mongoNotificationRepository) Delete(ctx context.Context, id, userID string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", notificationserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID, "user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	if result.DeletedCount == 0 {
		return notificationserrors.ErrNotFound
	}
	return nil
}

func userFilter(userID string, unreadOnly bool) bson.M {
	filter := bson.M{"user_id": userID}
	if unreadOnly {
		filter["is_read"] = false
	}
	return filter
}
