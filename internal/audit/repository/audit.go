package repository

import (
	"context"
	"fmt"
	"time"

	auditerrors "loftalgerie/internal/audit/errors"
	"loftalgerie/pkg/config"
	mongotx "loftalgerie/pkg/db/mongo"
	"loftalgerie/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	AuditLogsCollection = "Audit_logs"
)

// AuditRepository is append-only. There is no update or delete.
type AuditRepository interface {
	// Insert returns ErrDuplicateEvent when the event ID was already stored.
	Insert(ctx context.Context, log *model.AuditLog) error
	FindByID(ctx context.Context, id string) (*model.AuditLog, error)
	Find(ctx context.Context, filter model.AuditFilter, limit int, offset int64) ([]*model.AuditLog, error)
	Count(ctx context.Context, filter model.AuditFilter) (int64, error)
	History(ctx context.Context, table, recordID string) ([]*model.AuditLog, error)
}

type mongoAuditRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoAuditRepository(cfg *config.Config) AuditRepository {
	db := cfg.Client.Mongo.Client.Database(cfg.MongoDatabaseName)
	return &mongoAuditRepository{
		cfg:        cfg,
		collection: db.Collection(AuditLogsCollection),
	}
}

func (r *mongoAuditRepository) Insert(ctx context.Context, log *model.AuditLog) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if log.Timestamp.IsZero() {
		log.Timestamp = time.Now().UTC()
	}
	log.Timestamp = log.Timestamp.UTC().Truncate(time.Millisecond)

	result, err := r.collection.InsertOne(ctx, log)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", auditerrors.ErrDuplicateEvent, log.EventID)
		}
		return fmt.Errorf("failed to insert audit log: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		log.ID = oid.Hex()
	}
	return nil
}

func (r *mongoAuditRepository) FindByID(ctx context.Context, id string) (*model.AuditLog, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", auditerrors.ErrInvalidID, id)
	}

	var log model.AuditLog
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&log); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, auditerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find audit log: %w", err)
	}
	return &log, nil
}

func (r *mongoAuditRepository) Find(ctx context.Context, filter model.AuditFilter, limit int, offset int64) ([]*model.AuditLog, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	return r.find(ctx, buildFilter(filter), opts)
}

func (r *mongoAuditRepository) Count(ctx context.Context, filter model.AuditFilter) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, buildFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count audit logs: %w", err)
	}
	return count, nil
}

func (r *mongoAuditRepository) History(ctx context.Context, table, recordID string) ([]*model.AuditLog, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}, {Key: "_id", Value: 1}})
	return r.find(ctx, bson.M{"table_name": table, "record_id": recordID}, opts)
}

func (r *mongoAuditRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.AuditLog, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find audit logs: %w", err)
	}
	defer cursor.Close(ctx)

	var logs []*model.AuditLog
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, fmt.Errorf("failed to decode audit logs: %w", err)
	}
	return logs, nil
}

func buildFilter(f model.AuditFilter) bson.M {
	filter := bson.M{}
	if f.TableName != "" {
		filter["table_name"] = f.TableName
	}
	if f.RecordID != "" {
		filter["record_id"] = f.RecordID
	}
	if f.Action != "" {
		filter["action"] = f.Action
	}
	if f.UserID != "" {
		filter["user_id"] = f.UserID
	}

	window := bson.M{}
	if f.From != nil {
		window["$gte"] = f.From.UTC()
	}
	if f.To != nil {
		window["$lte"] = f.To.UTC()
	}
	if len(window) > 0 {
		filter["timestamp"] = window
	}
	return filter
}
