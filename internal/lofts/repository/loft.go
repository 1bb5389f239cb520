package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	loftserrors "loftalgerie/internal/lofts/errors"
	"loftalgerie/pkg/config"
	mongotx "loftalgerie/pkg/db/mongo"
	"loftalgerie/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	LoftsCollection = "Lofts"
)

type LoftRepository interface {
	Create(ctx context.Context, loft *model.Loft) error
	FindByID(ctx context.Context, id string) (*model.Loft, error)
	FindAll(ctx context.Context, scope model.Scope, limit int, offset int64) ([]*model.Loft, error)
	Count(ctx context.Context, scope model.Scope) (int64, error)
	Search(ctx context.Context, scope model.Scope, search model.LoftSearch, limit int, offset int64) ([]*model.Loft, error)
	CountSearch(ctx context.Context, scope model.Scope, search model.LoftSearch) (int64, error)
	FindIDsByOwner(ctx context.Context, ownerID string) ([]string, error)
	Update(ctx context.Context, id string, loft *model.Loft) error
	Delete(ctx context.Context, id string) error
	ReassignOwner(ctx context.Context, loftIDs []string, fromOwnerID, toOwnerID string) (int64, error)

	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoLoftRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoLoftRepository(cfg *config.Config) LoftRepository {
	db := cfg.Client.Mongo.Client.Database(cfg.MongoDatabaseName)
	return &mongoLoftRepository{
		cfg:        cfg,
		collection: db.Collection(LoftsCollection),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo.Client),
	}
}

func (r *mongoLoftRepository) Create(ctx context.Context, loft *model.Loft) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	loft.CreatedAt = now
	loft.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, loft)
	if err != nil {
		return fmt.Errorf("failed to create loft: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		loft.ID = oid.Hex()
	}
	return nil
}

func (r *mongoLoftRepository) FindByID(ctx context.Context, id string) (*model.Loft, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", loftserrors.ErrInvalidID, id)
	}

	var loft model.Loft
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&loft); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, loftserrors.ErrLoftNotFound
		}
		return nil, fmt.Errorf("failed to find loft: %w", err)
	}

	return &loft, nil
}

func (r *mongoLoftRepository) FindAll(ctx context.Context, scope model.Scope, limit int, offset int64) ([]*model.Loft, error) {
	return r.find(ctx, scopeFilter(scope), limit, offset)
}

func (r *mongoLoftRepository) Count(ctx context.Context, scope model.Scope) (int64, error) {
	return r.count(ctx, scopeFilter(scope))
}

func (r *mongoLoftRepository) Search(ctx context.Context, scope model.Scope, search model.LoftSearch, limit int, offset int64) ([]*model.Loft, error) {
	return r.find(ctx, buildSearchFilter(scope, search), limit, offset)
}

func (r *mongoLoftRepository) CountSearch(ctx context.Context, scope model.Scope, search model.LoftSearch) (int64, error) {
	return r.count(ctx, buildSearchFilter(scope, search))
}

func (r *mongoLoftRepository) FindIDsByOwner(ctx context.Context, ownerID string) ([]string, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find owner lofts: %w", err)
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode loft id: %w", err)
		}
		ids = append(ids, doc.ID.Hex())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate owner lofts: %w", err)
	}
	return ids, nil
}

func (r *mongoLoftRepository) Update(ctx context.Context, id string, loft *model.Loft) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", loftserrors.ErrInvalidID, id)
	}

	loft.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	update := bson.M{
		"$set": bson.M{
			"name":               loft.Name,
			"address":            loft.Address,
			"city":               loft.City,
			"description":        loft.Description,
			"owner_id":           loft.OwnerID,
			"price_per_night":    loft.PricePerNight,
			"cleaning_fee":       loft.CleaningFee,
			"max_guests":         loft.MaxGuests,
			"bedrooms":           loft.Bedrooms,
			"amenities":          loft.Amenities,
			"status":             loft.Status,
			"company_percentage": loft.CompanyPercentage,
			"owner_percentage":   loft.OwnerPercentage,
			"updated_at":         loft.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update loft: %w", err)
	}
	if result.MatchedCount == 0 {
		return loftserrors.ErrLoftNotFound
	}
	return nil
}

func (r *mongoLoftRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", loftserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete loft: %w", err)
	}
	if result.DeletedCount == 0 {
		return loftserrors.ErrLoftNotFound
	}
	return nil
}

// ReassignOwner moves the given lofts still held by fromOwnerID to toOwnerID.
// Lofts owned by someone else are left untouched and not counted.
func (r *mongoLoftRepository) ReassignOwner(ctx context.Context, loftIDs []string, fromOwnerID, toOwnerID string) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectIDs := make([]primitive.ObjectID, 0, len(loftIDs))
	for _, id := range loftIDs {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return 0, fmt.Errorf("%w: %s", loftserrors.ErrInvalidID, id)
		}
		objectIDs = append(objectIDs, oid)
	}

	filter := bson.M{
		"_id":      bson.M{"$in": objectIDs},
		"owner_id": fromOwnerID,
	}
	update := bson.M{
		"$set": bson.M{
			"owner_id":   toOwnerID,
			"updated_at": time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to transfer lofts: %w", err)
	}
	return result.ModifiedCount, nil
}

func (r *mongoLoftRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}

func (r *mongoLoftRepository) find(ctx context.Context, filter bson.M, limit int, offset int64) ([]*model.Loft, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find lofts: %w", err)
	}
	defer cursor.Close(ctx)

	var lofts []*model.Loft
	if err := cursor.All(ctx, &lofts); err != nil {
		return nil, fmt.Errorf("failed to decode lofts: %w", err)
	}
	return lofts, nil
}

func (r *mongoLoftRepository) count(ctx context.Context, filter bson.M) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count lofts: %w", err)
	}
	return count, nil
}

func scopeFilter(scope model.Scope) bson.M {
	filter := bson.M{}
	if !scope.All && scope.OwnerID != "" {
		filter["owner_id"] = scope.OwnerID
	}
	return filter
}

func buildSearchFilter(scope model.Scope, search model.LoftSearch) bson.M {
	filter := scopeFilter(scope)
	if search.City != "" {
		filter["city"] = primitive.Regex{Pattern: "^" + regexp.QuoteMeta(search.City) + "$", Options: "i"}
	}
	if search.Status != "" {
		filter["status"] = search.Status
	}
	if search.MinGuests > 0 {
		filter["max_guests"] = bson.M{"$gte": search.MinGuests}
	}
	if search.MaxPrice > 0 {
		filter["price_per_night"] = bson.M{"$lte": search.MaxPrice}
	}
	return filter
}
