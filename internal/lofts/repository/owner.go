package repository

import (
	"context"
	"errors"
	"fmt"
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
	OwnersCollection = "Owners"
)

type OwnerRepository interface {
	Create(ctx context.Context, owner *model.Owner) error
	FindByID(ctx context.Context, id string) (*model.Owner, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Owner, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, id string, owner *model.Owner) error
	Delete(ctx context.Context, id string) error
}

type mongoOwnerRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoOwnerRepository(cfg *config.Config) OwnerRepository {
	db := cfg.Client.Mongo.Client.Database(cfg.MongoDatabaseName)
	return &mongoOwnerRepository{
		cfg:        cfg,
		collection: db.Collection(OwnersCollection),
	}
}

func (r *mongoOwnerRepository) Create(ctx context.Context, owner *model.Owner) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	owner.CreatedAt = now
	owner.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, owner)
	if err != nil {
		return fmt.Errorf("failed to create owner: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		owner.ID = oid.Hex()
	}
	return nil
}

func (r *mongoOwnerRepository) FindByID(ctx context.Context, id string) (*model.Owner, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", loftserrors.ErrInvalidID, id)
	}

	var owner model.Owner
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&owner); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, loftserrors.ErrOwnerNotFound
		}
		return nil, fmt.Errorf("failed to find owner: %w", err)
	}
	return &owner, nil
}

func (r *mongoOwnerRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Owner, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find owners: %w", err)
	}
	defer cursor.Close(ctx)

	var owners []*model.Owner
	if err := cursor.All(ctx, &owners); err != nil {
		return nil, fmt.Errorf("failed to decode owners: %w", err)
	}
	return owners, nil
}

func (r *mongoOwnerRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count owners: %w", err)
	}
	return count, nil
}

func (r *mongoOwnerRepository) Update(ctx context.Context, id string, owner *model.Owner) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", loftserrors.ErrInvalidID, id)
	}

	owner.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	update := bson.M{
		"$set": bson.M{
			"name":            owner.Name,
			"email":           owner.Email,
			"phone":           owner.Phone,
			"ownership_type":  owner.OwnershipType,
			"user_id":         owner.UserID,
			"commission_rate": owner.CommissionRate,
			"updated_at":      owner.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update owner: %w", err)
	}
	if result.MatchedCount == 0 {
		return loftserrors.ErrOwnerNotFound
	}
	return nil
}

func (r *mongoOwnerRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", loftserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete owner: %w", err)
	}
	if result.DeletedCount == 0 {
		return loftserrors.ErrOwnerNotFound
	}
	return nil
}
