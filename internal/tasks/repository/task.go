package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	taskserrors "loftalgerie/internal/tasks/errors"
	"loftalgerie/pkg/config"
	mongotx "loftalgerie/pkg/db/mongo"
	"loftalgerie/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	TasksCollection = "Tasks"
)

type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	FindByID(ctx context.Context, id string) (*model.Task, error)
	FindAll(ctx context.Context, scope model.Scope, filter model.TaskFilter, limit int, offset int64) ([]*model.Task, error)
	Count(ctx context.Context, scope model.Scope, filter model.TaskFilter) (int64, error)
	Update(ctx context.Context, id string, task *model.Task) error
	Delete(ctx context.Context, id string) error
}

type mongoTaskRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoTaskRepository(cfg *config.Config) TaskRepository {
	db := cfg.Client.Mongo.Client.Database(cfg.MongoDatabaseName)
	return &mongoTaskRepository{
		cfg:        cfg,
		collection: db.Collection(TasksCollection),
	}
}

func (r *mongoTaskRepository) Create(ctx context.Context, task *model.Task) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	task.CreatedAt = now
	task.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		task.ID = oid.Hex()
	}
	return nil
}

func (r *mongoTaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", taskserrors.ErrInvalidID, id)
	}

	var task model.Task
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&task); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, taskserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &task, nil
}

func (r *mongoTaskRepository) FindAll(ctx context.Context, scope model.Scope, filter model.TaskFilter, limit int, offset int64) ([]*model.Task, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "due_date", Value: 1}, {Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, buildFilter(scope, filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var tasks []*model.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return tasks, nil
}

func (r *mongoTaskRepository) Count(ctx context.Context, scope model.Scope, filter model.TaskFilter) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, buildFilter(scope, filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return count, nil
}

func (r *mongoTaskRepository) Update(ctx context.Context, id string, task *model.Task) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", taskserrors.ErrInvalidID, id)
	}

	task.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	update := bson.M{
		"$set": bson.M{
			"title":       task.Title,
			"description": task.Description,
			"status":      task.Status,
			"due_date":    task.DueDate,
			"assigned_to": task.AssignedTo,
			"loft_id":     task.LoftID,
			"updated_at":  task.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if result.MatchedCount == 0 {
		return taskserrors.ErrNotFound
	}
	return nil
}

func (r *mongoTaskRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", taskserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.DeletedCount == 0 {
		return taskserrors.ErrNotFound
	}
	return nil
}

func buildFilter(scope model.Scope, filter model.TaskFilter) bson.M {
	query := bson.M{}
	switch {
	case scope.Deny:
		query["_id"] = bson.M{"$exists": false}
	case scope.AssigneeID != "":
		query["assigned_to"] = scope.AssigneeID
	}

	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.LoftID != "" {
		query["loft_id"] = filter.LoftID
	}
	return query
}
