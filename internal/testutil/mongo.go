// Package testutil backs the repository integration tests with a real
// MongoDB. Tests are built with the integration tag and skipped when no
// server answers on MONGO_URI.
package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	mongoMigration "loftalgerie/internal/migrations/mongo"
	"loftalgerie/pkg/client"
	"loftalgerie/pkg/config"
	"loftalgerie/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	ConnectionTimeout = 5 * time.Second
)

type MongoHelper struct {
	Client   *mongo.Client
	Database *mongo.Database
	DBName   string
	Config   *config.Config
}

// NewMongoHelper connects to MONGO_URI, migrates a database private to the
// test and drops it on cleanup.
func NewMongoHelper(t *testing.T) *MongoHelper {
	t.Helper()

	mongoURI := os.Getenv(config.EnvMongoURI)
	if mongoURI == "" {
		mongoURI = config.DefaultMongoURI
	}

	ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		t.Skipf("MongoDB unavailable: %v", err)
	}
	if err := mongoClient.Ping(ctx, nil); err != nil {
		_ = mongoClient.Disconnect(context.Background())
		t.Skipf("MongoDB unavailable: %v", err)
	}

	dbName := databaseName(t)
	log := logger.Discard()
	if err := mongoMigration.RunMigration(ctx, mongoClient, dbName, log); err != nil {
		t.Fatalf("failed to migrate %s: %v", dbName, err)
	}

	h := &MongoHelper{
		Client:   mongoClient,
		Database: mongoClient.Database(dbName),
		DBName:   dbName,
		Config: &config.Config{
			MongoDatabaseName: dbName,
			ReadTimeout:       config.DefaultReadTimeout,
			WriteTimeout:      config.DefaultWriteTimeout,
			Log:               log,
			Client:            &client.Client{Mongo: &client.MongoClient{Client: mongoClient}},
		},
	}
	t.Cleanup(func() { h.Close(t) })
	return h
}

func (m *MongoHelper) Close(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
	defer cancel()

	if err := m.Database.Drop(ctx); err != nil {
		t.Logf("warning: failed to drop %s: %v", m.DBName, err)
	}
	if err := m.Client.Disconnect(ctx); err != nil {
		t.Logf("warning: failed to disconnect from MongoDB: %v", err)
	}
}

func (m *MongoHelper) CleanCollection(t *testing.T, collectionName string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
	defer cancel()

	if _, err := m.Database.Collection(collectionName).DeleteMany(ctx, bson.M{}); err != nil {
		t.Fatalf("failed to clean collection %s: %v", collectionName, err)
	}
}

func (m *MongoHelper) CountDocuments(t *testing.T, collectionName string) int64 {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
	defer cancel()

	count, err := m.Database.Collection(collectionName).CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("failed to count documents in %s: %v", collectionName, err)
	}
	return count
}

// databaseName keeps parallel packages from sharing collections.
func databaseName(t *testing.T) string {
	name := strings.NewReplacer("/", "_", " ", "_", ".", "_").Replace(t.Name())
	if len(name) > 32 {
		name = name[:32]
	}
	return fmt.Sprintf("loftalgerie_it_%s_%d", name, time.Now().UnixNano()%1_000_000)
}
