package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apperrors "loftalgerie/pkg/errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// ErrTransactionsUnsupported is returned when the server is a standalone
// mongod. Slot locking and loft transfers need a replica set.
var ErrTransactionsUnsupported = errors.New("mongo transactions require a replica set")

type TransactionFunc func(ctx mongo.SessionContext) error

type TransactionManager interface {
	ExecuteTransaction(ctx context.Context, fn TransactionFunc) error
}

type mongoTransactionManager struct {
	client *mongo.Client
	opts   *options.TransactionOptions
}

// NewTransactionManager runs transactions with snapshot reads and majority
// writes, so an overlap check and the insert that follows see the same data.
func NewTransactionManager(client *mongo.Client) TransactionManager {
	return &mongoTransactionManager{
		client: client,
		opts: options.Transaction().
			SetReadConcern(readconcern.Snapshot()).
			SetWriteConcern(writeconcern.Majority()),
	}
}

func (m *mongoTransactionManager) ExecuteTransaction(ctx context.Context, fn TransactionFunc) error {
	session, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (any, error) {
		return nil, fn(sessCtx)
	}, m.opts)
	if err == nil {
		return nil
	}

	if apperrors.IsAppError(err) {
		return err
	}
	if isStandaloneError(err) {
		return fmt.Errorf("%w: %v", ErrTransactionsUnsupported, err)
	}
	return fmt.Errorf("transaction failed: %w", err)
}

func isStandaloneError(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code == 20 {
		return strings.Contains(cmdErr.Message, "replica set")
	}
	return strings.Contains(err.Error(), "Transaction numbers are only allowed on a replica set member")
}
