package appointments

import (
	"context"

	"mediq-service/internal/app/contracts"
	"mediq-service/internal/app/drivers/database"

	"go.mongodb.org/mongo-driver/mongo"
)

type mongoTransactionRunner struct {
	client *mongo.Client
}

func NewMongoTransactionRunner(client *mongo.Client) contracts.TransactionRunner {
	return &mongoTransactionRunner{client: client}
}

func (r *mongoTransactionRunner) RunTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	return database.WithTransaction(ctx, r.client, func(sessCtx mongo.SessionContext) error {
		return fn(sessCtx)
	})
}
