package database

import (
	"context"

	"mediq-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/mongo"
)

// WithTransaction runs fn inside a single multi-document transaction. Every
// repository call made with the session context joins the same atomic unit;
// if fn returns an error nothing it did is visible to other sessions.
func WithTransaction(ctx context.Context, client *mongo.Client, fn func(sessCtx mongo.SessionContext) error) error {
	session, err := client.StartSession()
	if err != nil {
		return exceptions.ErrMongoDBTransaction(err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	})
	if err != nil {
		if _, ok := err.(*exceptions.CustomError); ok {
			return err
		}
		return exceptions.ErrMongoDBTransaction(err)
	}
	return nil
}
