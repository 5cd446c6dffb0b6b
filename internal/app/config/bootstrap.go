package config

import (
	"context"
	"log"

	"github.com/go-chi/chi/v5"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Bootstrap struct {
	Router         *chi.Mux
	MongoDB        *mongo.Client
	Redis          *redis.Client
	RabbitMQ       *amqp091.Connection
	Logger         *zap.Logger
	InternalConfig *InternalConfig
	DriverConfig   *DriverConfig
	// SweepWorkerStop if set is called during Shutdown to stop the
	// reconciliation sweep gracefully.
	SweepWorkerStop func()
	// NotifierWorkerStop if set is called during Shutdown to stop the
	// notification consumer gracefully.
	NotifierWorkerStop func()
}

func (b *Bootstrap) Shutdown(ctx context.Context) error {
	if b.SweepWorkerStop != nil {
		b.SweepWorkerStop()
		log.Println("Successfully stopped sweep worker")
	}

	if b.NotifierWorkerStop != nil {
		b.NotifierWorkerStop()
		log.Println("Successfully stopped notifier worker")
	}

	if b.MongoDB != nil {
		if err := b.MongoDB.Disconnect(ctx); err != nil {
			return err
		}
		log.Println("Successfully closing MongoDB")
	}

	if b.Redis != nil {
		if err := b.Redis.Close(); err != nil {
			return err
		}
		log.Println("Successfully closing Redis")
	}

	if b.RabbitMQ != nil {
		if err := b.RabbitMQ.Close(); err != nil {
			return err
		}
		log.Println("Successfully closing RabbitMQ")
	}

	if b.Logger != nil {
		if err := b.Logger.Sync(); err != nil {
			log.Printf("Logger sync: %v", err)
		}
	}

	return nil
}
