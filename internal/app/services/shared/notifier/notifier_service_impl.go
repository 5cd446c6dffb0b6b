package notifier

import (
	"context"
	"sync"

	"mediq-service/internal/app/contracts"
	"mediq-service/internal/pkg/constvars"
	"mediq-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

var (
	notifierServiceInstance contracts.NotifierService
	onceNotifierService     sync.Once
)

type notifierService struct {
	Channel *amqp.Channel
	Queue   string
	Log     *zap.Logger
}

// NewNotifierService declares the durable notification queue and returns a
// publisher bound to it.
func NewNotifierService(conn *amqp.Connection, queue string, logger *zap.Logger) (contracts.NotifierService, error) {
	var initErr error
	onceNotifierService.Do(func() {
		channel, err := conn.Channel()
		if err != nil {
			initErr = err
			return
		}

		_, err = channel.QueueDeclare(
			queue, // name
			true,  // durable
			false, // autoDelete
			false, // exclusive
			false, // noWait
			nil,   // args
		)
		if err != nil {
			initErr = err
			return
		}

		notifierServiceInstance = &notifierService{
			Channel: channel,
			Queue:   queue,
			Log:     logger,
		}
	})
	return notifierServiceInstance, initErr
}

func (s *notifierService) PublishAppointmentEvent(ctx context.Context, notification *contracts.AppointmentNotification) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	body, err := json.Marshal(notification)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	message := amqp.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Body:         body,
		DeliveryMode: amqp.Persistent,
	}

	err = s.Channel.PublishWithContext(ctx, "", s.Queue, false, false, message)
	if err != nil {
		s.Log.Error("notifierService.PublishAppointmentEvent error publishing",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingEventTypeKey, notification.Kind),
			zap.Error(err),
		)
		return exceptions.ErrRabbitMQPublishMessage(err, s.Queue)
	}

	s.Log.Info("notifierService.PublishAppointmentEvent published",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingEventTypeKey, notification.Kind),
		zap.String(constvars.LoggingAppointmentIDKey, notification.AppointmentID),
	)
	return nil
}
