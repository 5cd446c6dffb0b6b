package notifier

import (
	"fmt"
	"net/smtp"

	"mediq-service/internal/app/contracts"
	"mediq-service/internal/app/drivers/mailer"
	"mediq-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Worker drains the notification queue and emails patients about their
// appointments. Bad payloads are dropped, delivery failures are requeued once
// by the broker.
type Worker struct {
	Channel *amqp.Channel
	Client  *mailer.SMTPClient
	Queue   string
	Log     *zap.Logger
	done    chan struct{}
}

func NewWorker(conn *amqp.Connection, client *mailer.SMTPClient, queue string, logger *zap.Logger) (*Worker, error) {
	channel, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	return &Worker{
		Channel: channel,
		Client:  client,
		Queue:   queue,
		Log:     logger,
		done:    make(chan struct{}),
	}, nil
}

func (w *Worker) Start() error {
	deliveries, err := w.Channel.Consume(
		w.Queue, // queue
		"",      // consumer
		false,   // autoAck
		false,   // exclusive
		false,   // noLocal
		false,   // noWait
		nil,     // args
	)
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case <-w.done:
				return
			case delivery, ok := <-deliveries:
				if !ok {
					return
				}
				w.handle(delivery)
			}
		}
	}()
	return nil
}

func (w *Worker) Stop() {
	close(w.done)
	w.Channel.Close()
}

func (w *Worker) handle(delivery amqp.Delivery) {
	var notification contracts.AppointmentNotification
	if err := json.Unmarshal(delivery.Body, &notification); err != nil {
		w.Log.Warn("notifier.Worker dropping malformed notification", zap.Error(err))
		delivery.Nack(false, false)
		return
	}

	if err := w.sendEmail(&notification); err != nil {
		w.Log.Error("notifier.Worker failed to send email",
			zap.String("kind", notification.Kind),
			zap.Error(err),
		)
		delivery.Nack(false, !delivery.Redelivered)
		return
	}

	delivery.Ack(false)
}

func (w *Worker) sendEmail(notification *contracts.AppointmentNotification) error {
	if notification.PatientEmail == "" {
		return nil
	}

	subject, body := renderEmail(notification)
	message := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		w.Client.EmailSender, notification.PatientEmail, subject, body)

	addr := fmt.Sprintf("%s:%d", w.Client.Host, w.Client.Port)
	err := smtp.SendMail(addr, w.Client.Auth, w.Client.EmailSender, []string{notification.PatientEmail}, []byte(message))
	if err != nil {
		return exceptions.ErrServerProcess(err)
	}
	return nil
}

func renderEmail(notification *contracts.AppointmentNotification) (subject, body string) {
	when := fmt.Sprintf("%s at %s with Dr. %s", notification.SlotDate, notification.SlotTime, notification.DoctorName)
	switch notification.Kind {
	case contracts.NotificationAppointmentBooked:
		return "Complete your appointment payment",
			fmt.Sprintf("Hi %s,\n\nYour appointment on %s is reserved. Please complete the payment within 30 minutes to confirm it.", notification.PatientName, when)
	case contracts.NotificationAppointmentConfirmed:
		return "Your appointment is confirmed",
			fmt.Sprintf("Hi %s,\n\nYour appointment on %s is confirmed. See you there!", notification.PatientName, when)
	case contracts.NotificationAppointmentRefunded:
		return "Your appointment was cancelled and refunded",
			fmt.Sprintf("Hi %s,\n\nYour appointment on %s was cancelled. Refund reference: %s.", notification.PatientName, when, notification.RefundID)
	default:
		return "Your appointment was cancelled",
			fmt.Sprintf("Hi %s,\n\nYour appointment on %s was cancelled.", notification.PatientName, when)
	}
}
