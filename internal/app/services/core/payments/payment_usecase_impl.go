package payments

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mediq-service/internal/app/contracts"
	"mediq-service/internal/app/models"
	"mediq-service/internal/pkg/constvars"
	"mediq-service/internal/pkg/dto/requests"

	"go.uber.org/zap"
)

type paymentUsecase struct {
	AppointmentRepository contracts.AppointmentRepository
	DoctorRepository      contracts.DoctorRepository
	TransactionRunner     contracts.TransactionRunner
	RedisRepository       contracts.RedisRepository
	Notifier              contracts.NotifierService
	Log                   *zap.Logger
}

var (
	paymentUsecaseInstance contracts.PaymentUsecase
	oncePaymentUsecase     sync.Once
)

func NewPaymentUsecase(
	appointmentRepository contracts.AppointmentRepository,
	doctorRepository contracts.DoctorRepository,
	transactionRunner contracts.TransactionRunner,
	redisRepository contracts.RedisRepository,
	notifier contracts.NotifierService,
	logger *zap.Logger,
) contracts.PaymentUsecase {
	oncePaymentUsecase.Do(func() {
		instance := &paymentUsecase{
			AppointmentRepository: appointmentRepository,
			DoctorRepository:      doctorRepository,
			TransactionRunner:     transactionRunner,
			RedisRepository:       redisRepository,
			Notifier:              notifier,
			Log:                   logger,
		}
		paymentUsecaseInstance = instance
	})
	return paymentUsecaseInstance
}

// HandlePaymentEvent reconciles one provider event with local state. Events
// arrive at-least-once and unordered; the pending-status guard on every
// update is what makes redelivery and reordering harmless. The redis dedup
// key is an optimization on top, never the correctness mechanism.
func (uc *paymentUsecase) HandlePaymentEvent(ctx context.Context, event *requests.PaymentEvent) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("paymentUsecase.HandlePaymentEvent called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingEventIDKey, event.ID),
		zap.String(constvars.LoggingEventTypeKey, event.Type),
		zap.String(constvars.LoggingSessionIDKey, event.Data.SessionID),
	)

	dedupKey := fmt.Sprintf(constvars.RedisKeyWebhookEventFormat, event.ID)
	if seen, err := uc.RedisRepository.Get(ctx, dedupKey); err != nil {
		uc.Log.Warn("paymentUsecase.HandlePaymentEvent dedup lookup failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingRedisKey, dedupKey),
			zap.Error(err),
		)
	} else if seen != "" {
		uc.Log.Info("paymentUsecase.HandlePaymentEvent duplicate event skipped",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingEventIDKey, event.ID),
		)
		return nil
	}

	var err error
	switch event.Type {
	case requests.PaymentEventCompleted:
		err = uc.handleCompleted(ctx, requestID, event)
	case requests.PaymentEventExpired, requests.PaymentEventFailed:
		err = uc.handleTerminated(ctx, requestID, event)
	default:
		uc.Log.Warn("paymentUsecase.HandlePaymentEvent unhandled event type",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingEventTypeKey, event.Type),
		)
		return nil
	}
	if err != nil {
		return err
	}

	dedupTTL := time.Duration(constvars.RedisWebhookDedupTTLInHours) * time.Hour
	if err := uc.RedisRepository.Set(ctx, dedupKey, event.Type, dedupTTL); err != nil {
		uc.Log.Warn("paymentUsecase.HandlePaymentEvent dedup store failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingRedisKey, dedupKey),
			zap.Error(err),
		)
	}
	return nil
}

// handleCompleted confirms the appointment named in the session metadata,
// but only while it is still pending. A miss means either a replay or a
// completion that arrived after the appointment was already cancelled; the
// latter is logged loudly since money moved for a dead booking.
func (uc *paymentUsecase) handleCompleted(ctx context.Context, requestID string, event *requests.PaymentEvent) error {
	appointmentID := event.Data.AppointmentID
	if appointmentID == "" {
		uc.Log.Warn("paymentUsecase.handleCompleted event carries no appointment metadata",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingEventIDKey, event.ID),
		)
		return nil
	}

	pending := models.AppointmentPending
	confirmed := models.AppointmentConfirmed
	now := time.Now()
	patch := contracts.AppointmentPatch{
		Status: &confirmed,
		PaidAt: &now,
	}
	if event.Data.PaymentIntentID != "" {
		patch.PaymentIntentID = &event.Data.PaymentIntentID
	}
	if event.Data.SessionID != "" {
		patch.CheckoutSessionID = &event.Data.SessionID
	}

	matched, err := uc.AppointmentRepository.UpdateIf(ctx, appointmentID,
		contracts.AppointmentPredicate{Status: &pending}, patch)
	if err != nil {
		uc.Log.Error("paymentUsecase.handleCompleted error confirming appointment",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
			zap.Error(err),
		)
		return err
	}
	if !matched {
		appointment, findErr := uc.AppointmentRepository.FindByID(ctx, appointmentID)
		if findErr != nil {
			return findErr
		}
		if appointment == nil {
			uc.Log.Warn("paymentUsecase.handleCompleted unknown appointment",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
			)
			return nil
		}
		if appointment.Status == models.AppointmentCancelled {
			uc.Log.Error("paymentUsecase.handleCompleted payment captured for cancelled appointment, manual refund needed",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
				zap.String(constvars.LoggingSessionIDKey, event.Data.SessionID),
			)
			return nil
		}
		uc.Log.Info("paymentUsecase.handleCompleted appointment already confirmed, replay",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
		)
		return nil
	}

	appointment, err := uc.AppointmentRepository.FindByID(ctx, appointmentID)
	if err == nil && appointment != nil {
		if pubErr := uc.Notifier.PublishAppointmentEvent(ctx, &contracts.AppointmentNotification{
			Kind:          contracts.NotificationAppointmentConfirmed,
			AppointmentID: appointmentID,
			PatientEmail:  appointment.PatientData.Email,
			PatientName:   appointment.PatientData.Name,
			DoctorName:    appointment.DoctorData.Name,
			SlotDate:      appointment.SlotDate,
			SlotTime:      appointment.SlotTime,
			Amount:        appointment.Amount,
		}); pubErr != nil {
			uc.Log.Warn("paymentUsecase.handleCompleted failed to publish notification",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
				zap.Error(pubErr),
			)
		}
	}

	uc.Log.Info("paymentUsecase.handleCompleted appointment confirmed",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
	)
	return nil
}

// handleTerminated unwinds the booking for an expired or failed session. No
// refund is involved: these events mean money never moved. The appointment is
// looked up by session ID since expiry events carry no metadata.
func (uc *paymentUsecase) handleTerminated(ctx context.Context, requestID string, event *requests.PaymentEvent) error {
	appointment, err := uc.AppointmentRepository.FindBySessionID(ctx, event.Data.SessionID)
	if err != nil {
		uc.Log.Error("paymentUsecase.handleTerminated error fetching appointment by session",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSessionIDKey, event.Data.SessionID),
			zap.Error(err),
		)
		return err
	}
	if appointment == nil {
		uc.Log.Warn("paymentUsecase.handleTerminated no appointment for session",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSessionIDKey, event.Data.SessionID),
		)
		return nil
	}
	if appointment.Status != models.AppointmentPending {
		uc.Log.Info("paymentUsecase.handleTerminated appointment no longer pending, nothing to do",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAppointmentIDKey, appointment.ID),
		)
		return nil
	}

	pending := models.AppointmentPending
	cancelled := models.AppointmentCancelled
	err = uc.TransactionRunner.RunTransaction(ctx, func(txCtx context.Context) error {
		matched, txErr := uc.AppointmentRepository.UpdateIf(txCtx, appointment.ID,
			contracts.AppointmentPredicate{Status: &pending},
			contracts.AppointmentPatch{Status: &cancelled},
		)
		if txErr != nil || !matched {
			return txErr
		}
		return uc.DoctorRepository.ReleaseSlot(txCtx, appointment.DoctorID, appointment.SlotDate, appointment.SlotTime)
	})
	if err != nil {
		uc.Log.Error("paymentUsecase.handleTerminated cancel transaction failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAppointmentIDKey, appointment.ID),
			zap.Error(err),
		)
		return err
	}

	uc.Log.Info("paymentUsecase.handleTerminated appointment cancelled and slot released",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointment.ID),
		zap.String(constvars.LoggingEventTypeKey, event.Type),
	)
	return nil
}
