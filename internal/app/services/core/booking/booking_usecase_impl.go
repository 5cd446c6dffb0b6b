package booking

import (
	"context"
	"sync"
	"time"

	"mediq-service/internal/app/config"
	"mediq-service/internal/app/contracts"
	"mediq-service/internal/app/models"
	"mediq-service/internal/pkg/constvars"
	"mediq-service/internal/pkg/dto/requests"
	"mediq-service/internal/pkg/dto/responses"
	"mediq-service/internal/pkg/exceptions"

	"go.uber.org/zap"
)

type bookingUsecase struct {
	DoctorRepository      contracts.DoctorRepository
	PatientRepository     contracts.PatientRepository
	AppointmentRepository contracts.AppointmentRepository
	TransactionRunner     contracts.TransactionRunner
	PaymentGateway        contracts.PaymentGatewayService
	Notifier              contracts.NotifierService
	InternalConfig        *config.InternalConfig
	Log                   *zap.Logger
}

var (
	bookingUsecaseInstance contracts.BookingUsecase
	onceBookingUsecase     sync.Once
)

func NewBookingUsecase(
	doctorRepository contracts.DoctorRepository,
	patientRepository contracts.PatientRepository,
	appointmentRepository contracts.AppointmentRepository,
	transactionRunner contracts.TransactionRunner,
	paymentGateway contracts.PaymentGatewayService,
	notifier contracts.NotifierService,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.BookingUsecase {
	onceBookingUsecase.Do(func() {
		instance := &bookingUsecase{
			DoctorRepository:      doctorRepository,
			PatientRepository:     patientRepository,
			AppointmentRepository: appointmentRepository,
			TransactionRunner:     transactionRunner,
			PaymentGateway:        paymentGateway,
			Notifier:              notifier,
			InternalConfig:        internalConfig,
			Log:                   logger,
		}
		bookingUsecaseInstance = instance
	})
	return bookingUsecaseInstance
}

// BookSlot reserves the slot and creates the pending appointment atomically,
// then asks the gateway for a checkout session. The session call happens
// outside the transaction: if it fails, the appointment stays pending with no
// session reference and the sweep collects it later.
func (uc *bookingUsecase) BookSlot(ctx context.Context, patientID string, request *requests.BookSlot) (*responses.BookSlot, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("bookingUsecase.BookSlot called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
		zap.String(constvars.LoggingDoctorIDKey, request.DoctorID),
		zap.String(constvars.LoggingSlotDateKey, request.SlotDate),
		zap.String(constvars.LoggingSlotTimeKey, request.SlotTime),
	)

	patient, err := uc.PatientRepository.FindByID(ctx, patientID)
	if err != nil {
		uc.Log.Error("bookingUsecase.BookSlot error fetching patient",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	if patient == nil {
		return nil, exceptions.ErrPatientNotFound(nil)
	}

	var (
		appointmentID string
		doctor        *models.Doctor
	)
	err = uc.TransactionRunner.RunTransaction(ctx, func(txCtx context.Context) error {
		doctor, err = uc.DoctorRepository.ReserveSlot(txCtx, request.DoctorID, request.SlotDate, request.SlotTime)
		if err != nil {
			return err
		}

		appointment := &models.Appointment{
			PatientID: patientID,
			DoctorID:  doctor.ID,
			SlotDate:  request.SlotDate,
			SlotTime:  request.SlotTime,
			Amount:    doctor.Fees,
			Status:    models.AppointmentPending,
			DoctorData: models.DoctorSnapshot{
				Version:    models.SnapshotVersion,
				Name:       doctor.Name,
				Image:      doctor.Image,
				Speciality: doctor.Speciality,
				Degree:     doctor.Degree,
				Fees:       doctor.Fees,
				Address:    doctor.Address,
			},
			PatientData: models.PatientSnapshot{
				Version: models.SnapshotVersion,
				Name:    patient.Name,
				Email:   patient.Email,
				Image:   patient.Image,
				Phone:   patient.Phone,
				Dob:     patient.Dob,
				Gender:  patient.Gender,
			},
		}
		appointmentID, err = uc.AppointmentRepository.CreateAppointment(txCtx, appointment)
		return err
	})
	if err != nil {
		uc.Log.Error("bookingUsecase.BookSlot reservation failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	uc.Log.Info("bookingUsecase.BookSlot reserved slot and created appointment",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
	)

	expiresAt := time.Now().Add(time.Duration(uc.InternalConfig.App.CheckoutExpiryInMinutes) * time.Minute)
	session, err := uc.PaymentGateway.CreateCheckoutSession(ctx, &contracts.CreateCheckoutSessionInput{
		Amount:        doctor.Fees,
		Currency:      uc.InternalConfig.PaymentGateway.CheckoutCurrency,
		ProductName:   constvars.CheckoutProduct,
		AppointmentID: appointmentID,
		ExpiresAt:     expiresAt,
		SuccessURL:    uc.InternalConfig.PaymentGateway.SuccessRedirect,
		CancelURL:     uc.InternalConfig.PaymentGateway.CancelRedirect,
	})
	if err != nil {
		uc.Log.Error("bookingUsecase.BookSlot error creating checkout session",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
			zap.Error(err),
		)
		return nil, err
	}

	// Best effort: a crash between the commit above and this write leaves a
	// pending appointment without a session ID, which the sweep cancels.
	pending := models.AppointmentPending
	_, err = uc.AppointmentRepository.UpdateIf(ctx, appointmentID,
		contracts.AppointmentPredicate{Status: &pending},
		contracts.AppointmentPatch{CheckoutSessionID: &session.ID},
	)
	if err != nil {
		uc.Log.Warn("bookingUsecase.BookSlot could not persist session reference",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
			zap.Error(err),
		)
	}

	uc.publishNotification(ctx, requestID, &contracts.AppointmentNotification{
		Kind:          contracts.NotificationAppointmentBooked,
		AppointmentID: appointmentID,
		PatientEmail:  patient.Email,
		PatientName:   patient.Name,
		DoctorName:    doctor.Name,
		SlotDate:      request.SlotDate,
		SlotTime:      request.SlotTime,
		Amount:        doctor.Fees,
	})

	uc.Log.Info("bookingUsecase.BookSlot finished",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
		zap.String(constvars.LoggingSessionIDKey, session.ID),
	)
	return &responses.BookSlot{
		AppointmentID: appointmentID,
		CheckoutURL:   session.URL,
	}, nil
}

// CancelAppointment unwinds a booking. Idempotent on already-cancelled
// records. For a confirmed appointment the refund is issued before any local
// mutation; the status flip and the slot release then commit together.
func (uc *bookingUsecase) CancelAppointment(ctx context.Context, actor contracts.Actor, appointmentID string) (*responses.CancelAppointment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("bookingUsecase.CancelAppointment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
	)

	appointment, err := uc.AppointmentRepository.FindByID(ctx, appointmentID)
	if err != nil {
		uc.Log.Error("bookingUsecase.CancelAppointment error fetching appointment",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	if appointment == nil {
		return nil, exceptions.ErrAppointmentNotFound(nil)
	}

	if !actorMayCancel(actor, appointment) {
		uc.Log.Warn("bookingUsecase.CancelAppointment actor not allowed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
		)
		return nil, exceptions.ErrNotAppointmentOwner(nil)
	}

	if appointment.Status == models.AppointmentCancelled {
		uc.Log.Info("bookingUsecase.CancelAppointment already cancelled",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
		)
		return &responses.CancelAppointment{RefundID: appointment.RefundID}, nil
	}

	var refund *contracts.Refund
	if appointment.Status == models.AppointmentConfirmed {
		if appointment.PaymentIntentID == "" {
			return nil, exceptions.ErrPaymentReferenceMissing(nil)
		}
		refund, err = uc.PaymentGateway.CreateRefund(ctx, appointment.PaymentIntentID, uc.InternalConfig.PaymentGateway.RefundReason)
		if err != nil {
			uc.Log.Error("bookingUsecase.CancelAppointment refund failed, state untouched",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
				zap.Error(err),
			)
			return nil, err
		}
		uc.Log.Info("bookingUsecase.CancelAppointment refund issued",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
			zap.String(constvars.LoggingRefundIDKey, refund.ID),
		)
	}

	priorStatus := appointment.Status
	cancelled := models.AppointmentCancelled
	patch := contracts.AppointmentPatch{Status: &cancelled}
	if refund != nil {
		now := time.Now()
		patch.RefundID = &refund.ID
		patch.RefundedAt = &now
	}

	var matched bool
	err = uc.TransactionRunner.RunTransaction(ctx, func(txCtx context.Context) error {
		matched, err = uc.AppointmentRepository.UpdateIf(txCtx, appointmentID,
			contracts.AppointmentPredicate{Status: &priorStatus}, patch)
		if err != nil || !matched {
			return err
		}
		return uc.DoctorRepository.ReleaseSlot(txCtx, appointment.DoctorID, appointment.SlotDate, appointment.SlotTime)
	})
	if err != nil {
		uc.Log.Error("bookingUsecase.CancelAppointment cancel transaction failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
			zap.Error(err),
		)
		return nil, err
	}
	if !matched {
		// Someone changed the status under us. Cancelled now means another
		// canceller won, which is still a success for this caller.
		current, findErr := uc.AppointmentRepository.FindByID(ctx, appointmentID)
		if findErr != nil {
			return nil, findErr
		}
		if current != nil && current.Status == models.AppointmentCancelled {
			return &responses.CancelAppointment{RefundID: current.RefundID}, nil
		}
		uc.Log.Warn("bookingUsecase.CancelAppointment lost status race",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
		)
		return nil, exceptions.ErrAppointmentStateConflict(nil)
	}

	notification := &contracts.AppointmentNotification{
		Kind:          contracts.NotificationAppointmentCancelled,
		AppointmentID: appointmentID,
		PatientEmail:  appointment.PatientData.Email,
		PatientName:   appointment.PatientData.Name,
		DoctorName:    appointment.DoctorData.Name,
		SlotDate:      appointment.SlotDate,
		SlotTime:      appointment.SlotTime,
		Amount:        appointment.Amount,
	}
	response := &responses.CancelAppointment{}
	if refund != nil {
		notification.Kind = contracts.NotificationAppointmentRefunded
		notification.RefundID = refund.ID
		response.RefundID = refund.ID
	}
	uc.publishNotification(ctx, requestID, notification)

	uc.Log.Info("bookingUsecase.CancelAppointment finished",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
	)
	return response, nil
}

func actorMayCancel(actor contracts.Actor, appointment *models.Appointment) bool {
	switch actor.Role {
	case constvars.ActorRoleAdmin:
		return true
	case constvars.ActorRolePatient:
		return actor.ID == appointment.PatientID
	case constvars.ActorRoleDoctor:
		return actor.ID == appointment.DoctorID
	default:
		return false
	}
}

// Notification delivery never fails the workflow that triggered it.
func (uc *bookingUsecase) publishNotification(ctx context.Context, requestID string, notification *contracts.AppointmentNotification) {
	if err := uc.Notifier.PublishAppointmentEvent(ctx, notification); err != nil {
		uc.Log.Warn("bookingUsecase failed to publish notification",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAppointmentIDKey, notification.AppointmentID),
			zap.Error(err),
		)
	}
}
