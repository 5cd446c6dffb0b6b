package sweep

import (
	"context"
	"time"

	"mediq-service/internal/app/config"
	"mediq-service/internal/app/contracts"
	"mediq-service/internal/app/models"
	"mediq-service/internal/pkg/constvars"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Worker periodically collects appointments stuck in pending. A checkout
// session either completes, expires, or fails, and the webhook normally
// reports it; the sweep covers lost events and bookings that never got a
// session at all. It runs under a redis leader lock so only one instance
// sweeps at a time.
type Worker struct {
	log          *zap.Logger
	cfg          *config.InternalConfig
	locker       contracts.LockerService
	appointments contracts.AppointmentRepository
	doctors      contracts.DoctorRepository
	gateway      contracts.PaymentGatewayService
	txRunner     contracts.TransactionRunner
	cron         *cron.Cron
	runCtx       context.Context
	cancel       context.CancelFunc
}

func NewWorker(
	log *zap.Logger,
	cfg *config.InternalConfig,
	lockerSvc contracts.LockerService,
	appointmentRepository contracts.AppointmentRepository,
	doctorRepository contracts.DoctorRepository,
	gateway contracts.PaymentGatewayService,
	txRunner contracts.TransactionRunner,
) *Worker {
	return &Worker{
		log:          log,
		cfg:          cfg,
		locker:       lockerSvc,
		appointments: appointmentRepository,
		doctors:      doctorRepository,
		gateway:      gateway,
		txRunner:     txRunner,
	}
}

// Start schedules the sweep. Returns after scheduling; runs happen on the
// cron goroutine.
func (w *Worker) Start(ctx context.Context) {
	w.runCtx, w.cancel = context.WithCancel(ctx)
	c := cron.New()
	spec := w.cfg.App.SweepCronSpec
	_, err := c.AddFunc(spec, func() { w.runOnce(w.runCtx) })
	if err != nil {
		w.log.Warn("sweep.worker: invalid cron spec, falling back to @every 10m", zap.Error(err))
		c = cron.New()
		_, _ = c.AddFunc("@every 10m", func() { w.runOnce(w.runCtx) })
	}
	c.Start()
	w.cron = c
}

// Stop cancels in-flight runs and waits for the cron job to finish.
func (w *Worker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	if w.cron != nil {
		ctx := w.cron.Stop()
		<-ctx.Done()
	}
}

func (w *Worker) runOnce(ctx context.Context) {
	ttl := w.cfg.App.SweepLockTTL
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	acquired, token, err := w.locker.TryLock(ctx, constvars.RedisKeySweepLeader, ttl)
	if err != nil {
		w.log.Warn("sweep.worker: leader lock attempt failed", zap.Error(err))
		return
	}
	if !acquired {
		w.log.Info("sweep.worker: leader lock held elsewhere, skipping run")
		return
	}
	defer w.locker.Unlock(ctx, constvars.RedisKeySweepLeader, token)

	refreshCtx, cancelRefresh := context.WithCancel(ctx)
	defer cancelRefresh()
	go func() {
		tick := time.NewTicker(ttl / 2)
		defer tick.Stop()
		for {
			select {
			case <-refreshCtx.Done():
				return
			case <-tick.C:
				if err := w.locker.Refresh(ctx, constvars.RedisKeySweepLeader, token, ttl); err != nil {
					w.log.Warn("sweep.worker: failed to refresh leader lock TTL", zap.Error(err))
				}
			}
		}
	}()

	// Pending past the checkout window plus grace are candidates. The grace
	// period keeps the sweep from racing a webhook that is merely slow.
	window := time.Duration(w.cfg.App.CheckoutExpiryInMinutes+w.cfg.App.SweepGraceInMinutes) * time.Minute
	cutoff := time.Now().Add(-window)

	stale, err := w.appointments.FindStalePending(ctx, cutoff)
	if err != nil {
		w.log.Warn("sweep.worker: stale pending lookup failed", zap.Error(err))
		return
	}
	if len(stale) == 0 {
		return
	}
	w.log.Info("sweep.worker: sweeping stale pending appointments", zap.Int("count", len(stale)))

	for _, appointment := range stale {
		select {
		case <-ctx.Done():
			return
		default:
		}
		w.sweepOne(ctx, appointment)
	}
}

// sweepOne cancels a single stale pending appointment unless the gateway
// says the session was actually paid, in which case the completed webhook is
// presumed lost and confirmation is applied here instead.
func (w *Worker) sweepOne(ctx context.Context, appointment models.Appointment) {
	log := w.log.With(
		zap.String(constvars.LoggingAppointmentIDKey, appointment.ID),
		zap.String(constvars.LoggingSessionIDKey, appointment.CheckoutSessionID),
	)

	if appointment.CheckoutSessionID != "" {
		status, err := w.gateway.GetCheckoutSession(ctx, appointment.CheckoutSessionID)
		if err != nil {
			log.Warn("sweep.worker: session status lookup failed, skipping", zap.Error(err))
			return
		}
		if status.Status == contracts.CheckoutStatusComplete {
			w.confirmPaid(ctx, log, appointment, status)
			return
		}
		if status.Status == contracts.CheckoutStatusOpen {
			log.Info("sweep.worker: session still open, leaving appointment pending")
			return
		}
	}

	pending := models.AppointmentPending
	cancelled := models.AppointmentCancelled
	err := w.txRunner.RunTransaction(ctx, func(txCtx context.Context) error {
		matched, txErr := w.appointments.UpdateIf(txCtx, appointment.ID,
			contracts.AppointmentPredicate{Status: &pending},
			contracts.AppointmentPatch{Status: &cancelled},
		)
		if txErr != nil || !matched {
			return txErr
		}
		return w.doctors.ReleaseSlot(txCtx, appointment.DoctorID, appointment.SlotDate, appointment.SlotTime)
	})
	if err != nil {
		log.Warn("sweep.worker: cancel transaction failed", zap.Error(err))
		return
	}
	log.Info("sweep.worker: cancelled stale pending appointment and released slot")
}

func (w *Worker) confirmPaid(ctx context.Context, log *zap.Logger, appointment models.Appointment, status *contracts.CheckoutSessionStatus) {
	pending := models.AppointmentPending
	confirmed := models.AppointmentConfirmed
	now := time.Now()
	patch := contracts.AppointmentPatch{
		Status: &confirmed,
		PaidAt: &now,
	}
	if status.PaymentIntentID != "" {
		patch.PaymentIntentID = &status.PaymentIntentID
	}

	matched, err := w.appointments.UpdateIf(ctx, appointment.ID,
		contracts.AppointmentPredicate{Status: &pending}, patch)
	if err != nil {
		log.Warn("sweep.worker: confirm of paid appointment failed", zap.Error(err))
		return
	}
	if matched {
		log.Info("sweep.worker: confirmed paid appointment whose completed event never arrived")
	}
}
