package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mediq-service/internal/app/config"
	"mediq-service/internal/app/delivery/http/controllers"
	"mediq-service/internal/app/delivery/http/middlewares"
	"mediq-service/internal/app/delivery/http/routers"
	"mediq-service/internal/app/drivers/database"
	"mediq-service/internal/app/drivers/logger"
	"mediq-service/internal/app/drivers/mailer"
	"mediq-service/internal/app/drivers/messaging"
	minioDriver "mediq-service/internal/app/drivers/storage"
	"mediq-service/internal/app/services/core/admin"
	"mediq-service/internal/app/services/core/appointments"
	"mediq-service/internal/app/services/core/booking"
	"mediq-service/internal/app/services/core/doctors"
	"mediq-service/internal/app/services/core/patients"
	"mediq-service/internal/app/services/core/payments"
	"mediq-service/internal/app/services/core/sweep"
	"mediq-service/internal/app/services/shared/jwtmanager"
	"mediq-service/internal/app/services/shared/locker"
	"mediq-service/internal/app/services/shared/notifier"
	"mediq-service/internal/app/services/shared/payment_gateway"
	redisRepo "mediq-service/internal/app/services/shared/redis"
	"mediq-service/internal/app/services/shared/storage"

	"github.com/go-chi/chi/v5"
	"github.com/minio/minio-go/v7"
	"github.com/sirupsen/logrus"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)
	lifecycleLog := logrus.New()

	mongoDB := database.NewMongoDB(driverConfig)
	redisClient := database.NewRedisClient(driverConfig)
	rabbitConn := messaging.NewRabbitMQ(driverConfig)
	minioClient := minioDriver.NewMinio(driverConfig)
	smtpClient := mailer.NewSMTPClient(driverConfig, lifecycleLog)

	chiRouter := chi.NewRouter()

	bootstrap := &config.Bootstrap{
		Router:         chiRouter,
		MongoDB:        mongoDB,
		Redis:          redisClient,
		RabbitMQ:       rabbitConn,
		Logger:         zapLogger,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}
	bootstrapApp(bootstrap, minioClient, smtpClient, lifecycleLog)

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: chiRouter,
	}

	go func() {
		lifecycleLog.Printf("Server listening on %s", internalConfig.App.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			lifecycleLog.Fatalf("Server failed to start: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	lifecycleLog.Println("Waiting for pending requests to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		lifecycleLog.Fatalf("Server forced to shutdown: %v", err)
	}
	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		lifecycleLog.Printf("Error during shutdown: %v", err)
	}

	lifecycleLog.Println("Server exiting")
}

func bootstrapApp(bootstrap *config.Bootstrap, minioClient *minio.Client, smtpClient *mailer.SMTPClient, lifecycleLog *logrus.Logger) {
	// Shared services
	redisRepository := redisRepo.NewRedisRepository(bootstrap.Redis)
	lockerService := locker.NewLockService(redisRepository, bootstrap.Logger)
	storageService := storage.NewMinioStorageService(minioClient, bootstrap.DriverConfig, bootstrap.Logger)
	gatewayService := payment_gateway.NewStripeService(bootstrap.InternalConfig, bootstrap.Logger)
	jwtManager := jwtmanager.NewJWTManager(bootstrap.InternalConfig)

	notifierService, err := notifier.NewNotifierService(bootstrap.RabbitMQ, bootstrap.InternalConfig.App.NotificationQueue, bootstrap.Logger)
	if err != nil {
		lifecycleLog.Fatalf("Failed to set up notifier: %v", err)
	}
	notifierWorker, err := notifier.NewWorker(bootstrap.RabbitMQ, smtpClient, bootstrap.InternalConfig.App.NotificationQueue, bootstrap.Logger)
	if err != nil {
		lifecycleLog.Fatalf("Failed to set up notifier worker: %v", err)
	}
	if err := notifierWorker.Start(); err != nil {
		lifecycleLog.Fatalf("Failed to start notifier worker: %v", err)
	}
	bootstrap.NotifierWorkerStop = notifierWorker.Stop

	// Repositories
	dbName := bootstrap.DriverConfig.MongoDB.DbName
	doctorRepository := doctors.NewDoctorMongoRepository(bootstrap.MongoDB, dbName)
	patientRepository := patients.NewPatientMongoRepository(bootstrap.MongoDB, dbName)
	appointmentRepository := appointments.NewAppointmentMongoRepository(bootstrap.MongoDB, dbName)
	txRunner := appointments.NewMongoTransactionRunner(bootstrap.MongoDB)

	// Usecases
	patientUsecase := patients.NewPatientUsecase(patientRepository, appointmentRepository, storageService, jwtManager, bootstrap.Logger)
	doctorUsecase := doctors.NewDoctorUsecase(doctorRepository, appointmentRepository, redisRepository, jwtManager, bootstrap.Logger)
	adminUsecase := admin.NewAdminUsecase(doctorRepository, patientRepository, appointmentRepository, storageService, redisRepository, jwtManager, bootstrap.InternalConfig, bootstrap.Logger)
	bookingUsecase := booking.NewBookingUsecase(doctorRepository, patientRepository, appointmentRepository, txRunner, gatewayService, notifierService, bootstrap.InternalConfig, bootstrap.Logger)
	paymentUsecase := payments.NewPaymentUsecase(appointmentRepository, doctorRepository, txRunner, redisRepository, notifierService, bootstrap.Logger)

	// Sweep worker
	sweepWorker := sweep.NewWorker(bootstrap.Logger, bootstrap.InternalConfig, lockerService, appointmentRepository, doctorRepository, gatewayService, txRunner)
	sweepWorker.Start(context.Background())
	bootstrap.SweepWorkerStop = sweepWorker.Stop

	// HTTP surface
	mw := middlewares.NewMiddlewares(bootstrap.Logger, jwtManager, bootstrap.InternalConfig)
	patientController := controllers.NewPatientController(bootstrap.Logger, patientUsecase, storageService)
	doctorController := controllers.NewDoctorController(bootstrap.Logger, doctorUsecase)
	adminController := controllers.NewAdminController(bootstrap.Logger, adminUsecase, doctorUsecase, storageService)
	bookingController := controllers.NewBookingController(bootstrap.Logger, bookingUsecase)
	webhookController := controllers.NewWebhookController(bootstrap.Logger, paymentUsecase)

	routers.SetupRoutes(bootstrap.Router, bootstrap.InternalConfig, mw, patientController, doctorController, adminController, bookingController, webhookController)
}
