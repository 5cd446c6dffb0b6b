package config

import (
	"time"

	"mediq-service/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		MongoDB: MongoDB{
			Port:     utils.GetEnvString("MONGODB_PORT", "27017"),
			Host:     utils.GetEnvString("MONGODB_HOST", "localhost"),
			DbName:   utils.GetEnvString("MONGODB_DB_NAME", "mediq"),
			Username: utils.GetEnvString("MONGODB_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MONGODB_PASSWORD", "defaultPassword"),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
		RabbitMQ: RabbitMQ{
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "defaultPassword"),
		},
		Minio: Minio{
			Port:       utils.GetEnvString("MINIO_PORT", "9000"),
			Host:       utils.GetEnvString("MINIO_HOST", "localhost"),
			Username:   utils.GetEnvString("MINIO_USERNAME", "defaultUsername"),
			Password:   utils.GetEnvString("MINIO_PASSWORD", "defaultPassword"),
			BucketName: utils.GetEnvString("MINIO_BUCKET_NAME", "mediq-images"),
			UseSSL:     utils.GetEnvBool("MINIO_USE_SSL", false),
		},
		SMTP: SMTP{
			Host:        utils.GetEnvString("SMTP_HOST", "localhost"),
			Port:        utils.GetEnvInt("SMTP_PORT", 2525),
			Username:    utils.GetEnvString("SMTP_USERNAME", ""),
			Password:    utils.GetEnvString("SMTP_PASSWORD", ""),
			EmailSender: utils.GetEnvString("SMTP_EMAIL_SENDER", "no-reply@mediq.local"),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                                   utils.GetEnvString("APP_ENV", "development"),
			Port:                                  utils.GetEnvString("APP_PORT", ":8080"),
			Version:                               utils.GetEnvString("APP_VERSION", "v1"),
			Address:                               utils.GetEnvString("APP_ADDRESS", "localhost"),
			FrontendURL:                           utils.GetEnvString("APP_FRONTEND_URL", "http://localhost:5173"),
			EndpointPrefix:                        utils.GetEnvString("APP_ENDPOINT_PREFIX", "api"),
			MaxRequests:                           utils.GetEnvInt("APP_MAX_REQUESTS", 10),
			ShutdownTimeoutInSeconds:              utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT_IN_SECONDS", 10),
			CheckoutExpiryInMinutes:               utils.GetEnvInt("APP_CHECKOUT_EXPIRY_IN_MINUTES", 30),
			SweepGraceInMinutes:                   utils.GetEnvInt("APP_SWEEP_GRACE_IN_MINUTES", 15),
			SweepCronSpec:                         utils.GetEnvString("APP_SWEEP_CRON_SPEC", "@every 10m"),
			SweepLockTTL:                          utils.GetEnvDuration("APP_SWEEP_LOCK_TTL", 2*time.Minute),
			PaymentGatewayRequestTimeoutInSeconds: utils.GetEnvInt("APP_PAYMENT_GATEWAY_REQUEST_TIMEOUT_IN_SECONDS", 15),
			NotificationQueue:                     utils.GetEnvString("APP_RABBITMQ_NOTIFICATION_QUEUE", "appointment_notifications"),
		},
		JWT: AppJWT{
			Secret:        utils.GetEnvString("JWT_SECRET", "anyjwt"),
			ExpTimeInHour: utils.GetEnvInt("JWT_EXP_TIME_IN_HOUR", 24),
		},
		Admin: AppAdmin{
			Email:    utils.GetEnvString("ADMIN_EMAIL", ""),
			Password: utils.GetEnvString("ADMIN_PASSWORD", ""),
		},
		PaymentGateway: AppPaymentGateway{
			BaseUrl:          utils.GetEnvString("PAYMENT_GATEWAY_BASE_URL", "https://api.stripe.com/v1"),
			ApiKey:           utils.GetEnvString("PAYMENT_GATEWAY_API_KEY", ""),
			WebhookSecret:    utils.GetEnvString("PAYMENT_GATEWAY_WEBHOOK_SECRET", ""),
			RequestsPerSec:   utils.GetEnvInt("PAYMENT_GATEWAY_REQUESTS_PER_SEC", 10),
			RequestsBurst:    utils.GetEnvInt("PAYMENT_GATEWAY_REQUESTS_BURST", 20),
			RefundReason:     utils.GetEnvString("PAYMENT_GATEWAY_REFUND_REASON", "requested_by_customer"),
			SuccessRedirect:  utils.GetEnvString("PAYMENT_GATEWAY_SUCCESS_REDIRECT", "/my-appointments"),
			CancelRedirect:   utils.GetEnvString("PAYMENT_GATEWAY_CANCEL_REDIRECT", "/my-appointments"),
			CheckoutCurrency: utils.GetEnvString("PAYMENT_GATEWAY_CHECKOUT_CURRENCY", "inr"),
		},
	}
}
