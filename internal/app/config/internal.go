package config

import "time"

type InternalConfig struct {
	App            App
	JWT            AppJWT
	Admin          AppAdmin
	PaymentGateway AppPaymentGateway
}

type App struct {
	Env                                   string
	Port                                  string
	Version                               string
	Address                               string
	FrontendURL                           string
	EndpointPrefix                        string
	MaxRequests                           int
	ShutdownTimeoutInSeconds              int
	CheckoutExpiryInMinutes               int
	SweepGraceInMinutes                   int
	SweepCronSpec                         string
	SweepLockTTL                          time.Duration
	PaymentGatewayRequestTimeoutInSeconds int
	NotificationQueue                     string
}

type AppJWT struct {
	Secret        string
	ExpTimeInHour int
}

type AppAdmin struct {
	Email    string
	Password string
}

type AppPaymentGateway struct {
	BaseUrl          string
	ApiKey           string
	WebhookSecret    string
	RequestsPerSec   int
	RequestsBurst    int
	RefundReason     string
	SuccessRedirect  string
	CancelRedirect   string
	CheckoutCurrency string
}
