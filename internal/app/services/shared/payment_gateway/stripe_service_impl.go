package payment_gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"mediq-service/internal/app/config"
	"mediq-service/internal/app/contracts"
	"mediq-service/internal/pkg/constvars"
	"mediq-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var (
	stripeServiceInstance contracts.PaymentGatewayService
	onceStripeService     sync.Once
)

type stripeService struct {
	BaseUrl    string
	ApiKey     string
	HTTPClient *http.Client
	Limiter    *rate.Limiter
	Log        *zap.Logger
}

func NewStripeService(internalConfig *config.InternalConfig, logger *zap.Logger) contracts.PaymentGatewayService {
	onceStripeService.Do(func() {
		instance := &stripeService{
			BaseUrl: internalConfig.PaymentGateway.BaseUrl,
			ApiKey:  internalConfig.PaymentGateway.ApiKey,
			HTTPClient: &http.Client{
				Timeout: time.Duration(internalConfig.App.PaymentGatewayRequestTimeoutInSeconds) * time.Second,
			},
			Limiter: rate.NewLimiter(
				rate.Limit(internalConfig.PaymentGateway.RequestsPerSec),
				internalConfig.PaymentGateway.RequestsBurst,
			),
			Log: logger,
		}
		stripeServiceInstance = instance
	})
	return stripeServiceInstance
}

type checkoutSessionPayload struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	Status        string `json:"status"`
	PaymentIntent string `json:"payment_intent"`
}

type refundPayload struct {
	ID string `json:"id"`
}

type gatewayErrorPayload struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (s *stripeService) CreateCheckoutSession(ctx context.Context, input *contracts.CreateCheckoutSessionInput) (*contracts.CheckoutSession, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Info("stripeService.CreateCheckoutSession called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, input.AppointmentID),
	)

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("expires_at", strconv.FormatInt(input.ExpiresAt.Unix(), 10))
	form.Set("line_items[0][price_data][currency]", input.Currency)
	form.Set("line_items[0][price_data][product_data][name]", input.ProductName)
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(input.Amount*100, 10))
	form.Set("line_items[0][quantity]", "1")
	form.Set("metadata[appointment_id]", input.AppointmentID)
	form.Set("success_url", input.SuccessURL)
	form.Set("cancel_url", input.CancelURL)

	var payload checkoutSessionPayload
	if err := s.postForm(ctx, "/checkout/sessions", form, &payload); err != nil {
		s.Log.Error("stripeService.CreateCheckoutSession gateway call failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrGatewayCreateSession(err)
	}

	return &contracts.CheckoutSession{ID: payload.ID, URL: payload.URL}, nil
}

func (s *stripeService) CreateRefund(ctx context.Context, paymentIntentID, reason string) (*contracts.Refund, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Info("stripeService.CreateRefund called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	form := url.Values{}
	form.Set("payment_intent", paymentIntentID)
	form.Set("reason", reason)

	var payload refundPayload
	if err := s.postForm(ctx, "/refunds", form, &payload); err != nil {
		s.Log.Error("stripeService.CreateRefund gateway call failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrGatewayCreateRefund(err)
	}

	return &contracts.Refund{ID: payload.ID}, nil
}

func (s *stripeService) GetCheckoutSession(ctx context.Context, sessionID string) (*contracts.CheckoutSessionStatus, error) {
	if err := s.Limiter.Wait(ctx); err != nil {
		return nil, exceptions.ErrGatewayGetSession(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseUrl+"/checkout/sessions/"+url.PathEscape(sessionID), nil)
	if err != nil {
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderAuthorization, "Bearer "+s.ApiKey)

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, exceptions.ErrGatewayGetSession(err)
	}
	if resp.StatusCode >= 400 {
		return nil, exceptions.ErrGatewayGetSession(decodeGatewayError(resp.StatusCode, body))
	}

	var payload checkoutSessionPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, exceptions.ErrGatewayGetSession(err)
	}

	return &contracts.CheckoutSessionStatus{
		ID:              payload.ID,
		Status:          payload.Status,
		PaymentIntentID: payload.PaymentIntent,
	}, nil
}

func (s *stripeService) postForm(ctx context.Context, path string, form url.Values, out interface{}) error {
	if err := s.Limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseUrl+path, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationForm)
	req.Header.Set(constvars.HeaderAuthorization, "Bearer "+s.ApiKey)

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return decodeGatewayError(resp.StatusCode, body)
	}

	return json.Unmarshal(body, out)
}

func decodeGatewayError(statusCode int, body []byte) error {
	var payload gatewayErrorPayload
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error.Message != "" {
		return fmt.Errorf("gateway returned %d: %s (%s)", statusCode, payload.Error.Message, payload.Error.Type)
	}
	return fmt.Errorf("gateway returned %d", statusCode)
}
