package middlewares

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"

	"mediq-service/internal/pkg/constvars"
	"mediq-service/internal/pkg/exceptions"
	"mediq-service/internal/pkg/utils"
)

const maxWebhookBodyBytes = 1 << 20

// VerifyWebhookSignature authenticates provider events at the boundary: the
// signature header must carry the hex HMAC-SHA256 of the raw body under the
// shared webhook secret. The body is rewound for the downstream handler.
func (m *Middlewares) VerifyWebhookSignature(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		signature := r.Header.Get(constvars.HeaderWebhookSignature)
		if signature == "" {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrWebhookSignatureMissing(nil))
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBodyBytes))
		if err != nil {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrCannotParseJSON(err))
			return
		}
		r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(body))

		mac := hmac.New(sha256.New, []byte(m.InternalConfig.PaymentGateway.WebhookSecret))
		mac.Write(body)
		expected := hex.EncodeToString(mac.Sum(nil))

		if !hmac.Equal([]byte(expected), []byte(signature)) {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrWebhookSignatureMismatch(nil))
			return
		}

		next.ServeHTTP(w, r)
	})
}
