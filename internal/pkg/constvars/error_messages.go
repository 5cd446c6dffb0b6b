package constvars

// Client-facing error messages. Kept user readable, never leaking internals.
const (
	ErrClientSomethingWrongWithApplication = "Something went wrong with the application, please try again later"
	ErrClientCannotProcessRequest          = "Cannot process your request, please check your input"
	ErrClientNotAuthorized                 = "You are not authorized to perform this action"
	ErrClientNotLoggedIn                   = "You are not logged in or your session has expired"
	ErrClientInvalidUsernameOrPassword     = "Invalid email or password"
	ErrClientSlotUnavailable               = "Slot not available, please pick another slot"
	ErrClientAppointmentNotFound           = "Appointment not found"
	ErrClientDoctorNotFound                = "Doctor not found"
	ErrClientPatientNotFound               = "Patient not found"
	ErrClientEmailAlreadyExists            = "An account with this email already exists"
	ErrClientPaymentReferenceMissing       = "Cannot cancel: payment reference missing, please contact support"
	ErrClientAppointmentStateConflict      = "Appointment changed while processing, please retry"
	ErrClientPaymentGatewayUnavailable     = "Payment service is temporarily unavailable, please try again"
	ErrClientInvalidImageFormat            = "Invalid image format"
	ErrClientServerLongRespond             = "Server took too long to respond, please try again"
	ErrClientWeakPassword                  = "Try a stronger password"
)

// Developer messages, logged but hidden from clients in production.
const (
	ErrDevValidationFailed            = "Request validation failed"
	ErrDevCannotParseJSON             = "Failed to parse JSON body"
	ErrDevCannotParseMultipartForm    = "Failed to parse multipart form"
	ErrDevFailedToHashPassword        = "Failed to hash password"
	ErrDevInvalidCredentials          = "Credentials do not match"
	ErrDevAuthTokenMissing            = "Authorization token missing from request"
	ErrDevAuthTokenInvalidOrExpired   = "Authorization token invalid or expired"
	ErrDevAuthGenerateToken           = "Failed to sign authorization token"
	ErrDevActorMismatch               = "Actor does not own the referenced appointment"
	ErrDevActorRoleNotAllowed         = "Actor role is not admitted for this endpoint"
	ErrDevSlotUnavailable             = "Conditional slot reservation matched no doctor document"
	ErrDevAppointmentNotFound         = "No appointment document for the given ID"
	ErrDevDoctorNotFound              = "No doctor document for the given ID"
	ErrDevPatientNotFound             = "No patient document for the given ID"
	ErrDevEmailAlreadyExists          = "Email already present in collection"
	ErrDevPaymentReferenceMissing     = "Confirmed appointment has no capture reference recorded"
	ErrDevAppointmentStateConflict    = "Appointment status changed concurrently, conditional update matched nothing"
	ErrDevMissingRequestID            = "Request ID missing from context"
	ErrDevServerDeadlineExceeded      = "Handler context deadline exceeded"
	ErrDevServerProcess               = "Unhandled server error"
	ErrDevDBFailedToFindDocument      = "MongoDB failed to find document"
	ErrDevDBFailedToInsertDocument    = "MongoDB failed to insert document"
	ErrDevDBFailedToUpdateDocument    = "MongoDB failed to update document"
	ErrDevDBFailedToIterateDocuments  = "MongoDB failed to iterate cursor"
	ErrDevDBStringNotObjectID         = "String is not a valid ObjectID"
	ErrDevDBTransactionFailed         = "MongoDB transaction aborted"
	ErrDevRedisGetData                = "Redis failed to get data"
	ErrDevRedisSetData                = "Redis failed to set data"
	ErrDevRedisDeleteData             = "Redis failed to delete data"
	ErrDevGatewayCreateSession        = "Payment gateway failed to create checkout session"
	ErrDevGatewayCreateRefund         = "Payment gateway failed to create refund"
	ErrDevGatewayGetSession           = "Payment gateway failed to fetch checkout session"
	ErrDevCreateHTTPRequest           = "Failed to build outbound HTTP request"
	ErrDevSendHTTPRequest             = "Failed to send outbound HTTP request"
	ErrDevMinioFailedToCreateObject   = "Minio failed to store object in bucket %s"
	ErrDevMinioFailedToPresignObject  = "Minio failed to presign object in bucket %s"
	ErrDevRabbitMQPublish             = "RabbitMQ failed to publish to queue %s"
	ErrDevWebhookSignatureMissing     = "Webhook signature header missing"
	ErrDevWebhookSignatureMismatch    = "Webhook signature does not match payload digest"
	ErrDevWebhookUnknownEventType     = "Webhook event type is not handled"
	ErrDevCannotMarshalJSON           = "Failed to marshal value to JSON"
	ErrDevImageValidationFailed       = "Uploaded file failed image validation"
	ErrDevAdminCredentialsDoNotMatch  = "Admin credentials do not match configured values"
	ErrDevAppointmentNotOwnedByDoctor = "Appointment does not belong to the acting doctor"
)
