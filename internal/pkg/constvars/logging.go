package constvars

const (
	LoggingRequestIDKey     = "request_id"
	LoggingDataKey          = "data"
	LoggingRequestKey       = "request"
	LoggingResponseKey      = "response"
	LoggingEndpointKey      = "endpoint"
	LoggingMethodKey        = "method"
	LoggingRemoteAddrKey    = "remote_addr"
	LoggingUserAgentKey     = "user_agent"
	LoggingQueryKey         = "query"
	LoggingStatusCodeKey    = "status_code"
	LoggingDurationKey      = "duration"
	LoggingSuccessKey       = "success"
	LoggingErrorTypeKey     = "error_type"
	LoggingDoctorIDKey      = "doctor_id"
	LoggingPatientIDKey     = "patient_id"
	LoggingAppointmentIDKey = "appointment_id"
	LoggingSessionIDKey     = "session_id"
	LoggingEventIDKey       = "event_id"
	LoggingEventTypeKey     = "event_type"
	LoggingSlotDateKey      = "slot_date"
	LoggingSlotTimeKey      = "slot_time"
	LoggingRefundIDKey      = "refund_id"
	LoggingRedisKey         = "redis_key"
	LoggingLockTTLKey       = "lock_ttl"
)
