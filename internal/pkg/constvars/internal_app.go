package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "requestID"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "isClientRequestID"
	CONTEXT_ACTOR_ID_KEY             ContextKey = "actorID"
	CONTEXT_ACTOR_ROLE_KEY           ContextKey = "actorRole"
)

const (
	ActorRolePatient = "patient"
	ActorRoleDoctor  = "doctor"
	ActorRoleAdmin   = "admin"
)

const (
	MongoCollectionDoctors      = "doctors"
	MongoCollectionPatients     = "patients"
	MongoCollectionAppointments = "appointments"
)

const (
	RedisKeyDoctorList          = "doctors:list"
	RedisKeyWebhookEventFormat  = "webhook:event:%s"
	RedisKeySweepLeader         = "sweep:leader"
	RedisDoctorListCacheTTL     = 60
	RedisWebhookDedupTTLInHours = 24
)

// Slot date keys follow the original storefront convention, e.g. "5_6_2025"
// for 5 June 2025. Times are display strings such as "10:00AM".
const (
	SlotDateKeyFormat = "%d_%d_%d"
)

const (
	CheckoutCurrency = "inr"
	CheckoutProduct  = "Doctor Appointment"
)
