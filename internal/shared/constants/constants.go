package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// Default pagination
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// HTTP Headers
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"

	// Clerk stores the session token in this cookie for same-site requests
	SessionCookieName = "__session"

	// Context keys
	ContextKeyUserID      = "user_id"
	ContextKeyUserRole    = "user_role"
	ContextKeySessionID   = "session_id"
	ContextKeyRequestID   = "request_id"
	ContextKeyClerkUserID = "clerk_user_id"

	// Error messages
	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgUnauthorized        = "Unauthorized access"
	ErrMsgForbidden           = "Access forbidden"
)

// Table names
const (
	TableUsers             = "users"
	TableCoachProfiles     = "coach_profiles"
	TableIntegrations      = "integrations"
	TableSchedules         = "schedules"
	TableBookings          = "bookings"
	TableBookingProposals  = "booking_proposals"
	TableSessions          = "sessions"
	TableGoals             = "goals"
	TableTickets           = "tickets"
	TableTicketComments    = "ticket_comments"
	TableSubscriptionPlans = "subscription_plans"
	TableSubscriptions     = "subscriptions"
	TablePayments          = "payments"
	TableDisputes          = "disputes"
	TableWebhookEvents     = "webhook_events"
	TableNotifications     = "notifications"
)
