package http

import (
	"context"

	"github.com/coachhub/coachhub/internal/interfaces/http/handlers/billing"
	"github.com/coachhub/coachhub/internal/interfaces/http/handlers/coach"
	"github.com/coachhub/coachhub/internal/interfaces/http/handlers/goal"
	"github.com/coachhub/coachhub/internal/interfaces/http/handlers/health"
	"github.com/coachhub/coachhub/internal/interfaces/http/handlers/notification"
	"github.com/coachhub/coachhub/internal/interfaces/http/handlers/scheduling"
	"github.com/coachhub/coachhub/internal/interfaces/http/handlers/session"
	"github.com/coachhub/coachhub/internal/interfaces/http/handlers/ticket"
	"github.com/coachhub/coachhub/internal/interfaces/http/handlers/user"
	"github.com/coachhub/coachhub/internal/interfaces/http/handlers/webhook"
)

// allHandlers holds all HTTP handler instances used by the router.
type allHandlers struct {
	healthHandler       *health.Handler
	userHandler         *user.Handler
	coachHandler        *coach.Handler
	bookingHandler      *scheduling.BookingHandler
	proposalHandler     *scheduling.ProposalHandler
	integrationHandler  *scheduling.IntegrationHandler
	scheduleHandler     *scheduling.ScheduleHandler
	syncHandler         *scheduling.SyncHandler
	sessionHandler      *session.Handler
	goalHandler         *goal.Handler
	ticketHandler       *ticket.TicketHandler
	planHandler         *billing.PlanHandler
	billingHandler      *billing.BillingHandler
	disputeHandler      *billing.DisputeHandler
	notificationHandler *notification.NotificationHandler
	webSocketHandler    *notification.WebSocketHandler
	webhookHandler      *webhook.Handler
}

// newHandlers builds every handler from the container's use cases.
func newHandlers(c *Container) *allHandlers {
	log := c.log
	ucs := c.ucs

	return &allHandlers{
		healthHandler: health.NewHandler(map[string]health.Pinger{
			"database": health.PingFunc(func(ctx context.Context) error {
				sqlDB, err := c.db.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			}),
			"redis": health.PingFunc(func(ctx context.Context) error {
				return c.redis.Ping(ctx).Err()
			}),
		}, log),
		userHandler:  user.NewHandler(ucs.getUser, ucs.updateProfile, ucs.listUsers, ucs.changeRole, log),
		coachHandler: coach.NewHandler(ucs.listCoaches, ucs.getCoach, ucs.upsertCoachProfile, log),
		bookingHandler: scheduling.NewBookingHandler(
			ucs.createBooking, ucs.cancelBooking, ucs.getBooking, ucs.listBookings, ucs.createProposal, log,
		),
		proposalHandler: scheduling.NewProposalHandler(ucs.acceptProposal, ucs.declineProposal, ucs.withdrawProposal, log),
		integrationHandler: scheduling.NewIntegrationHandler(
			ucs.connectCalcom, ucs.startCalendlyConnect, ucs.completeCalendlyConnect,
			ucs.listIntegrations, ucs.disconnectIntegration, c.cfg.Server.FrontendURL, log,
		),
		scheduleHandler: scheduling.NewScheduleHandler(ucs.schedules, log),
		syncHandler:     scheduling.NewSyncHandler(ucs.syncCoachBookings, log),
		sessionHandler: session.NewHandler(
			ucs.getSession, ucs.listSessions, ucs.updateNotes, ucs.submitFeedback, ucs.issueVideoToken, log,
		),
		goalHandler: goal.NewHandler(ucs.goals, log),
		ticketHandler: ticket.NewTicketHandler(
			ucs.createTicket, ucs.getTicket, ucs.listTickets, ucs.addComment,
			ucs.changeStatus, ucs.changePriority, ucs.assignTicket, log,
		),
		planHandler:         billing.NewPlanHandler(ucs.plans, log),
		billingHandler:      billing.NewBillingHandler(ucs.checkout, ucs.getSubscription, log),
		disputeHandler:      billing.NewDisputeHandler(ucs.disputes, log),
		notificationHandler: notification.NewNotificationHandler(ucs.listNotifications, ucs.markRead, ucs.markAllRead, log),
		webSocketHandler:    notification.NewWebSocketHandler(c.hub, c.cfg.Server.AllowedOrigins, log),
		webhookHandler: webhook.NewHandler(
			ucs.handleCalcomWebhook, ucs.handleCalendlyWebhook, ucs.handleClerkWebhook, ucs.handleStripeWebhook, log,
		),
	}
}
