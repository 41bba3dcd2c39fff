package http

import (
	"github.com/coachhub/coachhub/internal/domain/booking"
	"github.com/coachhub/coachhub/internal/domain/coach"
	"github.com/coachhub/coachhub/internal/domain/goal"
	"github.com/coachhub/coachhub/internal/domain/integration"
	"github.com/coachhub/coachhub/internal/domain/payment"
	"github.com/coachhub/coachhub/internal/domain/schedule"
	"github.com/coachhub/coachhub/internal/domain/session"
	"github.com/coachhub/coachhub/internal/domain/subscription"
	"github.com/coachhub/coachhub/internal/domain/user"
	"github.com/coachhub/coachhub/internal/domain/webhook"
	"github.com/coachhub/coachhub/internal/infrastructure/repository"
)

// repositories holds all repository instances used by the application.
// Types match the return types of the repository constructors.
type repositories struct {
	userRepo             user.Repository
	coachProfileRepo     coach.ProfileRepository
	integrationRepo      integration.Repository
	scheduleRepo         schedule.Repository
	bookingRepo          booking.Repository
	proposalRepo         booking.ProposalRepository
	sessionRepo          session.Repository
	goalRepo             goal.Repository
	ticketRepo           *repository.TicketRepository
	ticketCommentRepo    *repository.TicketCommentRepository
	notificationRepo     *repository.NotificationRepository
	subscriptionRepo     subscription.Repository
	subscriptionPlanRepo subscription.PlanRepository
	paymentRepo          payment.PaymentRepository
	disputeRepo          payment.DisputeRepository
	webhookEventRepo     webhook.Repository
}
