package http

import (
	coachUsecases "github.com/coachhub/coachhub/internal/application/coach/usecases"
	goalUsecases "github.com/coachhub/coachhub/internal/application/goal/usecases"
	notificationUsecases "github.com/coachhub/coachhub/internal/application/notification/usecases"
	paymentUsecases "github.com/coachhub/coachhub/internal/application/payment/usecases"
	schedulingUsecases "github.com/coachhub/coachhub/internal/application/scheduling/usecases"
	sessionUsecases "github.com/coachhub/coachhub/internal/application/session/usecases"
	subscriptionUsecases "github.com/coachhub/coachhub/internal/application/subscription/usecases"
	ticketUsecases "github.com/coachhub/coachhub/internal/application/ticket/usecases"
	userUsecases "github.com/coachhub/coachhub/internal/application/user/usecases"
	"github.com/coachhub/coachhub/internal/application/webhookinbox"
	"github.com/coachhub/coachhub/internal/infrastructure/auth"
	"github.com/coachhub/coachhub/internal/infrastructure/cache"
	shareddb "github.com/coachhub/coachhub/internal/shared/db"
	"github.com/coachhub/coachhub/internal/shared/richtext"
)

// allUseCases holds all use case instances used by handlers and background jobs.
type allUseCases struct {
	// User
	getUser            *userUsecases.GetUserUseCase
	updateProfile      *userUsecases.UpdateProfileUseCase
	listUsers          *userUsecases.ListUsersUseCase
	changeRole         *userUsecases.ChangeRoleUseCase
	handleClerkWebhook *userUsecases.HandleClerkWebhookUseCase

	// Coach directory
	listCoaches        *coachUsecases.ListCoachesUseCase
	getCoach           *coachUsecases.GetCoachUseCase
	upsertCoachProfile *coachUsecases.UpsertProfileUseCase

	// Scheduling
	reconciler              *schedulingUsecases.Reconciler
	connectCalcom           *schedulingUsecases.ConnectCalcomUseCase
	startCalendlyConnect    *schedulingUsecases.StartCalendlyConnectUseCase
	completeCalendlyConnect *schedulingUsecases.CompleteCalendlyConnectUseCase
	listIntegrations        *schedulingUsecases.ListIntegrationsUseCase
	disconnectIntegration   *schedulingUsecases.DisconnectIntegrationUseCase
	schedules               *schedulingUsecases.ScheduleUseCases
	createBooking           *schedulingUsecases.CreateBookingUseCase
	cancelBooking           *schedulingUsecases.CancelBookingUseCase
	getBooking              *schedulingUsecases.GetBookingUseCase
	listBookings            *schedulingUsecases.ListBookingsUseCase
	createProposal          *schedulingUsecases.CreateProposalUseCase
	acceptProposal          *schedulingUsecases.AcceptProposalUseCase
	declineProposal         *schedulingUsecases.DeclineProposalUseCase
	withdrawProposal        *schedulingUsecases.WithdrawProposalUseCase
	expireProposals         *schedulingUsecases.ExpireProposalsUseCase
	syncCoachBookings       *schedulingUsecases.SyncCoachBookingsUseCase
	syncAllBookings         *schedulingUsecases.SyncAllBookingsUseCase
	refreshExpiringTokens   *schedulingUsecases.RefreshExpiringTokensUseCase
	handleCalcomWebhook     *schedulingUsecases.HandleCalcomWebhookUseCase
	handleCalendlyWebhook   *schedulingUsecases.HandleCalendlyWebhookUseCase

	// Sessions & goals
	getSession       *sessionUsecases.GetSessionUseCase
	listSessions     *sessionUsecases.ListSessionsUseCase
	updateNotes      *sessionUsecases.UpdateNotesUseCase
	submitFeedback   *sessionUsecases.SubmitFeedbackUseCase
	issueVideoToken  *sessionUsecases.IssueVideoTokenUseCase
	completeSessions *sessionUsecases.CompleteSessionsUseCase
	goals            *goalUsecases.GoalUseCases

	// Tickets
	createTicket   *ticketUsecases.CreateTicketUseCase
	getTicket      *ticketUsecases.GetTicketUseCase
	listTickets    *ticketUsecases.ListTicketsUseCase
	addComment     *ticketUsecases.AddCommentUseCase
	changeStatus   *ticketUsecases.ChangeStatusUseCase
	changePriority *ticketUsecases.ChangePriorityUseCase
	assignTicket   *ticketUsecases.AssignTicketUseCase

	// Billing
	plans               *subscriptionUsecases.PlanUseCases
	getSubscription     *subscriptionUsecases.GetSubscriptionUseCase
	checkout            *paymentUsecases.CheckoutUseCase
	disputes            *paymentUsecases.DisputeUseCases
	handleStripeWebhook *paymentUsecases.HandleStripeWebhookUseCase

	// Notifications
	listNotifications *notificationUsecases.ListNotificationsUseCase
	markRead          *notificationUsecases.MarkNotificationReadUseCase
	markAllRead       *notificationUsecases.MarkAllReadUseCase
}

// newUseCases builds every use case from the container's repositories and
// infrastructure services.
func newUseCases(c *Container) *allUseCases {
	cfg := c.cfg
	log := c.log
	repos := c.repos
	registry := c.providerRegistry()
	tokens := c.tokenManager
	publisher := c.dispatcher
	inbox := webhookinbox.New(repos.webhookEventRepo, log)
	tx := shareddb.NewTransactionManager(c.db)

	clerkWebhooks, err := auth.NewClerkWebhookVerifier(cfg.Auth.Clerk.WebhookSecret)
	if err != nil {
		log.Fatalw("failed to initialize Clerk webhook verifier", "error", err)
	}

	ucs := &allUseCases{}

	// User
	ucs.getUser = userUsecases.NewGetUserUseCase(repos.userRepo, log)
	ucs.updateProfile = userUsecases.NewUpdateProfileUseCase(repos.userRepo, log)
	ucs.listUsers = userUsecases.NewListUsersUseCase(repos.userRepo, log)
	ucs.changeRole = userUsecases.NewChangeRoleUseCase(repos.userRepo, c.identities, c.coachListingCache, log)
	ucs.handleClerkWebhook = userUsecases.NewHandleClerkWebhookUseCase(repos.userRepo, clerkWebhooks, inbox, c.identities, log)

	// Coach directory
	ucs.listCoaches = coachUsecases.NewListCoachesUseCase(repos.userRepo, repos.coachProfileRepo, c.coachListingCache, log)
	ucs.getCoach = coachUsecases.NewGetCoachUseCase(repos.userRepo, repos.coachProfileRepo, log)
	ucs.upsertCoachProfile = coachUsecases.NewUpsertProfileUseCase(
		repos.userRepo, repos.coachProfileRepo, richtext.NewRenderer(), c.coachListingCache, log,
	)

	// Scheduling: every provider-originated change goes through the reconciler
	ucs.reconciler = schedulingUsecases.NewReconciler(
		repos.bookingRepo, repos.proposalRepo, repos.sessionRepo, repos.userRepo, publisher, log,
	)
	ucs.connectCalcom = schedulingUsecases.NewConnectCalcomUseCase(repos.userRepo, repos.integrationRepo, c.calcomClient, log)
	ucs.startCalendlyConnect = schedulingUsecases.NewStartCalendlyConnectUseCase(repos.userRepo, c.calendlyClient, c.calendlyStates, log)
	ucs.completeCalendlyConnect = schedulingUsecases.NewCompleteCalendlyConnectUseCase(repos.integrationRepo, c.calendlyClient, c.calendlyStates, log)
	ucs.listIntegrations = schedulingUsecases.NewListIntegrationsUseCase(repos.integrationRepo, log)
	ucs.disconnectIntegration = schedulingUsecases.NewDisconnectIntegrationUseCase(repos.integrationRepo, log)
	ucs.schedules = schedulingUsecases.NewScheduleUseCases(repos.scheduleRepo, repos.integrationRepo, registry, tokens, log)

	ucs.createBooking = schedulingUsecases.NewCreateBookingUseCase(
		repos.userRepo, repos.coachProfileRepo, repos.bookingRepo, repos.integrationRepo,
		registry, tokens, ucs.reconciler, log,
	)
	ucs.cancelBooking = schedulingUsecases.NewCancelBookingUseCase(
		repos.bookingRepo, repos.integrationRepo, registry, tokens, ucs.reconciler, log,
	)
	ucs.getBooking = schedulingUsecases.NewGetBookingUseCase(repos.bookingRepo, repos.proposalRepo, log)
	ucs.listBookings = schedulingUsecases.NewListBookingsUseCase(repos.bookingRepo, log)

	ucs.createProposal = schedulingUsecases.NewCreateProposalUseCase(
		repos.bookingRepo, repos.proposalRepo, publisher, cfg.Scheduling.ProposalTTL, log,
	)
	ucs.acceptProposal = schedulingUsecases.NewAcceptProposalUseCase(
		repos.bookingRepo, repos.proposalRepo, repos.integrationRepo,
		registry, tokens, ucs.reconciler, publisher, log,
	)
	ucs.declineProposal = schedulingUsecases.NewDeclineProposalUseCase(repos.bookingRepo, repos.proposalRepo, publisher, log)
	ucs.withdrawProposal = schedulingUsecases.NewWithdrawProposalUseCase(repos.bookingRepo, repos.proposalRepo, log)
	ucs.expireProposals = schedulingUsecases.NewExpireProposalsUseCase(repos.proposalRepo, log)

	ucs.syncCoachBookings = schedulingUsecases.NewSyncCoachBookingsUseCase(
		repos.integrationRepo, repos.bookingRepo, registry, tokens, ucs.reconciler,
		cfg.Scheduling.SyncLookback, cfg.Scheduling.SyncLookahead, log,
	)
	ucs.syncAllBookings = schedulingUsecases.NewSyncAllBookingsUseCase(
		repos.integrationRepo, ucs.syncCoachBookings, cfg.Scheduling.SyncConcurrency, log,
	)
	ucs.refreshExpiringTokens = schedulingUsecases.NewRefreshExpiringTokensUseCase(
		repos.integrationRepo, tokens, cfg.Scheduling.TokenRefresh.ProactiveHorizon, log,
	)
	ucs.handleCalcomWebhook = schedulingUsecases.NewHandleCalcomWebhookUseCase(
		repos.integrationRepo, inbox, ucs.reconciler, cfg.Calcom.WebhookSecret, log,
	)
	ucs.handleCalendlyWebhook = schedulingUsecases.NewHandleCalendlyWebhookUseCase(
		repos.integrationRepo, inbox, ucs.reconciler, cfg.Calendly.WebhookSecret, log,
	)

	// Sessions & goals
	ucs.getSession = sessionUsecases.NewGetSessionUseCase(repos.sessionRepo, log)
	ucs.listSessions = sessionUsecases.NewListSessionsUseCase(repos.sessionRepo, log)
	ucs.updateNotes = sessionUsecases.NewUpdateNotesUseCase(repos.sessionRepo, log)
	ucs.submitFeedback = sessionUsecases.NewSubmitFeedbackUseCase(repos.sessionRepo, log)
	ucs.issueVideoToken = sessionUsecases.NewIssueVideoTokenUseCase(
		repos.sessionRepo, c.videoSigner(), cfg.Scheduling.VideoJoinLeadTime, log,
	)
	ucs.completeSessions = sessionUsecases.NewCompleteSessionsUseCase(repos.sessionRepo, repos.bookingRepo, log)
	ucs.goals = goalUsecases.NewGoalUseCases(repos.goalRepo, repos.userRepo, log)

	// Tickets
	ucs.createTicket = ticketUsecases.NewCreateTicketUseCase(
		repos.ticketRepo, repos.bookingRepo, cache.NewTicketNumberGenerator(c.redis), publisher, log,
	)
	ucs.getTicket = ticketUsecases.NewGetTicketUseCase(repos.ticketRepo, repos.ticketCommentRepo, log)
	ucs.listTickets = ticketUsecases.NewListTicketsUseCase(repos.ticketRepo, log)
	ucs.addComment = ticketUsecases.NewAddCommentUseCase(repos.ticketRepo, repos.ticketCommentRepo, tx, log)
	ucs.changeStatus = ticketUsecases.NewChangeStatusUseCase(repos.ticketRepo, publisher, log)
	ucs.changePriority = ticketUsecases.NewChangePriorityUseCase(repos.ticketRepo, log)
	ucs.assignTicket = ticketUsecases.NewAssignTicketUseCase(repos.ticketRepo, repos.userRepo, publisher, log)

	// Billing
	ucs.plans = subscriptionUsecases.NewPlanUseCases(repos.subscriptionPlanRepo, log)
	ucs.getSubscription = subscriptionUsecases.NewGetSubscriptionUseCase(repos.subscriptionRepo, repos.subscriptionPlanRepo, log)
	ucs.checkout = paymentUsecases.NewCheckoutUseCase(
		repos.subscriptionPlanRepo, repos.subscriptionRepo, repos.paymentRepo, repos.userRepo,
		c.stripeGateway,
		paymentUsecases.RedirectURLs{Success: cfg.Stripe.SuccessURL, Cancel: cfg.Stripe.CancelURL},
		log,
	)
	ucs.disputes = paymentUsecases.NewDisputeUseCases(repos.disputeRepo, c.stripeGateway, log)
	ucs.handleStripeWebhook = paymentUsecases.NewHandleStripeWebhookUseCase(
		c.stripeGateway, inbox, repos.paymentRepo, repos.subscriptionRepo,
		repos.subscriptionPlanRepo, repos.disputeRepo, tx, publisher, log,
	)

	// Notifications
	ucs.listNotifications = notificationUsecases.NewListNotificationsUseCase(repos.notificationRepo, log)
	ucs.markRead = notificationUsecases.NewMarkNotificationReadUseCase(repos.notificationRepo, log)
	ucs.markAllRead = notificationUsecases.NewMarkAllReadUseCase(repos.notificationRepo, log)

	return ucs
}
