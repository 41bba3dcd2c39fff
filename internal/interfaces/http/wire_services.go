package http

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	notificationUsecases "github.com/coachhub/coachhub/internal/application/notification/usecases"
	"github.com/coachhub/coachhub/internal/application/scheduling/provider"
	"github.com/coachhub/coachhub/internal/application/scheduling/tokenmanager"
	sessionUsecases "github.com/coachhub/coachhub/internal/application/session/usecases"
	"github.com/coachhub/coachhub/internal/domain/shared/events"
	"github.com/coachhub/coachhub/internal/infrastructure/auth"
	"github.com/coachhub/coachhub/internal/infrastructure/cache"
	"github.com/coachhub/coachhub/internal/infrastructure/calcom"
	"github.com/coachhub/coachhub/internal/infrastructure/calendly"
	"github.com/coachhub/coachhub/internal/infrastructure/config"
	"github.com/coachhub/coachhub/internal/infrastructure/email"
	"github.com/coachhub/coachhub/internal/infrastructure/permission"
	"github.com/coachhub/coachhub/internal/infrastructure/pubsub"
	"github.com/coachhub/coachhub/internal/infrastructure/ratelimit"
	"github.com/coachhub/coachhub/internal/infrastructure/realtime"
	"github.com/coachhub/coachhub/internal/infrastructure/repository"
	"github.com/coachhub/coachhub/internal/infrastructure/scheduler"
	"github.com/coachhub/coachhub/internal/infrastructure/stripegateway"
	"github.com/coachhub/coachhub/internal/infrastructure/token"
	"github.com/coachhub/coachhub/internal/infrastructure/zoom"
	"github.com/coachhub/coachhub/internal/interfaces/http/middleware"
	apperrors "github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/goroutine"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

const (
	eventBufferSize     = 256
	calendlyStatePrefix = "oauth:state:calendly:"
	calendlyStateTTL    = 10 * time.Minute
)

// ============================================================
// Section 1: Infrastructure - Redis, Repositories, Auth, Middlewares
// ============================================================

// initInfrastructure initializes Redis, all repositories, session
// verification, the permission enforcer and the shared middlewares.
func (c *Container) initInfrastructure() {
	cfg := c.cfg
	log := c.log

	// Initialize Redis client
	c.redis = initRedis(cfg, log)

	// Provider tokens are sealed before they reach the database
	cipher, err := token.NewCipher(cfg.Scheduling.EncryptionKeyBase64)
	if err != nil {
		log.Fatalw("invalid scheduling.encryption_key", "error", err)
	}

	// Initialize all repositories
	c.repos = newRepositories(c.db, cipher, log)

	// Initialize session verification
	verifier := newSessionVerifier(cfg, log)
	c.identities = auth.NewIdentityCache()

	c.enforcer, err = permission.NewEnforcer(c.db, log)
	if err != nil {
		log.Fatalw("failed to initialize permission enforcer", "error", err)
	}

	// Initialize middlewares
	c.authMiddleware = middleware.NewAuthMiddleware(verifier, c.repos.userRepo, c.identities, log)
	c.permissionMiddleware = middleware.NewPermissionMiddleware(c.enforcer, log)
	c.rateLimiter = middleware.NewRateLimiter(ratelimit.NewRedisRateLimiter(c.redis), log)

	// Initialize caches
	c.coachListingCache = cache.NewCoachListingCache(c.redis, cfg.Scheduling.CoachListingTTL)
	c.calendlyStates = cache.NewRedisStateStore(c.redis, calendlyStatePrefix, calendlyStateTTL)
}

// initRedis creates and tests the Redis client connection.
func initRedis(cfg *config.Config, log logger.Interface) *redis.Client {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalw("failed to connect to Redis", "error", err)
	}
	log.Infow("Redis connection established successfully")

	return redisClient
}

// newSessionVerifier prefers Clerk's networkless JWT verification and falls
// back to HMAC-signed tokens when only a dev secret is configured.
func newSessionVerifier(cfg *config.Config, log logger.Interface) auth.Verifier {
	clerk := cfg.Auth.Clerk
	if clerk.PEMPublicKey != "" {
		v, err := auth.NewClerkVerifier(clerk.PEMPublicKey, clerk.AuthorizedParties)
		if err != nil {
			log.Fatalw("failed to initialize Clerk verifier", "error", err)
		}
		return v
	}
	if clerk.DevSecret == "" {
		log.Fatalw("auth.clerk.pem_public_key or auth.clerk.dev_secret is required")
	}
	log.Warnw("accepting HMAC-signed session tokens; dev_secret must not be set in production")
	return auth.NewHMACVerifier(clerk.DevSecret)
}

// newRepositories creates all repository instances from the database connection.
func newRepositories(db *gorm.DB, cipher *token.Cipher, log logger.Interface) *repositories {
	return &repositories{
		userRepo:             repository.NewUserRepository(db, log),
		coachProfileRepo:     repository.NewCoachProfileRepository(db, log),
		integrationRepo:      repository.NewIntegrationRepository(db, cipher, log),
		scheduleRepo:         repository.NewScheduleRepository(db, log),
		bookingRepo:          repository.NewBookingRepository(db, log),
		proposalRepo:         repository.NewProposalRepository(db, log),
		sessionRepo:          repository.NewSessionRepository(db, log),
		goalRepo:             repository.NewGoalRepository(db, log),
		ticketRepo:           repository.NewTicketRepository(db, log),
		ticketCommentRepo:    repository.NewTicketCommentRepository(db),
		notificationRepo:     repository.NewNotificationRepository(db, log),
		subscriptionRepo:     repository.NewSubscriptionRepository(db, log),
		subscriptionPlanRepo: repository.NewPlanRepository(db, log),
		paymentRepo:          repository.NewPaymentRepository(db, log),
		disputeRepo:          repository.NewDisputeRepository(db, log),
		webhookEventRepo:     repository.NewWebhookEventRepository(db, log),
	}
}

// ============================================================
// Section 2: Integrations - Provider clients, Token manager, Stripe
// ============================================================

// initIntegrations builds the Cal.com and Calendly clients, the token
// manager that refreshes their credentials, and the Stripe gateway.
func (c *Container) initIntegrations() {
	cfg := c.cfg
	log := c.log

	c.calcomClient = calcom.NewClient(cfg.Calcom, log)
	c.calendlyClient = calendly.NewClient(cfg.Calendly, log)

	c.tokenManager = tokenmanager.NewManager(
		c.repos.integrationRepo,
		[]provider.Client{c.calcomClient, c.calendlyClient},
		cache.NewRefreshLock(c.redis),
		cfg.Scheduling.TokenRefresh,
		log,
	)

	c.stripeGateway = stripegateway.NewGateway(cfg.Stripe, log)
}

// providerRegistry resolves a client by provider for the scheduling use cases.
func (c *Container) providerRegistry() provider.Registry {
	return provider.NewRegistry(c.calcomClient, c.calendlyClient)
}

// videoSigner returns the Zoom signer, or one that reports the feature as
// unavailable when no SDK credentials are configured.
func (c *Container) videoSigner() sessionUsecases.VideoSigner {
	signer, err := zoom.NewSigner(c.cfg.Zoom)
	if err != nil {
		c.log.Warnw("video tokens disabled", "reason", err)
		return unavailableVideoSigner{}
	}
	return signer
}

type unavailableVideoSigner struct{}

func (unavailableVideoSigner) Sign(zoom.TokenRequest) (*zoom.Token, error) {
	return nil, apperrors.NewUpstreamError("video provider is not configured")
}

// ============================================================
// Section 3: Events & Notifications - Dispatcher, Hub, Bus, Notifier
// ============================================================

// initNotifications wires domain events to the notifier. Frames reach local
// sockets through the hub and other instances through the Redis bus.
func (c *Container) initNotifications() {
	log := c.log

	c.dispatcher = events.NewInMemoryEventDispatcher(eventBufferSize, log)
	c.hub = realtime.NewHub(log)
	c.notificationBus = pubsub.NewRedisNotificationBus(c.redis, c.hub, log)
	c.mailer = email.NewSMTPEmailService(c.cfg.Email, log)

	c.notifier = notificationUsecases.NewNotifier(
		c.repos.notificationRepo, c.repos.userRepo,
		c.mailer, c.notificationBus, log,
	)
	if err := c.notifier.Register(c.dispatcher); err != nil {
		log.Fatalw("failed to register notifier", "error", err)
	}
}

// startNotificationBus runs the cross-instance relay until Shutdown.
func (c *Container) startNotificationBus() {
	c.notificationBusMu.Lock()
	defer c.notificationBusMu.Unlock()

	if c.notificationBusCancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.notificationBusCancel = cancel

	goroutine.SafeGo(c.log, "notification-bus-subscriber", func() {
		logSubscriberExit(c.log, "notification bus subscriber", c.notificationBus.Run(ctx))
	})
}

// ============================================================
// Section 6: Scheduler jobs
// ============================================================

// initScheduler registers the maintenance jobs. The scheduler is started by
// Start so that one-shot commands never run it.
func (c *Container) initScheduler() {
	if !c.cfg.Scheduler.Enabled {
		c.log.Infow("scheduler disabled")
		return
	}

	manager, err := scheduler.NewSchedulerManager(c.log)
	if err != nil {
		c.log.Fatalw("failed to create scheduler", "error", err)
	}

	ucs := c.ucs
	jobs := scheduler.MaintenanceJobs{
		RefreshTokens: scheduler.BatchJobFunc(func(ctx context.Context) (int, error) {
			res, err := ucs.refreshExpiringTokens.Execute(ctx)
			if err != nil {
				return 0, err
			}
			return res.Refreshed, nil
		}),
		SyncBookings: scheduler.BatchJobFunc(func(ctx context.Context) (int, error) {
			res, err := ucs.syncAllBookings.Execute(ctx)
			if err != nil {
				return 0, err
			}
			return res.Created + res.Updated + res.Cancelled, nil
		}),
		ExpireProposals: ucs.expireProposals,
		CompleteSessions: scheduler.BatchJobFunc(func(ctx context.Context) (int, error) {
			res, err := ucs.completeSessions.Execute(ctx)
			if err != nil {
				return 0, err
			}
			return res.Completed + res.NoShow + res.Cancelled + res.BookingsCompleted, nil
		}),
	}
	if err := manager.RegisterMaintenanceJobs(jobs, c.cfg.Scheduler); err != nil {
		c.log.Fatalw("failed to register scheduled jobs", "error", err)
	}
	c.schedulerManager = manager
}

// logSubscriberExit logs a subscriber exit at the appropriate level.
// Context cancellation during shutdown is expected and logged at INFO;
// unexpected errors are logged at ERROR.
func logSubscriberExit(log logger.Interface, name string, err error) {
	if err == nil || errors.Is(err, context.Canceled) {
		log.Infow(name+" stopped", "reason", "context canceled")
		return
	}
	log.Errorw(name+" failed", "error", err)
}
