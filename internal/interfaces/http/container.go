package http

import (
	"context"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	notificationUsecases "github.com/coachhub/coachhub/internal/application/notification/usecases"
	"github.com/coachhub/coachhub/internal/application/scheduling/tokenmanager"
	schedulingUsecases "github.com/coachhub/coachhub/internal/application/scheduling/usecases"
	"github.com/coachhub/coachhub/internal/domain/shared/events"
	"github.com/coachhub/coachhub/internal/infrastructure/auth"
	"github.com/coachhub/coachhub/internal/infrastructure/cache"
	"github.com/coachhub/coachhub/internal/infrastructure/calcom"
	"github.com/coachhub/coachhub/internal/infrastructure/calendly"
	"github.com/coachhub/coachhub/internal/infrastructure/config"
	"github.com/coachhub/coachhub/internal/infrastructure/email"
	"github.com/coachhub/coachhub/internal/infrastructure/permission"
	"github.com/coachhub/coachhub/internal/infrastructure/pubsub"
	"github.com/coachhub/coachhub/internal/infrastructure/realtime"
	"github.com/coachhub/coachhub/internal/infrastructure/scheduler"
	"github.com/coachhub/coachhub/internal/infrastructure/stripegateway"
	"github.com/coachhub/coachhub/internal/interfaces/http/middleware"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

// Container holds all infrastructure components, repositories, use cases, handlers,
// and background services. It is responsible for wiring everything together and
// providing a Shutdown() method for graceful termination.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	// Repositories
	repos *repositories

	// Use cases
	ucs *allUseCases

	// Handlers
	hdlrs *allHandlers

	// Middlewares
	authMiddleware       *middleware.AuthMiddleware
	permissionMiddleware *middleware.PermissionMiddleware
	rateLimiter          *middleware.RateLimiter

	// Auth & permission infrastructure
	identities *auth.IdentityCache
	enforcer   *permission.Enforcer

	// Provider clients and the token lifecycle
	calcomClient   *calcom.Client
	calendlyClient *calendly.Client
	tokenManager   *tokenmanager.Manager
	stripeGateway  *stripegateway.Gateway

	// Caches
	coachListingCache *cache.CoachListingCache
	calendlyStates    *cache.RedisStateStore

	// Events and notification delivery
	dispatcher *events.InMemoryEventDispatcher
	notifier   *notificationUsecases.Notifier
	mailer     *email.SMTPEmailService
	hub        *realtime.Hub

	// Notification bus for cross-instance WebSocket relay
	notificationBus       *pubsub.RedisNotificationBus
	notificationBusCancel context.CancelFunc
	notificationBusMu     sync.Mutex

	// Background services
	schedulerManager  *scheduler.SchedulerManager
	dispatcherStarted bool

	shutdownOnce sync.Once
}

// NewContainer creates a new Container with all dependencies wired together.
// Sections run in dependency order: later sections read what earlier ones built.
func NewContainer(db *gorm.DB, cfg *config.Config, log logger.Interface) *Container {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
	}

	// Section 1: Infrastructure - Redis, Repositories, Auth, Middlewares
	c.initInfrastructure()

	// Section 2: Integrations - Provider clients, Token manager, Stripe
	c.initIntegrations()

	// Section 3: Events & Notifications - Dispatcher, Hub, Bus, Notifier
	c.initNotifications()

	// Section 4: Use cases
	c.ucs = newUseCases(c)

	// Section 5: Handlers
	c.hdlrs = newHandlers(c)

	// Section 6: Scheduler jobs
	c.initScheduler()

	return c
}

// Engine returns the gin engine routes are registered on.
func (c *Container) Engine() *gin.Engine {
	return c.engine
}

// SyncRunner reconciles one coach's bookings with their provider.
type SyncRunner interface {
	Execute(ctx context.Context, coachID string) (*schedulingUsecases.SyncResult, error)
}

// SyncAllRunner reconciles every connected coach.
type SyncAllRunner interface {
	Execute(ctx context.Context) (*schedulingUsecases.SyncResult, error)
}

// SyncCoach exposes the single-coach sync to the CLI.
func (c *Container) SyncCoach() SyncRunner {
	return c.ucs.syncCoachBookings
}

// SyncAll exposes the all-coaches sync to the CLI.
func (c *Container) SyncAll() SyncAllRunner {
	return c.ucs.syncAllBookings
}

// Start launches the background services: the event dispatcher, the
// notification bus subscriber and, when enabled, the scheduler.
func (c *Container) Start() error {
	if err := c.dispatcher.Start(); err != nil {
		return err
	}
	c.dispatcherStarted = true
	c.log.Infow("event dispatcher started")

	c.startNotificationBus()

	if c.cfg.Scheduler.Enabled && c.schedulerManager != nil {
		c.schedulerManager.Start()
	}
	return nil
}

// Shutdown stops background services in reverse start order and closes Redis.
func (c *Container) Shutdown() {
	c.shutdownOnce.Do(func() {
		if c.schedulerManager != nil {
			if err := c.schedulerManager.Stop(); err != nil {
				c.log.Errorw("failed to stop scheduler", "error", err)
			}
		}

		c.notificationBusMu.Lock()
		if c.notificationBusCancel != nil {
			c.notificationBusCancel()
			c.notificationBusCancel = nil
		}
		c.notificationBusMu.Unlock()

		if c.dispatcherStarted {
			if err := c.dispatcher.Stop(); err != nil {
				c.log.Warnw("failed to stop event dispatcher", "error", err)
			}
		}

		if c.hub != nil {
			c.hub.Close()
		}

		if c.redis != nil {
			if err := c.redis.Close(); err != nil {
				c.log.Warnw("failed to close Redis client", "error", err)
			}
		}

		c.log.Infow("container shut down")
	})
}
