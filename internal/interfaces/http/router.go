package http

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/coachhub/coachhub/internal/infrastructure/config"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

// Router represents the HTTP router configuration
type Router struct {
	engine    *gin.Engine
	container *Container
}

// NewRouter wires the container and returns a router ready for SetupRoutes.
func NewRouter(db *gorm.DB, cfg *config.Config, log logger.Interface) *Router {
	c := NewContainer(db, cfg, log)
	return &Router{
		engine:    c.engine,
		container: c,
	}
}

// Container exposes the wired dependencies for startup and shutdown.
func (r *Router) Container() *Container {
	return r.container
}

// GetEngine returns the gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// Shutdown gracefully stops background services.
func (r *Router) Shutdown() {
	r.container.Shutdown()
}
