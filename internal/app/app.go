package app

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kalindafab/eventease-auth/internal/config"
	httpx "github.com/kalindafab/eventease-auth/internal/http"
	"github.com/kalindafab/eventease-auth/internal/http/handlers"
	"github.com/kalindafab/eventease-auth/internal/http/middleware"
	"github.com/kalindafab/eventease-auth/internal/logger"
)

// Run wires the container, restores any persisted session, and serves
func Run(cfg *config.Config) error {
	log := logger.Setup(cfg.LogLevel)
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	c, err := NewContainer(cfg, log)
	if err != nil {
		return err
	}
	defer c.Close()

	if c.Redis != nil {
		if err := c.Redis.Ping(context.Background()); err != nil {
			return err
		}
	}

	// Adopt or refresh whatever the store holds before serving.
	c.Manager.Restore(context.Background())

	policy, err := middleware.NewRoutePolicy(cfg.GuardModelPath, cfg.GuardPolicyPath)
	if err != nil {
		return err
	}
	guardMW := middleware.NewGuardMW(c.Manager, policy)
	authH := handlers.NewAuthHandlers(c.Identity, c.Manager)

	r := httpx.BuildRouter(authH, guardMW)

	// Drain lifecycle events into the structured log.
	go func() {
		for ev := range c.Manager.Events() {
			if ev.Success {
				log.Info("session event", "type", ev.Type, "user_id", ev.UserID)
			} else {
				log.Warn("session event", "type", ev.Type, "user_id", ev.UserID, "error", ev.ErrorMsg)
			}
		}
	}()

	addr := ":" + cfg.Port
	log.Info("listening", "addr", addr)
	return http.ListenAndServe(addr, r)
}
