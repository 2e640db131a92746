package app

import (
	"fmt"
	"log/slog"

	"github.com/kalindafab/eventease-auth/domain"
	"github.com/kalindafab/eventease-auth/internal/config"
	"github.com/kalindafab/eventease-auth/internal/infrastructure/database"
	"github.com/kalindafab/eventease-auth/internal/infrastructure/identity"
	"github.com/kalindafab/eventease-auth/internal/infrastructure/stores"
	"github.com/kalindafab/eventease-auth/internal/session"
)

// Container holds all dependencies
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Infrastructure
	Redis *database.RedisClient

	// Core
	Store    domain.SessionStore
	Identity domain.IdentityClient
	Manager  *session.Manager
}

// NewContainer creates and initializes all dependencies
func NewContainer(cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	if err := c.initStore(); err != nil {
		return nil, err
	}

	c.Identity = identity.NewClient(cfg.IdentityBaseURL, cfg.IdentityTimeout)
	c.Manager = session.NewManager(c.Store, c.Identity, logger)

	return c, nil
}

func (c *Container) initStore() error {
	switch c.Config.StoreBackend {
	case "redis":
		c.Redis = database.NewRedis(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB)
		c.Store = stores.NewRedisStore(c.Redis.Client, c.Config.StoreKey)
	case "file":
		db, err := database.OpenSQLite(c.Config.StoreFilePath)
		if err != nil {
			return fmt.Errorf("failed to open session database: %w", err)
		}
		store, err := stores.NewFileStore(db, c.Config.StoreKey)
		if err != nil {
			return err
		}
		c.Store = store
	default:
		return fmt.Errorf("unknown store backend %q", c.Config.StoreBackend)
	}
	return nil
}

// Close closes all connections
func (c *Container) Close() error {
	if c.Redis != nil {
		return c.Redis.Close()
	}
	return nil
}
