// context.go defines the Context extensions use to reach shared state.
//
// Extensions receive it in Init, after the root command has loaded and
// validated configuration, not at registration time.

package extension

import (
	"errors"
	"sync"

	"github.com/Dyc3r/docs2cms/internal/config"
	"github.com/Dyc3r/docs2cms/internal/version"
	"github.com/Dyc3r/docs2cms/internal/wordpress"
	"go.uber.org/zap"
)

// ErrNoAPI is returned by Context.API when WordPress is not configured.
var ErrNoAPI = errors.New("WordPress API root is not configured")

// Context provides extensions controlled access to d2cms internals.
type Context interface {
	// Config returns the resolved configuration.
	Config() config.Config

	// Root returns the absolute docs directory.
	Root() string

	// Logger returns the run logger.
	Logger() *zap.Logger

	// API returns the WordPress client, built on first use.
	API() (wordpress.API, error)
}

type extContext struct {
	cfg    config.Config
	logger *zap.Logger

	once sync.Once
	api  wordpress.API
	err  error
}

// NewContext creates a context. api may be nil, in which case a client is
// built from cfg when first requested. A nil logger discards.
func NewContext(api wordpress.API, cfg config.Config, logger *zap.Logger) Context {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &extContext{cfg: cfg, logger: logger}
	if api != nil {
		c.api = api
		c.once.Do(func() {})
	}
	return c
}

func (c *extContext) Config() config.Config { return c.cfg }

func (c *extContext) Root() string { return c.cfg.DocsDir }

func (c *extContext) Logger() *zap.Logger { return c.logger }

func (c *extContext) API() (wordpress.API, error) {
	c.once.Do(func() {
		if c.cfg.APIRoot == "" {
			c.err = ErrNoAPI
			return
		}
		c.api, c.err = wordpress.New(wordpress.Options{
			APIRoot:   c.cfg.APIRoot,
			User:      c.cfg.APIUser,
			Key:       c.cfg.APIKey,
			Mode:      wordpress.AuthMode(c.cfg.AuthMode),
			Timeout:   c.cfg.Timeout,
			UserAgent: version.UserAgent(),
			Logger:    c.logger,
		})
	})
	return c.api, c.err
}
