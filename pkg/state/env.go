// Package state defines shared program state.
package state

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"soyorin/pkg/config"
	"soyorin/pkg/resource"
	"soyorin/pkg/url"
	stdnet "soyorin/std/net"
)

type envKey struct{}

// LocalEnv keeps everything the program needs in a single place.
type LocalEnv struct {
	Cfg *config.Config
	Log *zap.Logger

	start         time.Time
	closeLog      func() error
	restoreStdLog func()
	cache         stdnet.Cache
	conn          *stdnet.Connection
}

func newLocalEnv() *LocalEnv {
	return &LocalEnv{start: time.Now(), Log: zap.NewNop()}
}

func EnvFromContext(ctx context.Context) *LocalEnv {
	if env, ok := ctx.Value(envKey{}).(*LocalEnv); ok {
		return env
	}
	// this should never happen
	panic("localenv not found in context")
}

func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, newLocalEnv())
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

// Prepare loads the configuration and starts logging.
func (e *LocalEnv) Prepare(configFile string, debug bool) error {
	cfg, err := config.LoadConfiguration(configFile)
	if err != nil {
		return fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if debug {
		cfg.Logging.ConsoleLogger.Level = "debug"
	}
	log, closer, err := cfg.Logging.Prepare()
	if err != nil {
		return fmt.Errorf("unable to prepare logs: %w", err)
	}
	e.Cfg, e.Log, e.closeLog = cfg, log, closer
	e.restoreStdLog = zap.RedirectStdLog(e.Log)
	return nil
}

// Connection returns the network connection described by the
// configuration, creating it on first use.
func (e *LocalEnv) Connection() (*stdnet.Connection, error) {
	if e.conn != nil {
		return e.conn, nil
	}
	nc := e.Cfg.Network
	switch nc.Cache.Kind {
	case "sqlite":
		c, err := stdnet.OpenSQLiteCache(nc.Cache.Path)
		if err != nil {
			return nil, fmt.Errorf("unable to open cache: %w", err)
		}
		e.cache = c
	case "memory":
		e.cache = stdnet.NewMemoryCache()
	default:
		e.cache = stdnet.NoCache{}
	}
	e.conn = stdnet.NewConnection(
		stdnet.WithLogger(e.Log),
		stdnet.WithCache(e.cache),
		stdnet.WithUserAgent(nc.UserAgent),
		stdnet.WithTimeout(nc.Timeout),
		stdnet.WithMaxRedirects(nc.MaxRedirects),
	)
	return e.conn, nil
}

// Viewport is the configured window geometry.
func (e *LocalEnv) Viewport() resource.Viewport {
	b := e.Cfg.Browser
	return resource.Viewport{Width: float64(b.Width), Height: float64(b.Height), ScrollStep: float64(b.ScrollStep)}
}

// Home parses the configured home page.
func (e *LocalEnv) Home() (*url.URL, error) {
	return url.Parse(e.Cfg.Browser.Home)
}

// Close releases the cache and flushes and closes the logs.
func (e *LocalEnv) Close() (err error) {
	if c, ok := e.cache.(*stdnet.SQLiteCache); ok {
		if er := c.Close(); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close cache: %w", er))
		}
	}
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.restoreStdLog != nil {
		e.restoreStdLog()
	}
	if e.closeLog != nil {
		if er := e.closeLog(); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close log file: %w", er))
		}
	}
	return err
}
