// Package di wires the console's components with samber/do.
package di

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"sync"

	"github.com/samber/do/v2"
	"github.com/samber/oops"

	"github.com/dmitrijs2005/userconsole/internal/client/api"
	"github.com/dmitrijs2005/userconsole/internal/client/cli"
	"github.com/dmitrijs2005/userconsole/internal/client/config"
	"github.com/dmitrijs2005/userconsole/internal/client/services"
	"github.com/dmitrijs2005/userconsole/internal/client/storage"
	"github.com/dmitrijs2005/userconsole/internal/filex"
	"github.com/dmitrijs2005/userconsole/internal/logging"
)

// Options are the process-level inputs of Setup.
type Options struct {
	Args   []string
	Stdin  io.Reader
	Stdout io.Writer
	// Stderr receives console log records.
	Stderr io.Writer
}

type logSink struct {
	logger *logging.SlogLogger
}

// Container is the injector plus the resources its providers opened.
type Container struct {
	Injector do.Injector

	mu      sync.Mutex
	closers []io.Closer
}

func (c *Container) onClose(cl io.Closer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closers = append(c.closers, cl)
}

// Setup registers every component. Nothing is built until it is invoked.
func Setup(ctx context.Context, opts Options) *Container {
	c := &Container{Injector: do.New()}
	injector := c.Injector

	do.Provide(injector, func(i do.Injector) (*config.Config, error) {
		cfg, err := config.Load(opts.Args)
		if err != nil {
			return nil, oops.With("context", "failed to load config").Wrap(err)
		}
		return cfg, nil
	})

	do.Provide(injector, func(i do.Injector) (*logSink, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if cfg.LogFile != "" {
			if err := filex.EnsureParentDir(cfg.LogFile); err != nil {
				return nil, oops.With("log_file", cfg.LogFile).Wrap(err)
			}
		}
		l, closer, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile, Console: opts.Stderr})
		if err != nil {
			return nil, oops.With("log_file", cfg.LogFile).Wrap(err)
		}
		c.onClose(closer)
		return &logSink{logger: l}, nil
	})

	do.Provide(injector, func(i do.Injector) (logging.Logger, error) {
		return do.MustInvoke[*logSink](i).logger, nil
	})

	do.Provide(injector, func(i do.Injector) (*sql.DB, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if err := filex.EnsureParentDir(cfg.DBPath); err != nil {
			return nil, oops.With("db_path", cfg.DBPath).Wrap(err)
		}
		db, err := storage.InitDatabase(ctx, cfg.DBPath)
		if err != nil {
			return nil, oops.With("db_path", cfg.DBPath, "context", "failed to open local database").Wrap(err)
		}
		c.onClose(db)
		return db, nil
	})

	do.Provide(injector, func(i do.Injector) (*api.RESTClient, error) {
		cfg := do.MustInvoke[*config.Config](i)
		client, err := api.NewRESTClient(api.Options{
			BaseURL: cfg.BaseURL,
			APIKey:  cfg.APIKey,
			Timeout: cfg.RequestTimeout,
			Logger:  do.MustInvoke[logging.Logger](i),
		})
		if err != nil {
			return nil, oops.With("base_url", cfg.BaseURL).Wrap(err)
		}
		return client, nil
	})

	do.Provide(injector, func(i do.Injector) (*services.SessionStore, error) {
		client := do.MustInvoke[*api.RESTClient](i)
		s, err := services.NewSessionStore(ctx, client, do.MustInvoke[*sql.DB](i), do.MustInvoke[logging.Logger](i))
		if err != nil {
			return nil, oops.With("context", "failed to restore session").Wrap(err)
		}
		client.SetTokenSource(s)
		return s, nil
	})

	do.Provide(injector, func(i do.Injector) (*cli.App, error) {
		session := do.MustInvoke[*services.SessionStore](i)
		client := do.MustInvoke[*api.RESTClient](i)
		return cli.NewApp(session, client, do.MustInvoke[logging.Logger](i), opts.Stdin, opts.Stdout), nil
	})

	return c
}

// App builds the console and everything it depends on.
func (c *Container) App() (*cli.App, error) {
	return do.Invoke[*cli.App](c.Injector)
}

// Close releases what the providers opened, most recent first.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = append(errs, c.closers[i].Close())
	}
	c.closers = nil
	return errors.Join(errs...)
}
