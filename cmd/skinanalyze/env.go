package main

import (
	"fmt"
	"io"
	"time"

	"skinanalyze/internal/auth"
	"skinanalyze/internal/client"
	"skinanalyze/internal/config"
	"skinanalyze/internal/session"
	"skinanalyze/internal/utils"
	"skinanalyze/internal/view"
)

// env is what a command runs against. The app is loaded on first use so
// local-only commands work without a config or state dir.
type env struct {
	cmd            *Command
	stdin          io.Reader
	stdout, stderr io.Writer
	configPath     string
	server         string
	version        VersionInfo
	now            func() time.Time

	app *app
}

type app struct {
	cfg    config.Config
	logger *utils.Logger
	store  *session.Store
	api    *client.Client
	auth   *auth.Service
}

func (e *env) load() (*app, error) {
	if e.app != nil {
		return e.app, nil
	}
	cfg, err := config.Load(e.configPath)
	if err != nil {
		return nil, fail(fmt.Sprintf("Invalid configuration: %v", err), err)
	}
	if cfg, err = cfg.WithServer(e.server); err != nil {
		return nil, fail(fmt.Sprintf("Invalid --server: %v", err), err)
	}
	level, err := utils.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fail(fmt.Sprintf("Invalid configuration: %v", err), err)
	}
	logger, err := utils.NewLogger(cfg.LogFile, level)
	if err != nil {
		return nil, fail(fmt.Sprintf("Cannot open log: %v", err), err)
	}
	store, err := session.Open(cfg.StateDir, session.WithLogger(logger))
	if err != nil {
		logger.Close()
		return nil, fail(fmt.Sprintf("Cannot open state dir %s: %v", cfg.StateDir, err), err)
	}
	api, err := client.New(cfg, store, client.WithLogger(logger))
	if err != nil {
		logger.Close()
		return nil, fail(fmt.Sprintf("Invalid configuration: %v", err), err)
	}
	e.app = &app{
		cfg:    cfg,
		logger: logger,
		store:  store,
		api:    api,
		auth:   auth.NewService(api, store, logger),
	}
	return e.app, nil
}

func (e *env) close() {
	if e.app != nil {
		e.app.logger.Close()
	}
}

func (e *env) logError(command string, err error) {
	if e.app == nil {
		return
	}
	e.app.logger.Error("command failed", "command", command, "error", err)
}

func (e *env) viewDeps(a *app) view.Deps {
	return view.Deps{Backend: a.api, Analysis: a.store, Now: e.now}
}

func (e *env) printf(format string, args ...any) {
	fmt.Fprintf(e.stdout, format, args...)
}
