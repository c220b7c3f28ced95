package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/boltdb/bolt"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type AppProvider interface {
	Run() error
	Serve(context.CancelFunc) func() error
	Stop(context.Context, context.Context) func() error
}

type App struct {
	logger     *zap.Logger
	config     *Config
	boltClient *bolt.DB
	session    *SessionStore
	terminal   *TerminalUI
	cleanups   []func()
}

// NewApp provides an instance of App with the full dependency graph
// wired explicitly: config, logging, durable session storage, session
// store, api client, controllers, guard and the terminal view.
func NewApp() (AppProvider, error) {
	var app *App
	config, err := LoadAndInitConfigs(GitCommit, GitTag, BuildTime)
	if err != nil {
		return nil, fmt.Errorf("failed to setup app configuration: %s", err)
	}

	// ensure the logs folder exists and Setup the logging module.
	err = os.MkdirAll(filepath.Dir(config.LogFile), 0o700)
	if err != nil {
		return nil, fmt.Errorf("failed to create logging folder: %s", err)
	}
	logFile, err := os.OpenFile(config.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create logging file: %s", err)
	}
	closer := func() {
		if cerr := logFile.Close(); cerr != nil {
			fmt.Println("error during closing of log file: ", cerr)
		}
	}
	logger, flusher := SetupLogging(config, logFile)

	// Ensure the session folder exists and setup the durable session storage.
	err = os.MkdirAll(filepath.Dir(config.Session.FilePath), 0o700)
	if err != nil {
		return app, fmt.Errorf("failed to create session folder: %s", err)
	}
	boltClient, err := GetBoltDBClient(config)
	if err != nil {
		return app, fmt.Errorf("failed to open the session database: %s", err)
	}
	sessionStorage := NewBoltSessionStorage(logger, &config.Session, boltClient)

	// Setup the session store, the remote client and the controllers.
	clock := NewClock()
	sessionStore := NewSessionStore(logger, sessionStorage, clock)
	apiClient := NewAPIClient(logger, &config.Backend, NewIDsHandler(), func() string {
		return sessionStore.Current().Token
	})
	guard := NewRouteGuard(logger, sessionStore)
	booksController := NewBookListController(logger, apiClient)
	terminal := NewTerminalUI(logger, config, sessionStore, guard, apiClient, booksController)

	return &App{
		logger:     logger,
		config:     config,
		boltClient: boltClient,
		session:    sessionStore,
		terminal:   terminal,
		cleanups: []func(){
			flusher,
			closer,
		},
	}, nil
}

// Run restores the session, starts the terminal session and a goroutine
// which is responsible to log why the application stops.
func (app *App) Run() error {
	defer app.Clean()
	nCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The session must resolve before any guard decision happens.
	app.session.Restore()

	g, gCtx := errgroup.WithContext(nCtx)

	g.Go(app.Serve(stop))
	g.Go(app.Stop(nCtx, gCtx))

	err := g.Wait()
	app.logger.Info("terminal session stopped",
		zap.String("backend", app.config.Backend.BaseURL),
		zap.Error(err),
	)
	return err
}

// Clean calls all registered cleanups functions and closes the session database.
func (app *App) Clean() {
	if err := app.boltClient.Close(); err != nil {
		app.logger.Error("failed to close the session database", zap.Error(err))
	}
	for _, f := range app.cleanups {
		f()
	}
}

// Serve runs the interactive terminal session. Once the user quits or the
// input stream ends it cancels the group context so Stop can report.
func (app *App) Serve(cancel context.CancelFunc) func() error {
	return func() error {
		defer cancel()
		app.logger.Info("terminal session starting",
			zap.String("backend", app.config.Backend.BaseURL),
		)
		return app.terminal.Run()
	}
}

// Stop listens for the group context and states the reason of the exit.
// It explicitly returns nil so the errorgroup catches only the Serve result.
func (app *App) Stop(nCtx, gCtx context.Context) func() error {
	return func() error {
		<-gCtx.Done()

		if nCtx.Err() != nil {
			app.logger.Info("terminal session stopping. reason: requested to stop")
		} else {
			app.logger.Info("terminal session stopping. reason: session ended")
		}
		return nil
	}
}
