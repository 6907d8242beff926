// Package main initializes and starts the restaurant recommendation server,
// setting up configuration, logging, the user database, sessions, services,
// handlers and, optionally, TLS.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/restofinder/internal/config"
	"github.com/atinyakov/restofinder/internal/db"
	"github.com/atinyakov/restofinder/internal/logger"
	"github.com/atinyakov/restofinder/internal/repository"
	"github.com/atinyakov/restofinder/internal/server/handler/http"
	"github.com/atinyakov/restofinder/internal/service"
	"github.com/atinyakov/restofinder/internal/session"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse flags, environment and config file.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize the user database and apply migrations.
	userDB, err := db.Open(ctx, options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}
	defer userDB.Close()

	// Initialize the session store and its expiry cleaner.
	store, closeStore, err := openSessionStore(options)
	if err != nil {
		zapLogger.Fatal("cannot init session store", zap.Error(err))
	}
	defer closeStore()
	session.StartCleaner(ctx, store, options.SessionCleanupInterval, zapLogger)

	sessions := session.NewManager(store, session.ManagerConfig{
		TTL:    options.SessionTTL,
		Secure: options.SessionCookieSecure,
	})

	// Initialize repositories and business-logic services.
	userRepo := repository.NewSQLUserRepository(userDB)
	authService := service.NewAuthService(userRepo)
	searchService := service.NewSearchService(options.DatasetPath, zapLogger)

	// Create HTTP handlers.
	renderer, err := http.NewRenderer(zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to parse templates", zap.Error(err))
	}
	authHandler := &http.AuthHandler{AuthService: authService, Sessions: sessions, Renderer: renderer, Logger: zapLogger}
	searchHandler := &http.SearchHandler{Search: searchService, Renderer: renderer}
	apiHandler := &http.APIHandler{AuthService: authService, Sessions: sessions, Search: searchService, Logger: zapLogger}

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, searchHandler, apiHandler, sessions, userRepo, zapLogger)

	server := &nethttp.Server{
		Addr:              options.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("failed to shut down server", zap.Error(err))
		}
	}()

	if options.TLSCert != "" {
		zapLogger.Info("starting HTTPS server", zap.String("addr", options.Address))
		err = server.ListenAndServeTLS(options.TLSCert, options.TLSKey)
	} else {
		zapLogger.Info("starting HTTP server", zap.String("addr", options.Address))
		err = server.ListenAndServe()
	}
	if err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		zapLogger.Fatal("failed to start server", zap.Error(err))
	}
	zapLogger.Info("server stopped")
}

// openSessionStore creates the configured session store and a function that releases it.
func openSessionStore(options *config.Options) (session.Store, func(), error) {
	if options.SessionStore != config.SessionStoreBadger {
		return session.NewMemoryStore(), func() {}, nil
	}
	bdb, err := session.OpenBadger(options.SessionPath)
	if err != nil {
		return nil, nil, err
	}
	return session.NewBadgerStore(bdb), func() { _ = bdb.Close() }, nil
}
