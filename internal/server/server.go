// Package server wires the store, services, handlers, and routes together
// and owns the HTTP listener lifecycle. It is the composition root: main
// hands it a Config and everything else is assembled here.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/bushra/buzzhub/internal/auth"
	"github.com/bushra/buzzhub/internal/handler"
	"github.com/bushra/buzzhub/internal/middleware"
	"github.com/bushra/buzzhub/internal/model"
	"github.com/bushra/buzzhub/internal/payments"
	mongorepo "github.com/bushra/buzzhub/internal/repository/mongo"
	"github.com/bushra/buzzhub/internal/service"
)

// Config holds everything the server needs from the environment.
type Config struct {
	Port              int
	MongoURI          string
	MongoDatabase     string
	AuthVerifyKey     string
	StripeSecretKey   string
	ClientBaseURL     string
	EnforceUniqueKeys bool
}

// Server owns the router and the Mongo store. The store is closed during
// graceful shutdown so in-flight writes drain before the process exits.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	store  *mongorepo.Store
}

// New connects to the store, builds the dependency chain, and registers all
// routes. Handlers receive services, services receive repository interfaces,
// and only this package sees the concrete store.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Server, error) {
	store, err := mongorepo.New(ctx, mongorepo.Config{
		URI:               cfg.MongoURI,
		Database:          cfg.MongoDatabase,
		EnforceUniqueKeys: cfg.EnforceUniqueKeys,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to store: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		store:  store,
	}

	if err := s.setupRoutes(); err != nil {
		store.Close(context.Background())
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes registers middleware and the full route table.
//
// Route access levels:
//   - public: registration, club and event browsing, health
//   - authenticated: role lookup, memberships, registrations, payments
//   - manager: club and event management, manager dashboard
//   - admin: role assignment, admin dashboard
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	verifier, err := auth.NewTokenVerifier(s.config.AuthVerifyKey)
	if err != nil {
		return fmt.Errorf("creating token verifier: %w", err)
	}

	gateway, err := payments.NewStripeGateway(s.config.StripeSecretKey, s.config.ClientBaseURL)
	if err != nil {
		return fmt.Errorf("creating payment gateway: %w", err)
	}

	users := s.store.Users()
	clubs := s.store.Clubs()
	events := s.store.Events()
	memberships := s.store.Memberships()
	registrations := s.store.Registrations()

	userService := service.NewUserService(users, s.logger)
	clubService := service.NewClubService(clubs, memberships, s.logger)
	eventService := service.NewEventService(events, clubs, registrations, s.logger)
	checkoutService := service.NewCheckoutService(gateway, clubs, memberships, registrations, s.logger)
	overviewService := service.NewOverviewService(users, clubs, events, memberships, registrations, s.logger)

	userHandler := handler.NewUserHandler(userService, s.logger)
	clubHandler := handler.NewClubHandler(clubService, s.logger)
	eventHandler := handler.NewEventHandler(eventService, s.logger)
	paymentHandler := handler.NewPaymentHandler(checkoutService, s.logger)
	overviewHandler := handler.NewOverviewHandler(overviewService, s.logger)

	authenticate := auth.Authenticate(verifier)
	managerOnly := auth.RequireRole(userService, model.RoleManager)
	adminOnly := auth.RequireRole(userService, model.RoleAdmin)

	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, "Buzz'sHub is Buzzing.😉")
	})

	// Public routes.
	s.router.Post("/users", userHandler.HandleRegister)
	s.router.Get("/clubs", clubHandler.HandleList)
	s.router.Get("/clubs/{id}", clubHandler.HandleGetByID)
	s.router.Get("/events", eventHandler.HandleList)
	s.router.Get("/events/{id}", eventHandler.HandleGetByID)

	// Authenticated routes.
	s.router.Group(func(r chi.Router) {
		r.Use(authenticate)

		r.Get("/users", userHandler.HandleList)
		r.Get("/users/{email}/role", userHandler.HandleRole)
		r.Patch("/users", userHandler.HandleChangeRole)

		r.Post("/clubMembers", clubHandler.HandleJoin)
		r.Get("/clubMembers", clubHandler.HandleMemberships)
		r.Post("/eventRegister", eventHandler.HandleRegister)
		r.Get("/eventRegister", eventHandler.HandleRegistrations)

		r.With(middleware.Throttle(rate.Every(time.Second), 10)).
			Post("/create-checkout-session", paymentHandler.HandleCreateSession)
		r.Post("/verify-payment-session", paymentHandler.HandleVerifySession)
	})

	// Manager routes.
	s.router.Group(func(r chi.Router) {
		r.Use(authenticate, managerOnly)

		r.Post("/clubs", clubHandler.HandleCreate)
		r.Post("/events", eventHandler.HandleCreate)
		r.Patch("/events/{id}", eventHandler.HandleUpdate)
		r.Delete("/events/{id}", eventHandler.HandleDelete)
		r.Get("/managerOverview", overviewHandler.HandleManager)
	})

	// Admin routes.
	s.router.Group(func(r chi.Router) {
		r.Use(authenticate, adminOnly)

		r.Get("/adminOverview", overviewHandler.HandleAdmin)
	})

	return nil
}

// Router exposes the configured router for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the listener until SIGINT/SIGTERM, then drains in-flight
// requests and closes the store.
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.MongoDatabase),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		if err := s.store.Close(ctx); err != nil {
			return fmt.Errorf("closing store: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
