// Package main is the entry point for the BuzzHub server. It reads
// configuration from the environment, builds the logger, and hands both to
// internal/server; all real logic lives in the internal packages.
package main

import (
	"context"
	"log/slog"
	"os"
	"strconv"

	"github.com/bushra/buzzhub/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	mongoDB := os.Getenv("MONGO_DB")
	if mongoDB == "" {
		mongoDB = "buzzhub"
	}

	// AUTH_VERIFY_KEY is the shared HMAC key the identity provider signs
	// tokens with. The server refuses to start without one.
	verifyKey := os.Getenv("AUTH_VERIFY_KEY")
	if verifyKey == "" {
		logger.Error("AUTH_VERIFY_KEY is not set")
		os.Exit(1)
	}

	stripeKey := os.Getenv("STRIPE_SECRET_KEY")
	if stripeKey == "" {
		logger.Error("STRIPE_SECRET_KEY is not set")
		os.Exit(1)
	}

	clientBaseURL := os.Getenv("CLIENT_BASE_URL")
	if clientBaseURL == "" {
		clientBaseURL = "http://localhost:5173"
	}

	cfg := server.Config{
		Port:              port,
		MongoURI:          mongoURI,
		MongoDatabase:     mongoDB,
		AuthVerifyKey:     verifyKey,
		StripeSecretKey:   stripeKey,
		ClientBaseURL:     clientBaseURL,
		EnforceUniqueKeys: os.Getenv("ENFORCE_UNIQUE_KEYS") == "true",
	}

	srv, err := server.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
