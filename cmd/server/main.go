// Package main is the entry point for the ReWear API server.
//
// The main package stays minimal — its job is to:
// 1. Read configuration from environment variables
// 2. Create the logger
// 3. Hand everything to internal/server and start it
//
// All actual logic lives in imported packages (internal/server,
// internal/handler, etc.). This separation keeps the components
// testable and reusable.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sakif/rewear/internal/server"
	"github.com/sakif/rewear/internal/storage"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// PORT defaults to 8080; anything non-numeric is a config error.
	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	// Default to "data/rewear.db" in the project root; DB_PATH overrides
	// for deployments. Example: DB_PATH=/var/lib/rewear/prod.db
	dbPath := "data/rewear.db"
	if envDB := os.Getenv("DB_PATH"); envDB != "" {
		dbPath = envDB
	}
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", dbDir),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// JWT_SECRET must be a long random string. Generate one with:
	//   JWT_SECRET=$(openssl rand -hex 32)
	// Every endpoint except the public item listing requires a token, so
	// the server refuses to start without a secret.
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Error("JWT_SECRET not set — refusing to start without a signing key")
		os.Exit(1)
	}

	// Object storage for item images. S3_ENDPOINT is only needed for
	// S3-compatible services (MinIO, R2); leave it empty for AWS proper.
	s3cfg := storage.Config{
		Endpoint:      os.Getenv("S3_ENDPOINT"),
		Region:        os.Getenv("S3_REGION"),
		Bucket:        os.Getenv("S3_BUCKET"),
		AccessKey:     os.Getenv("S3_ACCESS_KEY"),
		SecretKey:     os.Getenv("S3_SECRET_KEY"),
		PublicBaseURL: os.Getenv("S3_PUBLIC_URL"),
	}
	if s3cfg.Bucket == "" {
		logger.Error("S3_BUCKET not set — image uploads have nowhere to go")
		os.Exit(1)
	}
	if s3cfg.Region == "" {
		s3cfg.Region = "us-east-1"
	}

	// GitHub signin is optional — without credentials the OAuth routes
	// simply aren't registered.
	githubCallbackURL := os.Getenv("GITHUB_CALLBACK_URL")
	if githubCallbackURL == "" {
		githubCallbackURL = fmt.Sprintf("http://localhost:%d/auth/github/callback", port)
	}

	cfg := server.Config{
		Port:               port,
		DBPath:             dbPath,
		JWTSecret:          jwtSecret,
		S3:                 s3cfg,
		GitHubClientID:     os.Getenv("GITHUB_CLIENT_ID"),
		GitHubClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
		GitHubCallbackURL:  githubCallbackURL,
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
