package main

import (
	"tipster/internal/auth"   // Password hashing
	"tipster/internal/config" // Custom import path (Config)
	"tipster/internal/db"     // Custom import path (Database)

	"github.com/sirupsen/logrus" // Logging library
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration

	g, err := db.Open(cfg.DSN(), false)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}
	if err := db.Migrate(g); err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}
	logrus.Info("Migration completed")

	// Seed the administrator account when a password is provided
	if cfg.AdminPassword == "" {
		logrus.Info("ADMIN_PASSWORD not set, skipping admin seed")
		return
	}
	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		logrus.Fatalf("failed to hash admin password: %v", err)
	}
	if err := db.SeedAdmin(g, "Administrador", cfg.AdminEmail, hash); err != nil {
		logrus.Fatalf("failed to seed admin: %v", err)
	}
	logrus.WithField("email", cfg.AdminEmail).Info("Admin account ready")
}
