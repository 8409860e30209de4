package db

import (
	"errors" // Error inspection

	"tipster/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus"
	"gorm.io/gorm" // GORM ORM library
)

// Migrate creates tables, missing columns and indexes for every model
func Migrate(g *gorm.DB) error {
	return g.AutoMigrate(&domain.User{}, &domain.Tip{}, &domain.Bet{}, &domain.Transaction{})
}

// SeedAdmin makes sure the administrator account exists and is active.
// An existing account keeps its password and balance.
func SeedAdmin(g *gorm.DB, name, email, passwordHash string) error {
	var existing domain.User
	err := g.Where("email = ?", email).First(&existing).Error
	if err == nil {
		if existing.Status == domain.UserActive {
			return nil
		}
		return g.Model(&existing).Update("status", domain.UserActive).Error // Reactivate the admin account
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	admin := domain.User{Name: name, Email: email, PasswordHash: passwordHash, Status: domain.UserActive}
	if err := g.Create(&admin).Error; err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"user_id": admin.ID, "email": email}).Info("Administrator account seeded")
	return nil
}
