package database

import (
	"os"

	"tiro/config"
	"tiro/internal/domain"
	"tiro/internal/models"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Transaction{},
		&models.Chat{},
		&models.Message{},
		&models.Review{},
		&models.Promotion{},
	)
}

// SeedAdmin creates the initial admin account when ADMIN_USERNAME and
// ADMIN_PASSWORD are set and no user with that name exists yet.
func SeedAdmin(db *gorm.DB, log *logrus.Logger) {
	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		return
	}
	var count int64
	db.Model(&models.User{}).Where("username = ?", username).Count(&count)
	if count > 0 {
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.WithError(err).Error("seed admin: hash password")
		return
	}
	admin := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		IsVerified:   true,
	}
	if err := db.Create(admin).Error; err != nil {
		log.WithError(err).Error("seed admin: create user")
		return
	}
	log.WithField("username", username).Info("seeded admin account")
}
