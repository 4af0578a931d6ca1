package database

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/config"
	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/model"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger:         logger.Default.LogMode(cfg.GormLogLevel()),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.Word{},
		&model.User{},
		&model.RefreshToken{},
	)
	if err != nil {
		return err
	}

	// Case-insensitive headword lookup
	db.Exec("CREATE INDEX IF NOT EXISTS idx_words_headword_lower ON words(LOWER(headword))")

	// Create unique index for users (provider, provider_id)
	db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_users_provider_provider_id ON users(provider, provider_id)")

	return nil
}
