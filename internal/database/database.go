package database

import (
	"github.com/reviewrise/reviewrise-backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Init(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	// Auto migrate schemas
	err = db.AutoMigrate(
		&models.User{},
		&models.Brand{},
		&models.VerificationSession{},
		&models.Review{},
		&models.PrivateFeedback{},
		&models.Coupon{},
		&models.Ad{},
		&models.AdView{},
		&models.Banner{},
		&models.QRCode{},
		&models.QRScan{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}
