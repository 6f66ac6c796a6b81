package postgres

import (
	"github.com/skillswap/skillswap-server/internal/domain"
	"github.com/skillswap/skillswap-server/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewConnection(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.UserSession{},
		&domain.SwapRequest{},
		&domain.Swap{},
		&domain.SwapMessage{},
		&domain.SwapReview{},
		&domain.Session{},
	)
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		User:        NewUserRepository(db),
		UserSession: NewUserSessionRepository(db),
		SwapRequest: NewSwapRequestRepository(db),
		Swap:        NewSwapRepository(db),
		SwapMessage: NewSwapMessageRepository(db),
		SwapReview:  NewSwapReviewRepository(db),
		Session:     NewSessionRepository(db),
	}
}
