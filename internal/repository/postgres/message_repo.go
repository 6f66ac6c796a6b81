package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/skillswap/skillswap-server/internal/domain"
	"gorm.io/gorm"
)

type swapMessageRepository struct {
	db *gorm.DB
}

func NewSwapMessageRepository(db *gorm.DB) *swapMessageRepository {
	return &swapMessageRepository{db: db}
}

func (r *swapMessageRepository) Create(ctx context.Context, msg *domain.SwapMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *swapMessageRepository) ListBySwapID(ctx context.Context, swapID uuid.UUID, limit, offset int) ([]*domain.SwapMessage, error) {
	var msgs []*domain.SwapMessage
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("swap_id = ?", swapID).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

func (r *swapMessageRepository) MarkRead(ctx context.Context, swapID, readerID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.SwapMessage{}).
		Where("swap_id = ?", swapID).
		Where("sender_id <> ?", readerID).
		Where("read = ?", false).
		Update("read", true)
	return res.RowsAffected, res.Error
}

func (r *swapMessageRepository) CountUnread(ctx context.Context, swapID, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.SwapMessage{}).
		Where("swap_id = ?", swapID).
		Where("sender_id <> ?", userID).
		Where("read = ?", false).
		Count(&count).Error
	return count, err
}

type swapReviewRepository struct {
	db *gorm.DB
}

func NewSwapReviewRepository(db *gorm.DB) *swapReviewRepository {
	return &swapReviewRepository{db: db}
}

func (r *swapReviewRepository) Create(ctx context.Context, review *domain.SwapReview) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *swapReviewRepository) GetBySwapAndReviewer(ctx context.Context, swapID, reviewerID uuid.UUID) (*domain.SwapReview, error) {
	var review domain.SwapReview
	err := r.db.WithContext(ctx).
		First(&review, "swap_id = ? AND reviewer_id = ?", swapID, reviewerID).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *swapReviewRepository) ListBySwapID(ctx context.Context, swapID uuid.UUID) ([]*domain.SwapReview, error) {
	var reviews []*domain.SwapReview
	err := r.db.WithContext(ctx).
		Where("swap_id = ?", swapID).
		Order("created_at ASC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}
