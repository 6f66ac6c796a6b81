package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/skillswap/skillswap-server/internal/domain"
	"gorm.io/gorm"
)

type swapRequestRepository struct {
	db *gorm.DB
}

func NewSwapRequestRepository(db *gorm.DB) *swapRequestRepository {
	return &swapRequestRepository{db: db}
}

func (r *swapRequestRepository) Create(ctx context.Context, req *domain.SwapRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *swapRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SwapRequest, error) {
	var req domain.SwapRequest
	err := r.db.WithContext(ctx).
		Preload("User").
		First(&req, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *swapRequestRepository) Update(ctx context.Context, req *domain.SwapRequest) error {
	return r.db.WithContext(ctx).Save(req).Error
}

func (r *swapRequestRepository) ListOpen(ctx context.Context, excludeUserID uuid.UUID, limit, offset int) ([]*domain.SwapRequest, error) {
	var reqs []*domain.SwapRequest
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("status = ?", domain.SwapRequestStatusOpen).
		Where("user_id <> ?", excludeUserID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reqs).Error
	if err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *swapRequestRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.SwapRequest, error) {
	var reqs []*domain.SwapRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reqs).Error
	if err != nil {
		return nil, err
	}
	return reqs, nil
}
