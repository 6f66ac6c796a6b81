package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/skillswap/skillswap-server/internal/domain"
	"gorm.io/gorm"
)

type swapRepository struct {
	db *gorm.DB
}

func NewSwapRepository(db *gorm.DB) *swapRepository {
	return &swapRepository{db: db}
}

func (r *swapRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Swap, error) {
	var swap domain.Swap
	err := r.db.WithContext(ctx).
		Preload("Requester").
		Preload("Receiver").
		Preload("Reviews").
		First(&swap, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &swap, nil
}

func (r *swapRepository) Update(ctx context.Context, swap *domain.Swap) error {
	return r.db.WithContext(ctx).Save(swap).Error
}

func (r *swapRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Swap, error) {
	var swaps []*domain.Swap
	err := r.db.WithContext(ctx).
		Preload("Requester").
		Preload("Receiver").
		Where("requester_id = ? OR receiver_id = ?", userID, userID).
		Order("updated_at DESC").
		Find(&swaps).Error
	if err != nil {
		return nil, err
	}
	return swaps, nil
}

func (r *swapRepository) GetPendingBetween(ctx context.Context, userA, userB uuid.UUID) (*domain.Swap, error) {
	var swap domain.Swap
	err := r.db.WithContext(ctx).
		Where("status = ?", domain.SwapStatusPending).
		Where("(requester_id = ? AND receiver_id = ?) OR (requester_id = ? AND receiver_id = ?)",
			userA, userB, userB, userA).
		First(&swap).Error
	if err != nil {
		return nil, err
	}
	return &swap, nil
}

// CreatePending re-checks the at-most-one-pending-swap-per-pair rule inside
// the insert transaction. Best effort under concurrency: two writers on
// separate connections can still race without serializable isolation.
func (r *swapRepository) CreatePending(ctx context.Context, swap *domain.Swap) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&domain.Swap{}).
			Where("status = ?", domain.SwapStatusPending).
			Where("(requester_id = ? AND receiver_id = ?) OR (requester_id = ? AND receiver_id = ?)",
				swap.RequesterID, swap.ReceiverID, swap.ReceiverID, swap.RequesterID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrPendingSwapExists
		}

		swap.Status = domain.SwapStatusPending
		return tx.Create(swap).Error
	})
}

// CreateAccepted inserts a swap already in accepted state and marks the
// originating request matched, atomically.
func (r *swapRepository) CreateAccepted(ctx context.Context, swap *domain.Swap, request *domain.SwapRequest) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		swap.Status = domain.SwapStatusAccepted
		swap.StartDate = &now
		if err := tx.Create(swap).Error; err != nil {
			return err
		}

		request.Status = domain.SwapRequestStatusMatched
		return tx.Save(request).Error
	})
}

// AcceptAndInvalidate performs the acceptance and its cascading invalidation
// fan-out in a single transaction: every other pending swap touching either
// participant is deleted and every open request they posted goes inactive.
func (r *swapRepository) AcceptAndInvalidate(ctx context.Context, swap *domain.Swap) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current domain.Swap
		if err := tx.First(&current, "id = ?", swap.ID).Error; err != nil {
			return err
		}
		if current.Status != domain.SwapStatusPending {
			return domain.ErrSwapNotPending
		}

		now := time.Now()
		swap.Status = domain.SwapStatusAccepted
		swap.StartDate = &now
		if err := tx.Save(swap).Error; err != nil {
			return err
		}

		participants := []uuid.UUID{swap.RequesterID, swap.ReceiverID}

		err := tx.
			Where("id <> ?", swap.ID).
			Where("status = ?", domain.SwapStatusPending).
			Where("requester_id IN ? OR receiver_id IN ?", participants, participants).
			Delete(&domain.Swap{}).Error
		if err != nil {
			return err
		}

		return tx.Model(&domain.SwapRequest{}).
			Where("status = ?", domain.SwapRequestStatusOpen).
			Where("user_id IN ?", participants).
			Update("status", domain.SwapRequestStatusInactive).Error
	})
}
