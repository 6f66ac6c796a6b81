package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/skillswap/skillswap-server/internal/domain"
	"github.com/skillswap/skillswap-server/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrSwapNotFound         = errors.New("swap not found")
	ErrNotReceiver          = errors.New("only the receiver can perform this action")
	ErrInvalidSwapState     = errors.New("invalid swap state for this action")
	ErrSwapNotCompleted     = errors.New("swap is not completed")
	ErrAlreadyReviewed      = errors.New("swap already reviewed by this user")
	ErrInvalidTotalSessions = errors.New("total sessions must be at least 1")
	ErrInvalidRating        = errors.New("rating must be between 1 and 5")
	ErrEmptyMessage         = errors.New("message content is required")
)

type SwapService struct {
	swapRepo    repository.SwapRepository
	messageRepo repository.SwapMessageRepository
	reviewRepo  repository.SwapReviewRepository
	sessionRepo repository.SessionRepository
	userRepo    repository.UserRepository
}

func NewSwapService(
	swapRepo repository.SwapRepository,
	messageRepo repository.SwapMessageRepository,
	reviewRepo repository.SwapReviewRepository,
	sessionRepo repository.SessionRepository,
	userRepo repository.UserRepository,
) *SwapService {
	return &SwapService{
		swapRepo:    swapRepo,
		messageRepo: messageRepo,
		reviewRepo:  reviewRepo,
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
	}
}

func (s *SwapService) List(ctx context.Context, userID uuid.UUID) ([]*domain.Swap, error) {
	return s.swapRepo.ListByUserID(ctx, userID)
}

// Get returns the swap when userID is one of its two participants.
func (s *SwapService) Get(ctx context.Context, swapID, userID uuid.UUID) (*domain.Swap, error) {
	swap, err := s.swapRepo.GetByID(ctx, swapID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSwapNotFound
		}
		return nil, err
	}
	if !swap.HasParticipant(userID) {
		return nil, domain.ErrNotParticipant
	}
	return swap, nil
}

// Accept transitions a pending swap to accepted. Receiver-only. The cascading
// invalidation of competing pending swaps and open requests happens in the
// same transaction.
func (s *SwapService) Accept(ctx context.Context, swapID, userID uuid.UUID) (*domain.Swap, error) {
	swap, err := s.Get(ctx, swapID, userID)
	if err != nil {
		return nil, err
	}
	if swap.ReceiverID != userID {
		return nil, ErrNotReceiver
	}
	if swap.Status != domain.SwapStatusPending {
		return nil, ErrInvalidSwapState
	}

	swap.UpdatedAt = time.Now()
	if err := s.swapRepo.AcceptAndInvalidate(ctx, swap); err != nil {
		if errors.Is(err, domain.ErrSwapNotPending) {
			return nil, ErrInvalidSwapState
		}
		return nil, err
	}
	return swap, nil
}

func (s *SwapService) Reject(ctx context.Context, swapID, userID uuid.UUID, reason string) (*domain.Swap, error) {
	swap, err := s.Get(ctx, swapID, userID)
	if err != nil {
		return nil, err
	}
	if swap.ReceiverID != userID {
		return nil, ErrNotReceiver
	}
	if swap.Status != domain.SwapStatusPending {
		return nil, ErrInvalidSwapState
	}

	swap.Status = domain.SwapStatusRejected
	swap.RejectReason = reason
	swap.UpdatedAt = time.Now()

	if err := s.swapRepo.Update(ctx, swap); err != nil {
		return nil, err
	}
	return swap, nil
}

func (s *SwapService) Cancel(ctx context.Context, swapID, userID uuid.UUID, reason string) (*domain.Swap, error) {
	swap, err := s.Get(ctx, swapID, userID)
	if err != nil {
		return nil, err
	}
	if swap.Status == domain.SwapStatusCompleted || swap.Status == domain.SwapStatusCancelled {
		return nil, ErrInvalidSwapState
	}

	swap.Status = domain.SwapStatusCancelled
	swap.CancelReason = reason
	swap.UpdatedAt = time.Now()

	if err := s.swapRepo.Update(ctx, swap); err != nil {
		return nil, err
	}
	return swap, nil
}

func (s *SwapService) Complete(ctx context.Context, swapID, userID uuid.UUID) (*domain.Swap, error) {
	swap, err := s.Get(ctx, swapID, userID)
	if err != nil {
		return nil, err
	}
	if swap.Status != domain.SwapStatusAccepted && swap.Status != domain.SwapStatusActive {
		return nil, ErrInvalidSwapState
	}

	now := time.Now()
	swap.Status = domain.SwapStatusCompleted
	swap.CompletedAt = &now
	swap.EndDate = &now
	swap.UpdatedAt = now

	if err := s.swapRepo.Update(ctx, swap); err != nil {
		return nil, err
	}
	return swap, nil
}

// Setup sets the caller's own teaching-session target. Once both parties have
// a target the swap moves from accepted to active.
func (s *SwapService) Setup(ctx context.Context, swapID, userID uuid.UUID, totalSessions int) (*domain.Swap, error) {
	if totalSessions < 1 {
		return nil, ErrInvalidTotalSessions
	}

	swap, err := s.Get(ctx, swapID, userID)
	if err != nil {
		return nil, err
	}
	if swap.Status != domain.SwapStatusAccepted && swap.Status != domain.SwapStatusActive {
		return nil, ErrInvalidSwapState
	}

	offering := swap.OfferingOf(userID)
	offering.TotalSessions = totalSessions

	if swap.Status == domain.SwapStatusAccepted &&
		swap.RequesterOffering.TotalSessions >= 1 && swap.ReceiverOffering.TotalSessions >= 1 {
		swap.Status = domain.SwapStatusActive
	}
	swap.UpdatedAt = time.Now()

	if err := s.swapRepo.Update(ctx, swap); err != nil {
		return nil, err
	}
	return swap, nil
}

func (s *SwapService) AddMessage(ctx context.Context, swapID, senderID uuid.UUID, content string) (*domain.SwapMessage, *domain.Swap, error) {
	if content == "" {
		return nil, nil, ErrEmptyMessage
	}

	swap, err := s.Get(ctx, swapID, senderID)
	if err != nil {
		return nil, nil, err
	}

	msg := &domain.SwapMessage{
		ID:        uuid.New(),
		SwapID:    swap.ID,
		SenderID:  senderID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, nil, err
	}
	return msg, swap, nil
}

func (s *SwapService) ListMessages(ctx context.Context, swapID, userID uuid.UUID, limit, offset int) ([]*domain.SwapMessage, error) {
	if _, err := s.Get(ctx, swapID, userID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.messageRepo.ListBySwapID(ctx, swapID, limit, offset)
}

// MarkMessagesRead flips read on everything the caller has not sent and
// returns the swap plus how many messages changed.
func (s *SwapService) MarkMessagesRead(ctx context.Context, swapID, userID uuid.UUID) (*domain.Swap, int64, error) {
	swap, err := s.Get(ctx, swapID, userID)
	if err != nil {
		return nil, 0, err
	}

	n, err := s.messageRepo.MarkRead(ctx, swapID, userID)
	if err != nil {
		return nil, 0, err
	}
	return swap, n, nil
}

func (s *SwapService) CountUnread(ctx context.Context, swapID, userID uuid.UUID) (int64, error) {
	return s.messageRepo.CountUnread(ctx, swapID, userID)
}

// AddReview records a post-completion review and folds the rating into the
// counterpart's running average teaching rating.
func (s *SwapService) AddReview(ctx context.Context, swapID, reviewerID uuid.UUID, rating int, comment string) (*domain.SwapReview, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	swap, err := s.Get(ctx, swapID, reviewerID)
	if err != nil {
		return nil, err
	}
	if swap.Status != domain.SwapStatusCompleted {
		return nil, ErrSwapNotCompleted
	}

	existing, err := s.reviewRepo.GetBySwapAndReviewer(ctx, swapID, reviewerID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyReviewed
	}

	review := &domain.SwapReview{
		ID:         uuid.New(),
		SwapID:     swapID,
		ReviewerID: reviewerID,
		Rating:     rating,
		Comment:    comment,
		CreatedAt:  time.Now(),
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	// the review rates the other party's teaching
	counterpart, err := s.userRepo.GetByID(ctx, swap.OtherParticipant(reviewerID))
	if err != nil {
		return nil, err
	}
	oldCount := counterpart.TeachingRatingCount
	counterpart.TeachingRating = (counterpart.TeachingRating*float64(oldCount) + float64(rating)) / float64(oldCount+1)
	counterpart.TeachingRatingCount = oldCount + 1
	counterpart.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, counterpart); err != nil {
		return nil, err
	}
	return review, nil
}

// SwapStats is the caller's dashboard summary: swap counts plus derived
// per-skill teaching and learning progress.
type SwapStats struct {
	TotalSwaps       int             `json:"totalSwaps"`
	PendingSwaps     int             `json:"pendingSwaps"`
	ActiveSwaps      int             `json:"activeSwaps"`
	CompletedSwaps   int             `json:"completedSwaps"`
	TeachingProgress []SkillProgress `json:"teachingProgress"`
	LearningProgress []SkillProgress `json:"learningProgress"`
}

func (s *SwapService) Stats(ctx context.Context, userID uuid.UUID) (*SwapStats, error) {
	swaps, err := s.swapRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &SwapStats{TotalSwaps: len(swaps)}
	var teaching, learning []SkillProgress

	for _, swap := range swaps {
		switch swap.Status {
		case domain.SwapStatusPending:
			stats.PendingSwaps++
		case domain.SwapStatusAccepted, domain.SwapStatusActive:
			stats.ActiveSwaps++
		case domain.SwapStatusCompleted:
			stats.CompletedSwaps++
		}

		if swap.Status == domain.SwapStatusPending || swap.Status == domain.SwapStatusRejected ||
			swap.Status == domain.SwapStatusCancelled {
			continue
		}

		otherID := swap.OtherParticipant(userID)

		own := swap.OfferingOf(userID)
		taught, err := s.sessionRepo.CountCompletedByTeacher(ctx, swap.ID, userID)
		if err != nil {
			return nil, err
		}
		teaching = append(teaching, SkillProgress{
			SkillName:         own.SkillName,
			CompletedSessions: int(taught),
			TotalSessions:     own.TotalSessions,
		})

		theirs := swap.OfferingOf(otherID)
		learned, err := s.sessionRepo.CountCompletedByTeacher(ctx, swap.ID, otherID)
		if err != nil {
			return nil, err
		}
		learning = append(learning, SkillProgress{
			SkillName:         theirs.SkillName,
			CompletedSessions: int(learned),
			TotalSessions:     theirs.TotalSessions,
		})
	}

	stats.TeachingProgress = mergeProgress(teaching)
	stats.LearningProgress = mergeProgress(learning)
	return stats, nil
}
