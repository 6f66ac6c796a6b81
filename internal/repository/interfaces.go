package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/skillswap/skillswap-server/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	// Delete hard-deletes a user row. Only used to supersede unverified
	// registrations and to roll back registration on email failure.
	Delete(ctx context.Context, id uuid.UUID) error
}

type UserSessionRepository interface {
	Create(ctx context.Context, session *domain.UserSession) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserSession, error)
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

type SwapRequestRepository interface {
	Create(ctx context.Context, req *domain.SwapRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.SwapRequest, error)
	Update(ctx context.Context, req *domain.SwapRequest) error
	// ListOpen returns open requests newest first, excluding those posted by
	// excludeUserID.
	ListOpen(ctx context.Context, excludeUserID uuid.UUID, limit, offset int) ([]*domain.SwapRequest, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.SwapRequest, error)
}

type SwapRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Swap, error)
	Update(ctx context.Context, swap *domain.Swap) error
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Swap, error)
	// CreatePending inserts a new pending swap after re-checking, inside one
	// transaction, that no pending swap exists between the pair. Returns
	// domain.ErrPendingSwapExists when one does.
	CreatePending(ctx context.Context, swap *domain.Swap) error
	// CreateAccepted inserts a swap directly in accepted state and marks the
	// originating request matched, in one transaction.
	CreateAccepted(ctx context.Context, swap *domain.Swap, request *domain.SwapRequest) error
	GetPendingBetween(ctx context.Context, userA, userB uuid.UUID) (*domain.Swap, error)
	// AcceptAndInvalidate transitions the swap to accepted and, in the same
	// transaction, deletes all other pending swaps touching either participant
	// and marks their open swap requests inactive.
	AcceptAndInvalidate(ctx context.Context, swap *domain.Swap) error
}

type SwapMessageRepository interface {
	Create(ctx context.Context, msg *domain.SwapMessage) error
	// ListBySwapID returns messages oldest first.
	ListBySwapID(ctx context.Context, swapID uuid.UUID, limit, offset int) ([]*domain.SwapMessage, error)
	// MarkRead flags all messages in the swap not sent by readerID as read and
	// returns how many rows changed.
	MarkRead(ctx context.Context, swapID, readerID uuid.UUID) (int64, error)
	CountUnread(ctx context.Context, swapID, userID uuid.UUID) (int64, error)
}

type SwapReviewRepository interface {
	Create(ctx context.Context, review *domain.SwapReview) error
	GetBySwapAndReviewer(ctx context.Context, swapID, reviewerID uuid.UUID) (*domain.SwapReview, error)
	ListBySwapID(ctx context.Context, swapID uuid.UUID) ([]*domain.SwapReview, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error)
	Update(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Session, error)
	ListBySwapID(ctx context.Context, swapID uuid.UUID) ([]*domain.Session, error)
	// CountCompletedByTeacher counts completed sessions taught by teacherID
	// within the swap; the input to progress aggregation.
	CountCompletedByTeacher(ctx context.Context, swapID, teacherID uuid.UUID) (int64, error)
}

type Repositories struct {
	User        UserRepository
	UserSession UserSessionRepository
	SwapRequest SwapRequestRepository
	Swap        SwapRepository
	SwapMessage SwapMessageRepository
	SwapReview  SwapReviewRepository
	Session     SessionRepository
}
