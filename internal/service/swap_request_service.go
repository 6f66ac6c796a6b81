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
	ErrRequestNotFound  = errors.New("swap request not found")
	ErrRequestNotOpen   = errors.New("swap request is no longer open")
	ErrSelfResponse     = errors.New("cannot respond to your own swap request")
	ErrNotRequestOwner  = errors.New("only the request owner can accept a response")
	ErrInvalidResponder = errors.New("responder must be a different user")
)

type SwapRequestService struct {
	requestRepo repository.SwapRequestRepository
	swapRepo    repository.SwapRepository
}

func NewSwapRequestService(requestRepo repository.SwapRequestRepository, swapRepo repository.SwapRepository) *SwapRequestService {
	return &SwapRequestService{
		requestRepo: requestRepo,
		swapRepo:    swapRepo,
	}
}

type CreateRequestInput struct {
	Offering    string
	LookingFor  string
	Preferences string
}

func (s *SwapRequestService) Create(ctx context.Context, userID uuid.UUID, input CreateRequestInput) (*domain.SwapRequest, error) {
	req := &domain.SwapRequest{
		ID:          uuid.New(),
		UserID:      userID,
		Offering:    input.Offering,
		LookingFor:  input.LookingFor,
		Preferences: input.Preferences,
		Status:      domain.SwapRequestStatusOpen,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.requestRepo.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *SwapRequestService) ListOpen(ctx context.Context, callerID uuid.UUID, limit, offset int) ([]*domain.SwapRequest, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.requestRepo.ListOpen(ctx, callerID, limit, offset)
}

func (s *SwapRequestService) ListMine(ctx context.Context, userID uuid.UUID) ([]*domain.SwapRequest, error) {
	return s.requestRepo.ListByUserID(ctx, userID)
}

func (s *SwapRequestService) get(ctx context.Context, id uuid.UUID) (*domain.SwapRequest, error) {
	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return req, nil
}

// Respond creates a pending swap from an open request, with offerings
// cross-mapped (see buildSwapFromRequest). Many users may respond to the same
// request while it is open; each response yields its own pending swap, capped
// at one per user pair.
func (s *SwapRequestService) Respond(ctx context.Context, requestID, responderID uuid.UUID) (*domain.Swap, error) {
	req, err := s.get(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if !req.IsOpen() {
		return nil, ErrRequestNotOpen
	}
	if req.UserID == responderID {
		return nil, ErrSelfResponse
	}

	swap := buildSwapFromRequest(req, responderID)
	if err := s.swapRepo.CreatePending(ctx, swap); err != nil {
		return nil, err
	}
	return swap, nil
}

// AcceptResponse lets the request owner skip the pending stage: the swap is
// created directly in accepted state and the request is marked matched.
func (s *SwapRequestService) AcceptResponse(ctx context.Context, requestID, ownerID, responderID uuid.UUID) (*domain.Swap, error) {
	req, err := s.get(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if req.UserID != ownerID {
		return nil, ErrNotRequestOwner
	}
	if !req.IsOpen() {
		return nil, ErrRequestNotOpen
	}
	if responderID == ownerID {
		return nil, ErrInvalidResponder
	}

	swap := buildSwapFromRequest(req, responderID)
	if err := s.swapRepo.CreateAccepted(ctx, swap, req); err != nil {
		return nil, err
	}
	return swap, nil
}

// buildSwapFromRequest cross-maps the offerings: the request owner becomes the
// swap requester teaching the skill the request was lookingFor, and the
// responder becomes the receiver teaching the skill the request was offering.
func buildSwapFromRequest(req *domain.SwapRequest, responderID uuid.UUID) *domain.Swap {
	requestID := req.ID
	return &domain.Swap{
		ID:          uuid.New(),
		RequesterID: req.UserID,
		ReceiverID:  responderID,
		RequesterOffering: domain.Offering{
			SkillName: req.LookingFor,
		},
		ReceiverOffering: domain.Offering{
			SkillName: req.Offering,
		},
		RequestID: &requestID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}
