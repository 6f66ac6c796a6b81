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
	ErrSessionNotFound      = errors.New("session not found")
	ErrNotTeacher           = errors.New("only the teacher can perform this action")
	ErrInvalidTimeRange     = errors.New("end time must be after start time")
	ErrInvalidSessionState  = errors.New("invalid session state for this action")
	ErrAttendanceIncomplete = errors.New("both parties must confirm attendance before completion")
	ErrSessionNotCompleted  = errors.New("session is not completed")
	ErrAlreadyRated         = errors.New("session already rated by this user")
	ErrInvalidStatusTarget  = errors.New("unsupported session status")
)

type SessionService struct {
	sessionRepo repository.SessionRepository
	swapRepo    repository.SwapRepository
}

func NewSessionService(sessionRepo repository.SessionRepository, swapRepo repository.SwapRepository) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		swapRepo:    swapRepo,
	}
}

type CreateSessionInput struct {
	SwapID    uuid.UUID
	StartTime time.Time
	EndTime   time.Time
	Notes     string
}

// Create schedules a session within an accepted or active swap. The creator
// teaches it; the other participant learns. The taught skill is the creator's
// offering.
func (s *SessionService) Create(ctx context.Context, creatorID uuid.UUID, input CreateSessionInput) (*domain.Session, error) {
	swap, err := s.swapRepo.GetByID(ctx, input.SwapID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSwapNotFound
		}
		return nil, err
	}
	if !swap.HasParticipant(creatorID) {
		return nil, domain.ErrNotParticipant
	}
	if swap.Status != domain.SwapStatusAccepted && swap.Status != domain.SwapStatusActive {
		return nil, ErrInvalidSwapState
	}
	if !input.EndTime.After(input.StartTime) {
		return nil, ErrInvalidTimeRange
	}

	session := &domain.Session{
		ID:              uuid.New(),
		SwapID:          swap.ID,
		TeacherID:       creatorID,
		LearnerID:       swap.OtherParticipant(creatorID),
		SkillName:       swap.OfferingOf(creatorID).SkillName,
		StartTime:       input.StartTime,
		EndTime:         input.EndTime,
		DurationMinutes: int(input.EndTime.Sub(input.StartTime).Minutes()),
		Status:          domain.SessionStatusScheduled,
		Notes:           input.Notes,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *SessionService) Get(ctx context.Context, sessionID, userID uuid.UUID) (*domain.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if !session.HasParticipant(userID) {
		return nil, domain.ErrNotParticipant
	}
	return session, nil
}

func (s *SessionService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Session, error) {
	return s.sessionRepo.ListByUserID(ctx, userID)
}

func (s *SessionService) ListForSwap(ctx context.Context, swapID, userID uuid.UUID) ([]*domain.Session, error) {
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
	return s.sessionRepo.ListBySwapID(ctx, swapID)
}

type RescheduleInput struct {
	StartTime time.Time
	EndTime   time.Time
}

// Reschedule moves a session that has not started yet.
func (s *SessionService) Reschedule(ctx context.Context, sessionID, userID uuid.UUID, input RescheduleInput) (*domain.Session, error) {
	session, err := s.Get(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session.Status != domain.SessionStatusScheduled {
		return nil, ErrInvalidSessionState
	}
	if !input.EndTime.After(input.StartTime) {
		return nil, ErrInvalidTimeRange
	}

	session.StartTime = input.StartTime
	session.EndTime = input.EndTime
	session.DurationMinutes = int(input.EndTime.Sub(input.StartTime).Minutes())
	session.UpdatedAt = time.Now()

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Delete removes an unstarted session. Teacher-only.
func (s *SessionService) Delete(ctx context.Context, sessionID, userID uuid.UUID) error {
	session, err := s.Get(ctx, sessionID, userID)
	if err != nil {
		return err
	}
	if session.TeacherID != userID {
		return ErrNotTeacher
	}
	if session.Status != domain.SessionStatusScheduled {
		return ErrInvalidSessionState
	}
	return s.sessionRepo.Delete(ctx, session.ID)
}

// UpdateStatus drives the session state machine. Completing and cancelling
// are teacher-only; completion additionally requires both attendance flags to
// already be set — the teacher's own flag is not set implicitly here.
func (s *SessionService) UpdateStatus(ctx context.Context, sessionID, userID uuid.UUID, status domain.SessionStatus) (*domain.Session, error) {
	session, err := s.Get(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session.IsTerminal() {
		return nil, ErrInvalidSessionState
	}

	switch status {
	case domain.SessionStatusInProgress:
		if session.Status != domain.SessionStatusScheduled {
			return nil, ErrInvalidSessionState
		}
	case domain.SessionStatusCompleted:
		if session.TeacherID != userID {
			return nil, ErrNotTeacher
		}
		if !session.BothConfirmed() {
			return nil, ErrAttendanceIncomplete
		}
	case domain.SessionStatusCancelled:
		if session.TeacherID != userID {
			return nil, ErrNotTeacher
		}
	default:
		return nil, ErrInvalidStatusTarget
	}

	session.Status = status
	session.UpdatedAt = time.Now()

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// ConfirmAttendance sets the caller's own flag. There is no way to unset it.
func (s *SessionService) ConfirmAttendance(ctx context.Context, sessionID, userID uuid.UUID) (*domain.Session, error) {
	session, err := s.Get(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session.Status == domain.SessionStatusCancelled {
		return nil, ErrInvalidSessionState
	}

	if session.TeacherID == userID {
		session.TeacherConfirmed = true
	} else {
		session.LearnerConfirmed = true
	}
	session.UpdatedAt = time.Now()

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Rate fills the caller's one-sided rating slot on a completed session:
// the teacher rates the learner, the learner rates the teacher. Each slot is
// fillable exactly once.
func (s *SessionService) Rate(ctx context.Context, sessionID, userID uuid.UUID, rating int, feedback string) (*domain.Session, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	session, err := s.Get(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session.Status != domain.SessionStatusCompleted {
		return nil, ErrSessionNotCompleted
	}

	if session.TeacherID == userID {
		if session.TeacherRating != nil {
			return nil, ErrAlreadyRated
		}
		session.TeacherRating = &rating
		session.TeacherFeedback = feedback
	} else {
		if session.LearnerRating != nil {
			return nil, ErrAlreadyRated
		}
		session.LearnerRating = &rating
		session.LearnerFeedback = feedback
	}
	session.UpdatedAt = time.Now()

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// UpdateNotes replaces the shared notes. Last write wins.
func (s *SessionService) UpdateNotes(ctx context.Context, sessionID, userID uuid.UUID, notes string) (*domain.Session, error) {
	session, err := s.Get(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	session.Notes = notes
	session.UpdatedAt = time.Now()

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}
