package domain

import (
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	SessionStatusScheduled  SessionStatus = "scheduled"
	SessionStatusInProgress SessionStatus = "in-progress"
	SessionStatusCompleted  SessionStatus = "completed"
	SessionStatusCancelled  SessionStatus = "cancelled"
)

// Session is one scheduled meeting within a swap. Each session records its
// own teacher/learner pair: who teaches depends on which participant created
// it, not on a fixed swap direction.
type Session struct {
	ID              uuid.UUID     `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SwapID          uuid.UUID     `json:"swapId" gorm:"type:uuid;not null;index"`
	TeacherID       uuid.UUID     `json:"teacherId" gorm:"type:uuid;not null;index"`
	LearnerID       uuid.UUID     `json:"learnerId" gorm:"type:uuid;not null;index"`
	SkillName       string        `json:"skillName" gorm:"not null"`
	StartTime       time.Time     `json:"startTime" gorm:"not null"`
	EndTime         time.Time     `json:"endTime" gorm:"not null"`
	DurationMinutes int           `json:"durationMinutes" gorm:"not null"`
	Status          SessionStatus `json:"status" gorm:"not null;default:'scheduled';index"`

	// Attendance confirmations; set independently by each party, never unset.
	TeacherConfirmed bool `json:"teacherConfirmed" gorm:"not null;default:false"`
	LearnerConfirmed bool `json:"learnerConfirmed" gorm:"not null;default:false"`

	Notes string `json:"notes"`

	// One-sided ratings: teacher rates learner and vice versa, each at most once.
	TeacherRating   *int   `json:"teacherRating"`
	TeacherFeedback string `json:"teacherFeedback"`
	LearnerRating   *int   `json:"learnerRating"`
	LearnerFeedback string `json:"learnerFeedback"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Teacher *User `json:"teacher,omitempty" gorm:"foreignKey:TeacherID"`
	Learner *User `json:"learner,omitempty" gorm:"foreignKey:LearnerID"`
	Swap    *Swap `json:"swap,omitempty" gorm:"foreignKey:SwapID"`
}

func (s *Session) HasParticipant(userID uuid.UUID) bool {
	return s.TeacherID == userID || s.LearnerID == userID
}

func (s *Session) IsTerminal() bool {
	return s.Status == SessionStatusCompleted || s.Status == SessionStatusCancelled
}

// BothConfirmed reports whether both parties have confirmed attendance,
// the gate for marking a session completed.
func (s *Session) BothConfirmed() bool {
	return s.TeacherConfirmed && s.LearnerConfirmed
}
