package domain

import (
	"time"

	"github.com/google/uuid"
)

type SwapStatus string

const (
	SwapStatusPending   SwapStatus = "pending"
	SwapStatusAccepted  SwapStatus = "accepted"
	SwapStatusActive    SwapStatus = "active"
	SwapStatusCompleted SwapStatus = "completed"
	SwapStatusRejected  SwapStatus = "rejected"
	SwapStatusCancelled SwapStatus = "cancelled"
)

// Offering is one party's side of a swap: the skill they teach and the
// session target they set for themselves via setup.
type Offering struct {
	SkillName       string `json:"skillName"`
	ExperienceLevel string `json:"experienceLevel"`
	Description     string `json:"description"`
	TotalSessions   int    `json:"totalSessions"`
}

// Swap is the bilateral exchange contract between exactly two users.
type Swap struct {
	ID                uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	RequesterID       uuid.UUID  `json:"requesterId" gorm:"type:uuid;not null;index"`
	ReceiverID        uuid.UUID  `json:"receiverId" gorm:"type:uuid;not null;index"`
	RequesterOffering Offering   `json:"requesterOffering" gorm:"embedded;embeddedPrefix:requester_"`
	ReceiverOffering  Offering   `json:"receiverOffering" gorm:"embedded;embeddedPrefix:receiver_"`
	Status            SwapStatus `json:"status" gorm:"not null;default:'pending';index"`
	RequestID         *uuid.UUID `json:"requestId" gorm:"type:uuid"`
	RejectReason      string     `json:"rejectReason,omitempty"`
	CancelReason      string     `json:"cancelReason,omitempty"`
	StartDate         *time.Time `json:"startDate"`
	EndDate           *time.Time `json:"endDate"`
	CompletedAt       *time.Time `json:"completedAt"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`

	Requester *User        `json:"requester,omitempty" gorm:"foreignKey:RequesterID"`
	Receiver  *User        `json:"receiver,omitempty" gorm:"foreignKey:ReceiverID"`
	Reviews   []SwapReview `json:"reviews,omitempty" gorm:"foreignKey:SwapID"`
}

func (s *Swap) HasParticipant(userID uuid.UUID) bool {
	return s.RequesterID == userID || s.ReceiverID == userID
}

// OtherParticipant returns the counterpart of userID. Callers must check
// HasParticipant first.
func (s *Swap) OtherParticipant(userID uuid.UUID) uuid.UUID {
	if s.RequesterID == userID {
		return s.ReceiverID
	}
	return s.RequesterID
}

// OfferingOf returns a pointer to the offering taught by userID, or nil when
// userID is not a participant.
func (s *Swap) OfferingOf(userID uuid.UUID) *Offering {
	switch userID {
	case s.RequesterID:
		return &s.RequesterOffering
	case s.ReceiverID:
		return &s.ReceiverOffering
	}
	return nil
}

func (s *Swap) IsTerminal() bool {
	switch s.Status {
	case SwapStatusCompleted, SwapStatusCancelled, SwapStatusRejected:
		return true
	}
	return false
}

// SwapReview is one participant's post-completion review of the exchange.
// At most one per reviewer per swap.
type SwapReview struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SwapID     uuid.UUID `json:"swapId" gorm:"type:uuid;not null;uniqueIndex:idx_swap_reviewer"`
	ReviewerID uuid.UUID `json:"reviewerId" gorm:"type:uuid;not null;uniqueIndex:idx_swap_reviewer"`
	Rating     int       `json:"rating" gorm:"not null"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"createdAt"`
}
