package domain

import (
	"time"

	"github.com/google/uuid"
)

type SwapRequestStatus string

const (
	SwapRequestStatusOpen     SwapRequestStatus = "open"
	SwapRequestStatusMatched  SwapRequestStatus = "matched"
	SwapRequestStatusInactive SwapRequestStatus = "inactive"
)

// SwapRequest is a unilateral marketplace offer: the owner teaches Offering
// and wants to learn LookingFor. It stays open until a response is accepted
// (matched) or an unrelated swap acceptance invalidates it (inactive).
type SwapRequest struct {
	ID          uuid.UUID         `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID      uuid.UUID         `json:"userId" gorm:"type:uuid;not null;index"`
	Offering    string            `json:"offering" gorm:"not null"`
	LookingFor  string            `json:"lookingFor" gorm:"not null"`
	Preferences string            `json:"preferences"`
	Status      SwapRequestStatus `json:"status" gorm:"not null;default:'open';index"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (r *SwapRequest) IsOpen() bool {
	return r.Status == SwapRequestStatusOpen
}
