package domain

import (
	"time"

	"github.com/google/uuid"
)

// SwapMessage is one entry in a swap's conversation log. Messages live in
// their own table keyed by swap id so the log can grow without bloating the
// swap row and can be paginated.
type SwapMessage struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SwapID    uuid.UUID `json:"swapId" gorm:"type:uuid;not null;index"`
	SenderID  uuid.UUID `json:"senderId" gorm:"type:uuid;not null"`
	Content   string    `json:"content" gorm:"not null"`
	Read      bool      `json:"read" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"createdAt"`

	Sender *User `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
}
