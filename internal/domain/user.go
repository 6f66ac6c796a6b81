package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name         string    `json:"name" gorm:"not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`

	IsEmailVerified bool       `json:"isEmailVerified" gorm:"not null;default:false"`
	IsActive        bool       `json:"isActive" gorm:"not null;default:false"`
	OTP             string     `json:"-"`
	OTPExpiresAt    *time.Time `json:"-"`

	// Free-form profile sections edited by the SPA
	Bio           string         `json:"bio"`
	SkillsOffered datatypes.JSON `json:"skillsOffered"`
	SkillsWanted  datatypes.JSON `json:"skillsWanted"`
	Experience    datatypes.JSON `json:"experience"`
	Projects      datatypes.JSON `json:"projects"`
	Availability  datatypes.JSON `json:"availability"`

	// Running averages maintained by review/rating submissions
	TeachingRating      float64 `json:"teachingRating" gorm:"not null;default:0"`
	TeachingRatingCount int     `json:"teachingRatingCount" gorm:"not null;default:0"`
	LearningRating      float64 `json:"learningRating" gorm:"not null;default:0"`
	LearningRatingCount int     `json:"learningRatingCount" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OTPValid reports whether the stored code matches and has not expired.
func (u *User) OTPValid(code string, now time.Time) bool {
	if u.OTP == "" || u.OTPExpiresAt == nil {
		return false
	}
	return u.OTP == code && now.Before(*u.OTPExpiresAt)
}

type UserSession struct {
	ID               uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID           uuid.UUID `json:"userId" gorm:"type:uuid;not null"`
	RefreshTokenHash string    `json:"-" gorm:"not null"`
	ExpiresAt        time.Time `json:"expiresAt" gorm:"not null"`
	CreatedAt        time.Time `json:"createdAt"`
}
