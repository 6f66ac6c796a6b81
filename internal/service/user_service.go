package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/skillswap/skillswap-server/internal/domain"
	"github.com/skillswap/skillswap-server/internal/repository"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrNotProfileOwner = errors.New("users can only edit their own profile")

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfileInput carries the editable profile sections. Nil fields are
// left untouched.
type UpdateProfileInput struct {
	Name          *string
	Bio           *string
	SkillsOffered datatypes.JSON
	SkillsWanted  datatypes.JSON
	Experience    datatypes.JSON
	Projects      datatypes.JSON
	Availability  datatypes.JSON
}

func (s *UserService) UpdateProfile(ctx context.Context, callerID, targetID uuid.UUID, input UpdateProfileInput) (*domain.User, error) {
	if callerID != targetID {
		return nil, ErrNotProfileOwner
	}

	user, err := s.GetUser(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.SkillsOffered != nil {
		user.SkillsOffered = input.SkillsOffered
	}
	if input.SkillsWanted != nil {
		user.SkillsWanted = input.SkillsWanted
	}
	if input.Experience != nil {
		user.Experience = input.Experience
	}
	if input.Projects != nil {
		user.Projects = input.Projects
	}
	if input.Availability != nil {
		user.Availability = input.Availability
	}
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
