package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/skillswap/skillswap-server/internal/api/middleware"
	"github.com/skillswap/skillswap-server/internal/service"
	"github.com/skillswap/skillswap-server/internal/validate"
	"gorm.io/datatypes"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type UpdateProfileRequest struct {
	Name          *string        `json:"name" validate:"omitempty,min=2,max=100"`
	Bio           *string        `json:"bio" validate:"omitempty,max=2000"`
	SkillsOffered datatypes.JSON `json:"skillsOffered"`
	SkillsWanted  datatypes.JSON `json:"skillsWanted"`
	Experience    datatypes.JSON `json:"experience"`
	Projects      datatypes.JSON `json:"projects"`
	Availability  datatypes.JSON `json:"availability"`
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	user, err := h.userService.GetUser(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, user)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	targetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	var req UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validate.Struct(req); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), callerID, targetID, service.UpdateProfileInput{
		Name:          req.Name,
		Bio:           req.Bio,
		SkillsOffered: req.SkillsOffered,
		SkillsWanted:  req.SkillsWanted,
		Experience:    req.Experience,
		Projects:      req.Projects,
		Availability:  req.Availability,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, user)
}
