package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/skillswap/skillswap-server/internal/api/middleware"
	"github.com/skillswap/skillswap-server/internal/domain"
	"github.com/skillswap/skillswap-server/internal/service"
	"github.com/skillswap/skillswap-server/internal/validate"
)

type SessionHandler struct {
	sessionService *service.SessionService
}

func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

type CreateSessionRequest struct {
	SwapID    string    `json:"swapId" validate:"required,uuid"`
	StartTime time.Time `json:"startTime" validate:"required"`
	EndTime   time.Time `json:"endTime" validate:"required"`
	Notes     string    `json:"notes" validate:"max=5000"`
}

type RescheduleSessionRequest struct {
	StartTime time.Time `json:"startTime" validate:"required"`
	EndTime   time.Time `json:"endTime" validate:"required"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=in-progress completed cancelled"`
}

type RateSessionRequest struct {
	Rating   int    `json:"rating" validate:"required,gte=1,lte=5"`
	Feedback string `json:"feedback" validate:"max=2000"`
}

type UpdateNotesRequest struct {
	Notes string `json:"notes" validate:"max=5000"`
}

func (h *SessionHandler) callerAndSessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return uuid.Nil, uuid.Nil, false
	}

	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid session id")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, sessionID, true
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validate.Struct(req); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	swapID, _ := uuid.Parse(req.SwapID)

	session, err := h.sessionService.Create(r.Context(), userID, service.CreateSessionInput{
		SwapID:    swapID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Notes:     req.Notes,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusCreated, session)
}

func (h *SessionHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	sessions, err := h.sessionService.ListForUser(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, sessions)
}

func (h *SessionHandler) ListForSwap(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	swapID, err := uuid.Parse(chi.URLParam(r, "swapId"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid swap id")
		return
	}

	sessions, err := h.sessionService.ListForSwap(r.Context(), swapID, userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, sessions)
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := h.callerAndSessionID(w, r)
	if !ok {
		return
	}

	session, err := h.sessionService.Get(r.Context(), sessionID, userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, session)
}

func (h *SessionHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := h.callerAndSessionID(w, r)
	if !ok {
		return
	}

	var req RescheduleSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validate.Struct(req); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	session, err := h.sessionService.Reschedule(r.Context(), sessionID, userID, service.RescheduleInput{
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, session)
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := h.callerAndSessionID(w, r)
	if !ok {
		return
	}

	if err := h.sessionService.Delete(r.Context(), sessionID, userID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "Session deleted")
}

func (h *SessionHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := h.callerAndSessionID(w, r)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validate.Struct(req); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	session, err := h.sessionService.UpdateStatus(r.Context(), sessionID, userID, domain.SessionStatus(req.Status))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, session)
}

func (h *SessionHandler) ConfirmAttendance(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := h.callerAndSessionID(w, r)
	if !ok {
		return
	}

	session, err := h.sessionService.ConfirmAttendance(r.Context(), sessionID, userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, session)
}

func (h *SessionHandler) Rate(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := h.callerAndSessionID(w, r)
	if !ok {
		return
	}

	var req RateSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validate.Struct(req); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	session, err := h.sessionService.Rate(r.Context(), sessionID, userID, req.Rating, req.Feedback)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, session)
}

func (h *SessionHandler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := h.callerAndSessionID(w, r)
	if !ok {
		return
	}

	var req UpdateNotesRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validate.Struct(req); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	session, err := h.sessionService.UpdateNotes(r.Context(), sessionID, userID, req.Notes)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, session)
}
