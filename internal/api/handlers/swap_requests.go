package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/skillswap/skillswap-server/internal/api/middleware"
	"github.com/skillswap/skillswap-server/internal/service"
	"github.com/skillswap/skillswap-server/internal/validate"
)

type SwapRequestHandler struct {
	requestService *service.SwapRequestService
}

func NewSwapRequestHandler(requestService *service.SwapRequestService) *SwapRequestHandler {
	return &SwapRequestHandler{requestService: requestService}
}

type CreateSwapRequestRequest struct {
	Offering    string `json:"offering" validate:"required,max=100"`
	LookingFor  string `json:"lookingFor" validate:"required,max=100"`
	Preferences string `json:"preferences" validate:"max=1000"`
}

type AcceptResponseRequest struct {
	ResponderID string `json:"responderId" validate:"required,uuid"`
}

func (h *SwapRequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateSwapRequestRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validate.Struct(req); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := h.requestService.Create(r.Context(), userID, service.CreateRequestInput{
		Offering:    req.Offering,
		LookingFor:  req.LookingFor,
		Preferences: req.Preferences,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusCreated, created)
}

func (h *SwapRequestHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	requests, err := h.requestService.ListOpen(r.Context(), userID, limit, offset)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, requests)
}

func (h *SwapRequestHandler) MyRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	requests, err := h.requestService.ListMine(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, requests)
}

func (h *SwapRequestHandler) Respond(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	requestID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request id")
		return
	}

	swap, err := h.requestService.Respond(r.Context(), requestID, userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusCreated, swap)
}

func (h *SwapRequestHandler) AcceptResponse(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	requestID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request id")
		return
	}

	var req AcceptResponseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validate.Struct(req); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	responderID, _ := uuid.Parse(req.ResponderID)

	swap, err := h.requestService.AcceptResponse(r.Context(), requestID, userID, responderID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusCreated, swap)
}
