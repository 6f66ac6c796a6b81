package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/skillswap/skillswap-server/internal/api/middleware"
	"github.com/skillswap/skillswap-server/internal/domain"
	"github.com/skillswap/skillswap-server/internal/service"
	"github.com/skillswap/skillswap-server/internal/validate"
	ws "github.com/skillswap/skillswap-server/internal/websocket"
)

type SwapHandler struct {
	swapService *service.SwapService
	hub         *ws.Hub
}

func NewSwapHandler(swapService *service.SwapService, hub *ws.Hub) *SwapHandler {
	return &SwapHandler{swapService: swapService, hub: hub}
}

type ReasonRequest struct {
	Reason string `json:"reason" validate:"max=1000"`
}

type SetupSwapRequest struct {
	TotalSessions int `json:"totalSessions" validate:"required,gte=1,lte=100"`
}

type AddMessageRequest struct {
	Content string `json:"content" validate:"required,max=5000"`
}

type AddReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

func (h *SwapHandler) callerAndSwapID(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return uuid.Nil, uuid.Nil, false
	}

	swapID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid swap id")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, swapID, true
}

func (h *SwapHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	swaps, err := h.swapService.List(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, swaps)
}

func (h *SwapHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, swapID, ok := h.callerAndSwapID(w, r)
	if !ok {
		return
	}

	swap, err := h.swapService.Get(r.Context(), swapID, userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, swap)
}

func (h *SwapHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	stats, err := h.swapService.Stats(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, stats)
}

func (h *SwapHandler) Accept(w http.ResponseWriter, r *http.Request) {
	userID, swapID, ok := h.callerAndSwapID(w, r)
	if !ok {
		return
	}

	swap, err := h.swapService.Accept(r.Context(), swapID, userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, swap)
}

func (h *SwapHandler) Reject(w http.ResponseWriter, r *http.Request) {
	userID, swapID, ok := h.callerAndSwapID(w, r)
	if !ok {
		return
	}

	var req ReasonRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validate.Struct(req); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	swap, err := h.swapService.Reject(r.Context(), swapID, userID, req.Reason)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, swap)
}

func (h *SwapHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, swapID, ok := h.callerAndSwapID(w, r)
	if !ok {
		return
	}

	var req ReasonRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validate.Struct(req); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	swap, err := h.swapService.Cancel(r.Context(), swapID, userID, req.Reason)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, swap)
}

func (h *SwapHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID, swapID, ok := h.callerAndSwapID(w, r)
	if !ok {
		return
	}

	swap, err := h.swapService.Complete(r.Context(), swapID, userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, swap)
}

func (h *SwapHandler) Setup(w http.ResponseWriter, r *http.Request) {
	userID, swapID, ok := h.callerAndSwapID(w, r)
	if !ok {
		return
	}

	var req SetupSwapRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validate.Struct(req); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	swap, err := h.swapService.Setup(r.Context(), swapID, userID, req.TotalSessions)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, swap)
}

func (h *SwapHandler) AddMessage(w http.ResponseWriter, r *http.Request) {
	userID, swapID, ok := h.callerAndSwapID(w, r)
	if !ok {
		return
	}

	var req AddMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validate.Struct(req); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	message, swap, err := h.swapService.AddMessage(r.Context(), swapID, userID, req.Content)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	h.broadcastNewMessage(r, swap, message)

	respondData(w, http.StatusCreated, message)
}

// broadcastNewMessage pushes the room-scoped NEW_MESSAGE event and the global
// SWAP_LIST_UPDATE summary to the other participant. Delivery is best effort.
func (h *SwapHandler) broadcastNewMessage(r *http.Request, swap *domain.Swap, message *domain.SwapMessage) {
	if h.hub == nil {
		return
	}

	if msg, err := ws.NewMessage(ws.MessageTypeNewMessage, ws.NewMessagePayload{
		SwapID:    swap.ID.String(),
		MessageID: message.ID.String(),
		SenderID:  message.SenderID.String(),
		Content:   message.Content,
		SentAt:    message.CreatedAt.UnixMilli(),
	}); err == nil {
		h.hub.BroadcastToSwap(swap.ID, msg)
	}

	other := swap.OtherParticipant(message.SenderID)
	unread, err := h.swapService.CountUnread(r.Context(), swap.ID, other)
	if err != nil {
		unread = 0
	}
	if msg, err := ws.NewMessage(ws.MessageTypeSwapListUpdate, ws.SwapListUpdatePayload{
		SwapID:      swap.ID.String(),
		LastMessage: message.Content,
		SenderID:    message.SenderID.String(),
		UnreadCount: unread,
	}); err == nil {
		h.hub.SendToUser(other, msg)
	}
}

func (h *SwapHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	userID, swapID, ok := h.callerAndSwapID(w, r)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	messages, err := h.swapService.ListMessages(r.Context(), swapID, userID, limit, offset)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, messages)
}

func (h *SwapHandler) MarkMessagesRead(w http.ResponseWriter, r *http.Request) {
	userID, swapID, ok := h.callerAndSwapID(w, r)
	if !ok {
		return
	}

	swap, count, err := h.swapService.MarkMessagesRead(r.Context(), swapID, userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if h.hub != nil {
		if msg, err := ws.NewMessage(ws.MessageTypeMessagesRead, ws.MessagesReadPayload{
			SwapID:   swap.ID.String(),
			ReaderID: userID.String(),
			Count:    count,
		}); err == nil {
			h.hub.BroadcastToSwap(swap.ID, msg)
		}
	}

	respondData(w, http.StatusOK, map[string]int64{"updated": count})
}

func (h *SwapHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	userID, swapID, ok := h.callerAndSwapID(w, r)
	if !ok {
		return
	}

	var req AddReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validate.Struct(req); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	review, err := h.swapService.AddReview(r.Context(), swapID, userID, req.Rating, req.Comment)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusCreated, review)
}
