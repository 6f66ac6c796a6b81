package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/skillswap/skillswap-server/internal/domain"
	"github.com/skillswap/skillswap-server/internal/service"
)

// envelope is the JSON shape every endpoint responds with.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func respondData(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Success: true, Message: message})
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Success: false, Error: message})
}

// respondServiceError maps known service errors to statuses. Anything
// unrecognized is logged and masked as a 500.
func respondServiceError(w http.ResponseWriter, err error) {
	for _, m := range errorStatuses {
		if errors.Is(err, m.err) {
			respondError(w, m.status, m.err.Error())
			return
		}
	}

	log.Printf("ERROR [handlers] unhandled service error: %v", err)
	respondError(w, http.StatusInternalServerError, "Internal server error")
}

var errorStatuses = []struct {
	err    error
	status int
}{
	// validation / conflict
	{service.ErrEmailExists, http.StatusBadRequest},
	{service.ErrInvalidOTP, http.StatusBadRequest},
	{service.ErrAlreadyVerified, http.StatusBadRequest},
	{service.ErrInvalidTotalSessions, http.StatusBadRequest},
	{service.ErrInvalidRating, http.StatusBadRequest},
	{service.ErrEmptyMessage, http.StatusBadRequest},
	{service.ErrInvalidTimeRange, http.StatusBadRequest},
	{service.ErrInvalidSwapState, http.StatusBadRequest},
	{service.ErrInvalidSessionState, http.StatusBadRequest},
	{service.ErrInvalidStatusTarget, http.StatusBadRequest},
	{service.ErrRequestNotOpen, http.StatusBadRequest},
	{service.ErrSelfResponse, http.StatusBadRequest},
	{service.ErrInvalidResponder, http.StatusBadRequest},
	{service.ErrAlreadyReviewed, http.StatusBadRequest},
	{service.ErrAlreadyRated, http.StatusBadRequest},
	{service.ErrSwapNotCompleted, http.StatusBadRequest},
	{service.ErrSessionNotCompleted, http.StatusBadRequest},
	{service.ErrAttendanceIncomplete, http.StatusBadRequest},
	{service.ErrEmailDelivery, http.StatusBadGateway},
	{domain.ErrPendingSwapExists, http.StatusBadRequest},

	// auth
	{service.ErrInvalidCredentials, http.StatusUnauthorized},
	{service.ErrEmailNotVerified, http.StatusForbidden},
	{service.ErrResendCooldown, http.StatusTooManyRequests},

	// authorization
	{service.ErrNotReceiver, http.StatusForbidden},
	{service.ErrNotTeacher, http.StatusForbidden},
	{service.ErrNotRequestOwner, http.StatusForbidden},
	{service.ErrNotProfileOwner, http.StatusForbidden},
	{domain.ErrNotParticipant, http.StatusForbidden},

	// not found
	{service.ErrUserNotFound, http.StatusNotFound},
	{service.ErrRequestNotFound, http.StatusNotFound},
	{service.ErrSwapNotFound, http.StatusNotFound},
	{service.ErrSessionNotFound, http.StatusNotFound},
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
