package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// APIClient handles HTTP communication with the backend
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL + "/api",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Response types matching backend

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type AuthResponse struct {
	User         User   `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type SwapRequest struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	Offering   string `json:"offering"`
	LookingFor string `json:"lookingFor"`
	Status     string `json:"status"`
}

type Swap struct {
	ID          string `json:"id"`
	RequesterID string `json:"requesterId"`
	ReceiverID  string `json:"receiverId"`
	Status      string `json:"status"`
}

type Session struct {
	ID        string `json:"id"`
	SwapID    string `json:"swapId"`
	SkillName string `json:"skillName"`
	Status    string `json:"status"`
}

// RegisterUser creates an account and verifies it with the development
// master code, returning the verified user and an access token.
func (c *APIClient) RegisterUser(name string) (*User, string, error) {
	addr := fmt.Sprintf("%s_%d@skillswap.dev", name, time.Now().UnixNano()%100000)

	body := map[string]string{
		"name":     name,
		"email":    addr,
		"password": "testpassword123",
	}

	resp, err := c.post("/auth/register", body, "")
	if err != nil {
		return nil, "", fmt.Errorf("register request failed: %w", err)
	}
	if err := decode(resp, http.StatusCreated, nil); err != nil {
		return nil, "", fmt.Errorf("register failed: %w", err)
	}

	verifyBody := map[string]string{
		"email": addr,
		"otp":   "000000",
	}
	resp, err = c.post("/auth/verify-otp", verifyBody, "")
	if err != nil {
		return nil, "", fmt.Errorf("verify request failed: %w", err)
	}

	var auth AuthResponse
	if err := decode(resp, http.StatusOK, &auth); err != nil {
		return nil, "", fmt.Errorf("verify failed (is the server running with ENVIRONMENT=development?): %w", err)
	}

	return &auth.User, auth.AccessToken, nil
}

// CreateRequest posts an open swap request
func (c *APIClient) CreateRequest(token, offering, lookingFor, preferences string) (*SwapRequest, error) {
	body := map[string]string{
		"offering":    offering,
		"lookingFor":  lookingFor,
		"preferences": preferences,
	}

	resp, err := c.post("/swap-requests", body, token)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}

	var request SwapRequest
	if err := decode(resp, http.StatusCreated, &request); err != nil {
		return nil, err
	}
	return &request, nil
}

// Respond creates a pending swap against an open request
func (c *APIClient) Respond(token, requestID string) (*Swap, error) {
	resp, err := c.post("/swap-requests/"+requestID+"/respond", nil, token)
	if err != nil {
		return nil, fmt.Errorf("respond request failed: %w", err)
	}

	var swap Swap
	if err := decode(resp, http.StatusCreated, &swap); err != nil {
		return nil, err
	}
	return &swap, nil
}

// AcceptResponse accepts a responder on the owner's request
func (c *APIClient) AcceptResponse(token, requestID, responderID string) (*Swap, error) {
	body := map[string]string{"responderId": responderID}

	resp, err := c.post("/swap-requests/"+requestID+"/accept-response", body, token)
	if err != nil {
		return nil, fmt.Errorf("accept response failed: %w", err)
	}

	var swap Swap
	if err := decode(resp, http.StatusCreated, &swap); err != nil {
		return nil, err
	}
	return &swap, nil
}

// SetupSwap sets the caller's session target on a swap
func (c *APIClient) SetupSwap(token, swapID string, totalSessions int) (*Swap, error) {
	body := map[string]int{"totalSessions": totalSessions}

	resp, err := c.put("/swaps/"+swapID+"/setup", body, token)
	if err != nil {
		return nil, fmt.Errorf("setup swap failed: %w", err)
	}

	var swap Swap
	if err := decode(resp, http.StatusOK, &swap); err != nil {
		return nil, err
	}
	return &swap, nil
}

// SendMessage posts a chat message on a swap
func (c *APIClient) SendMessage(token, swapID, content string) error {
	body := map[string]string{"content": content}

	resp, err := c.post("/swaps/"+swapID+"/messages", body, token)
	if err != nil {
		return fmt.Errorf("send message failed: %w", err)
	}
	return decode(resp, http.StatusCreated, nil)
}

// CreateSession schedules a session on an active swap
func (c *APIClient) CreateSession(token, swapID string, start, end time.Time) (*Session, error) {
	body := map[string]interface{}{
		"swapId":    swapID,
		"startTime": start.Format(time.RFC3339),
		"endTime":   end.Format(time.RFC3339),
	}

	resp, err := c.post("/sessions", body, token)
	if err != nil {
		return nil, fmt.Errorf("create session failed: %w", err)
	}

	var session Session
	if err := decode(resp, http.StatusCreated, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// decode reads an enveloped response, checks the status code and unmarshals
// the data payload into out when out is non-nil.
func decode(resp *http.Response, wantStatus int, out interface{}) error {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != wantStatus {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if out == nil {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(bodyBytes, &env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}

// HTTP helpers

func (c *APIClient) post(path string, body interface{}, token string) (*http.Response, error) {
	return c.do("POST", path, body, token)
}

func (c *APIClient) put(path string, body interface{}, token string) (*http.Response, error) {
	return c.do("PUT", path, body, token)
}

func (c *APIClient) do(method, path string, body interface{}, token string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.httpClient.Do(req)
}
