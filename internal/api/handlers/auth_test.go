package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/skillswap/skillswap-server/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthHandler_Register(t *testing.T) {
	ts := testutil.NewTestServer(t)

	tests := []struct {
		name           string
		request        map[string]string
		setup          func()
		expectedStatus int
		checkResponse  func(*testing.T, *http.Response)
	}{
		{
			name: "successful registration",
			request: map[string]string{
				"name":     "New User",
				"email":    "new@example.com",
				"password": "password123",
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp *http.Response) {
				var result struct {
					User struct {
						Email           string `json:"email"`
						IsEmailVerified bool   `json:"isEmailVerified"`
					} `json:"user"`
					Message string `json:"message"`
				}
				testutil.DecodeData(t, resp, &result)
				assert.Equal(t, "new@example.com", result.User.Email)
				assert.False(t, result.User.IsEmailVerified)
				assert.Contains(t, result.Message, "new@example.com")

				// the code went out by mail, never over the wire
				require.NotNil(t, ts.Email.Last())
			},
		},
		{
			name: "missing email",
			request: map[string]string{
				"name":     "No Email",
				"password": "password123",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "invalid email",
			request: map[string]string{
				"name":     "Bad Email",
				"email":    "not-an-email",
				"password": "password123",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "short password",
			request: map[string]string{
				"name":     "Short",
				"email":    "short@example.com",
				"password": "short",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "duplicate verified email",
			request: map[string]string{
				"name":     "Copycat",
				"email":    "taken@example.com",
				"password": "password123",
			},
			setup: func() {
				testutil.NewUserBuilder().
					WithEmail("taken@example.com").
					Build(t, ts.DB.DB)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "empty request body",
			request:        map[string]string{},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts.DB.Truncate(t)

			if tt.setup != nil {
				tt.setup()
			}

			body, _ := json.Marshal(tt.request)
			resp, err := http.Post(ts.APIURL("/auth/register"), "application/json", bytes.NewBuffer(body))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.checkResponse != nil {
				tt.checkResponse(t, resp)
			}
		})
	}
}

func TestAuthHandler_VerifyOTP(t *testing.T) {
	ts := testutil.NewTestServer(t)

	tests := []struct {
		name           string
		request        map[string]string
		setup          func()
		expectedStatus int
		checkResponse  func(*testing.T, *http.Response)
	}{
		{
			name: "successful verification",
			request: map[string]string{
				"email": "verify@example.com",
				"otp":   "654321",
			},
			setup: func() {
				testutil.NewUserBuilder().
					WithEmail("verify@example.com").
					Unverified("654321").
					Build(t, ts.DB.DB)
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp *http.Response) {
				var result testutil.AuthResponse
				testutil.DecodeData(t, resp, &result)
				assert.Equal(t, "verify@example.com", result.User.Email)
				assert.NotEmpty(t, result.AccessToken)
				assert.NotEmpty(t, result.RefreshToken)
			},
		},
		{
			name: "wrong code",
			request: map[string]string{
				"email": "wrong@example.com",
				"otp":   "111111",
			},
			setup: func() {
				testutil.NewUserBuilder().
					WithEmail("wrong@example.com").
					Unverified("654321").
					Build(t, ts.DB.DB)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "non-numeric code",
			request: map[string]string{
				"email": "verify@example.com",
				"otp":   "abcdef",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "unknown email",
			request: map[string]string{
				"email": "ghost@example.com",
				"otp":   "654321",
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts.DB.Truncate(t)

			if tt.setup != nil {
				tt.setup()
			}

			body, _ := json.Marshal(tt.request)
			resp, err := http.Post(ts.APIURL("/auth/verify-otp"), "application/json", bytes.NewBuffer(body))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.checkResponse != nil {
				tt.checkResponse(t, resp)
			}
		})
	}
}

func TestAuthHandler_ResendOTP(t *testing.T) {
	ts := testutil.NewTestServer(t)

	testutil.NewUserBuilder().
		WithEmail("resend@example.com").
		Unverified("654321").
		Build(t, ts.DB.DB)

	send := func(email string) *http.Response {
		body, _ := json.Marshal(map[string]string{"email": email})
		resp, err := http.Post(ts.APIURL("/auth/resend-otp"), "application/json", bytes.NewBuffer(body))
		require.NoError(t, err)
		return resp
	}

	resp := send("resend@example.com")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// inside the cooldown window
	resp = send("resend@example.com")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestAuthHandler_Login(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, rawPassword := testutil.NewUserBuilder().
		WithEmail("login@example.com").
		WithPassword("correctpassword").
		Build(t, ts.DB.DB)

	testutil.NewUserBuilder().
		WithEmail("pending@example.com").
		WithPassword("correctpassword").
		Unverified("654321").
		Build(t, ts.DB.DB)

	tests := []struct {
		name           string
		request        map[string]string
		expectedStatus int
		checkResponse  func(*testing.T, *http.Response)
	}{
		{
			name: "successful login",
			request: map[string]string{
				"email":    user.Email,
				"password": rawPassword,
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp *http.Response) {
				var result testutil.AuthResponse
				testutil.DecodeData(t, resp, &result)
				assert.Equal(t, user.ID.String(), result.User.ID)
				assert.NotEmpty(t, result.AccessToken)
			},
		},
		{
			name: "invalid password",
			request: map[string]string{
				"email":    user.Email,
				"password": "wrongpassword",
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "non-existent user",
			request: map[string]string{
				"email":    "nobody@example.com",
				"password": "anypassword",
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "unverified email",
			request: map[string]string{
				"email":    "pending@example.com",
				"password": "correctpassword",
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name: "missing password",
			request: map[string]string{
				"email": user.Email,
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.request)
			resp, err := http.Post(ts.APIURL("/auth/login"), "application/json", bytes.NewBuffer(body))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.checkResponse != nil {
				tt.checkResponse(t, resp)
			}
		})
	}
}

func TestAuthHandler_Me(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	tests := []struct {
		name           string
		token          string
		expectedStatus int
		checkResponse  func(*testing.T, *http.Response)
	}{
		{
			name:           "successful fetch with valid token",
			token:          token,
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp *http.Response) {
				var result struct {
					ID    string `json:"id"`
					Email string `json:"email"`
				}
				testutil.DecodeData(t, resp, &result)
				assert.Equal(t, user.ID.String(), result.ID)
				assert.Equal(t, user.Email, result.Email)
			},
		},
		{
			name:           "missing authorization header",
			token:          "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid token",
			token:          "invalid.token.here",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.CreateAuthenticatedRequest(t, "GET", ts.APIURL("/auth/me"), nil, tt.token)

			client := &http.Client{}
			resp, err := client.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.checkResponse != nil {
				tt.checkResponse(t, resp)
			}
		})
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	tests := []struct {
		name           string
		token          string
		expectedStatus int
	}{
		{
			name:           "successful logout",
			token:          token,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unauthorized - no token",
			token:          "",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.CreateAuthenticatedRequest(t, "POST", ts.APIURL("/auth/logout"), nil, tt.token)

			client := &http.Client{}
			resp, err := client.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}
