package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/skillswap/skillswap-server/internal/domain"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	name     string
	email    string
	password string
	verified bool
	otp      string
}

// NewUserBuilder creates a new UserBuilder producing a verified user
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		name:     "testuser_" + suffix,
		email:    fmt.Sprintf("testuser_%s@skillswap.dev", suffix),
		password: "testpassword123",
		verified: true,
	}
}

// WithName sets the display name
func (b *UserBuilder) WithName(name string) *UserBuilder {
	b.name = name
	return b
}

// WithEmail sets the email address
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// Unverified produces a user still waiting on OTP verification
func (b *UserBuilder) Unverified(otp string) *UserBuilder {
	b.verified = false
	b.otp = otp
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:              uuid.New(),
		Name:            b.name,
		Email:           b.email,
		PasswordHash:    string(hashedPassword),
		IsEmailVerified: b.verified,
		IsActive:        b.verified,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	if !b.verified {
		expires := time.Now().Add(10 * time.Minute)
		user.OTP = b.otp
		user.OTPExpiresAt = &expires
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// AuthResponse matches the API auth response
type AuthResponse struct {
	User struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// BuildAndAuthenticate creates a verified user in the database and logs in
// via the API, returning the user and access token
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	user, password := b.Build(t, ts.DB.DB)

	reqBody := map[string]string{
		"email":    user.Email,
		"password": password,
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(ts.APIURL("/auth/login"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to log in user: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected login status code: %d", resp.StatusCode)
	}

	var env struct {
		Data AuthResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	return user, env.Data.AccessToken
}

// SwapRequestBuilder creates test swap requests
type SwapRequestBuilder struct {
	user       *domain.User
	offering   string
	lookingFor string
	status     domain.SwapRequestStatus
}

// NewSwapRequestBuilder creates a new SwapRequestBuilder with default values
func NewSwapRequestBuilder() *SwapRequestBuilder {
	return &SwapRequestBuilder{
		offering:   "Go",
		lookingFor: "Spanish",
		status:     domain.SwapRequestStatusOpen,
	}
}

// WithUser sets the request owner
func (b *SwapRequestBuilder) WithUser(user *domain.User) *SwapRequestBuilder {
	b.user = user
	return b
}

// WithSkills sets the offered and sought skills
func (b *SwapRequestBuilder) WithSkills(offering, lookingFor string) *SwapRequestBuilder {
	b.offering = offering
	b.lookingFor = lookingFor
	return b
}

// WithStatus sets the request status
func (b *SwapRequestBuilder) WithStatus(status domain.SwapRequestStatus) *SwapRequestBuilder {
	b.status = status
	return b
}

// Build creates the request in the database
func (b *SwapRequestBuilder) Build(t *testing.T, db *gorm.DB) *domain.SwapRequest {
	t.Helper()

	if b.user == nil {
		user, _ := NewUserBuilder().Build(t, db)
		b.user = user
	}

	request := &domain.SwapRequest{
		ID:         uuid.New(),
		UserID:     b.user.ID,
		Offering:   b.offering,
		LookingFor: b.lookingFor,
		Status:     b.status,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := db.Create(request).Error; err != nil {
		t.Fatalf("failed to create swap request: %v", err)
	}

	return request
}

// SwapBuilder creates test swaps
type SwapBuilder struct {
	requester     *domain.User
	receiver      *domain.User
	status        domain.SwapStatus
	totalSessions int
}

// NewSwapBuilder creates a new SwapBuilder producing an accepted swap
func NewSwapBuilder() *SwapBuilder {
	return &SwapBuilder{
		status:        domain.SwapStatusAccepted,
		totalSessions: 5,
	}
}

// WithRequester sets the requester side
func (b *SwapBuilder) WithRequester(user *domain.User) *SwapBuilder {
	b.requester = user
	return b
}

// WithReceiver sets the receiver side
func (b *SwapBuilder) WithReceiver(user *domain.User) *SwapBuilder {
	b.receiver = user
	return b
}

// WithStatus sets the swap status
func (b *SwapBuilder) WithStatus(status domain.SwapStatus) *SwapBuilder {
	b.status = status
	return b
}

// WithTotalSessions sets both participants' session targets
func (b *SwapBuilder) WithTotalSessions(n int) *SwapBuilder {
	b.totalSessions = n
	return b
}

// Build creates the swap in the database
func (b *SwapBuilder) Build(t *testing.T, db *gorm.DB) *domain.Swap {
	t.Helper()

	if b.requester == nil {
		user, _ := NewUserBuilder().Build(t, db)
		b.requester = user
	}
	if b.receiver == nil {
		user, _ := NewUserBuilder().Build(t, db)
		b.receiver = user
	}

	now := time.Now()
	swap := &domain.Swap{
		ID:          uuid.New(),
		RequesterID: b.requester.ID,
		ReceiverID:  b.receiver.ID,
		RequesterOffering: domain.Offering{
			SkillName:     "Spanish",
			TotalSessions: b.totalSessions,
		},
		ReceiverOffering: domain.Offering{
			SkillName:     "Go",
			TotalSessions: b.totalSessions,
		},
		Status:    b.status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if swap.Status != domain.SwapStatusPending {
		swap.StartDate = &now
	}
	if swap.Status == domain.SwapStatusCompleted {
		swap.CompletedAt = &now
		swap.EndDate = &now
	}

	if err := db.Create(swap).Error; err != nil {
		t.Fatalf("failed to create swap: %v", err)
	}

	return swap
}

// SessionBuilder creates test sessions
type SessionBuilder struct {
	swap    *domain.Swap
	teacher *domain.User
	learner *domain.User
	status  domain.SessionStatus
	start   time.Time
}

// NewSessionBuilder creates a new SessionBuilder for a scheduled session
func NewSessionBuilder() *SessionBuilder {
	return &SessionBuilder{
		status: domain.SessionStatusScheduled,
		start:  time.Now().Add(24 * time.Hour).Truncate(time.Second),
	}
}

// WithSwap sets the parent swap
func (b *SessionBuilder) WithSwap(swap *domain.Swap) *SessionBuilder {
	b.swap = swap
	return b
}

// WithTeacher sets the teaching side
func (b *SessionBuilder) WithTeacher(user *domain.User) *SessionBuilder {
	b.teacher = user
	return b
}

// WithLearner sets the learning side
func (b *SessionBuilder) WithLearner(user *domain.User) *SessionBuilder {
	b.learner = user
	return b
}

// WithStatus sets the session status
func (b *SessionBuilder) WithStatus(status domain.SessionStatus) *SessionBuilder {
	b.status = status
	return b
}

// WithStartTime sets the start time; the session always runs one hour
func (b *SessionBuilder) WithStartTime(start time.Time) *SessionBuilder {
	b.start = start
	return b
}

// Build creates the session in the database
func (b *SessionBuilder) Build(t *testing.T, db *gorm.DB) *domain.Session {
	t.Helper()

	if b.swap == nil {
		b.swap = NewSwapBuilder().Build(t, db)
	}
	teacherID := b.swap.RequesterID
	learnerID := b.swap.ReceiverID
	if b.teacher != nil {
		teacherID = b.teacher.ID
	}
	if b.learner != nil {
		learnerID = b.learner.ID
	}

	session := &domain.Session{
		ID:              uuid.New(),
		SwapID:          b.swap.ID,
		TeacherID:       teacherID,
		LearnerID:       learnerID,
		SkillName:       b.swap.RequesterOffering.SkillName,
		StartTime:       b.start,
		EndTime:         b.start.Add(time.Hour),
		DurationMinutes: 60,
		Status:          b.status,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	if session.Status == domain.SessionStatusCompleted {
		session.TeacherConfirmed = true
		session.LearnerConfirmed = true
	}

	if err := db.Create(session).Error; err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	return session
}

// CreateAuthenticatedRequest creates an HTTP request with auth token
func CreateAuthenticatedRequest(t *testing.T, method, url string, body interface{}, token string) *http.Request {
	t.Helper()

	var bodyReader *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	} else {
		bodyReader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, bodyReader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}
