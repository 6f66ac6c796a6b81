package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/skillswap/skillswap-server/internal/config"
	"github.com/skillswap/skillswap-server/internal/domain"
	"github.com/skillswap/skillswap-server/internal/email"
	"github.com/skillswap/skillswap-server/internal/ratelimit"
	"github.com/skillswap/skillswap-server/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailExists        = errors.New("email is already registered")
	ErrEmailNotVerified   = errors.New("email is not verified")
	ErrAlreadyVerified    = errors.New("email is already verified")
	ErrInvalidOTP         = errors.New("invalid or expired verification code")
	ErrResendCooldown     = errors.New("verification code was sent recently, try again later")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailDelivery      = errors.New("failed to send verification email")
)

const devMasterOTP = "000000"

type AuthService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.UserSessionRepository
	emailSvc    email.Service
	limiter     ratelimit.Limiter
	cfg         *config.Config
}

func NewAuthService(
	userRepo repository.UserRepository,
	sessionRepo repository.UserSessionRepository,
	emailSvc email.Service,
	limiter ratelimit.Limiter,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		emailSvc:    emailSvc,
		limiter:     limiter,
		cfg:         cfg,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResult struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
}

// Register creates an unverified user and emails a verification code. A
// verified user already holding the email is a conflict; an unverified one is
// superseded. If the email cannot be delivered the user row is rolled back.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	addr := strings.ToLower(strings.TrimSpace(input.Email))

	existing, err := s.userRepo.GetByEmail(ctx, addr)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		if existing.IsEmailVerified {
			return nil, ErrEmailExists
		}
		// unverified duplicate: the new registration supersedes it
		if err := s.userRepo.Delete(ctx, existing.ID); err != nil {
			return nil, err
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	otp, err := generateOTP()
	if err != nil {
		return nil, err
	}
	expires := time.Now().Add(s.cfg.OTPTTL)

	user := &domain.User{
		ID:           uuid.New(),
		Name:         input.Name,
		Email:        addr,
		PasswordHash: string(hashedPassword),
		OTP:          otp,
		OTPExpiresAt: &expires,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	msg := email.OTPMessage(mail.Address{Name: user.Name, Address: user.Email}, otp, s.cfg.OTPTTL)
	if err := s.emailSvc.Send(ctx, msg); err != nil {
		// no verified account without a delivered code; undo the insert
		_ = s.userRepo.Delete(ctx, user.ID)
		return nil, fmt.Errorf("%w: %v", ErrEmailDelivery, err)
	}

	return user, nil
}

// VerifyOTP activates the account when the code matches and has not expired.
// On any mismatch the user row is left untouched.
func (s *AuthService) VerifyOTP(ctx context.Context, emailAddr, code string) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(emailAddr)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if user.IsEmailVerified {
		return nil, ErrAlreadyVerified
	}
	// "000000" bypasses verification in development so the simulator can
	// drive the register flow without a mailbox
	if !(s.cfg.IsDevelopment() && code == devMasterOTP) && !user.OTPValid(code, time.Now()) {
		return nil, ErrInvalidOTP
	}

	user.IsEmailVerified = true
	user.IsActive = true
	user.OTP = ""
	user.OTPExpiresAt = nil
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return s.generateTokens(ctx, user)
}

// ResendOTP issues a fresh code for an unverified account, at most once per
// cooldown window.
func (s *AuthService) ResendOTP(ctx context.Context, emailAddr string) error {
	addr := strings.ToLower(strings.TrimSpace(emailAddr))

	user, err := s.userRepo.GetByEmail(ctx, addr)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if user.IsEmailVerified {
		return ErrAlreadyVerified
	}

	ok, err := s.limiter.Acquire(ctx, "otp-resend:"+addr, s.cfg.OTPResendCooldown)
	if err != nil {
		return err
	}
	if !ok {
		return ErrResendCooldown
	}

	otp, err := generateOTP()
	if err != nil {
		return err
	}
	expires := time.Now().Add(s.cfg.OTPTTL)
	user.OTP = otp
	user.OTPExpiresAt = &expires
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	msg := email.OTPMessage(mail.Address{Name: user.Name, Address: user.Email}, otp, s.cfg.OTPTTL)
	if err := s.emailSvc.Send(ctx, msg); err != nil {
		return fmt.Errorf("%w: %v", ErrEmailDelivery, err)
	}
	return nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsEmailVerified {
		return nil, ErrEmailNotVerified
	}

	return s.generateTokens(ctx, user)
}

func (s *AuthService) generateTokens(ctx context.Context, user *domain.User) (*AuthResult, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken := uuid.New().String()
	hashedRefresh, err := bcrypt.GenerateFromPassword([]byte(refreshToken), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	// one active refresh session per user
	_ = s.sessionRepo.DeleteByUserID(ctx, user.ID)

	session := &domain.UserSession{
		ID:               uuid.New(),
		UserID:           user.ID,
		RefreshTokenHash: string(hashedRefresh),
		ExpiresAt:        time.Now().Add(7 * 24 * time.Hour),
		CreatedAt:        time.Now(),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	return &AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *AuthService) generateAccessToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"name": user.Name,
		"exp":  time.Now().Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) ValidateToken(tokenString string) (*jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return &claims, nil
	}

	return nil, errors.New("invalid token")
}

func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.sessionRepo.DeleteByUserID(ctx, userID)
}

// generateOTP returns a 6-digit numeric code.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
