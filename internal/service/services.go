package service

import (
	"github.com/skillswap/skillswap-server/internal/config"
	"github.com/skillswap/skillswap-server/internal/email"
	"github.com/skillswap/skillswap-server/internal/ratelimit"
	"github.com/skillswap/skillswap-server/internal/repository"
)

type Services struct {
	Auth        *AuthService
	User        *UserService
	SwapRequest *SwapRequestService
	Swap        *SwapService
	Session     *SessionService
}

func NewServices(repos *repository.Repositories, cfg *config.Config, emailSvc email.Service, limiter ratelimit.Limiter) *Services {
	return &Services{
		Auth:        NewAuthService(repos.User, repos.UserSession, emailSvc, limiter, cfg),
		User:        NewUserService(repos.User),
		SwapRequest: NewSwapRequestService(repos.SwapRequest, repos.Swap),
		Swap:        NewSwapService(repos.Swap, repos.SwapMessage, repos.SwapReview, repos.Session, repos.User),
		Session:     NewSessionService(repos.Session, repos.Swap),
	}
}
