package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"eventmanagement/internal/domain"
)

const minPasswordLen = 6

var (
	emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegexp = regexp.MustCompile(`^[0-9]{10}$`)
)

type authService struct {
	userRepo     domain.UserRepository
	hasher       domain.PasswordHasher
	tokens       domain.TokenIssuer
	emailService domain.EmailService
	tokenExpiry  time.Duration
	clock        domain.Clock
	logger       *slog.Logger
}

// NewAuthService creates an AuthService with the given repository and adapters.
func NewAuthService(
	userRepo domain.UserRepository,
	hasher domain.PasswordHasher,
	tokens domain.TokenIssuer,
	emailService domain.EmailService,
	tokenExpiry time.Duration,
	clock domain.Clock,
	logger *slog.Logger,
) domain.AuthService {
	return &authService{
		userRepo:     userRepo,
		hasher:       hasher,
		tokens:       tokens,
		emailService: emailService,
		tokenExpiry:  tokenExpiry,
		clock:        clock,
		logger:       logger,
	}
}

func (s *authService) SignUp(ctx context.Context, name, email, password, phone string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))
	phone = strings.TrimSpace(phone)

	if len(name) < 2 {
		return nil, fmt.Errorf("%w: name must be at least 2 characters", domain.ErrValidation)
	}
	if !emailRegexp.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid email format", domain.ErrValidation)
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLen)
	}
	if phone != "" && !phoneRegexp.MatchString(phone) {
		return nil, fmt.Errorf("%w: phone must be a 10-digit number", domain.ErrValidation)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.clock.Now()
	user := domain.NewUser(name, email, phone, hash, now, now)
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.emailService.SendWelcome(ctx, &domain.WelcomeEmailData{Email: user.Email, Name: user.Name}); err != nil {
		s.logger.Error("send welcome email", "user_id", user.ID, "err", err)
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("get user: %w", err)
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email, s.tokenExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}
