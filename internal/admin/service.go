package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/faqhub/faqhub/backend/go-services/internal/config"
	"github.com/faqhub/faqhub/backend/go-services/internal/tokens"
	"github.com/faqhub/faqhub/backend/go-services/pkg/logger"
	"github.com/faqhub/faqhub/backend/go-services/pkg/validate"
	"golang.org/x/crypto/bcrypt"
)

// Repository persists admin accounts. Implementations return ErrNotFound
// for unknown ids or usernames and ErrExists for a duplicate username.
type Repository interface {
	Create(ctx context.Context, a *Admin) error
	GetByID(ctx context.Context, id string) (*Admin, error)
	GetByUsername(ctx context.Context, username string) (*Admin, error)
	SetOTP(ctx context.Context, id, hash string, expiresAt time.Time) error
	// MarkVerified consumes the pending passcode only if its stored hash is
	// still otpHash, returning ErrInvalidOTP otherwise.
	MarkVerified(ctx context.Context, id, otpHash string) error
}

// Revoker blacklists access tokens on logout.
type Revoker interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
}

type AddInput struct {
	Username string `json:"username" validate:"notblank"`
	Password string `json:"password" validate:"notblank"`
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role" validate:"notblank"`
}

// Session is the result of a successful passcode verification.
type Session struct {
	AccessToken string
	ExpiresIn   time.Duration
	Admin       *Admin
}

type Service struct {
	repo       Repository
	mailer     Mailer
	revoker    Revoker
	cfg        *config.Config
	bcryptCost int
	now        func() time.Time
	log        *slog.Logger
}

func NewService(cfg *config.Config, repo Repository, mailer Mailer, revoker Revoker) *Service {
	return &Service{
		repo:       repo,
		mailer:     mailer,
		revoker:    revoker,
		cfg:        cfg,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
		log:        logger.With("component", "admin"),
	}
}

// Add creates an admin account with a bcrypt hashed password.
func (s *Service) Add(ctx context.Context, in AddInput) (*Admin, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	a := &Admin{
		Username:     strings.TrimSpace(in.Username),
		Email:        strings.TrimSpace(in.Email),
		Role:         strings.TrimSpace(in.Role),
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	s.log.Info("admin created", "id", a.ID, "username", a.Username)
	return a, nil
}

// Login checks the password and mails a fresh one-time passcode. Unknown
// users and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) error {
	if strings.TrimSpace(username) == "" || password == "" {
		return fmt.Errorf("%w: username and password are required", ErrValidation)
	}
	a, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrInvalidCredentials
		}
		return err
	}
	if !a.IsActive || bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) != nil {
		return ErrInvalidCredentials
	}

	otp, err := GenerateOTP()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}
	expires := s.now().UTC().Add(s.cfg.OTP.TTL)
	if err := s.repo.SetOTP(ctx, a.ID, HashOTP(otp), expires); err != nil {
		return err
	}
	body := fmt.Sprintf("Your faqhub login code is %s. It expires in %d minutes.", otp, int(s.cfg.OTP.TTL.Minutes()))
	if err := s.mailer.SendEmail(a.Email, "Your faqhub login code", body); err != nil {
		return fmt.Errorf("send otp: %w", err)
	}
	s.log.Info("otp issued", "id", a.ID)
	return nil
}

// Verify consumes the pending passcode and issues an access token.
func (s *Service) Verify(ctx context.Context, username, otp string) (*Session, error) {
	if strings.TrimSpace(otp) == "" {
		return nil, fmt.Errorf("%w: OTP is required", ErrValidation)
	}
	a, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if !a.HasPendingOTP(s.now().UTC()) || !OTPEqual(otp, a.OTPHash) {
		return nil, ErrInvalidOTP
	}
	if err := s.repo.MarkVerified(ctx, a.ID, a.OTPHash); err != nil {
		return nil, err
	}
	a.IsVerified = true
	a.OTPHash = ""

	ttl := s.cfg.JWT.AccessTokenTTL
	token, err := tokens.GenerateAccessToken(s.cfg, tokens.Subject{ID: a.ID, Username: a.Username, Role: a.Role}, ttl)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	s.log.Info("admin verified", "id", a.ID)
	return &Session{AccessToken: token, ExpiresIn: ttl, Admin: a}, nil
}

// Logout revokes token until its exp claim.
func (s *Service) Logout(ctx context.Context, token string, claims map[string]interface{}) error {
	if s.revoker == nil {
		return nil
	}
	ttl := s.cfg.JWT.AccessTokenTTL
	if exp, ok := claims["exp"].(float64); ok {
		ttl = time.Unix(int64(exp), 0).Sub(s.now())
	}
	return s.revoker.Revoke(ctx, token, ttl)
}

func (s *Service) Get(ctx context.Context, id string) (*Admin, error) {
	return s.repo.GetByID(ctx, id)
}
