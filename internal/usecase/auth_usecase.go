package usecase

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/google/uuid"
	"github.com/plastyfilm/go-backend/internal/cfg"
	"github.com/plastyfilm/go-backend/internal/clock"
	"github.com/plastyfilm/go-backend/internal/domain"
	"github.com/plastyfilm/go-backend/pkg/e"
	"github.com/plastyfilm/go-backend/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// AuthUseCase проверяет учётные данные администратора и управляет его сессиями.
type AuthUseCase struct {
	sessionRepo SessionRepository
	cfg         *cfg.AuthCfg
	clock       clock.Clock
	logger      logger.Logger
}

func NewAuthUC(sessionRepo SessionRepository, cfg *cfg.AuthCfg, clock clock.Clock, logger logger.Logger) *AuthUseCase {
	return &AuthUseCase{
		sessionRepo: sessionRepo,
		cfg:         cfg,
		clock:       clock,
		logger:      logger,
	}
}

// SignIn сверяет email и пароль с настроенным администратором и выдаёт новую сессию.
func (a *AuthUseCase) SignIn(ctx context.Context, req *SignInReq) (*domain.AdminSession, error) {
	const op = "AuthUseCase.SignIn"

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, e.Wrap(op, e.ErrMissingFields)
	}

	// bcrypt выполняется всегда, чтобы время ответа не зависело от email
	pwdErr := bcrypt.CompareHashAndPassword([]byte(a.cfg.AdminPasswordHash), []byte(req.Password))
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(a.cfg.AdminEmail)) == 1
	if pwdErr != nil || !emailOK {
		a.logger.Warnf("Failed admin sign-in attempt for %s", email)
		return nil, e.Wrap(op, e.ErrInvalidCredentials)
	}

	now := a.clock.Now()
	session := &domain.AdminSession{
		Token:     uuid.NewString(),
		Email:     email,
		CreatedAt: now,
		ExpiresAt: now.Add(a.cfg.SessionTTL),
	}

	if err := a.sessionRepo.Create(ctx, session); err != nil {
		return nil, e.Wrap(op, err)
	}

	return session, nil
}

// Session возвращает действующую сессию по токену.
func (a *AuthUseCase) Session(ctx context.Context, token string) (*domain.AdminSession, error) {
	const op = "AuthUseCase.Session"

	if token == "" {
		return nil, e.Wrap(op, e.ErrUnauthorized)
	}

	session, err := a.sessionRepo.Get(ctx, token)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if !a.clock.Now().Before(session.ExpiresAt) {
		return nil, e.Wrap(op, e.ErrUnauthorized)
	}

	return session, nil
}

func (a *AuthUseCase) SignOut(ctx context.Context, token string) error {
	const op = "AuthUseCase.SignOut"

	if token == "" {
		return nil
	}

	if err := a.sessionRepo.Delete(ctx, token); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}
