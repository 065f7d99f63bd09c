package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"yamdb/internal/apperror"
	"yamdb/internal/middleware/auth"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"
)

const confirmationSubject = "Your confirmation code"

type AuthService interface {
	// RequestCode finds or creates the account and sends it a fresh code,
	// replacing any code issued before.
	RequestCode(ctx context.Context, email, username string) (*models.User, error)
	// ExchangeCode consumes a valid code and returns a bearer token.
	ExchangeCode(ctx context.Context, email, code string) (string, error)
	// Authenticate resolves a bearer token to its user.
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

type authService struct {
	userRepo  repository.UserRepository
	codeStore repository.ConfirmationCodeStore
	notifier  NotificationChannel
	issuer    TokenIssuer
	codeTTL   time.Duration
	logger    *slog.Logger
}

func NewAuthService(
	userRepo repository.UserRepository,
	codeStore repository.ConfirmationCodeStore,
	notifier NotificationChannel,
	issuer TokenIssuer,
	codeTTL time.Duration,
) AuthService {
	return &authService{
		userRepo:  userRepo,
		codeStore: codeStore,
		notifier:  notifier,
		issuer:    issuer,
		codeTTL:   codeTTL,
		logger:    slog.Default(),
	}
}

func (s *authService) RequestCode(ctx context.Context, email, username string) (*models.User, error) {
	user, created, err := getOrCreateUser(ctx, s.userRepo, email, username, validationClash)
	if err != nil {
		return nil, err
	}
	if created {
		s.logger.Info("user_signed_up", "user_id", user.ID, "username", user.Username)
	}

	code, err := auth.GenerateCode()
	if err != nil {
		return nil, apperror.Internal(err)
	}
	hash, err := auth.HashCode(code)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if err := s.codeStore.Save(ctx, user.ID, hash, s.codeTTL); err != nil {
		return nil, apperror.Internal(fmt.Errorf("store confirmation code: %w", err))
	}

	body := fmt.Sprintf("confirmation_code: %s", code)
	if err := s.notifier.Send(ctx, user.Email, confirmationSubject, body); err != nil {
		return nil, apperror.Internal(fmt.Errorf("send confirmation code: %w", err))
	}

	s.logger.Info("confirmation_code_issued", "user_id", user.ID, "expires_in", s.codeTTL.String())
	return user, nil
}

func (s *authService) ExchangeCode(ctx context.Context, email, code string) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", storageError(err, apperror.CodeUserNotFound)
	}

	invalid := apperror.Authentication(apperror.CodeInvalidConfirmationCode).WithField("confirmation_code")

	hash, err := s.codeStore.Get(ctx, user.ID)
	if errors.Is(err, repository.ErrCodeNotFound) {
		s.logger.Warn("confirmation_code_rejected", "user_id", user.ID, "reason", "missing_or_expired")
		return "", invalid
	}
	if err != nil {
		return "", apperror.Internal(err)
	}
	if err := auth.VerifyCode(hash, code); err != nil {
		s.logger.Warn("confirmation_code_rejected", "user_id", user.ID, "reason", "mismatch")
		return "", invalid
	}

	// single use; a concurrent exchange or a newly issued code makes this fail
	err = s.codeStore.Consume(ctx, user.ID, hash)
	if errors.Is(err, repository.ErrCodeNotFound) {
		s.logger.Warn("confirmation_code_rejected", "user_id", user.ID, "reason", "already_used")
		return "", invalid
	}
	if err != nil {
		return "", apperror.Internal(err)
	}

	token, err := s.issuer.IssueFor(user)
	if err != nil {
		return "", apperror.Internal(err)
	}
	s.logger.Info("token_issued", "user_id", user.ID)
	return token, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.issuer.Parse(token)
	if err != nil {
		return nil, apperror.Authentication(apperror.CodeInvalidToken).Wrap(err)
	}
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperror.Authentication(apperror.CodeInvalidToken).Wrap(err)
		}
		return nil, apperror.Internal(err)
	}
	return user, nil
}
