// Package services contains server-side business logic. This file implements
// AuthService, which owns the account lifecycle: registration, email
// verification, local and OAuth login, and profile updates.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/uscre/auth-service/internal/common"
	"github.com/uscre/auth-service/internal/cryptox"
	"github.com/uscre/auth-service/internal/logging"
	"github.com/uscre/auth-service/internal/server/auth"
	"github.com/uscre/auth-service/internal/server/config"
	"github.com/uscre/auth-service/internal/server/mailer"
	"github.com/uscre/auth-service/internal/server/models"
	"github.com/uscre/auth-service/internal/server/oauth"
	"github.com/uscre/auth-service/internal/server/repositories/repomanager"
)

// Status messages returned alongside successful operations. The HTTP layer
// forwards them verbatim.
const (
	StatusUserCreated     = "user created, verification email sent"
	StatusEmailVerified   = "email verified successfully"
	StatusAlreadyVerified = "already verified"
	StatusLoginSuccessful = "login successful"
)

// oauthSecretBytes sizes the throwaway secret hashed into an OAuth account's
// password slot.
const oauthSecretBytes = 16

// AuthService provides authentication-related operations:
//   - Register: create a local account and dispatch a verification email
//   - VerifyEmail: redeem a verification token, activating the account
//   - Login: verify credentials and mint a session token
//   - LoginOrRegisterOAuth: transparent first-login registration for
//     provider-verified identities
//   - UpdateProfile: partial profile updates
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	notifier    mailer.Notifier
	logger      logging.Logger

	jwtSecret          []byte
	sessionTokenTTL    time.Duration
	verificationMaxAge time.Duration
	bcryptCost         int
	frontendURL        string
}

// NewAuthService constructs an AuthService using repositories, the notifier,
// and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, n mailer.Notifier, l logging.Logger, cfg *config.Config) *AuthService {
	return &AuthService{
		db:                 db,
		repomanager:        m,
		notifier:           n,
		logger:             l.With("module", "auth_service"),
		jwtSecret:          []byte(cfg.SecretKey),
		sessionTokenTTL:    cfg.SessionTokenTTL,
		verificationMaxAge: cfg.VerificationMaxAge,
		bcryptCost:         cfg.BcryptCost,
		frontendURL:        cfg.FrontendURL,
	}
}

// Register creates an inactive, unverified local account and dispatches a
// verification email. Mail delivery is fire-and-forget: a notifier failure
// is logged and never rolls back the registration. A duplicate email yields
// common.ErrorAlreadyExists.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, string, error) {
	repo := s.repomanager.Users(s.db)

	_, err := repo.GetByEmail(ctx, email)
	if err == nil {
		return nil, "", common.ErrorAlreadyExists
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, "", fmt.Errorf("error checking existing user: %w", err)
	}

	hash, err := cryptox.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         models.DefaultRole,
		Nickname:     username,
		IsActive:     false,
		IsVerified:   false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	user, err = repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, "", common.ErrorAlreadyExists
		}
		return nil, "", fmt.Errorf("error creating user: %w", err)
	}

	token := auth.GenerateVerificationToken(email, s.jwtSecret)
	verifyURL := fmt.Sprintf("%s/verify?token=%s", s.frontendURL, token)
	s.logger.Info(ctx, "verification link issued", "email", email, "url", verifyURL)

	s.dispatchVerificationEmail(ctx, email, verifyURL)

	return user, StatusUserCreated, nil
}

// dispatchVerificationEmail sends the verification mail without blocking the
// response path. The detached context outlives the triggering request.
func (s *AuthService) dispatchVerificationEmail(ctx context.Context, email, verifyURL string) {
	sendCtx := context.WithoutCancel(ctx)
	go func() {
		body := fmt.Sprintf(`Click to verify: <a href="%s">%s</a>`, verifyURL, verifyURL)
		if err := s.notifier.Send(sendCtx, email, "Verify your account", body); err != nil {
			s.logger.Error(sendCtx, "failed to send verification email", "email", email, "error", err.Error())
		}
	}()
}

// VerifyEmail redeems a verification token. Redeeming a token for an already
// verified account is not an error: it returns StatusAlreadyVerified and
// leaves the record untouched, so repeated clicks on the emailed link are
// safe. Otherwise the account becomes verified and active.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*models.User, string, error) {
	email, err := auth.VerifyVerificationToken(token, s.jwtSecret, s.verificationMaxAge)
	if err != nil {
		return nil, "", err
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", common.ErrorNotFound
		}
		return nil, "", fmt.Errorf("error loading user: %w", err)
	}

	if user.IsVerified {
		return user, StatusAlreadyVerified, nil
	}

	user.IsVerified = true
	user.IsActive = true
	user.UpdatedAt = time.Now().UTC()

	user, err = repo.Update(ctx, user)
	if err != nil {
		return nil, "", fmt.Errorf("error updating user: %w", err)
	}

	return user, StatusEmailVerified, nil
}

// Login verifies the email/password pair and mints a session token. An
// unknown email and a wrong password yield the same common.ErrorUnauthorized
// so responses cannot be used to enumerate accounts. Verification status is
// not checked here; unverified accounts can log in (see the service tests).
func (s *AuthService) Login(ctx context.Context, email, password, ipAddress string) (string, string, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", "", common.ErrorUnauthorized
		}
		return "", "", common.ErrorInternal
	}

	if !cryptox.CheckPassword(password, user.PasswordHash) {
		return "", "", common.ErrorUnauthorized
	}

	user.LastLoginAt = time.Now().UTC()
	if ipAddress != "" {
		user.LastLoginIP = ipAddress
	}
	user.UpdatedAt = user.LastLoginAt

	if _, err := repo.Update(ctx, user); err != nil {
		return "", "", common.ErrorInternal
	}

	token, err := auth.GenerateSessionToken(user.ID, user.Email, user.Username, s.jwtSecret, s.sessionTokenTTL)
	if err != nil {
		return "", "", common.ErrorInternal
	}

	return token, StatusLoginSuccessful, nil
}

// LoginOrRegisterOAuth logs in an existing account matched by email or
// transparently creates one on first federated login. New accounts are
// verified and active immediately; their password slot holds the hash of a
// random secret nobody knows, so they cannot log in interactively.
//
// Two concurrent first logins for the same new email can race on the unique
// email constraint; the loser treats the conflict as benign and retries the
// lookup once.
func (s *AuthService) LoginOrRegisterOAuth(ctx context.Context, provider string, identity oauth.Identity) (*models.User, string, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, identity.Email)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			return nil, "", fmt.Errorf("error loading user: %w", err)
		}
		user, err = s.registerOAuthUser(ctx, provider, identity)
		if err != nil {
			return nil, "", err
		}
	}

	user.LastLoginAt = time.Now().UTC()
	user.UpdatedAt = user.LastLoginAt
	if _, err := repo.Update(ctx, user); err != nil {
		return nil, "", fmt.Errorf("error updating login info: %w", err)
	}

	token, err := auth.GenerateSessionToken(user.ID, user.Email, user.Username, s.jwtSecret, s.sessionTokenTTL)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	return user, token, nil
}

func (s *AuthService) registerOAuthUser(ctx context.Context, provider string, identity oauth.Identity) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	secret, err := common.MakeRandHexString(oauthSecretBytes)
	if err != nil {
		return nil, common.ErrorInternal
	}
	hash, err := cryptox.HashPassword(secret, s.bcryptCost)
	if err != nil {
		return nil, common.ErrorInternal
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.NewString(),
		Username:     identity.DisplayName,
		Email:        identity.Email,
		PasswordHash: hash,
		Role:         models.DefaultRole,
		Nickname:     identity.DisplayName,
		Avatar:       identity.Avatar,
		IsActive:     true,
		IsVerified:   true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := repo.Create(ctx, user)
	if err == nil {
		s.logger.Info(ctx, "registered user via oauth", "provider", provider, "email", identity.Email)
		return created, nil
	}

	if errors.Is(err, common.ErrorAlreadyExists) {
		// a concurrent first login won the create; use its record
		existing, lookupErr := repo.GetByEmail(ctx, identity.Email)
		if lookupErr != nil {
			return nil, common.ErrorInternal
		}
		return existing, nil
	}

	return nil, fmt.Errorf("error creating oauth user: %w", err)
}

// ProfileUpdate carries the optional fields of an UpdateProfile call. Nil
// fields leave the stored value unchanged.
type ProfileUpdate struct {
	Nickname *string
	Avatar   *string
	Bio      *string
}

// UpdateProfile applies only the fields supplied in the update and persists
// the record.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if update.Nickname != nil {
		user.Nickname = *update.Nickname
	}
	if update.Avatar != nil {
		user.Avatar = *update.Avatar
	}
	if update.Bio != nil {
		user.Bio = *update.Bio
	}
	user.UpdatedAt = time.Now().UTC()

	user, err = repo.Update(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error updating user: %w", err)
	}

	return user, nil
}

// GetUserFromToken resolves a bearer session token to the stored user
// record. Token failures pass through (common.ErrTokenExpired or
// common.ErrInvalidToken); a token for a since-deleted user yields
// common.ErrorNotFound.
func (s *AuthService) GetUserFromToken(ctx context.Context, token string) (*models.User, error) {
	claims, err := auth.ParseSessionToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	return user, nil
}
