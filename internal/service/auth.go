package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"portal/internal/auth"
	"portal/internal/config"
	"portal/internal/domain"
	"portal/internal/domain/models"
	"portal/internal/domain/repositories"
	"portal/internal/domain/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var authAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "portal_auth_attempts_total",
		Help: "Login and signup attempts by outcome",
	},
	[]string{"operation", "outcome"},
)

// AuthPolicy holds the configurable parts of account handling
type AuthPolicy struct {
	// AllowSignupRole lets signup requests ask for a role other than "user".
	// Only meant for bootstrapping environments.
	AllowSignupRole bool
}

type authService struct {
	userRepo  repositories.UserRepository
	txManager repositories.TransactionManager
	hasher    auth.PasswordHasher
	issuer    auth.TokenIssuer
	policy    AuthPolicy
	logger    *slog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	txManager repositories.TransactionManager,
	hasher auth.PasswordHasher,
	issuer auth.TokenIssuer,
	policy AuthPolicy,
	logger *slog.Logger,
) services.AuthService {
	return &authService{
		userRepo:  userRepo,
		txManager: txManager,
		hasher:    hasher,
		issuer:    issuer,
		policy:    policy,
		logger:    logger,
	}
}

// Login checks credentials and issues a token
func (s *authService) Login(ctx context.Context, req *services.LoginRequest) (*services.AuthResult, error) {
	if req.Username == "" || req.Password == "" {
		authAttemptsTotal.WithLabelValues("login", "invalid").Inc()
		return nil, fmt.Errorf("%w: username and password are required", domain.ErrValidation)
	}

	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			authAttemptsTotal.WithLabelValues("login", "unknown_user").Inc()
			return nil, fmt.Errorf("%w: username not found", domain.ErrNotFound)
		}
		authAttemptsTotal.WithLabelValues("login", "error").Inc()
		return nil, err
	}

	ok, needsRehash := s.hasher.Verify(user.PasswordHash, req.Password)
	if !ok {
		authAttemptsTotal.WithLabelValues("login", "bad_password").Inc()
		s.logger.Info("login rejected", "user_id", user.ID, "reason", "invalid password")
		return nil, fmt.Errorf("%w: invalid password", domain.ErrInvalidCredentials)
	}

	if needsRehash {
		s.upgradeHash(ctx, user, req.Password)
	}

	result, err := s.issue(user)
	if err != nil {
		authAttemptsTotal.WithLabelValues("login", "error").Inc()
		return nil, err
	}

	authAttemptsTotal.WithLabelValues("login", "success").Inc()
	s.logger.Info("user logged in", "user_id", user.ID, "role", user.Role)

	return result, nil
}

// Signup creates an account and issues a token
func (s *authService) Signup(ctx context.Context, req *services.SignupRequest) (*services.AuthResult, error) {
	if err := s.validateSignupRequest(req); err != nil {
		authAttemptsTotal.WithLabelValues("signup", "invalid").Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	role, err := s.resolveSignupRole(req.Role)
	if err != nil {
		authAttemptsTotal.WithLabelValues("signup", "forbidden").Inc()
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		authAttemptsTotal.WithLabelValues("signup", "error").Inc()
		return nil, err
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
	}

	// The checks give precise conflicts; the unique constraints behind Create
	// settle races between concurrent signups.
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		taken, err := s.userRepo.ExistsByUsername(txCtx, req.Username)
		if err != nil {
			return err
		}
		if taken {
			return domain.NewConflictError("username")
		}

		taken, err = s.userRepo.ExistsByEmail(txCtx, req.Email)
		if err != nil {
			return err
		}
		if taken {
			return domain.NewConflictError("email")
		}

		return s.userRepo.Create(txCtx, user)
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			authAttemptsTotal.WithLabelValues("signup", "conflict").Inc()
		} else {
			authAttemptsTotal.WithLabelValues("signup", "error").Inc()
		}
		return nil, err
	}

	result, err := s.issue(user)
	if err != nil {
		authAttemptsTotal.WithLabelValues("signup", "error").Inc()
		return nil, err
	}

	authAttemptsTotal.WithLabelValues("signup", "success").Inc()
	s.logger.Info("user signed up",
		"user_id", user.ID,
		"username", user.Username,
		"role", user.Role,
	)

	return result, nil
}

// issue signs a token for the user and builds the response
func (s *authService) issue(user *models.User) (*services.AuthResult, error) {
	token, err := s.issuer.Encode(&models.Claims{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &services.AuthResult{
		Token: token,
		User:  user.Public(),
	}, nil
}

// upgradeHash replaces a weak stored hash after a successful login.
// Failure only costs the upgrade, never the login.
func (s *authService) upgradeHash(ctx context.Context, user *models.User, password string) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Warn("password rehash failed", "user_id", user.ID, "error", err)
		return
	}

	if err := s.userRepo.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		s.logger.Warn("password hash upgrade not stored", "user_id", user.ID, "error", err)
		return
	}

	s.logger.Info("password hash upgraded", "user_id", user.ID)
}

// resolveSignupRole applies the role policy: "user" unless elevation is allowed
func (s *authService) resolveSignupRole(requested models.Role) (models.Role, error) {
	if requested == "" || requested == models.RoleUser {
		return models.RoleUser, nil
	}

	if !s.policy.AllowSignupRole {
		s.logger.Warn("signup requested elevated role", "role", requested)
		return "", fmt.Errorf("%w: role %q cannot be requested at signup", domain.ErrForbidden, requested)
	}

	return requested, nil
}

// validateSignupRequest validates a signup request
func (s *authService) validateSignupRequest(req *services.SignupRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Username,
			validation.Required,
			validation.Length(1, config.MaxUsernameLength),
		),
		validation.Field(&req.Email,
			validation.Required,
			validation.Length(1, config.MaxEmailLength),
			is.EmailFormat,
		),
		validation.Field(&req.Password,
			validation.Required,
			validation.Length(config.MinPasswordLength, config.MaxPasswordLength),
		),
		validation.Field(&req.Role,
			validation.In(models.RoleSuper, models.RoleAdmin, models.RoleUser),
		),
	)
}
