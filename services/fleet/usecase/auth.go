package usecase

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/fleetops/fleetd/internal/pkg/apperr"
	jwtpkg "github.com/fleetops/fleetd/internal/pkg/jwt"
	"github.com/fleetops/fleetd/internal/pkg/models"
	"github.com/fleetops/fleetd/services/registry"
)

// Register creates a new employee account pending admin approval
func (uc *FleetUC) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperr.Validation("a valid email is required")
	}
	if len(req.Password) < 8 {
		return nil, apperr.Validation("password must be at least 8 characters")
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperr.Validation("name is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	id, err := uc.registryUC.NextID(ctx, registry.EntityUser)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           id,
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: string(hash),
		Role:         models.RoleEmployee,
		Status:       models.UserStatusPending,
	}

	if err := uc.fleetRepo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	uc.logger.WithField("user_id", user.ID).Info("User registered, pending approval")
	return user, nil
}

// Login authenticates an active user and issues a JWT
func (uc *FleetUC) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, apperr.Validation("email and password are required")
	}

	user, err := uc.fleetRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, apperr.Validation("invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperr.Validation("invalid credentials")
	}

	if user.Status != models.UserStatusActive {
		return nil, apperr.New(apperr.KindConflict, "account is not active")
	}

	token, expiresAt, err := jwtpkg.GenerateToken(user.ID, user.Email, string(user.Role), uc.cfg)
	if err != nil {
		return nil, err
	}

	return &models.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

// ApproveUser activates a pending account
func (uc *FleetUC) ApproveUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := uc.fleetRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Status != models.UserStatusPending {
		return nil, apperr.New(apperr.KindConflict, "only pending accounts can be approved")
	}

	if err := uc.fleetRepo.UpdateUserStatus(ctx, userID, models.UserStatusActive); err != nil {
		return nil, err
	}

	user.Status = models.UserStatusActive
	uc.logger.WithField("user_id", userID).Info("User approved")
	return user, nil
}

// DeactivateUser disables an account. The vehicle pairing, if any, must
// be broken first via unassign.
func (uc *FleetUC) DeactivateUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := uc.fleetRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Status == models.UserStatusInactive {
		return nil, apperr.New(apperr.KindConflict, "account is already inactive")
	}
	if user.AssignedVehicle != "" {
		return nil, apperr.New(apperr.KindConflict, "driver still has an assigned vehicle")
	}

	if err := uc.fleetRepo.UpdateUserStatus(ctx, userID, models.UserStatusInactive); err != nil {
		return nil, err
	}

	user.Status = models.UserStatusInactive
	return user, nil
}

// GetUser retrieves a single user
func (uc *FleetUC) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return uc.fleetRepo.GetUserByID(ctx, userID)
}

// ListUsers retrieves all users
func (uc *FleetUC) ListUsers(ctx context.Context) ([]*models.User, error) {
	return uc.fleetRepo.ListUsers(ctx)
}
