package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"salespoint/internal/model"
	"salespoint/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateUserRequest struct {
	FirstName           string `json:"first_name" binding:"required"`
	LastName            string `json:"last_name" binding:"required"`
	Email               string `json:"email" binding:"required,email"`
	Phone               string `json:"phone"`
	Address             string `json:"address"`
	PhotoURL            string `json:"photo_url"`
	Role                string `json:"role" binding:"required,oneof=admin manager seller"`
	Password            string `json:"password" binding:"required,min=6"`
	IsActive            *bool  `json:"is_active"`
	ForcePasswordChange bool   `json:"force_password_change"`
}

type UpdateUserRequest struct {
	FirstName           *string `json:"first_name"`
	LastName            *string `json:"last_name"`
	Email               *string `json:"email" binding:"omitempty,email"`
	Phone               *string `json:"phone"`
	Address             *string `json:"address"`
	PhotoURL            *string `json:"photo_url"`
	Role                *string `json:"role" binding:"omitempty,oneof=admin manager seller"`
	IsActive            *bool   `json:"is_active"`
	ForcePasswordChange *bool   `json:"force_password_change"`
	Password            string  `json:"password" binding:"omitempty,min=6"` // non-empty rotates the credential
}

type LoginUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type TokenResponse struct {
	Token               string `json:"token"`
	RefreshToken        string `json:"refresh_token"`
	ForcePasswordChange bool   `json:"force_password_change"`
}

type UserResponse struct {
	ID                  string `json:"id"`
	FirstName           string `json:"first_name"`
	LastName            string `json:"last_name"`
	Email               string `json:"email"`
	Phone               string `json:"phone"`
	Address             string `json:"address"`
	PhotoURL            string `json:"photo_url"`
	Role                string `json:"role"`
	IsActive            bool   `json:"is_active"`
	ForcePasswordChange bool   `json:"force_password_change"`
	CreatedAt           string `json:"created_at"`
	UpdatedAt           string `json:"updated_at"`
}

// --- Interface ---

type UserService interface {
	CreateUser(ctx context.Context, actorID string, req CreateUserRequest) (*UserResponse, error)
	Login(ctx context.Context, req LoginUserRequest) (*TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error)
	Logout(ctx context.Context, userID string) error
	GetUserByID(ctx context.Context, id string) (*UserResponse, error)
	ListUsers(ctx context.Context, page, limit int) ([]UserResponse, int64, error)
	UpdateUser(ctx context.Context, actorID string, id string, req UpdateUserRequest) (*UserResponse, error)
	DeleteUser(ctx context.Context, actorID string, id string) error
}

type userService struct {
	repo      repository.UserRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
}

func NewUserService(repo repository.UserRepository, auditRepo repository.AuditRepository, txManager repository.TransactionManager) UserService {
	return &userService{repo: repo, auditRepo: auditRepo, txManager: txManager}
}

const accessTokenTTL = 24 * time.Hour
const refreshTokenTTL = 7 * 24 * time.Hour

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "default_super_secret_key" // development fallback only
	}
	return []byte(secret)
}

// --- Implementation ---

// CreateUser provisions an operator account. The duplicate-email check runs
// before any write, and the profile row (which carries the credential) is
// created inside one transaction together with its audit entry, so there is
// no window where a credential exists without a matching user.
func (s *userService) CreateUser(ctx context.Context, actorID string, req CreateUserRequest) (*UserResponse, error) {
	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, errors.New("un utilisateur avec cet email existe déjà")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	user := &model.InternalUser{
		FirstName:           req.FirstName,
		LastName:            req.LastName,
		Email:               req.Email,
		Phone:               req.Phone,
		Address:             req.Address,
		PhotoURL:            req.PhotoURL,
		Role:                req.Role,
		IsActive:            isActive,
		ForcePasswordChange: req.ForcePasswordChange,
		Password:            string(hashed),
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Create(txCtx, user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		return s.audit(txCtx, actorID, model.ActionCreateUser, user.ID.String(), user.Email, map[string]interface{}{
			"role":      user.Role,
			"is_active": user.IsActive,
		})
	})
	if err != nil {
		return nil, err
	}

	return toUserResponse(user), nil
}

func (s *userService) Login(ctx context.Context, req LoginUserRequest) (*TokenResponse, error) {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.New("invalid email or password")
	}

	if !user.IsActive {
		return nil, errors.New("account is deactivated")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid email or password")
	}

	accessToken, err := s.signAccessToken(user)
	if err != nil {
		return nil, err
	}

	// Expired rows are swept on login; a failed sweep never blocks the login.
	_ = s.repo.DeleteExpiredRefreshTokens(ctx)

	refresh := &model.RefreshToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}
	if err := s.repo.CreateRefreshToken(ctx, refresh); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &TokenResponse{
		Token:               accessToken,
		RefreshToken:        refresh.Token,
		ForcePasswordChange: user.ForcePasswordChange,
	}, nil
}

func (s *userService) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	stored, err := s.repo.FindRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, errors.New("invalid refresh token")
	}
	if time.Now().After(stored.ExpiresAt) {
		return nil, errors.New("refresh token expired")
	}

	user, err := s.repo.FindByID(ctx, stored.UserID)
	if err != nil {
		return nil, errors.New("user not found")
	}
	if !user.IsActive {
		return nil, errors.New("account is deactivated")
	}

	accessToken, err := s.signAccessToken(user)
	if err != nil {
		return nil, err
	}

	return &TokenResponse{
		Token:               accessToken,
		RefreshToken:        refreshToken,
		ForcePasswordChange: user.ForcePasswordChange,
	}, nil
}

func (s *userService) Logout(ctx context.Context, userID string) error {
	id, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}
	return s.repo.DeleteRefreshTokensForUser(ctx, id)
}

func (s *userService) GetUserByID(ctx context.Context, id string) (*UserResponse, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, errors.New("user not found")
	}
	return toUserResponse(user), nil
}

func (s *userService) ListUsers(ctx context.Context, page, limit int) ([]UserResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	users, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch users: %w", err)
	}

	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *toUserResponse(&users[i]))
	}
	return responses, total, nil
}

// UpdateUser applies profile changes and, when a password is supplied,
// rotates the credential in the same transaction.
func (s *userService) UpdateUser(ctx context.Context, actorID string, id string, req UpdateUserRequest) (*UserResponse, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, errors.New("user not found")
	}

	if req.Email != nil && *req.Email != user.Email {
		if _, err := s.repo.FindByEmail(ctx, *req.Email); err == nil {
			return nil, errors.New("un utilisateur avec cet email existe déjà")
		}
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Address != nil {
		user.Address = *req.Address
	}
	if req.PhotoURL != nil {
		user.PhotoURL = *req.PhotoURL
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.ForcePasswordChange != nil {
		user.ForcePasswordChange = *req.ForcePasswordChange
	}

	rotated := false
	if req.Password != "" {
		hashed, hashErr := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if hashErr != nil {
			return nil, errors.New("failed to hash password")
		}
		user.Password = string(hashed)
		rotated = true
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Update(txCtx, user); err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
		if rotated {
			// Old sessions must re-authenticate after a credential rotation.
			if err := s.repo.DeleteRefreshTokensForUser(txCtx, user.ID); err != nil {
				return fmt.Errorf("failed to revoke refresh tokens: %w", err)
			}
		}
		return s.audit(txCtx, actorID, model.ActionUpdateUser, user.ID.String(), user.Email, map[string]interface{}{
			"password_rotated": rotated,
		})
	})
	if err != nil {
		return nil, err
	}

	return toUserResponse(user), nil
}

func (s *userService) DeleteUser(ctx context.Context, actorID string, id string) error {
	userID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return errors.New("user not found")
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Delete(txCtx, userID); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		if err := s.repo.DeleteRefreshTokensForUser(txCtx, userID); err != nil {
			return fmt.Errorf("failed to revoke refresh tokens: %w", err)
		}
		return s.audit(txCtx, actorID, model.ActionDeleteUser, user.ID.String(), user.Email, map[string]interface{}{
			"deleted": true,
		})
	})
}

// --- Helpers ---

func (s *userService) signAccessToken(user *model.InternalUser) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": user.Role,
		"exp":  time.Now().Add(accessTokenTTL).Unix(),
	})
	signed, err := token.SignedString(jwtSecret())
	if err != nil {
		return "", errors.New("failed to generate token")
	}
	return signed, nil
}

func (s *userService) audit(ctx context.Context, actorID, action, entityID, entityName string, details map[string]interface{}) error {
	var uid *uuid.UUID
	if parsed, err := uuid.Parse(actorID); err == nil {
		uid = &parsed
	}
	payload, _ := json.Marshal(details)
	entry := &model.AuditLog{
		UserID:     uid,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(payload),
	}
	if err := s.auditRepo.Log(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func toUserResponse(user *model.InternalUser) *UserResponse {
	return &UserResponse{
		ID:                  user.ID.String(),
		FirstName:           user.FirstName,
		LastName:            user.LastName,
		Email:               user.Email,
		Phone:               user.Phone,
		Address:             user.Address,
		PhotoURL:            user.PhotoURL,
		Role:                user.Role,
		IsActive:            user.IsActive,
		ForcePasswordChange: user.ForcePasswordChange,
		CreatedAt:           user.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           user.UpdatedAt.Format(time.RFC3339),
	}
}
