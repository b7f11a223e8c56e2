// internal/domain/user/service.go
package user

import (
	"errors"
	"fmt"
	"time"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
	"gorm.io/gorm"
)

var (
	// ErrEmailTaken rejects registration with an already-used email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials covers both unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrNotFound marks a missing or deactivated account.
	ErrNotFound = errors.New("user not found")
)

// Service handles account business logic
type Service struct {
	db              *gorm.DB
	config          *config.Config
	passwordManager *auth.PasswordManager
	jwtManager      *auth.JWTManager
}

// NewService creates a new user service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:              db,
		config:          cfg,
		passwordManager: auth.NewPasswordManager(cfg),
		jwtManager:      auth.NewJWTManager(cfg),
	}
}

// RegisterRequest represents account registration data
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	Phone       string `json:"phone"`
	CompanyName string `json:"company_name"`
	SIRET       string `json:"siret"`
	VATNumber   string `json:"vat_number"`
}

// LoginRequest represents login data
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// UpdateProfileRequest carries the editable profile fields.
type UpdateProfileRequest struct {
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	CompanyName *string `json:"company_name,omitempty"`
	SIRET       *string `json:"siret,omitempty"`
	VATNumber   *string `json:"vat_number,omitempty"`
}

// Register creates a new account and signs it in.
func (s *Service) Register(req *RegisterRequest) (*AuthResponse, error) {
	var existing User
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	account := User{
		Email:       req.Email,
		Password:    hashedPassword,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Phone:       req.Phone,
		CompanyName: req.CompanyName,
		SIRET:       req.SIRET,
		VATNumber:   req.VATNumber,
		IsActive:    true,
	}

	if err := s.db.Create(&account).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issueTokens(&account)
}

// Login authenticates an account.
func (s *Service) Login(req *LoginRequest) (*AuthResponse, error) {
	var account User
	err := s.db.Where("email = ? AND is_active = ?", req.Email, true).First(&account).Error
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.passwordManager.VerifyPassword(req.Password, account.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(&account)
}

// RefreshToken rotates the token pair from a valid refresh token.
func (s *Service) RefreshToken(refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	var account User
	err = s.db.Where("id = ? AND is_active = ?", claims.UserID, true).First(&account).Error
	if err != nil {
		return nil, ErrNotFound
	}

	return s.issueTokens(&account)
}

// GetProfile loads an active account by id.
func (s *Service) GetProfile(userID uint) (*User, error) {
	var account User
	err := s.db.Preload("Addresses").Where("id = ? AND is_active = ?", userID, true).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	account.Password = ""
	return &account, nil
}

// UpdateProfile applies the provided fields and returns the fresh profile.
func (s *Service) UpdateProfile(userID uint, req *UpdateProfileRequest) (*User, error) {
	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.CompanyName != nil {
		updates["company_name"] = *req.CompanyName
	}
	if req.SIRET != nil {
		updates["siret"] = *req.SIRET
	}
	if req.VATNumber != nil {
		updates["vat_number"] = *req.VATNumber
	}

	if len(updates) > 0 {
		result := s.db.Model(&User{}).Where("id = ?", userID).Updates(updates)
		if result.Error != nil {
			return nil, fmt.Errorf("failed to update profile: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}

	return s.GetProfile(userID)
}

// ChangePassword replaces the password after checking the current one.
func (s *Service) ChangePassword(userID uint, currentPassword, newPassword string) error {
	var account User
	if err := s.db.First(&account, userID).Error; err != nil {
		return ErrNotFound
	}

	if err := s.passwordManager.VerifyPassword(currentPassword, account.Password); err != nil {
		return ErrInvalidCredentials
	}

	hashed, err := s.passwordManager.HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.db.Model(&account).Update("password", hashed).Error
}

func (s *Service) issueTokens(account *User) (*AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(account.ID, account.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(account.ID, account.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	now := time.Now().UTC()
	account.LastLoginAt = &now
	s.db.Model(account).Update("last_login_at", now)

	account.Password = ""

	return &AuthResponse{
		User:         account,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.config.JWT.AccessTokenExpiry.Seconds()),
	}, nil
}
