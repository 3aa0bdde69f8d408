// Package identity contains application services for staff and client
// accounts.
package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/solarmd/backend/internal/domain/catalog"
	"github.com/solarmd/backend/internal/domain/identity"
	"github.com/solarmd/backend/internal/domain/shared"
	"github.com/solarmd/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// ErrInvalidCredentials is returned for a wrong email/password pair. It is
// deliberately identical for unknown emails and wrong passwords.
var ErrInvalidCredentials = errors.New("invalid email or password")

// LoginRequest is the payload for staff login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token and the staff profile
type LoginResponse struct {
	Token *auth.Token    `json:"token"`
	Staff *StaffResponse `json:"staff"`
}

// CreateStaffRequest is the payload for creating a staff account
type CreateStaffRequest struct {
	Email    string             `json:"email" binding:"required,email"`
	Password string             `json:"password" binding:"required,min=8"`
	FullName string             `json:"full_name" binding:"required,max=255"`
	Role     identity.StaffRole `json:"role" binding:"required"`
}

// RegisterClientRequest is the payload for registering a shop client
type RegisterClientRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	FullName string `json:"full_name" binding:"required,max=255"`
}

// StaffResponse is the API shape of a staff account
type StaffResponse struct {
	ID          uuid.UUID          `json:"id"`
	Email       string             `json:"email"`
	FullName    string             `json:"full_name"`
	Role        identity.StaffRole `json:"role"`
	IsActive    bool               `json:"is_active"`
	LastLoginAt *time.Time         `json:"last_login_at,omitempty"`
}

// ClientResponse is the API shape of a client account
type ClientResponse struct {
	ID        uuid.UUID             `json:"id"`
	Email     string                `json:"email"`
	Phone     string                `json:"phone"`
	FullName  string                `json:"full_name"`
	PriceTier catalog.PriceType     `json:"price_tier"`
	Status    identity.ClientStatus `json:"status"`
}

// AuthService handles staff authentication and account management
type AuthService struct {
	staff   identity.StaffRepository
	clients identity.ClientRepository
	tokens  *auth.JWTService
	logger  *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	staff identity.StaffRepository,
	clients identity.ClientRepository,
	tokens *auth.JWTService,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		staff:   staff,
		clients: clients,
		tokens:  tokens,
		logger:  logger,
	}
}

// Login authenticates a staff member and issues an access token
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	staff, err := s.staff.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !staff.IsActive {
		return nil, ErrInvalidCredentials
	}
	if !staff.CheckPassword(req.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(staff)
	if err != nil {
		return nil, err
	}

	staff.RecordLogin(time.Now())
	if err := s.staff.Save(ctx, staff); err != nil {
		// The session is valid either way; losing the timestamp is benign.
		s.logger.Warn("failed to record staff login", zap.Error(err))
	}

	return &LoginResponse{
		Token: token,
		Staff: toStaffResponse(staff),
	}, nil
}

// CreateStaff creates a new staff account
func (s *AuthService) CreateStaff(ctx context.Context, req CreateStaffRequest) (*StaffResponse, error) {
	staff, err := identity.NewStaff(req.Email, req.Password, req.FullName, req.Role)
	if err != nil {
		return nil, err
	}
	if err := s.staff.Save(ctx, staff); err != nil {
		return nil, err
	}
	return toStaffResponse(staff), nil
}

// RegisterClient registers a new shop client at the anonymous price tier
func (s *AuthService) RegisterClient(ctx context.Context, req RegisterClientRequest) (*ClientResponse, error) {
	taken, err := s.clients.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "a client with this email already exists")
	}

	client, err := identity.NewClient(req.Email, req.Phone, req.FullName, catalog.PriceTypeUser)
	if err != nil {
		return nil, err
	}
	if err := s.clients.Save(ctx, client); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

func toStaffResponse(staff *identity.Staff) *StaffResponse {
	return &StaffResponse{
		ID:          staff.ID,
		Email:       staff.Email,
		FullName:    staff.FullName,
		Role:        staff.Role,
		IsActive:    staff.IsActive,
		LastLoginAt: staff.LastLoginAt,
	}
}

func toClientResponse(client *identity.Client) *ClientResponse {
	return &ClientResponse{
		ID:        client.ID,
		Email:     client.Email,
		Phone:     client.Phone,
		FullName:  client.FullName,
		PriceTier: client.PriceTier,
		Status:    client.Status,
	}
}
