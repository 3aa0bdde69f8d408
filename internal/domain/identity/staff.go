package identity

import (
	"strings"
	"time"

	"github.com/solarmd/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// StaffRole scopes what back-office actions a staff member may perform
type StaffRole string

// Staff role constants
const (
	RoleAdmin   StaffRole = "admin"
	RoleManager StaffRole = "manager"
	RoleEditor  StaffRole = "editor"
)

// Valid reports whether the role is a known value
func (r StaffRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEditor:
		return true
	}
	return false
}

// MinPasswordLength is the minimum accepted password length
const MinPasswordLength = 8

// Staff is a back-office user. Staff IDs are what the audit-stamp and
// history hooks record as the acting party.
type Staff struct {
	shared.BaseAggregateRoot
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	FullName     string    `gorm:"type:varchar(255);not null"`
	Role         StaffRole `gorm:"type:varchar(20);not null"`
	IsActive     bool      `gorm:"not null;default:true"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (Staff) TableName() string {
	return "staff"
}

// NewStaff creates an active staff member with a bcrypt-hashed password
func NewStaff(email, password, fullName string, role StaffRole) (*Staff, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if len(password) < MinPasswordLength {
		return nil, shared.NewValidationError("password", "password must be at least 8 characters")
	}
	if strings.TrimSpace(fullName) == "" {
		return nil, shared.NewValidationError("full_name", "staff name cannot be empty")
	}
	if !role.Valid() {
		return nil, shared.NewValidationError("role", "role must be admin, manager or editor")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &Staff{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		PasswordHash:      string(hash),
		FullName:          strings.TrimSpace(fullName),
		Role:              role,
		IsActive:          true,
	}, nil
}

// CheckPassword verifies a login attempt against the stored hash
func (s *Staff) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(s.PasswordHash), []byte(password)) == nil
}

// ChangePassword replaces the stored hash
func (s *Staff) ChangePassword(password string) error {
	if len(password) < MinPasswordLength {
		return shared.NewValidationError("password", "password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.PasswordHash = string(hash)
	s.touch()
	return nil
}

// RecordLogin stamps a successful authentication
func (s *Staff) RecordLogin(now time.Time) {
	s.LastLoginAt = &now
}

// Deactivate revokes back-office access
func (s *Staff) Deactivate() {
	s.IsActive = false
	s.touch()
}

// Activate restores back-office access
func (s *Staff) Activate() {
	s.IsActive = true
	s.touch()
}

func (s *Staff) touch() {
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}
