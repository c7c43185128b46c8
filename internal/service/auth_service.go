package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/hostel-complaint-service/internal/auth"
	"github.com/spec-kit/hostel-complaint-service/internal/config"
	"github.com/spec-kit/hostel-complaint-service/internal/domain"
	"github.com/spec-kit/hostel-complaint-service/internal/repository"
	apperrors "github.com/spec-kit/hostel-complaint-service/pkg/util/errorutil"
)

// AuthSubject identifies the caller when changing password.
type AuthSubject struct {
	Type domain.SubjectType
	ID   string
}

// LoginResult carries the issued token and the resolved principal.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Subject   domain.SubjectType
	User      *domain.User
	Staff     *domain.StaffMember
}

// RegisterStudentInput describes student self-registration payload.
type RegisterStudentInput struct {
	Name         string
	Email        string
	Password     string
	Phone        *string
	MatricNumber string
	HostelName   string
	RoomNumber   string
}

// ProvisionStaffInput describes admin-initiated staff creation.
type ProvisionStaffInput struct {
	Name                 string
	Email                string
	Password             string
	Phone                *string
	Role                 domain.StaffRole
	FacilityCapabilities []domain.FacilityType
}

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	staff      repository.StaffRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo  repository.UserRepository
	StaffRepo repository.StaffRepository
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		staff:      deps.StaffRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// RegisterStudent creates a new student account and logs it in.
func (s *AuthService) RegisterStudent(ctx context.Context, input RegisterStudentInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || strings.TrimSpace(input.Name) == "" || input.Password == "" {
		return nil, apperrors.NewValidationError("name, email and password required", nil)
	}
	if strings.TrimSpace(input.MatricNumber) == "" || strings.TrimSpace(input.HostelName) == "" || strings.TrimSpace(input.RoomNumber) == "" {
		return nil, apperrors.NewValidationError("matric_number, hostel_name and room_number required", nil)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	user := &domain.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hash,
		Phone:        input.Phone,
		MatricNumber: strings.TrimSpace(input.MatricNumber),
		HostelName:   strings.TrimSpace(input.HostelName),
		RoomNumber:   strings.TrimSpace(input.RoomNumber),
		Status:       domain.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, domain.SubjectTypeStudent, nil)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &LoginResult{Token: token, ExpiresAt: exp, Subject: domain.SubjectTypeStudent, User: user}, nil
}

// Login authenticates by email and password, resolving students first and
// falling back to the staff directory.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		if user.Status != domain.UserStatusActive {
			return nil, apperrors.NewUnauthorized("account suspended")
		}
		if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
			return nil, apperrors.NewInvalidCredentials()
		}
		token, exp, err := s.tokenMgr.GenerateToken(user.ID, domain.SubjectTypeStudent, nil)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		return &LoginResult{Token: token, ExpiresAt: exp, Subject: domain.SubjectTypeStudent, User: user}, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	staff, err := s.staff.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInvalidCredentials()
		}
		return nil, apperrors.MapError(err)
	}
	if !staff.Active {
		return nil, apperrors.NewUnauthorized("account deactivated")
	}
	if err := auth.ComparePassword(staff.PasswordHash, password); err != nil {
		return nil, apperrors.NewInvalidCredentials()
	}
	token, exp, err := s.tokenMgr.GenerateToken(staff.ID, domain.SubjectTypeStaff, &staff.Role)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &LoginResult{Token: token, ExpiresAt: exp, Subject: domain.SubjectTypeStaff, Staff: staff}, nil
}

// ProvisionStaff creates a staff account. Callers guard the admin role.
func (s *AuthService) ProvisionStaff(ctx context.Context, input ProvisionStaffInput) (*domain.StaffMember, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || strings.TrimSpace(input.Name) == "" || input.Password == "" {
		return nil, apperrors.NewValidationError("name, email and password required", nil)
	}
	if input.Role != domain.StaffRoleAdmin && input.Role != domain.StaffRoleMaintenance {
		return nil, apperrors.NewValidationError("unknown staff role", map[string]any{"role": input.Role})
	}
	for _, capability := range input.FacilityCapabilities {
		if !capability.Valid() {
			return nil, apperrors.NewValidationError("unknown facility type", map[string]any{"facility_type": capability})
		}
	}
	if input.Role == domain.StaffRoleMaintenance && len(input.FacilityCapabilities) == 0 {
		return nil, apperrors.NewValidationError("maintenance staff need at least one facility capability", nil)
	}

	if _, err := s.staff.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	staff := &domain.StaffMember{
		Name:                 strings.TrimSpace(input.Name),
		Email:                email,
		PasswordHash:         hash,
		Phone:                input.Phone,
		Role:                 input.Role,
		FacilityCapabilities: input.FacilityCapabilities,
		Active:               true,
	}
	if err := s.staff.Create(ctx, staff); err != nil {
		return nil, apperrors.MapError(err)
	}
	return staff, nil
}

// ChangePassword verifies current password before updating to new hash.
func (s *AuthService) ChangePassword(ctx context.Context, subject AuthSubject, currentPassword, newPassword string) error {
	if newPassword == "" {
		return apperrors.NewValidationError("new password required", nil)
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.MapError(err)
	}

	switch subject.Type {
	case domain.SubjectTypeStudent:
		user, err := s.users.GetByID(ctx, subject.ID)
		if err != nil {
			return apperrors.MapError(err)
		}
		if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
			return apperrors.NewInvalidCredentials()
		}
		user.PasswordHash = hash
		if err := s.users.Update(ctx, user); err != nil {
			return apperrors.MapError(err)
		}
		return nil
	case domain.SubjectTypeStaff:
		staff, err := s.staff.GetByID(ctx, subject.ID)
		if err != nil {
			return apperrors.MapError(err)
		}
		if err := auth.ComparePassword(staff.PasswordHash, currentPassword); err != nil {
			return apperrors.NewInvalidCredentials()
		}
		staff.PasswordHash = hash
		if err := s.staff.Update(ctx, staff); err != nil {
			return apperrors.MapError(err)
		}
		return nil
	default:
		return apperrors.NewUnauthorized("unknown subject")
	}
}

// ListStaff returns staff directory entries for admin views.
func (s *AuthService) ListStaff(ctx context.Context, filter repository.StaffFilter) ([]domain.StaffMember, error) {
	staff, err := s.staff.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return staff, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
