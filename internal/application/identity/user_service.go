package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eduplatform/backend/internal/domain/identity"
	"github.com/eduplatform/backend/internal/domain/shared"
)

// UserListFilter defines filtering options for user list queries
type UserListFilter struct {
	Search   string `form:"search"`
	Role     string `form:"role"`
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// UserService provides admin-level user management
type UserService struct {
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo identity.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{userRepo: userRepo, logger: logger}
}

// CreateUser provisions an account with any role (admin operation)
func (s *UserService) CreateUser(ctx context.Context, input RegisterInput) (*UserInfo, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "An account with this email already exists")
	}

	user, err := identity.NewUser(input.Email, input.Password, input.FullName, identity.Role(input.Role))
	if err != nil {
		return nil, err
	}
	if input.Phone != "" {
		if err := user.UpdateProfile(input.FullName, input.Phone); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User provisioned",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	info := toUserInfo(user)
	return &info, nil
}

// GetUser loads a user by ID
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	info := toUserInfo(user)
	return &info, nil
}

// ListUsers lists users with filtering and pagination
func (s *UserService) ListUsers(ctx context.Context, filter UserListFilter) ([]UserInfo, int64, error) {
	domainFilter := identity.UserFilter{}
	domainFilter.Page = filter.Page
	domainFilter.PageSize = filter.PageSize
	domainFilter.Search = filter.Search

	if filter.Role != "" {
		role := identity.Role(filter.Role)
		if !role.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_ROLE", "Role is not valid")
		}
		domainFilter.Role = role
	}
	if filter.Status != "" {
		domainFilter.Status = identity.UserStatus(filter.Status)
	}

	users, err := s.userRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.userRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	infos := make([]UserInfo, len(users))
	for i := range users {
		infos[i] = toUserInfo(users[i])
	}

	return infos, total, nil
}

// DeactivateUser disables an account and prevents further logins
func (s *UserService) DeactivateUser(ctx context.Context, id uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := user.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User deactivated", zap.String("user_id", id.String()))

	info := toUserInfo(user)
	return &info, nil
}

// ActivateUser re-enables a deactivated account
func (s *UserService) ActivateUser(ctx context.Context, id uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := user.Activate(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	info := toUserInfo(user)
	return &info, nil
}
