package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"billboard-report/internal/data/entity"
	"billboard-report/internal/data/repository"
	"billboard-report/internal/dto/request"
	"billboard-report/internal/dto/response"
	"billboard-report/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const adminUsersPerPage = 10

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.UserResponse, error)
	ChangePassword(ctx context.Context, session utils.Session, req *request.ChangePasswordRequest) error

	// Admin directory
	GetAllUsers(ctx context.Context, req request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error)
	UpdateRole(ctx context.Context, actor utils.Session, userID string, req *request.UpdateRoleRequest) (*response.UserResponse, error)
	DeleteUser(ctx context.Context, actor utils.Session, userID string) error
}

type userService struct {
	repo  *repository.Repository
	roles RoleNotifier
	log   *zap.Logger
	now   func() time.Time
}

func NewUserService(repo *repository.Repository, roles RoleNotifier, log *zap.Logger) UserService {
	return &userService{
		repo:  repo,
		roles: roles,
		log:   log.With(zap.String("service", "user")),
		now:   time.Now,
	}
}

func (us *userService) findUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := us.repo.User.FindByID(ctx, id)
	if err != nil {
		us.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", id.String()))
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, errNotFound("user")
	}
	return user, nil
}

func (us *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error) {
	user, err := us.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.UserResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationFromMap(errs)
	}

	user, err := us.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !strings.EqualFold(user.Email, req.Email) {
		existing, err := us.repo.User.FindByEmail(ctx, req.Email)
		if err != nil {
			us.log.Error("Failed to check email", zap.Error(err))
			return nil, fmt.Errorf("check email: %w", err)
		}
		if existing != nil && existing.ID != user.ID {
			return nil, fmt.Errorf("email already registered: %w", ErrConflict)
		}
	}

	user.Name = req.Name
	user.Email = req.Email
	user.UpdatedAt = us.now()

	if err := us.repo.User.Update(ctx, user); err != nil {
		us.log.Error("Failed to update profile", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("update profile: %w", err)
	}

	us.log.Info("Profile updated", zap.String("user_id", userID.String()))
	resp := response.UserToResponse(user)
	return &resp, nil
}

// ChangePassword keeps the caller's own session and revokes the rest.
func (us *userService) ChangePassword(ctx context.Context, session utils.Session, req *request.ChangePasswordRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return validationFromMap(errs)
	}

	user, err := us.findUser(ctx, session.UserID)
	if err != nil {
		return err
	}

	if !utils.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		us.log.Warn("Wrong current password", zap.String("user_id", user.ID.String()))
		return newValidationError(FieldProblem{"current_password", "Current password is incorrect"})
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = hashed
	user.UpdatedAt = us.now()
	if err := us.repo.User.Update(ctx, user); err != nil {
		us.log.Error("Failed to change password", zap.Error(err), zap.String("user_id", user.ID.String()))
		return fmt.Errorf("change password: %w", err)
	}

	if err := us.repo.Session.RevokeOtherSessions(ctx, user.ID, session.Token); err != nil {
		return fmt.Errorf("revoke other sessions: %w", err)
	}

	us.log.Info("Password changed", zap.String("user_id", user.ID.String()))
	return nil
}

func (us *userService) GetAllUsers(ctx context.Context, req request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error) {
	req = req.Normalized(adminUsersPerPage)

	users, err := us.repo.User.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		us.log.Error("Failed to get all users",
			zap.Error(err),
			zap.Int("page", req.Page),
			zap.Int("per_page", req.PerPage),
		)
		return nil, fmt.Errorf("get users: %w", err)
	}

	total, err := us.repo.User.CountAll(ctx)
	if err != nil {
		us.log.Error("Failed to count users", zap.Error(err))
		return nil, fmt.Errorf("count users: %w", err)
	}

	userResponses := make([]response.UserResponse, len(users))
	for i, user := range users {
		userResponses[i] = response.UserToResponse(user)
	}

	us.log.Debug("Users retrieved",
		zap.Int("count", len(users)),
		zap.Int64("total", total),
		zap.Int("page", req.Page),
		zap.Int("total_pages", utils.CalculateTotalPages(total, req.PerPage)),
	)

	return response.NewPaginatedResponse(userResponses, req.Page, req.PerPage, total), nil
}

// UpdateRole changes a user's role and notifies their live sessions. Admins
// cannot change their own role.
func (us *userService) UpdateRole(ctx context.Context, actor utils.Session, userID string, req *request.UpdateRoleRequest) (*response.UserResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationFromMap(errs)
	}

	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, errNotFound("user")
	}
	if id == actor.UserID {
		return nil, fmt.Errorf("cannot change your own role: %w", ErrPermission)
	}

	user, err := us.findUser(ctx, id)
	if err != nil {
		return nil, err
	}

	role := entity.ParseRole(req.Role)
	if user.Role != role {
		user.Role = role
		user.UpdatedAt = us.now()
		if err := us.repo.User.Update(ctx, user); err != nil {
			us.log.Error("Failed to update role", zap.Error(err), zap.String("user_id", userID))
			return nil, fmt.Errorf("update role: %w", err)
		}

		if err := us.roles.Publish(ctx, user.ID, role); err != nil {
			// best effort; auth middleware re-reads the role on every request
			us.log.Warn("Failed to publish role change", zap.Error(err), zap.String("user_id", userID))
		}

		us.log.Info("User role changed",
			zap.String("user_id", userID),
			zap.String("role", string(role)),
			zap.String("by", actor.UserID.String()))
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) DeleteUser(ctx context.Context, actor utils.Session, userID string) error {
	id, err := uuid.Parse(userID)
	if err != nil {
		return errNotFound("user")
	}
	if id == actor.UserID {
		return fmt.Errorf("cannot delete your own account here: %w", ErrPermission)
	}

	if err := us.repo.User.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errNotFound("user")
		}
		us.log.Error("Failed to delete user", zap.Error(err), zap.String("id", userID))
		return fmt.Errorf("delete user: %w", err)
	}

	if err := us.repo.Session.RevokeAllUserSessions(ctx, id); err != nil {
		return fmt.Errorf("revoke sessions of deleted user: %w", err)
	}

	us.log.Info("User deleted", zap.String("user_id", id.String()), zap.String("by", actor.UserID.String()))
	return nil
}
