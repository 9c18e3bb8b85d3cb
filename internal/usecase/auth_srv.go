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

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest, client ClientInfo) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest, client ClientInfo) (*response.AuthResponse, error)
	Logout(ctx context.Context, token string) error
	// Authenticate resolves a bearer token to a session with the user's current role.
	Authenticate(ctx context.Context, token string) (utils.Session, error)
	CurrentSession(ctx context.Context, session utils.Session) (*response.SessionResponse, error)
	// WatchRole emits the current role first, then every change until ctx ends.
	WatchRole(ctx context.Context, userID uuid.UUID) (<-chan response.RoleEvent, error)
}

// ClientInfo is recorded on the session row.
type ClientInfo struct {
	UserAgent string
	IPAddress string
}

type authService struct {
	repo   *repository.Repository
	roles  RoleNotifier
	config *utils.Config
	log    *zap.Logger
	now    func() time.Time
}

func NewAuthService(
	repo *repository.Repository,
	roles RoleNotifier,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		roles:  roles,
		config: config,
		log:    log.With(zap.String("service", "auth")),
		now:    time.Now,
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest, client ClientInfo) (*response.AuthResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Register validation failed", zap.Any("errors", errs))
		return nil, validationFromMap(errs)
	}

	existing, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to check email", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("email already registered: %w", ErrConflict)
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", err)
	}

	name := req.Name
	if name == "" {
		name = strings.SplitN(req.Email, "@", 2)[0]
	}

	now := s.now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Email:        req.Email,
		Name:         name,
		PasswordHash: hashed,
		Role:         entity.RoleUser,
		IsActive:     true,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		s.log.Error("Failed to create user", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("create account: %w", err)
	}

	// auto login; the account exists even if this fails
	session, err := s.createSession(ctx, user.ID, client)
	if err != nil {
		s.log.Warn("Failed to create session after register",
			zap.Error(err), zap.String("user_id", user.ID.String()))
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	resp := response.AuthToResponse(user, session)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest, client ClientInfo) (*response.AuthResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Login validation failed", zap.Any("errors", errs))
		return nil, validationFromMap(errs)
	}

	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to find user by email", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		s.log.Warn("User not found for login", zap.String("email", req.Email))
		return nil, fmt.Errorf("invalid credentials: %w", ErrAuth)
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid password", zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("invalid credentials: %w", ErrAuth)
	}

	if !user.IsActive {
		s.log.Warn("Inactive user tried to login", zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("account is deactivated: %w", ErrPermission)
	}

	session, err := s.createSession(ctx, user.ID, client)
	if err != nil {
		s.log.Error("Failed to create session", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.log.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	resp := response.AuthToResponse(user, session)
	return &resp, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	if err := s.repo.Session.Revoke(ctx, token); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("session already ended: %w", ErrAuth)
		}
		s.log.Error("Failed to revoke session", zap.Error(err))
		return fmt.Errorf("logout: %w", err)
	}

	s.log.Info("User logged out")
	return nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (utils.Session, error) {
	session, err := s.repo.Session.FindValidSession(ctx, token)
	if err != nil {
		return utils.Session{}, fmt.Errorf("find session: %w", err)
	}
	if session == nil {
		return utils.Session{}, fmt.Errorf("invalid or expired session: %w", ErrAuth)
	}

	user, err := s.repo.User.FindByID(ctx, session.UserID)
	if err != nil {
		return utils.Session{}, fmt.Errorf("find session user: %w", err)
	}
	if user == nil || !user.IsActive {
		return utils.Session{}, fmt.Errorf("account unavailable: %w", ErrAuth)
	}

	return utils.Session{
		UserID: user.ID,
		Role:   string(user.Role),
		Token:  token,
	}, nil
}

func (s *authService) CurrentSession(ctx context.Context, current utils.Session) (*response.SessionResponse, error) {
	user, err := s.repo.User.FindByID(ctx, current.UserID)
	if err != nil {
		s.log.Error("Failed to load session user", zap.Error(err), zap.String("user_id", current.UserID.String()))
		return nil, fmt.Errorf("load session user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("session user gone: %w", ErrAuth)
	}

	resp := &response.SessionResponse{
		User: response.UserToResponse(user),
		Role: user.Role,
	}

	session, err := s.repo.Session.FindValidSession(ctx, current.Token)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session != nil {
		resp.ExpiresAt = session.ExpiresAt
	}

	return resp, nil
}

func (s *authService) WatchRole(ctx context.Context, userID uuid.UUID) (<-chan response.RoleEvent, error) {
	changes, cancel, err := s.roles.Subscribe(ctx, userID)
	if err != nil {
		s.log.Error("Failed to subscribe to role changes", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("subscribe role changes: %w", err)
	}

	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil || user == nil {
		cancel()
		if err == nil {
			return nil, fmt.Errorf("user gone: %w", ErrAuth)
		}
		return nil, fmt.Errorf("load user role: %w", err)
	}

	out := make(chan response.RoleEvent, 1)
	out <- response.RoleEvent{UserID: userID.String(), Role: user.Role}

	go func() {
		defer close(out)
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case role, ok := <-changes:
				if !ok {
					return
				}
				select {
				case out <- response.RoleEvent{UserID: userID.String(), Role: role}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

func (s *authService) createSession(ctx context.Context, userID uuid.UUID, client ClientInfo) (*entity.Session, error) {
	now := s.now()
	expiryHours := s.config.Session.ExpiryHours
	if expiryHours <= 0 {
		expiryHours = 24
	}

	session := &entity.Session{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		UserID:    userID,
		Token:     utils.GenerateSessionToken(),
		UserAgent: optional(client.UserAgent),
		IPAddress: optional(client.IPAddress),
		ExpiresAt: now.Add(time.Duration(expiryHours) * time.Hour),
	}

	if err := s.repo.Session.Create(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
