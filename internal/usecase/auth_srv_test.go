package usecase

import (
	"context"
	"testing"
	"time"

	"billboard-report/internal/data/entity"
	"billboard-report/internal/dto/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterDefaultsToUserRole(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	resp, err := h.svc.Auth.Register(ctx, &request.RegisterRequest{
		Email:    " new@example.com ",
		Password: "secret123",
	}, ClientInfo{UserAgent: "test"})
	require.NoError(t, err)

	assert.Equal(t, entity.RoleUser, resp.Role)
	assert.Equal(t, "new", resp.Name)
	assert.Equal(t, "new@example.com", resp.Email)
	require.NotEmpty(t, resp.Token)

	session, err := h.svc.Auth.Authenticate(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "user", session.Role)
	assert.False(t, session.IsAdmin())
}

func TestRegisterRejectsDuplicatesAndBadInput(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.addUser(t, "taken@example.com", entity.RoleUser)

	_, err := h.svc.Auth.Register(ctx, &request.RegisterRequest{Email: "TAKEN@example.com", Password: "secret123"}, ClientInfo{})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = h.svc.Auth.Register(ctx, &request.RegisterRequest{Email: "nope", Password: "123"}, ClientInfo{})
	require.ErrorIs(t, err, ErrValidation)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields(), "email")
	assert.Contains(t, verr.Fields(), "password")
}

func TestLogin(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	admin := h.addUser(t, "admin@example.com", entity.RoleAdmin)

	resp, err := h.svc.Auth.Login(ctx, &request.LoginRequest{Email: "admin@example.com", Password: "secret123"}, ClientInfo{})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, resp.Role)
	assert.Equal(t, admin.ID.String(), resp.UserID)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), resp.ExpiresAt, time.Minute)

	_, err = h.svc.Auth.Login(ctx, &request.LoginRequest{Email: "admin@example.com", Password: "wrong-pass"}, ClientInfo{})
	assert.ErrorIs(t, err, ErrAuth)

	_, err = h.svc.Auth.Login(ctx, &request.LoginRequest{Email: "ghost@example.com", Password: "secret123"}, ClientInfo{})
	assert.ErrorIs(t, err, ErrAuth)
}

func TestLoginInactiveUser(t *testing.T) {
	h := newHarness(t)
	user := h.addUser(t, "sleepy@example.com", entity.RoleUser)
	user.IsActive = false
	h.db.AddUser(user)

	_, err := h.svc.Auth.Login(context.Background(), &request.LoginRequest{Email: "sleepy@example.com", Password: "secret123"}, ClientInfo{})
	assert.ErrorIs(t, err, ErrPermission)
}

func TestLogoutEndsSession(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.addUser(t, "user@example.com", entity.RoleUser)

	resp, err := h.svc.Auth.Login(ctx, &request.LoginRequest{Email: "user@example.com", Password: "secret123"}, ClientInfo{})
	require.NoError(t, err)

	require.NoError(t, h.svc.Auth.Logout(ctx, resp.Token))

	_, err = h.svc.Auth.Authenticate(ctx, resp.Token)
	assert.ErrorIs(t, err, ErrAuth)

	assert.ErrorIs(t, h.svc.Auth.Logout(ctx, resp.Token), ErrAuth)
}

func TestAuthenticateSeesCurrentRole(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	admin := h.addUser(t, "admin@example.com", entity.RoleAdmin)
	user := h.addUser(t, "user@example.com", entity.RoleUser)

	resp, err := h.svc.Auth.Login(ctx, &request.LoginRequest{Email: "user@example.com", Password: "secret123"}, ClientInfo{})
	require.NoError(t, err)

	_, err = h.svc.User.UpdateRole(ctx, session(admin), user.ID.String(), &request.UpdateRoleRequest{Role: "admin"})
	require.NoError(t, err)

	current, err := h.svc.Auth.Authenticate(ctx, resp.Token)
	require.NoError(t, err)
	assert.True(t, current.IsAdmin())

	info, err := h.svc.Auth.CurrentSession(ctx, current)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, info.Role)
	assert.False(t, info.ExpiresAt.IsZero())
}

func TestWatchRole(t *testing.T) {
	h := newHarness(t)
	admin := h.addUser(t, "admin@example.com", entity.RoleAdmin)
	user := h.addUser(t, "user@example.com", entity.RoleUser)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := h.svc.Auth.WatchRole(ctx, user.ID)
	require.NoError(t, err)

	first := <-events
	assert.Equal(t, entity.RoleUser, first.Role)

	_, err = h.svc.User.UpdateRole(context.Background(), session(admin), user.ID.String(), &request.UpdateRoleRequest{Role: "admin"})
	require.NoError(t, err)

	select {
	case ev := <-events:
		assert.Equal(t, entity.RoleAdmin, ev.Role)
		assert.Equal(t, user.ID.String(), ev.UserID)
	case <-time.After(time.Second):
		t.Fatal("role change not delivered")
	}

	cancel()
	assert.Eventually(t, func() bool {
		_, open := <-events
		return !open
	}, time.Second, 10*time.Millisecond)
}
