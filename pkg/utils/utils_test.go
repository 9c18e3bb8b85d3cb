package utils

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFrom(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "BASE_URL=http://reports.test/\n" +
		"DOCUMENT_STORE=MONGO\n" +
		"CORS_ALLOW_ORIGINS=http://a.test,http://b.test\n" +
		"REPORT_SUBMIT_WINDOW=1h\n" +
		"MAP_ZOOM=3\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("MAP_ZOOM", "7")

	config, err := LoadConfigFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "http://reports.test", config.App.BaseURL)
	assert.Equal(t, DocumentStoreMongo, config.App.DocumentStore)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, config.App.AllowOrigins)
	assert.Equal(t, time.Hour, config.Redis.SubmitWindow)
	assert.Equal(t, 7, config.Map.Zoom)
	assert.Equal(t, 24, config.Session.ExpiryHours)
	assert.Equal(t, int64(10*1024*1024), config.Storage.MaxImageBytes)
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	config, err := LoadConfigFrom(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)

	assert.Equal(t, "billboard-report", config.App.Name)
	assert.Equal(t, "billboard:role", config.Redis.RoleEventPrefix)
	assert.Equal(t, time.Hour, config.Storage.URLTTL)
}

func TestLoadConfigUnknownDocumentStore(t *testing.T) {
	t.Setenv("DOCUMENT_STORE", "cassandra")

	config, err := LoadConfigFrom("")
	require.NoError(t, err)
	assert.Equal(t, DocumentStorePostgres, config.App.DocumentStore)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b "))
	assert.Nil(t, splitList(""))
}

func TestValidateStruct(t *testing.T) {
	type signup struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
		Role     string `json:"role" validate:"omitempty,oneof=user admin"`
	}

	errs := ValidateStruct(signup{Email: "bad", Password: "123", Role: "root"})
	assert.Equal(t, map[string]string{
		"email":    "Invalid email format",
		"password": "Minimum length is 6",
		"role":     "Must be one of: user, admin",
	}, errs)

	assert.Nil(t, ValidateStruct(signup{Email: "a@b.co", Password: "secret1"}))
	assert.Equal(t, "email: Invalid email format; password: Minimum length is 6",
		FormatValidationErrors(map[string]string{"password": "Minimum length is 6", "email": "Invalid email format"}))
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("secret123", hash))
	assert.False(t, CheckPasswordHash("secret124", hash))
}

func TestPaginationHelpers(t *testing.T) {
	assert.Equal(t, 0, CalculateTotalPages(0, 10))
	assert.Equal(t, 3, CalculateTotalPages(21, 10))
	assert.Equal(t, 20, CalculateOffset(3, 10))
	assert.Equal(t, 0, CalculateOffset(0, 10))
	assert.Equal(t, math.MaxInt, CalculateOffset(math.MaxInt, 10))
	assert.Equal(t, math.MaxInt/10, MaxPage(10))
	assert.Equal(t, math.MaxInt, MaxPage(1))
	assert.GreaterOrEqual(t, CalculateOffset(MaxPage(10), 10), 0)
	assert.Equal(t, math.MaxInt, ParseInt("9223372036854775807", 1))
	assert.Equal(t, 5, ParseInt("", 5))
	assert.Equal(t, 5, ParseInt("-2", 5))
	assert.Equal(t, 5, ParseInt("x", 5))
	assert.Equal(t, 8, ParseInt("8", 5))
}

func TestRandomBase36(t *testing.T) {
	s, err := RandomBase36(13)
	require.NoError(t, err)
	assert.Regexp(t, `^[0-9a-z]{13}$`, s)
}

func TestSessionContext(t *testing.T) {
	_, ok := SessionFromContext(context.Background())
	assert.False(t, ok)

	session := Session{UserID: uuid.New(), Role: "admin", Token: "tok"}
	ctx := WithSession(context.Background(), session)

	got, ok := SessionFromContext(ctx)
	require.True(t, ok)
	assert.True(t, got.IsAdmin())

	userID, ok := GetUserIDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, session.UserID, userID)

	_, ok = GetUserIDFromContext(WithSession(context.Background(), Session{Role: "user"}))
	assert.False(t, ok)
}
