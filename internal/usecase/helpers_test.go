package usecase

import (
	"bytes"
	"testing"
	"time"

	"billboard-report/internal/data/entity"
	"billboard-report/internal/data/repository/repotest"
	"billboard-report/internal/dto/request"
	"billboard-report/pkg/mailer"
	"billboard-report/pkg/storage"
	"billboard-report/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type harness struct {
	db      *repotest.Store
	objects *repotest.ObjectStore
	svc     *Service
	config  *utils.Config
}

func testConfig() *utils.Config {
	return &utils.Config{
		Storage: utils.StorageConfig{MaxImageBytes: 1 << 20},
		Session: utils.SessionConfig{ExpiryHours: 24},
		Mail:    utils.MailConfig{From: "noreply@example.com", SupportInbox: "support@example.com"},
		Map: utils.MapConfig{
			TileURL:   "https://tiles.example/{z}/{x}/{y}.png",
			CenterLat: 40.7128,
			CenterLng: -74.006,
			Zoom:      4,
		},
	}
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := repotest.NewStore()
	objects := repotest.NewObjectStore()
	config := testConfig()
	log := zap.NewNop()

	svc := NewService(db.Repository(), Dependencies{
		Store:  objects,
		Signer: storage.NewURLSigner("test-secret", "http://localhost:8080", time.Hour),
		Mailer: mailer.New(mailer.NewLogProvider(log), config.Mail.From),
	}, config, log)

	return &harness{db: db, objects: objects, svc: svc, config: config}
}

func (h *harness) addUser(t *testing.T, email string, role entity.UserRole) *entity.User {
	t.Helper()
	hash, err := utils.HashPassword("secret123")
	require.NoError(t, err)
	now := time.Now()
	user := &entity.User{
		Base:         entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Email:        email,
		Name:         email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	h.db.AddUser(user)
	return user
}

func (h *harness) addReport(userID uuid.UUID, flag entity.Flag, description string, createdAt time.Time) *entity.Report {
	report := &entity.Report{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: createdAt, UpdatedAt: createdAt},
		UserID:       userID,
		Title:        "Billboard",
		Description:  description,
		Flag:         flag,
		ImageKeys:    []string{"billboards/seed.jpg"},
		Latitude:     40.7,
		Longitude:    -74,
		Status:       entity.StatusPending,
	}
	h.db.AddReport(report)
	return report
}

func session(user *entity.User) utils.Session {
	return utils.Session{UserID: user.ID, Role: string(user.Role), Token: uuid.NewString()}
}

func floatPtr(v float64) *float64 {
	return &v
}

func images(n int) []request.ImageUpload {
	out := make([]request.ImageUpload, n)
	for i := range out {
		out[i] = request.ImageUpload{
			Filename: "photo.png",
			Size:     int64(len(pngHeader)),
			Content:  bytes.NewReader(pngHeader),
		}
	}
	return out
}

func validDraft(imageCount int) *request.SubmitReportRequest {
	return &request.SubmitReportRequest{
		Title:       "Main St billboard",
		Description: "Torn vinyl on the lower left",
		Flag:        "red",
		Latitude:    floatPtr(40.7128),
		Longitude:   floatPtr(-74.006),
		Images:      images(imageCount),
	}
}
