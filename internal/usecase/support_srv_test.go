package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"billboard-report/internal/data/repository/repotest"
	"billboard-report/internal/dto/request"
	"billboard-report/pkg/mailer"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type capturingProvider struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (p *capturingProvider) Name() string { return "capture" }

func (p *capturingProvider) Send(_ context.Context, msg mailer.Message) (mailer.SendResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return mailer.SendResult{}, p.err
	}
	p.sent = append(p.sent, msg)
	return mailer.SendResult{ProviderMessageID: "msg-1"}, nil
}

func TestSupportSubmitNotifiesInbox(t *testing.T) {
	db := repotest.NewStore()
	provider := &capturingProvider{}
	config := testConfig()
	svc := NewSupportService(db.Repository().Support, mailer.New(provider, config.Mail.From), config.Mail, zap.NewNop())
	userID := uuid.New()

	resp, err := svc.Submit(context.Background(), userID, &request.CreateSupportRequest{Message: "  Map <b>won't</b> load  "})
	require.NoError(t, err)
	assert.Equal(t, "Map <b>won't</b> load", resp.Message)

	require.Len(t, provider.sent, 1)
	msg := provider.sent[0]
	assert.Equal(t, []string{"support@example.com"}, msg.To)
	assert.Equal(t, config.Mail.From, msg.From)
	assert.Contains(t, msg.Subject, userID.String())
	assert.NotContains(t, msg.HTML, "<b>")

	list, err := svc.List(context.Background(), request.PaginatedRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Data, 1)
	assert.Equal(t, 20, list.Pagination.PerPage)
}

func TestSupportSubmitSurvivesMailFailure(t *testing.T) {
	db := repotest.NewStore()
	provider := &capturingProvider{err: errors.New("smtp down")}
	config := testConfig()
	svc := NewSupportService(db.Repository().Support, mailer.New(provider, config.Mail.From), config.Mail, zap.NewNop())

	_, err := svc.Submit(context.Background(), uuid.New(), &request.CreateSupportRequest{Message: "help"})
	require.NoError(t, err)

	list, err := svc.List(context.Background(), request.PaginatedRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Pagination.Total)
}

func TestSupportSubmitValidation(t *testing.T) {
	db := repotest.NewStore()
	svc := NewSupportService(db.Repository().Support, nil, testConfig().Mail, zap.NewNop())

	_, err := svc.Submit(context.Background(), uuid.New(), &request.CreateSupportRequest{Message: "   "})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, db.Calls())
}
