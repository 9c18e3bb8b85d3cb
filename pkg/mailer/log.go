package mailer

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LogProvider logs emails instead of sending them. It is used when no API key
// is configured.
type LogProvider struct {
	log *zap.Logger
}

func NewLogProvider(log *zap.Logger) *LogProvider {
	return &LogProvider{log: log.With(zap.String("provider", "log"))}
}

func (l *LogProvider) Name() string {
	return "log"
}

func (l *LogProvider) Send(_ context.Context, msg Message) (SendResult, error) {
	id := "log-" + uuid.New().String()
	l.log.Info("Email logged (not sent)",
		zap.String("from", msg.From),
		zap.String("to", strings.Join(msg.To, ", ")),
		zap.String("subject", msg.Subject),
		zap.Int("html_length", len(msg.HTML)),
		zap.String("text", msg.Text),
		zap.String("message_id", id),
	)
	return SendResult{ProviderMessageID: id}, nil
}
