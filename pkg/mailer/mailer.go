package mailer

import (
	"context"
	"errors"
)

type Message struct {
	From    string
	To      []string
	Subject string
	HTML    string
	Text    string
}

type SendResult struct {
	ProviderMessageID string
}

// Provider sends emails through one backend.
type Provider interface {
	Name() string
	Send(ctx context.Context, msg Message) (SendResult, error)
}

var ErrNoRecipients = errors.New("mailer: message has no recipients")

// Mailer fills the default sender and delegates to its provider.
type Mailer struct {
	provider    Provider
	fromAddress string
}

func New(provider Provider, fromAddress string) *Mailer {
	return &Mailer{
		provider:    provider,
		fromAddress: fromAddress,
	}
}

func (m *Mailer) Send(ctx context.Context, msg Message) (SendResult, error) {
	if len(msg.To) == 0 {
		return SendResult{}, ErrNoRecipients
	}
	if msg.From == "" {
		msg.From = m.fromAddress
	}
	return m.provider.Send(ctx, msg)
}

func (m *Mailer) ProviderName() string {
	return m.provider.Name()
}
