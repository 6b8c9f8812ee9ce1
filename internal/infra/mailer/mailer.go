package mailer

import (
	"context"
	"log/slog"

	"biblio-api/internal/usecase/shared"
)

// LogMailer is the simulated email channel: delivery is a structured log
// line, matching the mailbox console of the original system. Swapping in a
// real SMTP sender means replacing this one type.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) shared.Mailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(_ context.Context, email shared.Email) error {
	m.logger.Info("email sent",
		slog.String("to", email.To),
		slog.String("subject", email.Subject),
		slog.String("body", email.Body),
	)
	return nil
}
