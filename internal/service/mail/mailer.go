// Package mail abstracts outbound mail so services can send password reset
// codes without binding to a delivery provider.
package mail

import (
	"context"
	"log/slog"

	"github.com/masteryapp/mastery-api/internal/platform/logger"
)

// Mailer defines the interface for sending transactional mail.
type Mailer interface {
	// Send delivers a plain-text message to the given address.
	Send(ctx context.Context, to, subject, body string) error
}

// LogMailer is a Mailer that writes messages to the structured log instead
// of delivering them. It is the default in development and test
// environments, where no mail provider is configured.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a new LogMailer.
func NewLogMailer(log *slog.Logger) *LogMailer {
	if log == nil {
		log = slog.Default()
	}
	return &LogMailer{
		logger: log.With(slog.String("component", "log_mailer")),
	}
}

// Ensure LogMailer implements Mailer interface
var _ Mailer = (*LogMailer)(nil)

// Send implements Mailer.Send by logging the message. The body is logged at
// debug level only, since reset codes travel through it.
func (m *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	log := logger.FromContextOrDefault(ctx, m.logger)

	log.Info("outbound mail",
		slog.String("to", to),
		slog.String("subject", subject))
	log.Debug("outbound mail body", slog.String("body", body))
	return nil
}
