// internal/service/sender.go
package service

import (
	"context"

	"github.com/rs/zerolog"
)

// Sender delivers one rendered message to one recipient. Implementations
// are expected to respect ctx; the runner bounds every attempt with a
// timeout and treats the resulting error as an ordinary send failure.
type Sender interface {
	Send(ctx context.Context, recipient, message string) error
}

// LogSender stands in for a real email integration: it logs the message
// and reports success.
type LogSender struct {
	Log zerolog.Logger
}

func (s *LogSender) Send(ctx context.Context, recipient, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	preview := message
	if len(preview) > 50 {
		preview = preview[:50]
	}
	s.Log.Info().Str("recipient", recipient).Str("message", preview).Msg("sending email")
	return nil
}

var _ Sender = (*LogSender)(nil)
