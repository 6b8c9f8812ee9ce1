//go:build unit

package fake

import (
	"context"
	"sync"

	"biblio-api/internal/usecase/shared"
)

// Mailer records every email instead of sending it. Set Err to make Send fail
// and exercise the best-effort paths.
type Mailer struct {
	mu   sync.Mutex
	Err  error
	sent []shared.Email
}

func NewMailer() *Mailer {
	return &Mailer{}
}

func (m *Mailer) Send(_ context.Context, email shared.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.sent = append(m.sent, email)
	return nil
}

func (m *Mailer) Sent() []shared.Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]shared.Email, len(m.sent))
	copy(out, m.sent)
	return out
}

func (m *Mailer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = nil
}
