package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/kitbuilder587/lead-radar/internal/mail"
)

type Sender struct {
	mu      sync.Mutex
	sent    []mail.Message
	errs    map[string]error
	err     error
	counter int
}

func New() *Sender {
	return &Sender{errs: make(map[string]error)}
}

func (s *Sender) WithError(err error) *Sender {
	s.err = err
	return s
}

// WithRecipientError - ошибка только для одного адреса
func (s *Sender) WithRecipientError(email string, err error) *Sender {
	s.errs[email] = err
	return s
}

func (s *Sender) Send(ctx context.Context, msg mail.Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := msg.Validate(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err, ok := s.errs[msg.To.Email]; ok {
		return "", err
	}
	if s.err != nil {
		return "", s.err
	}

	s.counter++
	s.sent = append(s.sent, msg)
	return fmt.Sprintf("mock-%d", s.counter), nil
}

func (s *Sender) Sent() []mail.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]mail.Message(nil), s.sent...)
}

var _ mail.Sender = (*Sender)(nil)
