// Package mail отправляет письма лидам через транзакционного провайдера или SMTP.
package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrAuthFailed     = errors.New("mail auth failed")
	ErrRateLimit      = errors.New("mail rate limit exceeded")
	ErrInvalidMessage = errors.New("invalid mail message")
	ErrSendFailed     = errors.New("mail send failed")
)

type Address struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type Message struct {
	From    Address
	To      Address
	Subject string
	HTML    string
	Text    string
}

// Sender - один вызов = одно письмо одному получателю. Возвращает id сообщения.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

func (m Message) Validate() error {
	switch {
	case !strings.Contains(m.From.Email, "@"):
		return fmt.Errorf("%w: sender email is required", ErrInvalidMessage)
	case !strings.Contains(m.To.Email, "@"):
		return fmt.Errorf("%w: recipient email is required", ErrInvalidMessage)
	case strings.TrimSpace(m.Subject) == "":
		return fmt.Errorf("%w: subject is required", ErrInvalidMessage)
	case m.HTML == "" && m.Text == "":
		return fmt.Errorf("%w: body is required", ErrInvalidMessage)
	}
	return nil
}
