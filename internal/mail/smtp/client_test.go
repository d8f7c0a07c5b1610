package smtp

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kitbuilder587/lead-radar/internal/mail"
)

func TestNew_RequiresHost(t *testing.T) {
	if _, err := New(Config{}, zap.NewNop()); !errors.Is(err, ErrMissingHost) {
		t.Errorf("New() error = %v, want ErrMissingHost", err)
	}
}

func TestBuildMessage(t *testing.T) {
	m, err := BuildMessage(mail.Message{
		From:    mail.Address{Name: "Radar", Email: "me@corp.io"},
		To:      mail.Address{Name: "John Smith", Email: "john@acme.com"},
		Subject: "Hello John",
		HTML:    "<p>Hi John</p>",
		Text:    "Hi John",
	})
	if err != nil {
		t.Fatalf("BuildMessage() error = %v", err)
	}

	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}
	raw := buf.String()

	for _, want := range []string{"john@acme.com", "me@corp.io", "Subject: Hello John", "text/html", "text/plain", "Message-ID"} {
		if !strings.Contains(raw, want) {
			t.Errorf("message missing %q", want)
		}
	}
	if messageID(m) == "" {
		t.Error("message id not set")
	}
}

func TestBuildMessage_BadAddress(t *testing.T) {
	_, err := BuildMessage(mail.Message{
		From: mail.Address{Email: "not an address"},
		To:   mail.Address{Email: "john@acme.com"},
	})
	if !errors.Is(err, mail.ErrInvalidMessage) {
		t.Errorf("BuildMessage() error = %v, want ErrInvalidMessage", err)
	}
}

func TestSend_ValidatesFirst(t *testing.T) {
	c, err := New(Config{Host: "127.0.0.1", Port: 1}, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Send(context.Background(), mail.Message{}); !errors.Is(err, mail.ErrInvalidMessage) {
		t.Errorf("Send() error = %v, want ErrInvalidMessage", err)
	}
}
