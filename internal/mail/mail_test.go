package mail

import (
	"errors"
	"testing"
)

func TestMessage_Validate(t *testing.T) {
	valid := Message{
		From:    Address{Email: "me@corp.io"},
		To:      Address{Email: "lead@acme.com"},
		Subject: "Hi",
		HTML:    "<p>Hi</p>",
	}

	tests := []struct {
		name    string
		mutate  func(m *Message)
		wantErr bool
	}{
		{"valid", func(m *Message) {}, false},
		{"text only", func(m *Message) { m.HTML = ""; m.Text = "hi" }, false},
		{"no sender", func(m *Message) { m.From.Email = "" }, true},
		{"bad recipient", func(m *Message) { m.To.Email = "acme.com" }, true},
		{"blank subject", func(m *Message) { m.Subject = "  " }, true},
		{"no body", func(m *Message) { m.HTML = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := valid
			tt.mutate(&m)
			err := m.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidMessage) {
				t.Errorf("error should wrap ErrInvalidMessage: %v", err)
			}
		})
	}
}
