package smtp

import (
	"context"
	"errors"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/kitbuilder587/lead-radar/internal/mail"
)

var ErrMissingHost = errors.New("smtp host is required")

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	Timeout  time.Duration
}

// Client - SMTP через go-mail. Соединение открывается на каждое письмо.
type Client struct {
	cfg    Config
	logger *zap.Logger
}

func New(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.Host == "" {
		return nil, ErrMissingHost
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{cfg: cfg, logger: logger}, nil
}

func (c *Client) Send(ctx context.Context, msg mail.Message) (string, error) {
	if err := msg.Validate(); err != nil {
		return "", err
	}

	m, err := BuildMessage(msg)
	if err != nil {
		return "", err
	}

	client, err := c.newClient()
	if err != nil {
		return "", fmt.Errorf("create mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		c.logger.Warn("smtp send failed", zap.String("to", msg.To.Email), zap.Error(err))
		return "", fmt.Errorf("%w: %v", mail.ErrSendFailed, err)
	}

	return messageID(m), nil
}

func (c *Client) newClient() (*gomail.Client, error) {
	opts := []gomail.Option{
		gomail.WithPort(c.cfg.Port),
		gomail.WithTimeout(c.cfg.Timeout),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if c.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(c.cfg.Username),
			gomail.WithPassword(c.cfg.Password),
		)
	}
	return gomail.NewClient(c.cfg.Host, opts...)
}

// BuildMessage собирает MIME-письмо: HTML основной частью, текст альтернативой
func BuildMessage(msg mail.Message) (*gomail.Msg, error) {
	m := gomail.NewMsg()

	if err := m.FromFormat(msg.From.Name, msg.From.Email); err != nil {
		return nil, fmt.Errorf("%w: from: %v", mail.ErrInvalidMessage, err)
	}
	if err := m.AddToFormat(msg.To.Name, msg.To.Email); err != nil {
		return nil, fmt.Errorf("%w: to: %v", mail.ErrInvalidMessage, err)
	}

	m.Subject(msg.Subject)

	switch {
	case msg.HTML != "" && msg.Text != "":
		m.SetBodyString(gomail.TypeTextPlain, msg.Text)
		m.AddAlternativeString(gomail.TypeTextHTML, msg.HTML)
	case msg.HTML != "":
		m.SetBodyString(gomail.TypeTextHTML, msg.HTML)
	default:
		m.SetBodyString(gomail.TypeTextPlain, msg.Text)
	}

	m.SetGenHeader(gomail.HeaderXMailer, "lead-radar")
	m.SetDate()
	m.SetMessageID()

	return m, nil
}

func messageID(m *gomail.Msg) string {
	if ids := m.GetGenHeader(gomail.HeaderMessageID); len(ids) > 0 {
		return ids[0]
	}
	return ""
}

var _ mail.Sender = (*Client)(nil)
