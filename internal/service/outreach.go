package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"

	"github.com/kitbuilder587/lead-radar/internal/domain"
	"github.com/kitbuilder587/lead-radar/internal/mail"
	"github.com/kitbuilder587/lead-radar/internal/metrics"
	"github.com/kitbuilder587/lead-radar/internal/ratelimit"
)

var ErrMailNotConfigured = errors.New("mail provider is not configured")

// MaxOutreachRecipients - потолок адресатов за одну рассылку
const MaxOutreachRecipients = 100

type OutreachRequest struct {
	From     mail.Address
	Subject  string
	Template string // markdown с {{плейсхолдерами}}
	Leads    []domain.Lead
	// дополнительные плейсхолдеры, общие для всех писем
	Vars map[string]string
}

type RecipientResult struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
	Skipped   bool   `json:"skipped,omitempty"`
}

type OutreachResult struct {
	Sent    int               `json:"sent"`
	Failed  int               `json:"failed"`
	Skipped int               `json:"skipped"`
	Results []RecipientResult `json:"results"`
}

type OutreachService interface {
	Send(ctx context.Context, req OutreachRequest) (*OutreachResult, error)
}

type OutreachDeps struct {
	Sender      mail.Sender
	Provider    string
	Pacer       *ratelimit.Pacer
	DefaultFrom mail.Address
	Logger      *zap.Logger
	Metrics     *metrics.Metrics
}

type outreachService struct {
	sender      mail.Sender
	provider    string
	pacer       *ratelimit.Pacer
	defaultFrom mail.Address
	md          goldmark.Markdown
	logger      *zap.Logger
	metrics     *metrics.Metrics
}

func NewOutreachService(deps OutreachDeps) OutreachService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Provider == "" {
		deps.Provider = "mail"
	}

	// переносы строк шаблона остаются переносами в письме
	md := goldmark.New(goldmark.WithRendererOptions(html.WithHardWraps()))

	return &outreachService{
		sender:      deps.Sender,
		provider:    deps.Provider,
		pacer:       deps.Pacer,
		defaultFrom: deps.DefaultFrom,
		md:          md,
		logger:      deps.Logger,
		metrics:     deps.Metrics,
	}
}

// Send рассылает письма по одному, с паузой между отправками.
// Ошибка одного адресата не останавливает рассылку, кроме ошибки авторизации.
func (s *outreachService) Send(ctx context.Context, req OutreachRequest) (*OutreachResult, error) {
	if s.sender == nil {
		return nil, ErrMailNotConfigured
	}
	if strings.TrimSpace(req.Template) == "" {
		return nil, domain.ErrEmptyTemplate
	}
	if req.From.Email == "" {
		req.From = s.defaultFrom
	}

	res := &OutreachResult{Results: make([]RecipientResult, 0, len(req.Leads))}
	var targets []domain.Lead
	for _, l := range req.Leads {
		if !l.HasRealEmail() {
			res.Skipped++
			res.Results = append(res.Results, RecipientResult{Name: l.Name, Email: l.Email, Skipped: true})
			continue
		}
		targets = append(targets, l)
	}
	if len(targets) == 0 {
		return res, domain.ErrNoRecipients
	}
	if len(targets) > MaxOutreachRecipients {
		return nil, fmt.Errorf("%w: %d recipients, max %d", mail.ErrInvalidMessage, len(targets), MaxOutreachRecipients)
	}

	for _, l := range targets {
		if err := s.pacer.Wait(ctx); err != nil {
			return res, err
		}

		rr := RecipientResult{Name: l.Name, Email: l.Email}
		msg, err := s.buildMessage(req, l)
		if err == nil {
			rr.MessageID, err = s.sender.Send(ctx, msg)
		}

		if err != nil {
			rr.Error = err.Error()
			res.Failed++
			res.Results = append(res.Results, rr)
			s.record("error")
			s.logger.Warn("outreach send failed",
				zap.String("email", l.Email),
				zap.Error(err),
			)
			if errors.Is(err, mail.ErrAuthFailed) || ctx.Err() != nil {
				return res, err
			}
			continue
		}

		res.Sent++
		res.Results = append(res.Results, rr)
		s.record("success")
	}

	s.logger.Info("outreach finished",
		zap.Int("sent", res.Sent),
		zap.Int("failed", res.Failed),
		zap.Int("skipped", res.Skipped),
	)
	return res, nil
}

func (s *outreachService) buildMessage(req OutreachRequest, l domain.Lead) (mail.Message, error) {
	text := RenderTemplate(req.Template, l, req.Vars)

	var buf bytes.Buffer
	if err := s.md.Convert([]byte(text), &buf); err != nil {
		return mail.Message{}, fmt.Errorf("render markdown: %w", err)
	}

	return mail.Message{
		From:    req.From,
		To:      mail.Address{Name: l.Name, Email: l.Email},
		Subject: RenderTemplate(req.Subject, l, req.Vars),
		HTML:    buf.String(),
		Text:    text,
	}, nil
}

func (s *outreachService) record(status string) {
	if s.metrics != nil {
		s.metrics.RecordMail(s.provider, status)
	}
}

// RenderTemplate подставляет поля лида в {{name}}, {{firstName}}, {{company}} и т.д.
// Неизвестные плейсхолдеры остаются как есть.
func RenderTemplate(tpl string, l domain.Lead, vars map[string]string) string {
	pairs := []string{
		"{{name}}", l.Name,
		"{{firstName}}", firstName(l.Name),
		"{{company}}", l.Company,
		"{{jobTitle}}", l.JobTitle,
		"{{location}}", l.Location,
		"{{industry}}", l.Industry,
		"{{email}}", l.Email,
	}
	for k, v := range vars {
		pairs = append(pairs, "{{"+k+"}}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tpl)
}

func firstName(name string) string {
	if f := strings.Fields(name); len(f) > 0 {
		return f[0]
	}
	return ""
}
