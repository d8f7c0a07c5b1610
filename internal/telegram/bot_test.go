package telegram

import (
	"context"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kitbuilder587/lead-radar/internal/domain"
	"github.com/kitbuilder587/lead-radar/internal/metrics"
	"github.com/kitbuilder587/lead-radar/internal/service"
)

// fakeMessenger запоминает всё, что бот отправил
type fakeMessenger struct {
	mu        sync.Mutex
	texts     []string
	documents []tgbotapi.DocumentConfig
}

func (f *fakeMessenger) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch v := c.(type) {
	case tgbotapi.MessageConfig:
		f.texts = append(f.texts, v.Text)
	case tgbotapi.DocumentConfig:
		f.documents = append(f.documents, v)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeMessenger) Texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.texts...)
}

func (f *fakeMessenger) LastText() string {
	texts := f.Texts()
	if len(texts) == 0 {
		return ""
	}
	return texts[len(texts)-1]
}

type MockLeadService struct {
	GenerateFunc func(ctx context.Context, req service.GenerateRequest) (*domain.LeadGenerationResult, error)
	PreviewFunc  func(req service.GenerateRequest) (*service.PreviewResult, error)

	mu          sync.Mutex
	CallCount   int
	LastRequest service.GenerateRequest
}

func (m *MockLeadService) Generate(ctx context.Context, req service.GenerateRequest) (*domain.LeadGenerationResult, error) {
	m.mu.Lock()
	m.CallCount++
	m.LastRequest = req
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	return &domain.LeadGenerationResult{
		ID:          "run-1",
		Leads:       []domain.Lead{{Name: "John Smith", Company: "Acme Inc", Email: "john@acme.com", Score: 95}},
		TotalCount:  1,
		Criteria:    req.Criteria,
		Mode:        req.Mode,
		Outcome:     domain.OutcomeSuccess,
		GeneratedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}, nil
}

func (m *MockLeadService) Preview(req service.GenerateRequest) (*service.PreviewResult, error) {
	m.mu.Lock()
	m.LastRequest = req
	m.mu.Unlock()

	if m.PreviewFunc != nil {
		return m.PreviewFunc(req)
	}
	return &service.PreviewResult{Mode: domain.ModeByType(req.Mode), Text: "[linkedin]\n1. site:linkedin.com/in CTO"}, nil
}

func createTestBot(leadSvc service.LeadService, historySvc service.HistoryService) (*Bot, *fakeMessenger) {
	out := &fakeMessenger{}
	bot := newBot(BotConfig{RequestsPerMinute: 100}, out, leadSvc, historySvc, zap.NewNop(), nil)
	return bot, out
}

func TestBot_HandleUpdateRecordsMetrics(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	out := &fakeMessenger{}
	bot := newBot(BotConfig{}, out, &MockLeadService{}, nil, zap.NewNop(), m)

	bot.handleUpdate(context.Background(), tgbotapi.Update{Message: createTestMessage(1, "/help")})

	if got := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("telegram", "help", "processed")); got != 1 {
		t.Errorf("requests metric = %v", got)
	}
	if len(out.Texts()) != 1 {
		t.Errorf("sent %d messages", len(out.Texts()))
	}
}

func TestBot_HandleUpdateRecoversPanic(t *testing.T) {
	leadSvc := &MockLeadService{
		GenerateFunc: func(ctx context.Context, req service.GenerateRequest) (*domain.LeadGenerationResult, error) {
			panic("boom")
		},
	}
	m := metrics.New(prometheus.NewRegistry())
	bot := newBot(BotConfig{}, &fakeMessenger{}, leadSvc, nil, zap.NewNop(), m)

	bot.handleUpdate(context.Background(), tgbotapi.Update{Message: createTestMessage(1, "city=Pune")})

	if got := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("telegram", "text", "panic")); got != 1 {
		t.Errorf("panic metric = %v", got)
	}
}

func TestBot_DefaultMode(t *testing.T) {
	bot, _ := createTestBot(&MockLeadService{}, nil)
	if bot.defaultMode != domain.ModeStandard {
		t.Errorf("defaultMode = %v", bot.defaultMode)
	}

	bot = newBot(BotConfig{DefaultMode: domain.ModeQuick}, nil, nil, nil, nil, nil)
	if bot.defaultMode != domain.ModeQuick {
		t.Errorf("defaultMode = %v", bot.defaultMode)
	}
}

func TestBot_SendWithoutMessenger(t *testing.T) {
	bot := newBot(BotConfig{}, nil, nil, nil, nil, nil)
	if err := bot.Send(1, "text"); err != nil {
		t.Errorf("Send() error = %v", err)
	}
	if err := bot.SendDocument(1, "a.csv", []byte("x"), ""); err != nil {
		t.Errorf("SendDocument() error = %v", err)
	}
}

func TestBot_RememberLastResult(t *testing.T) {
	bot, _ := createTestBot(nil, nil)

	if bot.lastResult(1) != nil {
		t.Fatal("expected no result")
	}
	res := &domain.LeadGenerationResult{ID: "r", Leads: []domain.Lead{{Name: "Jane Doe", Email: "jane@initech.io"}}, TotalCount: 1}
	bot.remember(1, res)
	got := bot.lastResult(1)
	if got == nil || got.ID != "r" || len(got.Leads) != 1 || got.Leads[0].Email != "jane@initech.io" {
		t.Errorf("lastResult() = %+v", got)
	}
	if bot.lastResult(2) != nil {
		t.Error("results must be per user")
	}
}

func TestBot_LastResultExpires(t *testing.T) {
	bot := newBot(BotConfig{LastResultTTL: 20 * time.Millisecond}, nil, nil, nil, nil, nil)
	defer bot.last.Stop()

	bot.remember(7, &domain.LeadGenerationResult{ID: "old"})
	if bot.lastResult(7) == nil {
		t.Fatal("result must be available right after the run")
	}

	time.Sleep(40 * time.Millisecond)
	if bot.lastResult(7) != nil {
		t.Error("expired result must be forgotten")
	}
}
