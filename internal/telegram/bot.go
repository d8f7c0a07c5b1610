package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/kitbuilder587/lead-radar/internal/cache/memory"
	"github.com/kitbuilder587/lead-radar/internal/domain"
	"github.com/kitbuilder587/lead-radar/internal/metrics"
	"github.com/kitbuilder587/lead-radar/internal/ratelimit"
	"github.com/kitbuilder587/lead-radar/internal/service"
)

type BotConfig struct {
	Token             string
	Debug             bool
	RequestsPerMinute int
	DefaultMode       domain.ModeType
	// сколько /export без id помнит последний прогон
	LastResultTTL time.Duration
}

const defaultLastResultTTL = time.Hour

// messenger - то, что нужно боту от tgbotapi.BotAPI для отправки
type messenger interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Bot struct {
	api            *tgbotapi.BotAPI
	out            messenger
	leadService    service.LeadService
	historyService service.HistoryService
	logger         *zap.Logger
	metrics        *metrics.Metrics
	handler        *Handler
	rateLimiter    *ratelimit.Limiter
	defaultMode    domain.ModeType

	// последний результат пользователя для /export без id
	last    *memory.Cache
	lastTTL time.Duration

	wg sync.WaitGroup
}

func New(cfg BotConfig, leadSvc service.LeadService, historySvc service.HistoryService, logger *zap.Logger, m *metrics.Metrics) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	api.Debug = cfg.Debug

	bot := newBot(cfg, api, leadSvc, historySvc, logger, m)
	bot.api = api

	logger.Info("telegram bot authorized",
		zap.String("username", api.Self.UserName),
	)

	return bot, nil
}

func newBot(cfg BotConfig, out messenger, leadSvc service.LeadService, historySvc service.HistoryService, logger *zap.Logger, m *metrics.Metrics) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.DefaultMode.IsValid() {
		cfg.DefaultMode = domain.ModeStandard
	}
	if cfg.LastResultTTL <= 0 {
		cfg.LastResultTTL = defaultLastResultTTL
	}

	bot := &Bot{
		out:            out,
		leadService:    leadSvc,
		historyService: historySvc,
		logger:         logger,
		metrics:        m,
		rateLimiter:    ratelimit.New(ratelimit.Config{RequestsPerMinute: cfg.RequestsPerMinute}),
		defaultMode:    cfg.DefaultMode,
		last:           memory.New(),
		lastTTL:        cfg.LastResultTTL,
	}
	bot.handler = NewHandler(bot)
	return bot
}

func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	b.logger.Info("bot started, waiting for updates")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("bot stopping, waiting for handlers to finish")
			b.api.StopReceivingUpdates()
			b.wg.Wait()
			b.rateLimiter.Stop()
			b.last.Stop()
			b.logger.Info("all handlers finished")
			return ctx.Err()
		case update := <-updates:
			if update.Message == nil {
				continue
			}
			b.wg.Add(1)
			go func(upd tgbotapi.Update) {
				defer b.wg.Done()
				b.handleUpdate(ctx, upd)
			}(update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	startTime := time.Now()
	command := commandName(update.Message)

	defer func() {
		if r := recover(); r != nil {
			chatID := int64(0)
			if update.Message != nil && update.Message.Chat != nil {
				chatID = update.Message.Chat.ID
			}
			b.logger.Error("panic in update handler",
				zap.Any("panic", r),
				zap.Int64("chat_id", chatID),
			)
			if b.metrics != nil {
				b.metrics.RecordRequest("telegram", command, "panic", time.Since(startTime))
			}
		}
	}()

	if b.metrics != nil {
		b.metrics.IncRequestsInFlight()
		defer b.metrics.DecRequestsInFlight()
	}

	b.handler.HandleMessage(ctx, update.Message)

	if b.metrics != nil {
		b.metrics.RecordRequest("telegram", command, "processed", time.Since(startTime))
	}
}

func commandName(msg *tgbotapi.Message) string {
	if msg == nil || !msg.IsCommand() {
		return "text"
	}
	return msg.Command()
}

func (b *Bot) Send(chatID int64, text string) error {
	if b.out == nil {
		return nil
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "HTML"
	msg.DisableWebPagePreview = true
	_, err := b.out.Send(msg)
	return err
}

func (b *Bot) SendDocument(chatID int64, name string, data []byte, caption string) error {
	if b.out == nil {
		return nil
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	doc.Caption = caption
	_, err := b.out.Send(doc)
	return err
}

func (b *Bot) SendTyping(chatID int64) {
	if b.out == nil {
		return
	}
	action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
	b.out.Send(action)
}

func (b *Bot) RecordRateLimitHit() {
	if b.metrics != nil {
		b.metrics.RecordRateLimitHit("telegram")
	}
}

func lastResultKey(userID int64) string {
	return "last:" + strconv.FormatInt(userID, 10)
}

func (b *Bot) remember(userID int64, res *domain.LeadGenerationResult) {
	data, err := json.Marshal(res)
	if err != nil {
		b.logger.Warn("failed to remember last result", zap.Int64("user_id", userID), zap.Error(err))
		return
	}
	b.last.Set(context.Background(), lastResultKey(userID), data, b.lastTTL)
}

// lastResult - nil, если прогона не было или он старше lastTTL
func (b *Bot) lastResult(userID int64) *domain.LeadGenerationResult {
	data, ok, _ := b.last.Get(context.Background(), lastResultKey(userID))
	if !ok {
		return nil
	}
	var res domain.LeadGenerationResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil
	}
	return &res
}
