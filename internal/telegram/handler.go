package telegram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/kitbuilder587/lead-radar/internal/domain"
	"github.com/kitbuilder587/lead-radar/internal/search"
	"github.com/kitbuilder587/lead-radar/internal/service"
)

// лимит длины сообщения телеграма
const maxMessageLen = 4096

type Handler struct {
	bot *Bot
}

func NewHandler(bot *Bot) *Handler {
	return &Handler{bot: bot}
}

func OwnerID(userID int64) string {
	return "tg:" + strconv.FormatInt(userID, 10)
}

func (h *Handler) HandleMessage(ctx context.Context, msg *tgbotapi.Message) {
	h.bot.logger.Info("received message",
		zap.Int64("user_id", msg.From.ID),
		zap.String("username", msg.From.UserName),
		zap.Bool("is_command", msg.IsCommand()),
	)

	if !msg.IsCommand() {
		h.handleLeads(ctx, msg)
		return
	}

	switch msg.Command() {
	case "leads", "quick", "deep":
		h.handleLeads(ctx, msg)
	case "preview":
		h.handlePreview(ctx, msg)
	case "export":
		h.handleExport(ctx, msg)
	case "history":
		h.handleHistory(ctx, msg)
	case "start":
		h.handleStart(ctx, msg)
	case "help":
		h.handleHelp(ctx, msg)
	default:
		h.bot.Send(msg.Chat.ID, "Неизвестная команда. Используйте /help для справки.")
	}
}

func (h *Handler) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	h.bot.Send(msg.Chat.ID, "Привет! Я ищу потенциальных клиентов в открытых источниках: LinkedIn, Reddit, Twitter и любых сайтах.\n\n"+
		"Опишите, кого ищете, например:\n<code>industry=Technology city=Pune title=CTO</code>\n\n"+
		"Используйте /help для просмотра доступных команд.")
}

func (h *Handler) handleHelp(ctx context.Context, msg *tgbotapi.Message) {
	helpText := `<b>Доступные команды:</b>

/leads критерии - Поиск лидов
/quick критерии - Быстрый поиск (1 запрос, 1 страница)
/deep критерии - Глубокий поиск (до 5 страниц, разбор сайтов и AI-дополнение)
/preview критерии - Показать поисковые запросы без поиска
/export csv|xlsx [id] - Выгрузить последний или указанный поиск
/history - Последние поиски
/help - Показать эту справку

<b>Критерии:</b>
• industry=Fintech,SaaS - отрасли
• city=Pune, state=..., country=India или location="Austin, Texas, USA"
• title="Head of Sales" - должность
• size=51-200 - размер компании
• platforms=linkedin,reddit,example.com - где искать
• pages=1..5 - страниц на запрос
• time=day|week|month|year - свежесть
• email=yes, phone=yes - только с контактами
• tags=..., field=..., kw=... - дополнительные слова

Слова без ключа считаются ключевыми словами. Обычный текст без команды работает как /leads.

<b>Пример:</b>
/deep industry=Technology city=Pune platforms=linkedin email=yes`

	h.bot.Send(msg.Chat.ID, helpText)
}

func (h *Handler) handleLeads(ctx context.Context, msg *tgbotapi.Message) {
	args, mode := ParseModeCommand(msg.Text, h.bot.defaultMode)
	if args == "" {
		h.bot.Send(msg.Chat.ID, "Укажите критерии поиска, например: /leads industry=Fintech city=Berlin")
		return
	}

	criteria, err := ParseCriteria(args)
	if err != nil {
		h.bot.Send(msg.Chat.ID, mapErrorToMessage(err))
		return
	}

	owner := OwnerID(msg.From.ID)
	if !h.bot.rateLimiter.Allow(owner) {
		resetTime := h.bot.rateLimiter.ResetTime(owner)
		h.bot.logger.Warn("rate limit exceeded",
			zap.Int64("user_id", msg.From.ID),
			zap.Time("reset_at", resetTime),
		)
		h.bot.RecordRateLimitHit()
		h.bot.Send(msg.Chat.ID, "Слишком много запросов. Пожалуйста, подождите минуту.")
		return
	}

	h.bot.SendTyping(msg.Chat.ID)
	h.bot.Send(msg.Chat.ID, "Ищу лидов, это может занять пару минут...")

	h.bot.logger.Info("processing lead search",
		zap.Int64("user_id", msg.From.ID),
		zap.String("mode", string(mode)),
	)

	res, err := h.bot.leadService.Generate(ctx, service.GenerateRequest{
		OwnerID:  owner,
		Criteria: criteria,
		Mode:     mode,
	})
	if err != nil {
		h.bot.logger.Error("lead generation failed",
			zap.Error(err),
			zap.Int64("user_id", msg.From.ID),
		)
		h.bot.Send(msg.Chat.ID, mapErrorToMessage(err))
		return
	}

	h.bot.remember(msg.From.ID, res)
	h.sendLong(msg.Chat.ID, FormatLeadResult(res, MaxLeadsInMessage))
}

func (h *Handler) handlePreview(ctx context.Context, msg *tgbotapi.Message) {
	args, mode := ParseModeCommand(msg.Text, h.bot.defaultMode)

	criteria, err := ParseCriteria(args)
	if err != nil {
		h.bot.Send(msg.Chat.ID, mapErrorToMessage(err))
		return
	}

	p, err := h.bot.leadService.Preview(service.GenerateRequest{Criteria: criteria, Mode: mode})
	if err != nil {
		h.bot.Send(msg.Chat.ID, mapErrorToMessage(err))
		return
	}

	h.sendLong(msg.Chat.ID, FormatPreview(p))
}

func (h *Handler) handleExport(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.Fields(msg.CommandArguments())

	var formatArg, runID string
	if len(args) > 0 {
		formatArg = args[0]
	}
	if len(args) > 1 {
		runID = args[1]
	}

	format, err := service.ParseExportFormat(formatArg)
	if err != nil {
		h.bot.Send(msg.Chat.ID, mapErrorToMessage(err))
		return
	}

	res, err := h.resultForExport(ctx, msg.From.ID, runID)
	if err != nil {
		h.bot.Send(msg.Chat.ID, mapErrorToMessage(err))
		return
	}
	if len(res.Leads) == 0 {
		h.bot.Send(msg.Chat.ID, mapErrorToMessage(domain.ErrNoLeads))
		return
	}

	var buf bytes.Buffer
	if err := service.Export(&buf, format, res.Leads); err != nil {
		if format != service.FormatXLSX {
			h.bot.logger.Error("export failed", zap.Error(err))
			h.bot.Send(msg.Chat.ID, mapErrorToMessage(err))
			return
		}
		// без лицензии unioffice xlsx не пишется, отдаём csv
		h.bot.logger.Warn("xlsx export failed, falling back to csv", zap.Error(err))
		format = service.FormatCSV
		buf.Reset()
		buf.WriteString(service.ExportCSV(res.Leads))
	}

	caption := fmt.Sprintf("Лидов: %d", len(res.Leads))
	if err := h.bot.SendDocument(msg.Chat.ID, format.FileName(res), buf.Bytes(), caption); err != nil {
		h.bot.logger.Error("failed to send document", zap.Error(err))
		h.bot.Send(msg.Chat.ID, "Не удалось отправить файл. Попробуйте позже.")
	}
}

func (h *Handler) resultForExport(ctx context.Context, userID int64, runID string) (*domain.LeadGenerationResult, error) {
	owner := OwnerID(userID)

	if runID == "" {
		if res := h.bot.lastResult(userID); res != nil {
			return res, nil
		}
		if h.bot.historyService == nil {
			return nil, domain.ErrRunNotFound
		}
		runs, err := h.bot.historyService.Recent(ctx, owner, 1)
		if err != nil {
			return nil, err
		}
		if len(runs) == 0 {
			return nil, domain.ErrRunNotFound
		}
		runID = runs[0].ID
	}

	if h.bot.historyService == nil {
		return nil, domain.ErrRunNotFound
	}
	run, err := h.bot.historyService.Get(ctx, owner, runID)
	if err != nil {
		return nil, err
	}
	return run.Result(), nil
}

func (h *Handler) handleHistory(ctx context.Context, msg *tgbotapi.Message) {
	if h.bot.historyService == nil {
		h.bot.Send(msg.Chat.ID, "История недоступна.")
		return
	}

	runs, err := h.bot.historyService.Recent(ctx, OwnerID(msg.From.ID), 10)
	if err != nil {
		h.bot.logger.Error("failed to list runs", zap.Error(err))
		h.bot.Send(msg.Chat.ID, mapErrorToMessage(err))
		return
	}

	h.sendLong(msg.Chat.ID, FormatHistory(runs))
}

func (h *Handler) sendLong(chatID int64, text string) {
	for _, m := range SplitMessage(text, maxMessageLen) {
		if err := h.bot.Send(chatID, m); err != nil {
			h.bot.logger.Error("failed to send message", zap.Error(err))
		}
	}
}

func mapErrorToMessage(err error) string {
	switch {
	case errors.Is(err, ErrUnknownKey):
		return "Неизвестный параметр. Список параметров: /help"
	case errors.Is(err, ErrBadValue):
		return "Некорректное значение параметра. Примеры: /help"
	case errors.Is(err, ErrUnclosedQuote):
		return "Не закрыта кавычка в критериях."
	case errors.Is(err, domain.ErrEmptyCriteria):
		return "Пустые критерии. Укажите отрасль, город, должность или ключевые слова."
	case errors.Is(err, domain.ErrInvalidMaxPages):
		return "Число страниц должно быть от 1 до 5."
	case errors.Is(err, domain.ErrInvalidTimeRange):
		return "Некорректный период. Используйте: day, week, month, year."
	case errors.Is(err, domain.ErrInvalidPlatform):
		return "Некорректная платформа. Используйте linkedin, reddit, twitter или домен сайта."
	case errors.Is(err, domain.ErrTooManyPlatforms):
		return "Слишком много платформ (максимум 10)."
	case errors.Is(err, domain.ErrInvalidModeType):
		return "Неизвестный режим поиска."
	case errors.Is(err, domain.ErrRunNotFound):
		return "Поиск не найден. Сначала выполните /leads."
	case errors.Is(err, domain.ErrNoLeads):
		return "В этом поиске нет лидов для выгрузки."
	case errors.Is(err, service.ErrUnknownFormat):
		return "Неизвестный формат. Используйте: /export csv или /export xlsx"
	case errors.Is(err, search.ErrMissingCredentials):
		return "Поиск не настроен. Обратитесь к администратору."
	case errors.Is(err, context.DeadlineExceeded):
		return "Поиск занял слишком много времени. Попробуйте /quick или сузьте критерии."
	default:
		return "Произошла ошибка. Попробуйте позже."
	}
}
