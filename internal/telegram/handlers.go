package telegram

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"assetlogBot/internal/finance"
	"assetlogBot/internal/storage"
)

const (
	defaultStatsDays = 7
	maxStatsDays     = 90
)

// Sender delivers outbound messages. *tgbotapi.BotAPI satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// UsageStore is the optional command-usage log.
type UsageStore interface {
	RecordUsage(r storage.UsageRecord) error
	UsageSince(since int64) (map[string]*storage.UsageStats, error)
}

type Handlers struct {
	api   Sender
	calc  *finance.Calculator
	usage UsageStore // nil when the usage log is disabled
	stats *finance.UsageAnalytics
	log   *slog.Logger
	now   func() time.Time
}

func NewHandlers(api Sender, calc *finance.Calculator, usage UsageStore, log *slog.Logger) *Handlers {
	return &Handlers{
		api:   api,
		calc:  calc,
		usage: usage,
		stats: finance.NewUsageAnalytics(),
		log:   log,
		now:   time.Now,
	}
}

// HandleMessage runs one invocation. Plain text and unknown commands are ignored.
func (h *Handlers) HandleMessage(ctx context.Context, m *tgbotapi.Message) {
	if m == nil || m.Chat == nil || !m.IsCommand() {
		return
	}
	cmd := strings.ToLower(m.Command())
	log := h.log.With("invocation", uuid.NewString(), "chat_id", m.Chat.ID, "command", cmd)

	var outcome string
	switch cmd {
	case "start", "help":
		h.reply(log, m.Chat.ID, finance.GreetingReply)
		outcome = finance.OutcomeOK

	case "add":
		args := strings.Fields(m.CommandArguments())
		text, err := h.calc.AddReply(ctx, args)
		outcome = finance.OutcomeOf(err)
		if err != nil {
			log.Warn("telegram: /add failed", "outcome", outcome, "error", err)
		} else {
			log.Info("telegram: /add ok")
		}
		h.reply(log, m.Chat.ID, text)

	case "stats":
		h.handleStats(log, m.Chat.ID, m.CommandArguments())
		outcome = finance.OutcomeOK

	default:
		return
	}

	h.record(log, m, cmd, outcome)
}

func (h *Handlers) handleStats(log *slog.Logger, chatID int64, argText string) {
	if h.usage == nil {
		h.reply(log, chatID, "Usage stats are disabled.")
		return
	}

	days := defaultStatsDays
	if f := strings.Fields(argText); len(f) > 0 {
		if n, err := strconv.Atoi(f[0]); err == nil {
			days = n
		}
	}
	if days < 1 {
		days = 1
	}
	if days > maxStatsDays {
		days = maxStatsDays
	}

	since := h.now().Add(-time.Duration(days) * 24 * time.Hour).Unix()
	stats, err := h.usage.UsageSince(since)
	if err != nil {
		log.Error("telegram: usage query failed", "error", err)
		h.reply(log, chatID, "Stats failed: "+err.Error())
		return
	}
	h.reply(log, chatID, h.stats.FormatUsageStatsText(stats, days))
	if len(stats) == 0 {
		return
	}

	img, err := h.stats.MakeUsageChart(stats, days)
	if err != nil {
		log.Warn("telegram: usage chart failed", "error", err)
		return
	}
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "usage_" + strconv.Itoa(days) + "d.png", Bytes: img})
	photo.Caption = "Command usage • " + strconv.Itoa(days) + "d"
	if _, err := h.api.Send(photo); err != nil {
		log.Error("telegram: send photo failed", "error", err)
	}
}

func (h *Handlers) record(log *slog.Logger, m *tgbotapi.Message, cmd, outcome string) {
	if h.usage == nil {
		return
	}
	var userID int64
	if m.From != nil {
		userID = m.From.ID
	}
	err := h.usage.RecordUsage(storage.UsageRecord{
		ChatID:  m.Chat.ID,
		UserID:  userID,
		Command: cmd,
		Outcome: outcome,
		TS:      h.now().Unix(),
	})
	if err != nil {
		log.Warn("telegram: usage record failed", "error", err)
	}
}

func (h *Handlers) reply(log *slog.Logger, chatID int64, text string) {
	if _, err := h.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Error("telegram: send failed", "error", err)
	}
}
