package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Bot struct {
	api *tgbotapi.BotAPI
	h   *Handlers
	log *slog.Logger
	wg  sync.WaitGroup
}

// NewAPI authenticates the token against Telegram (getMe).
func NewAPI(token string) (*tgbotapi.BotAPI, error) {
	return tgbotapi.NewBotAPI(token)
}

func NewBot(api *tgbotapi.BotAPI, h *Handlers, log *slog.Logger) *Bot {
	return &Bot{api: api, h: h, log: log}
}

// SetWebhook points Telegram at the public webhook URL.
func (b *Bot) SetWebhook(webhookURL string) error {
	webhook, err := tgbotapi.NewWebhook(webhookURL)
	if err != nil {
		return err
	}
	if _, err := b.api.Request(webhook); err != nil {
		return err
	}
	b.log.Info("telegram: webhook set", "url", webhookURL)
	return nil
}

// WebhookHandler accepts an update, acknowledges it at once and handles the
// message on its own goroutine (registered at /telegram/webhook).
func (b *Bot) WebhookHandler(c *gin.Context) {
	var update tgbotapi.Update
	if err := json.NewDecoder(c.Request.Body).Decode(&update); err != nil {
		c.String(http.StatusBadRequest, "bad update")
		return
	}
	if update.Message != nil && update.Message.Chat != nil {
		b.log.Debug("webhook: message", "update_id", update.UpdateID, "chat_id", update.Message.Chat.ID)
	} else {
		b.log.Debug("webhook: non-message update received", "update_id", update.UpdateID)
	}
	b.dispatch(context.WithoutCancel(c.Request.Context()), update)
	c.Status(http.StatusOK)
}

// RunPolling removes any webhook and long-polls getUpdates until ctx is done.
func (b *Bot) RunPolling(ctx context.Context) error {
	if _, err := b.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("telegram: delete webhook: %w", err)
	}
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)
	b.log.Info("telegram: polling for updates")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.dispatch(context.WithoutCancel(ctx), update)
		}
	}
}

// Wait blocks until every dispatched message has been handled.
func (b *Bot) Wait() { b.wg.Wait() }

func (b *Bot) dispatch(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil {
		return
	}
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.h.HandleMessage(ctx, update.Message)
	}()
}
