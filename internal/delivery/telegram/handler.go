package telegram

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/orfo-trainer/spelling-bot/internal/service"
	"github.com/orfo-trainer/spelling-bot/internal/storage"
)

// BotAPI is the part of the Telegram client the handler uses.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
}

// NavigatorFactory creates the navigator of a chat seen for the first time.
type NavigatorFactory func() *service.Navigator

type Handler struct {
	bot          BotAPI
	logger       *zap.Logger
	chats        *storage.ChatStorage
	newNavigator NavigatorFactory
	sweeps       chan time.Duration // idle TTLs queued by the eviction job
	now          func() time.Time
}

func NewHandler(
	bot BotAPI,
	logger *zap.Logger,
	chats *storage.ChatStorage,
	newNavigator NavigatorFactory,
) *Handler {
	return &Handler{
		bot:          bot,
		logger:       logger,
		chats:        chats,
		newNavigator: newNavigator,
		sweeps:       make(chan time.Duration, 1),
		now:          time.Now,
	}
}

// Run processes updates one at a time until ctx is cancelled. Idle chat
// eviction runs in the same loop, between updates.
func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ttl := <-h.sweeps:
			h.evictIdle(ttl)
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	chatID := update.Message.Chat.ID

	if !update.Message.IsCommand() {
		_ = h.send(newPlainMessage(chatID, msgUseButtons))
		return
	}

	switch update.Message.Command() {
	case "start", "menu":
		_ = h.withErrorHandling(h.handleMenu())(ctx, chatID)

	case "help":
		_ = h.send(newPlainMessage(chatID, msgHelp))

	default:
		_ = h.send(newPlainMessage(chatID, msgUnknownCommand))
	}
}

// handleMenu abandons the chat's current screen and sends a fresh menu.
func (h *Handler) handleMenu() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		state := h.touch(chatID)
		state.Navigator.Home()
		state.Selected = ""
		state.MessageID = 0

		return h.showScreen(chatID, state)
	}
}

// chatState returns the state of a chat, creating it on first contact.
func (h *Handler) chatState(chatID int64) *storage.ChatState {
	if state, ok := h.chats.Get(chatID); ok {
		return state
	}

	state := &storage.ChatState{Navigator: h.newNavigator()}
	h.chats.Store(chatID, state)
	return state
}

// touch returns the chat's state and marks the chat as active.
func (h *Handler) touch(chatID int64) *storage.ChatState {
	state := h.chatState(chatID)
	state.LastSeen = h.now()
	return state
}

// showScreen sends the current screen as a new message or edits the
// chat's screen message in place.
func (h *Handler) showScreen(chatID int64, state *storage.ChatState) error {
	text, kb, err := renderScreen(state)
	if err != nil {
		return err
	}

	if state.MessageID != 0 {
		_, err := h.bot.Send(newHTMLEdit(chatID, state.MessageID, text, kb))
		return err
	}

	msg := newHTMLMessage(chatID, text)
	msg.ReplyMarkup = kb

	sent, err := h.bot.Send(msg)
	if err != nil {
		return err
	}
	state.MessageID = sent.MessageID

	return nil
}

func (h *Handler) send(c tgbotapi.Chattable) error {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
		return err
	}
	return nil
}
