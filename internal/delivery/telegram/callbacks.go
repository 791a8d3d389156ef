package telegram

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/orfo-trainer/spelling-bot/internal/service"
	"github.com/orfo-trainer/spelling-bot/internal/storage"
)

// callbackResult tells handleCallback what to show after an action.
type callbackResult struct {
	notice string // text of the callback answer
	alert  bool   // show notice as a modal alert
	redraw bool   // re-render the screen message
}

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil || cb.Message.Chat == nil {
		h.answerCallback(cb.ID, callbackResult{notice: msgStaleButton})
		return
	}

	chatID := cb.Message.Chat.ID
	state := h.touch(chatID)
	data := decodeCallback(cb.Data)

	var res callbackResult
	switch data.Action {
	case actionMenu:
		res = h.handleMenuCallback(state)
	case actionCategory:
		res = h.handleCategoryCallback(ctx, chatID, state, data)
	case actionRule:
		res = h.handleRuleCallback(state, data)
	case actionAck:
		res = h.handleAckCallback(state)
	case actionQuiz:
		res = h.handleQuizCallback(chatID, state, data)
	default:
		h.logger.Warn("unknown callback action",
			zap.Int64("chat_id", chatID),
			zap.String("data", cb.Data),
		)
		res = callbackResult{notice: msgStaleButton}
	}

	if res.redraw {
		state.MessageID = cb.Message.MessageID
		if err := h.showScreen(chatID, state); err != nil {
			h.logger.Error("failed to show screen",
				zap.Int64("chat_id", chatID),
				zap.Stringer("screen", state.Navigator.Screen()),
				zap.Error(err),
			)
		}
	}

	h.answerCallback(cb.ID, res)
}

func (h *Handler) handleMenuCallback(state *storage.ChatState) callbackResult {
	if state.Navigator.Screen() == service.ScreenMenu {
		return callbackResult{}
	}

	state.Navigator.Home()
	state.Selected = ""
	return callbackResult{redraw: true}
}

func (h *Handler) handleCategoryCallback(
	ctx context.Context, chatID int64, state *storage.ChatState, data callbackData,
) callbackResult {
	id, err := data.intParam(0)
	if err != nil {
		return callbackResult{notice: msgStaleButton}
	}

	err = state.Navigator.SelectCategory(ctx, id)
	switch {
	case err == nil:
		state.Selected = ""
		return callbackResult{redraw: true}

	case errors.Is(err, service.ErrNoQuestionsAvailable):
		return callbackResult{notice: msgNoQuestions, alert: true}

	case errors.Is(err, service.ErrInvalidTransition), errors.Is(err, service.ErrUnknownCategory):
		return callbackResult{notice: msgStaleButton}

	default:
		h.logger.Error("failed to start quiz",
			zap.Int64("chat_id", chatID),
			zap.Int("category_id", id),
			zap.Error(err),
		)
		return callbackResult{notice: msgInternalError, alert: true}
	}
}

func (h *Handler) handleRuleCallback(state *storage.ChatState, data callbackData) callbackResult {
	id, err := data.intParam(0)
	if err != nil {
		return callbackResult{notice: msgStaleButton}
	}

	if err := state.Navigator.SelectRule(id); err != nil {
		return callbackResult{notice: msgStaleButton}
	}

	return callbackResult{redraw: true}
}

func (h *Handler) handleAckCallback(state *storage.ChatState) callbackResult {
	if err := state.Navigator.Acknowledge(); err != nil {
		return callbackResult{notice: msgStaleButton}
	}

	return callbackResult{redraw: true}
}

func (h *Handler) handleQuizCallback(chatID int64, state *storage.ChatState, data callbackData) callbackResult {
	nav := state.Navigator

	questionNum, err := data.intParam(2)
	if err != nil || !isCurrentQuestion(nav, data.param(1), questionNum) {
		return callbackResult{notice: msgStaleButton}
	}

	switch data.param(0) {
	case quizSelect:
		idx, err := data.intParam(3)
		if err != nil {
			return callbackResult{notice: msgStaleButton}
		}

		prompt, err := nav.Prompt()
		if err != nil || idx < 0 || idx >= len(prompt.Options) {
			return callbackResult{notice: msgStaleButton}
		}

		if state.Selected == prompt.Options[idx] {
			return callbackResult{}
		}
		state.Selected = prompt.Options[idx]
		return callbackResult{redraw: true}

	case quizSubmit:
		sessionID := nav.Session().ID().String()

		completed, err := nav.Submit(state.Selected)
		if errors.Is(err, service.ErrInvalidInput) {
			return callbackResult{notice: msgChooseAnswer, alert: true}
		}
		if err != nil {
			h.logger.Error("failed to submit answer",
				zap.Int64("chat_id", chatID),
				zap.String("session_id", sessionID),
				zap.Int("question_num", questionNum),
				zap.Error(err),
			)
			return callbackResult{notice: msgInternalError, alert: true}
		}

		state.Selected = ""
		if completed {
			tally, _ := nav.Tally()
			h.logger.Info("quiz completed",
				zap.Int64("chat_id", chatID),
				zap.String("session_id", sessionID),
				zap.Int("correct", tally.Correct),
				zap.Int("total", tally.Total),
			)
		}
		return callbackResult{redraw: true}

	default:
		return callbackResult{notice: msgStaleButton}
	}
}

// isCurrentQuestion reports whether a quiz button belongs to the question on screen.
func isCurrentQuestion(nav *service.Navigator, sessionID string, questionNum int) bool {
	if nav.Screen() != service.ScreenQuiz {
		return false
	}
	if nav.Session().ID().String() != sessionID {
		return false
	}

	prompt, err := nav.Prompt()
	return err == nil && prompt.Number == questionNum
}

// answerCallback removes the user's "clock" and shows the notice, if any.
func (h *Handler) answerCallback(callbackID string, res callbackResult) {
	answer := tgbotapi.NewCallback(callbackID, res.notice)
	if res.alert {
		answer = tgbotapi.NewCallbackWithAlert(callbackID, res.notice)
	}

	if _, err := h.bot.Request(answer); err != nil {
		h.logger.Warn("callback answer error", zap.Error(err))
	}
}
