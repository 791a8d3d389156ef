// messages.go contains message templates and screen rendering for Telegram.

package telegram

import (
	"fmt"
	"html"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/orfo-trainer/spelling-bot/internal/service"
	"github.com/orfo-trainer/spelling-bot/internal/storage"
)

// Notices and error messages.
const (
	msgNoQuestions    = "Нет вопросов."
	msgChooseAnswer   = "Выберите ответ"
	msgStaleButton    = "Эта кнопка уже неактуальна."
	msgInternalError  = "Что‑то пошло не так. Попробуйте позже."
	msgUnknownCommand = "Неизвестная команда. Нажмите /menu, чтобы открыть главное меню."
	msgUseButtons     = "Пользуйтесь кнопками под сообщением или нажмите /menu."
	msgHelp           = "Тренажер по орфографии русского языка.\n\n" +
		"/menu — главное меню с темами\n" +
		"Нажмите на тему, чтобы начать тест, или «?», чтобы прочитать правило.\n" +
		"В тесте отметьте вариант и нажмите «ОТВЕТИТЬ»."
)

const msgMenuTitle = "<b>Интерактивный тренажер по орфографии\nрусского языка</b>\n\n" +
	"Выберите тему или нажмите «?», чтобы прочитать правило."

// renderScreen builds the text and keyboard of the chat's current screen.
func renderScreen(state *storage.ChatState) (string, tgbotapi.InlineKeyboardMarkup, error) {
	nav := state.Navigator

	switch nav.Screen() {
	case service.ScreenMenu:
		return msgMenuTitle, buildMenuKeyboard(nav.Categories(), nav.IsMix), nil

	case service.ScreenRule:
		rule, err := nav.RuleText()
		if err != nil {
			return "", tgbotapi.InlineKeyboardMarkup{}, err
		}
		return formatRule(nav.Category().Name, rule), buildRuleKeyboard(), nil

	case service.ScreenQuiz:
		prompt, err := nav.Prompt()
		if err != nil {
			return "", tgbotapi.InlineKeyboardMarkup{}, err
		}
		text := fmt.Sprintf(
			"<b>%s</b>\n\nВопрос %d из %d:\nВыберите верное написание:",
			html.EscapeString(nav.Category().Name),
			prompt.Number,
			prompt.Total,
		)
		kb := buildQuizKeyboard(nav.Session().ID().String(), prompt, state.Selected)
		return text, kb, nil

	case service.ScreenResult:
		tally, err := nav.Tally()
		if err != nil {
			return "", tgbotapi.InlineKeyboardMarkup{}, err
		}
		text := fmt.Sprintf("<b>ТЕСТ ЗАВЕРШЕН</b>\n\nВаш результат:\n<b>%d из %d</b>", tally.Correct, tally.Total)
		return text, buildResultKeyboard(), nil

	default:
		return "", tgbotapi.InlineKeyboardMarkup{}, fmt.Errorf("unknown screen %s", nav.Screen())
	}
}

// formatRule formats the rule screen. The rule text is trusted HTML.
func formatRule(categoryName, rule string) string {
	return fmt.Sprintf("<b>Правило: %s</b>\n\n%s", html.EscapeString(categoryName), rule)
}
