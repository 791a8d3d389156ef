package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/orfo-trainer/spelling-bot/internal/domain/entities"
)

const (
	selectedMark = "✅ "
	mixMark      = "🔀 "
)

// buildMenuKeyboard builds one row per category: the quiz button and the rule
// button. The mix category is marked.
func buildMenuKeyboard(categories []entities.Category, isMix func(id int) bool) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(categories))
	for _, cat := range categories {
		name := cat.Name
		if isMix(cat.ID) {
			name = mixMark + name
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(name, buildCategoryCallback(cat.ID)),
			tgbotapi.NewInlineKeyboardButtonData("?", buildRuleCallback(cat.ID)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildRuleKeyboard builds keyboard for the rule screen.
func buildRuleKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("ПОНЯТНО", buildAckCallback()),
		),
	)
}

// buildQuizKeyboard builds keyboard for a quiz question. The selected option
// is marked.
func buildQuizKeyboard(sessionID string, p entities.Prompt, selected string) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(p.Options)+2)
	for i, option := range p.Options {
		text := option
		if selected != "" && option == selected {
			text = selectedMark + option
		}
		button := tgbotapi.NewInlineKeyboardButtonData(text, buildQuizSelectCallback(sessionID, p.Number, i))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(button))
	}

	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("ОТВЕТИТЬ", buildQuizSubmitCallback(sessionID, p.Number)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("« В меню", buildMenuCallback()),
		),
	)

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildResultKeyboard builds keyboard for quiz results screen.
func buildResultKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("В ГЛАВНОЕ МЕНЮ", buildAckCallback()),
		),
	)
}
