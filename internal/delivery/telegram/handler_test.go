package telegram

import (
	"context"
	"math/rand"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/orfo-trainer/spelling-bot/internal/domain/entities"
	"github.com/orfo-trainer/spelling-bot/internal/service"
	"github.com/orfo-trainer/spelling-bot/internal/storage"
)

const (
	testChatID = int64(42)
	testMixID  = 5
)

type fakeBot struct {
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	updates  chan tgbotapi.Update
	nextID   int
}

func newFakeBot() *fakeBot {
	return &fakeBot{updates: make(chan tgbotapi.Update), nextID: 100}
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.sent = append(b.sent, c)
	b.nextID++
	return tgbotapi.Message{MessageID: b.nextID}, nil
}

func (b *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	b.requests = append(b.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (b *fakeBot) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return b.updates
}

func (b *fakeBot) lastSent(t *testing.T) tgbotapi.Chattable {
	t.Helper()
	require.NotEmpty(t, b.sent)
	return b.sent[len(b.sent)-1]
}

func (b *fakeBot) lastEdit(t *testing.T) tgbotapi.EditMessageTextConfig {
	t.Helper()
	edit, ok := b.lastSent(t).(tgbotapi.EditMessageTextConfig)
	require.True(t, ok, "expected an edit, got %T", b.lastSent(t))
	return edit
}

func (b *fakeBot) lastAnswer(t *testing.T) tgbotapi.CallbackConfig {
	t.Helper()
	require.NotEmpty(t, b.requests)
	answer, ok := b.requests[len(b.requests)-1].(tgbotapi.CallbackConfig)
	require.True(t, ok)
	return answer
}

type staticLoader []entities.Question

func (l staticLoader) Load(_ context.Context, categoryID, limit int) []entities.Question {
	result := make([]entities.Question, 0, len(l))
	for _, q := range l {
		if categoryID == testMixID || q.CategoryID == categoryID {
			result = append(result, q)
		}
	}
	if len(result) > limit {
		result = result[:limit]
	}
	return result
}

func testQuestions() []entities.Question {
	return []entities.Question{
		{CorrectAnswer: "гора", Distractors: [3]string{"гара", "гаро", "горра"}, CategoryID: 1},
		{CorrectAnswer: "вода", Distractors: [3]string{"вада", "вото", "водда"}, CategoryID: 1},
	}
}

func newTestHandler(questions []entities.Question) (*Handler, *fakeBot) {
	bot := newFakeBot()
	catalog := service.NewCatalog([]entities.Category{
		{ID: 1, Name: "Безударные гласные", Rule: "<i>гора́ — го́ры</i>"},
		{ID: 2, Name: "Словарные слова"},
		{ID: testMixID, Name: "МИКС"},
	}, testMixID)
	rnd := rand.New(rand.NewSource(1))

	newNavigator := func() *service.Navigator {
		return service.NewNavigator(staticLoader(questions), catalog, 10, rnd, zap.NewNop())
	}

	return NewHandler(bot, zap.NewNop(), storage.NewChatStorage(), newNavigator), bot
}

func commandUpdate(text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 1,
		Chat:      &tgbotapi.Chat{ID: testChatID},
		Text:      text,
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(text)}},
	}}
}

func textUpdate(text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 1,
		Chat:      &tgbotapi.Chat{ID: testChatID},
		Text:      text,
	}}
}

func callbackUpdate(messageID int, data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:   "cb-" + data,
		From: &tgbotapi.User{ID: 7},
		Message: &tgbotapi.Message{
			MessageID: messageID,
			Chat:      &tgbotapi.Chat{ID: testChatID},
		},
		Data: data,
	}}
}

// buttonData returns the callback data of the first button whose text matches.
func buttonData(t *testing.T, kb *tgbotapi.InlineKeyboardMarkup, match func(text string) bool) string {
	t.Helper()
	require.NotNil(t, kb)

	for _, row := range kb.InlineKeyboard {
		for _, button := range row {
			if match(button.Text) && button.CallbackData != nil {
				return *button.CallbackData
			}
		}
	}
	t.Fatalf("no matching button in keyboard")
	return ""
}

func textIs(want string) func(string) bool {
	return func(text string) bool { return text == want }
}

func startMenu(t *testing.T, h *Handler, bot *fakeBot) int {
	t.Helper()

	h.handleUpdate(context.Background(), commandUpdate("/start"))

	msg, ok := bot.lastSent(t).(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, msgMenuTitle, msg.Text)
	assert.Equal(t, tgbotapi.ModeHTML, msg.ParseMode)

	kb, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, kb.InlineKeyboard, 3)
	assert.Equal(t, "Безударные гласные", kb.InlineKeyboard[0][0].Text)
	assert.Equal(t, "?", kb.InlineKeyboard[0][1].Text)
	assert.Equal(t, mixMark+"МИКС", kb.InlineKeyboard[2][0].Text)

	state, ok := h.chats.Get(testChatID)
	require.True(t, ok)
	return state.MessageID
}

func TestHandler_QuizFlow(t *testing.T) {
	h, bot := newTestHandler(testQuestions())
	ctx := context.Background()
	msgID := startMenu(t, h, bot)

	h.handleUpdate(ctx, callbackUpdate(msgID, buildCategoryCallback(1)))
	edit := bot.lastEdit(t)
	assert.Equal(t, msgID, edit.MessageID)
	assert.Contains(t, edit.Text, "Вопрос 1 из 2:")
	assert.Contains(t, edit.Text, "Выберите верное написание:")

	submit := buttonData(t, edit.ReplyMarkup, textIs("ОТВЕТИТЬ"))

	// Submitting with nothing selected keeps the question.
	sentBefore := len(bot.sent)
	h.handleUpdate(ctx, callbackUpdate(msgID, submit))
	answer := bot.lastAnswer(t)
	assert.True(t, answer.ShowAlert)
	assert.Equal(t, msgChooseAnswer, answer.Text)
	assert.Len(t, bot.sent, sentBefore)

	// Question 1: correct answer.
	h.handleUpdate(ctx, callbackUpdate(msgID, buttonData(t, edit.ReplyMarkup, textIs("гора"))))
	edit = bot.lastEdit(t)
	buttonData(t, edit.ReplyMarkup, textIs(selectedMark+"гора"))

	h.handleUpdate(ctx, callbackUpdate(msgID, submit))
	edit = bot.lastEdit(t)
	assert.Contains(t, edit.Text, "Вопрос 2 из 2:")

	// Question 2: wrong answer.
	wrong := buttonData(t, edit.ReplyMarkup, func(text string) bool {
		return strings.HasPrefix(text, "в") && text != "вода"
	})
	h.handleUpdate(ctx, callbackUpdate(msgID, wrong))
	edit = bot.lastEdit(t)
	h.handleUpdate(ctx, callbackUpdate(msgID, buttonData(t, edit.ReplyMarkup, textIs("ОТВЕТИТЬ"))))

	edit = bot.lastEdit(t)
	assert.Contains(t, edit.Text, "ТЕСТ ЗАВЕРШЕН")
	assert.Contains(t, edit.Text, "1 из 2")

	// Buttons of a finished quiz are stale.
	h.handleUpdate(ctx, callbackUpdate(msgID, submit))
	assert.Equal(t, msgStaleButton, bot.lastAnswer(t).Text)

	h.handleUpdate(ctx, callbackUpdate(msgID, buttonData(t, edit.ReplyMarkup, textIs("В ГЛАВНОЕ МЕНЮ"))))
	assert.Equal(t, msgMenuTitle, bot.lastEdit(t).Text)
}

func TestHandler_StaleQuestionButton(t *testing.T) {
	h, bot := newTestHandler(testQuestions())
	ctx := context.Background()
	msgID := startMenu(t, h, bot)

	h.handleUpdate(ctx, callbackUpdate(msgID, buildCategoryCallback(testMixID)))
	edit := bot.lastEdit(t)
	firstPick := buttonData(t, edit.ReplyMarkup, textIs("гора"))

	h.handleUpdate(ctx, callbackUpdate(msgID, firstPick))
	h.handleUpdate(ctx, callbackUpdate(msgID, buttonData(t, bot.lastEdit(t).ReplyMarkup, textIs("ОТВЕТИТЬ"))))
	assert.Contains(t, bot.lastEdit(t).Text, "Вопрос 2 из 2:")

	// A button from question 1 must not select anything on question 2.
	sentBefore := len(bot.sent)
	h.handleUpdate(ctx, callbackUpdate(msgID, firstPick))
	assert.Equal(t, msgStaleButton, bot.lastAnswer(t).Text)
	assert.Len(t, bot.sent, sentBefore)

	h.handleUpdate(ctx, callbackUpdate(msgID, buildQuizSubmitCallback("00000000-0000-0000-0000-000000000000", 2)))
	assert.Equal(t, msgStaleButton, bot.lastAnswer(t).Text)
}

func TestHandler_RuleScreen(t *testing.T) {
	h, bot := newTestHandler(testQuestions())
	ctx := context.Background()
	msgID := startMenu(t, h, bot)

	h.handleUpdate(ctx, callbackUpdate(msgID, buildRuleCallback(1)))
	edit := bot.lastEdit(t)
	assert.Equal(t, "<b>Правило: Безударные гласные</b>\n\n<i>гора́ — го́ры</i>", edit.Text)

	h.handleUpdate(ctx, callbackUpdate(msgID, buttonData(t, edit.ReplyMarkup, textIs("ПОНЯТНО"))))
	assert.Equal(t, msgMenuTitle, bot.lastEdit(t).Text)

	h.handleUpdate(ctx, callbackUpdate(msgID, buildRuleCallback(2)))
	assert.Contains(t, bot.lastEdit(t).Text, service.RuleFallback)
}

func TestHandler_NoQuestions(t *testing.T) {
	h, bot := newTestHandler(nil)
	ctx := context.Background()
	msgID := startMenu(t, h, bot)
	sentBefore := len(bot.sent)

	h.handleUpdate(ctx, callbackUpdate(msgID, buildCategoryCallback(2)))

	answer := bot.lastAnswer(t)
	assert.True(t, answer.ShowAlert)
	assert.Equal(t, msgNoQuestions, answer.Text)
	assert.Len(t, bot.sent, sentBefore)

	state, _ := h.chats.Get(testChatID)
	assert.Equal(t, service.ScreenMenu, state.Navigator.Screen())
}

func TestHandler_MenuAbandonsQuiz(t *testing.T) {
	h, bot := newTestHandler(testQuestions())
	ctx := context.Background()
	msgID := startMenu(t, h, bot)

	h.handleUpdate(ctx, callbackUpdate(msgID, buildCategoryCallback(1)))
	h.handleUpdate(ctx, callbackUpdate(msgID, buttonData(t, bot.lastEdit(t).ReplyMarkup, textIs("« В меню"))))
	assert.Equal(t, msgMenuTitle, bot.lastEdit(t).Text)

	h.handleUpdate(ctx, callbackUpdate(msgID, buildCategoryCallback(1)))
	h.handleUpdate(ctx, commandUpdate("/menu"))

	msg, ok := bot.lastSent(t).(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, msgMenuTitle, msg.Text)

	state, _ := h.chats.Get(testChatID)
	assert.Equal(t, service.ScreenMenu, state.Navigator.Screen())
	assert.NotEqual(t, msgID, state.MessageID)
}

func TestHandler_Messages(t *testing.T) {
	tests := []struct {
		name   string
		update tgbotapi.Update
		want   string
	}{
		{name: "plain text", update: textUpdate("привет"), want: msgUseButtons},
		{name: "help", update: commandUpdate("/help"), want: msgHelp},
		{name: "unknown command", update: commandUpdate("/quiz"), want: msgUnknownCommand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, bot := newTestHandler(testQuestions())
			h.handleUpdate(context.Background(), tt.update)

			msg, ok := bot.lastSent(t).(tgbotapi.MessageConfig)
			require.True(t, ok)
			assert.Equal(t, tt.want, msg.Text)
		})
	}
}

func TestHandler_UnknownCallback(t *testing.T) {
	h, bot := newTestHandler(testQuestions())

	h.handleUpdate(context.Background(), callbackUpdate(5, "bogus:1"))
	assert.Equal(t, msgStaleButton, bot.lastAnswer(t).Text)
	assert.Empty(t, bot.sent)
}

func TestHandler_Run(t *testing.T) {
	h, bot := newTestHandler(testQuestions())

	done := make(chan error, 1)
	go func() { done <- h.Run(context.Background()) }()

	bot.updates <- commandUpdate("/help")
	close(bot.updates)

	require.NoError(t, <-done)
	assert.Len(t, bot.sent, 1)
}

func TestHandler_RunStopsOnCancel(t *testing.T) {
	h, _ := newTestHandler(testQuestions())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, h.Run(ctx), context.Canceled)
}
