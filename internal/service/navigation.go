package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/orfo-trainer/spelling-bot/internal/domain/entities"
)

// Screen is the state of a Navigator.
type Screen int

const (
	ScreenMenu Screen = iota
	ScreenRule
	ScreenQuiz
	ScreenResult
)

func (s Screen) String() string {
	switch s {
	case ScreenMenu:
		return "menu"
	case ScreenRule:
		return "rule"
	case ScreenQuiz:
		return "quiz"
	case ScreenResult:
		return "result"
	default:
		return fmt.Sprintf("screen(%d)", int(s))
	}
}

var (
	ErrInvalidTransition = errors.New("action not allowed on the current screen")
	ErrUnknownCategory   = errors.New("unknown category")
)

// QuestionLoader returns a shuffled, length-capped question set for a category.
type QuestionLoader interface {
	Load(ctx context.Context, categoryID, limit int) []entities.Question
}

// Navigator moves one learner between the menu, rule, quiz and result screens.
// It owns at most one quiz session and is not safe for concurrent use.
type Navigator struct {
	loader  QuestionLoader
	catalog *Catalog
	limit   int
	rnd     *rand.Rand
	logger  *zap.Logger

	screen   Screen
	category entities.Category // category of the rule or quiz screen
	session  *QuizSession
	tally    entities.Tally
}

// NewNavigator creates a Navigator on the menu screen.
func NewNavigator(
	loader QuestionLoader,
	catalog *Catalog,
	limit int,
	rnd *rand.Rand,
	logger *zap.Logger,
) *Navigator {
	return &Navigator{
		loader:  loader,
		catalog: catalog,
		limit:   limit,
		rnd:     rnd,
		logger:  logger,
		screen:  ScreenMenu,
	}
}

func (n *Navigator) Screen() Screen {
	return n.screen
}

// Categories returns the menu entries.
func (n *Navigator) Categories() []entities.Category {
	return n.catalog.Categories()
}

// IsMix reports whether the category id draws questions from every category.
func (n *Navigator) IsMix(id int) bool {
	return n.catalog.IsMix(id)
}

// Category returns the category of the rule or quiz screen.
func (n *Navigator) Category() entities.Category {
	return n.category
}

// RuleText returns the rule of the category shown on the rule screen.
func (n *Navigator) RuleText() (string, error) {
	if n.screen != ScreenRule {
		return "", n.invalid("rule text")
	}
	return n.catalog.Rule(n.category.ID), nil
}

// Session returns the active quiz session, nil outside the quiz screen.
func (n *Navigator) Session() *QuizSession {
	return n.session
}

// Prompt returns the current question of the active session.
func (n *Navigator) Prompt() (entities.Prompt, error) {
	if n.screen != ScreenQuiz {
		return entities.Prompt{}, n.invalid("prompt")
	}
	return n.session.CurrentPrompt()
}

// Tally returns the score shown on the result screen.
func (n *Navigator) Tally() (entities.Tally, error) {
	if n.screen != ScreenResult {
		return entities.Tally{}, n.invalid("tally")
	}
	return n.tally, nil
}

// SelectCategory starts a quiz over the category's questions. When the bank
// has no questions for it, ErrNoQuestionsAvailable is returned and the
// navigator stays on the menu.
func (n *Navigator) SelectCategory(ctx context.Context, id int) error {
	if n.screen != ScreenMenu {
		return n.invalid("select category")
	}

	cat, ok := n.catalog.Category(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownCategory, id)
	}

	questions := n.loader.Load(ctx, id, n.limit)
	session, err := NewQuizSession(questions, n.rnd)
	if err != nil {
		n.logger.Info("quiz not started",
			zap.Int("category_id", id),
			zap.Error(err),
		)
		return err
	}

	n.category = cat
	n.session = session
	n.moveTo(ScreenQuiz)

	n.logger.Debug("quiz session created",
		zap.String("session_id", session.ID().String()),
		zap.Int("category_id", id),
		zap.Int("total_questions", session.TotalQuestions()),
	)

	return nil
}

// SelectRule shows the rule text of a category.
func (n *Navigator) SelectRule(id int) error {
	if n.screen != ScreenMenu {
		return n.invalid("select rule")
	}

	cat, ok := n.catalog.Category(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownCategory, id)
	}

	n.category = cat
	n.moveTo(ScreenRule)
	return nil
}

// Acknowledge returns from the rule or result screen to the menu.
func (n *Navigator) Acknowledge() error {
	if n.screen != ScreenRule && n.screen != ScreenResult {
		return n.invalid("acknowledge")
	}

	n.reset()
	return nil
}

// Submit answers the current question. An empty answer means nothing was
// selected and fails with ErrInvalidInput without changing state. It reports
// whether the quiz finished, in which case the navigator is on the result
// screen.
func (n *Navigator) Submit(answer string) (bool, error) {
	if n.screen != ScreenQuiz {
		return false, n.invalid("submit")
	}

	if answer == "" {
		return false, fmt.Errorf("%w: nothing selected", ErrInvalidInput)
	}

	completed, err := n.session.SubmitAnswer(answer)
	if err != nil {
		return false, err
	}
	if !completed {
		return false, nil
	}

	tally, err := n.session.FinalTally()
	if err != nil {
		return false, err
	}

	n.logger.Debug("quiz session completed",
		zap.String("session_id", n.session.ID().String()),
		zap.Int("correct", tally.Correct),
		zap.Int("total", tally.Total),
	)

	n.session = nil
	n.tally = tally
	n.moveTo(ScreenResult)

	return true, nil
}

// Home abandons whatever is on screen and shows the menu.
func (n *Navigator) Home() {
	if n.session != nil {
		n.logger.Debug("quiz session abandoned",
			zap.String("session_id", n.session.ID().String()),
			zap.Int("question_num", n.session.CurrentIndex()+1),
			zap.Int("correct", n.session.CorrectCount()),
		)
	}
	n.reset()
}

func (n *Navigator) reset() {
	n.session = nil
	n.tally = entities.Tally{}
	n.category = entities.Category{}
	n.moveTo(ScreenMenu)
}

func (n *Navigator) moveTo(s Screen) {
	n.logger.Debug("screen changed",
		zap.Stringer("from", n.screen),
		zap.Stringer("to", s),
	)
	n.screen = s
}

func (n *Navigator) invalid(action string) error {
	return fmt.Errorf("%w: %s on %s", ErrInvalidTransition, action, n.screen)
}
