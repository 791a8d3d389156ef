package service

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/orfo-trainer/spelling-bot/internal/domain/entities"
)

var (
	ErrNoQuestionsAvailable = errors.New("no questions available")
	ErrInvalidInput         = errors.New("answer is not one of the presented options")
	ErrSessionCompleted     = errors.New("quiz session is completed")
	ErrSessionNotComplete   = errors.New("quiz session is not completed")
)

// QuizSession is one run through a fixed sequence of questions.
// It is not safe for concurrent use.
type QuizSession struct {
	id           uuid.UUID
	questions    []entities.Question
	currentIndex int
	correctCount int
	options      [entities.AnswerCount]string
	status       entities.SessionStatus
	optionGen    *OptionGenerator
}

// NewQuizSession starts a session over a copy of questions and presents the
// first one. It fails with ErrNoQuestionsAvailable for an empty slice.
func NewQuizSession(questions []entities.Question, rnd *rand.Rand) (*QuizSession, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestionsAvailable
	}

	s := &QuizSession{
		id:        uuid.New(),
		questions: append([]entities.Question(nil), questions...),
		status:    entities.SessionInProgress,
		optionGen: NewOptionGenerator(rnd),
	}
	s.options = s.optionGen.GenerateOptions(s.questions[0])

	return s, nil
}

// ID returns the unique session id.
func (s *QuizSession) ID() uuid.UUID {
	return s.id
}

func (s *QuizSession) IsCompleted() bool {
	return s.status == entities.SessionCompleted
}

// CurrentIndex returns the 0-based index of the question being asked, or the
// number of questions once the session is completed.
func (s *QuizSession) CurrentIndex() int {
	return s.currentIndex
}

func (s *QuizSession) CorrectCount() int {
	return s.correctCount
}

func (s *QuizSession) TotalQuestions() int {
	return len(s.questions)
}

// CurrentPrompt returns the current question number and its options.
// Repeated calls return the same options in the same order.
func (s *QuizSession) CurrentPrompt() (entities.Prompt, error) {
	if s.IsCompleted() {
		return entities.Prompt{}, ErrSessionCompleted
	}

	return entities.Prompt{
		Number:  s.currentIndex + 1,
		Total:   len(s.questions),
		Options: s.options,
	}, nil
}

// SubmitAnswer scores selected against the current question and moves on.
// It reports whether this answer completed the session. An answer that is
// not among the presented options fails with ErrInvalidInput and changes
// nothing.
func (s *QuizSession) SubmitAnswer(selected string) (bool, error) {
	if s.IsCompleted() {
		return false, ErrSessionCompleted
	}

	if !s.isPresented(selected) {
		return false, fmt.Errorf("%w: %q", ErrInvalidInput, selected)
	}

	if s.questions[s.currentIndex].IsCorrect(selected) {
		s.correctCount++
	}
	s.currentIndex++

	if s.currentIndex >= len(s.questions) {
		s.status = entities.SessionCompleted
		s.options = [entities.AnswerCount]string{}
		return true, nil
	}

	s.options = s.optionGen.GenerateOptions(s.questions[s.currentIndex])
	return false, nil
}

// FinalTally returns the score of a completed session.
func (s *QuizSession) FinalTally() (entities.Tally, error) {
	if !s.IsCompleted() {
		return entities.Tally{}, ErrSessionNotComplete
	}

	return entities.Tally{
		Correct: s.correctCount,
		Total:   len(s.questions),
	}, nil
}

func (s *QuizSession) isPresented(answer string) bool {
	if answer == "" {
		return false
	}
	for _, opt := range s.options {
		if opt == answer {
			return true
		}
	}
	return false
}
