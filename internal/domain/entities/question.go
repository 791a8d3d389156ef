// Package entities contains domain entities used across the application.
package entities

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// AnswerCount is the number of answer options every question carries.
const AnswerCount = 4

var ErrDuplicateAnswers = errors.New("answers are not distinct")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Question is one quiz item: the correct spelling plus three distractors,
// tagged with the category it belongs to.
type Question struct {
	CorrectAnswer string    `validate:"required"`      // canonical correct spelling
	Distractors   [3]string `validate:"dive,required"` // incorrect alternatives in source order
	CategoryID    int       `validate:"gte=0"`
}

// NewQuestion builds a question and checks its invariants.
func NewQuestion(correct string, distractors [3]string, categoryID int) (Question, error) {
	q := Question{
		CorrectAnswer: correct,
		Distractors:   distractors,
		CategoryID:    categoryID,
	}
	if err := q.Validate(); err != nil {
		return Question{}, err
	}
	return q, nil
}

// Answers returns the correct answer followed by the distractors.
func (q Question) Answers() [AnswerCount]string {
	return [AnswerCount]string{q.CorrectAnswer, q.Distractors[0], q.Distractors[1], q.Distractors[2]}
}

// IsCorrect reports whether answer is the correct spelling.
func (q Question) IsCorrect(answer string) bool {
	return answer == q.CorrectAnswer
}

// Validate checks that all four answers are present and distinct and the
// category id is not negative.
func (q Question) Validate() error {
	if err := validate.Struct(q); err != nil {
		return fmt.Errorf("invalid question: %w", err)
	}

	seen := make(map[string]struct{}, AnswerCount)
	for _, a := range q.Answers() {
		if _, ok := seen[a]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateAnswers, a)
		}
		seen[a] = struct{}{}
	}

	return nil
}
