package repository

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/orfo-trainer/spelling-bot/internal/domain/entities"
)

// DefaultLimit is the number of questions returned when no positive limit is given.
const DefaultLimit = 10

// minRowFields is four answers plus the trailing category id.
const minRowFields = entities.AnswerCount + 1

var (
	ErrSourceUnavailable = errors.New("question source unavailable")
	ErrMalformedRow      = errors.New("malformed question row")
)

// RowSource yields the raw rows of a tabular question source.
// Implementations read the underlying resource on every call.
type RowSource interface {
	Rows(ctx context.Context) ([][]string, error)
}

// QuestionBank loads questions from a RowSource and filters them by category.
// It keeps nothing between calls so edits to the source are picked up
// without a restart.
type QuestionBank struct {
	source        RowSource
	mixCategoryID int
	rnd           *rand.Rand
	logger        *zap.Logger
}

// NewQuestionBank creates a new QuestionBank. Questions of every category
// match when Load is called with mixCategoryID.
func NewQuestionBank(source RowSource, mixCategoryID int, rnd *rand.Rand, logger *zap.Logger) *QuestionBank {
	return &QuestionBank{
		source:        source,
		mixCategoryID: mixCategoryID,
		rnd:           rnd,
		logger:        logger,
	}
}

// Load returns at most limit shuffled questions of the given category.
// An unavailable source yields an empty slice, malformed rows are skipped.
func (b *QuestionBank) Load(ctx context.Context, categoryID, limit int) []entities.Question {
	if limit <= 0 {
		limit = DefaultLimit
	}

	rows, err := b.source.Rows(ctx)
	if err != nil {
		b.logger.Warn("question source unavailable",
			zap.Int("category_id", categoryID),
			zap.Error(err),
		)
		return []entities.Question{}
	}

	questions := make([]entities.Question, 0, len(rows))
	dropped := 0
	for _, row := range rows {
		q, err := ParseRow(row)
		if err != nil {
			dropped++
			continue
		}

		if categoryID == b.mixCategoryID || q.CategoryID == categoryID {
			questions = append(questions, q)
		}
	}

	b.rnd.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})

	matched := len(questions)
	if len(questions) > limit {
		questions = questions[:limit]
	}

	b.logger.Debug("questions loaded",
		zap.Int("category_id", categoryID),
		zap.Int("rows", len(rows)),
		zap.Int("dropped", dropped),
		zap.Int("matched", matched),
		zap.Int("returned", len(questions)),
	)

	return questions
}

// ParseRow converts one source row into a Question. The first four fields are
// the correct answer and the distractors, the last field is the category id.
func ParseRow(row []string) (entities.Question, error) {
	if len(row) < minRowFields {
		return entities.Question{}, fmt.Errorf("%w: %d fields", ErrMalformedRow, len(row))
	}

	raw := strings.TrimSpace(row[len(row)-1])
	categoryID, err := strconv.Atoi(raw)
	if err != nil {
		return entities.Question{}, fmt.Errorf("%w: category %q", ErrMalformedRow, raw)
	}

	q, err := entities.NewQuestion(
		strings.TrimSpace(row[0]),
		[3]string{
			strings.TrimSpace(row[1]),
			strings.TrimSpace(row[2]),
			strings.TrimSpace(row[3]),
		},
		categoryID,
	)
	if err != nil {
		return entities.Question{}, fmt.Errorf("%w: %w", ErrMalformedRow, err)
	}

	return q, nil
}
