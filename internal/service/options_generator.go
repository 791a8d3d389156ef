package service

import (
	"math/rand"

	"github.com/orfo-trainer/spelling-bot/internal/domain/entities"
)

// OptionGenerator lays out the answers of a question in random order.
type OptionGenerator struct {
	rnd *rand.Rand
}

// NewOptionGenerator creates a new option generator.
func NewOptionGenerator(rnd *rand.Rand) *OptionGenerator {
	return &OptionGenerator{rnd: rnd}
}

// GenerateOptions returns a uniform permutation of the correct answer and the
// three distractors. Consecutive calls are independent; the correct answer
// may land on the same position twice in a row.
func (g *OptionGenerator) GenerateOptions(q entities.Question) [entities.AnswerCount]string {
	options := q.Answers()

	g.rnd.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return options
}
