package api

import (
	"math/rand"

	"github.com/mpalmer-dev/lingua-api/internal/domain"
)

// choiceOptions assembles the option set for a multiple-choice exercise: the
// correct answer mixed into the distractors in random order, so its position
// carries no information.
func choiceOptions(exercise *domain.Exercise) []string {
	options := make([]string, 0, len(exercise.WrongAnswers)+1)
	options = append(options, exercise.CorrectAnswer)
	options = append(options, exercise.WrongAnswers...)

	rand.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return options
}
