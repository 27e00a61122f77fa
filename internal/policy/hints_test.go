package policy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/adaptquiz/adaptquiz/internal/models"
	"github.com/adaptquiz/adaptquiz/internal/policy"
)

func TestNextHint_NoHintBeforeFirstWrongAttempt(t *testing.T) {
	q := models.Question{Difficulty: models.DifficultyEasy}

	assert.Empty(t, policy.NextHint(q, 0))
	assert.Empty(t, policy.NextHint(q, -1))
}

func TestNextHint_EasyLadderProgresses(t *testing.T) {
	q := models.Question{Difficulty: models.DifficultyEasy}

	first := policy.NextHint(q, 1)
	second := policy.NextHint(q, 2)
	third := policy.NextHint(q, 3)

	assert.NotEmpty(t, first)
	assert.NotEmpty(t, second)
	assert.NotEmpty(t, third)
	assert.NotEqual(t, first, second, "each wrong attempt should advance the ladder")
	assert.NotEqual(t, second, third)
}

func TestNextHint_BudgetExhausted(t *testing.T) {
	easy := models.Question{Difficulty: models.DifficultyEasy}
	medium := models.Question{Difficulty: models.DifficultyMedium}
	hard := models.Question{Difficulty: models.DifficultyHard}

	assert.Empty(t, policy.NextHint(easy, 4), "easy budget is 3")
	assert.NotEmpty(t, policy.NextHint(medium, 2))
	assert.Empty(t, policy.NextHint(medium, 3), "medium budget is 2")
	assert.Empty(t, policy.NextHint(hard, 3), "hard budget is 2")
}

func TestNextHint_QuestionLadderTakesPrecedence(t *testing.T) {
	q := models.Question{
		Difficulty: models.DifficultyMedium,
		Hints:      []string{"look at the second clause", "it is about scope"},
	}

	assert.Equal(t, "look at the second clause", policy.NextHint(q, 1))
	assert.Equal(t, "it is about scope", policy.NextHint(q, 2))
}

func TestNextHint_QuestionLadderCappedByBudget(t *testing.T) {
	q := models.Question{
		Difficulty: models.DifficultyHard,
		Hints:      []string{"one", "two", "three", "four"},
	}

	assert.Equal(t, "two", policy.NextHint(q, 2))
	assert.Empty(t, policy.NextHint(q, 3), "a long ladder does not extend the hard budget of 2")
}

func TestNextHint_ShortQuestionLadder(t *testing.T) {
	q := models.Question{
		Difficulty: models.DifficultyEasy,
		Hints:      []string{"only one hint"},
	}

	assert.Equal(t, "only one hint", policy.NextHint(q, 1))
	assert.Empty(t, policy.NextHint(q, 2), "a question ladder shorter than the budget just runs out")
}
