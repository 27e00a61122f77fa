package question_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/adaptquiz/adaptquiz/internal/models"
	"github.com/adaptquiz/adaptquiz/internal/question"
)

func TestCheckAnswer_MCQSimple(t *testing.T) {
	q := models.Question{Format: models.FormatMCQSimple, AnswerKey: "B"}

	assert.True(t, question.CheckAnswer(q, "B"))
	assert.True(t, question.CheckAnswer(q, "  B  "), "surrounding whitespace should be ignored")
	assert.False(t, question.CheckAnswer(q, "b"), "mcq_simple is case sensitive")
	assert.False(t, question.CheckAnswer(q, "A"))
	assert.False(t, question.CheckAnswer(q, ""))
}

func TestCheckAnswer_MCQComplex(t *testing.T) {
	q := models.Question{Format: models.FormatMCQComplex, AnswerKey: `["A","C"]`}

	assert.True(t, question.CheckAnswer(q, `["A","C"]`))
	assert.True(t, question.CheckAnswer(q, `["C","A"]`), "order should not matter")
	assert.False(t, question.CheckAnswer(q, `["A"]`), "missing a required answer")
	assert.False(t, question.CheckAnswer(q, `["A","C","D"]`), "extra answer")
	assert.False(t, question.CheckAnswer(q, "not json"), "malformed input is a wrong answer, not an error")
	assert.False(t, question.CheckAnswer(q, ""))
}

func TestCheckAnswer_MCQComplexCommaSeparatedKey(t *testing.T) {
	q := models.Question{Format: models.FormatMCQComplex, AnswerKey: "A, C"}

	assert.True(t, question.CheckAnswer(q, `["C","A"]`))
	assert.False(t, question.CheckAnswer(q, `["A","B"]`))
}

func TestCheckAnswer_MCQComplexDuplicateKeyEntries(t *testing.T) {
	q := models.Question{Format: models.FormatMCQComplex, AnswerKey: "A, A"}

	assert.True(t, question.CheckAnswer(q, `["A"]`), "duplicate key entries compare as a set")
	assert.True(t, question.CheckAnswer(q, `["A","A"]`))
	assert.False(t, question.CheckAnswer(q, `["B"]`))
}

func TestCheckAnswer_ShortAnswer(t *testing.T) {
	q := models.Question{Format: models.FormatShortAnswer, AnswerKey: "Photosynthesis"}

	assert.True(t, question.CheckAnswer(q, "photosynthesis"), "short answers compare case-insensitively")
	assert.True(t, question.CheckAnswer(q, " PHOTOSYNTHESIS "))
	assert.False(t, question.CheckAnswer(q, "respiration"))
	assert.False(t, question.CheckAnswer(q, ""))
}

func TestCheckAnswer_UnknownFormat(t *testing.T) {
	q := models.Question{Format: "essay", AnswerKey: "anything"}
	assert.False(t, question.CheckAnswer(q, "anything"))
}
