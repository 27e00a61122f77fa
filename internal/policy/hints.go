package policy

import "github.com/adaptquiz/adaptquiz/internal/models"

// Default hint ladders, used when a question carries no ladder of its own.
// Easy hints get progressively more specific; medium and hard hints stay
// deliberately vague so harder content is not trivialized.
var (
	easyHints = []string{
		"Read the question again carefully and look at every option.",
		"Think about the most straightforward, fundamental answer.",
		"The answer follows directly from the basic concept being asked about.",
	}
	mediumHints = []string{
		"Think about the key concepts involved.",
		"Consider which approach is most likely to be correct.",
	}
	hardHints = []string{
		"This one needs careful analysis.",
		"Work through the possibilities systematically.",
	}
)

// hintBudget caps how many hints a difficulty may expose.
func hintBudget(d models.Difficulty) int {
	if d == models.DifficultyEasy {
		return 3
	}
	return 2
}

// NextHint returns the hint to show after the given number of wrong attempts
// on a question, or "" when no hint applies. Hints fire only after at least
// one wrong attempt and stop once the difficulty's budget is exhausted. A
// question's own hint ladder takes precedence, capped at the same budget.
func NextHint(q models.Question, wrongAttempts int) string {
	if wrongAttempts < 1 {
		return ""
	}

	budget := hintBudget(q.Difficulty)
	idx := wrongAttempts - 1
	if idx >= budget {
		return ""
	}

	ladder := q.Hints
	if len(ladder) == 0 {
		switch q.Difficulty {
		case models.DifficultyEasy:
			ladder = easyHints
		case models.DifficultyMedium:
			ladder = mediumHints
		case models.DifficultyHard:
			ladder = hardHints
		}
	}
	if idx >= len(ladder) {
		return ""
	}
	return ladder[idx]
}
