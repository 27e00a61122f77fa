package question

import (
	"encoding/json"
	"strings"

	"github.com/adaptquiz/adaptquiz/internal/models"
)

// CheckAnswer reports whether the chosen answer matches the question's key.
// mcq_simple compares exact trimmed values, mcq_complex compares answer sets
// (both sides JSON arrays), short_answer compares case-insensitively.
// Malformed input counts as incorrect rather than erroring: a garbled answer
// is a wrong answer.
func CheckAnswer(q models.Question, chosen string) bool {
	chosen = strings.TrimSpace(chosen)
	key := strings.TrimSpace(q.AnswerKey)

	switch q.Format {
	case models.FormatMCQSimple:
		return chosen != "" && chosen == key

	case models.FormatMCQComplex:
		if chosen == "" {
			return false
		}
		var picked []string
		if err := json.Unmarshal([]byte(chosen), &picked); err != nil {
			return false
		}
		return sameSet(picked, parseAnswerSet(key))

	case models.FormatShortAnswer:
		return chosen != "" && key != "" && strings.EqualFold(chosen, key)
	}
	return false
}

// parseAnswerSet accepts a JSON array, a comma-separated list, or a single
// value, matching the formats found in real question banks.
func parseAnswerSet(key string) []string {
	if strings.HasPrefix(key, "[") && strings.HasSuffix(key, "]") {
		var answers []string
		if err := json.Unmarshal([]byte(key), &answers); err == nil {
			return answers
		}
	}
	if strings.Contains(key, ",") {
		parts := strings.Split(key, ",")
		answers := make([]string, 0, len(parts))
		for _, p := range parts {
			answers = append(answers, strings.TrimSpace(p))
		}
		return answers
	}
	return []string{key}
}

// sameSet compares as sets, so duplicates on either side are ignored.
func sameSet(a, b []string) bool {
	as := toSet(a)
	bs := toSet(b)
	if len(as) == 0 || len(as) != len(bs) {
		return false
	}
	for v := range as {
		if _, ok := bs[v]; !ok {
			return false
		}
	}
	return true
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.TrimSpace(v)] = struct{}{}
	}
	return set
}
