package question

import (
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/adaptquiz/adaptquiz/internal/models"
)

// Priority bands. Unseen questions always outrank previously-missed ones,
// which always outrank mastered ones.
const (
	unseenPriority  = 100.0
	missedPriority  = 50.0
	masteredBase    = 20.0
	masteredStep    = 5.0
	masteredFloor   = 1.0
	recencyBonusCap = 30.0
	recencyPerDay   = 5.0
	topPoolSize     = 3
)

// Candidate pairs a question with the user's exposure history. A nil History
// means the user has never seen the question.
type Candidate struct {
	Question models.Question
	History  *models.QuestionHistory
}

// Selector ranks candidates and picks a concrete next question. Safe for
// concurrent use: the shared rng is guarded by a mutex.
type Selector struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// Option configures a Selector.
type Option func(*Selector)

// WithRand sets the random source, letting tests pin tie-breaks.
func WithRand(rng *rand.Rand) Option {
	return func(s *Selector) {
		s.rng = rng
	}
}

// WithNow sets the clock used for recency scoring.
func WithNow(now func() time.Time) Option {
	return func(s *Selector) {
		s.now = now
	}
}

// NewSelector creates a question Selector.
func NewSelector(opts ...Option) *Selector {
	s := &Selector{
		rng: rand.New(rand.NewSource(rand.Int63())),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Pick scores the candidates and returns one chosen uniformly at random from
// the top 3 by score, so a single most-recent miss is not served identically
// every session. Returns false when the pool is empty.
func (s *Selector) Pick(candidates []Candidate) (models.Question, bool) {
	if len(candidates) == 0 {
		return models.Question{}, false
	}

	now := s.now()
	scored := make([]Candidate, len(candidates))
	copy(scored, candidates)
	sort.SliceStable(scored, func(i, j int) bool {
		return s.Score(scored[i], now) > s.Score(scored[j], now)
	})

	top := topPoolSize
	if len(scored) < top {
		top = len(scored)
	}
	return scored[s.intn(top)].Question, true
}

func (s *Selector) intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// Score computes the priority of a candidate at the given time. Exported so
// tests can assert the band ordering directly.
func (s *Selector) Score(c Candidate, now time.Time) float64 {
	h := c.History
	if h == nil || h.TimesSeen == 0 {
		return unseenPriority
	}
	if h.TimesCorrect == 0 {
		// Missed and never answered correctly: revisit, older misses first.
		return missedPriority + recencyBonus(h.LastSeenAt, now)
	}
	// Mastered: lowest band, decreasing with each correct repeat.
	score := masteredBase - masteredStep*float64(h.TimesCorrect)
	if score < masteredFloor {
		score = masteredFloor
	}
	return score
}

// recencyBonus grows monotonically with time since the last attempt and
// saturates at recencyBonusCap.
func recencyBonus(lastSeen *time.Time, now time.Time) float64 {
	if lastSeen == nil {
		return recencyBonusCap
	}
	days := now.Sub(*lastSeen).Hours() / 24
	if days < 0 {
		days = 0
	}
	bonus := days * recencyPerDay
	if bonus > recencyBonusCap {
		return recencyBonusCap
	}
	return bonus
}

// FallbackOrder returns the difficulties to try when serving a question: the
// requested difficulty, then the adjacent easier one, then the adjacent
// harder one.
func FallbackOrder(d models.Difficulty) []models.Difficulty {
	order := []models.Difficulty{d}
	if easier, ok := d.Easier(); ok {
		order = append(order, easier)
	}
	if harder, ok := d.Harder(); ok {
		order = append(order, harder)
	}
	return order
}

// ExposureMultiplier scales the reward for repeat exposures of a question:
// full credit the first time, diminishing returns after.
func ExposureMultiplier(priorExposures int) float64 {
	switch priorExposures {
	case 0:
		return 1.0
	case 1:
		return 0.7
	case 2:
		return 0.5
	default:
		return 0.3
	}
}
