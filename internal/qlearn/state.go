package qlearn

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"math"

	"github.com/adaptquiz/adaptquiz/internal/models"
)

// Caps on unbounded counters keep the reachable state space small enough for
// tabular storage.
const (
	statePrecision  = 3
	maxHintsUsed    = 20
	maxStreak       = 20
	maxWrongStreak  = 20
	maxAttemptCount = 100
)

// State is the fixed-arity snapshot of a learner used as the lookup key for
// learned values. All continuous fields are rounded so that equal underlying
// profiles hash to equal states.
type State struct {
	Level            models.Level `json:"level"`
	OverallAccuracy  float64      `json:"overall_accuracy"`
	EasyAccuracy     float64      `json:"easy_accuracy"`
	MediumAccuracy   float64      `json:"medium_accuracy"`
	HardAccuracy     float64      `json:"hard_accuracy"`
	AvgResponseTime  float64      `json:"avg_response_time"`
	HintsUsed        int          `json:"hints_used"`
	CurrentStreak    int          `json:"current_streak"`
	PerformanceTrend float64      `json:"performance_trend"`
	ConsecutiveWrong int          `json:"consecutive_wrong"`
	EasyTrend        float64      `json:"easy_trend"`
	MediumTrend      float64      `json:"medium_trend"`
	HardTrend        float64      `json:"hard_trend"`
	TotalAttempts    int          `json:"total_attempts"`
}

// Encode builds the state for a profile snapshot. Pure and deterministic:
// two profiles differing only past the third decimal encode identically.
func Encode(p models.PerformanceProfile) State {
	return State{
		Level:            p.Level,
		OverallAccuracy:  roundTo(clamp(p.OverallAccuracy, 0, 1), statePrecision),
		EasyAccuracy:     roundTo(clamp(p.EasyAccuracy, 0, 1), statePrecision),
		MediumAccuracy:   roundTo(clamp(p.MediumAccuracy, 0, 1), statePrecision),
		HardAccuracy:     roundTo(clamp(p.HardAccuracy, 0, 1), statePrecision),
		AvgResponseTime:  roundTo(math.Max(p.AvgResponseTime, 0), statePrecision),
		HintsUsed:        capInt(p.HintsUsed, maxHintsUsed),
		CurrentStreak:    capInt(p.CurrentStreak, maxStreak),
		PerformanceTrend: roundTo(clamp(p.PerformanceTrend, -1, 1), statePrecision),
		ConsecutiveWrong: capInt(p.ConsecutiveWrong, maxWrongStreak),
		EasyTrend:        roundTo(clamp(p.EasyTrend, -1, 1), statePrecision),
		MediumTrend:      roundTo(clamp(p.MediumTrend, -1, 1), statePrecision),
		HardTrend:        roundTo(clamp(p.HardTrend, -1, 1), statePrecision),
		TotalAttempts:    capInt(p.TotalAttempts, maxAttemptCount),
	}
}

// Hash returns a deterministic 32-character hex digest of the state. Struct
// fields marshal in declaration order, so equal states hash equally.
func (s State) Hash() string {
	data, err := json.Marshal(s)
	if err != nil {
		// Marshaling a struct of plain fields cannot fail.
		panic(err)
	}
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// roundTo rounds half away from zero at the given number of decimals. The
// scaled value is nudged outward before rounding so products that land a few
// ulps short of an exact half (-1.5*0.7 is -1.0499999999999998) still round
// away from zero.
func roundTo(v float64, digits int) float64 {
	scale := math.Pow(10, float64(digits))
	scaled := v * scale
	scaled += math.Copysign(1e-9, scaled)
	return math.Round(scaled) / scale
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func capInt(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
