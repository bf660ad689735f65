package risk

import (
	"math/rand"
	"time"

	"github.com/collectra/backend/internal/types"
)

const (
	noiseSpread    = 0.075
	minProbability = 0.2
	maxProbability = 1.0
)

// NoiseSource supplies the jitter applied to recovery probability estimates.
// Float64 must return a value in [0, 1). Injectable so tests can fix the draw.
type NoiseSource interface {
	Float64() float64
}

// SystemNoise returns a pseudo-random source for production use. A zero seed
// selects a time-based one; any other value makes runs reproducible.
func SystemNoise(seed uint64) NoiseSource {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewSource(int64(seed)))
}

// Classifier derives a risk tier and recovery-probability estimate from a
// case's monetary amount and age. Pure apart from the injected noise draw.
type Classifier struct {
	noise NoiseSource
}

// NewClassifier creates a classifier backed by the given noise source
func NewClassifier(noise NoiseSource) *Classifier {
	return &Classifier{noise: noise}
}

// Classify maps amount and age to a tier and a recovery probability in [0.2, 1.0]
func (c *Classifier) Classify(amount float64, ageDays int) (types.RiskTier, float64) {
	return TierFor(amount, ageDays), c.recoveryProbability(amount, ageDays)
}

// TierFor evaluates the tier thresholds in order; first match wins
func TierFor(amount float64, ageDays int) types.RiskTier {
	switch {
	case amount > 100000 || ageDays > 180:
		return types.TierCritical
	case amount > 50000 || ageDays > 120:
		return types.TierHigh
	case amount > 20000 || ageDays > 60:
		return types.TierMedium
	default:
		return types.TierLow
	}
}

// recoveryProbability decays with age and amount, then jitters and clamps.
// Older and larger debts are harder to recover.
func (c *Classifier) recoveryProbability(amount float64, ageDays int) float64 {
	ageFactor := min(float64(ageDays)/360.0, 0.5)
	amountFactor := min(amount/500000.0, 0.4)

	base := (1 - ageFactor) * (1 - amountFactor)
	noise := (c.noise.Float64()*2 - 1) * noiseSpread

	p := base + noise
	if p < minProbability {
		p = minProbability
	}
	if p > maxProbability {
		p = maxProbability
	}
	return p
}
