package engine

import (
	"fmt"
	"math"

	"github.com/hydrosense/irriga/internal/domain/models"
)

// weightSumTolerance absorbs float rounding when checking that weights sum to 1.
const weightSumTolerance = 1e-9

// Weights holds the contribution of each sub-score to the composite priority.
// DroughtRisk carries a positive weight, so higher climate vulnerability raises
// a field's priority. That is the calibrated production formula carried over
// as-is; see DESIGN.md before changing the sign.
type Weights struct {
	Yield       float64 `json:"yield"`
	Health      float64 `json:"health"`
	Moisture    float64 `json:"moisture"`
	DroughtRisk float64 `json:"drought_risk"`
}

// DefaultWeights returns the calibrated production weights.
func DefaultWeights() Weights {
	return Weights{Yield: 0.35, Health: 0.30, Moisture: 0.25, DroughtRisk: 0.10}
}

// Sum returns the total of the four weights.
func (w Weights) Sum() float64 {
	return w.Yield + w.Health + w.Moisture + w.DroughtRisk
}

// Validate checks that the weights are finite and sum to 1.0 within tolerance.
func (w Weights) Validate() error {
	sum := w.Sum()
	if math.IsNaN(sum) || math.IsInf(sum, 0) {
		return fmt.Errorf("%w: sum is not finite", ErrWeightConfiguration)
	}
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("%w: got %.6f", ErrWeightConfiguration, sum)
	}
	return nil
}

// ScoreEngine computes composite priority scores from the four weighted
// sub-scores. Weights are fixed at construction, so a single instance is safe
// for concurrent use.
type ScoreEngine struct {
	weights Weights
}

// NewScoreEngine validates the weights and returns a scorer using them.
func NewScoreEngine(weights Weights) (*ScoreEngine, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &ScoreEngine{weights: weights}, nil
}

// Score derives the composite priority for one field. Each of the four
// sub-scores must lie in [0,1]; a violation returns a FieldValidationError
// wrapping ErrScoreOutOfRange that names the offending attribute.
func (s *ScoreEngine) Score(f models.FieldRecord) (float64, error) {
	if err := validateSubScores(f); err != nil {
		return 0, err
	}
	w := s.weights
	return w.Yield*f.YieldScore +
		w.Health*f.HealthScore +
		w.Moisture*f.MoistureScore +
		w.DroughtRisk*f.DroughtRiskScore, nil
}

// ValidateField range-checks one field at the ingestion boundary: the four
// sub-scores in [0,1] and a non-negative water requirement. Out-of-range
// values are rejected, never coerced.
func ValidateField(f models.FieldRecord) error {
	if err := validateSubScores(f); err != nil {
		return err
	}
	if f.WaterRequirementM3 < 0 || math.IsNaN(f.WaterRequirementM3) {
		return &FieldValidationError{
			FieldID:   f.ID,
			Attribute: "water_requirement_m3",
			Value:     f.WaterRequirementM3,
			Err:       ErrAllocationInput,
		}
	}
	return nil
}

func validateSubScores(f models.FieldRecord) error {
	checks := []struct {
		attribute string
		value     float64
	}{
		{"yield_score", f.YieldScore},
		{"health_score", f.HealthScore},
		{"moisture_score", f.MoistureScore},
		{"drought_risk_score", f.DroughtRiskScore},
	}
	for _, c := range checks {
		if c.value < 0 || c.value > 1 || math.IsNaN(c.value) {
			return &FieldValidationError{
				FieldID:   f.ID,
				Attribute: c.attribute,
				Value:     c.value,
				Err:       ErrScoreOutOfRange,
			}
		}
	}
	return nil
}
