package engine

import "github.com/hydrosense/irriga/internal/domain/models"

// StressThresholds configures the stress classification cut-offs so regions
// can calibrate them without recompiling. Moisture values are exclusive upper
// bounds on moisture_score; shortfall values are exclusive lower bounds on the
// unmet fraction of the requirement.
type StressThresholds struct {
	HighMoisture    float64 `json:"high_moisture"`
	HighShortfall   float64 `json:"high_shortfall"`
	MediumMoisture  float64 `json:"medium_moisture"`
	MediumShortfall float64 `json:"medium_shortfall"`
}

// DefaultStressThresholds returns the standard calibration.
func DefaultStressThresholds() StressThresholds {
	return StressThresholds{
		HighMoisture:    0.4,
		HighShortfall:   0.5,
		MediumMoisture:  0.6,
		MediumShortfall: 0.25,
	}
}

// ShortfallRatio is the fraction of a field's requirement left unmet after
// allocation. A requirement of zero means nothing was demanded, so the
// shortfall is zero regardless of the grant.
func ShortfallRatio(allocatedM3, requirementM3 float64) float64 {
	if requirementM3 <= 0 {
		return 0
	}
	return 1 - allocatedM3/requirementM3
}

// Classify grades a field's post-allocation water deficit. Dry fields with a
// large unmet demand classify high; any unmet demand or sub-threshold moisture
// classifies at least low.
func (t StressThresholds) Classify(f models.FieldRecord, allocatedM3 float64) models.StressLevel {
	shortfall := ShortfallRatio(allocatedM3, f.WaterRequirementM3)
	switch {
	case f.MoistureScore < t.HighMoisture && shortfall > t.HighShortfall:
		return models.StressHigh
	case f.MoistureScore < t.MediumMoisture && shortfall > t.MediumShortfall:
		return models.StressMedium
	case shortfall > 0 || f.MoistureScore < t.MediumMoisture:
		return models.StressLow
	default:
		return models.StressNone
	}
}
