package models

// FieldRecord is one validated management zone entering a computation cycle.
// The four sub-scores are normalized to [0,1] at the ingestion boundary; the
// engine rejects anything outside that range rather than coercing it.
type FieldRecord struct {
	ID                 string  `json:"field_id"`
	YieldScore         float64 `json:"yield_score"`
	HealthScore        float64 `json:"health_score"`
	MoistureScore      float64 `json:"moisture_score"`
	DroughtRiskScore   float64 `json:"drought_risk_score"`
	WaterRequirementM3 float64 `json:"water_requirement_m3"`
}

// ScoredField pairs a field with its composite priority score.
type ScoredField struct {
	FieldRecord
	PriorityScore float64 `json:"priority_score"`
}

// RawFieldObservation is one loosely-typed inventory row as it arrives from
// the field source, before boundary validation and normalization. NDVI, soil
// health and the explicit water requirement are optional; missing values are
// filled from the satellite estimate, a regional default and the per-hectare
// demand rule respectively.
type RawFieldObservation struct {
	Name               string
	AreaHectares       float64
	SoilMoisture       float64
	NDVI               *float64
	HistoricalYieldTPH float64
	WaterRequirementM3 *float64
	DroughtRisk        float64
	SoilHealth         *float64
}
