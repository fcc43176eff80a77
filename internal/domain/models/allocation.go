package models

// StressLevel classifies the severity of a field's water deficit after allocation.
type StressLevel string

const (
	StressNone   StressLevel = "none"
	StressLow    StressLevel = "low"
	StressMedium StressLevel = "medium"
	StressHigh   StressLevel = "high"
)

// AllocationEntry is the allocation outcome for a single field.
type AllocationEntry struct {
	FieldID            string      `json:"field_id"`
	PriorityScore      float64     `json:"priority_score"`
	AllocatedWaterM3   float64     `json:"allocated_water_m3"`
	WaterRequirementM3 float64     `json:"water_requirement_m3"`
	StressLevel        StressLevel `json:"stress_level"`
}

// AllocationWarning records a field that was excluded from a batch and why,
// so callers can surface partial results instead of silently dropping fields.
type AllocationWarning struct {
	FieldID   string `json:"field_id"`
	Attribute string `json:"attribute,omitempty"`
	Reason    string `json:"reason"`
}

// AllocationBatch is the complete result of one allocation cycle. Entries are
// ordered by allocation rank and the ordering is deterministic for a given
// input snapshot.
type AllocationBatch struct {
	TotalAvailableM3 float64             `json:"total_available_m3"`
	Entries          []AllocationEntry   `json:"entries"`
	AllocationRate   float64             `json:"allocation_rate"`
	Warnings         []AllocationWarning `json:"warnings,omitempty"`
}

// TotalAllocatedM3 sums the water granted across all entries.
func (b AllocationBatch) TotalAllocatedM3() float64 {
	var total float64
	for _, e := range b.Entries {
		total += e.AllocatedWaterM3
	}
	return total
}

// TotalRequiredM3 sums the full irrigation demand across all entries.
func (b AllocationBatch) TotalRequiredM3() float64 {
	var total float64
	for _, e := range b.Entries {
		total += e.WaterRequirementM3
	}
	return total
}

// CountByStress tallies entries at the given stress level.
func (b AllocationBatch) CountByStress(level StressLevel) int {
	var n int
	for _, e := range b.Entries {
		if e.StressLevel == level {
			n++
		}
	}
	return n
}
