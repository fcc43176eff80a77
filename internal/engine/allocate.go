package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/hydrosense/irriga/internal/domain/models"
)

// Allocate distributes a finite water budget across scored fields in priority
// order. Higher-priority fields are fully serviced before lower-priority ones:
// each field receives its full requirement while the budget lasts, the field
// that exhausts the budget receives the exact remainder, and every field
// ranked after it receives zero. There is no retroactive rebalancing.
//
// A negative budget fails the whole call. A field with an invalid requirement
// is excluded with a warning and the rest of the batch proceeds.
func Allocate(fields []models.ScoredField, totalAvailableM3 float64) (models.AllocationBatch, error) {
	if err := checkBudget(totalAvailableM3); err != nil {
		return models.AllocationBatch{}, err
	}

	batch := models.AllocationBatch{TotalAvailableM3: totalAvailableM3}
	ranked := make([]models.ScoredField, 0, len(fields))
	for _, f := range fields {
		if f.WaterRequirementM3 < 0 || math.IsNaN(f.WaterRequirementM3) {
			batch.Warnings = append(batch.Warnings, models.AllocationWarning{
				FieldID:   f.ID,
				Attribute: "water_requirement_m3",
				Reason:    fmt.Sprintf("invalid water requirement %g, field excluded", f.WaterRequirementM3),
			})
			continue
		}
		ranked = append(ranked, f)
	}
	rankFields(ranked)

	remaining := totalAvailableM3
	var allocated, required float64
	batch.Entries = make([]models.AllocationEntry, 0, len(ranked))
	for _, f := range ranked {
		grant := f.WaterRequirementM3
		if grant > remaining {
			grant = remaining
		}
		remaining -= grant
		allocated += grant
		required += f.WaterRequirementM3
		batch.Entries = append(batch.Entries, models.AllocationEntry{
			FieldID:            f.ID,
			PriorityScore:      f.PriorityScore,
			AllocatedWaterM3:   grant,
			WaterRequirementM3: f.WaterRequirementM3,
		})
	}
	if required > 0 {
		batch.AllocationRate = allocated / required
	}
	return batch, nil
}

// rankFields sorts in place: priority descending, then requirement ascending
// so small demands of equal priority are saturated first, then id ascending.
// The result is a total order, so allocation is deterministic per snapshot.
func rankFields(fields []models.ScoredField) {
	sort.Slice(fields, func(i, j int) bool {
		a, b := fields[i], fields[j]
		if a.PriorityScore != b.PriorityScore {
			return a.PriorityScore > b.PriorityScore
		}
		if a.WaterRequirementM3 != b.WaterRequirementM3 {
			return a.WaterRequirementM3 < b.WaterRequirementM3
		}
		return a.ID < b.ID
	})
}

func checkBudget(totalAvailableM3 float64) error {
	if totalAvailableM3 < 0 || math.IsNaN(totalAvailableM3) {
		return fmt.Errorf("%w: total_available_m3 %g must be non-negative", ErrAllocationInput, totalAvailableM3)
	}
	return nil
}
