package analysis

import (
	"time"

	"go.uber.org/zap"

	"github.com/hydrosense/irriga/internal/domain/models"
	"github.com/hydrosense/irriga/internal/engine"
	"github.com/hydrosense/irriga/pkg/clients/landsat"
)

// defaultSoilHealth feeds the NDVI estimate when the inventory leaves the
// soil health column blank.
const defaultSoilHealth = 0.7

// Snapshot is the validated, normalized engine input built from one pass over
// the field inventory.
type Snapshot struct {
	Fields      []models.FieldRecord
	AverageNDVI float64
	Warnings    []models.AllocationWarning
}

// BuildSnapshot converts loosely-typed observations into range-checked field
// records. Sub-scores are normalized against the snapshot's own maxima, so
// each cycle is self-contained: the strongest field of the cycle scores 1
// regardless of absolute units. Observations whose derived record fails
// validation are reported as warnings and left out; nothing is coerced.
func (s *FarmAnalysisService) BuildSnapshot(observations []models.RawFieldObservation) Snapshot {
	month := s.now().Month()

	type enriched struct {
		obs  models.RawFieldObservation
		ndvi float64
	}
	rows := make([]enriched, 0, len(observations))
	var maxYield, maxNDVI, maxMoisture float64
	for _, obs := range observations {
		ndvi := observedOrEstimatedNDVI(obs, month)
		rows = append(rows, enriched{obs: obs, ndvi: ndvi})
		if obs.HistoricalYieldTPH > maxYield {
			maxYield = obs.HistoricalYieldTPH
		}
		if ndvi > maxNDVI {
			maxNDVI = ndvi
		}
		if obs.SoilMoisture > maxMoisture {
			maxMoisture = obs.SoilMoisture
		}
	}

	snapshot := Snapshot{Fields: make([]models.FieldRecord, 0, len(rows))}
	var ndviTotal float64
	for _, row := range rows {
		record := models.FieldRecord{
			ID:               row.obs.Name,
			YieldScore:       normalizedShare(row.obs.HistoricalYieldTPH, maxYield),
			HealthScore:      normalizedShare(row.ndvi, maxNDVI),
			MoistureScore:    normalizedShare(row.obs.SoilMoisture, maxMoisture),
			DroughtRiskScore: row.obs.DroughtRisk,
		}
		if row.obs.WaterRequirementM3 != nil {
			record.WaterRequirementM3 = *row.obs.WaterRequirementM3
		} else {
			record.WaterRequirementM3 = row.obs.AreaHectares * s.allocation.DemandM3PerHa
		}

		if err := engine.ValidateField(record); err != nil {
			snapshot.Warnings = append(snapshot.Warnings, engine.WarningFor(record.ID, err))
			s.logger.Debug("field excluded from snapshot", zap.String("field", record.ID), zap.Error(err))
			continue
		}
		snapshot.Fields = append(snapshot.Fields, record)
		ndviTotal += row.ndvi
	}

	if len(snapshot.Fields) > 0 {
		snapshot.AverageNDVI = ndviTotal / float64(len(snapshot.Fields))
	}
	return snapshot
}

func observedOrEstimatedNDVI(obs models.RawFieldObservation, month time.Month) float64 {
	if obs.NDVI != nil {
		return *obs.NDVI
	}
	soilHealth := defaultSoilHealth
	if obs.SoilHealth != nil {
		soilHealth = *obs.SoilHealth
	}
	return landsat.EstimateNDVI(soilHealth, obs.HistoricalYieldTPH, month)
}

// normalizedShare scales v against the snapshot maximum. A non-positive
// maximum means no field has a positive value in that column, so every field
// scores 0 there. Negative inputs produce a negative share that validation
// rejects downstream.
func normalizedShare(v, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return v / max
}
