// Package engine implements the irrigation priority-scoring and constrained
// water-allocation core. Each run is a pure computation over an immutable
// snapshot of field records: score every field, rank them, distribute the
// water budget greedily, then classify post-allocation stress. The engine
// holds no cross-cycle state, so concurrent runs never interfere.
package engine

import (
	"errors"

	"github.com/hydrosense/irriga/internal/domain/models"
)

// Config bundles the tunable constants for one engine instance. It is copied
// at construction and never mutated, so instances with different calibrations
// can run side by side.
type Config struct {
	Weights Weights
	Stress  StressThresholds
}

// DefaultConfig returns the calibrated production configuration.
func DefaultConfig() Config {
	return Config{Weights: DefaultWeights(), Stress: DefaultStressThresholds()}
}

// Engine runs the scoring, allocation and stress pipeline over field
// snapshots. Safe for concurrent use.
type Engine struct {
	scorer *ScoreEngine
	stress StressThresholds
}

// New validates cfg and returns a ready engine. Weight misconfiguration is
// fatal here rather than at run time because it would invalidate every
// derived score.
func New(cfg Config) (*Engine, error) {
	scorer, err := NewScoreEngine(cfg.Weights)
	if err != nil {
		return nil, err
	}
	return &Engine{scorer: scorer, stress: cfg.Stress}, nil
}

// Run executes one computation cycle over the snapshot. Fields that fail
// validation are excluded and reported as warnings on the batch rather than
// aborting the cycle; a negative budget fails the whole call.
func (e *Engine) Run(fields []models.FieldRecord, totalAvailableM3 float64) (models.AllocationBatch, error) {
	if err := checkBudget(totalAvailableM3); err != nil {
		return models.AllocationBatch{}, err
	}

	scored := make([]models.ScoredField, 0, len(fields))
	byID := make(map[string]models.FieldRecord, len(fields))
	var warnings []models.AllocationWarning
	for _, f := range fields {
		priority, err := e.scorer.Score(f)
		if err != nil {
			warnings = append(warnings, WarningFor(f.ID, err))
			continue
		}
		scored = append(scored, models.ScoredField{FieldRecord: f, PriorityScore: priority})
		byID[f.ID] = f
	}

	batch, err := Allocate(scored, totalAvailableM3)
	if err != nil {
		return models.AllocationBatch{}, err
	}
	batch.Warnings = append(warnings, batch.Warnings...)

	for i, entry := range batch.Entries {
		f, ok := byID[entry.FieldID]
		if !ok {
			continue
		}
		batch.Entries[i].StressLevel = e.stress.Classify(f, entry.AllocatedWaterM3)
	}
	return batch, nil
}

// WarningFor converts a per-field validation failure into the warning record
// attached to batches and reports, so every layer surfaces exclusions the
// same way.
func WarningFor(fieldID string, err error) models.AllocationWarning {
	var ferr *FieldValidationError
	if errors.As(err, &ferr) {
		return models.AllocationWarning{
			FieldID:   ferr.FieldID,
			Attribute: ferr.Attribute,
			Reason:    err.Error(),
		}
	}
	return models.AllocationWarning{FieldID: fieldID, Reason: err.Error()}
}
