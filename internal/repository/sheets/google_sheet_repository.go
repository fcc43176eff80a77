package sheets

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/hydrosense/irriga/internal/config"
	"github.com/hydrosense/irriga/internal/domain/models"
)

const allocationLogRange = "AllocationLog!A:G"

// Repository defines the spreadsheet operations backing the field inventory.
type Repository interface {
	FetchFieldObservations(ctx context.Context) ([]models.RawFieldObservation, error)
	AppendAllocationSummary(ctx context.Context, report models.AllocationReport) error
}

// GoogleSheetRepository implements the Repository interface using the official
// Google Sheets API. The inventory sheet carries one row per field: name,
// area (ha), soil moisture, NDVI, historical yield (t/ha), water requirement
// (m3), drought risk, soil health. NDVI, requirement and soil health may be
// left blank; downstream layers fill them in.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	fieldRange    string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed repository instance.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		fieldRange:    cfg.FieldRange,
		logger:        logger,
	}, nil
}

// FetchFieldObservations reads the inventory range and converts each row into
// a raw observation. Malformed rows are skipped, not fatal; agronomists edit
// this sheet by hand and a single typo must not block the cycle.
func (r *GoogleSheetRepository) FetchFieldObservations(ctx context.Context) ([]models.RawFieldObservation, error) {
	resp, err := r.service.Spreadsheets.Values.Get(r.spreadsheetID, r.fieldRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read field range %s: %w", r.fieldRange, err)
	}

	observations := make([]models.RawFieldObservation, 0, len(resp.Values))
	for i, row := range resp.Values {
		obs, err := parseFieldRow(row)
		if err != nil {
			r.logger.Debug("skip malformed field row", zap.Int("row", i+2), zap.Error(err))
			continue
		}
		observations = append(observations, obs)
	}

	return observations, nil
}

// AppendAllocationSummary logs one cycle's headline figures to the allocation
// log sheet so the history stays visible next to the inventory.
func (r *GoogleSheetRepository) AppendAllocationSummary(ctx context.Context, report models.AllocationReport) error {
	values := []interface{}{
		report.GeneratedAt.Format(time.RFC3339),
		report.FarmName,
		report.TotalFields,
		report.TotalAllocatedM3,
		report.TotalRequiredM3,
		report.AllocationRate,
		report.WaterStressCount,
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := r.service.Spreadsheets.Values.Append(r.spreadsheetID, allocationLogRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append allocation summary into range %s: %w", allocationLogRange, err)
	}

	r.logger.Debug("allocation summary appended", zap.String("range", allocationLogRange))
	return nil
}

func parseFieldRow(row []interface{}) (models.RawFieldObservation, error) {
	if len(row) < 7 {
		return models.RawFieldObservation{}, fmt.Errorf("expected at least 7 columns, got %d", len(row))
	}

	name := fmt.Sprint(row[0])
	if name == "" {
		return models.RawFieldObservation{}, fmt.Errorf("empty field name")
	}

	area, err := parseFloat(row[1])
	if err != nil {
		return models.RawFieldObservation{}, fmt.Errorf("area: %w", err)
	}
	moisture, err := parseFloat(row[2])
	if err != nil {
		return models.RawFieldObservation{}, fmt.Errorf("soil moisture: %w", err)
	}
	yield, err := parseFloat(row[4])
	if err != nil {
		return models.RawFieldObservation{}, fmt.Errorf("historical yield: %w", err)
	}
	risk, err := parseFloat(row[6])
	if err != nil {
		return models.RawFieldObservation{}, fmt.Errorf("drought risk: %w", err)
	}

	obs := models.RawFieldObservation{
		Name:               name,
		AreaHectares:       area,
		SoilMoisture:       moisture,
		HistoricalYieldTPH: yield,
		DroughtRisk:        risk,
	}

	if v, err := parseFloat(row[3]); err == nil {
		obs.NDVI = &v
	}
	if v, err := parseFloat(row[5]); err == nil {
		obs.WaterRequirementM3 = &v
	}
	if len(row) > 7 {
		if v, err := parseFloat(row[7]); err == nil {
			obs.SoilHealth = &v
		}
	}

	return obs, nil
}

func parseFloat(value interface{}) (float64, error) {
	str := fmt.Sprint(value)
	if str == "" {
		return 0, fmt.Errorf("empty numeric value")
	}
	return strconv.ParseFloat(str, 64)
}
