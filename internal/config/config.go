package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server     ServerConfig
	Logging    LoggingConfig
	Farm       FarmConfig
	Engine     EngineConfig
	Allocation AllocationConfig
	Sheets     SheetsConfig
	Landsat    LandsatConfig
	Reporting  ReportingConfig
	MongoDB    MongoDBConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// LoggingConfig holds structured logging options.
type LoggingConfig struct {
	Level string
}

// FarmConfig identifies the farm this deployment computes allocations for.
type FarmConfig struct {
	Name string
}

// EngineConfig carries the scoring weights and stress thresholds. The weights
// must sum to 1.0; that rule is enforced by the engine at startup, not here.
type EngineConfig struct {
	WeightYield           float64
	WeightHealth          float64
	WeightMoisture        float64
	WeightDroughtRisk     float64
	StressHighMoisture    float64
	StressHighShortfall   float64
	StressMediumMoisture  float64
	StressMediumShortfall float64
}

// AllocationConfig holds the cycle water budget and the per-hectare demand
// rule used when a field carries no explicit requirement.
type AllocationConfig struct {
	TotalAvailableM3 float64
	DemandM3PerHa    float64
}

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	FieldRange      string
}

// LandsatConfig holds options for the Landsat STAC catalog client.
type LandsatConfig struct {
	BaseURL       string
	MaxCloudCover float64
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	CronSchedule string
	Timezone     string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	var fe floatEnv
	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Logging: LoggingConfig{
			Level: getenvWithDefault("LOG_LEVEL", "info"),
		},
		Farm: FarmConfig{
			Name: getenvWithDefault("FARM_NAME", "Drought-Prone Valley Farm"),
		},
		Engine: EngineConfig{
			WeightYield:           fe.get("SCORE_WEIGHT_YIELD", 0.35),
			WeightHealth:          fe.get("SCORE_WEIGHT_HEALTH", 0.30),
			WeightMoisture:        fe.get("SCORE_WEIGHT_MOISTURE", 0.25),
			WeightDroughtRisk:     fe.get("SCORE_WEIGHT_DROUGHT_RISK", 0.10),
			StressHighMoisture:    fe.get("STRESS_HIGH_MOISTURE", 0.4),
			StressHighShortfall:   fe.get("STRESS_HIGH_SHORTFALL", 0.5),
			StressMediumMoisture:  fe.get("STRESS_MEDIUM_MOISTURE", 0.6),
			StressMediumShortfall: fe.get("STRESS_MEDIUM_SHORTFALL", 0.25),
		},
		Allocation: AllocationConfig{
			TotalAvailableM3: fe.get("TOTAL_AVAILABLE_WATER_M3", 5000),
			DemandM3PerHa:    fe.get("WATER_DEMAND_M3_PER_HA", 15),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
			FieldRange:      getenvWithDefault("GOOGLE_SHEET_FIELD_RANGE", "Fields!A2:H"),
		},
		Landsat: LandsatConfig{
			BaseURL:       getenvWithDefault("LANDSAT_STAC_BASE_URL", "https://landsatlook.usgs.gov/stac-server"),
			MaxCloudCover: fe.get("LANDSAT_MAX_CLOUD_COVER", 20),
		},
		Reporting: ReportingConfig{
			CronSchedule: getenvWithDefault("REPORT_CRON_SCHEDULE", "0 5 * * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "Africa/Conakry"),
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "irriga"),
		},
	}
	if fe.err != nil {
		return nil, fe.err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated and that
// numeric settings are in a usable range. Weight-sum validation belongs to the
// engine, which rejects a bad combination before any cycle runs.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.Farm.Name == "" {
		return errors.New("FARM_NAME must not be empty")
	}

	if c.Allocation.TotalAvailableM3 < 0 {
		return errors.New("TOTAL_AVAILABLE_WATER_M3 must not be negative")
	}

	if c.Allocation.DemandM3PerHa <= 0 {
		return errors.New("WATER_DEMAND_M3_PER_HA must be positive")
	}

	if c.Sheets.CredentialsPath == "" {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided")
	}

	if c.Sheets.SpreadsheetID == "" {
		return errors.New("GOOGLE_SHEET_DATABASE_ID must be provided")
	}

	if c.Sheets.FieldRange == "" {
		return errors.New("GOOGLE_SHEET_FIELD_RANGE must not be empty")
	}

	if c.Landsat.BaseURL == "" {
		return errors.New("LANDSAT_STAC_BASE_URL must not be empty")
	}

	if c.Landsat.MaxCloudCover < 0 || c.Landsat.MaxCloudCover > 100 {
		return errors.New("LANDSAT_MAX_CLOUD_COVER must be between 0 and 100")
	}

	if c.Reporting.CronSchedule == "" {
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	}

	if c.Reporting.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	if c.MongoDB.URI == "" {
		return errors.New("MONGODB_URI must be provided")
	}

	if c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// floatEnv parses float variables and keeps the first failure so Load can
// report it once instead of panicking mid-construction.
type floatEnv struct {
	err error
}

func (fe *floatEnv) get(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		if fe.err == nil {
			fe.err = fmt.Errorf("%s must be a number, got %q", key, raw)
		}
		return fallback
	}
	return value
}
