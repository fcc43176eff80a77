package config

import (
	"strings"
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GOOGLE_SHEETS_CREDENTIALS_PATH", "/tmp/credentials.json")
	t.Setenv("GOOGLE_SHEET_DATABASE_ID", "sheet-id")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q, want %q", cfg.Server.Port, "8080")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.Engine.WeightYield != 0.35 || cfg.Engine.WeightHealth != 0.30 ||
		cfg.Engine.WeightMoisture != 0.25 || cfg.Engine.WeightDroughtRisk != 0.10 {
		t.Errorf("default weights = %+v, want 0.35/0.30/0.25/0.10", cfg.Engine)
	}
	if cfg.Allocation.TotalAvailableM3 != 5000 {
		t.Errorf("Allocation.TotalAvailableM3 = %v, want 5000", cfg.Allocation.TotalAvailableM3)
	}
	if cfg.Allocation.DemandM3PerHa != 15 {
		t.Errorf("Allocation.DemandM3PerHa = %v, want 15", cfg.Allocation.DemandM3PerHa)
	}
	if cfg.Reporting.CronSchedule != "0 5 * * *" {
		t.Errorf("Reporting.CronSchedule = %q, want %q", cfg.Reporting.CronSchedule, "0 5 * * *")
	}
	if cfg.Sheets.FieldRange != "Fields!A2:H" {
		t.Errorf("Sheets.FieldRange = %q, want %q", cfg.Sheets.FieldRange, "Fields!A2:H")
	}
	if cfg.Landsat.MaxCloudCover != 20 {
		t.Errorf("Landsat.MaxCloudCover = %v, want 20", cfg.Landsat.MaxCloudCover)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_PORT", "9090")
	t.Setenv("SCORE_WEIGHT_YIELD", "0.40")
	t.Setenv("SCORE_WEIGHT_HEALTH", "0.30")
	t.Setenv("SCORE_WEIGHT_MOISTURE", "0.20")
	t.Setenv("SCORE_WEIGHT_DROUGHT_RISK", "0.10")
	t.Setenv("TOTAL_AVAILABLE_WATER_M3", "1200.5")
	t.Setenv("STRESS_HIGH_MOISTURE", "0.35")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Server.Port = %q, want %q", cfg.Server.Port, "9090")
	}
	if cfg.Engine.WeightYield != 0.40 {
		t.Errorf("Engine.WeightYield = %v, want 0.40", cfg.Engine.WeightYield)
	}
	if cfg.Allocation.TotalAvailableM3 != 1200.5 {
		t.Errorf("Allocation.TotalAvailableM3 = %v, want 1200.5", cfg.Allocation.TotalAvailableM3)
	}
	if cfg.Engine.StressHighMoisture != 0.35 {
		t.Errorf("Engine.StressHighMoisture = %v, want 0.35", cfg.Engine.StressHighMoisture)
	}
}

func TestLoadRejectsNonNumericValue(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SCORE_WEIGHT_YIELD", "plenty")

	_, err := Load("")
	if err == nil {
		t.Fatal("Load() succeeded with a non-numeric weight")
	}
	if !strings.Contains(err.Error(), "SCORE_WEIGHT_YIELD") {
		t.Errorf("error %q does not name the offending variable", err)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:     ServerConfig{Port: "8080"},
			Farm:       FarmConfig{Name: "Test Farm"},
			Engine:     EngineConfig{WeightYield: 0.35, WeightHealth: 0.30, WeightMoisture: 0.25, WeightDroughtRisk: 0.10},
			Allocation: AllocationConfig{TotalAvailableM3: 5000, DemandM3PerHa: 15},
			Sheets:     SheetsConfig{CredentialsPath: "/tmp/c.json", SpreadsheetID: "id", FieldRange: "Fields!A2:H"},
			Landsat:    LandsatConfig{BaseURL: "https://landsatlook.usgs.gov/stac-server", MaxCloudCover: 20},
			Reporting:  ReportingConfig{CronSchedule: "0 5 * * *", Timezone: "Africa/Conakry"},
			MongoDB:    MongoDBConfig{URI: "mongodb://localhost:27017", DBName: "irriga"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing port",
			mutate:  func(c *Config) { c.Server.Port = "" },
			wantErr: "APP_PORT",
		},
		{
			name:    "negative water budget",
			mutate:  func(c *Config) { c.Allocation.TotalAvailableM3 = -1 },
			wantErr: "TOTAL_AVAILABLE_WATER_M3",
		},
		{
			name:    "zero demand rule",
			mutate:  func(c *Config) { c.Allocation.DemandM3PerHa = 0 },
			wantErr: "WATER_DEMAND_M3_PER_HA",
		},
		{
			name:    "missing sheet credentials",
			mutate:  func(c *Config) { c.Sheets.CredentialsPath = "" },
			wantErr: "GOOGLE_SHEETS_CREDENTIALS_PATH",
		},
		{
			name:    "cloud cover above 100",
			mutate:  func(c *Config) { c.Landsat.MaxCloudCover = 140 },
			wantErr: "LANDSAT_MAX_CLOUD_COVER",
		},
		{
			name:    "missing mongo uri",
			mutate:  func(c *Config) { c.MongoDB.URI = "" },
			wantErr: "MONGODB_URI",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() succeeded unexpectedly")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want mention of %q", err, tt.wantErr)
			}
		})
	}
}
