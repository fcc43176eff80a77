package models

import "time"

// AllocationReport is the persisted record of one completed computation cycle.
type AllocationReport struct {
	ReportID           string              `bson:"report_id" json:"report_id"`
	FarmName           string              `bson:"farm_name" json:"farm_name"`
	GeneratedAt        time.Time           `bson:"generated_at" json:"generated_at"`
	TotalFields        int                 `bson:"total_fields" json:"total_fields"`
	TotalAvailableM3   float64             `bson:"total_available_m3" json:"total_available_m3"`
	TotalAllocatedM3   float64             `bson:"total_allocated_m3" json:"total_allocated_m3"`
	TotalRequiredM3    float64             `bson:"total_required_m3" json:"total_required_m3"`
	AllocationRate     float64             `bson:"allocation_rate" json:"allocation_rate"`
	AverageNDVI        float64             `bson:"average_ndvi" json:"average_ndvi"`
	HighPriorityCount  int                 `bson:"high_priority_count" json:"high_priority_count"`
	WaterStressCount   int                 `bson:"water_stress_count" json:"water_stress_count"`
	Entries            []AllocationEntry   `bson:"entries" json:"entries"`
	Warnings           []AllocationWarning `bson:"warnings,omitempty" json:"warnings,omitempty"`
}

// DashboardSummary carries the headline figures shown on the farm dashboard.
type DashboardSummary struct {
	TotalFields         int     `json:"total_fields"`
	TotalWaterAllocated float64 `json:"total_water_allocated"`
	AverageNDVI         float64 `json:"average_ndvi"`
	HighPriorityZones   int     `json:"high_priority_zones"`
	WaterStressCount    int     `json:"water_stress_count"`
}

// DashboardData bundles the latest report with its summary for the dashboard
// endpoint. GeneratedAt mirrors the report timestamp so stale data is visible,
// and warnings ride along so excluded fields never vanish from view.
type DashboardData struct {
	Summary     DashboardSummary    `json:"summary"`
	GeneratedAt time.Time           `json:"generated_at"`
	Entries     []AllocationEntry   `json:"entries"`
	Warnings    []AllocationWarning `json:"warnings,omitempty"`
}
