package models

// AllocationRequest is the payload for on-demand allocation runs via the API.
// A zero TotalAvailableM3 and an empty Fields slice are both legal inputs; the
// engine reports them as fully-starved and empty batches respectively.
type AllocationRequest struct {
	TotalAvailableM3 float64       `json:"total_available_m3"`
	Fields           []FieldRecord `json:"fields"`
}
