// internal/workers/dedup/scan-duplicates/models.go
package scanduplicates

import "factory-match-workers/internal/models"

type Input struct {
	ScanID string `json:"scanId,omitempty"`
}

type Output struct {
	ScanID          string                  `json:"scanId"`
	DuplicateGroups []models.DuplicateGroup `json:"duplicateGroups"`
	GroupCount      int                     `json:"groupCount"`
	RecordsScanned  int                     `json:"recordsScanned"`
}

// ProgressUpdate is the payload published to Redis while a scan runs, so the
// dashboard can poll it without touching the workflow engine.
type ProgressUpdate struct {
	ScanID    string  `json:"scanId"`
	Processed int     `json:"processed"`
	Total     int     `json:"total"`
	Percent   float64 `json:"percent"`
}
