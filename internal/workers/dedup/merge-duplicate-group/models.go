// internal/workers/dedup/merge-duplicate-group/models.go
package mergeduplicategroup

// Input names the record to keep and the suspects to remove. SuspectIDs stays
// loosely typed for the same legacy reason as roster list fields.
type Input struct {
	PrimaryID  string      `json:"primaryId"`
	SuspectIDs interface{} `json:"suspectIds"`
}

type Output struct {
	PrimaryID    string `json:"primaryId"`
	RemovedCount int    `json:"removedCount"`
	Merged       bool   `json:"merged"`
}
