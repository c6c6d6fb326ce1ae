// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
)

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	err = json.Unmarshal(data, &reg)
	return &reg, err
}

// FindByTaskType returns the activity registered for a Zeebe task type.
func (r *ActivityRegistry) FindByTaskType(taskType string) (*Activity, error) {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i], nil
		}
	}
	return nil, fmt.Errorf("no activity registered for task type %q", taskType)
}

// Default describes the engine activities shipped with this service. The
// worker manager refuses to start a worker whose task type is absent here,
// and serves the catalog on its /activities endpoint for modeling tools.
func Default() *ActivityRegistry {
	return &ActivityRegistry{
		Version: "1.0.0",
		Activities: []Activity{
			{
				ID:                   "rank-factories",
				DisplayName:          "Rank Factories",
				Description:          "Scores the approved factory roster against an invention query and returns a ranked shortlist",
				Category:             "matching",
				Version:              "1.0.0",
				TaskType:             "rank-factories",
				ImplementationStatus: "implemented",
				ErrorCodes:           []string{"VALIDATION_ERROR", "TECHNICAL_ERROR"},
				Timeout:              "30s",
				Retries:              3,
				Workflows:            []string{"invention-intake"},
				Tags:                 []string{"matching", "ranking"},
			},
			{
				ID:                   "scan-duplicates",
				DisplayName:          "Scan Duplicates",
				Description:          "Runs a pairwise duplicate scan over the full factory roster and reports suspect groups",
				Category:             "dedup",
				Version:              "1.0.0",
				TaskType:             "scan-duplicates",
				ImplementationStatus: "implemented",
				ErrorCodes:           []string{"TECHNICAL_ERROR", "SCAN_FAILED"},
				Timeout:              "5m",
				Retries:              3,
				Workflows:            []string{"roster-maintenance"},
				Tags:                 []string{"dedup", "scan"},
			},
			{
				ID:                   "merge-duplicate-group",
				DisplayName:          "Merge Duplicate Group",
				Description:          "Resolves a confirmed duplicate group by deleting the suspect records",
				Category:             "dedup",
				Version:              "1.0.0",
				TaskType:             "merge-duplicate-group",
				ImplementationStatus: "implemented",
				ErrorCodes:           []string{"VALIDATION_ERROR", "TECHNICAL_ERROR"},
				Timeout:              "30s",
				Retries:              3,
				Workflows:            []string{"roster-maintenance"},
				Tags:                 []string{"dedup", "merge"},
			},
		},
	}
}
