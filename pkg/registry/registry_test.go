// pkg/registry/registry_test.go
package registry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mergeduplicategroup "factory-match-workers/internal/workers/dedup/merge-duplicate-group"
	scanduplicates "factory-match-workers/internal/workers/dedup/scan-duplicates"
	rankfactories "factory-match-workers/internal/workers/matching/rank-factories"
)

func TestDefault(t *testing.T) {
	reg := Default()

	require.Len(t, reg.Activities, 3)
	for _, a := range reg.Activities {
		assert.NotEmpty(t, a.TaskType)
		assert.Equal(t, "implemented", a.ImplementationStatus)
	}
}

func TestDefault_CoversAllWorkerTaskTypes(t *testing.T) {
	// The worker manager looks every registered task type up in the catalog
	// before opening its job worker.
	reg := Default()

	for _, taskType := range []string{
		rankfactories.TaskType,
		scanduplicates.TaskType,
		mergeduplicategroup.TaskType,
	} {
		_, err := reg.FindByTaskType(taskType)
		assert.NoError(t, err, taskType)
	}
}

func TestFindByTaskType(t *testing.T) {
	reg := Default()

	a, err := reg.FindByTaskType("rank-factories")
	require.NoError(t, err)
	assert.Equal(t, "matching", a.Category)

	_, err = reg.FindByTaskType("unknown-task")
	assert.Error(t, err)
}

func TestLoadRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activities.json")
	data, err := json.Marshal(Default())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	reg, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Len(t, reg.Activities, 3)

	_, err = LoadRegistry(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
