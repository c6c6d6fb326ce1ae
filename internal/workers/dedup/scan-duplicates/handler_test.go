// internal/workers/dedup/scan-duplicates/handler_test.go
package scanduplicates

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "factory-match-workers/internal/common/errors"
	"factory-match-workers/internal/common/logger"
	"factory-match-workers/internal/dedup"
	"factory-match-workers/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		Timeout:     time.Minute,
		ProgressTTL: 10 * time.Minute,
	}
}

type stubFinder struct {
	groups   []models.DuplicateGroup
	progress [][2]int
	err      error
}

func (s *stubFinder) FindDuplicates(_ context.Context, onProgress dedup.ProgressFunc) ([]models.DuplicateGroup, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, p := range s.progress {
		if onProgress != nil {
			onProgress(p[0], p[1])
		}
	}
	return s.groups, nil
}

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func createTestGroups() []models.DuplicateGroup {
	return []models.DuplicateGroup{
		{
			Primary: models.FactoryRecord{ID: "f-1", Name: "Cairo Plastics"},
			Suspects: []models.DuplicateSuspect{
				{
					Factory: models.FactoryRecord{ID: "f-2", Name: "Cairo Plastics Co"},
					Score:   100,
					Reason:  "identical email",
				},
			},
		},
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_ReturnsGroups(t *testing.T) {
	finder := &stubFinder{
		groups:   createTestGroups(),
		progress: [][2]int{{20, 45}, {45, 45}},
	}
	_, rdb := setupTestRedis(t)
	handler := NewHandler(createTestConfig(), finder, rdb, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{ScanID: "scan-1"})

	require.NoError(t, err)
	assert.Equal(t, "scan-1", output.ScanID)
	assert.Equal(t, 1, output.GroupCount)
	assert.Equal(t, 45, output.RecordsScanned)
	require.Len(t, output.DuplicateGroups, 1)
	assert.Equal(t, "f-1", output.DuplicateGroups[0].Primary.ID)
}

func TestHandler_Execute_GeneratesScanID(t *testing.T) {
	finder := &stubFinder{progress: [][2]int{{0, 0}}}
	handler := NewHandler(createTestConfig(), finder, nil, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{})

	require.NoError(t, err)
	assert.NotEmpty(t, output.ScanID)
}

func TestHandler_Execute_PublishesProgressToRedis(t *testing.T) {
	finder := &stubFinder{
		groups:   createTestGroups(),
		progress: [][2]int{{20, 45}, {40, 45}, {45, 45}},
	}
	mr, rdb := setupTestRedis(t)
	handler := NewHandler(createTestConfig(), finder, rdb, logger.NewTestLogger(t))

	_, err := handler.Execute(context.Background(), &Input{ScanID: "scan-42"})
	require.NoError(t, err)

	raw, err := mr.Get("dedup:scan:scan-42:progress")
	require.NoError(t, err)

	var update ProgressUpdate
	require.NoError(t, json.Unmarshal([]byte(raw), &update))
	// The key holds the latest update, which is always the final one.
	assert.Equal(t, "scan-42", update.ScanID)
	assert.Equal(t, 45, update.Processed)
	assert.Equal(t, 45, update.Total)
	assert.Equal(t, 100.0, update.Percent)
}

func TestHandler_Execute_EmptyRosterProgress(t *testing.T) {
	finder := &stubFinder{progress: [][2]int{{0, 0}}}
	mr, rdb := setupTestRedis(t)
	handler := NewHandler(createTestConfig(), finder, rdb, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{ScanID: "scan-empty"})
	require.NoError(t, err)

	assert.Zero(t, output.GroupCount)
	assert.Zero(t, output.RecordsScanned)

	raw, err := mr.Get("dedup:scan:scan-empty:progress")
	require.NoError(t, err)
	var update ProgressUpdate
	require.NoError(t, json.Unmarshal([]byte(raw), &update))
	assert.Equal(t, 100.0, update.Percent)
}

func TestHandler_Execute_ScanFailure(t *testing.T) {
	finder := &stubFinder{err: errors.New("db down")}
	handler := NewHandler(createTestConfig(), finder, nil, logger.NewTestLogger(t))

	_, err := handler.Execute(context.Background(), &Input{})

	require.Error(t, err)
	stdErr, ok := err.(*stderrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, stderrors.ErrCodeRosterFetchFailed, stdErr.Code)
}

func TestReasonLabel(t *testing.T) {
	assert.Equal(t, "email", reasonLabel("identical email"))
	assert.Equal(t, "phone", reasonLabel("identical phone"))
	assert.Equal(t, "name_city", reasonLabel("similar name (94%) in same city"))
}
