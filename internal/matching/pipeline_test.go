// internal/matching/pipeline_test.go
package matching

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"factory-match-workers/internal/common/logger"
	"factory-match-workers/internal/models"
)

type stubRoster struct {
	records   []models.FactoryRecord
	lastFiler models.RosterFilter
	err       error
}

func (s *stubRoster) FetchPage(_ context.Context, filter models.RosterFilter, page, _ int) ([]models.FactoryRecord, error) {
	s.lastFiler = filter
	if s.err != nil {
		return nil, s.err
	}
	if page > 0 {
		return nil, nil
	}
	return s.records, nil
}

func newTestEngine(t *testing.T, roster *stubRoster) *Engine {
	t.Helper()
	return NewEngine(roster, logger.NewTestLogger(t))
}

func TestRank_EmptyRosterReturnsEmptyList(t *testing.T) {
	roster := &stubRoster{}
	engine := newTestEngine(t, roster)

	results, err := engine.Rank(context.Background(), models.InventionQuery{Description: "steel parts"})

	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestRank_FetchesApprovedOnly(t *testing.T) {
	roster := &stubRoster{}
	engine := newTestEngine(t, roster)

	_, err := engine.Rank(context.Background(), models.InventionQuery{Description: "steel parts"})

	require.NoError(t, err)
	require.NotNil(t, roster.lastFiler.Approved)
	assert.True(t, *roster.lastFiler.Approved)
}

func TestRank_PropagatesFetchError(t *testing.T) {
	roster := &stubRoster{err: errors.New("connection reset")}
	engine := newTestEngine(t, roster)

	_, err := engine.Rank(context.Background(), models.InventionQuery{Description: "steel parts"})

	assert.ErrorContains(t, err, "connection reset")
}

func TestRank_TruncatesToFiveSortedByScore(t *testing.T) {
	var records []models.FactoryRecord
	for i := 0; i < 8; i++ {
		records = append(records, models.FactoryRecord{
			ID:           fmt.Sprintf("f-%d", i),
			Name:         fmt.Sprintf("Steel Shop %d", i),
			Industries:   []string{"metal"},
			Capabilities: "steel welding",
			Approved:     true,
		})
	}
	// One weaker record that still clears the strict tier.
	records = append(records, models.FactoryRecord{
		ID:         "f-weak",
		Name:       "Generic Shop",
		Industries: []string{"metal"},
		Approved:   true,
	})
	engine := newTestEngine(t, &stubRoster{records: records})

	results, err := engine.Rank(context.Background(), models.InventionQuery{
		Description: "welded steel frame",
	})

	require.NoError(t, err)
	require.Len(t, results, MaxResults)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].MatchScore, results[i].MatchScore)
	}
	for _, r := range results {
		assert.NotEqual(t, "f-weak", r.Factory.ID)
		assert.NotEmpty(t, r.Explanation)
	}
}

func TestRank_EqualScoresKeepRosterOrder(t *testing.T) {
	records := []models.FactoryRecord{
		{ID: "f-a", Name: "Shop A", Industries: []string{"metal"}, Approved: true},
		{ID: "f-b", Name: "Shop B", Industries: []string{"metal"}, Approved: true},
		{ID: "f-c", Name: "Shop C", Industries: []string{"metal"}, Approved: true},
	}
	engine := newTestEngine(t, &stubRoster{records: records})

	results, err := engine.Rank(context.Background(), models.InventionQuery{
		Description: "steel enclosure",
	})

	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "f-a", results[0].Factory.ID)
	assert.Equal(t, "f-b", results[1].Factory.ID)
	assert.Equal(t, "f-c", results[2].Factory.ID)
}

func TestRank_FallbackTierGuaranteesResults(t *testing.T) {
	records := []models.FactoryRecord{
		{ID: "f-1", Name: "Alpha", Approved: true},
		{ID: "f-2", Name: "Beta", Approved: true},
		{ID: "f-3", Name: "Gamma", Approved: true},
		{ID: "f-4", Name: "Delta", Approved: true},
	}
	engine := newTestEngine(t, &stubRoster{records: records})

	results, err := engine.Rank(context.Background(), models.InventionQuery{
		Description: "steel parts nobody here can make",
	})

	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, r := range results {
		assert.Equal(t, 5, r.MatchScore)
		assert.Equal(t, FallbackExplanation, r.Explanation)
	}
	// All indexes tie, so the fallback keeps roster order.
	assert.Equal(t, "f-1", results[0].Factory.ID)
	assert.Equal(t, "f-2", results[1].Factory.ID)
	assert.Equal(t, "f-3", results[2].Factory.ID)
}

func TestRank_LenientTierKeepsWeakMatches(t *testing.T) {
	// Country match only: 10 points, below the strict threshold but above
	// zero, so the lenient tier keeps it.
	records := []models.FactoryRecord{
		{ID: "f-1", Name: "Alpha", Country: "Jordan", Approved: true},
		{ID: "f-2", Name: "Beta", Approved: true},
	}
	engine := newTestEngine(t, &stubRoster{records: records})

	results, err := engine.Rank(context.Background(), models.InventionQuery{
		Description:      "something unmatchable",
		PreferredCountry: "jordan",
	})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "f-1", results[0].Factory.ID)
	assert.Equal(t, 10, results[0].MatchScore)
}
