// internal/matching/pipeline.go
package matching

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"factory-match-workers/internal/common/logger"
	"factory-match-workers/internal/models"
)

// RosterSource provides paginated access to the factory roster. The engine
// always drains it completely before scoring; there is no streaming mode.
type RosterSource interface {
	FetchPage(ctx context.Context, filter models.RosterFilter, page, pageSize int) ([]models.FactoryRecord, error)
}

const (
	// MaxResults caps the ranked shortlist length.
	MaxResults = 5

	rosterPageSize  = 1000
	strictThreshold = 15
	fallbackCount   = 3
	fallbackScore   = 5
)

// FallbackExplanation replaces the generated sentence on guaranteed-fallback
// results, which never matched anything directly.
const FallbackExplanation = "This factory did not match the request directly and is offered as an alternative option worth reviewing."

// Engine maps an invention query to a ranked factory shortlist.
type Engine struct {
	roster RosterSource
	logger logger.Logger
}

func NewEngine(roster RosterSource, log logger.Logger) *Engine {
	return &Engine{
		roster: roster,
		logger: log.WithFields(map[string]interface{}{"component": "matching-engine"}),
	}
}

// Rank fetches the approved roster, scores every factory against the
// invention and returns at most MaxResults results. An empty approved roster
// yields an empty list, never an error; a non-empty roster always yields at
// least one result thanks to the tiered fallback.
func (e *Engine) Rank(ctx context.Context, inv models.InventionQuery) ([]models.MatchResult, error) {
	approved := true
	roster, err := fetchRoster(ctx, e.roster, models.RosterFilter{Approved: &approved})
	if err != nil {
		return nil, err
	}
	if len(roster) == 0 {
		return []models.MatchResult{}, nil
	}

	profile := DeriveProfile(inv)

	results := make([]models.MatchResult, 0, len(roster))
	for _, f := range roster {
		raw, reasons := Score(f, profile, inv, DefaultWeights)
		clamped := raw
		if clamped > 100 {
			clamped = 100
		}
		results = append(results, models.MatchResult{
			Factory:        f,
			MatchScore:     clamped,
			MatchReasons:   reasons,
			Explanation:    buildExplanation(f.Name, reasons),
			StabilityIndex: StabilityIndex(f, profile, inv, raw),
		})
	}

	filtered := applyTiers(results)

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].MatchScore > filtered[j].MatchScore
	})
	if len(filtered) > MaxResults {
		filtered = filtered[:MaxResults]
	}

	e.logger.Info("ranking completed", map[string]interface{}{
		"rosterSize":  len(roster),
		"industry":    profile.Industry,
		"signals":     len(profile.Signals),
		"resultCount": len(filtered),
	})

	return filtered, nil
}

// applyTiers evaluates the filter tiers in declaration order and keeps the
// first tier with any members: strict, then lenient, then the guaranteed
// fallback. Evaluating them as an explicit list keeps the cascade traceable.
func applyTiers(results []models.MatchResult) []models.MatchResult {
	tiers := []func(models.MatchResult) bool{
		func(r models.MatchResult) bool { return r.MatchScore >= strictThreshold },
		func(r models.MatchResult) bool { return r.MatchScore > 0 },
	}

	for _, keep := range tiers {
		var kept []models.MatchResult
		for _, r := range results {
			if keep(r) {
				kept = append(kept, r)
			}
		}
		if len(kept) > 0 {
			return kept
		}
	}

	return fallbackResults(results)
}

// fallbackResults picks the most weight-stable records, forcing a floor score
// and the fixed fallback explanation on each. Stability ties keep roster
// fetch order.
func fallbackResults(results []models.MatchResult) []models.MatchResult {
	picked := make([]models.MatchResult, len(results))
	copy(picked, results)

	sort.SliceStable(picked, func(i, j int) bool {
		return picked[i].StabilityIndex > picked[j].StabilityIndex
	})
	if len(picked) > fallbackCount {
		picked = picked[:fallbackCount]
	}
	for i := range picked {
		picked[i].MatchScore = fallbackScore
		picked[i].Explanation = FallbackExplanation
	}
	return picked
}

func buildExplanation(name string, reasons []string) string {
	if len(reasons) == 0 {
		return ""
	}
	return fmt.Sprintf("%s fits this request: %s.", name, strings.Join(reasons, "; "))
}

// fetchRoster drains every page until a short page signals the end. A fetch
// error propagates unchanged: scoring a partial roster would silently corrupt
// the ranking.
func fetchRoster(ctx context.Context, src RosterSource, filter models.RosterFilter) ([]models.FactoryRecord, error) {
	var all []models.FactoryRecord
	for page := 0; ; page++ {
		batch, err := src.FetchPage(ctx, filter, page, rosterPageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < rosterPageSize {
			return all, nil
		}
	}
}
