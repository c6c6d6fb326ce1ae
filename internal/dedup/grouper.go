// internal/dedup/grouper.go
package dedup

import (
	"context"
	"fmt"

	"factory-match-workers/internal/common/logger"
	"factory-match-workers/internal/models"
)

// RosterSource provides paginated access to the factory roster.
type RosterSource interface {
	FetchPage(ctx context.Context, filter models.RosterFilter, page, pageSize int) ([]models.FactoryRecord, error)
}

// Deleter removes factory records by id.
type Deleter interface {
	DeleteByIDs(ctx context.Context, ids []string) error
}

// ProgressFunc receives (processed, total) updates during a scan. It doubles
// as the scan's cooperative yield point: hosts publish progress from it and
// may take as long as they need, the scan blocks until it returns.
type ProgressFunc func(processed, total int)

const (
	rosterPageSize   = 1000
	progressInterval = 20
	acceptThreshold  = 80
	nameSimThreshold = 85

	scoreEmail = 100
	scorePhone = 95
)

// Scanner finds and merges duplicate factory records.
type Scanner struct {
	roster  RosterSource
	deleter Deleter
	logger  logger.Logger
}

func NewScanner(roster RosterSource, deleter Deleter, log logger.Logger) *Scanner {
	return &Scanner{
		roster:  roster,
		deleter: deleter,
		logger:  log.WithFields(map[string]interface{}{"component": "dedup-scanner"}),
	}
}

// FindDuplicates compares every pair of roster records and returns groups of
// suspected duplicates. Each record belongs to at most one group: once
// claimed as a suspect it is skipped both as a future primary and as a
// candidate for other groups. The roster arrives newest-first, so the newest
// record of a cluster becomes its primary and the older records end up as
// the suspects, which is the side a merge deletes.
//
// onProgress fires every progressInterval outer iterations and always once
// more at the end with (total, total); an empty roster reports (0, 0) and
// returns no groups.
func (s *Scanner) FindDuplicates(ctx context.Context, onProgress ProgressFunc) ([]models.DuplicateGroup, error) {
	roster, err := fetchRoster(ctx, s.roster)
	if err != nil {
		return nil, err
	}
	total := len(roster)
	if total == 0 {
		if onProgress != nil {
			onProgress(0, 0)
		}
		return []models.DuplicateGroup{}, nil
	}

	claimed := make(map[string]struct{})
	var groups []models.DuplicateGroup

	for i := 0; i < total; i++ {
		if onProgress != nil && i > 0 && i%progressInterval == 0 {
			onProgress(i, total)
		}
		primary := roster[i]
		if _, taken := claimed[primary.ID]; taken {
			continue
		}

		var suspects []models.DuplicateSuspect
		for j := i + 1; j < total; j++ {
			candidate := roster[j]
			if _, taken := claimed[candidate.ID]; taken {
				continue
			}
			if !worthComparing(primary, candidate) {
				continue
			}
			score, reason := matchPair(primary, candidate)
			if score < acceptThreshold {
				continue
			}
			suspects = append(suspects, models.DuplicateSuspect{
				Factory: candidate,
				Score:   score,
				Reason:  reason,
			})
			claimed[candidate.ID] = struct{}{}
		}

		if len(suspects) > 0 {
			claimed[primary.ID] = struct{}{}
			groups = append(groups, models.DuplicateGroup{
				Primary:  primary,
				Suspects: suspects,
			})
		}
	}

	if onProgress != nil {
		onProgress(total, total)
	}

	s.logger.Info("duplicate scan completed", map[string]interface{}{
		"rosterSize": total,
		"groups":     len(groups),
	})
	return groups, nil
}

// MergeGroup resolves a duplicate group by deleting the suspect records and
// keeping the primary untouched. Re-running a merge is harmless: deleting
// already-deleted ids is a no-op in the store.
func (s *Scanner) MergeGroup(ctx context.Context, primaryID string, suspectIDs []string) error {
	if primaryID == "" {
		return fmt.Errorf("merge group: primary id is required")
	}
	if len(suspectIDs) == 0 {
		return fmt.Errorf("merge group: no suspect ids to remove")
	}
	for _, id := range suspectIDs {
		if id == primaryID {
			return fmt.Errorf("merge group: primary %s listed among suspects", primaryID)
		}
	}

	if err := s.deleter.DeleteByIDs(ctx, suspectIDs); err != nil {
		return fmt.Errorf("merge group %s: %w", primaryID, err)
	}

	s.logger.Info("duplicate group merged", map[string]interface{}{
		"primaryId": primaryID,
		"removed":   len(suspectIDs),
	})
	return nil
}

// worthComparing pre-filters pairs that cannot satisfy any match rule, which
// keeps the quadratic scan affordable on rosters with sparse contact data.
func worthComparing(a, b models.FactoryRecord) bool {
	if a.Email != "" && b.Email != "" {
		return true
	}
	if a.Phone != "" && b.Phone != "" {
		return true
	}
	return sameCity(a, b)
}

// matchPair applies the match rules in priority order and reports the first
// hit. Email identity beats phone identity beats a fuzzy name match in the
// same city.
func matchPair(a, b models.FactoryRecord) (int, string) {
	if SameEmail(a.Email, b.Email) {
		return scoreEmail, "identical email"
	}
	if SamePhone(a.Phone, b.Phone) {
		return scorePhone, "identical phone"
	}
	if sameCity(a, b) {
		if sim := Similarity(a.Name, b.Name); sim > nameSimThreshold {
			return sim, fmt.Sprintf("similar name (%d%%) in same city", sim)
		}
	}
	return 0, ""
}

func sameCity(a, b models.FactoryRecord) bool {
	return a.City != "" && b.City != "" &&
		normalizeCity(a.City) == normalizeCity(b.City)
}

func normalizeCity(s string) string {
	return trimLower(s)
}

func fetchRoster(ctx context.Context, src RosterSource) ([]models.FactoryRecord, error) {
	var all []models.FactoryRecord
	for page := 0; ; page++ {
		batch, err := src.FetchPage(ctx, models.RosterFilter{}, page, rosterPageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < rosterPageSize {
			return all, nil
		}
	}
}
