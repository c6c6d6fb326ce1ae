// internal/workers/matching/rank-factories/handler.go
package rankfactories

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"factory-match-workers/internal/common/errors"
	"factory-match-workers/internal/common/logger"
	"factory-match-workers/internal/common/metrics"
	"factory-match-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "rank-factories"
)

// Ranker produces the ranked shortlist for one invention query.
type Ranker interface {
	Rank(ctx context.Context, inv models.InventionQuery) ([]models.MatchResult, error)
}

// ResultStore persists a completed ranking for later retrieval.
type ResultStore interface {
	InsertInventionResult(ctx context.Context, rec models.InventionResult) error
}

type Handler struct {
	config    *Config
	engine    Ranker
	results   ResultStore
	redis     *redis.Client
	logger    logger.Logger
	errHandle *errors.ErrorHandler
}

func NewHandler(config *Config, engine Ranker, results ResultStore, rdb *redis.Client, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		engine:    engine,
		results:   results,
		redis:     rdb,
		logger:    l,
		errHandle: errors.NewErrorHandler(l),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(job.Variables), &raw); err != nil {
		h.failJob(client, job, errors.NewInvalidInventionInputError(fmt.Sprintf("parse input: %v", err)))
		return
	}
	if result := validateInput(raw); !result.Valid {
		h.failJob(client, job, errors.NewInvalidInventionInputError(result.Summary()))
		return
	}

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, errors.NewInvalidInventionInputError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, err)
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	inv := input.toQuery()

	cacheKey := shortlistCacheKey(inv)
	if cached := h.cachedShortlist(ctx, cacheKey); cached != nil {
		h.logger.Debug("shortlist served from cache", map[string]interface{}{
			"cacheKey": cacheKey,
		})
		return cached, nil
	}

	results, err := h.engine.Rank(ctx, inv)
	if err != nil {
		return nil, errors.NewRosterFetchFailedError(err)
	}

	output := &Output{
		MatchResults: results,
		ResultCount:  len(results),
	}

	if h.config.PersistResults && h.results != nil {
		rec := models.InventionResult{
			ID:               uuid.NewString(),
			InventionName:    inv.Name,
			Description:      inv.Description,
			ProductionType:   inv.ProductionType,
			PreferredCountry: inv.PreferredCountry,
			Results:          results,
		}
		if err := h.results.InsertInventionResult(ctx, rec); err != nil {
			// The shortlist is still valid without the audit record.
			h.logger.Warn("failed to persist ranking result", map[string]interface{}{
				"error": err,
			})
		} else {
			output.ResultID = rec.ID
		}
	}

	h.cacheShortlist(ctx, cacheKey, output)
	metrics.RankedFactories.WithLabelValues(shortlistTier(results)).Observe(float64(len(results)))

	h.logger.Info("shortlist ranked", map[string]interface{}{
		"invention":   inv.Name,
		"resultCount": len(results),
		"resultId":    output.ResultID,
	})
	return output, nil
}

func (h *Handler) cachedShortlist(ctx context.Context, key string) *Output {
	if h.redis == nil {
		return nil
	}
	val, err := h.redis.Get(ctx, key).Result()
	if err != nil {
		return nil
	}
	var output Output
	if err := json.Unmarshal([]byte(val), &output); err != nil {
		return nil
	}
	return &output
}

func (h *Handler) cacheShortlist(ctx context.Context, key string, output *Output) {
	if h.redis == nil {
		return
	}
	data, err := json.Marshal(output)
	if err != nil {
		return
	}
	h.redis.Set(ctx, key, data, h.config.CacheTTL)
}

// shortlistCacheKey fingerprints the full query so that any change to the
// invention text or preferences misses the cache.
func shortlistCacheKey(inv models.InventionQuery) string {
	data, _ := json.Marshal(inv)
	sum := sha256.Sum256(data)
	return "match:shortlist:" + hex.EncodeToString(sum[:])
}

func shortlistTier(results []models.MatchResult) string {
	if len(results) == 0 {
		return "empty"
	}
	if results[0].MatchScore == 5 {
		return "fallback"
	}
	if results[0].MatchScore >= 15 {
		return "strict"
	}
	return "lenient"
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode(err)).Inc()
	h.errHandle.HandleJobError(context.Background(), client, job, err)
}

func errorCode(err error) string {
	if stdErr, ok := err.(*errors.StandardError); ok {
		return string(stdErr.Code)
	}
	return "INTERNAL_ERROR"
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
