// internal/workers/dedup/scan-duplicates/handler.go
package scanduplicates

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"factory-match-workers/internal/common/errors"
	"factory-match-workers/internal/common/logger"
	"factory-match-workers/internal/common/metrics"
	"factory-match-workers/internal/dedup"
	"factory-match-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "scan-duplicates"
)

// DuplicateFinder runs the pairwise duplicate scan over the full roster.
type DuplicateFinder interface {
	FindDuplicates(ctx context.Context, onProgress dedup.ProgressFunc) ([]models.DuplicateGroup, error)
}

type Handler struct {
	config    *Config
	scanner   DuplicateFinder
	redis     *redis.Client
	logger    logger.Logger
	errHandle *errors.ErrorHandler
}

func NewHandler(config *Config, scanner DuplicateFinder, rdb *redis.Client, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		scanner:   scanner,
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

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, errors.NewInvalidMergeRequestError(fmt.Sprintf("parse input: %v", err)))
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
	scanID := input.ScanID
	if scanID == "" {
		scanID = uuid.NewString()
	}

	recordsScanned := 0
	groups, err := h.scanner.FindDuplicates(ctx, func(processed, total int) {
		recordsScanned = total
		h.publishProgress(ctx, scanID, processed, total)
	})
	if err != nil {
		return nil, errors.NewRosterFetchFailedError(err)
	}

	for _, g := range groups {
		for _, s := range g.Suspects {
			metrics.DuplicateGroupsFound.WithLabelValues(reasonLabel(s.Reason)).Inc()
		}
	}

	h.logger.Info("duplicate scan finished", map[string]interface{}{
		"scanId":         scanID,
		"groupCount":     len(groups),
		"recordsScanned": recordsScanned,
	})

	return &Output{
		ScanID:          scanID,
		DuplicateGroups: groups,
		GroupCount:      len(groups),
		RecordsScanned:  recordsScanned,
	}, nil
}

func (h *Handler) publishProgress(ctx context.Context, scanID string, processed, total int) {
	percent := 100.0
	if total > 0 {
		percent = float64(processed) / float64(total) * 100
	}
	metrics.DuplicateScanProgress.WithLabelValues(scanID).Set(percent / 100)

	if h.redis == nil {
		return
	}
	update := ProgressUpdate{
		ScanID:    scanID,
		Processed: processed,
		Total:     total,
		Percent:   percent,
	}
	data, err := json.Marshal(update)
	if err != nil {
		return
	}
	key := progressKey(scanID)
	if err := h.redis.Set(ctx, key, data, h.config.ProgressTTL).Err(); err != nil {
		h.logger.Warn("failed to publish scan progress", map[string]interface{}{
			"scanId": scanID,
			"error":  err,
		})
	}
}

func progressKey(scanID string) string {
	return "dedup:scan:" + scanID + ":progress"
}

// reasonLabel folds the per-pair reason strings into a fixed label set. The
// name-similarity reason embeds a percentage and cannot be a label as-is.
func reasonLabel(reason string) string {
	switch reason {
	case "identical email":
		return "email"
	case "identical phone":
		return "phone"
	default:
		return "name_city"
	}
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
	code := "INTERNAL_ERROR"
	if stdErr, ok := err.(*errors.StandardError); ok {
		code = string(stdErr.Code)
	}
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, code).Inc()
	h.errHandle.HandleJobError(context.Background(), client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
