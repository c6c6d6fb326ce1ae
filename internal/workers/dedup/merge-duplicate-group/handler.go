// internal/workers/dedup/merge-duplicate-group/handler.go
package mergeduplicategroup

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"factory-match-workers/internal/common/errors"
	"factory-match-workers/internal/common/logger"
	"factory-match-workers/internal/common/metrics"
	"factory-match-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "merge-duplicate-group"
)

// GroupMerger resolves one confirmed duplicate group.
type GroupMerger interface {
	MergeGroup(ctx context.Context, primaryID string, suspectIDs []string) error
}

type Handler struct {
	config    *Config
	merger    GroupMerger
	logger    logger.Logger
	errHandle *errors.ErrorHandler
}

func NewHandler(config *Config, merger GroupMerger, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		merger:    merger,
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
	suspectIDs := models.NormalizeList(input.SuspectIDs)

	if input.PrimaryID == "" {
		return nil, errors.NewInvalidMergeRequestError("primaryId is required")
	}
	if len(suspectIDs) == 0 {
		return nil, errors.NewInvalidMergeRequestError("suspectIds must name at least one record")
	}
	for _, id := range suspectIDs {
		if id == input.PrimaryID {
			return nil, errors.NewInvalidMergeRequestError("primaryId must not appear in suspectIds")
		}
	}

	if err := h.merger.MergeGroup(ctx, input.PrimaryID, suspectIDs); err != nil {
		return nil, errors.NewMergeDeleteFailedError(err)
	}

	h.logger.Info("duplicate group resolved", map[string]interface{}{
		"primaryId":    input.PrimaryID,
		"removedCount": len(suspectIDs),
	})

	return &Output{
		PrimaryID:    input.PrimaryID,
		RemovedCount: len(suspectIDs),
		Merged:       true,
	}, nil
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
