package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/turtacn/CaseLens/internal/application/evaluation"
	"github.com/turtacn/CaseLens/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/CaseLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CaseLens/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/CaseLens/pkg/types/report"
)

// BatchEvaluator runs one batch evaluation or version comparison.
type BatchEvaluator interface {
	EvaluateBatch(ctx context.Context, in evaluation.Input) (*report.AggregateReport, error)
	CompareVersions(ctx context.Context, in evaluation.CompareInput) (*report.ComparisonReport, error)
}

// ReportSaver persists evaluated reports.
type ReportSaver interface {
	Save(ctx context.Context, rep *report.AggregateReport) error
}

// RequestPublisher enqueues asynchronous evaluation requests.
type RequestPublisher interface {
	PublishEvaluationRequested(ctx context.Context, payload kafka.EvaluationRequestedPayload) error
}

// EvaluationHandler serves the evaluation endpoints.
type EvaluationHandler struct {
	evaluator BatchEvaluator
	store     ReportSaver
	publisher RequestPublisher
	metrics   *prometheus.Metrics
	logger    logging.Logger
}

// NewEvaluationHandler wires the handler. store, publisher and metrics may be
// nil; the matching features are then disabled.
func NewEvaluationHandler(
	evaluator BatchEvaluator,
	store ReportSaver,
	publisher RequestPublisher,
	metrics *prometheus.Metrics,
	log logging.Logger,
) *EvaluationHandler {
	return &EvaluationHandler{
		evaluator: evaluator,
		store:     store,
		publisher: publisher,
		metrics:   metrics,
		logger:    log.Named("evaluation_handler"),
	}
}

// Evaluate handles POST /api/v1/evaluations: synchronous batch evaluation.
func (h *EvaluationHandler) Evaluate(c *gin.Context) {
	var in evaluation.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, err)
		return
	}

	start := time.Now()
	rep, err := h.evaluator.EvaluateBatch(c.Request.Context(), in)
	if err != nil {
		if h.metrics != nil {
			h.metrics.ObserveEvaluation("failed", len(in.Cases), time.Since(start))
		}
		respondError(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.ObserveEvaluation("success", len(in.Cases), time.Since(start))
	}

	if h.store != nil {
		if err := h.store.Save(c.Request.Context(), rep); err != nil {
			// The evaluation succeeded; persistence failure must not lose it.
			h.logger.Warn("report not persisted",
				logging.String("report_id", rep.ID),
				logging.Err(err),
			)
		}
	}

	c.JSON(http.StatusOK, rep)
}

// asyncRequest is the body of an asynchronous evaluation request.
type asyncRequest struct {
	Cases     []string `json:"cases" binding:"required"`
	Reference []string `json:"reference_cases,omitempty"`
	PRDText   string   `json:"prd_text,omitempty"`
}

// asyncResponse acknowledges an enqueued request.
type asyncResponse struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
}

// EvaluateAsync handles POST /api/v1/evaluations/async: enqueue and return.
func (h *EvaluationHandler) EvaluateAsync(c *gin.Context) {
	if h.publisher == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Code:    "MESSAGING_ERROR",
			Message: "asynchronous evaluation is not configured",
		})
		return
	}

	var req asyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	payload := kafka.EvaluationRequestedPayload{
		RequestID:   uuid.NewString(),
		Cases:       req.Cases,
		Reference:   req.Reference,
		PRDText:     req.PRDText,
		RequestedAt: time.Now().UTC(),
	}
	if err := h.publisher.PublishEvaluationRequested(c.Request.Context(), payload); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, asyncResponse{
		RequestID: payload.RequestID,
		Status:    "accepted",
	})
}

// Compare handles POST /api/v1/comparisons: evaluate two versions and diff.
func (h *EvaluationHandler) Compare(c *gin.Context) {
	var in evaluation.CompareInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, err)
		return
	}

	cmp, err := h.evaluator.CompareVersions(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cmp)
}
