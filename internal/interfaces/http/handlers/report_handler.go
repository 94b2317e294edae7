package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/CaseLens/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/CaseLens/pkg/types/report"
)

// ReportStore reads stored reports.
type ReportStore interface {
	GetByID(ctx context.Context, id string) (*report.AggregateReport, error)
	List(ctx context.Context, limit, offset int) ([]repositories.ReportSummary, error)
}

// ReportHandler serves stored evaluation reports.
type ReportHandler struct {
	store ReportStore
}

// NewReportHandler wires the handler.
func NewReportHandler(store ReportStore) *ReportHandler {
	return &ReportHandler{store: store}
}

// Get handles GET /api/v1/reports/:id.
func (h *ReportHandler) Get(c *gin.Context) {
	rep, err := h.store.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

// listResponse wraps a page of report summaries.
type listResponse struct {
	Reports []repositories.ReportSummary `json:"reports"`
	Limit   int                          `json:"limit"`
	Offset  int                          `json:"offset"`
}

// List handles GET /api/v1/reports?limit=&offset=.
func (h *ReportHandler) List(c *gin.Context) {
	limit := queryInt(c, "limit", 20)
	offset := queryInt(c, "offset", 0)
	if limit > 100 {
		limit = 100
	}

	summaries, err := h.store.List(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse{
		Reports: summaries,
		Limit:   limit,
		Offset:  offset,
	})
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
