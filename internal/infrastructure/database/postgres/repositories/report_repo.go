// Package repositories provides PostgreSQL-backed persistence for evaluation
// reports. The full report is stored as a JSONB document alongside a few
// denormalized columns used for listing.
package repositories

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turtacn/CaseLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CaseLens/pkg/errors"
	"github.com/turtacn/CaseLens/pkg/types/report"
)

// ReportSummary is the listing projection of a stored report.
type ReportSummary struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	TotalCases   int       `json:"total_cases"`
	OverallScore float64   `json:"overall_score"`
}

// ReportRepository stores and retrieves evaluation reports.
type ReportRepository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewReportRepository builds a repository over the given pool.
func NewReportRepository(pool *pgxpool.Pool, log logging.Logger) *ReportRepository {
	return &ReportRepository{pool: pool, logger: log.Named("report_repo")}
}

// Save persists a report. The report ID must be set by the caller.
func (r *ReportRepository) Save(ctx context.Context, rep *report.AggregateReport) error {
	if rep.ID == "" {
		return errors.New(errors.CodeInvalidInput, "report ID is empty")
	}

	doc, err := json.Marshal(rep)
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "marshal report")
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO evaluation_reports (id, created_at, total_cases, overall_score, report)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			total_cases   = EXCLUDED.total_cases,
			overall_score = EXCLUDED.overall_score,
			report        = EXCLUDED.report`,
		rep.ID, rep.Timestamp, rep.TotalCases, rep.OverallScore, doc,
	)
	if err != nil {
		r.logger.Error("save report", logging.String("id", rep.ID), logging.Err(err))
		return errors.Wrap(err, errors.CodeDatabaseError, "insert report")
	}

	r.logger.Debug("saved report", logging.String("id", rep.ID))
	return nil
}

// GetByID loads the full report document.
func (r *ReportRepository) GetByID(ctx context.Context, id string) (*report.AggregateReport, error) {
	var doc []byte
	err := r.pool.QueryRow(ctx,
		`SELECT report FROM evaluation_reports WHERE id = $1`, id,
	).Scan(&doc)
	if err != nil {
		if goerrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.Newf(errors.CodeReportNotFound, "report %s not found", id)
		}
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "query report")
	}

	var rep report.AggregateReport
	if err := json.Unmarshal(doc, &rep); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "unmarshal report")
	}
	return &rep, nil
}

// List returns report summaries newest first.
func (r *ReportRepository) List(ctx context.Context, limit, offset int) ([]ReportSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, created_at, total_cases, overall_score
		FROM evaluation_reports
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset,
	)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "list reports")
	}
	defer rows.Close()

	summaries := make([]ReportSummary, 0, limit)
	for rows.Next() {
		var s ReportSummary
		if err := rows.Scan(&s.ID, &s.CreatedAt, &s.TotalCases, &s.OverallScore); err != nil {
			return nil, errors.Wrap(err, errors.CodeDatabaseError, "scan report summary")
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "iterate report summaries")
	}
	return summaries, nil
}

// Delete removes a stored report.
func (r *ReportRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM evaluation_reports WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "delete report")
	}
	if tag.RowsAffected() == 0 {
		return errors.Newf(errors.CodeReportNotFound, "report %s not found", id)
	}
	return nil
}
