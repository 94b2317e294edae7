//go:build integration

// Integration tests for the report repository. They require Docker and are
// gated behind the "integration" build tag.
package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/turtacn/CaseLens/internal/infrastructure/database/postgres"
	"github.com/turtacn/CaseLens/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/CaseLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CaseLens/pkg/errors"
	"github.com/turtacn/CaseLens/pkg/types/report"
)

func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		tcpostgres.WithDatabase("caselens_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, postgres.RunMigrations(dsn))

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func sampleReport(score float64) *report.AggregateReport {
	return &report.AggregateReport{
		ID:         uuid.NewString(),
		Timestamp:  time.Now().UTC().Truncate(time.Millisecond),
		TotalCases: 3,
		AggregateScores: map[string]float64{
			report.MetricStructure: 0.8,
			report.MetricQuality:   0.7,
		},
		OverallScore: score,
	}
}

func TestReportRepository_SaveAndGet(t *testing.T) {
	pool := startPostgres(t)
	repo := repositories.NewReportRepository(pool, logging.NewNopLogger())
	ctx := context.Background()

	rep := sampleReport(0.75)
	require.NoError(t, repo.Save(ctx, rep))

	got, err := repo.GetByID(ctx, rep.ID)
	require.NoError(t, err)
	assert.Equal(t, rep.ID, got.ID)
	assert.Equal(t, rep.TotalCases, got.TotalCases)
	assert.InDelta(t, rep.OverallScore, got.OverallScore, 1e-9)
	assert.Equal(t, rep.AggregateScores, got.AggregateScores)
}

func TestReportRepository_SaveUpsertsOnConflict(t *testing.T) {
	pool := startPostgres(t)
	repo := repositories.NewReportRepository(pool, logging.NewNopLogger())
	ctx := context.Background()

	rep := sampleReport(0.5)
	require.NoError(t, repo.Save(ctx, rep))

	rep.OverallScore = 0.9
	require.NoError(t, repo.Save(ctx, rep))

	got, err := repo.GetByID(ctx, rep.ID)
	require.NoError(t, err)
	assert.InDelta(t, 0.9, got.OverallScore, 1e-9)
}

func TestReportRepository_GetMissing(t *testing.T) {
	pool := startPostgres(t)
	repo := repositories.NewReportRepository(pool, logging.NewNopLogger())

	_, err := repo.GetByID(context.Background(), "no-such-report")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeReportNotFound))
}

func TestReportRepository_ListNewestFirst(t *testing.T) {
	pool := startPostgres(t)
	repo := repositories.NewReportRepository(pool, logging.NewNopLogger())
	ctx := context.Background()

	older := sampleReport(0.4)
	older.Timestamp = time.Now().UTC().Add(-time.Hour)
	newer := sampleReport(0.8)
	require.NoError(t, repo.Save(ctx, older))
	require.NoError(t, repo.Save(ctx, newer))

	summaries, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, newer.ID, summaries[0].ID)
	assert.Equal(t, older.ID, summaries[1].ID)
}

func TestReportRepository_Delete(t *testing.T) {
	pool := startPostgres(t)
	repo := repositories.NewReportRepository(pool, logging.NewNopLogger())
	ctx := context.Background()

	rep := sampleReport(0.6)
	require.NoError(t, repo.Save(ctx, rep))
	require.NoError(t, repo.Delete(ctx, rep.ID))

	err := repo.Delete(ctx, rep.ID)
	assert.True(t, errors.IsCode(err, errors.CodeReportNotFound))
}
