package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/CaseLens/internal/application/evaluation"
	"github.com/turtacn/CaseLens/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/CaseLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CaseLens/pkg/errors"
	"github.com/turtacn/CaseLens/pkg/types/report"
)

type mockEvaluator struct {
	evaluateFunc func(ctx context.Context, in evaluation.Input) (*report.AggregateReport, error)
	compareFunc  func(ctx context.Context, in evaluation.CompareInput) (*report.ComparisonReport, error)
}

func (m *mockEvaluator) EvaluateBatch(ctx context.Context, in evaluation.Input) (*report.AggregateReport, error) {
	return m.evaluateFunc(ctx, in)
}

func (m *mockEvaluator) CompareVersions(ctx context.Context, in evaluation.CompareInput) (*report.ComparisonReport, error) {
	return m.compareFunc(ctx, in)
}

type mockSaver struct {
	saved []*report.AggregateReport
	err   error
}

func (m *mockSaver) Save(_ context.Context, rep *report.AggregateReport) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, rep)
	return nil
}

type mockPublisher struct {
	published []kafka.EvaluationRequestedPayload
	err       error
}

func (m *mockPublisher) PublishEvaluationRequested(_ context.Context, p kafka.EvaluationRequestedPayload) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, p)
	return nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func postJSON(t *testing.T, handler gin.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	r := gin.New()
	r.POST(path, handler)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestEvaluateReturnsReportAndSaves(t *testing.T) {
	want := &report.AggregateReport{ID: "rep-1", TotalCases: 2, OverallScore: 0.8}
	ev := &mockEvaluator{
		evaluateFunc: func(_ context.Context, in evaluation.Input) (*report.AggregateReport, error) {
			assert.Len(t, in.Cases, 2)
			return want, nil
		},
	}
	saver := &mockSaver{}
	h := NewEvaluationHandler(ev, saver, nil, nil, logging.NewNopLogger())

	rec := postJSON(t, h.Evaluate, "/api/v1/evaluations", evaluation.Input{
		Cases: []string{"标题：登录", "标题：登出"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var got report.AggregateReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "rep-1", got.ID)
	require.Len(t, saver.saved, 1)
}

func TestEvaluateEmptyBatchMapsTo400(t *testing.T) {
	ev := &mockEvaluator{
		evaluateFunc: func(context.Context, evaluation.Input) (*report.AggregateReport, error) {
			return nil, errors.New(errors.CodeEmptyBatch, "no test cases provided")
		},
	}
	h := NewEvaluationHandler(ev, nil, nil, nil, logging.NewNopLogger())

	rec := postJSON(t, h.Evaluate, "/api/v1/evaluations", evaluation.Input{})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "EMPTY_BATCH", resp.Code)
}

func TestEvaluateMasksInternalErrors(t *testing.T) {
	ev := &mockEvaluator{
		evaluateFunc: func(context.Context, evaluation.Input) (*report.AggregateReport, error) {
			return nil, errors.New(errors.CodeInternal, "pool exhausted at 10.0.0.5")
		},
	}
	h := NewEvaluationHandler(ev, nil, nil, nil, logging.NewNopLogger())

	rec := postJSON(t, h.Evaluate, "/api/v1/evaluations", evaluation.Input{Cases: []string{"x"}})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
}

func TestEvaluateSaveFailureStillReturnsReport(t *testing.T) {
	ev := &mockEvaluator{
		evaluateFunc: func(context.Context, evaluation.Input) (*report.AggregateReport, error) {
			return &report.AggregateReport{ID: "rep-2"}, nil
		},
	}
	saver := &mockSaver{err: errors.New(errors.CodeDatabaseError, "down")}
	h := NewEvaluationHandler(ev, saver, nil, nil, logging.NewNopLogger())

	rec := postJSON(t, h.Evaluate, "/api/v1/evaluations", evaluation.Input{Cases: []string{"x"}})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestEvaluateRejectsMalformedBody(t *testing.T) {
	h := NewEvaluationHandler(&mockEvaluator{}, nil, nil, nil, logging.NewNopLogger())

	r := gin.New()
	r.POST("/api/v1/evaluations", h.Evaluate)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/evaluations", bytes.NewReader([]byte("{")))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEvaluateAsyncPublishes(t *testing.T) {
	pub := &mockPublisher{}
	h := NewEvaluationHandler(&mockEvaluator{}, nil, pub, nil, logging.NewNopLogger())

	rec := postJSON(t, h.EvaluateAsync, "/api/v1/evaluations/async", asyncRequest{
		Cases:   []string{"标题：登录"},
		PRDText: "用户必须登录",
	})

	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, pub.published, 1)
	assert.NotEmpty(t, pub.published[0].RequestID)
	assert.Equal(t, []string{"标题：登录"}, pub.published[0].Cases)

	var resp asyncResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, pub.published[0].RequestID, resp.RequestID)
	assert.Equal(t, "accepted", resp.Status)
}

func TestEvaluateAsyncWithoutPublisher(t *testing.T) {
	h := NewEvaluationHandler(&mockEvaluator{}, nil, nil, nil, logging.NewNopLogger())

	rec := postJSON(t, h.EvaluateAsync, "/api/v1/evaluations/async", asyncRequest{
		Cases: []string{"x"},
	})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCompare(t *testing.T) {
	ev := &mockEvaluator{
		compareFunc: func(_ context.Context, in evaluation.CompareInput) (*report.ComparisonReport, error) {
			assert.Equal(t, []string{"a"}, in.VersionA)
			assert.Equal(t, []string{"b"}, in.VersionB)
			return &report.ComparisonReport{OverallImprovement: 0.1}, nil
		},
	}
	h := NewEvaluationHandler(ev, nil, nil, nil, logging.NewNopLogger())

	rec := postJSON(t, h.Compare, "/api/v1/comparisons", evaluation.CompareInput{
		VersionA: []string{"a"},
		VersionB: []string{"b"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var cmp report.ComparisonReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cmp))
	assert.InDelta(t, 0.1, cmp.OverallImprovement, 1e-9)
}
