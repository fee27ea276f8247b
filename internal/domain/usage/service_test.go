package usage

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	records []Record
	err     error
}

func (r *testRepo) Create(ctx context.Context, rec Record) error {
	if r.err != nil {
		return r.err
	}
	r.records = append(r.records, rec)
	return nil
}

func (r *testRepo) Summarize(ctx context.Context, since *time.Time) (Summary, error) {
	if r.err != nil {
		return Summary{}, r.err
	}
	sum := Summary{ByOutcome: map[Outcome]int{}}
	for _, rec := range r.records {
		if since != nil && rec.OccurredAt.Before(*since) {
			continue
		}
		sum.Total++
		sum.ByOutcome[rec.Outcome]++
	}
	return sum, nil
}

func (r *testRepo) Prune(ctx context.Context, before time.Time) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	kept := r.records[:0]
	n := 0
	for _, rec := range r.records {
		if rec.OccurredAt.Before(before) {
			n++
			continue
		}
		kept = append(kept, rec)
	}
	r.records = kept
	return n, nil
}

func newTestService(repo Repository, now time.Time) *Service {
	svc := NewService(repo)
	svc.now = func() time.Time { return now }
	return svc
}

// -------------------------
// Service
// -------------------------

func TestRecord_AssignsIDAndTimestamp(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.FixedZone("x", 3600))
	repo := &testRepo{}
	svc := newTestService(repo, now)

	rec, err := svc.Record(context.Background(), RecordInput{
		Outcome:    OutcomeSuccess,
		StatusCode: http.StatusOK,
		Provider:   "openai",
		Preset:     "strict",
		Duration:   1500 * time.Millisecond,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, now.UTC(), rec.OccurredAt)
	require.Len(t, repo.records, 1)
	assert.Equal(t, rec, repo.records[0])
}

func TestRecord_RejectsIncompleteInput(t *testing.T) {
	svc := newTestService(&testRepo{}, time.Now())

	_, err := svc.Record(context.Background(), RecordInput{StatusCode: 200})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Record(context.Background(), RecordInput{Outcome: OutcomeSuccess})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRecord_PropagatesRepoError(t *testing.T) {
	boom := errors.New("db down")
	svc := newTestService(&testRepo{err: boom}, time.Now())

	_, err := svc.Record(context.Background(), RecordInput{Outcome: OutcomeSuccess, StatusCode: 200})
	assert.ErrorIs(t, err, boom)
}

func TestSummary_FiltersBySince(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	repo := &testRepo{}
	ctx := context.Background()

	for i, o := range []Outcome{OutcomeSuccess, OutcomeRateLimited, OutcomeSuccess} {
		svc := newTestService(repo, base.Add(time.Duration(i)*time.Hour))
		_, err := svc.Record(ctx, RecordInput{Outcome: o, StatusCode: 200})
		require.NoError(t, err)
	}

	svc := NewService(repo)

	all, err := svc.Summary(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, all.Total)
	assert.Equal(t, 2, all.ByOutcome[OutcomeSuccess])
	assert.Nil(t, all.Since)

	since := base.Add(time.Hour)
	recent, err := svc.Summary(ctx, &since)
	require.NoError(t, err)
	assert.Equal(t, 2, recent.Total)
	assert.Equal(t, 1, recent.ByOutcome[OutcomeRateLimited])
	assert.Equal(t, &since, recent.Since)
}

func TestPrune_UsesRetention(t *testing.T) {
	now := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	repo := &testRepo{records: []Record{
		{ID: "old", Outcome: OutcomeSuccess, OccurredAt: now.Add(-25 * time.Hour)},
		{ID: "new", Outcome: OutcomeSuccess, OccurredAt: now.Add(-time.Hour)},
	}}
	svc := newTestService(repo, now)

	n, err := svc.Prune(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, repo.records, 1)
	assert.Equal(t, "new", repo.records[0].ID)
}

func TestRun_StopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	repo := &testRepo{}
	svc := NewService(repo)

	ctx, cancel := context.WithCancel(context.Background())
	pruned := make(chan struct{}, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		svc.Run(ctx, time.Millisecond, time.Hour, func(int, error) {
			select {
			case pruned <- struct{}{}:
			default:
			}
		})
	}()

	<-pruned
	cancel()
	<-done
}

// -------------------------
// Handler
// -------------------------

func newTestRouter(svc *Service) http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r, svc)
	return r
}

func TestSummaryHandler_ListsEveryOutcome(t *testing.T) {
	repo := &testRepo{}
	svc := newTestService(repo, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	_, err := svc.Record(context.Background(), RecordInput{Outcome: OutcomeSchemaViolation, StatusCode: 400})
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/usage", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body struct {
		Since     *string        `json:"since"`
		Total     int            `json:"total"`
		ByOutcome map[string]int `json:"by_outcome"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Nil(t, body.Since)
	assert.Equal(t, 1, body.Total)
	assert.Len(t, body.ByOutcome, len(Outcomes))
	assert.Equal(t, 1, body.ByOutcome["schema_violation"])
	assert.Equal(t, 0, body.ByOutcome["success"])
}

func TestSummaryHandler_InvalidSince(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter(NewService(&testRepo{})).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/usage?since=yesterday", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"since must be RFC3339"}`, rr.Body.String())
}

func TestSummaryHandler_RepoError(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter(NewService(&testRepo{err: errors.New("boom")})).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/usage", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, rr.Body.String())
}
