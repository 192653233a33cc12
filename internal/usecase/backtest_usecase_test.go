package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/floodwatch-service/internal/config"
	"github.com/floodwatch-service/internal/domain"
	apperrors "github.com/floodwatch-service/internal/pkg/errors"
	"github.com/floodwatch-service/internal/usecase/dto"
)

type fakeBacktestRepo struct {
	runs      map[uuid.UUID]*domain.BacktestRun
	active    bool
	inserted  []domain.BacktestResult
	statuses  []string
	top       []domain.BacktestResult
	createErr error
	insertErr error
}

func newFakeBacktestRepo() *fakeBacktestRepo {
	return &fakeBacktestRepo{runs: map[uuid.UUID]*domain.BacktestRun{}}
}

func (f *fakeBacktestRepo) CreateRun(_ context.Context, run *domain.BacktestRun) error {
	if f.createErr != nil {
		return f.createErr
	}
	copied := *run
	f.runs[run.ID] = &copied
	return nil
}

func (f *fakeBacktestRepo) GetRun(_ context.Context, id uuid.UUID) (*domain.BacktestRun, error) {
	run, ok := f.runs[id]
	if !ok {
		return nil, apperrors.ErrBacktestNotFound
	}
	copied := *run
	return &copied, nil
}

func (f *fakeBacktestRepo) UpdateRun(_ context.Context, run *domain.BacktestRun) error {
	if _, ok := f.runs[run.ID]; !ok {
		return apperrors.ErrBacktestNotFound
	}
	copied := *run
	f.runs[run.ID] = &copied
	f.statuses = append(f.statuses, run.Status)
	return nil
}

func (f *fakeBacktestRepo) HasActiveRun(_ context.Context, _ string) (bool, error) {
	return f.active, nil
}

func (f *fakeBacktestRepo) InsertResults(_ context.Context, results []domain.BacktestResult) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, results...)
	return nil
}

func (f *fakeBacktestRepo) TopResults(_ context.Context, _ uuid.UUID, limit int) ([]domain.BacktestResult, error) {
	if len(f.top) > limit {
		return f.top[:limit], nil
	}
	return f.top, nil
}

type fakeStreamRepo struct {
	published  [][]byte
	publishErr error
}

func (f *fakeStreamRepo) CreateConsumerGroup(_ context.Context, _, _ string) error { return nil }

func (f *fakeStreamRepo) ConsumeStream(_ context.Context, _, _, _ string) (<-chan domain.StreamMessage, error) {
	ch := make(chan domain.StreamMessage)
	close(ch)
	return ch, nil
}

func (f *fakeStreamRepo) AckMessage(_ context.Context, _, _, _ string) error { return nil }

func (f *fakeStreamRepo) PublishMessage(_ context.Context, _ string, data []byte) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, data)
	return nil
}

func testArea() config.AreaConfig {
	return config.AreaConfig{
		Slug:  "negros-island",
		South: 9.0,
		North: 10.95,
		West:  122.15,
		East:  123.55,
	}
}

func newBacktestForTest(runs *fakeBacktestRepo, queue *fakeStreamRepo) BacktestUsecase {
	return NewBacktestUsecase(
		testArea(),
		"backtest:requests",
		runs,
		queue,
		&fakeRiverGraphRepo{graph: chainRiverGraph()},
		&fakeRoadGraphRepo{graph: detourGraph()},
		nil,
		zap.NewNop(),
	)
}

func validCreateRequest() *dto.BacktestCreateRequest {
	return &dto.BacktestCreateRequest{
		AreaSlug: "negros-island",
		StartAt:  "2025-11-01T00:00:00Z",
		EndAt:    "2025-11-02T00:00:00Z",
	}
}

func TestBacktestUsecase_CreateQueuesRun(t *testing.T) {
	runs := newFakeBacktestRepo()
	queue := &fakeStreamRepo{}
	u := newBacktestForTest(runs, queue)

	run, err := u.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	assert.Equal(t, domain.BacktestPending, run.Status)
	assert.True(t, run.IncludeWeather)
	assert.True(t, run.IncludeRivers)
	assert.False(t, run.IncludeRoads)
	assert.Equal(t, defaultRiskThreshold, run.RiskThreshold)
	assert.Equal(t, maxBacktestPoints, run.MaxPoints)

	require.Len(t, queue.published, 1)
	var msg domain.BacktestRequest
	require.NoError(t, json.Unmarshal(queue.published[0], &msg))
	assert.Equal(t, run.ID, msg.RunID)
}

func TestBacktestUsecase_CreateRejectsUnknownArea(t *testing.T) {
	u := newBacktestForTest(newFakeBacktestRepo(), &fakeStreamRepo{})

	req := validCreateRequest()
	req.AreaSlug = "luzon"
	_, err := u.Create(context.Background(), req)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrInvalidRequest.Code, appErr.Code)
}

func TestBacktestUsecase_CreateRejectsBadWindows(t *testing.T) {
	u := newBacktestForTest(newFakeBacktestRepo(), &fakeStreamRepo{})

	cases := []struct {
		name    string
		startAt string
		endAt   string
	}{
		{"unparseable start", "not-a-date", "2025-11-02T00:00:00Z"},
		{"end before start", "2025-11-02T00:00:00Z", "2025-11-01T00:00:00Z"},
		{"start equals end", "2025-11-01T00:00:00Z", "2025-11-01T00:00:00Z"},
		{"window over 72h", "2025-11-01T00:00:00Z", "2025-11-05T00:00:00Z"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validCreateRequest()
			req.StartAt = tc.startAt
			req.EndAt = tc.endAt
			_, err := u.Create(context.Background(), req)
			assert.ErrorIs(t, err, apperrors.ErrInvalidBacktestWindow)
		})
	}
}

func TestBacktestUsecase_CreateAcceptsDateOnlyWindow(t *testing.T) {
	runs := newFakeBacktestRepo()
	u := newBacktestForTest(runs, &fakeStreamRepo{})

	req := validCreateRequest()
	req.StartAt = "2025-11-01"
	req.EndAt = "2025-11-03"
	run, err := u.Create(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 48.0, run.EndAt.Sub(run.StartAt).Hours())
}

func TestBacktestUsecase_CreateNeedsOneSource(t *testing.T) {
	u := newBacktestForTest(newFakeBacktestRepo(), &fakeStreamRepo{})

	off := false
	req := validCreateRequest()
	req.IncludeWeather = &off
	req.IncludeRivers = &off
	_, err := u.Create(context.Background(), req)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrInvalidRequest.Code, appErr.Code)
}

func TestBacktestUsecase_CreateRateLimited(t *testing.T) {
	runs := newFakeBacktestRepo()
	runs.active = true
	u := newBacktestForTest(runs, &fakeStreamRepo{})

	_, err := u.Create(context.Background(), validCreateRequest())
	assert.ErrorIs(t, err, apperrors.ErrBacktestRateLimited)
}

func TestBacktestUsecase_CreateEnqueueFailureMarksRunFailed(t *testing.T) {
	runs := newFakeBacktestRepo()
	queue := &fakeStreamRepo{publishErr: errors.New("stream down")}
	u := newBacktestForTest(runs, queue)

	_, err := u.Create(context.Background(), validCreateRequest())
	require.Error(t, err)

	require.Len(t, runs.runs, 1)
	for _, run := range runs.runs {
		assert.Equal(t, domain.BacktestFailed, run.Status)
		assert.NotEmpty(t, run.Error)
	}
}

func TestBacktestUsecase_ExecuteCompletesRun(t *testing.T) {
	runs := newFakeBacktestRepo()
	u := newBacktestForTest(runs, &fakeStreamRepo{})

	run, err := u.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)
	run.MaxPoints = 30
	require.NoError(t, runs.UpdateRun(context.Background(), run))

	require.NoError(t, u.Execute(context.Background(), run.ID))

	stored, err := runs.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BacktestCompleted, stored.Status)
	assert.Equal(t, 30, stored.NodesProcessed)
	assert.NotNil(t, stored.CompletedAt)
	assert.Contains(t, runs.statuses, domain.BacktestRunning)

	require.Len(t, runs.inserted, 30)
	flooded := 0
	for _, result := range runs.inserted {
		assert.Equal(t, run.ID, result.RunID)
		assert.GreaterOrEqual(t, result.RiskScore, 0.0)
		assert.LessOrEqual(t, result.RiskScore, 100.0)
		assert.NotNil(t, result.RiverDistanceKM)
		assert.Contains(t, result.Tags, "cell")
		if result.Flooded {
			flooded++
		}
	}
	assert.Equal(t, flooded, stored.FloodedCount)
}

func TestBacktestUsecase_ExecuteInsertFailureMarksRunFailed(t *testing.T) {
	runs := newFakeBacktestRepo()
	runs.insertErr = errors.New("insert failed")
	u := newBacktestForTest(runs, &fakeStreamRepo{})

	run, err := u.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	require.Error(t, u.Execute(context.Background(), run.ID))

	stored, err := runs.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BacktestFailed, stored.Status)
	assert.Equal(t, "insert failed", stored.Error)
}

func TestBacktestUsecase_ExecuteUnknownRun(t *testing.T) {
	u := newBacktestForTest(newFakeBacktestRepo(), &fakeStreamRepo{})

	err := u.Execute(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrBacktestNotFound)
}

func TestBacktestUsecase_GetAttachesTopResultsWhenCompleted(t *testing.T) {
	runs := newFakeBacktestRepo()
	u := newBacktestForTest(runs, &fakeStreamRepo{})

	run, err := u.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	status, err := u.Get(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BacktestPending, status.Run.Status)
	assert.Empty(t, status.TopResults)

	runs.top = []domain.BacktestResult{{RunID: run.ID, RiskScore: 91.5, Flooded: true}}
	run.Status = domain.BacktestCompleted
	require.NoError(t, runs.UpdateRun(context.Background(), run))

	status, err = u.Get(context.Background(), run.ID)
	require.NoError(t, err)
	require.Len(t, status.TopResults, 1)
	assert.Equal(t, 91.5, status.TopResults[0].RiskScore)
}

func TestHistoricalWindowRain(t *testing.T) {
	start, err := parseBacktestTime("2025-11-01T00:00:00Z")
	require.NoError(t, err)
	end, err := parseBacktestTime("2025-11-02T00:00:00Z")
	require.NoError(t, err)

	avg1, max1 := historicalWindowRain(start, end, true)
	avg2, max2 := historicalWindowRain(start, end, true)
	assert.Equal(t, avg1, avg2)
	assert.Equal(t, max1, max2)

	// base wave spans 12..26 mm and the diurnal term 3..7 mm
	assert.Greater(t, avg1, 15.0)
	assert.Less(t, avg1, 33.0)
	assert.GreaterOrEqual(t, max1, avg1)
	assert.LessOrEqual(t, max1, 33.0)

	avg, max := historicalWindowRain(start, end, false)
	assert.Zero(t, avg)
	assert.Zero(t, max)
}
