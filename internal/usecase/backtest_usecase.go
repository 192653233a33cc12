package usecase

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/floodwatch-service/internal/config"
	"github.com/floodwatch-service/internal/domain"
	"github.com/floodwatch-service/internal/domain/repository"
	"github.com/floodwatch-service/internal/observability"
	apperrors "github.com/floodwatch-service/internal/pkg/errors"
	"github.com/floodwatch-service/internal/pkg/utils"
	"github.com/floodwatch-service/internal/usecase/dto"
)

const (
	defaultRiskThreshold = 60
	maxBacktestPoints    = 140
	maxBacktestWindow    = 72 * time.Hour
	topResultLimit       = 20
)

// BacktestUsecase creates, executes, and reports historical-window grid
// simulations. Creation enqueues a stream message; a worker calls Execute.
type BacktestUsecase interface {
	Create(ctx context.Context, req *dto.BacktestCreateRequest) (*domain.BacktestRun, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.BacktestStatusResponse, error)
	Execute(ctx context.Context, runID uuid.UUID) error
}

type backtestUsecase struct {
	area    config.AreaConfig
	stream  string
	runs    repository.BacktestRepository
	queue   repository.StreamRepository
	rivers  repository.RiverGraphRepository
	roads   repository.RoadGraphRepository
	metrics *observability.Metrics
	logger  *zap.Logger
}

func NewBacktestUsecase(
	area config.AreaConfig,
	stream string,
	runs repository.BacktestRepository,
	queue repository.StreamRepository,
	rivers repository.RiverGraphRepository,
	roads repository.RoadGraphRepository,
	metrics *observability.Metrics,
	logger *zap.Logger,
) BacktestUsecase {
	return &backtestUsecase{
		area:    area,
		stream:  stream,
		runs:    runs,
		queue:   queue,
		rivers:  rivers,
		roads:   roads,
		metrics: metrics,
		logger:  logger,
	}
}

func (u *backtestUsecase) Create(ctx context.Context, req *dto.BacktestCreateRequest) (*domain.BacktestRun, error) {
	if req.AreaSlug != u.area.Slug {
		return nil, apperrors.ErrInvalidRequest.WithMessage("Unknown area: " + req.AreaSlug)
	}

	startAt, err := parseBacktestTime(req.StartAt)
	if err != nil {
		return nil, apperrors.ErrInvalidBacktestWindow
	}
	endAt, err := parseBacktestTime(req.EndAt)
	if err != nil {
		return nil, apperrors.ErrInvalidBacktestWindow
	}
	if !startAt.Before(endAt) || endAt.Sub(startAt) > maxBacktestWindow {
		return nil, apperrors.ErrInvalidBacktestWindow
	}

	includeWeather := boolOrDefault(req.IncludeWeather, true)
	includeRivers := boolOrDefault(req.IncludeRivers, true)
	includeRoads := boolOrDefault(req.IncludeRoads, false)
	if !includeWeather && !includeRivers && !includeRoads {
		return nil, apperrors.ErrInvalidRequest.WithMessage("Select at least one source")
	}

	active, err := u.runs.HasActiveRun(ctx, req.AreaSlug)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithDetails(map[string]interface{}{"cause": err.Error()})
	}
	if active {
		return nil, apperrors.ErrBacktestRateLimited
	}

	threshold := req.RiskThreshold
	if threshold <= 0 {
		threshold = defaultRiskThreshold
	}
	maxPoints := req.MaxPoints
	if maxPoints <= 0 || maxPoints > maxBacktestPoints {
		maxPoints = maxBacktestPoints
	}

	run := &domain.BacktestRun{
		ID:             uuid.New(),
		AreaSlug:       req.AreaSlug,
		StartAt:        startAt,
		EndAt:          endAt,
		Status:         domain.BacktestPending,
		IncludeWeather: includeWeather,
		IncludeRivers:  includeRivers,
		IncludeRoads:   includeRoads,
		RiskThreshold:  threshold,
		MaxPoints:      maxPoints,
		CreatedAt:      time.Now().UTC(),
	}

	if err := u.runs.CreateRun(ctx, run); err != nil {
		return nil, apperrors.ErrDatabaseError.WithDetails(map[string]interface{}{"cause": err.Error()})
	}

	payload, _ := json.Marshal(domain.BacktestRequest{RunID: run.ID})
	if err := u.queue.PublishMessage(ctx, u.stream, payload); err != nil {
		u.logger.Error("backtest enqueue failed", zap.String("run_id", run.ID.String()), zap.Error(err))
		run.Status = domain.BacktestFailed
		run.Error = "failed to enqueue run"
		_ = u.runs.UpdateRun(ctx, run)
		return nil, apperrors.ErrInternalServer
	}

	u.logger.Info("backtest run queued",
		zap.String("run_id", run.ID.String()),
		zap.String("area", run.AreaSlug))
	return run, nil
}

func (u *backtestUsecase) Get(ctx context.Context, id uuid.UUID) (*dto.BacktestStatusResponse, error) {
	run, err := u.runs.GetRun(ctx, id)
	if err != nil {
		return nil, err
	}

	response := &dto.BacktestStatusResponse{Run: run}
	if run.Status == domain.BacktestCompleted {
		results, err := u.runs.TopResults(ctx, id, topResultLimit)
		if err != nil {
			return nil, apperrors.ErrDatabaseError.WithDetails(map[string]interface{}{"cause": err.Error()})
		}
		response.TopResults = results
	}
	return response, nil
}

// Execute runs the simulation for a queued run. Failures are recorded on the
// run row rather than retried; the worker acks either way.
func (u *backtestUsecase) Execute(ctx context.Context, runID uuid.UUID) error {
	run, err := u.runs.GetRun(ctx, runID)
	if err != nil {
		return err
	}

	run.Status = domain.BacktestRunning
	if err := u.runs.UpdateRun(ctx, run); err != nil {
		return err
	}

	started := time.Now()
	results, floodedCount := u.simulate(run)
	runtimeMS := utils.Round2(float64(time.Since(started).Microseconds()) / 1000.0)

	run.RuntimeMS = runtimeMS
	run.NodesProcessed = len(results)
	run.FloodedCount = floodedCount
	completedAt := time.Now().UTC()
	run.CompletedAt = &completedAt

	if err := u.runs.InsertResults(ctx, results); err != nil {
		run.Status = domain.BacktestFailed
		run.Error = err.Error()
		_ = u.runs.UpdateRun(ctx, run)
		u.countBacktest(domain.BacktestFailed)
		return err
	}

	run.Status = domain.BacktestCompleted
	if err := u.runs.UpdateRun(ctx, run); err != nil {
		return err
	}

	u.countBacktest(domain.BacktestCompleted)
	if u.metrics != nil {
		u.metrics.BacktestDuration.Observe(time.Since(started).Seconds())
	}
	u.logger.Info("backtest run completed",
		zap.String("run_id", run.ID.String()),
		zap.Int("cells", len(results)),
		zap.Int("flooded", floodedCount),
		zap.Float64("runtime_ms", runtimeMS))
	return nil
}

func (u *backtestUsecase) simulate(run *domain.BacktestRun) ([]domain.BacktestResult, int) {
	avgRain, maxRain := historicalWindowRain(run.StartAt, run.EndAt, run.IncludeWeather)

	var riverGraph *domain.RiverGraph
	if run.IncludeRivers {
		riverGraph, _ = u.rivers.Load()
	}

	results := make([]domain.BacktestResult, 0, run.MaxPoints)
	flooded := 0
	for _, point := range u.backtestGrid(run.MaxPoints) {
		result := u.scoreCell(run, point, avgRain, maxRain, riverGraph)
		if result.Flooded {
			flooded++
		}
		results = append(results, result)
	}
	return results, flooded
}

func (u *backtestUsecase) scoreCell(run *domain.BacktestRun, point domain.Coordinate, avgRain, maxRain float64, riverGraph *domain.RiverGraph) domain.BacktestResult {
	weatherSignal := 0.0
	if run.IncludeWeather {
		weatherSignal = avgRain
	}

	elevationProxy := 22.0 + 9.0*math.Sin(point.Lat*2.3) + 7.0*math.Cos(point.Lng*2.7)
	lowElevSignal := 4.0
	if elevationProxy < 25 {
		lowElevSignal = 14.0
		if elevationProxy < 20 {
			lowElevSignal = 24.0
		}
	}

	var riverDistanceKM *float64
	riverSignal := 0.0
	downstreamDecay := 0.2
	if riverGraph != nil {
		if node, ok := riverGraph.NearestNode(point.Lat, point.Lng); ok {
			d := utils.Round3(utils.HaversineKm(point.Lat, point.Lng, node.Lat, node.Lng))
			riverDistanceKM = &d
			riverSignal = utils.Clamp(70.0-d*4.0, 0.0, 50.0)
			downstreamDecay = math.Max(0.2, 1.0-d/160.0)
		}
	}
	downstreamSignal := utils.Clamp(maxRain*1.25*downstreamDecay, 0.0, 100.0)

	score := weatherSignal*1.15 +
		downstreamSignal*0.75 +
		riverSignal +
		lowElevSignal
	if run.IncludeRoads {
		score += 8.0
	}
	if !run.IncludeWeather && !run.IncludeRivers {
		score *= 0.35
	}
	score = utils.Clamp(score, 0.0, 100.0)

	tags := []string{"cell"}
	if elevationProxy < 20 {
		tags = append(tags, "low-elevation")
	}

	return domain.BacktestResult{
		RunID:              run.ID,
		Lat:                point.Lat,
		Lng:                point.Lng,
		RiskScore:          utils.Round2(score),
		Flooded:            score >= float64(run.RiskThreshold),
		WeatherSignal:      weatherSignal,
		DownstreamSignal:   utils.Round2(downstreamSignal),
		RiverDistanceKM:    riverDistanceKM,
		LowElevationSignal: lowElevSignal,
		ElevationProxy:     utils.Round2(elevationProxy),
		Tags:               tags,
	}
}

func (u *backtestUsecase) backtestGrid(maxPoints int) []domain.Coordinate {
	if maxPoints < minAreaPoints {
		maxPoints = minAreaPoints
	}
	rows := int(math.Sqrt(float64(maxPoints)))
	if rows < 4 {
		rows = 4
	}
	cols := int(math.Sqrt(float64(maxPoints)) * 1.25)
	if cols < 6 {
		cols = 6
	}

	latStep := (u.area.North - u.area.South) / math.Max(float64(rows-1), 1)
	lngStep := (u.area.East - u.area.West) / math.Max(float64(cols-1), 1)

	points := make([]domain.Coordinate, 0, maxPoints)
	for i := 0; i < rows; i++ {
		lat := u.area.South + latStep*float64(i)
		for j := 0; j < cols; j++ {
			lng := u.area.West + lngStep*float64(j)
			points = append(points, domain.Coordinate{
				Lat: utils.Round2(lat),
				Lng: utils.Round2(lng),
			})
			if len(points) >= maxPoints {
				return points
			}
		}
	}
	return points
}

// historicalWindowRain synthesizes an event-shaped rainfall wave with a
// diurnal component over the run window and summarizes it.
func historicalWindowRain(startAt, endAt time.Time, includeWeather bool) (avg, max float64) {
	if !includeWeather {
		return 0, 0
	}

	totalHours := int(endAt.Sub(startAt).Hours()) + 1
	if totalHours < 1 {
		totalHours = 1
	}

	sum := 0.0
	for i := 0; i < totalHours; i++ {
		ts := startAt.Add(time.Duration(i) * time.Hour)
		wave := float64(i) / float64(totalHours) * math.Pi
		hourPhase := (float64(ts.Hour()) + float64(ts.Minute())/60.0) / 24.0 * 2 * math.Pi

		baseRain := 12.0 + 14.0*(math.Sin(wave)+1)/2
		diurnal := 5.0 + 2.0*math.Sin(hourPhase)
		hourly := utils.Round2(baseRain + diurnal)

		sum += hourly
		if hourly > max {
			max = hourly
		}
	}
	return utils.Round2(sum / float64(totalHours)), utils.Round2(max)
}

func (u *backtestUsecase) countBacktest(status string) {
	if u.metrics != nil {
		u.metrics.BacktestRuns.WithLabelValues(status).Inc()
	}
}

func parseBacktestTime(value string) (time.Time, error) {
	layouts := []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"}
	var lastErr error
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts.UTC(), nil
		} else {
			lastErr = err
		}
	}
	return time.Time{}, lastErr
}

func boolOrDefault(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}
