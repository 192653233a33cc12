package errors

import "net/http"

var (
	ErrInvalidCoordinates = New(
		"INVALID_COORDINATES",
		"Invalid coordinates provided",
		http.StatusBadRequest,
	)

	ErrInvalidHours = New(
		"INVALID_HOURS",
		"Forecast hours must be an integer between 1 and 6",
		http.StatusBadRequest,
	)

	ErrInvalidDemoRainfall = New(
		"INVALID_DEMO_RAINFALL",
		"demo_rainfall must be comma-separated values or a JSON array of non-negative numbers",
		http.StatusBadRequest,
	)

	ErrInvalidReferenceTime = New(
		"INVALID_REFERENCE_TIME",
		"reference_time must be unix epoch seconds or ISO format, e.g. 2026-02-28T10:00:00",
		http.StatusBadRequest,
	)

	ErrInvalidForecastMode = New(
		"INVALID_FORECAST_MODE",
		"weather_mode must be one of: live, demo, historical",
		http.StatusBadRequest,
	)

	ErrNoRoute = New(
		"NO_ROUTE",
		"No route exists between origin and destination",
		http.StatusUnprocessableEntity,
	)

	ErrGraphUnavailable = New(
		"GRAPH_UNAVAILABLE",
		"Required graph data file is missing",
		http.StatusServiceUnavailable,
	)

	ErrBacktestNotFound = New(
		"BACKTEST_NOT_FOUND",
		"Backtest run not found",
		http.StatusNotFound,
	)

	ErrBacktestRateLimited = New(
		"BACKTEST_RATE_LIMITED",
		"Another backtest is already running for this area",
		http.StatusTooManyRequests,
	)

	ErrInvalidBacktestWindow = New(
		"INVALID_BACKTEST_WINDOW",
		"Backtest start must be before end and the window must not exceed 72 hours",
		http.StatusBadRequest,
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
