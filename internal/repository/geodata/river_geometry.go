package geodata

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"

	"github.com/floodwatch-service/internal/domain"
	"github.com/floodwatch-service/internal/domain/repository"
)

// riverGeometryRepository serves river geometry for proximity scoring.
// Full linestrings give segment-accurate distances; the sampled point list
// is the coarser fallback when no linestring file is deployed.
type riverGeometryRepository struct {
	linesPath  string
	pointsPath string
	logger     *zap.Logger

	linesOnce sync.Once
	lines     []orb.LineString
	linesErr  error

	pointsOnce sync.Once
	points     []domain.Coordinate
	pointsErr  error
}

func NewRiverGeometryRepository(linesPath, pointsPath string, logger *zap.Logger) repository.RiverGeometryRepository {
	return &riverGeometryRepository{
		linesPath:  linesPath,
		pointsPath: pointsPath,
		logger:     logger,
	}
}

func (r *riverGeometryRepository) Lines() ([]orb.LineString, error) {
	r.linesOnce.Do(func() {
		r.lines, r.linesErr = r.loadLines()
		if r.linesErr == nil {
			r.logger.Info("river lines loaded",
				zap.String("path", r.linesPath),
				zap.Int("lines", len(r.lines)))
		}
	})
	return r.lines, r.linesErr
}

func (r *riverGeometryRepository) Points() ([]domain.Coordinate, error) {
	r.pointsOnce.Do(func() {
		r.points, r.pointsErr = r.loadPoints()
		if r.pointsErr == nil {
			r.logger.Info("river points loaded",
				zap.String("path", r.pointsPath),
				zap.Int("points", len(r.points)))
		}
	})
	return r.points, r.pointsErr
}

func (r *riverGeometryRepository) loadLines() ([]orb.LineString, error) {
	if r.linesPath == "" {
		return nil, nil
	}

	data, err := os.ReadFile(r.linesPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read river lines: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse river lines: %w", err)
	}

	var lines []orb.LineString
	for _, feature := range fc.Features {
		switch geom := feature.Geometry.(type) {
		case orb.LineString:
			lines = append(lines, geom)
		case orb.MultiLineString:
			lines = append(lines, geom...)
		}
	}
	return lines, nil
}

func (r *riverGeometryRepository) loadPoints() ([]domain.Coordinate, error) {
	if r.pointsPath == "" {
		return nil, nil
	}

	data, err := os.ReadFile(r.pointsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read river points: %w", err)
	}

	var points []domain.Coordinate
	if err := json.Unmarshal(data, &points); err != nil {
		return nil, fmt.Errorf("failed to parse river points: %w", err)
	}
	return points, nil
}
