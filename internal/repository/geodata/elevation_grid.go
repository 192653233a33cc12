package geodata

import (
	"encoding/json"
	"math"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/floodwatch-service/internal/domain/repository"
)

const gridNoData = -9999.0

// elevationGridFile is the offline-sampled DEM raster: row-major cell values
// anchored at the south-west corner, nodata cells marked with -9999.
type elevationGridFile struct {
	South   float64     `json:"south"`
	West    float64     `json:"west"`
	CellDeg float64     `json:"cell_deg"`
	Values  [][]float64 `json:"values"`
}

type elevationGridRepository struct {
	path   string
	logger *zap.Logger

	once sync.Once
	grid *elevationGridFile
}

func NewElevationGridRepository(path string, logger *zap.Logger) repository.ElevationGridRepository {
	return &elevationGridRepository{path: path, logger: logger}
}

// Sample looks up the grid cell containing the point. ok is false when the
// grid is absent, the point is outside its bounds, or the cell has no data.
func (r *elevationGridRepository) Sample(lat, lng float64) (float64, bool) {
	r.once.Do(r.load)

	if r.grid == nil || r.grid.CellDeg <= 0 || len(r.grid.Values) == 0 {
		return 0, false
	}

	row := int(math.Floor((lat - r.grid.South) / r.grid.CellDeg))
	col := int(math.Floor((lng - r.grid.West) / r.grid.CellDeg))
	if row < 0 || row >= len(r.grid.Values) {
		return 0, false
	}
	if col < 0 || col >= len(r.grid.Values[row]) {
		return 0, false
	}

	value := r.grid.Values[row][col]
	if value == gridNoData {
		return 0, false
	}
	return value, true
}

func (r *elevationGridRepository) load() {
	if r.path == "" {
		return
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.logger.Error("elevation grid read failed", zap.String("path", r.path), zap.Error(err))
		} else {
			r.logger.Warn("elevation grid missing, sampling disabled", zap.String("path", r.path))
		}
		return
	}

	var grid elevationGridFile
	if err := json.Unmarshal(data, &grid); err != nil {
		r.logger.Error("elevation grid parse failed", zap.String("path", r.path), zap.Error(err))
		return
	}

	r.grid = &grid
	r.logger.Info("elevation grid loaded",
		zap.String("path", r.path),
		zap.Int("rows", len(grid.Values)))
}
