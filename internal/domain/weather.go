package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/floodwatch-service/internal/pkg/errors"
)

// DemoHoursLimit caps caller-supplied demo rainfall series.
const DemoHoursLimit = 6

// ForecastKind discriminates the weather source variants.
type ForecastKind string

const (
	ForecastLive       ForecastKind = "live"
	ForecastDemo       ForecastKind = "demo"
	ForecastHistorical ForecastKind = "historical"
)

// ForecastMode is a closed tagged variant: live carries nothing, demo carries
// an explicit per-hour rainfall series, historical carries a resolved unix
// timestamp. Construct through LiveMode/DemoMode/HistoricalMode so invalid
// combinations cannot be represented.
type ForecastMode struct {
	kind          ForecastKind
	demoValues    []float64
	referenceTime int64
}

func LiveMode() ForecastMode {
	return ForecastMode{kind: ForecastLive}
}

func DemoMode(values []float64) ForecastMode {
	return ForecastMode{kind: ForecastDemo, demoValues: values}
}

func HistoricalMode(epochSeconds int64) ForecastMode {
	return ForecastMode{kind: ForecastHistorical, referenceTime: epochSeconds}
}

func (m ForecastMode) Kind() ForecastKind {
	if m.kind == "" {
		return ForecastLive
	}
	return m.kind
}

func (m ForecastMode) DemoValues() []float64 { return m.demoValues }

// ReferenceTime returns the historical epoch in seconds, 0 for other kinds.
func (m ForecastMode) ReferenceTime() int64 { return m.referenceTime }

// CacheSuffix is the mode-dependent part of the weather cache key.
func (m ForecastMode) CacheSuffix() string {
	ref := "now"
	if m.Kind() == ForecastHistorical {
		ref = strconv.FormatInt(m.referenceTime, 10)
	}
	return fmt.Sprintf("%s:%s:%s", m.Kind(), ref, demoCacheHash(m.demoValues))
}

func demoCacheHash(values []float64) string {
	if len(values) == 0 {
		return "demo:none"
	}
	rounded := make([]float64, len(values))
	for i, v := range values {
		rounded[i] = math.Round(v*10) / 10
	}
	payload, _ := json.Marshal(rounded)
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])[:12]
}

// ParseForecastMode resolves the raw mode string plus its associated payload
// into a ForecastMode. Naive historical timestamps are localized to loc.
func ParseForecastMode(mode string, referenceTime string, demoRainfall interface{}, loc *time.Location) (ForecastMode, error) {
	switch ForecastKind(strings.ToLower(strings.TrimSpace(mode))) {
	case ForecastLive, "":
		return LiveMode(), nil
	case ForecastDemo:
		values, err := ParseDemoRainfall(demoRainfall)
		if err != nil {
			return ForecastMode{}, err
		}
		return DemoMode(values), nil
	case ForecastHistorical:
		epoch, err := ParseReferenceTime(referenceTime, loc)
		if err != nil {
			return ForecastMode{}, err
		}
		return HistoricalMode(epoch), nil
	default:
		return ForecastMode{}, errors.ErrInvalidForecastMode
	}
}

// ParseDemoRainfall accepts a comma string ("10,22,45"), a JSON array string
// ("[10,22,45]"), a decoded JSON array, or a single number. Values must be
// non-negative and finite; they are rounded to 0.1 mm and capped at
// DemoHoursLimit entries.
func ParseDemoRainfall(raw interface{}) ([]float64, error) {
	if raw == nil {
		return []float64{}, nil
	}

	var items []interface{}
	switch v := raw.(type) {
	case string:
		normalized := strings.TrimSpace(v)
		if normalized == "" {
			return []float64{}, nil
		}
		if strings.HasPrefix(normalized, "[") && strings.HasSuffix(normalized, "]") {
			var parsed []interface{}
			if err := json.Unmarshal([]byte(normalized), &parsed); err != nil {
				return nil, errors.ErrInvalidDemoRainfall
			}
			items = parsed
		} else {
			for _, part := range strings.Split(normalized, ",") {
				items = append(items, strings.TrimSpace(part))
			}
		}
	case []float64:
		for _, f := range v {
			items = append(items, f)
		}
	case []interface{}:
		items = v
	case float64:
		items = []interface{}{v}
	case int:
		items = []interface{}{float64(v)}
	default:
		return nil, errors.ErrInvalidDemoRainfall
	}

	values := make([]float64, 0, len(items))
	for _, item := range items {
		value, err := toFloat(item)
		if err != nil {
			return nil, errors.ErrInvalidDemoRainfall
		}
		if value < 0 || math.IsNaN(value) || math.IsInf(value, 0) {
			return nil, errors.ErrInvalidDemoRainfall
		}
		values = append(values, math.Round(value*10)/10)
	}

	if len(values) > DemoHoursLimit {
		values = values[:DemoHoursLimit]
	}
	return values, nil
}

// ParseDemoUpstreamRainfall parses per-node demo rainfall overrides, either a
// {"lat,lng": series} object or an array of {lat, lng, rainfall} entries.
// Keys are normalized with NodeKey so they match river graph node ids.
func ParseDemoUpstreamRainfall(raw interface{}) (map[string][]float64, error) {
	if raw == nil {
		return map[string][]float64{}, nil
	}

	var payload interface{} = raw
	if s, ok := raw.(string); ok {
		normalized := strings.TrimSpace(s)
		if normalized == "" {
			return map[string][]float64{}, nil
		}
		if err := json.Unmarshal([]byte(normalized), &payload); err != nil {
			return nil, errors.ErrInvalidDemoRainfall.WithMessage(
				"demo_upstream_rainfall must be a JSON object or array")
		}
	}

	overrides := map[string][]float64{}

	switch v := payload.(type) {
	case map[string]interface{}:
		for rawKey, item := range v {
			if !strings.Contains(rawKey, ",") {
				return nil, errors.ErrInvalidDemoRainfall.WithMessage(
					"demo_upstream_rainfall object keys must be 'lat,lng' strings")
			}
			parts := strings.SplitN(rawKey, ",", 2)
			lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
			lng, errLng := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
			if errLat != nil || errLng != nil {
				return nil, errors.ErrInvalidDemoRainfall.WithMessage(
					"demo_upstream_rainfall object keys must be 'lat,lng' strings")
			}
			values, err := ParseDemoRainfall(item)
			if err != nil {
				return nil, err
			}
			overrides[NodeKey(lat, lng)] = values
		}
	case []interface{}:
		for _, rawItem := range v {
			item, ok := rawItem.(map[string]interface{})
			if !ok {
				return nil, errors.ErrInvalidDemoRainfall.WithMessage(
					"each demo_upstream_rainfall entry must be an object")
			}
			lat, errLat := toFloat(item["lat"])
			lng, errLng := toFloat(item["lng"])
			if errLat != nil || errLng != nil {
				return nil, errors.ErrInvalidDemoRainfall.WithMessage(
					"each demo_upstream_rainfall entry requires lat and lng coordinates")
			}
			rainfall := item["demo_rainfall"]
			if rainfall == nil {
				rainfall = item["rainfall"]
			}
			values, err := ParseDemoRainfall(rainfall)
			if err != nil {
				return nil, err
			}
			overrides[NodeKey(lat, lng)] = values
		}
	default:
		return nil, errors.ErrInvalidDemoRainfall.WithMessage(
			"demo_upstream_rainfall must be a JSON array or lat/lng map")
	}

	return overrides, nil
}

// ParseReferenceTime resolves unix seconds, unix milliseconds, or ISO-8601
// into epoch seconds. Naive timestamps are interpreted in loc.
func ParseReferenceTime(raw string, loc *time.Location) (int64, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, errors.ErrInvalidReferenceTime.WithMessage(
			"reference_time is required for historical mode")
	}

	if isDigits(value) {
		epoch, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return 0, errors.ErrInvalidReferenceTime
		}
		if len(value) >= 13 {
			return epoch / 1000, nil
		}
		return epoch, nil
	}

	if loc == nil {
		loc = time.UTC
	}

	value = strings.Replace(value, "Z", "+00:00", 1)
	layouts := []string{
		"2006-01-02T15:04:05-07:00",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t.Unix(), nil
		}
	}

	return 0, errors.ErrInvalidReferenceTime
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func toFloat(raw interface{}) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	default:
		return 0, fmt.Errorf("not a number: %v", raw)
	}
}
