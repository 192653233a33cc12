package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Weather   WeatherConfig
	Elevation ElevationConfig
	Geodata   GeodataConfig
	Area      AreaConfig
	Worker    WorkerConfig
	Log       LogConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	WeatherTTL   time.Duration
	ElevationTTL time.Duration
	RiskAreaTTL  time.Duration
}

type WeatherConfig struct {
	APIKey         string
	BaseURL        string
	TimemachineURL string
	RequestTimeout time.Duration
	Timezone       string
}

type ElevationConfig struct {
	BaseURL        string
	Dataset        string
	RequestTimeout time.Duration
	AllowRemote    bool
}

type GeodataConfig struct {
	RiverGraphPath    string
	RoadGraphPath     string
	FloodZonesPath    string
	RiverLinesPath    string
	RiverPointsPath   string
	ElevationGridPath string
}

// AreaConfig bounds the risk-area sampling grid. Defaults cover Negros Island.
type AreaConfig struct {
	Slug  string
	South float64
	North float64
	West  float64
	East  float64
}

type WorkerConfig struct {
	Enabled       bool
	ConsumerGroup string
	Stream        string
	MaxRetries    int
}

type LogConfig struct {
	Level string
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("API_HOST"),
			Port: viper.GetInt("API_PORT"),
			Env:  viper.GetString("API_ENV"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			DBName:          viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSLMODE"),
			MaxConns:        viper.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(viper.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(viper.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			WeatherTTL:   time.Duration(viper.GetInt("WEATHER_CACHE_TTL")) * time.Second,
			ElevationTTL: time.Duration(viper.GetInt("ELEVATION_CACHE_TTL")) * time.Second,
			RiskAreaTTL:  time.Duration(viper.GetInt("RISK_AREA_CACHE_TTL")) * time.Second,
		},
		Weather: WeatherConfig{
			APIKey:         viper.GetString("OPENWEATHER_API_KEY"),
			BaseURL:        viper.GetString("OPENWEATHER_BASE_URL"),
			TimemachineURL: viper.GetString("OPENWEATHER_TIMEMACHINE_URL"),
			RequestTimeout: time.Duration(viper.GetInt("OPENWEATHER_TIMEOUT")) * time.Second,
			Timezone:       viper.GetString("WEATHER_TIMEZONE"),
		},
		Elevation: ElevationConfig{
			BaseURL:        viper.GetString("ELEVATION_BASE_URL"),
			Dataset:        viper.GetString("ELEVATION_DATASET"),
			RequestTimeout: time.Duration(viper.GetInt("ELEVATION_TIMEOUT")) * time.Second,
			AllowRemote:    viper.GetBool("ELEVATION_ALLOW_REMOTE"),
		},
		Geodata: GeodataConfig{
			RiverGraphPath:    viper.GetString("RIVER_GRAPH_PATH"),
			RoadGraphPath:     viper.GetString("ROAD_GRAPH_PATH"),
			FloodZonesPath:    viper.GetString("FLOOD_ZONES_PATH"),
			RiverLinesPath:    viper.GetString("RIVER_LINES_PATH"),
			RiverPointsPath:   viper.GetString("RIVER_POINTS_PATH"),
			ElevationGridPath: viper.GetString("ELEVATION_GRID_PATH"),
		},
		Area: AreaConfig{
			Slug:  viper.GetString("AREA_SLUG"),
			South: viper.GetFloat64("AREA_SOUTH"),
			North: viper.GetFloat64("AREA_NORTH"),
			West:  viper.GetFloat64("AREA_WEST"),
			East:  viper.GetFloat64("AREA_EAST"),
		},
		Worker: WorkerConfig{
			Enabled:       viper.GetBool("WORKER_ENABLED"),
			ConsumerGroup: viper.GetString("WORKER_CONSUMER_GROUP"),
			Stream:        viper.GetString("WORKER_STREAM"),
			MaxRetries:    viper.GetInt("WORKER_MAX_RETRIES"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}

	applyDefaults(cfg)

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Cache.WeatherTTL == 0 {
		cfg.Cache.WeatherTTL = 600 * time.Second
	}
	if cfg.Cache.ElevationTTL == 0 {
		cfg.Cache.ElevationTTL = 3600 * time.Second
	}
	if cfg.Cache.RiskAreaTTL == 0 {
		cfg.Cache.RiskAreaTTL = 300 * time.Second
	}
	if cfg.Weather.BaseURL == "" {
		cfg.Weather.BaseURL = "https://api.openweathermap.org/data/3.0/onecall"
	}
	if cfg.Weather.TimemachineURL == "" {
		cfg.Weather.TimemachineURL = "https://api.openweathermap.org/data/3.0/onecall/timemachine"
	}
	if cfg.Weather.RequestTimeout == 0 {
		cfg.Weather.RequestTimeout = 5 * time.Second
	}
	if cfg.Weather.Timezone == "" {
		cfg.Weather.Timezone = "Asia/Manila"
	}
	if cfg.Elevation.BaseURL == "" {
		cfg.Elevation.BaseURL = "https://api.opentopodata.org/v1"
	}
	if cfg.Elevation.Dataset == "" {
		cfg.Elevation.Dataset = "srtm90m"
	}
	if cfg.Elevation.RequestTimeout == 0 {
		cfg.Elevation.RequestTimeout = 4 * time.Second
	}
	if cfg.Area.Slug == "" {
		cfg.Area.Slug = "negros-island"
	}
	if cfg.Area.South == 0 && cfg.Area.North == 0 {
		cfg.Area.South = 9.0
		cfg.Area.North = 10.95
		cfg.Area.West = 122.15
		cfg.Area.East = 123.55
	}
	if cfg.Worker.ConsumerGroup == "" {
		cfg.Worker.ConsumerGroup = "backtest-workers"
	}
	if cfg.Worker.Stream == "" {
		cfg.Worker.Stream = "backtest:requests"
	}
	if cfg.Worker.MaxRetries == 0 {
		cfg.Worker.MaxRetries = 3
	}
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
