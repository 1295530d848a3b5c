package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server  ServerConfig
	Refresh RefreshConfig
	Sources SourcesConfig
	Geocode GeocodeConfig
	Worker  WorkerConfig
	DB      DatabaseConfig
	Redis   RedisConfig
	Kafka   KafkaConfig
	Logging LoggingConfig
}

type ServerConfig struct {
	Host      string
	Port      int
	RateLimit int // requests per second, per client IP
}

type RefreshConfig struct {
	Interval     time.Duration
	FetchTimeout time.Duration
}

type SourceConfig struct {
	Enabled      bool
	URL          string
	MaxBodyBytes int64
}

type SourcesConfig struct {
	Seismic  SourceConfig
	Weather  SourceConfig
	Flood    SourceConfig
	Wildfire SourceConfig
	Cyclone  SourceConfig
}

type GeocodeConfig struct {
	Enabled   bool
	URL       string
	CacheSize int
	Timeout   time.Duration
}

type WorkerConfig struct {
	Count      int
	BufferSize int
}

type DatabaseConfig struct {
	Path string
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	Key      string
}

type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
}

type LoggingConfig struct {
	Level  string
	Format string
}

const defaultMaxBodyBytes int64 = 32 << 20

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:      getEnv("SERVER_HOST", "localhost"),
			Port:      getEnvInt("SERVER_PORT", 8080),
			RateLimit: getEnvInt("RATE_LIMIT_RPS", 10),
		},
		Refresh: RefreshConfig{
			Interval:     getEnvDuration("REFRESH_INTERVAL", 15*time.Minute),
			FetchTimeout: getEnvDuration("FETCH_TIMEOUT", 15*time.Second),
		},
		Sources: SourcesConfig{
			Seismic: SourceConfig{
				Enabled:      getEnvBool("SEISMIC_ENABLED", true),
				URL:          getEnv("SEISMIC_URL", "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_day.geojson"),
				MaxBodyBytes: getEnvInt64("SEISMIC_MAX_BODY_BYTES", defaultMaxBodyBytes),
			},
			Weather: SourceConfig{
				Enabled:      getEnvBool("WEATHER_ENABLED", true),
				URL:          getEnv("WEATHER_URL", "https://api.weather.gov/alerts/active?status=actual"),
				MaxBodyBytes: getEnvInt64("WEATHER_MAX_BODY_BYTES", defaultMaxBodyBytes),
			},
			Flood: SourceConfig{
				Enabled:      getEnvBool("FLOOD_ENABLED", true),
				URL:          getEnv("FLOOD_URL", "https://environment.data.gov.uk/flood-monitoring/id/floods"),
				MaxBodyBytes: getEnvInt64("FLOOD_MAX_BODY_BYTES", defaultMaxBodyBytes),
			},
			Wildfire: SourceConfig{
				Enabled:      getEnvBool("WILDFIRE_ENABLED", true),
				URL:          getEnv("WILDFIRE_URL", "https://www.fire.ca.gov/umbraco/api/IncidentApi/List?inactive=false"),
				MaxBodyBytes: getEnvInt64("WILDFIRE_MAX_BODY_BYTES", defaultMaxBodyBytes),
			},
			Cyclone: SourceConfig{
				Enabled:      getEnvBool("CYCLONE_ENABLED", true),
				URL:          getEnv("CYCLONE_URL", "https://www.nhc.noaa.gov/cyclones/"),
				MaxBodyBytes: getEnvInt64("CYCLONE_MAX_BODY_BYTES", defaultMaxBodyBytes),
			},
		},
		Geocode: GeocodeConfig{
			Enabled:   getEnvBool("GEOCODE_ENABLED", true),
			URL:       getEnv("GEOCODE_URL", "https://nominatim.openstreetmap.org/reverse"),
			CacheSize: getEnvInt("GEOCODE_CACHE_SIZE", 1000),
			Timeout:   getEnvDuration("GEOCODE_TIMEOUT", 5*time.Second),
		},
		Worker: WorkerConfig{
			Count:      getEnvInt("WORKER_COUNT", 2),
			BufferSize: getEnvInt("WORKER_BUFFER_SIZE", 200),
		},
		DB: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/hazards.db"),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			Key:      getEnv("REDIS_SNAPSHOT_KEY", "hazards:snapshot"),
		},
		Kafka: KafkaConfig{
			Enabled: getEnvBool("KAFKA_ENABLED", false),
			Brokers: parseList(getEnv("KAFKA_BROKERS", "localhost:9092")),
			Topic:   getEnv("KAFKA_TOPIC", "hazard-records"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.RateLimit < 1 {
		return fmt.Errorf("invalid rate limit: %d", c.Server.RateLimit)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	if c.Refresh.Interval < time.Minute {
		return errors.New("refresh interval must be at least 1 minute")
	}
	if c.Refresh.FetchTimeout <= 0 {
		return errors.New("fetch timeout must be positive")
	}

	if !c.Sources.anyEnabled() {
		return errors.New("at least one hazard source must be enabled")
	}
	for name, src := range c.Sources.byName() {
		if src.Enabled && src.URL == "" {
			return fmt.Errorf("%s source is enabled but has no URL", name)
		}
		if src.Enabled && src.MaxBodyBytes < 1 {
			return fmt.Errorf("invalid %s max body size: %d", name, src.MaxBodyBytes)
		}
	}

	if c.Worker.Count < 1 || c.Worker.BufferSize < 1 {
		return fmt.Errorf("invalid worker settings: count=%d buffer=%d", c.Worker.Count, c.Worker.BufferSize)
	}
	if c.Geocode.Enabled && c.Geocode.CacheSize < 1 {
		return fmt.Errorf("invalid geocode cache size: %d", c.Geocode.CacheSize)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}

	return nil
}

func (s SourcesConfig) byName() map[string]SourceConfig {
	return map[string]SourceConfig{
		"seismic":  s.Seismic,
		"weather":  s.Weather,
		"flood":    s.Flood,
		"wildfire": s.Wildfire,
		"cyclone":  s.Cyclone,
	}
}

func (s SourcesConfig) anyEnabled() bool {
	for _, src := range s.byName() {
		if src.Enabled {
			return true
		}
	}
	return false
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}

func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
