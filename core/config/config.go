package config

import (
	"reflect"
	"strings"
	"time"

	"datajoin/core/database"
	"datajoin/core/logger"
	"datajoin/core/metrics"
	"datajoin/core/server"
	"datajoin/core/storage"
	"datajoin/core/tracing"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the database connection.
	Database database.Config `mapstructure:"database"`
	// Join holds defaults applied to every scene join.
	Join JoinConfig `mapstructure:"join"`
	// Metrics holds configuration for the Prometheus endpoint.
	Metrics metrics.Config `mapstructure:"metrics"`
	// Tracing holds configuration for OpenTelemetry spans.
	Tracing tracing.Config `mapstructure:"tracing"`
}

// JoinConfig holds defaults for scene joins.
type JoinConfig struct {
	// Strict rejects duplicate item keys instead of keeping the last one.
	Strict bool `mapstructure:"strict" default:"false"`
	// CacheTTLSeconds is how long a loaded scene stays in memory.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" default:"300"`
	// BatchSize is the number of elements inserted per statement when saving.
	BatchSize int `mapstructure:"batch_size" default:"500"`
	// TimeoutSeconds bounds a single join, including the wait for its turn.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"60"`
	// DatasetPrefix is the storage folder datasets are read from.
	DatasetPrefix string `mapstructure:"dataset_prefix" default:"datasets/"`
}

// CacheTTL returns the scene cache lifetime.
func (c JoinConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// Timeout returns the per-join timeout.
func (c JoinConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SERVER_PORT -> server.port)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
