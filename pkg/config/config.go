package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var (
	once    sync.Once
	initErr error
)

// EnvPrefix is the prefix for environment variable overrides
// (PODSCRIBE_DATABASE_PATH overrides database.path).
const EnvPrefix = "PODSCRIBE"

// DefaultFile is read when no config file is given
const DefaultFile = "./config/settings.yaml"

// Init initializes the configuration system
// This should be called once at application startup
func Init() error {
	return InitFile(DefaultFile)
}

// InitFile is Init with an explicit settings file. A missing file is not
// an error; defaults and environment overrides still apply.
func InitFile(path string) error {
	once.Do(func() {
		initErr = load(path)
	})

	return initErr
}

func load(path string) error {
	setDefaults()

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	configPath := filepath.Clean(path)
	viper.SetConfigFile(configPath)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !os.IsNotExist(err) && !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file %s: %w", configPath, err)
		}
	}

	if err := validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// GetConfig returns the current configuration as a struct
// Init() must be called before using this
func GetConfig() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &config, nil
}

// GetString returns a string config value
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration returns a time.Duration config value
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// validate validates the configuration using Viper values
func validate() error {
	port := viper.GetInt("server.port")
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid server port: %d", port)
	}

	switch viper.GetString("database.driver") {
	case "sqlite":
		if viper.GetString("database.path") == "" {
			slog.Warn("no database path configured, using an in-memory database")
		}
	case "postgres":
		if viper.GetString("database.dsn") == "" {
			return errors.New("database.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported database driver: %q", viper.GetString("database.driver"))
	}

	if viper.GetInt("embeddings.fragment_words") <= 0 {
		return fmt.Errorf("invalid embeddings.fragment_words: %d", viper.GetInt("embeddings.fragment_words"))
	}

	// Auto-correct invalid worker count
	if viper.GetInt("processing.workers") <= 0 {
		viper.Set("processing.workers", 2)
	}

	if viper.GetInt("query.default_k") <= 0 {
		viper.Set("query.default_k", 4)
	}
	if viper.GetInt("query.max_k") < viper.GetInt("query.default_k") {
		viper.Set("query.max_k", viper.GetInt("query.default_k"))
	}

	return nil
}

// Validate validates a Config struct (for testing)
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Database.Driver {
	case "", "sqlite":
	case "postgres":
		if c.Database.DSN == "" {
			return errors.New("database.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported database driver: %q", c.Database.Driver)
	}

	if c.Embeddings.FragmentWords <= 0 {
		return fmt.Errorf("invalid embeddings.fragment_words: %d", c.Embeddings.FragmentWords)
	}

	if c.Processing.Workers <= 0 {
		c.Processing.Workers = 2
	}
	if c.Processing.QueueSize <= 0 {
		c.Processing.QueueSize = 256
	}

	if c.Query.DefaultK <= 0 {
		c.Query.DefaultK = 4
	}
	if c.Query.MaxK < c.Query.DefaultK {
		c.Query.MaxK = c.Query.DefaultK
	}

	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("environment", "development")

	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)
	viper.SetDefault("server.max_header_bytes", 1048576)

	// Database defaults
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.path", "./data/podscribe.db")
	viper.SetDefault("database.dsn", "")
	viper.SetDefault("database.verbose", false)

	// Storage defaults
	viper.SetDefault("storage.media_dir", "./data/media")
	viper.SetDefault("storage.local_dir", "./data/local")
	viper.SetDefault("storage.sources_file", "./data/sources.json")
	viper.SetDefault("storage.max_audio_size", 1<<30)
	viper.SetDefault("storage.cleanup_max_age", 6*time.Hour)
	viper.SetDefault("storage.cleanup_interval", 30*time.Minute)

	// Feed defaults
	viper.SetDefault("feeds.timeout", 30*time.Second)
	viper.SetDefault("feeds.user_agent", "podscribe/1.0")
	viper.SetDefault("feeds.requests_per_minute", 60)
	viper.SetDefault("feeds.burst", 5)
	viper.SetDefault("feeds.max_new_episodes", 0)

	// Whisper defaults
	viper.SetDefault("whisper.path", "whisper-cli")
	viper.SetDefault("whisper.model_path", "./models/ggml-base.bin")
	viper.SetDefault("whisper.language", "auto")
	viper.SetDefault("whisper.threads", 4)
	viper.SetDefault("whisper.ffmpeg_path", "ffmpeg")
	viper.SetDefault("whisper.timeout", 2*time.Hour)

	// Embedding defaults
	viper.SetDefault("embeddings.provider", "ollama")
	viper.SetDefault("embeddings.model", "all-minilm")
	viper.SetDefault("embeddings.host", "http://localhost:11434")
	viper.SetDefault("embeddings.token", "none")
	viper.SetDefault("embeddings.batch_size", 32)
	viper.SetDefault("embeddings.fragment_words", 40)
	viper.SetDefault("embeddings.hash_dimension", 384)

	// Vector index defaults
	viper.SetDefault("vector.path", "./data/vectors")
	viper.SetDefault("vector.collection", "vectordb")
	viper.SetDefault("vector.in_memory", false)

	// Processing defaults
	viper.SetDefault("processing.workers", 2)
	viper.SetDefault("processing.job_timeout", 600*time.Minute)
	viper.SetDefault("processing.window_days", 7)
	viper.SetDefault("processing.queue_size", 256)

	// Query defaults
	viper.SetDefault("query.default_k", 4)
	viper.SetDefault("query.max_k", 50)
	viper.SetDefault("query.cache_size", 256)
	viper.SetDefault("query.cache_ttl", 30*time.Minute)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")
}
