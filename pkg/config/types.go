package config

import "time"

// Config represents the complete application configuration
type Config struct {
	Environment string           `mapstructure:"environment"`
	Server      ServerConfig     `mapstructure:"server"`
	Database    DatabaseConfig   `mapstructure:"database"`
	Storage     StorageConfig    `mapstructure:"storage"`
	Feeds       FeedsConfig      `mapstructure:"feeds"`
	Whisper     WhisperConfig    `mapstructure:"whisper"`
	Embeddings  EmbeddingsConfig `mapstructure:"embeddings"`
	Vector      VectorConfig     `mapstructure:"vector"`
	Processing  ProcessingConfig `mapstructure:"processing"`
	Query       QueryConfig      `mapstructure:"query"`
	Logging     LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
}

// DatabaseConfig contains relational store settings.
// Driver is "sqlite" (Path) or "postgres" (DSN).
type DatabaseConfig struct {
	Driver  string `mapstructure:"driver"`
	Path    string `mapstructure:"path"`
	DSN     string `mapstructure:"dsn"`
	Verbose bool   `mapstructure:"verbose"`
}

// StorageConfig contains filesystem locations
type StorageConfig struct {
	MediaDir     string `mapstructure:"media_dir"`
	LocalDir     string `mapstructure:"local_dir"`
	SourcesFile  string `mapstructure:"sources_file"`
	MaxAudioSize int64  `mapstructure:"max_audio_size"`
	// Leftover audio copies and temp files older than CleanupMaxAge are
	// swept every CleanupInterval while serving
	CleanupMaxAge   time.Duration `mapstructure:"cleanup_max_age"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// FeedsConfig contains remote feed fetching settings
type FeedsConfig struct {
	Timeout           time.Duration `mapstructure:"timeout"`
	UserAgent         string        `mapstructure:"user_agent"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	Burst             int           `mapstructure:"burst"`
	MaxNewEpisodes    int           `mapstructure:"max_new_episodes"`
}

// WhisperConfig contains whisper.cpp CLI settings
type WhisperConfig struct {
	Path       string        `mapstructure:"path"`
	ModelPath  string        `mapstructure:"model_path"`
	Language   string        `mapstructure:"language"`
	Threads    int           `mapstructure:"threads"`
	FFmpegPath string        `mapstructure:"ffmpeg_path"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// EmbeddingsConfig selects the embedding provider
type EmbeddingsConfig struct {
	Provider      string `mapstructure:"provider"`
	Model         string `mapstructure:"model"`
	Host          string `mapstructure:"host"`
	Token         string `mapstructure:"token"`
	BatchSize     int    `mapstructure:"batch_size"`
	FragmentWords int    `mapstructure:"fragment_words"`
	HashDimension int    `mapstructure:"hash_dimension"`
}

// VectorConfig contains vector index settings
type VectorConfig struct {
	Path       string `mapstructure:"path"`
	Collection string `mapstructure:"collection"`
	InMemory   bool   `mapstructure:"in_memory"`
}

// ProcessingConfig contains task queue settings
type ProcessingConfig struct {
	Workers    int           `mapstructure:"workers"`
	JobTimeout time.Duration `mapstructure:"job_timeout"`
	WindowDays int           `mapstructure:"window_days"`
	QueueSize  int           `mapstructure:"queue_size"` // jobs waiting for a worker
}

// QueryConfig contains semantic query settings
type QueryConfig struct {
	DefaultK  int           `mapstructure:"default_k"`
	MaxK      int           `mapstructure:"max_k"`
	CacheSize int           `mapstructure:"cache_size"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
