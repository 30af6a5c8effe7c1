// Package config loads service settings from the environment and an optional
// YAML file named by HUMANTOOLS_CONFIG.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port string

	// Auth; empty disables bearer checks.
	APIKey string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64
	MaxFiles       int

	// Job state
	JobTTL time.Duration

	// Slideshow
	FFmpegPath      string
	SlideDuration   time.Duration
	SlideshowFormat string

	// Photos and memes
	JPEGQuality int
	MemeWidth   int

	// Per-tool latency window
	StatsWindow time.Duration
}

const (
	defaultWorkerCount    = 2
	defaultMaxQueueSize   = 50
	defaultMaxUploadBytes = 52428800 // 50MB
	defaultMaxFiles       = 200
	defaultJobTTL         = time.Hour
	defaultSlideDuration  = time.Second
	defaultJPEGQuality    = 100
	defaultMemeWidth      = 600
	defaultStatsWindow    = time.Hour
)

// Load reads the configuration from the environment and the file named by
// HUMANTOOLS_CONFIG, if any.
func Load() (Config, error) {
	return LoadFrom(os.Getenv("HUMANTOOLS_CONFIG"))
}

// LoadFrom reads the configuration with path as the YAML file. An empty path
// skips the file; a missing one is an error. Environment variables win over
// the file.
func LoadFrom(path string) (Config, error) {
	v := viper.New()
	v.SetDefault("port", "8090")
	v.SetDefault("api_key", "")
	v.SetDefault("worker_count", defaultWorkerCount)
	v.SetDefault("max_queue_size", defaultMaxQueueSize)
	v.SetDefault("max_upload_bytes", defaultMaxUploadBytes)
	v.SetDefault("max_files", defaultMaxFiles)
	v.SetDefault("job_ttl", defaultJobTTL)
	v.SetDefault("ffmpeg_path", "ffmpeg")
	v.SetDefault("slide_duration", defaultSlideDuration)
	v.SetDefault("slideshow_format", "mp4")
	v.SetDefault("jpeg_quality", defaultJPEGQuality)
	v.SetDefault("meme_width", defaultMemeWidth)
	v.SetDefault("stats_window", defaultStatsWindow)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := Config{
		Port:            v.GetString("port"),
		APIKey:          v.GetString("api_key"),
		WorkerCount:     v.GetInt("worker_count"),
		MaxQueueSize:    v.GetInt("max_queue_size"),
		MaxUploadBytes:  v.GetInt64("max_upload_bytes"),
		MaxFiles:        v.GetInt("max_files"),
		JobTTL:          v.GetDuration("job_ttl"),
		FFmpegPath:      v.GetString("ffmpeg_path"),
		SlideDuration:   v.GetDuration("slide_duration"),
		SlideshowFormat: strings.ToLower(strings.TrimSpace(v.GetString("slideshow_format"))),
		JPEGQuality:     v.GetInt("jpeg_quality"),
		MemeWidth:       v.GetInt("meme_width"),
		StatsWindow:     v.GetDuration("stats_window"),
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Port == "" {
		c.Port = "8090"
	}
	if c.WorkerCount <= 0 {
		c.WorkerCount = defaultWorkerCount
	}
	if c.MaxQueueSize <= 0 {
		c.MaxQueueSize = defaultMaxQueueSize
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = defaultMaxUploadBytes
	}
	if c.MaxFiles <= 0 {
		c.MaxFiles = defaultMaxFiles
	}
	if c.JobTTL <= 0 {
		c.JobTTL = defaultJobTTL
	}
	if c.FFmpegPath == "" {
		c.FFmpegPath = "ffmpeg"
	}
	if c.SlideDuration <= 0 {
		c.SlideDuration = defaultSlideDuration
	}
	if c.SlideshowFormat == "" {
		c.SlideshowFormat = "mp4"
	}
	if c.JPEGQuality <= 0 {
		c.JPEGQuality = defaultJPEGQuality
	}
	if c.MemeWidth <= 0 {
		c.MemeWidth = defaultMemeWidth
	}
	if c.StatsWindow <= 0 {
		c.StatsWindow = defaultStatsWindow
	}
}

func (c Config) Validate() error {
	if c.SlideshowFormat != "mp4" && c.SlideshowFormat != "gif" {
		return fmt.Errorf("SLIDESHOW_FORMAT must be mp4 or gif, got %q", c.SlideshowFormat)
	}
	if c.JPEGQuality > 100 {
		return fmt.Errorf("JPEG_QUALITY must be 1-100, got %d", c.JPEGQuality)
	}
	if c.MemeWidth > 4096 {
		return fmt.Errorf("MEME_WIDTH must be at most 4096, got %d", c.MemeWidth)
	}
	return nil
}
