package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/genricoloni/spanwall/internal/codec"
	"github.com/genricoloni/spanwall/internal/resize"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Configuration keys. Flags, env vars (SPANWALL_<KEY>) and the config file share them.
const (
	KeyOutput        = "output"
	KeyMode          = "mode"
	KeyForce         = "force"
	KeyApply         = "apply"
	KeyQuality       = "quality"
	KeyFilter        = "filter"
	KeyWorkers       = "workers"
	KeyLogLevel      = "log-level"
	KeyFetchTimeout  = "fetch-timeout"
	KeyMaxFetchBytes = "max-fetch-bytes"
)

const (
	envPrefix            = "SPANWALL"
	defaultOutput        = "wallpaper.jpg"
	defaultQuality       = 100
	defaultFetchTimeout  = 10 * time.Second
	defaultMaxFetchBytes = 50 << 20
)

// NewViper builds the layered configuration: defaults, then the config file,
// then SPANWALL_* environment variables. Command line flags are bound on top
// by the caller. An explicit cfgFile must exist; the default location may not.
func NewViper(cfgFile string) (*viper.Viper, error) {
	v := viper.New()

	v.SetDefault(KeyOutput, defaultOutput)
	v.SetDefault(KeyMode, resize.Stretch.String())
	v.SetDefault(KeyForce, false)
	v.SetDefault(KeyApply, false)
	v.SetDefault(KeyQuality, defaultQuality)
	v.SetDefault(KeyFilter, "lanczos")
	v.SetDefault(KeyWorkers, 0)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyFetchTimeout, defaultFetchTimeout)
	v.SetDefault(KeyMaxFetchBytes, defaultMaxFetchBytes)

	if cfgFile != "" {
		if _, err := os.Stat(cfgFile); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "spanwall"))
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return v, nil
}

// AppConfig holds the validated application configuration
type AppConfig struct {
	mode          resize.Mode
	outputPath    string
	filter        string
	quality       int
	workers       int
	overwrite     bool
	apply         bool
	fetchTimeout  time.Duration
	maxFetchBytes int64
}

// NewAppConfig validates the values in v and snapshots them
func NewAppConfig(logger *zap.Logger, v *viper.Viper) (*AppConfig, error) {
	mode, err := resize.ParseMode(v.GetString(KeyMode))
	if err != nil {
		return nil, err
	}

	filter := strings.ToLower(strings.TrimSpace(v.GetString(KeyFilter)))
	if _, err := resize.ParseFilter(filter); err != nil {
		return nil, err
	}

	quality := v.GetInt(KeyQuality)
	if quality < 1 || quality > 100 {
		return nil, fmt.Errorf("quality must be between 1 and 100, got %d", quality)
	}

	workers := v.GetInt(KeyWorkers)
	if workers < 0 {
		return nil, fmt.Errorf("workers must not be negative, got %d", workers)
	}
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	fetchTimeout := v.GetDuration(KeyFetchTimeout)
	if fetchTimeout <= 0 {
		return nil, fmt.Errorf("fetch-timeout must be positive, got %s", fetchTimeout)
	}

	maxFetchBytes := v.GetInt64(KeyMaxFetchBytes)
	if maxFetchBytes <= 0 {
		return nil, fmt.Errorf("max-fetch-bytes must be positive, got %d", maxFetchBytes)
	}

	output := strings.TrimSpace(v.GetString(KeyOutput))
	if output == "" {
		return nil, errors.New("output path must not be empty")
	}
	output = codec.ResolveOutputPath(codec.ExpandPath(output))

	cfg := &AppConfig{
		mode:          mode,
		outputPath:    output,
		filter:        filter,
		quality:       quality,
		workers:       workers,
		overwrite:     v.GetBool(KeyForce),
		apply:         v.GetBool(KeyApply),
		fetchTimeout:  fetchTimeout,
		maxFetchBytes: maxFetchBytes,
	}

	logger.Debug("Configuration loaded",
		zap.String("output", cfg.outputPath),
		zap.Stringer("mode", cfg.mode),
		zap.String("filter", cfg.filter),
		zap.Int("quality", cfg.quality),
		zap.Int("workers", cfg.workers),
		zap.String("file", v.ConfigFileUsed()))

	return cfg, nil
}

// GetMode returns the resize policy applied to image sources
func (c *AppConfig) GetMode() resize.Mode { return c.mode }

// GetOutputPath returns the destination file, already suffixed with an extension
func (c *AppConfig) GetOutputPath() string { return c.outputPath }

// GetFilter returns the resampling filter name
func (c *AppConfig) GetFilter() string { return c.filter }

// GetQuality returns the JPEG quality
func (c *AppConfig) GetQuality() int { return c.quality }

// GetWorkers returns how many slots may be prepared concurrently
func (c *AppConfig) GetWorkers() int { return c.workers }

// ShouldOverwrite reports whether an existing output may be replaced without asking
func (c *AppConfig) ShouldOverwrite() bool { return c.overwrite }

// ShouldApply reports whether the result is set as the desktop wallpaper
func (c *AppConfig) ShouldApply() bool { return c.apply }

// GetFetchTimeout bounds a single remote image download
func (c *AppConfig) GetFetchTimeout() time.Duration { return c.fetchTimeout }

// GetMaxFetchBytes caps the size of a remote image
func (c *AppConfig) GetMaxFetchBytes() int64 { return c.maxFetchBytes }
