package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. OXYTOON_BLOOM_INTENSITY.
const EnvPrefix = "OXYTOON"

// Loader reads a Config from an optional YAML file, environment overrides and defaults,
// and can watch the file for changes.
type Loader struct {
	mu     sync.Mutex
	v      *viper.Viper
	path   string
	logger zerolog.Logger
	last   Config
}

// LoaderOption is a functional option for configuring a Loader.
type LoaderOption func(*Loader)

// WithLogger sets the logger used to report reloads.
func WithLogger(logger zerolog.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader creates a loader for path. An empty path uses defaults and the environment only.
//
// Parameters:
//   - path: the YAML config file, or ""
//   - options: functional options to further configure the loader
//
// Returns:
//   - *Loader: the new loader
func NewLoader(path string, options ...LoaderOption) *Loader {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, "", toMap(Default()))
	if path != "" {
		v.SetConfigFile(path)
	}

	l := &Loader{v: v, path: path, logger: zerolog.Nop(), last: Default()}
	for _, opt := range options {
		opt(l)
	}
	return l
}

// Load reads the configuration. A missing file is not an error; defaults apply.
//
// Returns:
//   - Config: the validated, clamped configuration
//   - error: error if the file is malformed or a value fails validation
func (l *Loader) Load() (Config, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.path != "" {
		if err := l.v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return l.last, fmt.Errorf("config: reading %s: %w", l.path, err)
			}
			l.logger.Debug().Str("path", l.path).Msg("config file not found, using defaults")
		}
	}
	return l.decode()
}

// decode unmarshals the current viper state. Callers hold l.mu.
func (l *Loader) decode() (Config, error) {
	cfg := Default()
	if err := l.v.Unmarshal(&cfg); err != nil {
		return l.last, fmt.Errorf("config: decoding: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return l.last, err
	}
	cfg = cfg.Clamped()
	l.last = cfg
	return cfg, nil
}

// Last returns the most recent successfully loaded configuration.
func (l *Loader) Last() Config {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.last
}

// Watch reloads the file on every write and calls onChange with the new configuration.
// Reloads that fail validation are logged and skipped; the previous configuration stays.
//
// Parameters:
//   - onChange: called from the watcher goroutine with every valid reload
//
// Returns:
//   - error: error if the loader has no file to watch
func (l *Loader) Watch(onChange func(Config)) error {
	if l.path == "" {
		return errors.New("config: no config file to watch")
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		l.handle(e, onChange)
	})
	l.v.WatchConfig()
	l.logger.Info().Str("path", l.path).Msg("watching config")
	return nil
}

// handle processes one file event.
func (l *Loader) handle(e fsnotify.Event, onChange func(Config)) {
	if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
		return
	}
	l.mu.Lock()
	if err := l.v.ReadInConfig(); err != nil {
		l.mu.Unlock()
		l.logger.Warn().Err(err).Str("path", e.Name).Msg("config reload failed")
		return
	}
	cfg, err := l.decode()
	l.mu.Unlock()
	if err != nil {
		l.logger.Warn().Err(err).Str("path", e.Name).Msg("config reload rejected")
		return
	}
	l.logger.Info().Str("path", e.Name).Msg("config reloaded")
	onChange(cfg)
}

// Save writes cfg as YAML to path.
//
// Parameters:
//   - cfg: the configuration to write
//   - path: the destination file
//
// Returns:
//   - error: error if the file cannot be written
func Save(cfg Config, path string) error {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.MergeConfigMap(toMap(cfg)); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("config: writing %s: %w", path, err)
	}
	return nil
}

// setDefaults registers every leaf of m as a viper default so environment overrides
// resolve for all keys.
func setDefaults(v *viper.Viper, prefix string, m map[string]any) {
	for k, val := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := val.(map[string]any); ok {
			setDefaults(v, key, sub)
			continue
		}
		v.SetDefault(key, val)
	}
}

// toMap renders cfg as nested maps keyed by the mapstructure names.
func toMap(c Config) map[string]any {
	return map[string]any{
		"day_night": map[string]any{"is_day": c.DayNight.IsDay},
		"outline":   map[string]any{"width": c.Outline.Width},
		"ambient":   map[string]any{"color": c.Ambient.Color, "intensity": c.Ambient.Intensity},
		"light": map[string]any{
			"visible":  c.Light.Visible,
			"position": map[string]any{"x": c.Light.Position.X, "y": c.Light.Position.Y, "z": c.Light.Position.Z},
			"rotation": c.Light.Rotation,
		},
		"bloom": map[string]any{
			"intensity":   c.Bloom.Intensity,
			"radius":      c.Bloom.Radius,
			"threshold":   c.Bloom.Threshold,
			"smoothing":   c.Bloom.Smoothing,
			"iterations":  c.Bloom.Iterations,
			"glow":        c.Bloom.Glow,
			"depth_aware": c.Bloom.DepthAware,
		},
		"shadow":    map[string]any{"color": c.Shadow.Color},
		"metal":     map[string]any{"metallic": c.Metal.Metallic, "no_metallic": c.Metal.NoMetallic},
		"rim_light": map[string]any{"width": c.RimLight.Width, "intensity": c.RimLight.Intensity},
		"tone_map": map[string]any{
			"enabled":           c.ToneMap.Enabled,
			"max_luminance":     c.ToneMap.MaxLuminance,
			"contrast":          c.ToneMap.Contrast,
			"linear_start":      c.ToneMap.LinearStart,
			"linear_length":     c.ToneMap.LinearLength,
			"black_tightness_c": c.ToneMap.BlackTightnessC,
			"black_tightness_b": c.ToneMap.BlackTightnessB,
		},
		"smaa": map[string]any{"preset": c.SMAA.Preset},
		"render": map[string]any{
			"width":       c.Render.Width,
			"height":      c.Render.Height,
			"pixel_ratio": c.Render.PixelRatio,
			"frame_limit": c.Render.FrameLimit,
			"workers":     c.Render.Workers,
			"near":        c.Render.Near,
			"far":         c.Render.Far,
		},
	}
}
