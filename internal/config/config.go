// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Presets lists the encoder presets the transcoder accepts, slowest last.
var Presets = []string{
	"ultrafast", "superfast", "veryfast", "faster", "fast",
	"medium", "slow", "slower", "veryslow",
}

var bitratePattern = regexp.MustCompile(`^[1-9][0-9]*[KkMm]?$`)

// Config is the validated run configuration. One value is built per
// invocation and passed into the pipeline at construction; there are no
// process-wide mutable defaults.
type Config struct {
	InputPath  string `toml:"input"`
	OutputPath string `toml:"output"`

	FrameRate   int `toml:"frame_rate"`
	ScaleFactor int `toml:"scale"`
	TileSize    int `toml:"tile_size"`
	Workers     int `toml:"workers"`

	Codec       string `toml:"codec"`
	Bitrate     string `toml:"bitrate"`
	Preset      string `toml:"preset"`
	PixelFormat string `toml:"pixel_format"`

	FFmpegPath   string `toml:"ffmpeg_path"`
	FFprobePath  string `toml:"ffprobe_path"`
	EnhancerPath string `toml:"enhancer_path"`

	TempRoot         string `toml:"temp_root"`
	StreamExtraction bool   `toml:"stream_extraction"`
	KeepAudio        bool   `toml:"keep_audio"`
	LogLevel         string `toml:"log_level"`
}

// Default returns the built-in configuration. Numeric defaults follow the
// srmd-ncnn-vulkan workflow this tool wraps.
func Default() Config {
	return Config{
		FrameRate:        25,
		ScaleFactor:      4,
		TileSize:         768,
		Workers:          4,
		Codec:            "libx264",
		Bitrate:          "10M",
		Preset:           "medium",
		PixelFormat:      "yuv420p",
		FFmpegPath:       "ffmpeg",
		FFprobePath:      "ffprobe",
		EnhancerPath:     "srmd-ncnn-vulkan",
		TempRoot:         os.TempDir(),
		StreamExtraction: false,
		KeepAudio:        true,
		LogLevel:         "info",
	}
}

// Load returns the defaults overlaid with the TOML file at path. An empty
// path loads framelift.toml from the working directory when present; a
// missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = "framelift.toml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for well-formedness before the
// pipeline starts.
func (c Config) Validate() error {
	if strings.TrimSpace(c.InputPath) == "" {
		return fmt.Errorf("input path is required")
	}
	if strings.TrimSpace(c.OutputPath) == "" {
		return fmt.Errorf("output path is required")
	}
	if filepath.Clean(c.InputPath) == filepath.Clean(c.OutputPath) {
		return fmt.Errorf("input and output paths must differ")
	}
	if c.FrameRate < 1 {
		return fmt.Errorf("frame rate must be positive, got %d", c.FrameRate)
	}
	if c.ScaleFactor < 2 || c.ScaleFactor > 4 {
		return fmt.Errorf("scale factor must be 2, 3, or 4, got %d", c.ScaleFactor)
	}
	if c.TileSize < 32 {
		return fmt.Errorf("tile size must be at least 32, got %d", c.TileSize)
	}
	if c.Workers < 1 {
		return fmt.Errorf("worker count must be positive, got %d", c.Workers)
	}
	if c.Codec == "" {
		return fmt.Errorf("codec is required")
	}
	if !bitratePattern.MatchString(c.Bitrate) {
		return fmt.Errorf("bitrate %q is not of the form 5000, 800K, or 10M", c.Bitrate)
	}
	if !validPreset(c.Preset) {
		return fmt.Errorf("preset %q is not one of %s", c.Preset, strings.Join(Presets, ", "))
	}
	if c.PixelFormat == "" {
		return fmt.Errorf("pixel format is required")
	}
	if c.EnhancerPath == "" {
		return fmt.Errorf("enhancer path is required")
	}
	if c.TempRoot == "" {
		return fmt.Errorf("temp root is required")
	}
	return nil
}

func validPreset(preset string) bool {
	for _, p := range Presets {
		if p == preset {
			return true
		}
	}
	return false
}
