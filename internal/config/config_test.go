package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validConfig() Config {
	cfg := Default()
	cfg.InputPath = "in.mp4"
	cfg.OutputPath = "out.mp4"
	return cfg
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.FrameRate != 25 {
		t.Errorf("frame rate = %d, want 25", cfg.FrameRate)
	}
	if cfg.ScaleFactor != 4 {
		t.Errorf("scale = %d, want 4", cfg.ScaleFactor)
	}
	if cfg.TileSize != 768 {
		t.Errorf("tile size = %d, want 768", cfg.TileSize)
	}
	if cfg.Bitrate != "10M" || cfg.Preset != "medium" {
		t.Errorf("encode defaults = %s/%s, want 10M/medium", cfg.Bitrate, cfg.Preset)
	}
	if !cfg.KeepAudio {
		t.Error("audio carry-over must default on")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing input", func(c *Config) { c.InputPath = "  " }, "input path"},
		{"missing output", func(c *Config) { c.OutputPath = "" }, "output path"},
		{"input equals output", func(c *Config) { c.OutputPath = "./in.mp4" }, "must differ"},
		{"zero frame rate", func(c *Config) { c.FrameRate = 0 }, "frame rate"},
		{"scale too low", func(c *Config) { c.ScaleFactor = 1 }, "scale factor"},
		{"scale too high", func(c *Config) { c.ScaleFactor = 5 }, "scale factor"},
		{"tile too small", func(c *Config) { c.TileSize = 16 }, "tile size"},
		{"zero workers", func(c *Config) { c.Workers = 0 }, "worker count"},
		{"empty codec", func(c *Config) { c.Codec = "" }, "codec"},
		{"bitrate with leading zero", func(c *Config) { c.Bitrate = "0500K" }, "bitrate"},
		{"bitrate bad suffix", func(c *Config) { c.Bitrate = "10G" }, "bitrate"},
		{"bitrate plain number ok", func(c *Config) { c.Bitrate = "5000" }, ""},
		{"bitrate lowercase suffix ok", func(c *Config) { c.Bitrate = "800k" }, ""},
		{"unknown preset", func(c *Config) { c.Preset = "warp9" }, "preset"},
		{"empty enhancer path", func(c *Config) { c.EnhancerPath = "" }, "enhancer path"},
		{"empty temp root", func(c *Config) { c.TempRoot = "" }, "temp root"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "framelift.toml")
	body := `
input = "movie.mp4"
scale = 2
workers = 8
bitrate = "6M"
keep_audio = false
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.InputPath != "movie.mp4" || cfg.ScaleFactor != 2 || cfg.Workers != 8 || cfg.Bitrate != "6M" {
		t.Errorf("overridden fields not applied: %+v", cfg)
	}
	if cfg.KeepAudio {
		t.Error("keep_audio = false not applied")
	}
	// Untouched keys keep their defaults.
	if cfg.Preset != "medium" || cfg.TileSize != 768 {
		t.Errorf("defaults lost for untouched keys: %+v", cfg)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Fatal("explicitly named config file must exist")
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("scale = = 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}
