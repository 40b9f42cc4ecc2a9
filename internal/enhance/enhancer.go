// internal/enhance/enhancer.go

// Package enhance wraps the external super-resolution tool: one input
// image file in, one enhanced image file out, at a fixed integer scale
// factor and tile size.
package enhance

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog"

	"framelift/internal/execx"
)

// Enhancer invokes an ncnn-vulkan style super-resolution binary.
type Enhancer struct {
	bin   string
	scale int
	tile  int

	runner execx.Runner
	log    zerolog.Logger
}

// New returns an enhancer for the given binary, scale factor, and tile
// size.
func New(bin string, scale, tile int, runner execx.Runner, log zerolog.Logger) *Enhancer {
	return &Enhancer{bin: bin, scale: scale, tile: tile, runner: runner, log: log}
}

// Available reports whether the enhancer binary can be found.
func (e *Enhancer) Available() bool {
	return execx.Available(e.bin)
}

// Enhance upscales inputPath into outputPath. A non-zero tool exit is
// returned with the tool's stderr attached; the output file's existence is
// verified because some enhancer builds exit zero after writing nothing.
func (e *Enhancer) Enhance(ctx context.Context, inputPath, outputPath string) error {
	args := []string{
		"-i", inputPath,
		"-o", outputPath,
		"-s", strconv.Itoa(e.scale),
		"-t", strconv.Itoa(e.tile),
	}

	res, err := e.runner.Run(ctx, e.bin, args...)
	if err != nil {
		if res.Stderr != "" {
			return fmt.Errorf("enhancer failed: %w: %s", err, res.Stderr)
		}
		return fmt.Errorf("enhancer failed: %w", err)
	}

	if _, err := os.Stat(outputPath); os.IsNotExist(err) {
		return fmt.Errorf("enhancer exited cleanly but wrote no output to %s", outputPath)
	}
	return nil
}
