// internal/ffmpeg/ffmpeg.go

// Package ffmpeg wraps the external transcoder. Extraction and reassembly
// are each a single blocking invocation; the package only builds argument
// lists and surfaces the tool's stderr when it exits non-zero.
package ffmpeg

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"

	"framelift/internal/execx"
	"framelift/internal/frame"
)

// EncodeSettings are the reassembly encoding parameters.
type EncodeSettings struct {
	FrameRate   int
	Codec       string
	Bitrate     string
	Preset      string
	PixelFormat string
}

// Transcoder invokes ffmpeg for frame extraction, audio demuxing, and
// reassembly.
type Transcoder struct {
	bin    string
	runner execx.Runner
	log    zerolog.Logger
}

// New returns a transcoder using the given ffmpeg binary.
func New(bin string, runner execx.Runner, log zerolog.Logger) *Transcoder {
	return &Transcoder{bin: bin, runner: runner, log: log}
}

// Available reports whether the ffmpeg binary can be found.
func (t *Transcoder) Available() bool {
	return execx.Available(t.bin)
}

// ExtractToDir decodes the input at the given frame rate into numbered PNG
// files under dir.
func (t *Transcoder) ExtractToDir(ctx context.Context, input string, fps int, dir string) error {
	pattern := filepath.Join(dir, frame.Pattern())
	args := []string{
		"-i", input,
		"-vf", fmt.Sprintf("fps=%d", fps),
		"-y", pattern,
	}

	t.log.Debug().Str("input", input).Int("fps", fps).Str("dir", dir).Msg("extracting frames to disk")
	res, err := t.runner.Run(ctx, t.bin, args...)
	if err != nil {
		return toolError("frame extraction", res.Stderr, err)
	}
	return nil
}

// ExtractToPipe decodes the input at the given frame rate and returns the
// concatenated PNG byte stream ffmpeg writes to stdout, avoiding a disk
// round trip for the original frames.
func (t *Transcoder) ExtractToPipe(ctx context.Context, input string, fps int) ([]byte, error) {
	args := []string{
		"-i", input,
		"-vf", fmt.Sprintf("fps=%d", fps),
		"-f", "image2pipe",
		"-vcodec", "png",
		"-",
	}

	t.log.Debug().Str("input", input).Int("fps", fps).Msg("extracting frames to pipe")
	res, err := t.runner.Run(ctx, t.bin, args...)
	if err != nil {
		return nil, toolError("frame extraction", res.Stderr, err)
	}
	return res.Stdout, nil
}

// DemuxAudio stream-copies the input's audio track to audioPath. Inputs
// without audio make ffmpeg exit non-zero; callers tolerate the error.
func (t *Transcoder) DemuxAudio(ctx context.Context, input, audioPath string) error {
	args := []string{
		"-i", input,
		"-vn",
		"-acodec", "copy",
		"-y", audioPath,
	}

	res, err := t.runner.Run(ctx, t.bin, args...)
	if err != nil {
		return toolError("audio demux", res.Stderr, err)
	}
	return nil
}

// Assemble muxes the enhanced frame sequence under framesDir into the
// output video. When audioPath names an existing demuxed track it is
// encoded back in; an empty audioPath assembles video only.
func (t *Transcoder) Assemble(ctx context.Context, framesDir, audioPath, output string, enc EncodeSettings) error {
	args := AssembleArgs(framesDir, audioPath, output, enc)

	t.log.Debug().Str("output", output).Int("fps", enc.FrameRate).Msg("reassembling video")
	res, err := t.runner.Run(ctx, t.bin, args...)
	if err != nil {
		return toolError("reassembly", res.Stderr, err)
	}
	return nil
}

// AssembleArgs builds the reassembly argument list. Split out so tests can
// check the command shape without running ffmpeg.
func AssembleArgs(framesDir, audioPath, output string, enc EncodeSettings) []string {
	pattern := filepath.Join(framesDir, frame.Pattern())

	args := []string{
		"-framerate", strconv.Itoa(enc.FrameRate),
		"-i", pattern,
	}
	if audioPath != "" {
		args = append(args, "-i", audioPath, "-c:a", "aac")
	}
	args = append(args,
		"-c:v", enc.Codec,
		"-preset", enc.Preset,
		"-b:v", enc.Bitrate,
		"-pix_fmt", enc.PixelFormat,
		"-y", output,
	)
	return args
}

func toolError(op, stderr string, err error) error {
	if stderr != "" {
		return fmt.Errorf("%s failed: %w: %s", op, err, stderr)
	}
	return fmt.Errorf("%s failed: %w", op, err)
}
