package ffmpeg

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"framelift/internal/execx"
)

type scriptedRunner struct {
	calls  [][]string
	result execx.Result
	err    error
}

func (r *scriptedRunner) Run(ctx context.Context, name string, args ...string) (execx.Result, error) {
	r.calls = append(r.calls, append([]string{name}, args...))
	return r.result, r.err
}

var testSettings = EncodeSettings{
	FrameRate:   25,
	Codec:       "libx264",
	Bitrate:     "10M",
	Preset:      "medium",
	PixelFormat: "yuv420p",
}

func TestAssembleArgs(t *testing.T) {
	tests := []struct {
		name        string
		audioPath   string
		wantParts   []string
		absentParts []string
	}{
		{
			name:      "video only",
			audioPath: "",
			wantParts: []string{
				"-framerate 25",
				filepath.Join("up", "frame_%06d.png"),
				"-c:v libx264", "-preset medium", "-b:v 10M", "-pix_fmt yuv420p",
				"-y out.mp4",
			},
			absentParts: []string{"-c:a"},
		},
		{
			name:      "with audio track",
			audioPath: "audio.aac",
			wantParts: []string{"-i audio.aac", "-c:a aac"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := strings.Join(AssembleArgs("up", tt.audioPath, "out.mp4", testSettings), " ")

			for _, part := range tt.wantParts {
				if !strings.Contains(args, part) {
					t.Errorf("args %q missing %q", args, part)
				}
			}
			for _, part := range tt.absentParts {
				if strings.Contains(args, part) {
					t.Errorf("args %q should not contain %q", args, part)
				}
			}
		})
	}
}

func TestExtractToDirCommandShape(t *testing.T) {
	runner := &scriptedRunner{}
	trans := New("ffmpeg", runner, zerolog.Nop())

	if err := trans.ExtractToDir(context.Background(), "in.mp4", 30, "frames"); err != nil {
		t.Fatalf("ExtractToDir: %v", err)
	}

	if len(runner.calls) != 1 {
		t.Fatalf("transcoder invoked %d times, want exactly once", len(runner.calls))
	}
	joined := strings.Join(runner.calls[0], " ")
	for _, part := range []string{"ffmpeg", "-i in.mp4", "fps=30", filepath.Join("frames", "frame_%06d.png")} {
		if !strings.Contains(joined, part) {
			t.Errorf("command %q missing %q", joined, part)
		}
	}
}

func TestToolFailureCarriesStderr(t *testing.T) {
	runner := &scriptedRunner{
		result: execx.Result{Stderr: "Unknown encoder 'h265_fake'"},
		err:    errors.New("exit status 1"),
	}
	trans := New("ffmpeg", runner, zerolog.Nop())

	err := trans.Assemble(context.Background(), "up", "", "out.mp4", testSettings)
	if err == nil {
		t.Fatal("expected reassembly to fail")
	}
	if !strings.Contains(err.Error(), "Unknown encoder") {
		t.Errorf("error %q does not carry the tool diagnostic", err)
	}
}
