// internal/video/info.go
package video

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"framelift/internal/execx"
)

// Info describes the input video as probed before the pipeline starts.
type Info struct {
	Filepath  string
	FileSize  int64
	Width     int
	Height    int
	Duration  float64
	Format    string
	Bitrate   int64
	FrameRate float64
	HasAudio  bool
}

type ffprobeOutput struct {
	Streams []struct {
		Width      int    `json:"width"`
		Height     int    `json:"height"`
		CodecType  string `json:"codec_type"`
		RFrameRate string `json:"r_frame_rate"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
		Bitrate  string `json:"bit_rate"`
		Format   string `json:"format_name"`
	} `json:"format"`
}

// Probe runs ffprobe over the file and parses its JSON output. Inputs
// without a video stream are rejected here rather than deep inside
// extraction.
func Probe(ctx context.Context, runner execx.Runner, probeBin, path string) (*Info, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	res, err := runner.Run(ctx, probeBin,
		"-v", "quiet", "-print_format", "json", "-show_format", "-show_streams", path)
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %v", err)
	}

	var probe ffprobeOutput
	if err := json.Unmarshal(res.Stdout, &probe); err != nil {
		return nil, fmt.Errorf("parse ffprobe output: %v", err)
	}

	info := &Info{
		Filepath: path,
		FileSize: fileInfo.Size(),
		Format:   probe.Format.Format,
	}

	for _, stream := range probe.Streams {
		switch stream.CodecType {
		case "video":
			if info.Width == 0 {
				info.Width = stream.Width
				info.Height = stream.Height
				info.FrameRate = parseFrameRate(stream.RFrameRate)
			}
		case "audio":
			info.HasAudio = true
		}
	}

	if info.Width == 0 || info.Height == 0 {
		return nil, fmt.Errorf("no video stream found in %s", path)
	}

	if probe.Format.Duration != "" {
		if duration, err := strconv.ParseFloat(probe.Format.Duration, 64); err == nil {
			info.Duration = duration
		}
	}
	if probe.Format.Bitrate != "" {
		if bitrate, err := strconv.ParseInt(probe.Format.Bitrate, 10, 64); err == nil {
			info.Bitrate = bitrate
		}
	}

	return info, nil
}

// parseFrameRate converts ffprobe's rational frame rate ("25/1") to a
// float. Malformed values yield zero.
func parseFrameRate(raw string) float64 {
	parts := strings.SplitN(raw, "/", 2)
	num, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0
	}
	if len(parts) == 1 {
		return num
	}
	den, err := strconv.ParseFloat(parts[1], 64)
	if err != nil || den == 0 {
		return 0
	}
	return num / den
}
