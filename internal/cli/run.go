// internal/cli/run.go
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"framelift/internal/config"
	"framelift/internal/enhance"
	"framelift/internal/execx"
	"framelift/internal/extract"
	"framelift/internal/ffmpeg"
	"framelift/internal/logging"
	"framelift/internal/pipeline"
	"framelift/internal/report"
	"framelift/internal/ui"
	"framelift/internal/video"
)

// SupportedInputFormats lists the container extensions accepted as input.
var SupportedInputFormats = []string{".mp4", ".mkv", ".mov", ".avi", ".webm"}

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Upscale a video",
		RunE:  runUpscale,
	}

	flags := cmd.Flags()
	flags.StringP("input", "i", "", "input video path")
	flags.StringP("output", "o", "", "output video path")
	flags.Int("fps", 0, "frame rate for extraction and reassembly")
	flags.Int("scale", 0, "enhancer scale factor (2-4)")
	flags.Int("tile", 0, "enhancer tile size")
	flags.IntP("workers", "w", 0, "maximum concurrent enhancer processes")
	flags.String("bitrate", "", "output bitrate, e.g. 10M")
	flags.String("preset", "", "encoder preset")
	flags.String("codec", "", "output video codec")
	flags.Bool("stream", false, "extract frames over a pipe instead of through disk")
	flags.Bool("no-audio", false, "do not carry the source audio track over")
	flags.String("temp-root", "", "directory for temporary session data")

	return cmd
}

func runUpscale(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	interactive := isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
	if interactive {
		fmt.Println(ui.TitleStyle.Render("framelift video upscaler"))
	}

	if err := fillMissingPaths(&cfg, interactive); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := validateInputPath(cfg.InputPath); err != nil {
		return err
	}

	log := logging.New(cfg.LogLevel, os.Stderr)
	runner := execx.ExecRunner{}

	trans := ffmpeg.New(cfg.FFmpegPath, runner, log)
	enhancer := enhance.New(cfg.EnhancerPath, cfg.ScaleFactor, cfg.TileSize, runner, log)
	if !trans.Available() {
		return fmt.Errorf("ffmpeg is not installed or not in PATH (%s)", cfg.FFmpegPath)
	}
	if !execx.Available(cfg.FFprobePath) {
		return fmt.Errorf("ffprobe is not installed or not in PATH (%s)", cfg.FFprobePath)
	}
	if !enhancer.Available() {
		return fmt.Errorf("enhancer is not installed or not in PATH (%s)", cfg.EnhancerPath)
	}

	info, err := video.Probe(cmd.Context(), runner, cfg.FFprobePath, cfg.InputPath)
	if err != nil {
		return fmt.Errorf("cannot read input video: %w", err)
	}
	if interactive {
		fmt.Println(ui.RenderVideoInfo(info))
	}

	extractor := extract.New(trans, log)
	pipe := pipeline.New(cfg, extractor, trans, enhancer, log)
	pipe.OnProgress(progressDisplay(interactive))

	rep := pipe.Run(cmd.Context())
	report.Render(os.Stdout, rep)
	if !rep.Succeeded() {
		os.Exit(1)
	}
	return nil
}

// loadConfig overlays the config file with any flags the user set.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.InputPath, _ = flags.GetString("input")
	}
	if flags.Changed("output") {
		cfg.OutputPath, _ = flags.GetString("output")
	}
	if flags.Changed("fps") {
		cfg.FrameRate, _ = flags.GetInt("fps")
	}
	if flags.Changed("scale") {
		cfg.ScaleFactor, _ = flags.GetInt("scale")
	}
	if flags.Changed("tile") {
		cfg.TileSize, _ = flags.GetInt("tile")
	}
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("bitrate") {
		cfg.Bitrate, _ = flags.GetString("bitrate")
	}
	if flags.Changed("preset") {
		cfg.Preset, _ = flags.GetString("preset")
	}
	if flags.Changed("codec") {
		cfg.Codec, _ = flags.GetString("codec")
	}
	if flags.Changed("stream") {
		cfg.StreamExtraction, _ = flags.GetBool("stream")
	}
	if flags.Changed("no-audio") {
		noAudio, _ := flags.GetBool("no-audio")
		cfg.KeepAudio = !noAudio
	}
	if flags.Changed("temp-root") {
		cfg.TempRoot, _ = flags.GetString("temp-root")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	return cfg, nil
}

// fillMissingPaths prompts for the input and output paths when they were
// given neither by flag nor config file.
func fillMissingPaths(cfg *config.Config, interactive bool) error {
	if cfg.InputPath == "" {
		if !interactive {
			return fmt.Errorf("input path is required (use --input)")
		}
		prompt := promptui.Prompt{Label: ui.PromptStyle.Render("Input video path"), Validate: validateInputPath}
		path, err := prompt.Run()
		if err != nil {
			return err
		}
		cfg.InputPath, _ = filepath.Abs(strings.TrimSpace(path))
	}

	if cfg.OutputPath == "" {
		if !interactive {
			return fmt.Errorf("output path is required (use --output)")
		}
		prompt := promptui.Prompt{
			Label: ui.PromptStyle.Render("Output video path"),
			Validate: func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("path cannot be empty")
				}
				return nil
			},
		}
		path, err := prompt.Run()
		if err != nil {
			return err
		}
		path = strings.TrimSpace(path)
		if filepath.Ext(path) == "" {
			path += ".mp4"
		}
		cfg.OutputPath, _ = filepath.Abs(path)
	}
	return nil
}

// validateInputPath checks the input file exists and is a supported video
// container.
func validateInputPath(input string) error {
	path := strings.TrimSpace(input)
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("cannot access file: %v", err)
	}
	if fileInfo.IsDir() {
		return fmt.Errorf("path points to a directory, not a file: %s", path)
	}
	if fileInfo.Size() == 0 {
		return fmt.Errorf("file is empty: %s", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	for _, supported := range SupportedInputFormats {
		if ext == supported {
			return nil
		}
	}
	return fmt.Errorf("unsupported file format %s, supported: %s",
		ext, strings.Join(SupportedInputFormats, ", "))
}

// progressDisplay returns the pipeline progress callback. On a terminal it
// drives a per-frame bar through the upscaling stage; otherwise it is
// silent and the structured logs carry progress.
func progressDisplay(interactive bool) pipeline.ProgressFunc {
	if !interactive {
		return func(pipeline.Stage, int, int) {}
	}
	return progressFunc(os.Stdout)
}

// progressFunc drives the upscaling bar on w. The bar is closed on the
// first stage after upscaling, whether that is reassembly or, when
// enhancement failed, cleanup, so the report never shares its line.
func progressFunc(w io.Writer) pipeline.ProgressFunc {
	var bar *progressbar.ProgressBar
	return func(stage pipeline.Stage, completed, total int) {
		switch stage {
		case pipeline.StageUpscaling:
			if bar == nil && total > 0 {
				bar = progressbar.NewOptions(total,
					progressbar.OptionSetWriter(w),
					progressbar.OptionSetDescription("Upscaling"),
					progressbar.OptionSetTheme(progressbar.Theme{
						Saucer:        "█",
						SaucerHead:    "█",
						SaucerPadding: "░",
						BarStart:      "▐",
						BarEnd:        "▌",
					}),
					progressbar.OptionShowCount(),
					progressbar.OptionSetWidth(50),
					progressbar.OptionSetRenderBlankState(true),
				)
			}
			if bar != nil {
				bar.Set(completed)
			}
		case pipeline.StageReassembling, pipeline.StageCleaning:
			if bar != nil {
				bar.Finish()
				fmt.Fprintln(w)
				bar = nil
			}
		}
	}
}
