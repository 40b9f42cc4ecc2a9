// internal/pipeline/pipeline.go

// Package pipeline orchestrates one run: extraction, bounded-concurrency
// enhancement, reassembly, and cleanup of every temporary artifact on both
// success and failure paths.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"framelift/internal/config"
	"framelift/internal/ffmpeg"
	"framelift/internal/frame"
	"framelift/internal/pool"
)

// FrameExtractor produces the ordered frame sequence from the input video.
type FrameExtractor interface {
	DiskMediated(ctx context.Context, input string, fps int, dir string) (*frame.Store, error)
	StreamMediated(ctx context.Context, input string, fps int) (*frame.Store, error)
}

// Assembler is the reassembly side of the external transcoder.
type Assembler interface {
	DemuxAudio(ctx context.Context, input, audioPath string) error
	Assemble(ctx context.Context, framesDir, audioPath, output string, enc ffmpeg.EncodeSettings) error
}

// ReassemblyError is the fatal error kind for the reassembly stage.
type ReassemblyError struct {
	Err error
}

func (e *ReassemblyError) Error() string {
	return fmt.Sprintf("reassembly failed: %v", e.Err)
}

func (e *ReassemblyError) Unwrap() error { return e.Err }

// EnhancementError fails the run when any frame could not be enhanced.
// The output video never silently drops frames; the report names each
// failed frame so the user can re-run.
type EnhancementError struct {
	Failed int
	Total  int
}

func (e *EnhancementError) Error() string {
	return fmt.Sprintf("%d of %d frames failed enhancement", e.Failed, e.Total)
}

// ProgressFunc receives stage transitions and, during upscaling, the
// monotonically increasing completed frame count.
type ProgressFunc func(stage Stage, completed, total int)

// Report is the outcome of one pipeline run.
type Report struct {
	SessionID       string
	FinalStage      Stage
	TotalFrames     int
	EnhancedFrames  int
	FrameFailures   []*pool.FrameError
	CleanupWarnings []CleanupWarning
	OutputPath      string
	Elapsed         time.Duration
	Err             error
}

// Succeeded reports whether the run produced the output video.
func (r *Report) Succeeded() bool { return r.Err == nil }

// Pipeline runs the frame pipeline for one validated configuration.
type Pipeline struct {
	cfg       config.Config
	extractor FrameExtractor
	assembler Assembler
	enhancer  pool.Enhancer

	log        zerolog.Logger
	onProgress ProgressFunc
}

// New returns a pipeline over the given collaborators. The configuration
// must already be validated.
func New(cfg config.Config, extractor FrameExtractor, assembler Assembler, enhancer pool.Enhancer, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		extractor: extractor,
		assembler: assembler,
		enhancer:  enhancer,
		log:       log,
	}
}

// OnProgress registers a progress callback.
func (p *Pipeline) OnProgress(fn ProgressFunc) { p.onProgress = fn }

// Run executes the whole pipeline. Fatal errors stop forward progress
// immediately but cleanup always runs; the report carries the outcome
// either way.
func (p *Pipeline) Run(ctx context.Context) *Report {
	started := time.Now()
	runID := uuid.NewString()
	rep := &Report{
		SessionID:  runID,
		OutputPath: p.cfg.OutputPath,
	}

	cleaner := NewCleaner(p.log)
	rep.Err = p.run(ctx, runID, rep, cleaner)

	p.advance(rep, StageCleaning, 0, rep.TotalFrames)
	rep.CleanupWarnings = cleaner.Cleanup()

	if rep.Err != nil {
		rep.FinalStage = StageFailed
	} else {
		rep.FinalStage = StageDone
	}
	p.advance(rep, rep.FinalStage, rep.EnhancedFrames, rep.TotalFrames)

	rep.Elapsed = time.Since(started)
	return rep
}

func (p *Pipeline) run(ctx context.Context, runID string, rep *Report, cleaner *Cleaner) error {
	root := filepath.Join(p.cfg.TempRoot, sessionPrefix+runID)
	framesDir := filepath.Join(root, "frames")
	upscaledDir := filepath.Join(root, "upscaled")
	workDir := filepath.Join(root, "work")

	for _, dir := range []string{framesDir, upscaledDir, workDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create session directory: %w", err)
		}
	}
	cleaner.Register(root)

	p.advance(rep, StageExtracting, 0, 0)
	store, err := p.extract(ctx, framesDir)
	if err != nil {
		return err
	}
	rep.TotalFrames = store.Len()
	p.log.Info().Int("frames", store.Len()).Str("session", runID).Msg("extraction complete")

	p.advance(rep, StageUpscaling, 0, store.Len())
	workers := pool.New(p.enhancer, p.cfg.Workers, workDir, upscaledDir, runID, p.log)
	workers.OnProgress(func(completed, total int) {
		p.advance(rep, StageUpscaling, completed, total)
	})
	rep.FrameFailures = workers.Run(ctx, store)
	rep.EnhancedFrames = store.Len() - len(rep.FrameFailures)

	if len(rep.FrameFailures) > 0 {
		return &EnhancementError{Failed: len(rep.FrameFailures), Total: store.Len()}
	}

	audioPath := ""
	if p.cfg.KeepAudio {
		audioPath = filepath.Join(root, "audio.aac")
		if err := p.assembler.DemuxAudio(ctx, p.cfg.InputPath, audioPath); err != nil {
			// Silent inputs are fine; reassemble video only.
			p.log.Debug().Err(err).Msg("no audio track carried over")
			audioPath = ""
		}
	}

	p.advance(rep, StageReassembling, store.Len(), store.Len())
	enc := ffmpeg.EncodeSettings{
		FrameRate:   p.cfg.FrameRate,
		Codec:       p.cfg.Codec,
		Bitrate:     p.cfg.Bitrate,
		Preset:      p.cfg.Preset,
		PixelFormat: p.cfg.PixelFormat,
	}
	if err := p.assembler.Assemble(ctx, upscaledDir, audioPath, p.cfg.OutputPath, enc); err != nil {
		return &ReassemblyError{Err: err}
	}

	p.log.Info().Str("output", p.cfg.OutputPath).Msg("reassembly complete")
	return nil
}

func (p *Pipeline) extract(ctx context.Context, framesDir string) (*frame.Store, error) {
	if p.cfg.StreamExtraction {
		return p.extractor.StreamMediated(ctx, p.cfg.InputPath, p.cfg.FrameRate)
	}
	return p.extractor.DiskMediated(ctx, p.cfg.InputPath, p.cfg.FrameRate, framesDir)
}

func (p *Pipeline) advance(rep *Report, stage Stage, completed, total int) {
	if stage != StageDone && stage != StageFailed {
		rep.FinalStage = stage
	}
	if p.onProgress != nil {
		p.onProgress(stage, completed, total)
	}
}
