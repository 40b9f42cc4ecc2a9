// internal/pool/pool.go

// Package pool fans independent per-frame enhancement jobs out to a
// bounded set of workers. Completion order across workers is unspecified;
// results are merged back into the frame store keyed by name by a single
// coordinating goroutine, so the final sequence is stable regardless of
// scheduling.
package pool

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"framelift/internal/frame"
)

// Enhancer enhances one image file into another.
type Enhancer interface {
	Enhance(ctx context.Context, inputPath, outputPath string) error
}

// FrameError records one frame's enhancement failure. Failures never
// cancel in-flight or pending frames; they are aggregated into the run
// report.
type FrameError struct {
	Name string
	Err  error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %s: %v", e.Name, e.Err)
}

func (e *FrameError) Unwrap() error { return e.Err }

// ProgressFunc receives the monotonically increasing completed count. It
// is invoked only from the coordinating goroutine.
type ProgressFunc func(completed, total int)

// Pool runs per-frame enhancement with at most Workers concurrently
// active external-process invocations.
type Pool struct {
	enhancer Enhancer
	workers  int

	// workDir holds each worker's private temporary input file; outDir is
	// where enhanced frames are materialized under their canonical names
	// for the reassembler.
	workDir string
	outDir  string
	runID   string

	log        zerolog.Logger
	onProgress ProgressFunc
}

// New returns a pool writing temporary inputs under workDir and enhanced
// frames under outDir. runID makes temporary paths unique to this run.
func New(enhancer Enhancer, workers int, workDir, outDir, runID string, log zerolog.Logger) *Pool {
	return &Pool{
		enhancer: enhancer,
		workers:  workers,
		workDir:  workDir,
		outDir:   outDir,
		runID:    runID,
		log:      log,
	}
}

// OnProgress registers a completion callback.
func (p *Pool) OnProgress(fn ProgressFunc) { p.onProgress = fn }

type result struct {
	name    string
	path    string
	payload []byte
	err     error
}

// Run enhances every frame in the store and returns the per-frame
// failures, sorted by frame name. Successful frames have their payloads
// replaced with the enhanced bytes and their paths pointed at the
// materialized output.
func (p *Pool) Run(ctx context.Context, store *frame.Store) []*FrameError {
	total := store.Len()
	workers := p.workers
	if workers > total {
		workers = total
	}

	jobs := make(chan *frame.Frame)
	results := make(chan result)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for f := range jobs {
				results <- p.enhanceFrame(ctx, f)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, f := range store.Frames() {
			jobs <- f
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	// Single coordinator: the store and the failure list are only ever
	// touched here.
	var failures []*FrameError
	completed := 0
	for res := range results {
		completed++
		if res.err != nil {
			p.log.Warn().Str("frame", res.name).Err(res.err).Msg("frame enhancement failed")
			failures = append(failures, &FrameError{Name: res.name, Err: res.err})
		} else if err := store.SetResult(res.name, res.payload, res.path); err != nil {
			p.log.Error().Str("frame", res.name).Err(err).Msg("could not record enhanced frame")
			failures = append(failures, &FrameError{Name: res.name, Err: err})
		}
		if p.onProgress != nil {
			p.onProgress(completed, total)
		}
	}

	sort.Slice(failures, func(i, j int) bool { return failures[i].Name < failures[j].Name })
	return failures
}

// enhanceFrame materializes one frame to a private temporary input path,
// invokes the enhancer, and reads back the output. The temporary input is
// removed on every exit path.
func (p *Pool) enhanceFrame(ctx context.Context, f *frame.Frame) result {
	inputPath := filepath.Join(p.workDir, fmt.Sprintf("in_%s_%s", p.runID, f.Name))
	outputPath := filepath.Join(p.outDir, f.Name)

	defer os.Remove(inputPath)

	if err := os.WriteFile(inputPath, f.Payload, 0o644); err != nil {
		return result{name: f.Name, err: fmt.Errorf("materialize input: %w", err)}
	}

	if err := p.enhancer.Enhance(ctx, inputPath, outputPath); err != nil {
		return result{name: f.Name, err: err}
	}

	payload, err := os.ReadFile(outputPath)
	if err != nil {
		return result{name: f.Name, err: fmt.Errorf("read enhanced output: %w", err)}
	}

	return result{name: f.Name, path: outputPath, payload: payload}
}
