// internal/extract/extractor.go

// Package extract turns the input video into the ordered frame sequence.
// Both strategies produce an equivalent sequence with contiguous indices
// starting at 1; extraction failures are fatal and abort the run before
// any enhancement starts.
package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"

	"framelift/internal/ffmpeg"
	"framelift/internal/frame"
)

// ExtractionError is the fatal error kind for the extraction stage. Err
// carries the transcoder's diagnostic output when the tool exited non-zero.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Extractor produces the frame store from the input video.
type Extractor struct {
	trans *ffmpeg.Transcoder
	log   zerolog.Logger
}

// New returns an extractor invoking the given transcoder.
func New(trans *ffmpeg.Transcoder, log zerolog.Logger) *Extractor {
	return &Extractor{trans: trans, log: log}
}

// DiskMediated has the transcoder write numbered frame files into dir,
// then lists the directory in natural order and loads each file into a
// frame payload.
func (e *Extractor) DiskMediated(ctx context.Context, input string, fps int, dir string) (*frame.Store, error) {
	if err := e.trans.ExtractToDir(ctx, input, fps, dir); err != nil {
		return nil, &ExtractionError{Err: err}
	}

	matches, err := filepath.Glob(filepath.Join(dir, frame.Glob()))
	if err != nil {
		return nil, &ExtractionError{Err: fmt.Errorf("list frame directory: %w", err)}
	}

	names := make([]string, 0, len(matches))
	for _, match := range matches {
		names = append(names, filepath.Base(match))
	}
	sort.Slice(names, func(i, j int) bool { return frame.NaturalLess(names[i], names[j]) })

	store, err := e.buildStore(len(names))
	if err != nil {
		return nil, err
	}

	for i, name := range names {
		path := filepath.Join(dir, name)
		payload, err := os.ReadFile(path)
		if err != nil {
			return nil, &ExtractionError{Err: fmt.Errorf("read frame %s: %w", name, err)}
		}

		f := frame.New(i + 1)
		f.Payload = payload
		f.Path = path
		if err := store.Append(f); err != nil {
			return nil, &ExtractionError{Err: err}
		}
	}

	e.log.Info().Int("frames", store.Len()).Msg("extracted frames from disk")
	return store, nil
}

// StreamMediated has the transcoder write one concatenated PNG stream to
// its stdout, splits the stream on the PNG signature, and assigns each
// chunk a sequence index in scan order.
func (e *Extractor) StreamMediated(ctx context.Context, input string, fps int) (*frame.Store, error) {
	data, err := e.trans.ExtractToPipe(ctx, input, fps)
	if err != nil {
		return nil, &ExtractionError{Err: err}
	}
	if len(data) == 0 {
		return nil, &ExtractionError{Err: fmt.Errorf("no frames were extracted")}
	}

	payloads, err := SplitPNGStream(data)
	if err != nil {
		return nil, &ExtractionError{Err: err}
	}

	store, err := e.buildStore(len(payloads))
	if err != nil {
		return nil, err
	}

	for i, payload := range payloads {
		f := frame.New(i + 1)
		f.Payload = payload
		if err := store.Append(f); err != nil {
			return nil, &ExtractionError{Err: err}
		}
	}

	e.log.Info().Int("frames", store.Len()).Msg("extracted frames from pipe")
	return store, nil
}

func (e *Extractor) buildStore(count int) (*frame.Store, error) {
	if count == 0 {
		return nil, &ExtractionError{Err: fmt.Errorf("no frames were extracted")}
	}
	if count > frame.MaxIndex {
		return nil, &ExtractionError{Err: fmt.Errorf("%d frames exceed the %d-frame naming limit", count, frame.MaxIndex)}
	}
	return frame.NewStore(), nil
}
