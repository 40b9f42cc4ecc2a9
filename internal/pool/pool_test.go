package pool

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"framelift/internal/frame"
	"framelift/internal/mocks"
)

func buildStore(t *testing.T, count int) *frame.Store {
	t.Helper()
	store := frame.NewStore()
	for i := 1; i <= count; i++ {
		f := frame.New(i)
		f.Payload = []byte(fmt.Sprintf("payload-%d", i))
		if err := store.Append(f); err != nil {
			t.Fatalf("appending frame %d: %v", i, err)
		}
	}
	return store
}

// Final ordering must be identical for every pool size and any completion
// order, because results are keyed by name, never by arrival.
func TestRunOrderingStableAcrossWorkerCounts(t *testing.T) {
	const frames = 12

	for _, workers := range []int{1, 2, 3, frames, frames * 2} {
		t.Run(fmt.Sprintf("workers_%d", workers), func(t *testing.T) {
			workDir, outDir := t.TempDir(), t.TempDir()
			// Per-frame delays scramble completion order differently for
			// each pool size; deriving them from the frame name keeps the
			// hook safe to call from concurrent workers.
			enhancer := &mocks.Enhancer{
				Delay: func(name string) time.Duration {
					index, _ := frame.ParseIndex(name)
					return time.Duration((index*7+workers*5)%12) * time.Millisecond
				},
			}
			store := buildStore(t, frames)

			p := New(enhancer, workers, workDir, outDir, "test-run", zerolog.Nop())
			failures := p.Run(context.Background(), store)
			if len(failures) != 0 {
				t.Fatalf("unexpected failures: %v", failures)
			}

			for i, f := range store.Frames() {
				want := fmt.Sprintf("payload-%d enhanced", i+1)
				if string(f.Payload) != want {
					t.Errorf("frame %d payload = %q, want %q", i+1, f.Payload, want)
				}
				if f.Path != filepath.Join(outDir, frame.Name(i+1)) {
					t.Errorf("frame %d materialized at %q", i+1, f.Path)
				}
			}
		})
	}
}

func TestRunRecordsFailureWithoutCancellingSiblings(t *testing.T) {
	workDir, outDir := t.TempDir(), t.TempDir()
	enhancer := &mocks.Enhancer{
		FailWith: map[string]string{frame.Name(2): "vkAllocateMemory failed"},
	}
	store := buildStore(t, 3)

	p := New(enhancer, 2, workDir, outDir, "test-run", zerolog.Nop())
	failures := p.Run(context.Background(), store)

	if len(failures) != 1 {
		t.Fatalf("got %d failures, want 1", len(failures))
	}
	if failures[0].Name != frame.Name(2) {
		t.Errorf("failed frame = %q, want %q", failures[0].Name, frame.Name(2))
	}
	if got := failures[0].Error(); got == "" || failures[0].Unwrap() == nil {
		t.Errorf("failure should wrap the enhancer error, got %q", got)
	}

	// Frames 1 and 3 completed despite the failure.
	for _, index := range []int{1, 3} {
		f, _ := store.ByName(frame.Name(index))
		want := fmt.Sprintf("payload-%d enhanced", index)
		if string(f.Payload) != want {
			t.Errorf("frame %d payload = %q, want %q", index, f.Payload, want)
		}
	}

	// The failed frame keeps its original payload and no path.
	f, _ := store.ByName(frame.Name(2))
	if string(f.Payload) != "payload-2" || f.Path != "" {
		t.Errorf("failed frame mutated: payload=%q path=%q", f.Payload, f.Path)
	}

	if len(enhancer.Calls()) != 3 {
		t.Errorf("enhancer invoked %d times, want 3", len(enhancer.Calls()))
	}
}

// Private temporary inputs are removed on success and failure paths alike.
func TestRunRemovesTemporaryInputs(t *testing.T) {
	workDir, outDir := t.TempDir(), t.TempDir()
	enhancer := &mocks.Enhancer{
		FailWith: map[string]string{frame.Name(1): "boom"},
	}
	store := buildStore(t, 4)

	p := New(enhancer, 4, workDir, outDir, "test-run", zerolog.Nop())
	p.Run(context.Background(), store)

	entries, err := os.ReadDir(workDir)
	if err != nil {
		t.Fatalf("reading work dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("%d temporary inputs left behind", len(entries))
	}
}

func TestRunProgressIsMonotonic(t *testing.T) {
	workDir, outDir := t.TempDir(), t.TempDir()
	store := buildStore(t, 8)

	p := New(&mocks.Enhancer{}, 3, workDir, outDir, "test-run", zerolog.Nop())

	var seen []int
	p.OnProgress(func(completed, total int) {
		if total != 8 {
			t.Errorf("total = %d, want 8", total)
		}
		seen = append(seen, completed)
	})
	p.Run(context.Background(), store)

	if len(seen) != 8 {
		t.Fatalf("got %d progress calls, want 8", len(seen))
	}
	for i, completed := range seen {
		if completed != i+1 {
			t.Fatalf("progress sequence %v is not monotonically increasing", seen)
		}
	}
}

func TestFailuresSortedByName(t *testing.T) {
	workDir, outDir := t.TempDir(), t.TempDir()
	enhancer := &mocks.Enhancer{
		FailWith: map[string]string{
			frame.Name(5): "e",
			frame.Name(1): "a",
			frame.Name(3): "c",
		},
		Delay: func(name string) time.Duration {
			// Reverse-ish completion order.
			index, _ := frame.ParseIndex(name)
			return time.Duration(6-index) * 2 * time.Millisecond
		},
	}
	store := buildStore(t, 5)

	p := New(enhancer, 5, workDir, outDir, "test-run", zerolog.Nop())
	failures := p.Run(context.Background(), store)

	if len(failures) != 3 {
		t.Fatalf("got %d failures, want 3", len(failures))
	}
	want := []string{frame.Name(1), frame.Name(3), frame.Name(5)}
	for i, fe := range failures {
		if fe.Name != want[i] {
			t.Errorf("failure %d = %q, want %q", i, fe.Name, want[i])
		}
	}
}
