// internal/frame/store.go
package frame

import "fmt"

// Store holds the full ordered frame sequence for one pipeline run. It is
// populated by the extractor and mutated only by the pool's coordinating
// goroutine, so it needs no internal locking.
type Store struct {
	frames []*Frame
	byName map[string]*Frame
}

// NewStore returns an empty frame store.
func NewStore() *Store {
	return &Store{byName: make(map[string]*Frame)}
}

// Append adds the next frame to the sequence. Frames must be appended in
// sequence order with contiguous indices starting at 1.
func (s *Store) Append(f *Frame) error {
	want := len(s.frames) + 1
	if f.Index != want {
		return fmt.Errorf("frame index %d out of sequence, want %d", f.Index, want)
	}
	if f.Name != Name(f.Index) {
		return fmt.Errorf("frame name %q does not match index %d", f.Name, f.Index)
	}
	s.frames = append(s.frames, f)
	s.byName[f.Name] = f
	return nil
}

// Len returns the number of frames in the sequence.
func (s *Store) Len() int { return len(s.frames) }

// Frames returns the frame sequence in index order.
func (s *Store) Frames() []*Frame { return s.frames }

// ByName returns the frame with the given canonical name.
func (s *Store) ByName(name string) (*Frame, bool) {
	f, ok := s.byName[name]
	return f, ok
}

// SetResult replaces a frame's payload and materialized path with the
// enhanced output, keyed by name so completion order never matters.
func (s *Store) SetResult(name string, payload []byte, path string) error {
	f, ok := s.byName[name]
	if !ok {
		return fmt.Errorf("unknown frame %q", name)
	}
	f.Payload = payload
	f.Path = path
	return nil
}
