// internal/frame/frame.go
package frame

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// NameWidth is the zero-pad width of the numeric part of a frame name.
	// ffmpeg consumes the same width through the frame_%06d.png pattern, so
	// a plain lexicographic sort of names matches the numeric frame order.
	NameWidth = 6

	// MaxIndex is the highest sequence index the pad width can represent.
	MaxIndex = 999999

	prefix = "frame_"
	ext    = ".png"
)

// Frame is one still image extracted from the input video. Index is its
// position in the decoded stream, contiguous from 1. Payload holds the
// encoded image bytes; Path is set once the frame is materialized on disk.
type Frame struct {
	Index   int
	Name    string
	Payload []byte
	Path    string
}

// New creates a frame for the given sequence index with its canonical name.
func New(index int) *Frame {
	return &Frame{Index: index, Name: Name(index)}
}

// Name returns the canonical zero-padded file name for a sequence index,
// e.g. Name(4) == "frame_000004.png".
func Name(index int) string {
	return fmt.Sprintf("%s%0*d%s", prefix, NameWidth, index, ext)
}

// Pattern returns the printf-style numeric pattern ffmpeg uses to read or
// write the frame sequence.
func Pattern() string {
	return fmt.Sprintf("%s%%0%dd%s", prefix, NameWidth, ext)
}

// Glob returns the glob matching every frame file in a directory.
func Glob() string {
	return prefix + "*" + ext
}

// ParseIndex extracts the sequence index from a canonical frame name.
func ParseIndex(name string) (int, error) {
	if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ext) {
		return 0, fmt.Errorf("not a frame name: %q", name)
	}
	digits := strings.TrimSuffix(strings.TrimPrefix(name, prefix), ext)
	if len(digits) != NameWidth {
		return 0, fmt.Errorf("frame name %q is not padded to width %d", name, NameWidth)
	}
	index, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("frame name %q has a non-numeric index: %v", name, err)
	}
	if index < 1 {
		return 0, fmt.Errorf("frame index must be positive, got %d", index)
	}
	return index, nil
}

// NaturalLess compares two file names by the numeric value of any digit
// runs they contain, falling back to byte order for non-digit segments.
func NaturalLess(a, b string) bool {
	for len(a) > 0 && len(b) > 0 {
		aDigit, bDigit := isDigit(a[0]), isDigit(b[0])
		if aDigit && bDigit {
			aNum, aRest := takeDigits(a)
			bNum, bRest := takeDigits(b)
			if aNum != bNum {
				return aNum < bNum
			}
			a, b = aRest, bRest
			continue
		}
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		a, b = a[1:], b[1:]
	}
	return len(a) < len(b)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func takeDigits(s string) (int, string) {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	n, _ := strconv.Atoi(s[:i])
	return n, s[i:]
}
