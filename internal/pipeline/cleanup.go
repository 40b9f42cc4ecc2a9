// internal/pipeline/cleanup.go
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// sessionPrefix names the per-run directory under the temp root.
const sessionPrefix = "framelift_"

// CleanupWarning records a temporary artifact that could not be removed.
// Cleanup is best-effort, not transactional: warnings are reported but
// never fail the run.
type CleanupWarning struct {
	Path string
	Err  error
}

func (w CleanupWarning) String() string {
	return fmt.Sprintf("could not remove %s: %v", w.Path, w.Err)
}

// Cleaner removes every temporary file and directory registered with it.
// It is idempotent: removing an already-absent path is not a warning.
type Cleaner struct {
	paths []string
	log   zerolog.Logger
}

// NewCleaner returns an empty cleaner.
func NewCleaner(log zerolog.Logger) *Cleaner {
	return &Cleaner{log: log}
}

// Register adds a path to remove when Cleanup runs.
func (c *Cleaner) Register(path string) {
	c.paths = append(c.paths, path)
}

// Cleanup removes all registered paths and returns warnings for any it
// could not remove.
func (c *Cleaner) Cleanup() []CleanupWarning {
	var warnings []CleanupWarning
	for _, path := range c.paths {
		if err := os.RemoveAll(path); err != nil {
			c.log.Warn().Str("path", path).Err(err).Msg("cleanup could not remove artifact")
			warnings = append(warnings, CleanupWarning{Path: path, Err: err})
			continue
		}
		c.log.Debug().Str("path", path).Msg("removed temporary artifact")
	}
	return warnings
}

// CleanStaleSessions removes leftover session directories under tempRoot
// older than the cutoff, e.g. from runs killed before their cleanup ran.
// It returns the directories removed plus warnings for any it could not.
func CleanStaleSessions(tempRoot string, olderThan time.Duration, log zerolog.Logger) ([]string, []CleanupWarning, error) {
	entries, err := os.ReadDir(tempRoot)
	if err != nil {
		return nil, nil, fmt.Errorf("read temp root %s: %w", tempRoot, err)
	}

	cutoff := time.Now().Add(-olderThan)
	var removed []string
	var warnings []CleanupWarning

	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), sessionPrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}

		path := filepath.Join(tempRoot, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			log.Warn().Str("path", path).Err(err).Msg("could not remove stale session")
			warnings = append(warnings, CleanupWarning{Path: path, Err: err})
			continue
		}
		log.Info().Str("path", path).Msg("removed stale session")
		removed = append(removed, path)
	}
	return removed, warnings, nil
}
