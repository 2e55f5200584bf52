package localstorage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	sourceFile = "source.mp4"
	clipFile   = "short.mp4"
)

// LocalStorage implements ports.Storage for the local filesystem.
// Every job gets its own directory so concurrent jobs never share filenames.
type LocalStorage struct {
	BaseDir string
}

// NewLocalStorage creates a new LocalStorage instance.
func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{BaseDir: baseDir}
}

// InitJob creates the job directory.
func (s *LocalStorage) InitJob(ctx context.Context, jobID string) error {
	path := s.GetJobPath(jobID)
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create job directory %s: %w", path, err)
	}
	return nil
}

// SourcePath returns the path of the downloaded section.
func (s *LocalStorage) SourcePath(jobID string) string {
	return filepath.Join(s.GetJobPath(jobID), sourceFile)
}

// ClipPath returns the path of the trimmed clip.
func (s *LocalStorage) ClipPath(jobID string) string {
	return filepath.Join(s.GetJobPath(jobID), clipFile)
}

// Cleanup deletes the intermediate files and then the job directory.
// Missing files are ignored.
func (s *LocalStorage) Cleanup(ctx context.Context, jobID string) error {
	var errs []error
	for _, path := range []string{s.SourcePath(jobID), s.ClipPath(jobID)} {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("failed to remove %s: %w", path, err))
		}
	}
	// yt-dlp may leave .part or .ytdl files next to the output
	if err := os.RemoveAll(s.GetJobPath(jobID)); err != nil {
		errs = append(errs, fmt.Errorf("failed to remove job directory: %w", err))
	}
	return errors.Join(errs...)
}

// GetJobPath returns the path for a job directory.
func (s *LocalStorage) GetJobPath(jobID string) string {
	return filepath.Join(s.BaseDir, "jobs", jobID)
}
