package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"creatorshorts/internal/adapters/command"
)

// Trimmer stream-copies a fixed-length window of a media file with ffmpeg.
type Trimmer struct {
	binaryPath string
	runner     command.Runner
	offset     string
	seconds    int
	timeout    time.Duration
}

// NewTrimmer creates a new Trimmer. offset is an ffmpeg time position such as "00:00:00".
func NewTrimmer(runner command.Runner, binaryPath, offset string, seconds int, timeout time.Duration) *Trimmer {
	if binaryPath == "" {
		binaryPath = "ffmpeg"
	}
	if offset == "" {
		offset = "00:00:00"
	}
	return &Trimmer{
		binaryPath: binaryPath,
		runner:     runner,
		offset:     offset,
		seconds:    seconds,
		timeout:    timeout,
	}
}

// Args returns the ffmpeg argument list for a lossless trim.
func (t *Trimmer) Args(inputPath, outputPath string) []string {
	return []string{
		"-y",
		"-i", inputPath,
		"-ss", t.offset,
		"-t", strconv.Itoa(t.seconds),
		"-c", "copy",
		outputPath,
	}
}

// Trim writes a clip of at most the configured length to outputPath,
// overwriting any previous file there.
func (t *Trimmer) Trim(ctx context.Context, inputPath, outputPath string) error {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	if _, err := t.runner.Run(ctx, t.binaryPath, t.Args(inputPath, outputPath)...); err != nil {
		return fmt.Errorf("ffmpeg failed: %w", err)
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		return fmt.Errorf("ffmpeg produced no output file: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("ffmpeg produced an empty file: %s", outputPath)
	}
	return nil
}
