package ytdlp

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"creatorshorts/internal/adapters/command"
)

// YtDlpDownloader uses the local yt-dlp binary to fetch the leading section of a video.
type YtDlpDownloader struct {
	binaryPath string
	runner     command.Runner
	seconds    int
	timeout    time.Duration
}

// NewYtDlpDownloader creates a new downloader. An empty binaryPath falls back
// to yt-dlp on PATH, or on Windows to a yt-dlp.exe in the current directory.
func NewYtDlpDownloader(runner command.Runner, binaryPath string, seconds int, timeout time.Duration) *YtDlpDownloader {
	if binaryPath == "" {
		binaryPath = defaultBinary(runtime.GOOS)
	}
	return &YtDlpDownloader{
		binaryPath: binaryPath,
		runner:     runner,
		seconds:    seconds,
		timeout:    timeout,
	}
}

func defaultBinary(goos string) string {
	if goos == "windows" {
		if _, err := os.Stat("yt-dlp.exe"); err == nil {
			return ".\\yt-dlp.exe"
		}
	}
	return "yt-dlp"
}

// Args returns the yt-dlp argument list for a section download.
func (d *YtDlpDownloader) Args(videoURL, outputPath string) []string {
	// -f mp4: single progressive mp4 so no merge step is needed
	// --download-sections: only fetch the first N seconds
	return []string{
		"-f", "mp4",
		"--download-sections", fmt.Sprintf("*0-%d", d.seconds),
		"--force-overwrites",
		"--no-playlist",
		"--no-warnings",
		"-o", outputPath,
		videoURL,
	}
}

// DownloadSection downloads the first seconds of videoURL into outputPath.
func (d *YtDlpDownloader) DownloadSection(ctx context.Context, videoURL, outputPath string) error {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	if _, err := d.runner.Run(ctx, d.binaryPath, d.Args(videoURL, outputPath)...); err != nil {
		return fmt.Errorf("yt-dlp failed: %w", err)
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		return fmt.Errorf("yt-dlp produced no output file: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("yt-dlp produced an empty file: %s", outputPath)
	}
	return nil
}
