package ports

import (
	"context"
	"io"

	"creatorshorts/internal/core/domain"
)

// Downloader defines the contract for fetching a remote resource over HTTP.
type Downloader interface {
	// Download fetches the resource at the given URL.
	// Returns a ReadCloser that the caller must close.
	Download(ctx context.Context, url string) (io.ReadCloser, error)
}

// FeedChecker looks up the newest entry of a creator's public feed.
type FeedChecker interface {
	// Check returns the newest entry, or nil when the feed has no entries.
	Check(ctx context.Context, channelID string) (*domain.FeedEntry, error)
}

// SectionDownloader downloads the leading section of a video into a local file.
type SectionDownloader interface {
	DownloadSection(ctx context.Context, videoURL, outputPath string) error
}

// Trimmer cuts a local media file to a fixed-length output.
type Trimmer interface {
	Trim(ctx context.Context, inputPath, outputPath string) error
}

// TextGenerator sends a prompt to a generative-text service.
type TextGenerator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// MetadataGenerator derives upload metadata from an original video title.
// Implementations never fail; they fall back to deterministic metadata.
type MetadataGenerator interface {
	Generate(ctx context.Context, originalTitle string) domain.Metadata
}

// Uploader publishes a clip to the video-hosting platform.
type Uploader interface {
	// Upload returns the id of the published video.
	Upload(ctx context.Context, clip domain.ClipArtifact, meta domain.Metadata) (string, error)
}

// Storage defines the contract for per-job scratch space.
type Storage interface {
	// InitJob creates the job directory structure.
	InitJob(ctx context.Context, jobID string) error

	// SourcePath returns where the downloaded section is written.
	SourcePath(jobID string) string

	// ClipPath returns where the trimmed clip is written.
	ClipPath(jobID string) string

	// Cleanup removes the job's intermediate files. Calling it for a job
	// whose files are already gone is not an error.
	Cleanup(ctx context.Context, jobID string) error

	// GetJobPath returns the filesystem path for a given job ID.
	GetJobPath(jobID string) string
}
