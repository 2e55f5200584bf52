package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"creatorshorts/internal/core/domain"
	"creatorshorts/internal/core/ports"
)

// Orchestrator coordinates the per-creator pipeline.
type Orchestrator struct {
	feeds       ports.FeedChecker
	downloader  ports.SectionDownloader
	trimmer     ports.Trimmer
	metadata    ports.MetadataGenerator
	uploader    ports.Uploader // nil in dry-run mode
	storage     ports.Storage
	clipLength  time.Duration
	feedTimeout time.Duration
	upTimeout   time.Duration
	logger      *log.Logger
	newJobID    func() string
}

// Options holds the orchestrator's non-port settings.
type Options struct {
	ClipLength    time.Duration
	FeedTimeout   time.Duration
	UploadTimeout time.Duration
}

// NewOrchestrator creates a new Orchestrator. A nil uploader skips the upload stage.
func NewOrchestrator(
	feeds ports.FeedChecker,
	downloader ports.SectionDownloader,
	trimmer ports.Trimmer,
	metadata ports.MetadataGenerator,
	uploader ports.Uploader,
	storage ports.Storage,
	opts Options,
	logger *log.Logger,
) *Orchestrator {
	return &Orchestrator{
		feeds:       feeds,
		downloader:  downloader,
		trimmer:     trimmer,
		metadata:    metadata,
		uploader:    uploader,
		storage:     storage,
		clipLength:  opts.ClipLength,
		feedTimeout: opts.FeedTimeout,
		upTimeout:   opts.UploadTimeout,
		logger:      logger,
		newJobID:    func() string { return uuid.New().String() },
	}
}

// Run processes creators one after another in list order. A failure for one
// creator never stops the others; a cancelled context stops the loop before
// the next creator starts.
func (o *Orchestrator) Run(ctx context.Context, creators []domain.CreatorConfig, status domain.StatusMap) *domain.RunSummary {
	summary := &domain.RunSummary{StartedAt: time.Now().UTC()}

	for _, creator := range creators {
		if ctx.Err() != nil {
			o.logger.Printf("Run cancelled, %d creator(s) not processed", len(creators)-len(summary.Results))
			break
		}
		res := o.ProcessCreator(ctx, creator, status)
		o.logResult(res)
		summary.Results = append(summary.Results, res)
	}

	summary.CompletedAt = time.Now().UTC()
	return summary
}

// ProcessCreator runs the pipeline for a single creator:
// status → feed → download → transcode → metadata → upload → cleanup.
func (o *Orchestrator) ProcessCreator(ctx context.Context, creator domain.CreatorConfig, status domain.StatusMap) (res domain.CreatorResult) {
	res = domain.CreatorResult{Creator: creator, StartedAt: time.Now().UTC()}
	defer func() { res.CompletedAt = time.Now().UTC() }()

	if !status.IsActive(creator.Name) {
		return skipped(res, domain.StageStatus, fmt.Sprintf("status is %q", status[creator.Name]))
	}

	// Step 1: Newest feed entry
	o.logf(creator, "Checking feed for channel %s...", creator.ChannelID)
	entry, err := o.checkFeed(ctx, creator.ChannelID)
	if err != nil {
		return failed(res, domain.StageFeed, err)
	}
	if entry == nil {
		return skipped(res, domain.StageFeed, "feed has no entries")
	}
	res.Entry = entry
	o.logf(creator, "Newest video: %q (%s)", entry.Title, entry.URL)

	// Step 2: Scoped workspace, removed whatever happens next
	jobID := o.newJobID()
	res.JobID = jobID
	if err := o.storage.InitJob(ctx, jobID); err != nil {
		return failed(res, domain.StageDownload, err)
	}
	defer func() {
		o.logf(creator, "Cleaning up %s", o.storage.GetJobPath(jobID))
		if err := o.storage.Cleanup(context.WithoutCancel(ctx), jobID); err != nil {
			o.logf(creator, "WARN: cleanup failed: %v", err)
			if res.Outcome == domain.OutcomeDone {
				res = failed(res, domain.StageCleanup, err)
			}
		}
	}()

	clip := domain.ClipArtifact{
		JobID:      jobID,
		SourcePath: o.storage.SourcePath(jobID),
		ClipPath:   o.storage.ClipPath(jobID),
		Duration:   o.clipLength,
	}

	// Step 3: Download the leading section
	o.logf(creator, "Downloading first %s...", o.clipLength)
	if err := o.downloader.DownloadSection(ctx, entry.URL, clip.SourcePath); err != nil {
		return failed(res, domain.StageDownload, err)
	}

	// Step 4: Trim
	o.logf(creator, "Trimming clip...")
	if err := o.trimmer.Trim(ctx, clip.SourcePath, clip.ClipPath); err != nil {
		return failed(res, domain.StageTranscode, err)
	}

	// Step 5: Metadata (never fails)
	meta := o.metadata.Generate(ctx, entry.Title)
	res.Metadata = &meta
	if meta.Fallback {
		o.logf(creator, "Metadata generation failed, using original title")
	}
	o.logf(creator, "Title: %q", meta.Title)

	// Step 6: Upload
	if o.uploader == nil {
		res.Outcome = domain.OutcomeDone
		res.Stage = domain.StageUpload
		res.Reason = "dry run, upload skipped"
		return res
	}
	o.logf(creator, "Uploading %s...", clip.ClipPath)
	videoID, err := o.upload(ctx, clip, meta)
	if err != nil {
		return failed(res, domain.StageUpload, err)
	}

	res.VideoID = videoID
	res.Outcome = domain.OutcomeDone
	res.Stage = domain.StageUpload
	res.Reason = "uploaded as " + videoID
	return res
}

func (o *Orchestrator) checkFeed(ctx context.Context, channelID string) (*domain.FeedEntry, error) {
	if o.feedTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.feedTimeout)
		defer cancel()
	}
	return o.feeds.Check(ctx, channelID)
}

func (o *Orchestrator) upload(ctx context.Context, clip domain.ClipArtifact, meta domain.Metadata) (string, error) {
	if o.upTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.upTimeout)
		defer cancel()
	}
	return o.uploader.Upload(ctx, clip, meta)
}

func (o *Orchestrator) logf(creator domain.CreatorConfig, format string, args ...any) {
	o.logger.Printf("[CREATOR %s] "+format, append([]any{creator.Name}, args...)...)
}

func (o *Orchestrator) logResult(res domain.CreatorResult) {
	switch res.Outcome {
	case domain.OutcomeFailed:
		o.logf(res.Creator, "%s ERROR at %s: %s", res.Outcome.Glyph(), res.Stage, res.Reason)
	default:
		o.logf(res.Creator, "%s %s: %s", res.Outcome.Glyph(), res.Outcome, res.Reason)
	}
}

func skipped(res domain.CreatorResult, stage domain.Stage, reason string) domain.CreatorResult {
	res.Outcome = domain.OutcomeSkipped
	res.Stage = stage
	res.Reason = reason
	return res
}

func failed(res domain.CreatorResult, stage domain.Stage, err error) domain.CreatorResult {
	res.Outcome = domain.OutcomeFailed
	res.Stage = stage
	res.Reason = err.Error()
	res.Err = err
	return res
}
