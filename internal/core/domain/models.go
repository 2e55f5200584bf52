package domain

import (
	"fmt"
	"time"
)

// StatusActive is the only status value that enables processing.
const StatusActive = "active"

// CreatorConfig is one entry of the channel list.
type CreatorConfig struct {
	Name      string `json:"name"`
	ChannelID string `json:"channel_id"`
}

// ChannelList is the top-level shape of the config document.
type ChannelList struct {
	Channels []CreatorConfig `json:"channels"`
}

// StatusMap maps a creator name to its status string.
type StatusMap map[string]string

// IsActive reports whether the creator is enabled for this run.
func (s StatusMap) IsActive(name string) bool {
	return s[name] == StatusActive
}

// FeedEntry is the newest item of a creator's feed.
type FeedEntry struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// ClipArtifact points at the files of a single pipeline pass.
// All paths live inside the job directory owned by JobID.
type ClipArtifact struct {
	JobID      string
	SourcePath string
	ClipPath   string
	Duration   time.Duration
}

// Metadata is the generated title/description pair for an upload.
type Metadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Fallback    bool   `json:"fallback"` // true when the generator fell back to the original title
}

// Outcome is the terminal state of a creator's pipeline pass.
type Outcome int

const (
	OutcomeDone Outcome = iota
	OutcomeSkipped
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDone:
		return "done"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Glyph is the status marker printed next to a creator's result line.
func (o Outcome) Glyph() string {
	switch o {
	case OutcomeDone:
		return "✔"
	case OutcomeSkipped:
		return "↷"
	default:
		return "✘"
	}
}

// Stage names the pipeline step a creator reached.
type Stage string

const (
	StageStatus    Stage = "status"
	StageFeed      Stage = "feed"
	StageDownload  Stage = "download"
	StageTranscode Stage = "transcode"
	StageMetadata  Stage = "metadata"
	StageUpload    Stage = "upload"
	StageCleanup   Stage = "cleanup"
)

// CreatorResult holds the outcome of one creator's pipeline pass.
type CreatorResult struct {
	Creator     CreatorConfig
	JobID       string
	Outcome     Outcome
	Stage       Stage
	Reason      string
	Err         error
	Entry       *FeedEntry
	Metadata    *Metadata
	VideoID     string
	StartedAt   time.Time
	CompletedAt time.Time
}

// RunSummary collects the per-creator results of a run, in list order.
type RunSummary struct {
	Results     []CreatorResult
	StartedAt   time.Time
	CompletedAt time.Time
}

func (s *RunSummary) count(o Outcome) int {
	n := 0
	for _, r := range s.Results {
		if r.Outcome == o {
			n++
		}
	}
	return n
}

func (s *RunSummary) Done() int    { return s.count(OutcomeDone) }
func (s *RunSummary) Skipped() int { return s.count(OutcomeSkipped) }
func (s *RunSummary) Failed() int  { return s.count(OutcomeFailed) }

// FatalConfigError aborts the whole run before any creator is processed.
type FatalConfigError struct {
	Reason string
	Err    error
}

func (e *FatalConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fatal configuration error: %s: %v", e.Reason, e.Err)
	}
	return "fatal configuration error: " + e.Reason
}

func (e *FatalConfigError) Unwrap() error { return e.Err }
