// Package config loads the creator list, the status map and the runtime
// settings. Everything is read once at startup into a Config value that is
// passed explicitly to the pipeline.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/anatolykoptev/go-kit/env"

	"creatorshorts/internal/core/domain"
)

// Config is the complete, validated input of a run.
type Config struct {
	Channels []domain.CreatorConfig
	Status   domain.StatusMap
	Settings Settings
	WorkDir  string
	DryRun   bool
}

// Settings holds environment-driven runtime settings.
type Settings struct {
	LLMAPIKey  string
	LLMAPIBase string
	LLMModel   string

	// YouTubeCredentials is a serialized authorized-user OAuth credential.
	YouTubeCredentials string

	YtDlpPath       string
	FFmpegPath      string
	FeedURLTemplate string

	ClipSeconds int
	ClipOffset  string

	FeedTimeout      time.Duration
	DownloadTimeout  time.Duration
	TranscodeTimeout time.Duration
	LLMTimeout       time.Duration
	UploadTimeout    time.Duration
}

// LoadSettings reads settings from the environment. Call godotenv.Load first
// if a .env file should be honored.
func LoadSettings() Settings {
	return Settings{
		LLMAPIKey:          env.Str("LLM_API_KEY", ""),
		LLMAPIBase:         env.Str("LLM_API_BASE", ""),
		LLMModel:           env.Str("LLM_MODEL", ""),
		YouTubeCredentials: env.Str("YOUTUBE_CREDENTIALS", ""),
		YtDlpPath:          env.Str("YTDLP_PATH", ""),
		FFmpegPath:         env.Str("FFMPEG_PATH", "ffmpeg"),
		FeedURLTemplate:    env.Str("FEED_URL_TEMPLATE", ""),
		ClipSeconds:        env.Int("CLIP_SECONDS", 30),
		ClipOffset:         env.Str("CLIP_OFFSET", "00:00:00"),
		FeedTimeout:        env.Duration("FEED_TIMEOUT", 30*time.Second),
		DownloadTimeout:    env.Duration("DOWNLOAD_TIMEOUT", 10*time.Minute),
		TranscodeTimeout:   env.Duration("TRANSCODE_TIMEOUT", 5*time.Minute),
		LLMTimeout:         env.Duration("LLM_TIMEOUT", 60*time.Second),
		UploadTimeout:      env.Duration("UPLOAD_TIMEOUT", 15*time.Minute),
	}
}

// Validate checks settings that make the run impossible. The upload
// credential is only required when uploads are enabled.
func (s Settings) Validate(dryRun bool) error {
	if !dryRun && strings.TrimSpace(s.YouTubeCredentials) == "" {
		return &domain.FatalConfigError{Reason: "YOUTUBE_CREDENTIALS environment variable not set"}
	}
	if s.ClipSeconds <= 0 {
		return &domain.FatalConfigError{Reason: fmt.Sprintf("CLIP_SECONDS must be positive, got %d", s.ClipSeconds)}
	}
	if s.FeedURLTemplate != "" && strings.Count(s.FeedURLTemplate, "%s") != 1 {
		return &domain.FatalConfigError{Reason: "FEED_URL_TEMPLATE must contain exactly one %s"}
	}
	return nil
}

// LoadChannels reads and validates the channel list document.
func LoadChannels(path string) ([]domain.CreatorConfig, error) {
	data, err := readDocument(path, "channel list")
	if err != nil {
		return nil, err
	}

	var list domain.ChannelList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, &domain.FatalConfigError{Reason: "malformed channel list " + path, Err: err}
	}
	if list.Channels == nil {
		return nil, &domain.FatalConfigError{Reason: "channel list " + path + " has no \"channels\" array"}
	}

	seen := make(map[string]bool, len(list.Channels))
	for i, c := range list.Channels {
		if strings.TrimSpace(c.Name) == "" {
			return nil, &domain.FatalConfigError{Reason: fmt.Sprintf("channel %d has no name", i)}
		}
		if strings.TrimSpace(c.ChannelID) == "" {
			return nil, &domain.FatalConfigError{Reason: fmt.Sprintf("channel %q has no channel_id", c.Name)}
		}
		if seen[c.Name] {
			return nil, &domain.FatalConfigError{Reason: fmt.Sprintf("channel %q is listed twice", c.Name)}
		}
		seen[c.Name] = true
	}
	return list.Channels, nil
}

// LoadStatus reads the status map document.
func LoadStatus(path string) (domain.StatusMap, error) {
	data, err := readDocument(path, "status map")
	if err != nil {
		return nil, err
	}

	var status domain.StatusMap
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, &domain.FatalConfigError{Reason: "malformed status map " + path, Err: err}
	}
	if status == nil {
		status = domain.StatusMap{}
	}
	return status, nil
}

// Validate requires a status entry for every listed creator. Entries for
// creators not in the list are ignored.
func Validate(channels []domain.CreatorConfig, status domain.StatusMap) error {
	var missing []string
	for _, c := range channels {
		if _, ok := status[c.Name]; !ok {
			missing = append(missing, c.Name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &domain.FatalConfigError{
			Reason: "status map has no entry for: " + strings.Join(missing, ", "),
		}
	}
	return nil
}

// Load reads both documents and the environment and validates the result.
func Load(channelsPath, statusPath, workDir string, dryRun bool) (*Config, error) {
	channels, err := LoadChannels(channelsPath)
	if err != nil {
		return nil, err
	}
	status, err := LoadStatus(statusPath)
	if err != nil {
		return nil, err
	}
	if err := Validate(channels, status); err != nil {
		return nil, err
	}

	settings := LoadSettings()
	if err := settings.Validate(dryRun); err != nil {
		return nil, err
	}

	return &Config{
		Channels: channels,
		Status:   status,
		Settings: settings,
		WorkDir:  workDir,
		DryRun:   dryRun,
	}, nil
}

func readDocument(path, what string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &domain.FatalConfigError{Reason: fmt.Sprintf("%s %s not found", what, path), Err: err}
	}
	if err != nil {
		return nil, &domain.FatalConfigError{Reason: fmt.Sprintf("failed to read %s %s", what, path), Err: err}
	}
	return data, nil
}
