package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creatorshorts/internal/core/domain"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func requireFatal(t *testing.T, err error) *domain.FatalConfigError {
	t.Helper()
	require.Error(t, err)
	var fatal *domain.FatalConfigError
	require.True(t, errors.As(err, &fatal), "expected FatalConfigError, got %T: %v", err, err)
	return fatal
}

func TestLoadChannels(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.json", `{"channels":[{"name":"Alice","channel_id":"UC1"},{"name":"Bob","channel_id":"UC2"}]}`)

	channels, err := LoadChannels(path)
	require.NoError(t, err)
	assert.Equal(t, []domain.CreatorConfig{
		{Name: "Alice", ChannelID: "UC1"},
		{Name: "Bob", ChannelID: "UC2"},
	}, channels)
}

func TestLoadChannelsErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"channels":[`},
		{"empty document", `{}`},
		{"misspelled key", `{"channel":[{"name":"Alice","channel_id":"UC1"}]}`},
		{"null channels", `{"channels":null}`},
		{"missing name", `{"channels":[{"channel_id":"UC1"}]}`},
		{"missing channel id", `{"channels":[{"name":"Alice"}]}`},
		{"duplicate", `{"channels":[{"name":"Alice","channel_id":"UC1"},{"name":"Alice","channel_id":"UC2"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "config.json", tt.body)
			_, err := LoadChannels(path)
			requireFatal(t, err)
		})
	}
}

func TestLoadChannelsMissingFile(t *testing.T) {
	_, err := LoadChannels(filepath.Join(t.TempDir(), "config.json"))
	fatal := requireFatal(t, err)
	assert.Contains(t, fatal.Error(), "not found")
}

func TestLoadStatus(t *testing.T) {
	path := writeFile(t, t.TempDir(), "creator_status.json", `{"Alice":"active","Bob":"paused"}`)

	status, err := LoadStatus(path)
	require.NoError(t, err)
	assert.True(t, status.IsActive("Alice"))
	assert.False(t, status.IsActive("Bob"))
	assert.False(t, status.IsActive("Carol"))
}

func TestLoadStatusErrors(t *testing.T) {
	_, err := LoadStatus(filepath.Join(t.TempDir(), "missing.json"))
	requireFatal(t, err)

	path := writeFile(t, t.TempDir(), "creator_status.json", `["Alice"]`)
	_, err = LoadStatus(path)
	requireFatal(t, err)
}

func TestValidateMissingStatusEntry(t *testing.T) {
	channels := []domain.CreatorConfig{{Name: "Bob", ChannelID: "UC2"}, {Name: "Alice", ChannelID: "UC1"}}

	err := Validate(channels, domain.StatusMap{"Zed": "active"})
	fatal := requireFatal(t, err)
	assert.Contains(t, fatal.Reason, "Alice, Bob")

	assert.NoError(t, Validate(channels, domain.StatusMap{"Alice": "active", "Bob": "inactive", "Zed": "active"}))
}

func TestSettingsValidate(t *testing.T) {
	s := Settings{ClipSeconds: 30}
	requireFatal(t, s.Validate(false))
	assert.NoError(t, s.Validate(true))

	s.YouTubeCredentials = `{"token":"a"}`
	assert.NoError(t, s.Validate(false))

	s.ClipSeconds = 0
	requireFatal(t, s.Validate(false))

	s.ClipSeconds = 30
	s.FeedURLTemplate = "https://example.test/feed"
	requireFatal(t, s.Validate(false))
}

func TestLoadSettingsFromEnv(t *testing.T) {
	t.Setenv("LLM_MODEL", "gemini-test")
	t.Setenv("CLIP_SECONDS", "15")
	t.Setenv("UPLOAD_TIMEOUT", "2m")

	s := LoadSettings()
	assert.Equal(t, "gemini-test", s.LLMModel)
	assert.Equal(t, 15, s.ClipSeconds)
	assert.Equal(t, 2*time.Minute, s.UploadTimeout)
	assert.Equal(t, 30*time.Second, s.FeedTimeout)
	assert.Equal(t, "00:00:00", s.ClipOffset)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.json", `{"channels":[{"name":"Alice","channel_id":"UC1"}]}`)
	statusPath := writeFile(t, dir, "creator_status.json", `{"Alice":"active"}`)
	t.Setenv("YOUTUBE_CREDENTIALS", "")

	_, err := Load(cfgPath, statusPath, dir, false)
	requireFatal(t, err)

	cfg, err := Load(cfgPath, statusPath, dir, true)
	require.NoError(t, err)
	assert.True(t, cfg.DryRun)
	assert.Len(t, cfg.Channels, 1)
	assert.Equal(t, dir, cfg.WorkDir)
}
