package youtubefeed

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed"

	"creatorshorts/internal/core/domain"
	"creatorshorts/internal/core/ports"
)

// DefaultURLTemplate is YouTube's public per-channel Atom feed.
const DefaultURLTemplate = "https://www.youtube.com/feeds/videos.xml?channel_id=%s"

// Checker implements ports.FeedChecker over a channel's syndicated feed.
type Checker struct {
	downloader  ports.Downloader
	urlTemplate string
}

// NewChecker creates a new Checker. urlTemplate must contain one %s for the channel id.
func NewChecker(downloader ports.Downloader, urlTemplate string) *Checker {
	if urlTemplate == "" {
		urlTemplate = DefaultURLTemplate
	}
	return &Checker{downloader: downloader, urlTemplate: urlTemplate}
}

// FeedURL returns the feed URL for channelID.
func (c *Checker) FeedURL(channelID string) string {
	return fmt.Sprintf(c.urlTemplate, url.QueryEscape(channelID))
}

// Check fetches the feed and returns its first (newest) entry.
// An empty feed yields (nil, nil).
func (c *Checker) Check(ctx context.Context, channelID string) (*domain.FeedEntry, error) {
	body, err := c.downloader.Download(ctx, c.FeedURL(channelID))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer body.Close()

	feed, err := gofeed.NewParser().Parse(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}
	if len(feed.Items) == 0 {
		return nil, nil
	}

	item := feed.Items[0]
	link := strings.TrimSpace(item.Link)
	if link == "" && len(item.Links) > 0 {
		link = strings.TrimSpace(item.Links[0])
	}
	if link == "" {
		return nil, fmt.Errorf("newest feed entry has no link")
	}

	return &domain.FeedEntry{
		URL:   link,
		Title: strings.TrimSpace(item.Title),
	}, nil
}
