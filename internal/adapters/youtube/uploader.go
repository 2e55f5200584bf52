package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"

	"creatorshorts/internal/core/domain"
)

const (
	// CategoryPeopleBlogs is YouTube category 22.
	CategoryPeopleBlogs = "22"
	PrivacyPublic       = "public"
)

// Media that fits in one chunk goes out as a single multipart request.
const defaultChunkSize = googleapi.MinUploadChunkSize

// DefaultTags are attached to every upload.
var DefaultTags = []string{"shorts", "highlights"}

// Uploader implements ports.Uploader with the YouTube Data API v3.
type Uploader struct {
	credential *Credential
	httpClient *http.Client
	endpoint   string
	chunkSize  int

	mu     sync.Mutex
	tokens oauth2.TokenSource
}

// Option customizes an Uploader.
type Option func(*Uploader)

// WithHTTPClient sets the base client used for token refresh and API calls.
func WithHTTPClient(c *http.Client) Option {
	return func(u *Uploader) { u.httpClient = c }
}

// WithEndpoint overrides the API base URL.
func WithEndpoint(endpoint string) Option {
	return func(u *Uploader) { u.endpoint = endpoint }
}

// WithChunkSize sets the resumable upload chunk size in bytes. The client
// library rounds it up to a multiple of googleapi.MinUploadChunkSize.
func WithChunkSize(n int) Option {
	return func(u *Uploader) { u.chunkSize = n }
}

// NewUploader parses the serialized credential. An empty or malformed
// credential is a configuration error for the whole run.
func NewUploader(credentialJSON string, opts ...Option) (*Uploader, error) {
	cred, err := ParseCredential(credentialJSON)
	if err != nil {
		return nil, err
	}
	u := &Uploader{
		credential: cred,
		httpClient: http.DefaultClient,
		chunkSize:  defaultChunkSize,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u, nil
}

// tokenSource returns the process-wide token source, refreshing the access
// token when it has expired and a refresh token is available.
func (u *Uploader) tokenSource() (oauth2.TokenSource, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.tokens == nil {
		if u.credential.Expired() && u.credential.RefreshToken == "" {
			return nil, errors.New("failed to refresh credential: access token expired and no refresh token is set")
		}
		base := context.WithValue(context.Background(), oauth2.HTTPClient, u.httpClient)
		u.tokens = u.credential.OAuthConfig().TokenSource(base, u.credential.OAuthToken())
	}
	if _, err := u.tokens.Token(); err != nil {
		return nil, fmt.Errorf("failed to refresh credential: %w", err)
	}
	return u.tokens, nil
}

func (u *Uploader) service(ctx context.Context) (*ytapi.Service, error) {
	ts, err := u.tokenSource()
	if err != nil {
		return nil, err
	}

	base := context.WithValue(ctx, oauth2.HTTPClient, u.httpClient)
	opts := []option.ClientOption{option.WithHTTPClient(oauth2.NewClient(base, ts))}
	if u.endpoint != "" {
		opts = append(opts, option.WithEndpoint(u.endpoint))
	}
	svc, err := ytapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube client: %w", err)
	}
	return svc, nil
}

// Video builds the insert body for meta.
func Video(meta domain.Metadata) *ytapi.Video {
	return &ytapi.Video{
		Snippet: &ytapi.VideoSnippet{
			Title:       meta.Title,
			Description: meta.Description,
			CategoryId:  CategoryPeopleBlogs,
			Tags:        DefaultTags,
		},
		Status: &ytapi.VideoStatus{
			PrivacyStatus:           PrivacyPublic,
			SelfDeclaredMadeForKids: false,
			// false would otherwise be dropped as the zero value
			ForceSendFields: []string{"SelfDeclaredMadeForKids"},
		},
	}
}

// Upload sends the clip with a resumable upload and returns the new video id.
func (u *Uploader) Upload(ctx context.Context, clip domain.ClipArtifact, meta domain.Metadata) (string, error) {
	svc, err := u.service(ctx)
	if err != nil {
		return "", err
	}

	file, err := os.Open(clip.ClipPath)
	if err != nil {
		return "", fmt.Errorf("failed to open clip: %w", err)
	}
	defer file.Close()

	resp, err := svc.Videos.Insert([]string{"snippet", "status"}, Video(meta)).
		Media(file, googleapi.ChunkSize(u.chunkSize)).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}
	return resp.Id, nil
}
