package youtube

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Credential is a serialized authorized-user OAuth credential, as written by
// Google's client libraries (token, refresh_token, token_uri, client_id, ...).
type Credential struct {
	Token        string   `json:"token"`
	RefreshToken string   `json:"refresh_token"`
	TokenURI     string   `json:"token_uri"`
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	Scopes       []string `json:"scopes"`
	Expiry       string   `json:"expiry"`
}

// ParseCredential decodes a credential blob.
func ParseCredential(blob string) (*Credential, error) {
	blob = strings.TrimSpace(blob)
	if blob == "" {
		return nil, fmt.Errorf("credential is empty")
	}
	var c Credential
	if err := json.Unmarshal([]byte(blob), &c); err != nil {
		return nil, fmt.Errorf("failed to decode credential: %w", err)
	}
	if c.Token == "" && c.RefreshToken == "" {
		return nil, fmt.Errorf("credential has neither an access token nor a refresh token")
	}
	if _, err := c.expiry(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Credential) expiry() (time.Time, error) {
	if c.Expiry == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, c.Expiry)
	if err != nil {
		// Python's isoformat() omits the zone when the time is naive UTC.
		t, err = time.Parse("2006-01-02T15:04:05.999999999", c.Expiry)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid credential expiry %q: %w", c.Expiry, err)
		}
	}
	return t.UTC(), nil
}

// OAuthConfig returns the client config used to refresh the token.
func (c *Credential) OAuthConfig() *oauth2.Config {
	endpoint := google.Endpoint
	if c.TokenURI != "" {
		endpoint.TokenURL = c.TokenURI
	}
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint:     endpoint,
		Scopes:       c.Scopes,
	}
}

// OAuthToken returns the token in oauth2 form. A zero Expiry means the access
// token never reports itself expired.
func (c *Credential) OAuthToken() *oauth2.Token {
	exp, _ := c.expiry()
	return &oauth2.Token{
		AccessToken:  c.Token,
		RefreshToken: c.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       exp,
	}
}

// Expired reports whether the access token is missing or past its expiry.
func (c *Credential) Expired() bool {
	return !c.OAuthToken().Valid()
}
