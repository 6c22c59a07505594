package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	calendar "google.golang.org/api/calendar/v3"
)

// Scopes requested for both credential kinds.
var Scopes = []string{calendar.CalendarScope}

const serviceAccountType = "service_account"

// ErrNoToken is returned when an OAuth client credential has no stored user token.
var ErrNoToken = errors.New("no Google OAuth token found, run 'tilda auth' first")

// ClientOptions configures the authenticated HTTP client.
type ClientOptions struct {
	CredentialsFile string
	TokenFile       string
	// Timeout bounds every request. Zero means no timeout.
	Timeout time.Duration
}

// LoadOAuthConfig reads an installed-application OAuth client file.
func LoadOAuthConfig(credentialsFile string) (*oauth2.Config, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	conf, err := google.ConfigFromJSON(data, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OAuth client credentials: %w", err)
	}
	return conf, nil
}

// GetAuthURL returns the URL the user visits to grant calendar access.
func GetAuthURL(conf *oauth2.Config) string {
	return conf.AuthCodeURL("state-token", oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// SaveToken exchanges an authorization code for a token and stores it.
func SaveToken(ctx context.Context, conf *oauth2.Config, store *FileTokenProvider, authCode string) error {
	t, err := conf.Exchange(ctx, authCode)
	if err != nil {
		return fmt.Errorf("failed to exchange auth code: %w", err)
	}
	return store.Save(t)
}

// NewHTTPClient returns an HTTP client authorized for the Calendar API.
// The client is configured to use HTTP/1.1 to avoid HTTP/2 protocol errors.
func NewHTTPClient(ctx context.Context, opts ClientOptions) (*http.Client, error) {
	data, err := os.ReadFile(opts.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	base := &http.Client{
		Transport: &http.Transport{
			Proxy:             http.ProxyFromEnvironment,
			ForceAttemptHTTP2: false,
		},
		Timeout: opts.Timeout,
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)

	var ts oauth2.TokenSource
	if isServiceAccount(data) {
		jwtConf, err := google.JWTConfigFromJSON(data, Scopes...)
		if err != nil {
			return nil, fmt.Errorf("failed to parse service account credentials: %w", err)
		}
		ts = jwtConf.TokenSource(ctx)
	} else {
		conf, err := google.ConfigFromJSON(data, Scopes...)
		if err != nil {
			return nil, fmt.Errorf("failed to parse OAuth client credentials: %w", err)
		}
		tok, err := NewFileTokenProvider(opts.TokenFile).Token(ctx)
		if err != nil {
			return nil, err
		}
		ts = conf.TokenSource(ctx, tok)
	}

	client := oauth2.NewClient(ctx, ts)
	client.Timeout = opts.Timeout
	return client, nil
}

func isServiceAccount(data []byte) bool {
	var f struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &f); err != nil {
		return false
	}
	return f.Type == serviceAccountType
}
