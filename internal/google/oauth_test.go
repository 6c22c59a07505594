package google

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

const installedCredentials = `{
  "installed": {
    "client_id": "test-client.apps.googleusercontent.com",
    "client_secret": "test-secret",
    "auth_uri": "https://accounts.google.com/o/oauth2/auth",
    "token_uri": "https://oauth2.googleapis.com/token",
    "redirect_uris": ["http://localhost"]
  }
}`

const serviceAccountCredentials = `{
  "type": "service_account",
  "project_id": "tilda-test",
  "private_key_id": "key-id",
  "private_key": "not-a-real-key",
  "client_email": "tilda@tilda-test.iam.gserviceaccount.com",
  "client_id": "1234",
  "token_uri": "https://oauth2.googleapis.com/token"
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadOAuthConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "credential.json", installedCredentials)

	conf, err := LoadOAuthConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "test-client.apps.googleusercontent.com", conf.ClientID)
	assert.Equal(t, Scopes, conf.Scopes)

	url := GetAuthURL(conf)
	assert.True(t, strings.HasPrefix(url, "https://accounts.google.com/o/oauth2/auth"))
	assert.Contains(t, url, "access_type=offline")
	assert.Contains(t, url, "calendar")
}

func TestLoadOAuthConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadOAuthConfig(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	_, err = LoadOAuthConfig(writeFile(t, dir, "bad.json", "{not json"))
	assert.Error(t, err)
}

func TestFileTokenProvider_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	p := NewFileTokenProvider(path)

	assert.False(t, p.HasToken())
	_, err := p.Token(context.Background())
	assert.ErrorIs(t, err, ErrNoToken)

	want := &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, p.Save(want))
	assert.True(t, p.HasToken())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := p.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want.AccessToken, got.AccessToken)
	assert.Equal(t, want.RefreshToken, got.RefreshToken)
	assert.True(t, want.Expiry.Equal(got.Expiry))
}

func TestFileTokenProvider_InvalidFile(t *testing.T) {
	dir := t.TempDir()

	p := NewFileTokenProvider(writeFile(t, dir, "garbage.json", "access refresh"))
	_, err := p.Token(context.Background())
	assert.Error(t, err)

	p = NewFileTokenProvider(writeFile(t, dir, "empty.json", "{}"))
	_, err = p.Token(context.Background())
	assert.Error(t, err)
}

func TestNewHTTPClient_InstalledApp(t *testing.T) {
	dir := t.TempDir()
	creds := writeFile(t, dir, "credential.json", installedCredentials)
	tokenPath := filepath.Join(dir, "token.json")

	opts := ClientOptions{CredentialsFile: creds, TokenFile: tokenPath, Timeout: 5 * time.Second}

	_, err := NewHTTPClient(context.Background(), opts)
	assert.ErrorIs(t, err, ErrNoToken)

	require.NoError(t, NewFileTokenProvider(tokenPath).Save(&oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		Expiry:       time.Now().Add(time.Hour),
	}))

	client, err := NewHTTPClient(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, client.Timeout)
}

func TestNewHTTPClient_ServiceAccount(t *testing.T) {
	dir := t.TempDir()
	creds := writeFile(t, dir, "sa.json", serviceAccountCredentials)

	// No token file is needed for a service account.
	client, err := NewHTTPClient(context.Background(), ClientOptions{
		CredentialsFile: creds,
		TokenFile:       filepath.Join(dir, "absent.json"),
	})
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestNewHTTPClient_MissingCredentials(t *testing.T) {
	_, err := NewHTTPClient(context.Background(), ClientOptions{
		CredentialsFile: filepath.Join(t.TempDir(), "missing.json"),
	})
	assert.Error(t, err)
}

func TestIsServiceAccount(t *testing.T) {
	assert.True(t, isServiceAccount([]byte(serviceAccountCredentials)))
	assert.False(t, isServiceAccount([]byte(installedCredentials)))
	assert.False(t, isServiceAccount([]byte("not json")))
}
