package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
)

const (
	// credentialsFile is the downloaded Google API client secret, placed in
	// the config dir by the user.
	credentialsFile = "credentials.json"
	// tokenFile caches the obtained OAuth token (access + refresh).
	tokenFile = "token.json"

	authListenPort = "6789"
	appConfigName  = "dayquest"
)

// ConfigDir returns ~/.config/dayquest.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", appConfigName), nil
}

func oauthConfig() (*oauth2.Config, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(filepath.Join(dir, credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("read client secret file: %w", err)
	}
	cfg, err := google.ConfigFromJSON(b, gcal.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("parse client secret file: %w", err)
	}
	cfg.RedirectURL = fmt.Sprintf("http://localhost:%s/oauth2callback", authListenPort)
	return cfg, nil
}

// CachedHTTPClient returns an authenticated client from the cached token, or
// an error when none exists. It never prompts the user.
func CachedHTTPClient(ctx context.Context) (*http.Client, error) {
	cfg, err := oauthConfig()
	if err != nil {
		return nil, err
	}
	tok, err := loadToken()
	if err != nil {
		return nil, err
	}
	// config.Client refreshes expired access tokens transparently via the
	// refresh token.
	return cfg.Client(ctx, tok), nil
}

// AuthorizedHTTPClient returns an authenticated client, starting the
// web-based consent flow when no cached token exists.
func AuthorizedHTTPClient(ctx context.Context) (*http.Client, error) {
	cfg, err := oauthConfig()
	if err != nil {
		return nil, err
	}
	tok, err := loadToken()
	if err != nil {
		tok, err = tokenFromWeb(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := saveToken(tok); err != nil {
			return nil, err
		}
	}
	return cfg.Client(ctx, tok), nil
}

// Authenticate forces a fresh consent flow and caches the resulting token.
func Authenticate(ctx context.Context) error {
	cfg, err := oauthConfig()
	if err != nil {
		return err
	}
	tok, err := tokenFromWeb(ctx, cfg)
	if err != nil {
		return err
	}
	return saveToken(tok)
}

// tokenFromWeb runs the authorization-code flow, capturing the redirect with
// a short-lived local listener.
func tokenFromWeb(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error) {
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	listener, err := net.Listen("tcp", ":"+authListenPort)
	if err != nil {
		return nil, fmt.Errorf("listen on port %s: %w", authListenPort, err)
	}
	defer listener.Close()

	server := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			code := r.URL.Query().Get("code")
			if code == "" {
				http.Error(w, "authorization code not found", http.StatusBadRequest)
				errCh <- fmt.Errorf("authorization code not found in redirect")
				return
			}
			fmt.Fprint(w, "Authentication successful! You can close this window.")
			codeCh <- code
		}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("auth callback server: %w", err)
		}
	}()
	defer server.Shutdown(context.Background())

	// AccessTypeOffline is required to get a refresh token.
	authURL := cfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
	fmt.Printf("Open the following URL in your browser to authorize dayquest:\n%s\n", authURL)

	select {
	case code := <-codeCh:
		exchangeCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		tok, err := cfg.Exchange(exchangeCtx, code)
		if err != nil {
			return nil, fmt.Errorf("exchange authorization code: %w", err)
		}
		return tok, nil
	case err := <-errCh:
		return nil, err
	case <-time.After(5 * time.Minute):
		return nil, fmt.Errorf("authorization timed out")
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func loadToken() (*oauth2.Token, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(dir, tokenFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("decode cached token: %w", err)
	}
	return tok, nil
}

func saveToken(tok *oauth2.Token) error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, tokenFile), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("open token file: %w", err)
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(tok); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}
