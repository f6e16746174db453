package spotify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"

	"moodsync/internal/core"
)

var (
	// ErrMissingCredentials is returned when a client ID or secret is empty.
	ErrMissingCredentials = errors.New("missing Spotify client ID or client secret")
	// ErrAuthTimeout is returned when the OAuth redirect does not arrive in time.
	ErrAuthTimeout = errors.New("authentication timed out waiting for callback")
	// ErrStateMismatch is returned when the OAuth state parameter doesn't match.
	ErrStateMismatch = errors.New("OAuth state mismatch")
)

// TokenStore persists OAuth tokens per client ID.
type TokenStore interface {
	Load(clientID string) (*oauth2.Token, error)
	Save(clientID string, token *oauth2.Token) error
	Delete(clientID string) error
}

// Authenticator hands out authenticated API clients for a set of credentials,
// reusing stored tokens and falling back to the authorization-code flow.
type Authenticator struct {
	config  *core.SpotifyConfig
	logger  *zap.Logger
	tokens  TokenStore
	out     io.Writer
	timeout time.Duration
	options []spotify.ClientOption
}

func NewAuthenticator(config *core.SpotifyConfig, tokens TokenStore, logger *zap.Logger) *Authenticator {
	timeout := time.Duration(config.AuthTimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = core.DefaultAuthTimeoutSecs * time.Second
	}

	return &Authenticator{
		config:  config,
		logger:  logger,
		tokens:  tokens,
		out:     os.Stdout,
		timeout: timeout,
	}
}

func (a *Authenticator) newAuth(creds core.SpotifyCredentials) *spotifyauth.Authenticator {
	return spotifyauth.New(
		spotifyauth.WithRedirectURL(a.config.RedirectURL),
		spotifyauth.WithScopes(
			spotifyauth.ScopeUserReadRecentlyPlayed,
			spotifyauth.ScopeUserLibraryRead,
		),
		spotifyauth.WithClientID(creds.ClientID),
		spotifyauth.WithClientSecret(creds.ClientSecret),
	)
}

// Client returns an API client for creds. A stored token is used when a
// CurrentUser call accepts it. A rejected token is deleted and the operator is
// asked to authorize.
func (a *Authenticator) Client(ctx context.Context, creds core.SpotifyCredentials) (*spotify.Client, error) {
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return nil, ErrMissingCredentials
	}

	auth := a.newAuth(creds)

	token, err := a.tokens.Load(creds.ClientID)
	if err != nil {
		a.logger.Warn("Failed to load saved token", zap.Error(err))
	}

	if token != nil {
		client := spotify.New(auth.Client(ctx, token), a.options...)

		user, err := client.CurrentUser(ctx)
		if err == nil {
			a.saveRefreshed(creds.ClientID, client, token)
			a.logger.Info("Authenticated with saved token", zap.String("user", user.DisplayName))
			return client, nil
		}

		a.logger.Warn("Saved token invalid, starting OAuth flow", zap.Error(err))
		if delErr := a.tokens.Delete(creds.ClientID); delErr != nil {
			a.logger.Warn("Failed to delete invalid token", zap.Error(delErr))
		}
	} else {
		a.logger.Info("No saved token found, starting OAuth flow")
	}

	token, err = a.runOAuthFlow(ctx, auth)
	if err != nil {
		return nil, err
	}

	if saveErr := a.tokens.Save(creds.ClientID, token); saveErr != nil {
		a.logger.Warn("Failed to save token", zap.Error(saveErr))
	}

	client := spotify.New(auth.Client(ctx, token), a.options...)

	user, err := client.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: fresh token rejected: %v", core.ErrNotAuthenticated, err)
	}

	a.logger.Info("OAuth flow completed successfully", zap.String("user", user.DisplayName))
	return client, nil
}

func (a *Authenticator) saveRefreshed(clientID string, client *spotify.Client, old *oauth2.Token) {
	current, err := client.Token()
	if err != nil || current.AccessToken == old.AccessToken {
		return
	}
	if err := a.tokens.Save(clientID, current); err != nil {
		a.logger.Warn("Failed to save refreshed token", zap.Error(err))
	}
}

// runOAuthFlow serves the redirect target on its loopback address and waits
// for Spotify to deliver the authorization code.
func (a *Authenticator) runOAuthFlow(ctx context.Context, auth *spotifyauth.Authenticator) (*oauth2.Token, error) {
	redirect, err := url.Parse(a.config.RedirectURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redirect URL %q: %w", a.config.RedirectURL, err)
	}

	callbackPath := redirect.Path
	if callbackPath == "" {
		callbackPath = "/"
	}

	ln, err := net.Listen("tcp", redirect.Host)
	if err != nil {
		return nil, fmt.Errorf("failed to listen for OAuth callback on %s: %w", redirect.Host, err)
	}

	state := uuid.NewString()
	tokenCh := make(chan *oauth2.Token, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, a.callbackHandler(auth, state, tokenCh, errCh))

	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	fmt.Fprintf(a.out, "Please visit the following URL to authorize the application:\n%s\n", auth.AuthURL(state))
	fmt.Fprintln(a.out, "Waiting for authentication...")

	waitCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	g, gctx := errgroup.WithContext(waitCtx)
	var token *oauth2.Token

	g.Go(func() error {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("callback server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			_ = server.Shutdown(shutdownCtx)
		}()

		select {
		case token = <-tokenCh:
			return nil
		case err := <-errCh:
			return err
		case <-gctx.Done():
			if ctx.Err() == nil && errors.Is(waitCtx.Err(), context.DeadlineExceeded) {
				return ErrAuthTimeout
			}
			return gctx.Err()
		}
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return token, nil
}

func (a *Authenticator) callbackHandler(
	auth *spotifyauth.Authenticator, state string, tokenCh chan<- *oauth2.Token, errCh chan<- error,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("state") != state {
			http.Error(w, "State mismatch", http.StatusBadRequest)
			sendErr(errCh, ErrStateMismatch)
			return
		}

		if errMsg := r.URL.Query().Get("error"); errMsg != "" {
			http.Error(w, "Authentication failed: "+errMsg, http.StatusBadRequest)
			sendErr(errCh, fmt.Errorf("spotify auth error: %s", errMsg))
			return
		}

		token, err := auth.Token(r.Context(), state, r)
		if err != nil {
			http.Error(w, "Failed to get token", http.StatusInternalServerError)
			sendErr(errCh, fmt.Errorf("failed to exchange code for token: %w", err))
			return
		}

		fmt.Fprintln(w, "Authentication complete. You can close this window.")
		select {
		case tokenCh <- token:
		default:
		}
	}
}

func sendErr(errCh chan<- error, err error) {
	select {
	case errCh <- err:
	default:
	}
}
