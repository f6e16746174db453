package spotify

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/zmb3/spotify/v2"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"moodsync/internal/core"
)

type memoryTokens struct {
	tokens  map[string]*oauth2.Token
	saves   int
	deletes int
}

func (m *memoryTokens) Load(clientID string) (*oauth2.Token, error) {
	return m.tokens[clientID], nil
}

func (m *memoryTokens) Save(clientID string, token *oauth2.Token) error {
	m.saves++
	m.tokens[clientID] = token
	return nil
}

func (m *memoryTokens) Delete(clientID string) error {
	m.deletes++
	delete(m.tokens, clientID)
	return nil
}

func newTestAuthenticator(tokens *memoryTokens, redirect string) (*Authenticator, *bytes.Buffer) {
	config := core.DefaultConfig().Spotify
	config.RedirectURL = redirect
	a := NewAuthenticator(&config, tokens, zap.NewNop())
	out := &bytes.Buffer{}
	a.out = out
	return a, out
}

func TestAuthenticator_SavedToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "u1", "display_name": "Tester"}`))
	}))
	defer srv.Close()

	tokens := &memoryTokens{tokens: map[string]*oauth2.Token{
		testCreds.ClientID: {
			AccessToken: "saved-access",
			TokenType:   "Bearer",
			Expiry:      time.Now().Add(time.Hour),
		},
	}}
	a, out := newTestAuthenticator(tokens, core.DefaultRedirectURL)
	a.options = []spotify.ClientOption{spotify.WithBaseURL(srv.URL + "/")}

	client, err := a.Client(context.Background(), testCreds)
	if err != nil {
		t.Fatalf("Client() error = %v", err)
	}
	if client == nil {
		t.Fatal("Client() returned nil client")
	}
	if gotAuth != "Bearer saved-access" {
		t.Errorf("Authorization = %q, want saved token", gotAuth)
	}
	if tokens.saves != 0 {
		t.Errorf("unchanged token saved %d times", tokens.saves)
	}
	if out.Len() != 0 {
		t.Errorf("no authorization prompt expected, got %q", out.String())
	}
}

func TestAuthenticator_RejectedTokenDeleted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"status": 401, "message": "The access token expired"}}`))
	}))
	defer srv.Close()

	tokens := &memoryTokens{tokens: map[string]*oauth2.Token{
		testCreds.ClientID: {
			AccessToken: "stale-access",
			TokenType:   "Bearer",
			Expiry:      time.Now().Add(time.Hour),
		},
	}}
	a, _ := newTestAuthenticator(tokens, "http://127.0.0.1:0/callback")
	a.options = []spotify.ClientOption{spotify.WithBaseURL(srv.URL + "/")}
	a.timeout = 50 * time.Millisecond

	if _, err := a.Client(context.Background(), testCreds); !errors.Is(err, ErrAuthTimeout) {
		t.Fatalf("Client() error = %v, want ErrAuthTimeout", err)
	}
	if tokens.deletes != 1 {
		t.Errorf("deletes = %d, want 1", tokens.deletes)
	}
	if _, ok := tokens.tokens[testCreds.ClientID]; ok {
		t.Error("rejected token is still stored")
	}
	if tokens.saves != 0 {
		t.Errorf("saves = %d, want 0", tokens.saves)
	}
}

func TestAuthenticator_MissingCredentials(t *testing.T) {
	a, _ := newTestAuthenticator(&memoryTokens{tokens: map[string]*oauth2.Token{}}, core.DefaultRedirectURL)

	tests := []core.SpotifyCredentials{
		{},
		{ClientID: "id"},
		{ClientSecret: "secret"},
	}
	for _, creds := range tests {
		if _, err := a.Client(context.Background(), creds); !errors.Is(err, ErrMissingCredentials) {
			t.Errorf("Client(%+v) error = %v, want ErrMissingCredentials", creds, err)
		}
	}
}

func TestAuthenticator_FlowTimeout(t *testing.T) {
	a, out := newTestAuthenticator(&memoryTokens{tokens: map[string]*oauth2.Token{}}, "http://127.0.0.1:0/callback")
	a.timeout = 50 * time.Millisecond

	_, err := a.Client(context.Background(), testCreds)
	if !errors.Is(err, ErrAuthTimeout) {
		t.Fatalf("Client() error = %v, want ErrAuthTimeout", err)
	}

	printed := out.String()
	if !strings.Contains(printed, "accounts.spotify.com/authorize") {
		t.Errorf("authorization URL not printed: %q", printed)
	}
	if !strings.Contains(printed, "user-read-recently-played") {
		t.Errorf("authorization URL lacks recently-played scope: %q", printed)
	}
}

func TestAuthenticator_FlowCancelled(t *testing.T) {
	a, _ := newTestAuthenticator(&memoryTokens{tokens: map[string]*oauth2.Token{}}, "http://127.0.0.1:0/callback")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Client(ctx, testCreds)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Client() error = %v, want context.Canceled", err)
	}
}

func TestAuthenticator_CallbackHandler(t *testing.T) {
	a, _ := newTestAuthenticator(&memoryTokens{tokens: map[string]*oauth2.Token{}}, core.DefaultRedirectURL)
	auth := a.newAuth(testCreds)

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantErr    string
	}{
		{"State mismatch", "?state=wrong&code=abc", http.StatusBadRequest, ErrStateMismatch.Error()},
		{"Missing state", "?code=abc", http.StatusBadRequest, ErrStateMismatch.Error()},
		{"Authorization denied", "?state=expected&error=access_denied", http.StatusBadRequest, "access_denied"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenCh := make(chan *oauth2.Token, 1)
			errCh := make(chan error, 1)
			handler := a.callbackHandler(auth, "expected", tokenCh, errCh)

			rec := httptest.NewRecorder()
			handler(rec, httptest.NewRequest(http.MethodGet, "/callback"+tt.query, nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			select {
			case err := <-errCh:
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error = %v, want %q", err, tt.wantErr)
				}
			default:
				t.Error("handler did not report an error")
			}
			if len(tokenCh) != 0 {
				t.Error("handler should not deliver a token")
			}
		})
	}
}
