// Package store caches OAuth tokens on disk, one file per client ID, behind an
// LRU cache and a Bloom filter of known client IDs.
package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	lru "github.com/hashicorp/golang-lru/v2"
	homedir "github.com/mitchellh/go-homedir"
	"golang.org/x/oauth2"
)

const (
	tokenFileExt = ".json"

	// DefaultCacheSize is the number of tokens kept in memory.
	DefaultCacheSize = 128
	// DefaultFalsePositiveRate is the Bloom filter target for unknown client IDs.
	DefaultFalsePositiveRate = 0.001
	// expectedClients sizes the Bloom filter.
	expectedClients = 1024
)

// TokenStore provides thread-safe token persistence keyed by client ID.
type TokenStore struct {
	dir   string
	known map[string]struct{}
	bloom *bloom.BloomFilter
	lru   *lru.Cache[string, *oauth2.Token]
	mutex sync.RWMutex
}

// NewTokenStore opens the token directory, expanding a leading "~", and
// indexes the token files already present.
func NewTokenStore(dir string, cacheSize int) (*TokenStore, error) {
	expanded, err := homedir.Expand(dir)
	if err != nil {
		return nil, fmt.Errorf("expanding token dir: %w", err)
	}

	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	lruCache, err := lru.New[string, *oauth2.Token](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating token cache: %w", err)
	}

	ts := &TokenStore{
		dir:   expanded,
		known: make(map[string]struct{}),
		bloom: bloom.NewWithEstimates(expectedClients, DefaultFalsePositiveRate),
		lru:   lruCache,
	}

	if err := ts.index(); err != nil {
		return nil, err
	}

	return ts, nil
}

// Dir returns the expanded token directory.
func (ts *TokenStore) Dir() string {
	return ts.dir
}

// Load returns the cached token for clientID, or (nil, nil) if there is none.
func (ts *TokenStore) Load(clientID string) (*oauth2.Token, error) {
	key := fileKey(clientID)

	token, err := ts.read(key)
	if err != nil || token == nil {
		return nil, err
	}

	ts.mutex.Lock()
	ts.known[key] = struct{}{}
	ts.lru.Add(key, token)
	ts.mutex.Unlock()

	return token, nil
}

func (ts *TokenStore) read(key string) (*oauth2.Token, error) {
	ts.mutex.RLock()
	defer ts.mutex.RUnlock()

	if token, ok := ts.lru.Peek(key); ok {
		return token, nil
	}
	if !ts.bloom.TestString(key) {
		return nil, nil
	}

	data, err := os.ReadFile(ts.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading token file: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("parsing token file: %w", err)
	}

	return &token, nil
}

// Save writes the token for clientID, creating the directory if needed.
func (ts *TokenStore) Save(clientID string, token *oauth2.Token) error {
	if token == nil {
		return errors.New("cannot save nil token")
	}

	if err := os.MkdirAll(ts.dir, 0o700); err != nil {
		return fmt.Errorf("creating token directory: %w", err)
	}

	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding token: %w", err)
	}

	key := fileKey(clientID)

	ts.mutex.Lock()
	defer ts.mutex.Unlock()

	if err := os.WriteFile(ts.path(key), data, 0o600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}

	ts.known[key] = struct{}{}
	ts.bloom.AddString(key)
	ts.lru.Add(key, token)
	return nil
}

// Delete removes the token for clientID. Deleting a missing token is not an error.
func (ts *TokenStore) Delete(clientID string) error {
	key := fileKey(clientID)

	ts.mutex.Lock()
	defer ts.mutex.Unlock()

	delete(ts.known, key)
	ts.lru.Remove(key)
	// The Bloom filter keeps the key; Load falls through to a missing file.

	err := os.Remove(ts.path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing token file: %w", err)
	}
	return nil
}

// Len returns the number of client IDs with a stored token.
func (ts *TokenStore) Len() int {
	ts.mutex.RLock()
	defer ts.mutex.RUnlock()
	return len(ts.known)
}

func (ts *TokenStore) index() error {
	entries, err := os.ReadDir(ts.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading token directory: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, tokenFileExt) {
			continue
		}
		key := strings.TrimSuffix(name, tokenFileExt)
		ts.known[key] = struct{}{}
		ts.bloom.AddString(key)
	}
	return nil
}

func (ts *TokenStore) path(key string) string {
	return filepath.Join(ts.dir, key+tokenFileExt)
}

// fileKey keeps client IDs out of file names.
func fileKey(clientID string) string {
	sum := sha256.Sum256([]byte(clientID))
	return hex.EncodeToString(sum[:])
}
