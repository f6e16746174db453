package spotify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"moodsync/internal/core"
)

// RemoteHistory reads listening history from a moodsync HTTP service.
type RemoteHistory struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

type remoteError struct {
	Error string `json:"error"`
}

func NewRemoteHistory(baseURL string, logger *zap.Logger) *RemoteHistory {
	return &RemoteHistory{
		baseURL: strings.TrimRight(baseURL, "/"),
		// The service may block on an interactive OAuth flow.
		httpClient: &http.Client{Timeout: 5 * time.Minute},
		logger:     logger,
	}
}

func (r *RemoteHistory) FetchTodayFeatures(ctx context.Context, creds core.SpotifyCredentials) ([]core.TrackFeatureRecord, error) {
	payload, err := json.Marshal(creds)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/tracks/", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tracks service call failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read tracks response: %w", err)
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var e remoteError
		if err := json.Unmarshal(trimmed, &e); err == nil && e.Error != "" {
			return nil, fmt.Errorf("tracks service error (status %d): %s", resp.StatusCode, e.Error)
		}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tracks service returned status %d", resp.StatusCode)
	}

	var records []core.TrackFeatureRecord
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, fmt.Errorf("failed to decode tracks response: %w", err)
	}

	r.logger.Debug("Fetched tracks from remote service",
		zap.String("url", r.baseURL),
		zap.Int("tracks", len(records)))

	return records, nil
}
