package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"moodsync/internal/core"
)

const (
	tracksRoute = "/tracks/"
	squareRoute = "/square/"

	// maxBodyBytes bounds the credentials payload of POST /tracks/.
	maxBodyBytes = 1 << 16
	// maxSquareOperand is the largest |x| whose square fits in an int64.
	maxSquareOperand = 3037000499
)

type errorResponse struct {
	Error string `json:"error"`
}

type squareResponse struct {
	Square int64 `json:"square"`
}

func (s *Server) handleTracks(w http.ResponseWriter, r *http.Request) {
	var creds core.SpotifyCredentials
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(&creds); err != nil {
		s.metrics.RecordError("tracks", "bad_request")
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if creds.ClientID == "" || creds.ClientSecret == "" {
		s.metrics.RecordError("tracks", "bad_request")
		writeError(w, http.StatusBadRequest, "client_id and client_secret are required")
		return
	}

	if ok, wait := s.floodgate.Reserve(tracksRoute, creds.ClientID); !ok {
		s.metrics.RecordThrottled(tracksRoute)
		s.logger.Warn("Throttled tracks request",
			zap.String("request_id", requestID(r)),
			zap.Duration("retry_after", wait))
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(wait)))
		writeError(w, http.StatusTooManyRequests, "too many requests for this client, try again later")
		return
	}

	records, err := s.history.FetchTodayFeatures(r.Context(), creds)
	if err != nil {
		s.metrics.RecordError("tracks", "upstream")
		s.logger.Error("Failed to fetch listening history",
			zap.String("request_id", requestID(r)),
			zap.Error(err))
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	if records == nil {
		records = []core.TrackFeatureRecord{}
	}

	s.metrics.RecordTracks(len(records))
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleSquare(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("x")
	x, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			writeError(w, http.StatusUnprocessableEntity, "x is out of range")
			return
		}
		writeError(w, http.StatusBadRequest, "x must be an integer")
		return
	}

	if x > maxSquareOperand || x < -maxSquareOperand {
		writeError(w, http.StatusUnprocessableEntity, "x squared overflows a 64-bit integer")
		return
	}

	writeJSON(w, http.StatusOK, squareResponse{Square: x * x})
}

func statusHandler(status string) http.HandlerFunc {
	body := `{"status":"` + status + `","service":"moodsync"}`
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(body))
	}
}

func homeHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(homePage)); err != nil {
			logger.Debug("Failed to write home page", zap.Error(err))
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func requestID(r *http.Request) string {
	return middleware.GetReqID(r.Context())
}

const homePage = `<!DOCTYPE html>
<html>
<head>
    <title>moodsync</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 40px; }
        .header { color: #333; }
        .endpoint { margin: 10px 0; }
        .endpoint a { text-decoration: none; color: #0066cc; }
        .endpoint a:hover { text-decoration: underline; }
        code { background: #f4f4f4; padding: 2px 4px; }
    </style>
</head>
<body>
    <h1 class="header">moodsync</h1>
    <p>Compares the mood of today's Spotify listening with the mood of a chat message.</p>

    <h2>Endpoints</h2>
    <div class="endpoint"><code>POST /tracks/</code> - Today's tracks with audio features</div>
    <div class="endpoint"><code>POST /square/?x=</code> - Squares an integer</div>
    <div class="endpoint"><a href="/metrics">Metrics</a> - Prometheus metrics</div>
    <div class="endpoint"><a href="/healthz">Health</a> - Health check</div>
    <div class="endpoint"><a href="/readyz">Ready</a> - Readiness check</div>
</body>
</html>`

// retryAfterSeconds rounds wait up to whole seconds, at least one.
func retryAfterSeconds(wait time.Duration) int {
	secs := int((wait + time.Second - 1) / time.Second)
	if secs < 1 {
		return 1
	}
	return secs
}
