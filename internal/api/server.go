// Package api is the HTTP face of the assistant used by the browser
// frontend.
package api

import (
	"encoding/json"
	"image"
	log "log/slog"
	"net/http"
	"slices"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"saathi/internal/assistant"
	"saathi/internal/face"
	"saathi/internal/observe"
	"saathi/internal/tts"
)

const maxUpload = 32 << 20

type FaceAnalyzer interface {
	Analyze(frame *image.Gray) face.Detection
}

// DecodeFunc turns an uploaded image into a grayscale frame.
type DecodeFunc func(data []byte) (*image.Gray, error)

type Deps struct {
	Pipeline *assistant.Pipeline
	Speech   assistant.Synthesizer
	Store    *tts.Store
	Faces    FaceAnalyzer
	Decode   DecodeFunc
	Metrics  *observe.Metrics
	Origins  []string
}

type Server struct {
	pipeline *assistant.Pipeline
	speech   assistant.Synthesizer
	store    *tts.Store
	faces    FaceAnalyzer
	decode   DecodeFunc
	metrics  *observe.Metrics
	origins  []string
	upgrader websocket.Upgrader
}

func NewServer(d Deps) *Server {
	if d.Metrics == nil {
		d.Metrics = observe.DefaultMetrics()
	}
	s := &Server{
		pipeline: d.Pipeline,
		speech:   d.Speech,
		store:    d.Store,
		faces:    d.Faces,
		decode:   d.Decode,
		metrics:  d.Metrics,
		origins:  d.Origins,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  64 << 10,
		WriteBufferSize: 4 << 10,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// Handler returns the routed, traced and CORS-wrapped handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("POST /process-audio", s.handleProcessAudio)
	mux.HandleFunc("GET /audio/{name}", s.handleAudio)
	mux.HandleFunc("POST /reset", s.handleReset)
	mux.HandleFunc("POST /detect-face", s.handleDetectFace)
	mux.HandleFunc("GET /detect-face/stream", s.handleDetectStream)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /expressions", s.handleExpressions)
	mux.Handle("GET /metrics", promhttp.Handler())

	return observe.Middleware(s.metrics)(s.cors(mux))
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	return origin == "" || slices.Contains(s.origins, origin)
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && slices.Contains(s.origins, origin) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Add("Vary", "Origin")

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				if req := r.Header.Get("Access-Control-Request-Headers"); req != "" {
					h.Set("Access-Control-Allow-Headers", req)
				}
				w.WriteHeader(http.StatusOK)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug("write response failed", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}
