package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/bryanwahyu/chatlens/internal/application/analysis"
	"github.com/bryanwahyu/chatlens/internal/domain/chat"
	"github.com/bryanwahyu/chatlens/internal/middleware"
)

// Messages for request-level failures that happen before analysis.
const (
	MsgBadRequest  = "잘못된 요청 형식입니다."
	MsgTooLarge    = "텍스트가 너무 큽니다."
	MsgNoSource    = "분석할 대화 파일이 설정되지 않았습니다."
	MsgNoErrorSink = "오류 기록이 설정되지 않았습니다."
)

// DefaultMaxBodyBytes bounds POST /api/analyze_text bodies.
const DefaultMaxBodyBytes = 5 << 20

var errBadRequest = errors.New("malformed request body")

// Options configures the ambient parts of the router. Zero values disable
// the corresponding feature.
type Options struct {
	Logger         *slog.Logger
	MaxBodyBytes   int64
	AllowedOrigins []string
	APIKeys        map[string]string // client -> key
	RateLimiter    *middleware.RateLimiter
	StaticDir      string
	HealthCheckers map[string]middleware.HealthChecker
}

type Router struct {
	svc     *analysis.Service
	maxBody int64
	logger  *slog.Logger
}

func NewRouter(svc *analysis.Service, opts Options) http.Handler {
	r := &Router{svc: svc, maxBody: opts.MaxBodyBytes, logger: opts.Logger}
	if r.maxBody <= 0 {
		r.maxBody = DefaultMaxBodyBytes
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}

	mux := chi.NewRouter()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.Logging(r.logger))
	mux.Use(chimw.Recoverer)
	mux.Use(middleware.MetricsMiddleware)
	if len(opts.AllowedOrigins) > 0 {
		mux.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", "Authorization", "X-API-Key", middleware.RequestIDHeader},
			ExposedHeaders: []string{middleware.RequestIDHeader},
			MaxAge:         300,
		}))
	}
	if len(opts.APIKeys) > 0 {
		mux.Use(middleware.APIKeyAuth(opts.APIKeys))
	}
	if opts.RateLimiter != nil {
		mux.Use(middleware.RateLimitMiddleware(opts.RateLimiter))
	}

	mux.Get("/health", middleware.LivenessHandler)
	mux.Get("/healthz", middleware.HealthHandler(opts.HealthCheckers))
	mux.Get("/readyz", middleware.ReadinessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/api", func(rt chi.Router) {
		rt.Post("/analyze_text", r.wrap(r.handleAnalyzeText))
		rt.Get("/analyze", r.wrap(r.handleAnalyzeLegacy))
		rt.Get("/errors", r.wrap(r.handleRecentErrors))
		rt.NotFound(func(w http.ResponseWriter, _ *http.Request) {
			middleware.WriteError(w, http.StatusNotFound, "not found")
		})
	})

	if opts.StaticDir != "" {
		mux.NotFound(spaHandler(opts.StaticDir))
	}

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			middleware.WriteError(w, http.StatusRequestEntityTooLarge, MsgTooLarge)
		case errors.Is(err, errBadRequest):
			middleware.WriteError(w, http.StatusBadRequest, MsgBadRequest)
		case errors.Is(err, chat.ErrValidation):
			middleware.WriteError(w, http.StatusBadRequest, chat.UserMessage(err))
		case errors.Is(err, chat.ErrParse):
			middleware.WriteError(w, http.StatusUnprocessableEntity, chat.UserMessage(err))
		case errors.Is(err, analysis.ErrSourceNotConfigured):
			middleware.WriteError(w, http.StatusNotFound, MsgNoSource)
		case errors.Is(err, analysis.ErrSinkNotConfigured):
			middleware.WriteError(w, http.StatusNotFound, MsgNoErrorSink)
		default:
			// causes stay in the log, never in the response
			if !errors.Is(err, chat.ErrInternal) {
				r.logger.Error("request failed", "path", req.URL.Path, "error", err)
			}
			middleware.WriteError(w, http.StatusInternalServerError, chat.MsgAnalysisFailed)
		}
	}
}

// POST /api/analyze_text
// Body: {"text": "<exported chat>"}
func (r *Router) handleAnalyzeText(w http.ResponseWriter, req *http.Request) error {
	req.Body = http.MaxBytesReader(w, req.Body, r.maxBody)

	var body struct {
		Text string `json:"text"`
	}
	// An empty body carries no text; Analyze reports it as such.
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return errors.Join(errBadRequest, err)
	}

	res, err := r.svc.Analyze(req.Context(), middleware.SanitizeString(body.Text))
	countAnalysis(res, err)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, res)
}

// GET /api/analyze
func (r *Router) handleAnalyzeLegacy(w http.ResponseWriter, req *http.Request) error {
	res, err := r.svc.AnalyzeLegacy(req.Context())
	countAnalysis(res, err)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, res)
}

// GET /api/errors?limit=
func (r *Router) handleRecentErrors(w http.ResponseWriter, req *http.Request) error {
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	list, err := r.svc.RecentErrors(req.Context(), middleware.ValidateLimit(limit))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, list)
}

func countAnalysis(res *chat.AnalysisResult, err error) {
	switch {
	case err == nil:
		middleware.IncrementAnalyses(res.TotalMessages)
	case errors.Is(err, chat.ErrValidation):
		middleware.IncrementAnalysesRejected()
	case errors.Is(err, chat.ErrParse):
		middleware.IncrementAnalysesUnparsable()
	case errors.Is(err, chat.ErrInternal):
		middleware.IncrementAnalysesFailed()
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// spaHandler serves files from dir and falls back to index.html so
// client-side routes survive a reload.
func spaHandler(dir string) http.HandlerFunc {
	fs := http.FileServer(http.Dir(dir))
	return func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet && req.Method != http.MethodHead {
			middleware.WriteError(w, http.StatusNotFound, "not found")
			return
		}
		p := filepath.Join(dir, filepath.FromSlash(filepath.Clean("/"+req.URL.Path)))
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			fs.ServeHTTP(w, req)
			return
		}
		if strings.Contains(filepath.Base(req.URL.Path), ".") {
			// missing asset, not a client route
			http.NotFound(w, req)
			return
		}
		http.ServeFile(w, req, filepath.Join(dir, "index.html"))
	}
}
