package httpserver

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"posterforge/internal/handlers"
	"posterforge/internal/metrics"
	"posterforge/internal/middleware"
)

// Options carries the handlers and transport settings the router mounts.
type Options struct {
	Poster *handlers.PosterHandler
	Health *handlers.HealthHandler

	// Limiter guards /api; nil disables rate limiting.
	Limiter        middleware.Limiter
	RequestTimeout time.Duration
	MaxBodyBytes   int64
	AllowedOrigins []string
	// StaticDir is served at /; empty disables static files.
	StaticDir string
}

func SetupRouter(r *chi.Mux, baseLogger *zap.Logger, opts Options) {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 150 * time.Second
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 10 << 20
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	r.Use(metrics.Middleware)

	// base middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)

	r.Use(middleware.LoggingContext(baseLogger))
	r.Use(middleware.Recoverer())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))
	r.Use(middleware.MaxBodySize(opts.MaxBodyBytes))

	r.Route("/api", func(r chi.Router) {
		if opts.Limiter != nil {
			r.Use(middleware.RateLimit(opts.Limiter))
		}

		r.Get("/health", opts.Health.Health)

		// Image generation can wait on the image API and then on the download
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(opts.RequestTimeout))
			r.Post("/generate-concept", opts.Poster.GenerateConcept)
			r.Post("/generate-image", opts.Poster.GenerateImage)
			r.Post("/get-song-recommendation", opts.Poster.RecommendSong)
			r.Post("/generate-instagram-caption", opts.Poster.GenerateCaption)
		})

		r.NotFound(handlers.NotFound)
	})

	r.Get("/healthz", handlers.Liveness)
	r.Handle("/metrics", metrics.Handler())

	r.NotFound(static(opts.StaticDir))
}

// static serves files below dir and falls back to the JSON 404. Directory
// requests resolve to their index.html.
func static(dir string) http.HandlerFunc {
	if dir == "" {
		return handlers.NotFound
	}
	files := http.FileServer(http.Dir(dir))

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			handlers.NotFound(w, r)
			return
		}

		name := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+r.URL.Path)))
		info, err := os.Stat(name)
		if err == nil && info.IsDir() {
			info, err = os.Stat(filepath.Join(name, "index.html"))
		}
		if err != nil || info.IsDir() {
			handlers.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	}
}
