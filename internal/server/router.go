package server

import (
	"net/http"
	"time"

	"label-matcher/internal/cache"
	"label-matcher/internal/database"
	"label-matcher/internal/handlers"
	"label-matcher/internal/match"

	"github.com/go-chi/chi/v5"
)

// Options configures route construction.
type Options struct {
	// Processor runs the PDF pipeline behind POST /api/labels/upload.
	// Nil disables the endpoint (503).
	Processor handlers.FileProcessor
	// Archiver stores uploaded PDFs durably; nil skips archiving.
	Archiver handlers.Archiver
	// MaxUploadBytes caps multipart PDF uploads.
	MaxUploadBytes int64
	// MatchConfig tunes the matcher used for inline match requests.
	MatchConfig match.Config
	// Tracker fetches delivery statuses for the refresh endpoint; nil
	// disables it (503).
	Tracker handlers.StatusFetcher
	// DisableRateLimit turns off the refresh cooldown.
	DisableRateLimit bool
	// DisableCache bypasses the candidate list cache.
	DisableCache bool
	// CacheTTL bounds how long the candidate list is served from memory.
	// Zero means the default of 30 seconds.
	CacheTTL time.Duration
}

// NewRouter builds the chi router with all API routes and the standard
// middleware chain applied.
func NewRouter(db *database.DB, opts Options) http.Handler {
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	candidateCache := cache.NewManager(opts.DisableCache, ttl)

	orderHandler := handlers.NewOrderHandler(db, candidateCache, opts.Tracker, opts.DisableRateLimit)
	healthHandler := handlers.NewHealthHandler(db)
	labelHandler := handlers.NewLabelHandler(db, match.New(opts.MatchConfig), opts.Processor, opts.Archiver, candidateCache, opts.MaxUploadBytes)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.HealthCheck)

		r.Get("/orders", orderHandler.GetOrders)
		r.Post("/orders", orderHandler.CreateOrder)
		r.Get("/orders/{id}", orderHandler.GetOrderByID)
		r.Put("/orders/{id}", orderHandler.UpdateOrder)
		r.Delete("/orders/{id}", orderHandler.DeleteOrder)
		r.Get("/orders/{id}/labels", orderHandler.GetOrderLabels)
		r.Post("/orders/{id}/refresh-status", orderHandler.RefreshStatus)

		r.Post("/labels/match", labelHandler.MatchLabels)
		r.Post("/labels/upload", labelHandler.UploadLabels)
		r.Get("/labels", labelHandler.GetLabels)
		r.Get("/labels/unmatched", labelHandler.GetUnmatched)
		r.Post("/labels/{id}/assign/{order_id}", labelHandler.AssignLabel)
	})

	return Chain(
		r,
		LoggingMiddleware,
		RecoveryMiddleware,
		CORSMiddleware,
		ContentTypeMiddleware,
		SecurityMiddleware,
	)
}
