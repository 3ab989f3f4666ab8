// Package server wires the diary server together: storage, image store,
// service, handlers, middleware and routes.
//
// This is the composition root. Every dependency is created here (or in
// main.go) and injected downwards:
//
//	config → repository (memory | sqlite) ┐
//	config → blob store (local | cloudinary) ┴→ DiaryService → DiaryHandler → routes
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sakif/mini-diary/internal/blob"
	"github.com/sakif/mini-diary/internal/config"
	"github.com/sakif/mini-diary/internal/handler"
	"github.com/sakif/mini-diary/internal/metrics"
	"github.com/sakif/mini-diary/internal/middleware"
	"github.com/sakif/mini-diary/internal/repository"
	"github.com/sakif/mini-diary/internal/repository/memory"
	sqliteRepo "github.com/sakif/mini-diary/internal/repository/sqlite"
	"github.com/sakif/mini-diary/internal/seed"
	"github.com/sakif/mini-diary/internal/service"
)

// Server owns the router and every resource that must be released on
// shutdown.
type Server struct {
	router  *chi.Mux
	config  *config.Config
	logger  *slog.Logger
	repo    repository.DiaryRepository
	images  blob.Store
	closers []io.Closer
}

// New builds the full dependency graph described by cfg.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
	}

	if err := s.openRepository(); err != nil {
		return nil, err
	}
	if err := s.openImageStore(); err != nil {
		s.Close()
		return nil, err
	}

	if cfg.SeedSampleData {
		n, err := seed.Load(context.Background(), s.repo, cfg.Location)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("seeding sample data: %w", err)
		}
		if n > 0 {
			logger.Info("sample data loaded", slog.Int("entries", n))
		}
	}

	if n, err := s.repo.Count(context.Background()); err == nil {
		metrics.SetEntries(n)
	}

	s.setupRoutes()
	return s, nil
}

func (s *Server) openRepository() error {
	switch s.config.StoreDriver {
	case config.StoreSQLite:
		db, err := sqliteRepo.New(s.config.SQLiteDSN)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		s.repo = db
		s.closers = append(s.closers, db)
	default:
		s.repo = memory.New()
	}
	return nil
}

func (s *Server) openImageStore() error {
	switch s.config.BlobDriver {
	case config.BlobCloudinary:
		store, err := blob.NewCloudinary(
			s.config.CloudinaryName,
			s.config.CloudinaryAPIKey,
			s.config.CloudinaryAPISecret,
			s.config.CloudinaryFolder,
		)
		if err != nil {
			return err
		}
		s.images = store
	default:
		store, err := blob.NewLocal(s.config.UploadDir)
		if err != nil {
			return err
		}
		s.images = store
	}
	return nil
}

// setupRoutes configures middleware and routes.
//
// ROUTES:
//
//	GET    /health                 → liveness
//	GET    /metrics                → Prometheus
//	GET    /uploads/*              → stored images (local image store only)
//	GET    /api/diaries            → list (page, limit, search, startDate, endDate)
//	GET    /api/diaries/{id}       → get
//	POST   /api/diaries            → create (JSON or multipart with image)
//	PUT    /api/diaries/{id}       → update text
//	DELETE /api/diaries/{id}       → delete
//	POST   /api/text/preview       → render text without saving
//	GET    /api/text/shortcodes    → shortcode table
//
// MIDDLEWARE ORDER:
// RequestID runs first so the logger can print it. CORS sits before the
// routes so preflight OPTIONS requests are answered without reaching a
// handler.
func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s.router.NotFound(handler.NotFound)
	s.router.MethodNotAllowed(handler.MethodNotAllowed)

	s.router.Get("/health", handler.HandleHealth)
	s.router.Handle("/metrics", promhttp.Handler())

	if local, ok := s.images.(*blob.Local); ok {
		files := http.StripPrefix(blob.URLPrefix, noDirListing(http.FileServer(http.Dir(local.Dir()))))
		s.router.Get(blob.URLPrefix+"*", files.ServeHTTP)
	}

	diaryService := service.NewDiaryService(s.repo, s.images, s.logger, s.config.AllowWebP)
	diaryHandler := handler.NewDiaryHandler(diaryService, s.logger, s.config.Location)
	textHandler := handler.NewTextHandler()

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/diaries", func(r chi.Router) {
			r.Get("/", diaryHandler.HandleList)
			r.Post("/", diaryHandler.HandleCreate)
			r.Get("/{id}", diaryHandler.HandleGetByID)
			r.Put("/{id}", diaryHandler.HandleUpdate)
			r.Delete("/{id}", diaryHandler.HandleDelete)
		})
		r.Route("/text", func(r chi.Router) {
			r.Post("/preview", textHandler.HandlePreview)
			r.Get("/shortcodes", textHandler.HandleShortcodes)
		})
	})
}

// noDirListing hides directory indexes under /uploads/.
func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			handler.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases storage resources. It is safe to call more than once.
func (s *Server) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

// Start serves HTTP until SIGINT or SIGTERM, then shuts down gracefully:
// stop accepting connections, give in-flight requests 30 seconds, close
// storage.
func (s *Server) Start() error {
	defer s.Close()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second, // multipart uploads need more than the default
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("store", s.config.StoreDriver),
			slog.String("images", s.config.BlobDriver),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
