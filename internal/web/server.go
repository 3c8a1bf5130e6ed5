package web

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"stock-insights/internal/interfaces"
	"stock-insights/internal/logger"
	"stock-insights/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = []string{"home", "company", "companies", "search"}

// Options are the dashboard settings taken from the web config section.
type Options struct {
	PageSize          int
	HomeLimit         int
	InsightsThreshold int
}

func OptionsFromConfig(cfg *store.Config) Options {
	return Options{
		PageSize:          cfg.Web.PageSize,
		HomeLimit:         cfg.Web.HomeLimit,
		InsightsThreshold: cfg.Web.InsightsThreshold,
	}
}

type Server struct {
	store     interfaces.DashboardStore
	opts      Options
	templates map[string]*template.Template
}

func NewServer(st interfaces.DashboardStore, opts Options) (*Server, error) {
	if opts.PageSize < 1 {
		opts.PageSize = 24
	}
	if opts.HomeLimit < 1 {
		opts.HomeLimit = 20
	}

	s := &Server{store: st, opts: opts, templates: make(map[string]*template.Template, len(pages))}
	for _, p := range pages {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+p+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", p, err)
		}
		s.templates[p] = t
	}
	return s, nil
}

// Router returns the dashboard's HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleHome)
	r.Get("/company/{id}", s.handleCompany)
	r.Get("/companies", s.handleCompanies)
	r.Get("/search", s.handleSearch)
	r.Get("/healthz", s.handleHealth)
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "Web server started", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info(ctx, "Shutting down web server")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, page string, data any) {
	var buf bytes.Buffer
	if err := s.templates[page].ExecuteTemplate(&buf, "layout", data); err != nil {
		logger.ErrorWithErr(r.Context(), "Template render failed", err, "page", page)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	logger.ErrorWithErr(r.Context(), msg, err, "path", r.URL.Path)
	http.Error(w, msg, http.StatusInternalServerError)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.Debug(r.Context(), "HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
