package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/annoview/annoview/internal/model"
	"github.com/annoview/annoview/internal/palette"
)

// shutdownTimeout bounds how long a graceful shutdown may take once the
// serving context is cancelled.
const shutdownTimeout = 5 * time.Second

// pageTemplate is the single-page highlighted view.
var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>annoview</title>
<style>
body { font-family: sans-serif; margin: 2rem auto; max-width: 60rem; color: #222; }
.record { margin-bottom: 2.5rem; }
.record h2 { font-size: 1rem; color: #666; border-bottom: 1px solid #ddd; }
.text { line-height: 2.4; }
mark.entity { padding: 0.35em 0.5em; margin: 0 0.15em; border-radius: 0.35em; line-height: 1; }
mark.entity .label { font-size: 0.7em; font-weight: bold; margin-left: 0.5em; text-transform: uppercase; vertical-align: middle; }
.legend mark { padding: 0.25em 0.5em; margin-right: 0.5em; border-radius: 0.35em; }
</style>
</head>
<body>
<h1>Annotated records</h1>
<p class="legend">
{{- range .Legend }}
<mark style="background: {{ .Color }}">{{ .Label }}</mark>
{{- end }}
</p>
{{- range .Records }}
<div class="record">
<h2>{{ .Title }} (record {{ .ID }})</h2>
<p class="text">{{ .Body }}</p>
</div>
{{- end }}
</body>
</html>
`))

// legendEntry is one label/color pair for the page legend.
type legendEntry struct {
	Label string
	Color string
}

// recordView is one rendered record for the page template.
type recordView struct {
	Title string
	ID    int
	Body  template.HTML
}

// Server serves the highlighted annotation view.
type Server struct {
	// records are the loaded records in display order.
	records []model.Record

	// colors maps entity labels to display colors.
	colors *palette.Assignment

	// host and port form the bind address.
	host string
	port int

	// logger is used for structured logging while serving.
	logger *slog.Logger
}

// Option is a function that configures a Server.
type Option func(*Server)

// WithHost sets the bind address. Defaults to loopback.
func WithHost(host string) Option {
	return func(s *Server) {
		s.host = host
	}
}

// WithPort sets the listening port.
func WithPort(port int) Option {
	return func(s *Server) {
		s.port = port
	}
}

// WithLogger sets a custom logger for the server.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New creates a Server for the given records and color assignment.
func New(records []model.Record, colors *palette.Assignment, opts ...Option) *Server {
	s := &Server{
		records: records,
		colors:  colors,
		host:    "127.0.0.1",
		port:    8753,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Addr returns the server's bind address in "host:port" form.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.host, s.port)
}

// Handler returns the server's HTTP handler. Exposed so tests can drive
// the handler without binding a socket.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/healthcheck", s.handleHealthcheck)
	return mux
}

// ListenAndServe serves the highlighted view until ctx is cancelled, then
// shuts the server down gracefully. It blocks the calling goroutine for
// the whole serving lifetime.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("serving highlighted annotations",
		"addr", "http://"+s.Addr(),
		"records", len(s.records),
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("annotation server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// handleIndex renders all records on one page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	legend := make([]legendEntry, 0, s.colors.Len())
	for _, label := range s.colors.Labels() {
		c, _ := s.colors.Color(label)
		legend = append(legend, legendEntry{Label: label, Color: c.RGB()})
	}

	views := make([]recordView, 0, len(s.records))
	for i := range s.records {
		record := &s.records[i]
		views = append(views, recordView{
			Title: record.SourceTitle,
			ID:    record.RecordID,
			Body:  renderRecord(record, s.colors),
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct {
		Legend  []legendEntry
		Records []recordView
	}{Legend: legend, Records: views}

	if err := pageTemplate.Execute(w, data); err != nil {
		s.logger.Error("failed to render page", "error", err)
	}
}

// handleHealthcheck reports liveness.
func (s *Server) handleHealthcheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ok")); err != nil {
		s.logger.Error("unable to write healthcheck", "error", err)
	}
}
