package server

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"go.uber.org/zap"

	"github.com/TobiSchelling/PoliticianAnalyzer/internal/compose"
	"github.com/TobiSchelling/PoliticianAnalyzer/internal/database"
	"github.com/TobiSchelling/PoliticianAnalyzer/internal/engine"
	"github.com/TobiSchelling/PoliticianAnalyzer/internal/model"
	"github.com/TobiSchelling/PoliticianAnalyzer/internal/pipeline"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

var md = goldmark.New(goldmark.WithExtensions(extension.Table))

const (
	msgNameRequired = "Politician name is required."
	historyLimit    = 20
)

// Runner analyzes one politician. *pipeline.Pipeline implements it.
type Runner interface {
	Run(ctx context.Context, name string, opts pipeline.Options) *pipeline.Result
}

// History lists recent queries. *database.DB implements it.
type History interface {
	GetRecentQueries(limit int) ([]database.QueryRecord, error)
}

// Server is the HTTP front end for the analyzer.
type Server struct {
	runner  Runner
	history History
	pages   map[string]*template.Template
	mux     *http.ServeMux
	logger  *zap.Logger
}

// New creates a new Server. history may be nil.
func New(runner Runner, history History, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	funcMap := template.FuncMap{
		"markdown":   renderMarkdown,
		"formatTime": database.FormatTimestamp,
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"seconds": func(d time.Duration) string {
			return strconv.FormatFloat(d.Seconds(), 'f', 1, 64) + "s"
		},
	}

	// Parse base template first
	base, err := template.New("base.html").Funcs(funcMap).ParseFS(templateFS, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("parsing base template: %w", err)
	}

	// Each page gets its own clone of base so it can define "content" and "title".
	pageNames := []string{"index.html", "report.html"}
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning base for %s: %w", name, err)
		}
		_, err = clone.ParseFS(templateFS, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		pages[name] = clone
	}

	s := &Server{runner: runner, history: history, pages: pages, mux: http.NewServeMux(), logger: logger}
	s.routes()
	return s, nil
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.recoverPanics(s.mux)
}

func (s *Server) routes() {
	staticSub, _ := fs.Sub(staticFS, "static")
	s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.Handle("/analyze", cors(http.HandlerFunc(s.handleAnalyze)))
	s.mux.HandleFunc("/report", s.handleReport)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	var queries []database.QueryRecord
	if s.history != nil {
		var err error
		queries, err = s.history.GetRecentQueries(historyLimit)
		if err != nil {
			s.logger.Error("loading query history", zap.Error(err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
	}

	s.render(w, http.StatusOK, "index.html", map[string]any{
		"Queries": queries,
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD, OPTIONS")
		writeJSON(w, http.StatusMethodNotAllowed, model.ErrorResult{Error: "Method not allowed."})
		return
	}

	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeJSON(w, http.StatusBadRequest, model.ErrorResult{Error: msgNameRequired})
		return
	}

	result := s.runner.Run(r.Context(), name, pipeline.Options{})
	if result.Err != nil {
		writeJSON(w, errorStatus(result.Err), model.ErrorResultFrom(result.Err))
		return
	}
	writeJSON(w, http.StatusOK, result.Report)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	result := s.runner.Run(r.Context(), name, pipeline.Options{})
	data := map[string]any{"Name": name, "Duration": result.Duration}
	status := http.StatusOK
	if result.Err != nil {
		status = errorStatus(result.Err)
		data["Error"] = result.Err.Error()
	} else {
		data["Markdown"] = compose.Markdown(result.Report)
		data["Strategy"] = result.Report.Strategy
	}
	s.render(w, status, "report.html", data)
}

// errorStatus maps an analysis error to its HTTP status.
func errorStatus(err error) int {
	if engine.IsRetryable(err) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func (s *Server) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				s.logger.Error("panic while serving request",
					zap.String("path", r.URL.Path),
					zap.Any("panic", v),
					zap.Stack("stack"))
				writeJSON(w, http.StatusInternalServerError, model.ErrorResult{
					Error: fmt.Sprintf("An unexpected error occurred: %v", v),
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, HEAD, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "*")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	tmpl, ok := s.pages[name]
	if !ok {
		s.logger.Error("template not found", zap.String("template", name))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base.html", data); err != nil {
		s.logger.Error("rendering template", zap.String("template", name), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func renderMarkdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(buf.String()) //nolint: gosec
}

// Serve listens on host:port until ctx is cancelled, then shuts down
// gracefully.
func Serve(ctx context.Context, srv *Server, host string, port int, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("url", "http://"+addr))
		errCh <- httpSrv.ListenAndServe()
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
		logger.Info("shutting down server")
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		<-errCh
		return nil
	}
}
