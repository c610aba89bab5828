// Package web serves the search page over HTTP.
//
// The page is rendered on the server with html/template from a single [controller.Controller].
// Every form posts back to the server, the handler runs the matching controller operation and the
// whole page is rendered again from the new snapshot.
//
// Routes
//
//	GET  /         → current page
//	POST /search   → SubmitSearch with form field "query"
//	GET  /suggest  → RequestPlaylistSuggestions with query parameter "vibe"
//	GET  /history  → LoadHistory
//	GET  /healthz  → liveness probe
//
// Failed operations still answer 200: the error is part of the page, shown on the banner. The banner
// hides itself in the browser after the controller's banner timeout via a CSS animation delay.
package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songsearch/internal/controller"
	"github.com/desertthunder/songsearch/internal/server"
	"github.com/desertthunder/songsearch/internal/shared"
)

//go:embed templates/*.html
var templateFiles embed.FS

// pageData is the template input.
type pageData struct {
	Page        controller.Page
	Query       string
	Vibe        string
	BannerDelay string
}

// App renders the search page and handles its forms.
type App struct {
	ctrl          *controller.Controller
	logger        *log.Logger
	tmpl          *template.Template
	bannerTimeout time.Duration
	mux           *http.ServeMux
}

var _ server.Handler = (*App)(nil)

type route struct {
	pattern string
	handler http.HandlerFunc
}

// Opts contains configuration options for creating an App.
type Opts struct {
	Logger        *log.Logger
	BannerTimeout time.Duration // Defaults to controller.DefaultBannerTimeout
}

// New creates an App rendering pages from ctrl.
func New(ctrl *controller.Controller, opts Opts) (*App, error) {
	if ctrl == nil {
		return nil, fmt.Errorf("%w: controller is nil", shared.ErrMissingArgument)
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}
	if opts.BannerTimeout <= 0 {
		opts.BannerTimeout = controller.DefaultBannerTimeout
	}

	tmpl, err := template.ParseFS(templateFiles, "templates/page.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	a := &App{
		ctrl:          ctrl,
		logger:        opts.Logger,
		tmpl:          tmpl,
		bannerTimeout: opts.BannerTimeout,
		mux:           http.NewServeMux(),
	}
	for _, rt := range a.routes() {
		a.mux.Handle(rt.pattern, rt.handler)
	}
	return a, nil
}

func (a *App) routes() []route {
	return []route{
		{"GET /{$}", a.Index},
		{"POST /search", a.Search},
		{"GET /suggest", a.Suggest},
		{"GET /history", a.History},
		{"GET /healthz", a.Health},
	}
}

// Routes returns the mux patterns served by the App.
func (a *App) Routes() []string {
	routes := a.routes()
	patterns := make([]string, len(routes))
	for i, rt := range routes {
		patterns[i] = rt.pattern
	}
	return patterns
}

// ServeHTTP dispatches to the page handlers without middleware.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mux.ServeHTTP(w, r)
}

// Register adds the page routes to r.
func (a *App) Register(r server.Router) {
	r.Handler(a)
}

// Router builds a [server.BasicRouter] with the standard middleware stack and the page routes.
func (a *App) Router() *server.BasicRouter {
	r := server.NewBasicRouter()
	r.Use(server.RequestID(), server.Logging(a.logger), server.Recover(a.logger))
	a.Register(r)
	return r
}

// Index renders the current page.
func (a *App) Index(w http.ResponseWriter, r *http.Request) {
	a.render(w, pageData{})
}

// Search runs a search with the submitted query.
func (a *App) Search(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	query := r.PostForm.Get("query")
	if _, err := a.ctrl.SubmitSearch(r.Context(), query); err != nil {
		a.logOutcome("search", err)
	}

	a.render(w, pageData{Query: query})
}

// Suggest requests playlists for the vibe query parameter.
func (a *App) Suggest(w http.ResponseWriter, r *http.Request) {
	vibe := r.URL.Query().Get("vibe")
	if _, err := a.ctrl.RequestPlaylistSuggestions(r.Context(), vibe); err != nil {
		a.logOutcome("suggest", err)
	}

	a.render(w, pageData{Vibe: vibe})
}

// History loads the search history.
func (a *App) History(w http.ResponseWriter, r *http.Request) {
	if _, err := a.ctrl.LoadHistory(r.Context()); err != nil {
		a.logOutcome("history", err)
	}

	a.render(w, pageData{})
}

// Health answers liveness probes.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok\n"))
}

func (a *App) logOutcome(op string, err error) {
	if errors.Is(err, shared.ErrInvalidInput) {
		a.logger.Debug("rejected input", "op", op, "error", err)
		return
	}
	a.logger.Warn("operation failed", "op", op, "error", err)
}

// render executes the page template into a buffer first so a template error never leaves a half-written page.
func (a *App) render(w http.ResponseWriter, data pageData) {
	data.Page = a.ctrl.Page()
	data.BannerDelay = fmt.Sprintf("%dms", a.bannerTimeout.Milliseconds())

	var buf bytes.Buffer
	if err := a.tmpl.ExecuteTemplate(&buf, "page.html", data); err != nil {
		a.logger.Error("failed to render page", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
