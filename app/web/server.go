// Package web serves the browser shell: the submission form, the leaderboard
// page, its downloads and the metrics endpoint.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/Black-And-White-Club/sudoku-leaderboard/app/activity"
	leaderboardservice "github.com/Black-And-White-Club/sudoku-leaderboard/app/modules/leaderboard/application"
	leaderboarddomain "github.com/Black-And-White-Club/sudoku-leaderboard/app/modules/leaderboard/domain"
	scoredomain "github.com/Black-And-White-Club/sudoku-leaderboard/app/modules/score/domain"
	"github.com/Black-And-White-Club/sudoku-leaderboard/app/session"
	"github.com/Black-And-White-Club/sudoku-leaderboard/config"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server renders session state as HTML and maps form posts to transitions.
// Each visitor gets its own session, keyed by the SessionCookie.
type Server struct {
	sessions  *sessionStore
	feed      *activity.Feed
	registry  *prometheus.Registry
	logger    *slog.Logger
	templates *template.Template
}

// NewServer parses the page templates. newSession is called once per visitor.
// feed and registry may be nil.
func NewServer(newSession SessionFactory, feed *activity.Feed, registry *prometheus.Registry, logger *slog.Logger) (*Server, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Server{
		sessions:  newSessionStore(newSession),
		feed:      feed,
		registry:  registry,
		logger:    logger,
		templates: tmpl,
	}, nil
}

// Routes builds the HTTP handler.
func (s *Server) Routes(cfg config.HTTPConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(s.logger))
	r.Use(CORS(cfg.AllowedOrigins))
	if cfg.RateLimit > 0 {
		r.Use(RateLimit(NewClientLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)))
	}

	r.Group(func(r chi.Router) {
		r.Use(s.sessions.withVisitor)
		r.Get("/", s.handleForm)
		r.Post("/submit", s.handleSubmit)
		r.Get("/leaderboard", s.handleLeaderboard)
		r.Post("/leaderboard", s.handleShowLeaderboard)
		r.Get("/leaderboard.xlsx", s.handleExportXLSX)
		r.Get("/leaderboard.png", s.handleChart)
	})

	if s.registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}

	return r
}

type option struct {
	Value    string
	Label    string
	Selected bool
}

type formView struct {
	Title    string
	Alerts   []string
	Name     string
	Time     string
	Levels   []option
	Activity []activity.Event
}

type rowView struct {
	Name  string
	Cells []string
}

type leaderboardView struct {
	Title       string
	Alerts      []string
	SortBy      string
	SortOptions []option
	Columns     []leaderboarddomain.Column
	Rows        []rowView
}

// handleForm shows the form. Visiting it drops any fetched leaderboard.
func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	v := visitorFrom(r.Context())
	v.session.ShowForm()
	st := v.session.Snapshot()

	view := formView{
		Title:  "Sudoku Scores",
		Alerts: v.alerts.Drain(),
		Name:   st.Name,
		Time:   st.Time,
	}
	for _, l := range scoredomain.Levels {
		view.Levels = append(view.Levels, option{Value: string(l), Label: l.Label(), Selected: l == st.Level})
	}
	if s.feed != nil {
		view.Activity = s.feed.Recent()
	}

	s.render(w, "form.html", view)
}

// applyForm copies posted form fields into the session.
func applyForm(sess *session.Session, r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		return err
	}
	sess.EditName(r.PostFormValue("name"))
	sess.EditTime(r.PostFormValue("time"))
	if level := r.PostFormValue("level"); level != "" {
		return sess.SelectLevel(level)
	}
	return nil
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	sess := visitorFrom(r.Context()).session
	if err := applyForm(sess, r); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if sess.Submit(r.Context()) {
		http.Redirect(w, r, "/leaderboard", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleShowLeaderboard is the form's Leaderboard button. Typed input is kept.
func (s *Server) handleShowLeaderboard(w http.ResponseWriter, r *http.Request) {
	sess := visitorFrom(r.Context()).session
	if err := applyForm(sess, r); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sess.ShowLeaderboard(r.Context())
	http.Redirect(w, r, "/leaderboard", http.StatusSeeOther)
}

// handleLeaderboard renders the leaderboard, fetching it when arriving from
// another page. A sort change alone does not refetch.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	v := visitorFrom(r.Context())
	if sortKey := r.URL.Query().Get("sort"); sortKey != "" {
		if err := v.session.SelectSort(sortKey); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	v.session.EnsureLeaderboard(r.Context())

	st := v.session.Snapshot()
	view := leaderboardView{
		Title:   "Sudoku Leaderboard",
		Alerts:  v.alerts.Drain(),
		SortBy:  string(st.SortBy),
		Columns: leaderboarddomain.Columns,
	}
	for _, o := range leaderboarddomain.SortOptions {
		view.SortOptions = append(view.SortOptions, option{Value: string(o.Key), Label: o.Label, Selected: o.Key == st.SortBy})
	}
	for _, e := range st.Rows() {
		view.Rows = append(view.Rows, rowView{Name: e.Name, Cells: e.Cells()})
	}

	s.render(w, "leaderboard.html", view)
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	data, err := leaderboardservice.ExportXLSX(visitorFrom(r.Context()).session.Snapshot().Rows())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="leaderboard.xlsx"`)
	_, _ = w.Write(data)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	st := visitorFrom(r.Context()).session.Snapshot()
	key := st.SortBy
	if raw := r.URL.Query().Get("sort"); raw != "" {
		parsed, err := leaderboarddomain.ParseStatKey(raw)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		key = parsed
	}

	data, err := leaderboardservice.GenerateLeaderboardChart(st.Entries, key, leaderboardservice.DefaultPalette)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(data)
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("Failed to render template", slog.String("template", name), slog.Any("error", err))
	}
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.ErrorContext(r.Context(), "Request failed", slog.String("path", r.URL.Path), slog.Any("error", err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
