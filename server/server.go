// Package server exposes the chart fixer over HTTP.
package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	charttidy "github.com/QEStudios/ChartTidy"
	"github.com/QEStudios/ChartTidy/chart"
	"github.com/QEStudios/ChartTidy/config"
	"github.com/QEStudios/ChartTidy/report"
)

// Charts larger than this are rejected.
const maxBodyBytes = 16 << 20

type Server struct {
	logger *log.Logger
	cfg    *config.Config
	router *mux.Router

	// Optional. Every request is recorded under runID.
	store *report.SQLiteStore
	runID string
}

type diagnosticJSON struct {
	Severity string  `json:"severity"`
	Line     int     `json:"line,omitempty"`
	Section  string  `json:"section,omitempty"`
	Time     *uint32 `json:"time,omitempty"`
	Message  string  `json:"message"`
}

type fixResponse struct {
	OK          bool             `json:"ok"`
	Chart       string           `json:"chart"`
	Diagnostics []diagnosticJSON `json:"diagnostics"`
}

// New creates a server using cfg for every request. store may be nil.
func New(logger *log.Logger, cfg *config.Config, store *report.SQLiteStore) (*Server, error) {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{logger: logger, cfg: cfg, store: store}
	if store != nil {
		runID, err := store.StartRun()
		if err != nil {
			return nil, fmt.Errorf("starting report run: %w", err)
		}
		s.runID = runID
	}

	s.router = mux.NewRouter().StrictSlash(true)
	s.router.HandleFunc("/fix", s.handleFix).Methods(http.MethodPost)
	s.router.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)
	return s, nil
}

// Handler returns the router wrapped in CORS handling so browser editors can call it.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	})
	return c.Handler(s.router)
}

func (s *Server) ListenAndServe() error {
	s.logger.Printf("listening on %s", s.cfg.Addr)
	return http.ListenAndServe(s.cfg.Addr, s.Handler())
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	io.WriteString(w, "ok\n")
}

// requestConfig copies the server config and applies the query overrides.
func (s *Server) requestConfig(r *http.Request) (*config.Config, error) {
	cfg := *s.cfg
	q := r.URL.Query()
	if v := q.Get("feedback_safe"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid feedback_safe: %w", err)
		}
		cfg.FeedbackSafe = b
	}
	if v := q.Get("min_gap"); v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid min_gap: %w", err)
		}
		cfg.MinSustainGap = uint32(n)
	}
	return &cfg, nil
}

func (s *Server) handleFix(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.requestConfig(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	res, err := charttidy.Process(body, s.logger, cfg)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if s.store != nil {
		name := r.URL.Query().Get("name")
		if name == "" {
			name = "request"
		}
		_, err := s.store.AddFile(s.runID, report.FileResult{
			Path:        name,
			OK:          res.OK,
			Notes:       res.Document.NoteCount(),
			Diagnostics: res.Diagnostics,
		})
		if err != nil {
			s.logger.Printf("failed to record request: %v", err)
		}
	}

	resp := fixResponse{
		OK:          res.OK,
		Chart:       string(res.Output),
		Diagnostics: make([]diagnosticJSON, 0, len(res.Diagnostics)),
	}
	for _, d := range res.Diagnostics {
		resp.Diagnostics = append(resp.Diagnostics, toJSON(d))
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Printf("failed to write response: %v", err)
	}
}

func toJSON(d chart.Diagnostic) diagnosticJSON {
	j := diagnosticJSON{
		Severity: d.Severity.String(),
		Line:     d.Line,
		Section:  d.Section,
		Message:  d.Message,
	}
	if d.HasTime {
		t := d.Time
		j.Time = &t
	}
	return j
}
