// Package http serves a playbook's graph over HTTP: a live Mermaid view,
// the raw renderings, and Prometheus metrics.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/playgraph/internal/presentation/graph"
	"github.com/aretw0/playgraph/pkg/domain"
)

// Grapher is the slice of the library the server needs.
type Grapher interface {
	LoadPlaybook(path string) (*domain.Playbook, error)
	Graph(pb *domain.Playbook) ([]*domain.Graph, error)
	Title() string
}

// Server renders one playbook on demand. The playbook is re-read per
// request, so edits show up on refresh without restarting.
type Server struct {
	grapher  Grapher
	playbook string
	logger   *slog.Logger

	registry     *prometheus.Registry
	renders      *prometheus.CounterVec
	renderErrors prometheus.Counter
}

// NewServer creates a server for the playbook at path.
func NewServer(grapher Grapher, playbook string, logger *slog.Logger) *Server {
	s := &Server{
		grapher:  grapher,
		playbook: playbook,
		logger:   logger,
		registry: prometheus.NewRegistry(),
		renders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "playgraph_renders_total",
				Help: "Total number of graph renders served, by output format",
			},
			[]string{"format"},
		),
		renderErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "playgraph_render_errors_total",
				Help: "Total number of failed graph renders",
			},
		),
	}
	s.registry.MustRegister(s.renders, s.renderErrors)
	return s
}

// Handler builds the chi router for the server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", s.getIndex)
	r.Get("/graph.json", s.getJSON)
	r.Get("/graph.mmd", s.getMermaid)
	r.Get("/graph.dot", s.getDOT)
	r.Get("/health", s.getHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	return r
}

// render re-parses the playbook and graphs every play.
func (s *Server) render(w http.ResponseWriter) []*domain.Graph {
	pb, err := s.grapher.LoadPlaybook(s.playbook)
	if err == nil {
		var graphs []*domain.Graph
		if graphs, err = s.grapher.Graph(pb); err == nil {
			return graphs
		}
	}
	s.renderErrors.Inc()
	s.logger.Error("render failed", "playbook", s.playbook, "err", err)
	http.Error(w, "failed to render playbook: "+err.Error(), http.StatusInternalServerError)
	return nil
}

func (s *Server) getIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexHTML))
}

func (s *Server) getMermaid(w http.ResponseWriter, r *http.Request) {
	graphs := s.render(w)
	if graphs == nil {
		return
	}
	s.renders.WithLabelValues("mermaid").Inc()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(graph.GenerateMermaid(s.grapher.Title(), graphs)))
}

func (s *Server) getDOT(w http.ResponseWriter, r *http.Request) {
	graphs := s.render(w)
	if graphs == nil {
		return
	}
	s.renders.WithLabelValues("dot").Inc()
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	w.Write([]byte(graph.GenerateDOT(s.grapher.Title(), graphs)))
}

func (s *Server) getJSON(w http.ResponseWriter, r *http.Request) {
	graphs := s.render(w)
	if graphs == nil {
		return
	}
	out, err := graph.GenerateJSON(s.grapher.Title(), graphs)
	if err != nil {
		s.renderErrors.Inc()
		s.logger.Error("json render failed", "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.renders.WithLabelValues("json").Inc()
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(out))
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>playgraph</title>
    <style>body { font-family: sans-serif; margin: 2rem; }</style>
</head>
<body>
<pre id="diagram" class="mermaid">loading…</pre>
<script type="module">
    import mermaid from 'https://cdn.jsdelivr.net/npm/mermaid@10/dist/mermaid.esm.min.mjs';
    mermaid.initialize({ startOnLoad: false, maxTextSize: 200000 });
    const resp = await fetch('/graph.mmd');
    const source = await resp.text();
    const el = document.getElementById('diagram');
    if (!resp.ok) {
        el.textContent = source;
    } else {
        const { svg } = await mermaid.render('playbook', source);
        el.outerHTML = svg;
    }
</script>
</body>
</html>
`
