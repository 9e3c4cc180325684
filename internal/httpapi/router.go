package httpapi

import (
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/forPelevin/hlgrab/internal/platform/logger"
	"github.com/forPelevin/hlgrab/internal/platform/metrics"
)

type RouterConfig struct {
	APIToken      string
	HighlightsDir string
	PublicPrefix  string
}

// NewRouter mounts the API, the static highlights directory, health and
// metrics endpoints. m may be nil.
func NewRouter(h *Handler, cfg RouterConfig, log *slog.Logger, m *metrics.Metrics) *chi.Mux {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(logger.RequestLogger(log))
	if m != nil {
		r.Use(metrics.RequestMiddleware(m))
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(BearerAuth(cfg.APIToken))
		r.Post("/highlights", h.ExtractHighlights)
	})

	prefix := "/" + strings.Trim(cfg.PublicPrefix, "/")
	files := http.StripPrefix(prefix, http.FileServer(noListing{http.Dir(cfg.HighlightsDir)}))
	r.Handle(prefix+"/*", files)

	return r
}

// noListing hides directory indexes of the public highlights directory.
type noListing struct {
	fs http.FileSystem
}

func (n noListing) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, fs.ErrNotExist
	}
	return f, nil
}
