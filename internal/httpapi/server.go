// Package httpapi is the request gateway: it exposes POST /api/ask, applies
// CORS and the per-client rate limit, and maps service results onto the JSON
// envelopes callers expect.
package httpapi

import (
	"net/http"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kitbuilder587/guru-api/internal/metrics"
	"github.com/kitbuilder587/guru-api/internal/ratelimit"
	"github.com/kitbuilder587/guru-api/internal/service"
)

const (
	routeAsk     = "ask"
	maxBodyBytes = 100 << 10
)

type Deps struct {
	Asker      service.AskService
	Limiter    *ratelimit.Limiter
	Stats      ratelimit.StatsRecorder
	Logger     *zap.Logger
	Metrics    *metrics.Metrics
	TrustProxy bool
	// KeyFn overrides how the client identity is derived.
	KeyFn KeyFunc
}

type Handler struct {
	asker   service.AskService
	limiter *ratelimit.Limiter
	stats   ratelimit.StatsRecorder
	logger  *zap.Logger
	metrics *metrics.Metrics
	keyFn   KeyFunc

	// one warning per second is enough when a client hammers the endpoint
	limitWarn rate.Sometimes
}

func New(deps Deps) *Handler {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.KeyFn == nil {
		deps.KeyFn = ClientKey(deps.TrustProxy)
	}

	return &Handler{
		asker:     deps.Asker,
		limiter:   deps.Limiter,
		stats:     deps.Stats,
		logger:    deps.Logger,
		metrics:   deps.Metrics,
		keyFn:     deps.KeyFn,
		limitWarn: rate.Sometimes{Interval: time.Second},
	}
}

// Routes returns the full handler tree. CORS sits outermost so preflight
// requests are answered before the limiter sees them. The limiter covers
// every method on /api/ask, the method check runs after it.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	ask := h.rateLimit(routeAsk, onlyMethod(http.MethodPost, h.handleAsk))
	mux.Handle("/api/ask", h.instrument(routeAsk, h.recoverer(ask)))
	mux.HandleFunc("GET /healthz", h.handleHealth)

	return cors.AllowAll().Handler(mux)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func onlyMethod(method string, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.Header().Set("Allow", method)
			writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
			return
		}
		next(w, r)
	})
}
