package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/felixge/httpsnoop"
	"go.uber.org/zap"

	"github.com/kitbuilder587/guru-api/internal/ratelimit"
)

func (h *Handler) rateLimit(route string, next http.Handler) http.Handler {
	if h.limiter == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := h.keyFn(r)

		res, err := h.limiter.Allow(r.Context(), key)
		if err != nil {
			h.logger.Error("rate limit store failed, letting request through",
				zap.Error(err),
				zap.String("client", key),
			)
			if h.metrics != nil {
				h.metrics.RecordRateLimitError()
			}
			next.ServeHTTP(w, r)
			return
		}

		h.recordStats(r, key, res.Allowed)

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

		if !res.Allowed {
			retryAfter := res.RetryAfter(time.Now())
			w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))

			h.limitWarn.Do(func() {
				h.logger.Warn("rate limit exceeded",
					zap.String("client", key),
					zap.Time("reset_at", res.ResetAt),
				)
			})
			if h.metrics != nil {
				h.metrics.RecordRateLimitHit(route)
			}

			writeError(w, http.StatusTooManyRequests, msgTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// статистика best effort, ошибки пишем только в debug
func (h *Handler) recordStats(r *http.Request, key string, allowed bool) {
	if h.stats == nil {
		return
	}

	err := h.stats.Record(r.Context(), ratelimit.StatsEvent{
		Key:     key,
		Allowed: allowed,
		Method:  r.Method,
		Path:    r.URL.Path,
		At:      time.Now(),
	})
	if err != nil {
		h.logger.Debug("failed to record rate limit stats", zap.Error(err))
	}
}

func (h *Handler) instrument(route string, next http.Handler) http.Handler {
	if h.metrics == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.metrics.IncRequestsInFlight()
		defer h.metrics.DecRequestsInFlight()

		m := httpsnoop.CaptureMetrics(next, w, r)
		h.metrics.RecordRequest(route, strconv.Itoa(m.Code), m.Duration)
	})
}

// recoverer keeps a panicking handler from taking the process down and
// answers with the generic server error.
func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				h.logger.Error("panic in request handler",
					zap.Any("panic", rec),
					zap.String("path", r.URL.Path),
				)
				writeError(w, http.StatusInternalServerError, msgInternalError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
