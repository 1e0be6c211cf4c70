package middleware

import (
	"net/http"
	"strconv"

	"github.com/akolanti/NotesAPI/internal/adapter/utils"
	"github.com/akolanti/NotesAPI/internal/config"
	"github.com/akolanti/NotesAPI/internal/metrics"
	"github.com/akolanti/NotesAPI/pkg/logger_i"
	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
}

type Config struct {
	JWTSecret    string
	AuthDisabled bool
	RateLimit    rate.Limit
	Burst        int
}

func DefaultConfig(jwtSecret string, authDisabled bool) Config {
	return Config{
		JWTSecret:    jwtSecret,
		AuthDisabled: authDisabled,
		RateLimit:    rate.Limit(config.RATE_LIMIT_PER_SECOND),
		Burst:        config.BURST_RATE_LIMIT_PER_SECOND,
	}
}

// Middleware runs every request through trace injection, authentication and
// per-IP rate limiting before the handler, and records request metrics.
type Middleware struct {
	auth    *Authenticator
	limiter *IPRateLimiter
}

func New(cfg Config) *Middleware {
	return &Middleware{
		auth:    NewAuthenticator(cfg.JWTSecret, cfg.AuthDisabled),
		limiter: NewIPRateLimiter(cfg.RateLimit, cfg.Burst),
	}
}

func (m *Middleware) Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: http.StatusOK} //metrics
		re := m.processRequest(requestResponseStruct{req: r, writer: rec})

		if !handleBadRequest(re) {
			metrics.HttpRequestsTotal.WithLabelValues(routePattern(re.req), strconv.Itoa(rec.Status)).Inc()
			return
		}
		next(rec, re.req)

		metrics.HttpRequestsTotal.WithLabelValues(routePattern(re.req), strconv.Itoa(rec.Status)).Inc() //metrics
	}
}

// Public only injects the trace id. Used for health checks.
func (m *Middleware) Public(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		re := injectTrace(requestResponseStruct{req: r, writer: w, logger: logger_i.NewLogger("middleware")})
		if !handleBadRequest(re) {
			return
		}
		next(w, re.req)
	}
}

func (m *Middleware) processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")
	re.logger.Debug("New request received", "method", re.req.Method, "path", re.req.URL.Path)

	for _, step := range []func(requestResponseStruct) requestResponseStruct{
		injectTrace,
		m.rateLimiter,
		m.authenticate,
	} {
		re = step(re)
		if re.badRequest.isBadRequest {
			return re
		}
	}
	return re
}

// routePattern keeps the metric label cardinality bounded by ids in paths.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return utils.UnmatchedRoute
}
