package httpapi

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pntools/pkg/types"
)

// Service defines the methods required by the HTTP API layer. Errors that
// implement HTTPError choose the response status.
type Service interface {
	Channels() types.ChannelsResponse
	Channel(key string) (types.Channel, error)
	ClearChannel(key string) (int, error)
	Files(units string) (types.FilesResponse, error)
}

// NewMux builds the introspection API. The routes are described in
// internal/httpapi/docs for the swagger build.
func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger)
	r.Use(MetricsMiddleware)
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
			MaxAge:         300,
		}))
	}

	r.Group(func(r chi.Router) {
		r.Use(inflight)

		r.Get("/channels", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, svc.Channels())
		})

		// Keys contain slashes (module paths), so the whole remainder of the
		// path is the key. Clients may percent-encode it.
		r.Get("/channels/*", func(w http.ResponseWriter, r *http.Request) {
			key, ok := channelKeyParam(w, r)
			if !ok {
				return
			}
			ch, err := svc.Channel(key)
			if err != nil {
				writeJSONError(w, statusFor(err), err.Error())
				return
			}
			writeJSON(w, ch)
		})

		r.Delete("/channels/*", func(w http.ResponseWriter, r *http.Request) {
			key, ok := channelKeyParam(w, r)
			if !ok {
				return
			}
			n, err := svc.ClearChannel(key)
			if err != nil {
				writeJSONError(w, statusFor(err), err.Error())
				return
			}
			channelsClearedTotal.Inc()
			if zlog != nil {
				zlog.Info().Str("channel", key).Int("receivers", n).Msg("channel cleared")
			}
			w.WriteHeader(http.StatusNoContent)
		})

		r.Get("/files", func(w http.ResponseWriter, r *http.Request) {
			resp, err := svc.Files(r.URL.Query().Get("units"))
			if err != nil {
				writeJSONError(w, statusFor(err), err.Error())
				return
			}
			writeJSON(w, resp)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, types.HealthResponse{Status: "ok"})
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)
	return r
}

func channelKeyParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	raw := chi.URLParam(r, "*")
	key, err := url.PathUnescape(raw)
	if err != nil || strings.TrimSpace(key) == "" {
		writeJSONError(w, http.StatusBadRequest, "missing or malformed channel key")
		return "", false
	}
	return key, true
}
