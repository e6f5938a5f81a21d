package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"kuisin/internal/functions"
)

// maxBodyBytes bounds a function request body.
const maxBodyBytes = 1 << 20

// AllowedHeaders are the request headers browsers may send to the functions.
var AllowedHeaders = []string{"authorization", "x-client-info", "apikey", "content-type"}

// Invoker runs one function call.
type Invoker interface {
	Invoke(ctx context.Context, resource, authorization string, body []byte) (int, functions.Envelope)
}

// CORSOptions returns permissive options in development and origin-pinned ones otherwise.
func CORSOptions(development bool, allowedOrigins []string) cors.Options {
	origins := allowedOrigins
	if development {
		origins = []string{"*"}
	}
	return cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodPost, http.MethodOptions},
		AllowedHeaders: AllowedHeaders,
		MaxAge:         300,
	}
}

// NewRouter exposes every resource under POST /functions/v1/{resource}.
func NewRouter(inv Invoker, corsOpts cors.Options, logger *slog.Logger) http.Handler {
	router := mux.NewRouter()
	router.Use(accessLog(logger))

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	fn := &functionHandler{inv: inv}
	router.HandleFunc("/functions/v1/{resource}", fn.serve).Methods(http.MethodPost, http.MethodOptions)

	return cors.New(corsOpts).Handler(router)
}

type functionHandler struct {
	inv Invoker
}

func (h *functionHandler) serve(w http.ResponseWriter, r *http.Request) {
	// Preflights carrying Access-Control-Request-Method are answered by the CORS
	// layer; any other OPTIONS lands here.
	if r.Method == http.MethodOptions {
		w.Write([]byte("ok"))
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeEnvelope(w, http.StatusBadRequest, functions.Envelope{Error: "could not read request body"})
		return
	}
	status, env := h.inv.Invoke(r.Context(), mux.Vars(r)["resource"], r.Header.Get("Authorization"), body)
	writeEnvelope(w, status, env)
}

func writeEnvelope(w http.ResponseWriter, status int, env functions.Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func accessLog(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start),
			)
		})
	}
}
