package api

import (
	"net/http"

	"coffee-bff/internal/auth"
	"coffee-bff/internal/telemetry"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

type RouterOptions struct {
	Auth        *auth.Middleware
	StaticDir   string
	CORSOrigins []string
}

func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	r := mux.NewRouter()
	r.Use(RequestID)
	r.Use(telemetry.Middleware)

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)

	ui := r.PathPrefix("/ui").Subrouter()
	if opts.Auth != nil {
		ui.Use(opts.Auth.ValidateToken)
	}
	ui.HandleFunc("/actions", h.ListActions).Methods(http.MethodGet)
	ui.HandleFunc("/actions/{button}", h.RunAction).Methods(http.MethodGet)
	ui.HandleFunc("/recipes", h.SubmitRecipe).Methods(http.MethodPost)

	if opts.StaticDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(opts.StaticDir))).Methods(http.MethodGet)
	}

	c := cors.New(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	})

	return c.Handler(r)
}
