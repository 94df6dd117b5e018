package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HealthHandler interface {
	Healthz(w http.ResponseWriter, r *http.Request)
	Readyz(w http.ResponseWriter, r *http.Request)
}

type AuthHandler interface {
	SignUp(w http.ResponseWriter, r *http.Request)
	SignIn(w http.ResponseWriter, r *http.Request)

	GetProfile(w http.ResponseWriter, r *http.Request)
	UpdateProfile(w http.ResponseWriter, r *http.Request)
	DeleteProfile(w http.ResponseWriter, r *http.Request)

	UpdateProfileImage(w http.ResponseWriter, r *http.Request)
	UploadImage(w http.ResponseWriter, r *http.Request)
}

type Deps struct {
	Health HealthHandler
	Auth   AuthHandler

	// Uploads serves locally stored images; nil when a bucket is configured.
	Uploads http.HandlerFunc

	RequestIDMW func(http.Handler) http.Handler
	AccessLogMW func(http.Handler) http.Handler
	MetricsMW   func(http.Handler) http.Handler
	AuthMW      func(http.Handler) http.Handler

	// optional rate limits; nil disables
	RLSignUp      func(http.Handler) http.Handler
	RLSignIn      func(http.Handler) http.Handler
	RLUploadImage func(http.Handler) http.Handler

	// ClientURL is the allowed CORS origin; "" or "*" allows any.
	ClientURL string
}

func New(deps Deps) (http.Handler, error) {
	if deps.Health == nil {
		return nil, fmt.Errorf("nil Health handler")
	}
	if deps.Auth == nil {
		return nil, fmt.Errorf("nil Auth handler")
	}
	if deps.AuthMW == nil {
		return nil, fmt.Errorf("nil Auth middleware")
	}

	r := chi.NewRouter()

	if deps.RequestIDMW != nil {
		r.Use(deps.RequestIDMW)
	}
	if deps.AccessLogMW != nil {
		r.Use(deps.AccessLogMW)
	}
	if deps.MetricsMW != nil {
		r.Use(deps.MetricsMW)
	}
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(corsOptions(deps.ClientURL)))

	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)
	r.Handle("/metrics", promhttp.Handler())

	if deps.Uploads != nil {
		r.Get("/uploads/*", deps.Uploads)
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.With(optional(deps.RLSignUp)...).Post("/signup", deps.Auth.SignUp)
		r.With(optional(deps.RLSignIn)...).Post("/signin", deps.Auth.SignIn)
		r.With(optional(deps.RLUploadImage)...).Post("/upload-image", deps.Auth.UploadImage)

		r.Group(func(r chi.Router) {
			r.Use(deps.AuthMW)

			r.Get("/profile", deps.Auth.GetProfile)
			r.Put("/profile", deps.Auth.UpdateProfile)
			r.Delete("/profile", deps.Auth.DeleteProfile)
			r.Put("/profile-image", deps.Auth.UpdateProfileImage)
		})
	})

	return r, nil
}

func corsOptions(clientURL string) cors.Options {
	origins := []string{"*"}
	if clientURL != "" && clientURL != "*" {
		origins = []string{clientURL}
	}
	return cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		ExposedHeaders: []string{"X-Request-Id", "Retry-After"},
		MaxAge:         300,
	}
}

func optional(mws ...func(http.Handler) http.Handler) []func(http.Handler) http.Handler {
	out := make([]func(http.Handler) http.Handler, 0, len(mws))
	for _, mw := range mws {
		if mw != nil {
			out = append(out, mw)
		}
	}
	return out
}
