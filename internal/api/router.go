// Mural - Social Networking Backend
// Copyright 2026 Mural Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muralsocial/mural

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/muralsocial/mural/internal/auth"
	"github.com/muralsocial/mural/internal/config"
	"github.com/muralsocial/mural/internal/middleware"
)

// Router assembles the HTTP surface.
type Router struct {
	handler *Handler
	authMW  *auth.Middleware
	cfg     *config.Config
}

// NewRouter creates the router over the wired handler.
func NewRouter(handler *Handler, authMW *auth.Middleware, cfg *config.Config) *Router {
	return &Router{handler: handler, authMW: authMW, cfg: cfg}
}

// Setup builds the chi route tree.
//
// Layering: request id and panic recovery wrap everything; CORS is
// global so OPTIONS preflights succeed; rate limits and authentication
// apply per route group. The feed and all data endpoints require a
// bearer token; health, metrics, and media downloads do not.
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.cfg.Security.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "ETag"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus scrape endpoint, outside the API prefix.
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(httprate.LimitByIP(1000, rt.cfg.Security.RateLimitWindow))
		r.Get("/", rt.handler.Health)
		r.Get("/live", rt.handler.HealthLive)
		r.Get("/ready", rt.handler.HealthReady)
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(httprate.LimitByIP(rt.cfg.Security.RateLimitReqs, rt.cfg.Security.RateLimitWindow))
		r.Use(middleware.PrometheusMetrics)
		r.Use(middleware.Compression)

		r.Post("/register", rt.handler.Register)

		// Stricter budget against credential stuffing.
		r.With(httprate.LimitByIP(
			rt.cfg.Security.LoginRateLimitReqs,
			rt.cfg.Security.LoginRateLimitWindow,
		)).Post("/login", rt.handler.Login)
	})

	// Media downloads are public: keys are unguessable UUIDs and image
	// URLs are embedded in feed payloads consumed by browsers.
	r.Route("/api/v1/media", func(r chi.Router) {
		r.Use(httprate.LimitByIP(rt.cfg.Security.RateLimitReqs, rt.cfg.Security.RateLimitWindow))
		r.Use(middleware.PrometheusMetrics)

		r.Get("/*", rt.handler.DownloadMedia)

		r.Group(func(r chi.Router) {
			r.Use(rt.authMW.Authenticate)
			r.Post("/", rt.handler.UploadMedia)
			r.Delete("/*", rt.handler.DeleteMedia)
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.LimitByIP(rt.cfg.Security.RateLimitReqs, rt.cfg.Security.RateLimitWindow))
		r.Use(middleware.PrometheusMetrics)
		r.Use(middleware.Compression)
		r.Use(rt.authMW.Authenticate)

		r.Get("/feed", rt.handler.GetFeed)

		r.Route("/profiles", func(r chi.Router) {
			r.Get("/me", rt.handler.GetOwnProfile)
			r.Patch("/me", rt.handler.UpdateOwnProfile)
			r.Delete("/me", rt.handler.DeleteOwnProfile)
			r.Get("/{id}", rt.handler.GetProfile)
			r.Get("/{id}/posts", rt.handler.GetProfilePosts)
			r.Get("/{id}/followers", rt.handler.GetFollowers)
			r.Get("/{id}/following", rt.handler.GetFollowing)
			r.Post("/{id}/follow", rt.handler.Follow)
			r.Delete("/{id}/follow", rt.handler.Unfollow)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Post("/", rt.handler.CreatePost)
			r.Get("/{id}", rt.handler.GetPost)
			r.Delete("/{id}", rt.handler.DeletePost)
			r.Post("/{id}/like", rt.handler.LikePost)
			r.Delete("/{id}/like", rt.handler.UnlikePost)
		})

		r.Route("/events", func(r chi.Router) {
			r.Post("/", rt.handler.CreateEvent)
			r.Get("/", rt.handler.ListEvents)
		})

		r.Route("/products", func(r chi.Router) {
			r.Post("/", rt.handler.CreateProduct)
			r.Get("/", rt.handler.ListProducts)
		})
	})

	return r
}
