// Airwave - Radio Playlist Scraping and Analytics
// Copyright 2026 A. Vierling (avierling)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avierling/airwave

// Package api provides the read-only analytics HTTP API over Chi.
//
// The API never takes the write path: all endpoints are aggregation reads,
// so none of them touch the snapshot guard.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/avierling/airwave/internal/config"
)

// Router wires handlers and middleware into an http.Handler.
type Router struct {
	cfg     *config.ServerConfig
	handler *Handler
}

// NewRouter creates the API router.
func NewRouter(cfg *config.ServerConfig, store Store) *Router {
	return &Router{
		cfg:     cfg,
		handler: NewHandler(store),
	}
}

// Setup configures all routes and middleware.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: router.cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.LimitByIP(router.cfg.RateLimitReqs, router.cfg.RateLimitWindow))

		r.Get("/top-songs", router.handler.TopSongs)
		r.Get("/top-artists", router.handler.TopArtists)
		r.Get("/stats", router.handler.Stats)
		r.Get("/health", router.handler.Health)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
