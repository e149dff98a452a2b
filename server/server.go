// Package server implements the optional transpile-cache HTTP service
// (SPEC_FULL.md §B.1): a chi-routed front end over internal/transpiler that
// hashes submitted sources and serves repeat submissions from a dao.Store
// cache instead of re-running the pass pipeline.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dekarrin/czar/server/api"
	"github.com/dekarrin/czar/server/backend"
	"github.com/dekarrin/czar/server/middle"
	"github.com/dekarrin/czar/server/serr"
	"github.com/go-chi/chi/v5"
)

// Server is a running instance of the transpile-cache service.
type Server struct {
	router  chi.Router
	backend backend.Service
	addr    string
}

// New builds a Server from cfg, opening the persistence layer named by
// cfg.DB and mounting every /api/v1 route.
func New(cfg Config) (*Server, error) {
	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	store, err := cfg.DB.Connect()
	if err != nil {
		return nil, fmt.Errorf("connect to DB: %w", err)
	}

	svc := backend.Service{DB: store, CacheDSN: cfg.DB.Type.String()}

	a := api.API{
		Backend:         svc,
		TranspileConfig: cfg.TranspileConfig,
		UnauthDelay:     cfg.UnauthDelay(),
		Secret:          cfg.TokenSecret,
	}

	r := chi.NewRouter()
	r.Use(middle.DontPanic())

	r.Route(api.PathPrefix, func(r chi.Router) {
		r.Get("/info", a.HTTPGetInfo())

		r.Post("/admin/login", a.HTTPCreateLogin())
		r.Post("/transpiles", a.HTTPCreateTranspile())
		r.Get("/transpiles/{id}", a.HTTPGetTranspile())

		r.Group(func(r chi.Router) {
			r.Use(middle.RequireAuth(store.Admins(), cfg.TokenSecret, cfg.UnauthDelay()))
			r.Post("/admin/token", a.HTTPCreateToken())
			r.Delete("/cache", a.HTTPDeleteCache())
			r.Get("/stats", a.HTTPGetStats())
		})
	})

	return &Server{router: r, backend: svc, addr: ""}, nil
}

// Bootstrap creates a new admin account with the given username and
// password so there is always someone who can call the admin-only
// endpoints. If an account with that username already exists, Bootstrap
// does nothing and returns nil.
func (s *Server) Bootstrap(ctx context.Context, username, password string) error {
	_, err := s.backend.CreateAdmin(ctx, username, password)
	if err != nil && !errors.Is(err, serr.ErrAlreadyExists) {
		return fmt.Errorf("create initial admin account: %w", err)
	}
	return nil
}

// ServeForever blocks, listening on addr (e.g. ":8080" or "192.168.0.2:6001").
func (s *Server) ServeForever(addr string) error {
	s.addr = addr
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return srv.ListenAndServe()
}
