// Package api serves stored benchmark run history over HTTP.
package api

import (
	"errors"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stellarlinkco/benchlab/internal/store"
)

type Server struct {
	router *gin.Engine
	store  store.Store
}

func NewServer(st store.Store) (*Server, error) {
	if st == nil {
		return nil, errors.New("api: nil store")
	}

	r := gin.New()
	s := &Server{router: r, store: st}
	s.registerMiddleware()
	if err := s.registerRoutes(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) Run(addr string) error {
	if s == nil || s.router == nil {
		return errors.New("api: nil server")
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		addr = ":8080"
	}
	return s.router.Run(addr)
}

func (s *Server) registerRoutes() error {
	if s == nil || s.router == nil {
		return nil
	}

	api := s.router.Group("/api")
	apiKey := strings.TrimSpace(os.Getenv("BENCHLAB_API_KEY"))
	if apiKey != "" {
		api.Use(apiKeyAuthMiddleware(apiKey))
	} else if strings.EqualFold(strings.TrimSpace(os.Getenv("BENCHLAB_DISABLE_AUTH")), "true") {
		// Explicitly allow unauthenticated access.
	} else {
		return errors.New("api: missing auth configuration: set BENCHLAB_API_KEY or set BENCHLAB_DISABLE_AUTH=true")
	}

	api.GET("/health", s.handleHealth)
	api.GET("/runs", s.handleListRuns)
	api.GET("/runs/:id", s.handleGetRun)
	api.GET("/runs/:id/reports", s.handleGetReports)

	return nil
}
