package httpserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"parliament-interests/internal/config"
	"parliament-interests/internal/transport/httpserver/handler"
	"parliament-interests/internal/transport/httpserver/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, mcpServer http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.NewCORS(strings.Split(cfg.FrontendHost, ",")))

	r.Get("/", handlers.Root)
	r.Get("/health", handlers.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/members/search", handlers.SearchMembers)
	r.Get("/members/{member_id}/interests", handlers.MemberInterests)
	r.Get("/interests/search", handlers.SearchInterests)
	r.Get("/party/search", handlers.SearchParty)

	if mcpServer != nil {
		r.Post("/mcp", mcpServer.ServeHTTP)
	}

	return r
}
