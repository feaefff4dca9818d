// README: API surface; registers HTTP routes and delegates to the suggestion engine.
package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fieldslot/internal/ai"
	"fieldslot/internal/http/handlers"
	"fieldslot/internal/http/middleware"
	"fieldslot/internal/maps"
	"fieldslot/internal/metrics"
)

type ServerDeps struct {
	Suggest  handlers.Suggester
	Geocoder maps.Geocoder
	Parser   ai.AvailabilityParser
	Location *time.Location
	// APIToken guards the API; empty disables auth.
	APIToken string
}

type Server struct {
	deps ServerDeps
}

func NewServer(deps ServerDeps) *Server {
	return &Server{deps: deps}
}

func (s *Server) Routes() http.Handler {
	r := gin.New()
	r.Use(middleware.Logging(), middleware.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	suggestHandler := handlers.NewSuggestHandler(s.deps.Suggest, s.deps.Geocoder, s.deps.Parser, s.deps.Location)
	api := r.Group("/api", middleware.Auth(s.deps.APIToken))
	api.POST("/suggestions", suggestHandler.Suggest)

	return r
}
