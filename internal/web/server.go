// Package web serves the reconciliation review API: run summaries,
// unresolved binders and unlinked amendments for manual follow-up.
package web

import (
	"github.com/gin-gonic/gin"

	"github.com/indexedakki/vectors-medtech/internal/pipeline"
)

// Server is the review web server
type Server struct {
	result *pipeline.Result
	router *gin.Engine
}

// NewServer creates a review server over a completed pipeline run.
func NewServer(result *pipeline.Result) *Server {
	router := gin.Default()

	s := &Server{
		result: result,
		router: router,
	}

	api := router.Group("/api")
	{
		api.GET("/summary", s.handleSummary)
		api.GET("/binders", s.handleBinders)
		api.GET("/amendments/unlinked", s.handleUnlinkedAmendments)
		api.GET("/customers", s.handleCustomers)
	}

	return s
}

// Run starts the web server
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}
