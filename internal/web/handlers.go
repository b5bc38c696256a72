package web

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/indexedakki/vectors-medtech/internal/binder"
)

func (s *Server) handleSummary(c *gin.Context) {
	c.JSON(http.StatusOK, s.result.Summary)
}

// handleBinders lists binders, optionally filtered by ?status=0|1.
func (s *Server) handleBinders(c *gin.Context) {
	binders := s.result.Binders

	if raw := c.Query("status"); raw != "" {
		status, err := strconv.Atoi(raw)
		if err != nil || (status != binder.StatusResolved && status != binder.StatusUnresolved) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status must be 0 or 1"})
			return
		}
		var filtered []binder.Binder
		for _, b := range binders {
			if b.Status == status {
				filtered = append(filtered, b)
			}
		}
		binders = filtered
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   len(binders),
		"binders": binders,
	})
}

func (s *Server) handleUnlinkedAmendments(c *gin.Context) {
	unlinked := s.result.Catalog.UnlinkedAmendments()
	c.JSON(http.StatusOK, gin.H{
		"count":      len(unlinked),
		"amendments": unlinked,
	})
}

func (s *Server) handleCustomers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"count":     len(s.result.Bundle.Customers),
		"customers": s.result.Bundle.Customers,
	})
}
