package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goliatone/go-txcache/pipeline"
	"github.com/goliatone/go-txcache/pkg/logger"
)

const healthTimeout = 2 * time.Second

func (s *Server) updates(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.FromContext(ctx)

	var u pipeline.Update
	if err := c.ShouldBindJSON(&u); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	if _, ok := u.From(); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported_update"})
		return
	}

	rec := &pipeline.Recorder{}
	err := s.handler.Handle(ctx, &u, rec)
	switch {
	case err == nil:
	case errors.Is(err, pipeline.ErrNoRoute):
		log.Debug("No route for update", "update_id", u.UpdateID)
	default:
		// Details are already logged by the pipeline.
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"replies": rec.Replies()})
}

func (s *Server) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	status := http.StatusOK
	results := make(gin.H, len(s.checks))
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			logger.FromContext(ctx).Warn("Health check failed", "check", name, "error", err)
			results[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}
	c.JSON(status, gin.H{"status": http.StatusText(status), "checks": results})
}
