package server

import (
	"net/http"
	"strconv"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	recalcdomain "github.com/jewelleryos/aurum/internal/recalc/domain"
)

type triggerRecalculationRequest struct {
	Source      string        `json:"source"`
	TriggeredBy *snowflake.ID `json:"triggered_by"`
}

// TriggerRecalculation enqueues a full-catalog recalculation and returns the
// job immediately; processing happens in the background.
func (s *Server) TriggerRecalculation(c *gin.Context) {
	var req triggerRecalculationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	source := req.Source
	if source == "" {
		source = recalcdomain.TriggerSourceManual
	}

	job, err := s.scheduler.Trigger(c.Request.Context(), source, req.TriggeredBy)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"data": job})
}

func (s *Server) ListRecalculationJobs(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 100 {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		limit = parsed
	}

	jobs, err := s.jobs.List(c.Request.Context(), limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": jobs})
}

func (s *Server) GetRecalculationJob(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	job, err := s.jobs.FindByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if job == nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": job})
}
