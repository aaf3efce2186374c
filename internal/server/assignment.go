package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	"github.com/localgov-gh/revhub/internal/jurisdiction"
	"github.com/localgov-gh/revhub/internal/store"
)

type createAssignmentRequest struct {
	CollectorID string     `json:"collector_id"`
	BusinessID  string     `json:"business_id"`
	Zone        string     `json:"zone"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	District    string     `json:"district"`
}

func (s *Server) ListAssignments(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	scoped := jurisdiction.Filter(s.store.Resolver(), p, s.store.Assignments())
	c.JSON(http.StatusOK, gin.H{"assignments": scoped})
}

func (s *Server) CreateAssignment(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req createAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	district := strings.TrimSpace(req.District)
	if district == "" {
		district = p.District
	}
	if p.Role.DistrictScoped() && district != p.District {
		AbortWithError(c, jurisdiction.ErrScopeDenied)
		return
	}

	var businessID snowflake.ID
	if strings.TrimSpace(req.BusinessID) != "" {
		parsed, err := parseID(req.BusinessID)
		if err != nil {
			AbortWithError(c, newValidationError("business_id", "invalid_business_id", "invalid business id"))
			return
		}
		businessID = parsed
	}

	draft := store.AssignmentDraft{
		CollectorID: req.CollectorID,
		BusinessID:  businessID,
		Zone:        req.Zone,
		EndDate:     req.EndDate,
		AssignedBy:  p.UserID,
		District:    district,
	}
	if req.StartDate != nil {
		draft.StartDate = *req.StartDate
	}

	entity, pending, err := s.store.CreateAssignment(c.Request.Context(), draft)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if err := pending.Err(); err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "Collector assigned", "Collector "+entity.CollectorID+" assigned in "+entity.District,
		"assignment", entity.ID.String(), entity.District)
	c.JSON(http.StatusOK, gin.H{"assignment": entity})
}
