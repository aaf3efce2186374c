package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	districtdomain "github.com/localgov-gh/revhub/internal/district/domain"
	"github.com/localgov-gh/revhub/internal/principal"
	"github.com/localgov-gh/revhub/internal/store"
)

type createDistrictRequest struct {
	Name       string `json:"name"`
	Region     string `json:"region"`
	AdminName  string `json:"admin_name"`
	AdminEmail string `json:"admin_email"`
	Phone      string `json:"phone"`
}

type updateDistrictStatusRequest struct {
	Status string `json:"status"`
}

// ListDistricts returns the assembly catalog. The catalog is global
// reference data, so no jurisdiction filter applies; a regional admin
// still only sees figures for their own region elsewhere.
func (s *Server) ListDistricts(c *gin.Context) {
	if _, ok := currentPrincipal(c); !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	c.JSON(http.StatusOK, gin.H{"districts": s.store.Districts()})
}

func (s *Server) CreateDistrict(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req createDistrictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	region := req.Region
	// A regional admin can only onboard assemblies under their own region.
	if p.Role == principal.RoleRegionalAdmin {
		region = p.Region
	}

	entity, pending, err := s.store.CreateDistrict(c.Request.Context(), store.DistrictDraft{
		Name:       req.Name,
		Region:     region,
		AdminName:  req.AdminName,
		AdminEmail: req.AdminEmail,
		Phone:      req.Phone,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if err := pending.Err(); err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "District onboarded", "Assembly "+entity.Name+" onboarded under "+entity.Region,
		"district", entity.ID.String(), entity.Name)
	c.JSON(http.StatusOK, gin.H{"district": entity})
}

func (s *Server) UpdateDistrictStatus(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid district id"))
		return
	}

	var req updateDistrictStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	status := districtdomain.DistrictStatus(req.Status)
	switch status {
	case districtdomain.DistrictStatusActive, districtdomain.DistrictStatusInactive,
		districtdomain.DistrictStatusSuspended:
	default:
		AbortWithError(c, newValidationError("status", "invalid_status", "invalid district status"))
		return
	}

	if p.Role == principal.RoleRegionalAdmin {
		existing := findDistrict(s.store.Districts(), id)
		if existing == nil {
			AbortWithError(c, districtdomain.ErrNotFound)
			return
		}
		if existing.Region != p.Region {
			AbortWithError(c, ErrForbidden)
			return
		}
	}

	entity, pending, err := s.store.UpdateDistrictStatus(c.Request.Context(), id, status)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if err := pending.Err(); err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "District status changed", "Assembly "+entity.Name+" marked "+string(entity.Status),
		"district", entity.ID.String(), entity.Name)
	c.JSON(http.StatusOK, gin.H{"district": entity})
}

func findDistrict(districts []districtdomain.District, id snowflake.ID) *districtdomain.District {
	for i := range districts {
		if districts[i].ID == id {
			return &districts[i]
		}
	}
	return nil
}
