package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	businessdomain "github.com/localgov-gh/revhub/internal/business/domain"
	"github.com/localgov-gh/revhub/internal/jurisdiction"
	"github.com/localgov-gh/revhub/internal/store"
)

type createBusinessRequest struct {
	Name            string `json:"name"`
	OwnerName       string `json:"owner_name"`
	Category        string `json:"category"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	GPSLocation     string `json:"gps_location"`
	PhysicalAddress string `json:"physical_address"`
	BusinessLicense string `json:"business_license"`
	TINNumber       string `json:"tin_number"`
	District        string `json:"district"`
}

func (s *Server) ListBusinesses(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	scoped := jurisdiction.Filter(s.store.Resolver(), p, s.store.Businesses())
	c.JSON(http.StatusOK, gin.H{"businesses": scoped})
}

func (s *Server) CreateBusiness(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req createBusinessRequest
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

	entity, pending, err := s.store.CreateBusiness(c.Request.Context(), store.BusinessDraft{
		Name:            req.Name,
		OwnerName:       req.OwnerName,
		Category:        req.Category,
		Phone:           req.Phone,
		Email:           req.Email,
		GPSLocation:     req.GPSLocation,
		PhysicalAddress: req.PhysicalAddress,
		BusinessLicense: req.BusinessLicense,
		TINNumber:       req.TINNumber,
		District:        district,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if err := pending.Err(); err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "Business registered", "New business "+entity.Name+" registered",
		"business", entity.ID.String(), entity.District)
	c.JSON(http.StatusOK, gin.H{"business": entity})
}

type updateBusinessRequest struct {
	Name            *string    `json:"name"`
	OwnerName       *string    `json:"owner_name"`
	Category        *string    `json:"category"`
	Phone           *string    `json:"phone"`
	Email           *string    `json:"email"`
	PhysicalAddress *string    `json:"physical_address"`
	Status          *string    `json:"status"`
	LastPayment     *time.Time `json:"last_payment"`
	BusinessLicense *string    `json:"business_license"`
	TINNumber       *string    `json:"tin_number"`
}

func (s *Server) UpdateBusiness(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid business id"))
		return
	}

	existing, found := s.store.FindBusiness(id)
	if !found {
		AbortWithError(c, businessdomain.ErrNotFound)
		return
	}
	if !s.store.Resolver().InScope(p, existing) {
		AbortWithError(c, jurisdiction.ErrScopeDenied)
		return
	}

	var req updateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	patch := store.BusinessPatch{
		Name:            req.Name,
		OwnerName:       req.OwnerName,
		Category:        req.Category,
		Phone:           req.Phone,
		Email:           req.Email,
		PhysicalAddress: req.PhysicalAddress,
		LastPayment:     req.LastPayment,
		BusinessLicense: req.BusinessLicense,
		TINNumber:       req.TINNumber,
	}
	if req.Status != nil {
		status := businessdomain.BusinessStatus(*req.Status)
		switch status {
		case businessdomain.BusinessStatusActive, businessdomain.BusinessStatusPending,
			businessdomain.BusinessStatusInactive, businessdomain.BusinessStatusSuspended:
			patch.Status = &status
		default:
			AbortWithError(c, newValidationError("status", "invalid_status", "invalid business status"))
			return
		}
	}

	entity, pending, err := s.store.UpdateBusiness(c.Request.Context(), id, patch)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if err := pending.Err(); err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "Business updated", "Business "+entity.Name+" updated",
		"business", entity.ID.String(), entity.District)
	c.JSON(http.StatusOK, gin.H{"business": entity})
}

func parseID(raw string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(raw))
}
