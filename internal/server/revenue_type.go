package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	revenuedomain "github.com/localgov-gh/revhub/internal/revenue/domain"
	"github.com/localgov-gh/revhub/internal/store"
)

type createRevenueTypeRequest struct {
	Name          string `json:"name"`
	DefaultAmount int64  `json:"default_amount"`
	Frequency     string `json:"frequency"`
	Description   string `json:"description"`
	Category      string `json:"category"`
}

// ListRevenueTypes returns the global levy catalog; revenue types have
// no owning district so every authenticated role sees the same list.
func (s *Server) ListRevenueTypes(c *gin.Context) {
	if _, ok := currentPrincipal(c); !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	c.JSON(http.StatusOK, gin.H{"revenue_types": s.store.RevenueTypes()})
}

func (s *Server) CreateRevenueType(c *gin.Context) {
	if _, ok := currentPrincipal(c); !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req createRevenueTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	frequency := revenuedomain.Frequency(req.Frequency)
	switch frequency {
	case revenuedomain.FrequencyDaily, revenuedomain.FrequencyWeekly,
		revenuedomain.FrequencyMonthly, revenuedomain.FrequencyQuarterly,
		revenuedomain.FrequencyYearly, revenuedomain.FrequencyOneTime:
	default:
		AbortWithError(c, newValidationError("frequency", "invalid_frequency", "invalid frequency"))
		return
	}

	entity, pending, err := s.store.CreateRevenueType(c.Request.Context(), store.RevenueTypeDraft{
		Name:          req.Name,
		DefaultAmount: req.DefaultAmount,
		Frequency:     frequency,
		Description:   req.Description,
		Category:      req.Category,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if err := pending.Err(); err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "Revenue type created", "Revenue type "+entity.Name+" added to the catalog",
		"system", entity.ID.String(), "")
	c.JSON(http.StatusOK, gin.H{"revenue_type": entity})
}
