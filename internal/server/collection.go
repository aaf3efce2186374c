package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	collectiondomain "github.com/localgov-gh/revhub/internal/collection/domain"
	"github.com/localgov-gh/revhub/internal/jurisdiction"
	"github.com/localgov-gh/revhub/internal/store"
)

type createCollectionRequest struct {
	BusinessID    string     `json:"business_id"`
	RevenueTypeID string     `json:"revenue_type_id"`
	Amount        int64      `json:"amount"`
	PaymentMethod string     `json:"payment_method"`
	Date          *time.Time `json:"date"`
	Notes         string     `json:"notes"`
}

func (s *Server) ListCollections(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	scoped := jurisdiction.Filter(s.store.Resolver(), p, s.store.Collections())
	c.JSON(http.StatusOK, gin.H{"collections": scoped})
}

func (s *Server) CreateCollection(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req createCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	businessID, err := parseID(req.BusinessID)
	if err != nil {
		AbortWithError(c, newValidationError("business_id", "invalid_business_id", "invalid business id"))
		return
	}
	revenueTypeID, err := parseID(req.RevenueTypeID)
	if err != nil {
		AbortWithError(c, newValidationError("revenue_type_id", "invalid_revenue_type_id", "invalid revenue type id"))
		return
	}

	business, found := s.store.FindBusiness(businessID)
	if !found {
		AbortWithError(c, collectiondomain.ErrInvalidBusiness)
		return
	}
	if !s.store.Resolver().InScope(p, business) {
		AbortWithError(c, jurisdiction.ErrScopeDenied)
		return
	}

	draft := store.CollectionDraft{
		BusinessID:    businessID,
		RevenueTypeID: revenueTypeID,
		CollectorID:   p.UserID,
		Amount:        req.Amount,
		PaymentMethod: collectiondomain.PaymentMethod(req.PaymentMethod),
		Notes:         req.Notes,
	}
	if req.Date != nil {
		draft.Date = *req.Date
	}

	entity, pending, err := s.store.CreateCollection(c.Request.Context(), draft)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if err := pending.Err(); err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "Collection recorded", "Payment collected from "+business.Name,
		"payment", entity.ID.String(), entity.District)
	c.JSON(http.StatusOK, gin.H{"collection": entity})
}

type updateCollectionRequest struct {
	Amount        *int64  `json:"amount"`
	PaymentMethod *string `json:"payment_method"`
	Notes         *string `json:"notes"`
}

// UpdateCollection corrects a pending payment record; once validated the
// record is frozen.
func (s *Server) UpdateCollection(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid collection id"))
		return
	}

	var req updateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	existing, found := s.store.FindCollection(id)
	if !found {
		AbortWithError(c, collectiondomain.ErrNotFound)
		return
	}
	if !s.store.Resolver().InScope(p, existing) {
		AbortWithError(c, jurisdiction.ErrScopeDenied)
		return
	}

	patch := store.CollectionPatch{
		Amount: req.Amount,
		Notes:  req.Notes,
	}
	if req.PaymentMethod != nil {
		method := collectiondomain.PaymentMethod(*req.PaymentMethod)
		patch.PaymentMethod = &method
	}

	entity, pending, err := s.store.UpdateCollection(c.Request.Context(), id, patch)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if err := pending.Err(); err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "Collection updated", "Receipt "+entity.ReceiptCode+" corrected",
		"payment", entity.ID.String(), entity.District)
	c.JSON(http.StatusOK, gin.H{"collection": entity})
}

func (s *Server) ValidateCollection(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid collection id"))
		return
	}

	existing, found := s.store.FindCollection(id)
	if !found {
		AbortWithError(c, collectiondomain.ErrNotFound)
		return
	}
	if !s.store.Resolver().InScope(p, existing) {
		AbortWithError(c, jurisdiction.ErrScopeDenied)
		return
	}

	entity, pending, err := s.store.ValidateCollection(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if err := pending.Err(); err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "Collection validated", "Receipt "+entity.ReceiptCode+" validated",
		"payment", entity.ID.String(), entity.District)
	c.JSON(http.StatusOK, gin.H{"collection": entity})
}
