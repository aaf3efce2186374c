package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	auditdomain "github.com/localgov-gh/revhub/internal/audit/domain"
	"github.com/localgov-gh/revhub/internal/auditcontext"
	"github.com/localgov-gh/revhub/internal/jurisdiction"
	"github.com/localgov-gh/revhub/internal/store"
)

func (s *Server) ListAuditLogs(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	scoped := jurisdiction.Filter(s.store.Resolver(), p, s.store.AuditLogs())
	c.JSON(http.StatusOK, gin.H{"audit_logs": scoped})
}

// audit appends a trail entry for a mutation that already succeeded.
// The append is fire-through; a failed persist of the trail entry never
// fails the request it describes.
func (s *Server) audit(c *gin.Context, action, details string, entityType auditdomain.EntityType, entityID, district string) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}

	_, _ = s.store.AppendAudit(c.Request.Context(), store.AuditDraft{
		UserID:     p.UserID,
		UserName:   p.Name,
		UserRole:   string(p.Role),
		Action:     action,
		Details:    details,
		EntityType: entityType,
		EntityID:   entityID,
		District:   district,
		IPAddress:  auditcontext.IPAddressFromContext(c.Request.Context()),
	})
}
