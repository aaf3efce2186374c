package server

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/localgov-gh/revhub/internal/auditcontext"
	"github.com/localgov-gh/revhub/internal/principal"
)

// Identity headers supplied by the upstream auth gateway. The console
// core trusts them; authentication itself happens before requests reach
// this process.
const (
	HeaderUserID       = "X-User-Id"
	HeaderUserName     = "X-User-Name"
	HeaderUserRole     = "X-User-Role"
	HeaderUserRegion   = "X-User-Region"
	HeaderUserDistrict = "X-User-District"

	contextPrincipalKey = "principal"
)

// PrincipalRequired resolves the caller's identity headers into a
// Principal. Requests without a valid role are refused outright.
func (s *Server) PrincipalRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(HeaderUserID))
		rawRole := strings.TrimSpace(c.GetHeader(HeaderUserRole))
		if userID == "" || rawRole == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		role, err := principal.ParseRole(rawRole)
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		p := principal.Principal{
			UserID:   userID,
			Name:     strings.TrimSpace(c.GetHeader(HeaderUserName)),
			Role:     role,
			Region:   strings.TrimSpace(c.GetHeader(HeaderUserRegion)),
			District: strings.TrimSpace(c.GetHeader(HeaderUserDistrict)),
		}

		if s.limiter != nil && !s.limiter.Allow(p.UserID) {
			AbortWithError(c, ErrTooManyRequests)
			return
		}

		ctx := auditcontext.WithActor(c.Request.Context(), p.UserID, p.Name, string(p.Role))
		ctx = auditcontext.WithIPAddress(ctx, c.ClientIP())
		c.Request = c.Request.WithContext(ctx)

		c.Set(contextPrincipalKey, p)
		c.Next()
	}
}

// RequirePermission gates a route on the caller's role permission set.
func (s *Server) RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := currentPrincipal(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if !p.HasPermission(permission) {
			AbortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}

func currentPrincipal(c *gin.Context) (principal.Principal, bool) {
	value, ok := c.Get(contextPrincipalKey)
	if !ok {
		return principal.Principal{}, false
	}
	p, ok := value.(principal.Principal)
	return p, ok
}
