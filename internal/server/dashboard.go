package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultTrendMonths = 6
	defaultRankLimit   = 5
)

func (s *Server) DashboardOverview(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	resp, err := s.dashboardSvc.Overview(c.Request.Context(), p)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"overview": resp.Overview})
}

func (s *Server) DashboardTrend(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	months := queryInt(c, "months", defaultTrendMonths)
	resp, err := s.dashboardSvc.RevenueTrend(c.Request.Context(), p, months)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"points": resp.Points})
}

func (s *Server) DashboardTopCollectors(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	limit := queryInt(c, "limit", defaultRankLimit)
	resp, err := s.dashboardSvc.TopCollectors(c.Request.Context(), p, limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"collectors": resp.Collectors})
}

func (s *Server) DashboardTopDistricts(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	limit := queryInt(c, "limit", defaultRankLimit)
	resp, err := s.dashboardSvc.TopDistricts(c.Request.Context(), p, limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"districts": resp.Districts})
}

func (s *Server) DashboardDistribution(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	resp, err := s.dashboardSvc.RevenueTypeDistribution(c.Request.Context(), p)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shares": resp.Shares})
}

func (s *Server) DashboardRegionalOverview(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	resp, err := s.dashboardSvc.RegionalOverview(c.Request.Context(), p)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"region": resp.Region, "districts": resp.Districts})
}

func (s *Server) DashboardCollectorPerformance(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	resp, err := s.dashboardSvc.CollectorPerformance(c.Request.Context(), p)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"collectors": resp.Collectors})
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw, ok := c.GetQuery(name)
	if !ok {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
