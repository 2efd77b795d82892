package service

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/leadpilot/leadpilot-backend/internal/analytics/biz"
	"github.com/leadpilot/leadpilot-backend/internal/auth/middleware"
	"github.com/leadpilot/leadpilot-backend/internal/pkg/response"
	"go.uber.org/zap"
)

type AnalyticsService struct {
	uc     *biz.AnalyticsUseCase
	logger *zap.Logger
}

func NewAnalyticsService(uc *biz.AnalyticsUseCase, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{uc: uc, logger: logger}
}

func (s *AnalyticsService) GetStats(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "missing authentication")
		return
	}

	stats, err := s.uc.GetStats(c.Request.Context(), userID)
	if err != nil {
		s.logger.Error("failed to load stats", zap.String("user_id", userID), zap.Error(err))
		response.HandleError(c, err)
		return
	}

	response.Success(c, stats)
}

func (s *AnalyticsService) ListActivity(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "missing authentication")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	activities, err := s.uc.ListRecent(c.Request.Context(), userID, limit)
	if err != nil {
		s.logger.Error("failed to load activity", zap.String("user_id", userID), zap.Error(err))
		response.HandleError(c, err)
		return
	}

	response.Success(c, gin.H{"activities": activities})
}

func (s *AnalyticsService) RegisterRoutes(r *gin.RouterGroup) {
	analytics := r.Group("/analytics")
	{
		analytics.GET("/stats", s.GetStats)
		analytics.GET("/activity", s.ListActivity)
	}
}
