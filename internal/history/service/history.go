package service

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/leadpilot/leadpilot-backend/internal/auth/middleware"
	"github.com/leadpilot/leadpilot-backend/internal/history/biz"
	"github.com/leadpilot/leadpilot-backend/internal/pkg/response"
	"go.uber.org/zap"
)

type HistoryService struct {
	uc     *biz.HistoryUseCase
	logger *zap.Logger
}

func NewHistoryService(uc *biz.HistoryUseCase, logger *zap.Logger) *HistoryService {
	return &HistoryService{uc: uc, logger: logger}
}

func (s *HistoryService) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "missing authentication")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	searches, err := s.uc.List(c.Request.Context(), userID, limit)
	if err != nil {
		s.logger.Error("failed to list search history", zap.String("user_id", userID), zap.Error(err))
		response.HandleError(c, err)
		return
	}

	response.Success(c, gin.H{"searches": searches})
}

func (s *HistoryService) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "missing authentication")
		return
	}

	if err := s.uc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		response.HandleError(c, err)
		return
	}

	response.SuccessWithMessage(c, "search deleted", nil)
}

func (s *HistoryService) RegisterRoutes(r *gin.RouterGroup) {
	history := r.Group("/searches")
	{
		history.GET("", s.List)
		history.DELETE("/:id", s.Delete)
	}
}
