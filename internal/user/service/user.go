package service

import (
	"github.com/gin-gonic/gin"
	"github.com/leadpilot/leadpilot-backend/internal/auth/middleware"
	"github.com/leadpilot/leadpilot-backend/internal/pkg/response"
	"github.com/leadpilot/leadpilot-backend/internal/user/biz"
	"go.uber.org/zap"
)

type UserService struct {
	uc     *biz.UserUseCase
	logger *zap.Logger
}

func NewUserService(uc *biz.UserUseCase, logger *zap.Logger) *UserService {
	return &UserService{uc: uc, logger: logger}
}

type ProfileResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	SubscriptionTier   string `json:"subscription_tier"`
	SubscriptionStatus string `json:"subscription_status"`
	TrialEndsAt        string `json:"trial_ends_at,omitempty"`
	CreatedAt          string `json:"created_at"`
}

type UpdateProfileRequest struct {
	Name string `json:"name" binding:"required"`
}

func (s *UserService) GetMe(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "missing authentication")
		return
	}

	user, err := s.uc.GetProfile(c.Request.Context(), userID)
	if err != nil {
		s.logger.Error("failed to load profile", zap.String("user_id", userID), zap.Error(err))
		response.HandleError(c, err)
		return
	}

	response.Success(c, s.toResponse(user))
}

func (s *UserService) UpdateMe(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "missing authentication")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := s.uc.UpdateProfile(c.Request.Context(), userID, req.Name); err != nil {
		s.logger.Error("failed to update profile", zap.String("user_id", userID), zap.Error(err))
		response.HandleError(c, err)
		return
	}

	response.SuccessWithMessage(c, "profile updated", nil)
}

func (s *UserService) GetUsage(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "missing authentication")
		return
	}

	usage, err := s.uc.GetUsage(c.Request.Context(), userID)
	if err != nil {
		s.logger.Error("failed to load usage", zap.String("user_id", userID), zap.Error(err))
		response.HandleError(c, err)
		return
	}

	response.Success(c, usage)
}

func (s *UserService) toResponse(user *biz.User) *ProfileResponse {
	resp := &ProfileResponse{
		ID:                 user.ID,
		Name:               user.Name,
		Email:              user.Email,
		SubscriptionTier:   user.SubscriptionTier,
		SubscriptionStatus: user.SubscriptionStatus,
		CreatedAt:          user.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if user.TrialEndsAt != nil {
		resp.TrialEndsAt = user.TrialEndsAt.Format("2006-01-02 15:04:05")
	}
	return resp
}

func (s *UserService) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.GET("/me", s.GetMe)
		users.PATCH("/me", s.UpdateMe)
		users.GET("/me/usage", s.GetUsage)
	}
}
