package service

import (
	"github.com/gin-gonic/gin"
	"github.com/leadpilot/leadpilot-backend/internal/auth/biz"
	"github.com/leadpilot/leadpilot-backend/internal/auth/middleware"
	"github.com/leadpilot/leadpilot-backend/internal/pkg/response"
	"go.uber.org/zap"
)

type AuthService struct {
	uc     *biz.AuthUseCase
	logger *zap.Logger

	loginLimiter    gin.HandlerFunc
	registerLimiter gin.HandlerFunc
}

func NewAuthService(uc *biz.AuthUseCase, logger *zap.Logger, loginLimiter, registerLimiter gin.HandlerFunc) *AuthService {
	return &AuthService{
		uc:              uc,
		logger:          logger,
		loginLimiter:    loginLimiter,
		registerLimiter: registerLimiter,
	}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type AccountResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	SubscriptionTier   string `json:"subscription_tier"`
	SubscriptionStatus string `json:"subscription_status"`
}

type LoginResponse struct {
	User   *AccountResponse `json:"user"`
	Tokens *biz.TokenPair   `json:"tokens"`
}

func (s *AuthService) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	account, err := s.uc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Created(c, toAccountResponse(account))
}

func (s *AuthService) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	account, tokens, err := s.uc.Login(c.Request.Context(), req.Email, req.Password, c.ClientIP())
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, LoginResponse{
		User:   toAccountResponse(account),
		Tokens: tokens,
	})
}

func (s *AuthService) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	tokens, err := s.uc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, tokens)
}

func (s *AuthService) Logout(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "missing authentication")
		return
	}

	if err := s.uc.Logout(c.Request.Context(), userID); err != nil {
		s.logger.Error("logout failed", zap.String("user_id", userID), zap.Error(err))
		response.HandleError(c, err)
		return
	}

	response.SuccessWithMessage(c, "logged out", nil)
}

func toAccountResponse(a *biz.Account) *AccountResponse {
	return &AccountResponse{
		ID:                 a.ID,
		Name:               a.Name,
		Email:              a.Email,
		SubscriptionTier:   a.SubscriptionTier,
		SubscriptionStatus: a.SubscriptionStatus,
	}
}

// RegisterRoutes mounts the public auth endpoints
func (s *AuthService) RegisterRoutes(r *gin.RouterGroup) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", s.registerLimiter, s.Register)
		authGroup.POST("/login", s.loginLimiter, s.Login)
		authGroup.POST("/refresh", s.Refresh)
	}
}

// RegisterProtectedRoutes mounts auth endpoints that require a valid token
func (s *AuthService) RegisterProtectedRoutes(r *gin.RouterGroup) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/logout", s.Logout)
	}
}
