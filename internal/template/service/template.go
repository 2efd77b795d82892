package service

import (
	"fmt"

	analyticsbiz "github.com/leadpilot/leadpilot-backend/internal/analytics/biz"
	"github.com/gin-gonic/gin"
	"github.com/leadpilot/leadpilot-backend/internal/auth/middleware"
	"github.com/leadpilot/leadpilot-backend/internal/pkg/response"
	"github.com/leadpilot/leadpilot-backend/internal/template/biz"
	"go.uber.org/zap"
)

type TemplateService struct {
	uc        *biz.TemplateUseCase
	analytics *analyticsbiz.AnalyticsUseCase
	logger    *zap.Logger
}

func NewTemplateService(uc *biz.TemplateUseCase, analytics *analyticsbiz.AnalyticsUseCase, logger *zap.Logger) *TemplateService {
	return &TemplateService{uc: uc, analytics: analytics, logger: logger}
}

type CreateTemplateRequest struct {
	Name    string `json:"name" binding:"required"`
	Subject string `json:"subject" binding:"required"`
	Body    string `json:"body" binding:"required"`
}

type UpdateTemplateRequest struct {
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type RenderRequest struct {
	LeadID string `json:"lead_id" binding:"required"`
}

type SendRequest struct {
	LeadID string `json:"lead_id" binding:"required"`
	To     string `json:"to" binding:"required,email"`
}

func (s *TemplateService) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "missing authentication")
		return
	}

	var req CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	tpl, err := s.uc.Create(c.Request.Context(), userID, req.Name, req.Subject, req.Body)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Created(c, tpl)
}

func (s *TemplateService) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "missing authentication")
		return
	}

	templates, err := s.uc.List(c.Request.Context(), userID)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, gin.H{"templates": templates})
}

func (s *TemplateService) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "missing authentication")
		return
	}

	tpl, err := s.uc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, tpl)
}

func (s *TemplateService) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "missing authentication")
		return
	}

	var req UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	tpl, err := s.uc.Update(c.Request.Context(), userID, c.Param("id"), req.Name, req.Subject, req.Body)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, tpl)
}

func (s *TemplateService) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "missing authentication")
		return
	}

	if err := s.uc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		response.HandleError(c, err)
		return
	}

	response.SuccessWithMessage(c, "template deleted", nil)
}

// Render previews a template against a saved lead without sending
func (s *TemplateService) Render(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "missing authentication")
		return
	}

	var req RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	subject, body, _, err := s.uc.RenderForLead(c.Request.Context(), userID, c.Param("id"), req.LeadID)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, gin.H{"subject": subject, "body": body})
}

func (s *TemplateService) Send(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "missing authentication")
		return
	}

	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := s.uc.Send(c.Request.Context(), userID, c.Param("id"), req.LeadID, req.To); err != nil {
		response.HandleError(c, err)
		return
	}

	s.analytics.Record(c.Request.Context(), userID, analyticsbiz.ActivityContact,
		fmt.Sprintf("Sent outreach email to %s", req.To),
		map[string]interface{}{"template_id": c.Param("id"), "lead_id": req.LeadID})

	response.SuccessWithMessage(c, "email sent", nil)
}

func (s *TemplateService) RegisterRoutes(r *gin.RouterGroup) {
	templates := r.Group("/templates")
	{
		templates.POST("", s.Create)
		templates.GET("", s.List)
		templates.GET("/:id", s.Get)
		templates.PATCH("/:id", s.Update)
		templates.DELETE("/:id", s.Delete)
		templates.POST("/:id/render", s.Render)
		templates.POST("/:id/send", s.Send)
	}
}
