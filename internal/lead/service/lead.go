package service

import (
	"fmt"
	"strconv"

	analyticsbiz "github.com/leadpilot/leadpilot-backend/internal/analytics/biz"
	"github.com/gin-gonic/gin"
	"github.com/leadpilot/leadpilot-backend/internal/auth/middleware"
	"github.com/leadpilot/leadpilot-backend/internal/lead/biz"
	"github.com/leadpilot/leadpilot-backend/internal/pkg/response"
	"go.uber.org/zap"
)

type LeadService struct {
	uc        *biz.LeadUseCase
	analytics *analyticsbiz.AnalyticsUseCase
	logger    *zap.Logger
}

func NewLeadService(uc *biz.LeadUseCase, analytics *analyticsbiz.AnalyticsUseCase, logger *zap.Logger) *LeadService {
	return &LeadService{uc: uc, analytics: analytics, logger: logger}
}

type SaveLeadRequest struct {
	BusinessName  string   `json:"business_name" binding:"required"`
	Address       string   `json:"address"`
	Phone         string   `json:"phone"`
	Category      string   `json:"category"`
	City          string   `json:"city"`
	HasWebsite    bool     `json:"has_website"`
	WebsiteURL    string   `json:"website_url"`
	GoogleMapsURL string   `json:"google_maps_url"`
	Rating        *float64 `json:"rating"`
	Reviews       int      `json:"reviews"`
	Notes         string   `json:"notes"`
	Tags          []string `json:"tags"`
}

type BulkSaveRequest struct {
	Leads []SaveLeadRequest `json:"leads" binding:"required"`
}

type UpdateLeadRequest struct {
	Status *string  `json:"status"`
	Notes  *string  `json:"notes"`
	Tags   []string `json:"tags"`
}

func (req *SaveLeadRequest) toLead() *biz.SavedLead {
	return &biz.SavedLead{
		BusinessName:  req.BusinessName,
		Address:       req.Address,
		Phone:         req.Phone,
		Category:      req.Category,
		City:          req.City,
		HasWebsite:    req.HasWebsite,
		WebsiteURL:    req.WebsiteURL,
		GoogleMapsURL: req.GoogleMapsURL,
		Rating:        req.Rating,
		Reviews:       req.Reviews,
		Notes:         req.Notes,
		Tags:          req.Tags,
	}
}

func (s *LeadService) Save(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "missing authentication")
		return
	}

	var req SaveLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	lead, err := s.uc.Save(c.Request.Context(), userID, req.toLead())
	if err != nil {
		response.HandleError(c, err)
		return
	}

	s.analytics.Record(c.Request.Context(), userID, analyticsbiz.ActivitySaveLead,
		fmt.Sprintf("Saved lead %q", lead.BusinessName),
		map[string]interface{}{"lead_id": lead.ID, "city": lead.City})

	response.Created(c, lead)
}

func (s *LeadService) BulkSave(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "missing authentication")
		return
	}

	var req BulkSaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	leads := make([]*biz.SavedLead, 0, len(req.Leads))
	for i := range req.Leads {
		leads = append(leads, req.Leads[i].toLead())
	}

	saved, err := s.uc.SaveBatch(c.Request.Context(), userID, leads)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	s.analytics.Record(c.Request.Context(), userID, analyticsbiz.ActivitySaveLead,
		fmt.Sprintf("Saved %d leads", len(saved)),
		map[string]interface{}{"count": len(saved)})

	response.Created(c, gin.H{"leads": saved, "count": len(saved)})
}

func (s *LeadService) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "missing authentication")
		return
	}

	filter := s.parseFilter(c)

	leads, total, err := s.uc.List(c.Request.Context(), userID, filter)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, gin.H{"leads": leads, "total": total})
}

func (s *LeadService) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "missing authentication")
		return
	}

	lead, err := s.uc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, lead)
}

func (s *LeadService) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "missing authentication")
		return
	}

	var req UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	lead, err := s.uc.Update(c.Request.Context(), userID, c.Param("id"), biz.LeadUpdate{
		Status: req.Status,
		Notes:  req.Notes,
		Tags:   req.Tags,
	})
	if err != nil {
		response.HandleError(c, err)
		return
	}

	if req.Status != nil {
		s.analytics.Record(c.Request.Context(), userID, analyticsbiz.ActivityStatusChange,
			fmt.Sprintf("Marked %q as %s", lead.BusinessName, *req.Status),
			map[string]interface{}{"lead_id": lead.ID, "status": *req.Status})
	}

	response.Success(c, lead)
}

func (s *LeadService) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "missing authentication")
		return
	}

	if err := s.uc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		response.HandleError(c, err)
		return
	}

	response.SuccessWithMessage(c, "lead deleted", nil)
}

func (s *LeadService) Export(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "missing authentication")
		return
	}

	export, err := s.uc.ExportCSV(c.Request.Context(), userID, s.parseFilter(c))
	if err != nil {
		response.HandleError(c, err)
		return
	}

	s.analytics.Record(c.Request.Context(), userID, analyticsbiz.ActivityExport,
		fmt.Sprintf("Exported %d leads to CSV", export.Count),
		map[string]interface{}{"count": export.Count})

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	c.Data(200, "text/csv", export.Content)
}

func (s *LeadService) parseFilter(c *gin.Context) biz.ListFilter {
	filter := biz.ListFilter{
		Status: c.Query("status"),
		City:   c.Query("city"),
		Search: c.Query("search"),
	}
	if v := c.Query("has_website"); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			filter.HasWebsite = &b
		}
	}
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	return filter
}

func (s *LeadService) RegisterRoutes(r *gin.RouterGroup) {
	leads := r.Group("/leads")
	{
		leads.POST("/saved", s.Save)
		leads.POST("/saved/bulk", s.BulkSave)
		leads.GET("/saved", s.List)
		leads.GET("/saved/export", s.Export)
		leads.GET("/saved/:id", s.Get)
		leads.PATCH("/saved/:id", s.Update)
		leads.DELETE("/saved/:id", s.Delete)
	}
}
