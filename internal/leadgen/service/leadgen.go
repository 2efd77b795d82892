package service

import (
	"fmt"

	analyticsbiz "github.com/leadpilot/leadpilot-backend/internal/analytics/biz"
	"github.com/gin-gonic/gin"
	"github.com/leadpilot/leadpilot-backend/internal/auth/middleware"
	historybiz "github.com/leadpilot/leadpilot-backend/internal/history/biz"
	"github.com/leadpilot/leadpilot-backend/internal/leadgen/biz"
	"github.com/leadpilot/leadpilot-backend/internal/leadgen/types"
	"github.com/leadpilot/leadpilot-backend/internal/pkg/response"
	userbiz "github.com/leadpilot/leadpilot-backend/internal/user/biz"
	"go.uber.org/zap"
)

// LeadgenService exposes the lead search and city autocomplete endpoints
type LeadgenService struct {
	search    *biz.LeadSearchUseCase
	users     *userbiz.UserUseCase
	history   *historybiz.HistoryUseCase
	analytics *analyticsbiz.AnalyticsUseCase
	logger    *zap.Logger
}

func NewLeadgenService(
	search *biz.LeadSearchUseCase,
	users *userbiz.UserUseCase,
	history *historybiz.HistoryUseCase,
	analytics *analyticsbiz.AnalyticsUseCase,
	logger *zap.Logger,
) *LeadgenService {
	return &LeadgenService{
		search:    search,
		users:     users,
		history:   history,
		analytics: analytics,
		logger:    logger,
	}
}

type SearchRequest struct {
	Keyword       string `json:"keyword" binding:"required"`
	City          string `json:"city" binding:"required"`
	Comprehensive bool   `json:"comprehensive"`
}

type SearchResponse struct {
	Leads     []types.Lead `json:"leads"`
	Simulated bool         `json:"simulated"`
	TookMs    int64        `json:"took_ms"`
}

func (s *LeadgenService) Search(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "missing authentication")
		return
	}

	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	// Plan limits and the comprehensive gate are checked before any
	// provider call is made
	if err := s.users.ConsumeSearch(c.Request.Context(), userID, req.Comprehensive); err != nil {
		response.HandleError(c, err)
		return
	}

	result := s.search.SearchLeads(c.Request.Context(), types.SearchQuery{
		Keyword:       req.Keyword,
		City:          req.City,
		Comprehensive: req.Comprehensive,
	})

	withoutWebsite := biz.CountWithoutWebsite(result.Leads)

	s.history.Record(c.Request.Context(), &historybiz.SavedSearch{
		UserID:              userID,
		Keyword:             req.Keyword,
		City:                req.City,
		Comprehensive:       req.Comprehensive,
		ResultsCount:        len(result.Leads),
		LeadsWithoutWebsite: withoutWebsite,
		Simulated:           result.Simulated,
	})

	s.analytics.Record(c.Request.Context(), userID, analyticsbiz.ActivitySearch,
		fmt.Sprintf("Searched for %s in %s", req.Keyword, req.City),
		map[string]interface{}{
			"keyword":       req.Keyword,
			"city":          req.City,
			"results":       len(result.Leads),
			"comprehensive": req.Comprehensive,
		})

	response.Success(c, SearchResponse{
		Leads:     result.Leads,
		Simulated: result.Simulated,
		TookMs:    result.Took.Milliseconds(),
	})
}

func (s *LeadgenService) AutocompleteCities(c *gin.Context) {
	input := c.Query("input")
	suggestions := s.search.AutocompleteCities(c.Request.Context(), input)
	response.Success(c, gin.H{"suggestions": suggestions})
}

func (s *LeadgenService) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/leads/search", s.Search)
	r.GET("/cities/autocomplete", s.AutocompleteCities)
}
