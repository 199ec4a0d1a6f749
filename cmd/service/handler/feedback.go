package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/newsradar-ai/newsradar/app/logic/v1"
	"github.com/newsradar-ai/newsradar/app/response"
	"github.com/newsradar-ai/newsradar/pkg/errors"
	"github.com/newsradar-ai/newsradar/pkg/i18n"
	"github.com/newsradar-ai/newsradar/pkg/utils"
)

type CreateFeedbackRequest struct {
	Query   string   `json:"query" binding:"required"`
	Answer  string   `json:"answer"`
	Sources []string `json:"sources" binding:"required"`
	Reward  *int     `json:"reward" binding:"required"`
}

// CreateFeedback 记录一次用户反馈
func (s *HttpSrv) CreateFeedback(c *gin.Context) {
	var req CreateFeedbackRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, errors.New("CreateFeedback.BindArgsWithGin", i18n.ERROR_INVALIDARGUMENT, err).Code(http.StatusBadRequest))
		return
	}

	event, err := v1.NewFeedbackLogic(c.Request.Context(), s.Core).Record(req.Query, req.Answer, req.Sources, *req.Reward)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, event)
}

// FeedbackStats 各来源的臂统计
func (s *HttpSrv) FeedbackStats(c *gin.Context) {
	stats, totalPulls := v1.NewFeedbackLogic(c.Request.Context(), s.Core).Stats()

	response.APISuccess(c, gin.H{
		"list":        stats,
		"total_pulls": totalPulls,
	})
}

type ListFeedbackRequest struct {
	Page     uint64 `json:"page" form:"page"`
	PageSize uint64 `json:"pagesize" form:"pagesize"`
}

// ListFeedback 分页读取反馈日志
func (s *HttpSrv) ListFeedback(c *gin.Context) {
	var req ListFeedbackRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, errors.New("ListFeedback.BindArgsWithGin", i18n.ERROR_INVALIDARGUMENT, err).Code(http.StatusBadRequest))
		return
	}
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 || req.PageSize > 100 {
		req.PageSize = 20
	}

	list, total, err := v1.NewFeedbackLogic(c.Request.Context(), s.Core).ListEvents(req.Page, req.PageSize)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, gin.H{
		"list":  list,
		"total": total,
	})
}
