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

type AskRequest struct {
	Query string `json:"query" binding:"required"`
	TopK  int    `json:"top_k"`
}

// Ask 检索并生成带引用的回答
func (s *HttpSrv) Ask(c *gin.Context) {
	var req AskRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, errors.New("Ask.BindArgsWithGin", i18n.ERROR_INVALIDARGUMENT, err).Code(http.StatusBadRequest))
		return
	}

	timer := s.Core.Metrics().ApiResponseTimer("/api/v1/ask")
	defer timer.ObserveDuration()

	result, err := v1.NewAskLogic(c.Request.Context(), s.Core).Ask(req.Query, req.TopK)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, result)
}

// Retrieve 只做检索重排，不请求生成模型
func (s *HttpSrv) Retrieve(c *gin.Context) {
	var req AskRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, errors.New("Retrieve.BindArgsWithGin", i18n.ERROR_INVALIDARGUMENT, err).Code(http.StatusBadRequest))
		return
	}

	ranked, err := v1.NewRetrievalLogic(c.Request.Context(), s.Core).Retrieve(req.Query, req.TopK)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, gin.H{
		"list":  ranked,
		"total": len(ranked),
	})
}
