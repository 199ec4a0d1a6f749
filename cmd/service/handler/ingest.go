package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/newsradar-ai/newsradar/app/logic/v1"
	"github.com/newsradar-ai/newsradar/app/response"
)

// TriggerIngest 手动触发一轮摄取，同步等待流水线结束
func (s *HttpSrv) TriggerIngest(c *gin.Context) {
	report, err := v1.NewIngestLogic(c.Request.Context(), s.Core).Ingest()
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, report)
}
