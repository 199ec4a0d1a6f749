package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/newsradar-ai/newsradar/app/core"
)

type HttpSrv struct {
	Core   *core.Core
	Engine *gin.Engine
}
