package service

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsradar-ai/newsradar/app/core"
)

func TestApiErrorCounter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := core.NewMetrics("newsradar", "router_test")

	engine := gin.New()
	engine.Use(apiErrorCounter(m))
	engine.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.GET("/boom", func(c *gin.Context) { c.Status(http.StatusBadRequest) })

	for _, path := range []string{"/ok", "/boom"} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	var got float64
	for _, family := range families {
		if family.GetName() != "newsradar_router_test_api_error" {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "status" && label.GetValue() == "400" {
					got = metric.GetCounter().GetValue()
				}
			}
		}
	}
	// 只有错误响应被计数，/ok 不产生样本
	assert.Equal(t, float64(1), got)
}
