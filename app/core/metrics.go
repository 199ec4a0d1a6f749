package core

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/newsradar-ai/newsradar/pkg/metrics"
)

type Metrics struct {
	apiResponseTime *prometheus.HistogramVec
	apiErrorCounter *prometheus.CounterVec
	retrievalTime   *prometheus.HistogramVec
	embeddingTime   *prometheus.HistogramVec
	composeTime     *prometheus.HistogramVec
	ingestArticles  *prometheus.CounterVec
	feedbackCounter *prometheus.CounterVec
	aiErrorCounter  *prometheus.CounterVec
}

func NewMetrics(ns, system string) *Metrics {
	// setup metric
	metrics.SetupMetricsManager(ns, system, prometheus.DefaultRegisterer.(*prometheus.Registry))

	m := &Metrics{
		apiResponseTime: metrics.NewHistogramVec("api_response_time", []string{"api"}),
		apiErrorCounter: metrics.NewCounterVec("api_error", []string{"method", "api", "status"}),
		retrievalTime:   metrics.NewHistogramVec("retrieval_time", nil),
		embeddingTime:   metrics.NewHistogramVec("embedding_time", []string{"target"}),
		composeTime:     metrics.NewHistogramVec("compose_time", nil),
		ingestArticles:  metrics.NewCounterVec("ingest_articles", []string{"stage"}),
		feedbackCounter: metrics.NewCounterVec("feedback_events", []string{"reward"}),
		aiErrorCounter:  metrics.NewCounterVec("ai_error", []string{"type"}),
	}

	return m
}

func (m *Metrics) ApiResponseTimer(api string) *prometheus.Timer {
	return prometheus.NewTimer(m.apiResponseTime.WithLabelValues(api))
}

func (m *Metrics) ApiErrorInc(method, api string, status int) {
	m.apiErrorCounter.WithLabelValues(method, api, strconv.Itoa(status)).Inc()
}

func (m *Metrics) RetrievalTimer() *prometheus.Timer {
	return prometheus.NewTimer(m.retrievalTime.WithLabelValues())
}

func (m *Metrics) EmbeddingTimer(target string) *prometheus.Timer {
	return prometheus.NewTimer(m.embeddingTime.WithLabelValues(target))
}

func (m *Metrics) ComposeTimer() *prometheus.Timer {
	return prometheus.NewTimer(m.composeTime.WithLabelValues())
}

func (m *Metrics) IngestArticlesAdd(stage string, n int) {
	m.ingestArticles.WithLabelValues(stage).Add(float64(n))
}

func (m *Metrics) FeedbackInc(reward int) {
	m.feedbackCounter.WithLabelValues(strconv.Itoa(reward)).Inc()
}

func (m *Metrics) AIErrorInc(types string) {
	m.aiErrorCounter.WithLabelValues(types).Inc()
}
