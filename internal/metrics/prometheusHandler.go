package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var countFilesInQueue = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "count_files_in_queue",
	Help: "Number of files waiting for a worker",
})

var dispatchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "file_dispatch_total",
	Help: "Processing dispatches labelled by path (pool, queue, inline_fallback)",
}, []string{"path"})

var activeWorkerCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "active_worker_count",
	Help: "Number of active workers",
})

var filesProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "files_processed_total",
	Help: "Files that reached a terminal status",
}, []string{"status"})

var degradedStagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "extraction_degraded_total",
	Help: "Extractions that produced partial or empty output, by file type",
}, []string{"type"})

var llmCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "llm_calls_total",
	Help: "Model calls labelled by outcome",
}, []string{"outcome"})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

func IncrementFilesInQueue() {
	countFilesInQueue.Inc()
}

func DecrementFilesInQueue() {
	countFilesInQueue.Dec()
}

func CaptureDispatch(path string) {
	dispatchTotal.WithLabelValues(path).Inc()
}

func IncrementActiveWorkerCount() {
	activeWorkerCount.Inc()
}
func DecrementActiveWorkerCount() {
	activeWorkerCount.Dec()
}

func CaptureFileProcessed(status string) {
	filesProcessedTotal.WithLabelValues(status).Inc()
}

func CaptureDegraded(fileType string) {
	degradedStagesTotal.WithLabelValues(fileType).Inc()
}

func CaptureLLMCall(outcome string) {
	llmCallsTotal.WithLabelValues(outcome).Inc()
}

var processDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "process_file_duration_seconds",
	Help:    "Total time spent processing one file.",
	Buckets: []float64{.1, .5, 1, 2, 5, 10, 30, 60, 120, 300},
}, []string{"status"})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of external service calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10},
}, []string{"service"})

var stageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "extraction_stage_duration_seconds",
	Help:    "Time spent in each extraction stage, by file type.",
	Buckets: []float64{.05, .25, 1, 5, 15, 60, 180},
}, []string{"type"})

func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	dependencyLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

func CaptureProcessMetrics(status string, timeElapsed time.Duration) {
	processDuration.WithLabelValues(status).Observe(timeElapsed.Seconds())
}

func CaptureStageMetrics(fileType string, timeElapsed time.Duration) {
	stageDuration.WithLabelValues(fileType).Observe(timeElapsed.Seconds())
}
