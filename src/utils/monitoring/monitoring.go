package monitoring

import (
	"github.com/tendeko/closer/src/utils/monitoring/report"
	"github.com/tendeko/closer/src/utils/task"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Monitor stores and serves runtime counters.
type Monitor interface {
	GetTask() *task.Task
	GetReport() *report.Report
	GetPrometheusCollector() prometheus.Collector
	IsOK() bool
	OnGetState(c *gin.Context)
	OnGetHealth(c *gin.Context)
}
