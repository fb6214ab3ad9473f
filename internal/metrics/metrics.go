package metrics

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

var (
	// API 请求计数器
	apiRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "path", "status"},
	)

	// API 请求响应时间
	apiRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// 流程创建数
	processesCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "offboarding_processes_created_total",
			Help: "Total number of offboarding processes created",
		},
	)

	// 流程关闭数
	processesClosedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "offboarding_processes_closed_total",
			Help: "Total number of offboarding processes closed",
		},
	)

	// 任务完成数
	tasksCompletedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "checklist_tasks_completed_total",
			Help: "Total number of checklist tasks completed",
		},
	)

	// 提醒扫描轮数
	sweepRunsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reminder_sweep_runs_total",
			Help: "Total number of reminder sweep runs",
		},
	)

	// 数据库连接数
	databaseConnectionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "database_connections_active",
			Help: "Number of active database connections",
		},
	)

	databaseConnectionsIdle = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "database_connections_idle",
			Help: "Number of idle database connections",
		},
	)

	databaseConnectionsMax = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "database_connections_max",
			Help: "Maximum number of database connections",
		},
	)

	// 流程状态分布
	processesByStatus = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "offboarding_processes_by_status",
			Help: "Number of offboarding processes by status",
		},
		[]string{"status"},
	)
)

var (
	once sync.Once
)

func init() {
	// 注册指标
	prometheus.MustRegister(apiRequestsTotal)
	prometheus.MustRegister(apiRequestDuration)
	prometheus.MustRegister(processesCreatedTotal)
	prometheus.MustRegister(processesClosedTotal)
	prometheus.MustRegister(tasksCompletedTotal)
	prometheus.MustRegister(sweepRunsTotal)
	prometheus.MustRegister(databaseConnectionsActive)
	prometheus.MustRegister(databaseConnectionsIdle)
	prometheus.MustRegister(databaseConnectionsMax)
	prometheus.MustRegister(processesByStatus)

	// 注册 Go 运行时指标（只注册一次）
	once.Do(func() {
		// 尝试注册 Go 运行时指标，如果已注册则忽略错误
		_ = prometheus.Register(prometheus.NewGoCollector())
		_ = prometheus.Register(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	})
}

// Handler 返回 Prometheus 指标处理器
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordAPIRequest 记录 API 请求
func RecordAPIRequest(method, path string, status int, duration float64) {
	statusText := http.StatusText(status)
	if statusText == "" {
		statusText = fmt.Sprintf("%d", status)
	}
	apiRequestsTotal.WithLabelValues(method, path, statusText).Inc()
	apiRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// RecordProcessCreated 记录流程创建
func RecordProcessCreated() {
	processesCreatedTotal.Inc()
}

// RecordProcessClosed 记录流程关闭
func RecordProcessClosed() {
	processesClosedTotal.Inc()
}

// RecordTaskCompleted 记录任务完成
func RecordTaskCompleted() {
	tasksCompletedTotal.Inc()
}

// RecordSweepRun 记录提醒扫描
func RecordSweepRun() {
	sweepRunsTotal.Inc()
}

// UpdateDatabaseConnections 更新数据库连接数指标
func UpdateDatabaseConnections(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	stats := sqlDB.Stats()
	databaseConnectionsActive.Set(float64(stats.OpenConnections - stats.Idle))
	databaseConnectionsIdle.Set(float64(stats.Idle))
	databaseConnectionsMax.Set(float64(stats.MaxOpenConnections))

	return nil
}

// UpdateProcessesByStatus 更新流程状态分布指标
func UpdateProcessesByStatus(status string, count float64) {
	processesByStatus.WithLabelValues(status).Set(count)
}
