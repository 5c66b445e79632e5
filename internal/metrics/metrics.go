package metrics

import (
	"database/sql"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics holds all application metrics
type Metrics struct {
	mu sync.RWMutex

	// Request metrics
	TotalRequests      int64
	SuccessfulRequests int64
	FailedRequests     int64

	// Request latency (in milliseconds)
	TotalLatency int64
	RequestCount int64

	// Task metrics
	TasksCreated int64
	TasksUpdated int64
	TasksDeleted int64

	// Tag metrics
	TagsCreated int64
	TagsDeleted int64

	// AI tool metrics
	EstimatesGenerated int64
	SummariesGenerated int64
	RewritesGenerated  int64

	// Report generation metrics
	ReportsGenerated int64
	ReportErrors     int64

	// WebSocket metrics
	WSConnections int64
	WSMessagesOut int64

	// Authentication metrics
	LoginAttempts  int64
	LoginSuccesses int64
	LoginFailures  int64

	// Cache metrics
	CacheHits   int64
	CacheMisses int64

	// Start time for uptime calculation
	StartTime time.Time

	// Per-endpoint statistics, guarded by mu
	endpoints map[string]*EndpointStats
}

// EndpointStats holds counters for a single route
type EndpointStats struct {
	Count        int64 `json:"count"`
	Errors       int64 `json:"errors"`
	TotalLatency int64 `json:"total_latency_ms"`
}

// global metrics instance
var globalMetrics *Metrics
var once sync.Once

// Init initializes the global metrics instance
func Init() {
	once.Do(func() {
		globalMetrics = &Metrics{
			StartTime: time.Now(),
			endpoints: make(map[string]*EndpointStats),
		}
	})
}

// Get returns the global metrics instance
func Get() *Metrics {
	if globalMetrics == nil {
		Init()
	}
	return globalMetrics
}

// IncrementRequests increments request counters
func (m *Metrics) IncrementRequests(success bool, latencyMs int64) {
	atomic.AddInt64(&m.TotalRequests, 1)
	atomic.AddInt64(&m.TotalLatency, latencyMs)
	atomic.AddInt64(&m.RequestCount, 1)

	if success {
		atomic.AddInt64(&m.SuccessfulRequests, 1)
	} else {
		atomic.AddInt64(&m.FailedRequests, 1)
	}
}

// IncrementTaskCreated increments task creation counter
func (m *Metrics) IncrementTaskCreated() {
	atomic.AddInt64(&m.TasksCreated, 1)
}

// IncrementTaskUpdated increments task update counter
func (m *Metrics) IncrementTaskUpdated() {
	atomic.AddInt64(&m.TasksUpdated, 1)
}

// IncrementTaskDeleted increments task deletion counter
func (m *Metrics) IncrementTaskDeleted() {
	atomic.AddInt64(&m.TasksDeleted, 1)
}

// IncrementTagCreated increments tag creation counter
func (m *Metrics) IncrementTagCreated() {
	atomic.AddInt64(&m.TagsCreated, 1)
}

// IncrementTagDeleted increments tag deletion counter
func (m *Metrics) IncrementTagDeleted() {
	atomic.AddInt64(&m.TagsDeleted, 1)
}

// IncrementEstimateGenerated increments smart estimate counter
func (m *Metrics) IncrementEstimateGenerated() {
	atomic.AddInt64(&m.EstimatesGenerated, 1)
}

// IncrementSummaryGenerated increments smart summary counter
func (m *Metrics) IncrementSummaryGenerated() {
	atomic.AddInt64(&m.SummariesGenerated, 1)
}

// IncrementRewriteGenerated increments smart rewrite counter
func (m *Metrics) IncrementRewriteGenerated() {
	atomic.AddInt64(&m.RewritesGenerated, 1)
}

// IncrementReportGenerated increments report generation counters
func (m *Metrics) IncrementReportGenerated(success bool) {
	if success {
		atomic.AddInt64(&m.ReportsGenerated, 1)
	} else {
		atomic.AddInt64(&m.ReportErrors, 1)
	}
}

// IncrementWSConnection increments WebSocket connection counter
func (m *Metrics) IncrementWSConnection() {
	atomic.AddInt64(&m.WSConnections, 1)
}

// DecrementWSConnection decrements WebSocket connection counter
func (m *Metrics) DecrementWSConnection() {
	atomic.AddInt64(&m.WSConnections, -1)
}

// IncrementWSMessageOut increments WebSocket outgoing message counter
func (m *Metrics) IncrementWSMessageOut() {
	atomic.AddInt64(&m.WSMessagesOut, 1)
}

// IncrementLogin increments login counters
func (m *Metrics) IncrementLogin(success bool) {
	atomic.AddInt64(&m.LoginAttempts, 1)
	if success {
		atomic.AddInt64(&m.LoginSuccesses, 1)
	} else {
		atomic.AddInt64(&m.LoginFailures, 1)
	}
}

// IncrementCacheHit increments cache hit counter
func (m *Metrics) IncrementCacheHit() {
	atomic.AddInt64(&m.CacheHits, 1)
}

// IncrementCacheMiss increments cache miss counter
func (m *Metrics) IncrementCacheMiss() {
	atomic.AddInt64(&m.CacheMisses, 1)
}

// TrackEndpoint records per-endpoint request statistics
func (m *Metrics) TrackEndpoint(path, method string, statusCode int, latencyMs int64) {
	key := method + " " + path

	m.mu.Lock()
	defer m.mu.Unlock()

	stats, ok := m.endpoints[key]
	if !ok {
		stats = &EndpointStats{}
		m.endpoints[key] = stats
	}

	stats.Count++
	stats.TotalLatency += latencyMs
	if statusCode >= 400 {
		stats.Errors++
	}
}

// GetAverageLatency returns average request latency in milliseconds
func (m *Metrics) GetAverageLatency() float64 {
	count := atomic.LoadInt64(&m.RequestCount)
	if count == 0 {
		return 0
	}
	total := atomic.LoadInt64(&m.TotalLatency)
	return float64(total) / float64(count)
}

// GetUptime returns the application uptime
func (m *Metrics) GetUptime() time.Duration {
	return time.Since(m.StartTime)
}

// MetricsSnapshot represents a point-in-time snapshot of all metrics
type MetricsSnapshot struct {
	// Uptime
	UptimeSeconds float64 `json:"uptime_seconds"`
	StartTime     string  `json:"start_time"`

	// Request metrics
	Requests struct {
		Total        int64   `json:"total"`
		Successful   int64   `json:"successful"`
		Failed       int64   `json:"failed"`
		AvgLatencyMs float64 `json:"avg_latency_ms"`
	} `json:"requests"`

	// Task metrics
	Tasks struct {
		Created int64 `json:"created"`
		Updated int64 `json:"updated"`
		Deleted int64 `json:"deleted"`
	} `json:"tasks"`

	// Tag metrics
	Tags struct {
		Created int64 `json:"created"`
		Deleted int64 `json:"deleted"`
	} `json:"tags"`

	// AI tool metrics
	AITools struct {
		Estimates int64 `json:"estimates"`
		Summaries int64 `json:"summaries"`
		Rewrites  int64 `json:"rewrites"`
	} `json:"ai_tools"`

	// Report metrics
	Reports struct {
		Generated int64 `json:"generated"`
		Errors    int64 `json:"errors"`
	} `json:"reports"`

	// WebSocket metrics
	WebSocket struct {
		Connections int64 `json:"connections"`
		MessagesOut int64 `json:"messages_out"`
	} `json:"websocket"`

	// Auth metrics
	Auth struct {
		LoginAttempts  int64 `json:"login_attempts"`
		LoginSuccesses int64 `json:"login_successes"`
		LoginFailures  int64 `json:"login_failures"`
	} `json:"auth"`

	// Cache metrics
	Cache struct {
		Hits   int64 `json:"hits"`
		Misses int64 `json:"misses"`
	} `json:"cache"`

	// Per-endpoint metrics
	Endpoints map[string]EndpointStats `json:"endpoints"`

	// System metrics
	System struct {
		Goroutines   int    `json:"goroutines"`
		HeapAllocMB  uint64 `json:"heap_alloc_mb"`
		HeapInUseMB  uint64 `json:"heap_inuse_mb"`
		StackInUseMB uint64 `json:"stack_inuse_mb"`
		NumGC        uint32 `json:"num_gc"`
	} `json:"system"`
}

// Snapshot returns a point-in-time snapshot of all metrics
func (m *Metrics) Snapshot() MetricsSnapshot {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	snapshot := MetricsSnapshot{}

	snapshot.UptimeSeconds = m.GetUptime().Seconds()
	snapshot.StartTime = m.StartTime.Format(time.RFC3339)

	snapshot.Requests.Total = atomic.LoadInt64(&m.TotalRequests)
	snapshot.Requests.Successful = atomic.LoadInt64(&m.SuccessfulRequests)
	snapshot.Requests.Failed = atomic.LoadInt64(&m.FailedRequests)
	snapshot.Requests.AvgLatencyMs = m.GetAverageLatency()

	snapshot.Tasks.Created = atomic.LoadInt64(&m.TasksCreated)
	snapshot.Tasks.Updated = atomic.LoadInt64(&m.TasksUpdated)
	snapshot.Tasks.Deleted = atomic.LoadInt64(&m.TasksDeleted)

	snapshot.Tags.Created = atomic.LoadInt64(&m.TagsCreated)
	snapshot.Tags.Deleted = atomic.LoadInt64(&m.TagsDeleted)

	snapshot.AITools.Estimates = atomic.LoadInt64(&m.EstimatesGenerated)
	snapshot.AITools.Summaries = atomic.LoadInt64(&m.SummariesGenerated)
	snapshot.AITools.Rewrites = atomic.LoadInt64(&m.RewritesGenerated)

	snapshot.Reports.Generated = atomic.LoadInt64(&m.ReportsGenerated)
	snapshot.Reports.Errors = atomic.LoadInt64(&m.ReportErrors)

	snapshot.WebSocket.Connections = atomic.LoadInt64(&m.WSConnections)
	snapshot.WebSocket.MessagesOut = atomic.LoadInt64(&m.WSMessagesOut)

	snapshot.Auth.LoginAttempts = atomic.LoadInt64(&m.LoginAttempts)
	snapshot.Auth.LoginSuccesses = atomic.LoadInt64(&m.LoginSuccesses)
	snapshot.Auth.LoginFailures = atomic.LoadInt64(&m.LoginFailures)

	snapshot.Cache.Hits = atomic.LoadInt64(&m.CacheHits)
	snapshot.Cache.Misses = atomic.LoadInt64(&m.CacheMisses)

	m.mu.RLock()
	snapshot.Endpoints = make(map[string]EndpointStats, len(m.endpoints))
	for key, stats := range m.endpoints {
		snapshot.Endpoints[key] = *stats
	}
	m.mu.RUnlock()

	snapshot.System.Goroutines = runtime.NumGoroutine()
	snapshot.System.HeapAllocMB = memStats.HeapAlloc / 1024 / 1024
	snapshot.System.HeapInUseMB = memStats.HeapInuse / 1024 / 1024
	snapshot.System.StackInUseMB = memStats.StackInuse / 1024 / 1024
	snapshot.System.NumGC = memStats.NumGC

	return snapshot
}

// HealthStatus represents the health status of a component
type HealthStatus struct {
	Status  string `json:"status"` // "healthy", "degraded", "unhealthy"
	Message string `json:"message,omitempty"`
	Latency int64  `json:"latency_ms,omitempty"`
}

// HealthCheck represents the overall health check response
type HealthCheck struct {
	Status     string                  `json:"status"`
	Version    string                  `json:"version"`
	Uptime     string                  `json:"uptime"`
	Timestamp  string                  `json:"timestamp"`
	Components map[string]HealthStatus `json:"components"`
}

// CheckDatabaseHealth checks database connectivity
func CheckDatabaseHealth(db *sql.DB) HealthStatus {
	start := time.Now()

	if db == nil {
		return HealthStatus{
			Status:  "unhealthy",
			Message: "database connection not initialized",
		}
	}

	err := db.Ping()
	latency := time.Since(start).Milliseconds()

	if err != nil {
		return HealthStatus{
			Status:  "unhealthy",
			Message: err.Error(),
			Latency: latency,
		}
	}

	// Check if latency is acceptable (< 100ms)
	if latency > 100 {
		return HealthStatus{
			Status:  "degraded",
			Message: "high latency",
			Latency: latency,
		}
	}

	return HealthStatus{
		Status:  "healthy",
		Latency: latency,
	}
}

// CheckMemoryHealth checks memory usage
func CheckMemoryHealth(maxHeapMB uint64) HealthStatus {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	heapMB := memStats.HeapAlloc / 1024 / 1024

	if heapMB > maxHeapMB {
		return HealthStatus{
			Status:  "unhealthy",
			Message: "heap memory exceeds limit",
		}
	}

	if heapMB > (maxHeapMB * 80 / 100) {
		return HealthStatus{
			Status:  "degraded",
			Message: "heap memory usage high",
		}
	}

	return HealthStatus{
		Status: "healthy",
	}
}

// DetermineOverallStatus determines overall health from component statuses
func DetermineOverallStatus(components map[string]HealthStatus) string {
	hasUnhealthy := false
	hasDegraded := false

	for _, status := range components {
		switch status.Status {
		case "unhealthy":
			hasUnhealthy = true
		case "degraded":
			hasDegraded = true
		}
	}

	if hasUnhealthy {
		return "unhealthy"
	}
	if hasDegraded {
		return "degraded"
	}
	return "healthy"
}
