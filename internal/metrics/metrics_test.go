package metrics

import (
	"testing"
	"time"
)

func newTestMetrics() *Metrics {
	return &Metrics{
		StartTime: time.Now(),
		endpoints: make(map[string]*EndpointStats),
	}
}

func TestCacheCountersReachSnapshot(t *testing.T) {
	m := newTestMetrics()

	m.IncrementCacheMiss()
	m.IncrementCacheHit()
	m.IncrementCacheHit()

	snapshot := m.Snapshot()
	if snapshot.Cache.Hits != 2 {
		t.Errorf("Expected 2 cache hits, got %d", snapshot.Cache.Hits)
	}
	if snapshot.Cache.Misses != 1 {
		t.Errorf("Expected 1 cache miss, got %d", snapshot.Cache.Misses)
	}
}

func TestRequestCounters(t *testing.T) {
	m := newTestMetrics()

	m.IncrementRequests(true, 10)
	m.IncrementRequests(true, 30)
	m.IncrementRequests(false, 20)

	snapshot := m.Snapshot()
	if snapshot.Requests.Total != 3 {
		t.Errorf("Expected 3 total requests, got %d", snapshot.Requests.Total)
	}
	if snapshot.Requests.Successful != 2 || snapshot.Requests.Failed != 1 {
		t.Errorf("Unexpected success/failure split: %d/%d",
			snapshot.Requests.Successful, snapshot.Requests.Failed)
	}
	if snapshot.Requests.AvgLatencyMs != 20 {
		t.Errorf("Expected avg latency 20ms, got %.1f", snapshot.Requests.AvgLatencyMs)
	}
}

func TestTrackEndpoint(t *testing.T) {
	m := newTestMetrics()

	m.TrackEndpoint("/api/v1/tasks", "GET", 200, 5)
	m.TrackEndpoint("/api/v1/tasks", "GET", 200, 15)
	m.TrackEndpoint("/api/v1/tasks", "GET", 500, 10)
	m.TrackEndpoint("/api/v1/tags", "POST", 201, 8)

	snapshot := m.Snapshot()

	tasks, ok := snapshot.Endpoints["GET /api/v1/tasks"]
	if !ok {
		t.Fatal("Expected stats for GET /api/v1/tasks")
	}
	if tasks.Count != 3 || tasks.Errors != 1 || tasks.TotalLatency != 30 {
		t.Errorf("Unexpected task endpoint stats: %+v", tasks)
	}

	tags, ok := snapshot.Endpoints["POST /api/v1/tags"]
	if !ok {
		t.Fatal("Expected stats for POST /api/v1/tags")
	}
	if tags.Count != 1 || tags.Errors != 0 {
		t.Errorf("Unexpected tag endpoint stats: %+v", tags)
	}
}

func TestLoginAndDomainCounters(t *testing.T) {
	m := newTestMetrics()

	m.IncrementLogin(true)
	m.IncrementLogin(false)
	m.IncrementTaskCreated()
	m.IncrementTagCreated()
	m.IncrementEstimateGenerated()
	m.IncrementReportGenerated(true)
	m.IncrementReportGenerated(false)

	snapshot := m.Snapshot()
	if snapshot.Auth.LoginAttempts != 2 || snapshot.Auth.LoginSuccesses != 1 || snapshot.Auth.LoginFailures != 1 {
		t.Errorf("Unexpected auth counters: %+v", snapshot.Auth)
	}
	if snapshot.Tasks.Created != 1 || snapshot.Tags.Created != 1 {
		t.Errorf("Unexpected mutation counters: tasks=%+v tags=%+v", snapshot.Tasks, snapshot.Tags)
	}
	if snapshot.AITools.Estimates != 1 {
		t.Errorf("Expected 1 estimate generated, got %d", snapshot.AITools.Estimates)
	}
	if snapshot.Reports.Generated != 1 || snapshot.Reports.Errors != 1 {
		t.Errorf("Unexpected report counters: %+v", snapshot.Reports)
	}
}

func TestDetermineOverallStatus(t *testing.T) {
	tests := []struct {
		name       string
		components map[string]HealthStatus
		want       string
	}{
		{
			name: "all healthy",
			components: map[string]HealthStatus{
				"database": {Status: "healthy"},
				"memory":   {Status: "healthy"},
			},
			want: "healthy",
		},
		{
			name: "one degraded",
			components: map[string]HealthStatus{
				"database": {Status: "healthy"},
				"memory":   {Status: "degraded"},
			},
			want: "degraded",
		},
		{
			name: "unhealthy wins over degraded",
			components: map[string]HealthStatus{
				"database": {Status: "unhealthy"},
				"memory":   {Status: "degraded"},
			},
			want: "unhealthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetermineOverallStatus(tt.components); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}
