// Package monitoring provides metrics collection for analytic query execution.
package monitoring

import (
	"runtime"
	"sync"
	"time"
)

// OperationMetrics represents performance metrics for a single query execution.
type OperationMetrics struct {
	QueryID       string        `json:"query_id"`
	Operation     string        `json:"operation"`
	Duration      time.Duration `json:"duration"`
	RowsProcessed int64         `json:"rows_processed"`
	Partitions    int           `json:"partitions"`
	Outputs       int           `json:"outputs"`
	MemoryUsed    int64         `json:"memory_used"`
	Parallel      bool          `json:"parallel"`
	Failed        bool          `json:"failed"`
}

// MetricsCollector collects and stores performance metrics for query executions.
type MetricsCollector struct {
	mu      sync.RWMutex
	metrics []OperationMetrics
	enabled bool
}

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector(enabled bool) *MetricsCollector {
	return &MetricsCollector{
		metrics: make([]OperationMetrics, 0),
		enabled: enabled,
	}
}

// IsEnabled returns whether metrics collection is enabled.
func (mc *MetricsCollector) IsEnabled() bool {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.enabled
}

// RecordOperation executes fn and records its metrics.
// fn fills in the execution details it knows about (rows, partitions, parallelism);
// the collector adds the operation name, duration, memory delta and failure flag.
func (mc *MetricsCollector) RecordOperation(operation string, fn func(m *OperationMetrics) error) error {
	var metrics OperationMetrics
	if !mc.IsEnabled() {
		return fn(&metrics)
	}

	var memBefore runtime.MemStats
	runtime.ReadMemStats(&memBefore)

	start := time.Now()
	err := fn(&metrics)
	duration := time.Since(start)

	var memAfter runtime.MemStats
	runtime.ReadMemStats(&memAfter)

	metrics.Operation = operation
	metrics.Duration = duration
	metrics.MemoryUsed = int64(memAfter.TotalAlloc - memBefore.TotalAlloc) //nolint:gosec // TotalAlloc is monotonic
	metrics.Failed = err != nil

	mc.mu.Lock()
	mc.metrics = append(mc.metrics, metrics)
	mc.mu.Unlock()

	return err
}

// GetMetrics returns a copy of all collected metrics.
func (mc *MetricsCollector) GetMetrics() []OperationMetrics {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	// Return a copy to avoid race conditions
	result := make([]OperationMetrics, len(mc.metrics))
	copy(result, mc.metrics)
	return result
}

// GetSummary returns a summary of collected metrics.
func (mc *MetricsCollector) GetSummary() MetricsSummary {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	if len(mc.metrics) == 0 {
		return MetricsSummary{}
	}

	var totalDuration time.Duration
	var totalMemory int64
	var totalRows int64
	var failed, parallel int
	operationCounts := make(map[string]int)

	for _, metric := range mc.metrics {
		totalDuration += metric.Duration
		totalMemory += metric.MemoryUsed
		totalRows += metric.RowsProcessed
		operationCounts[metric.Operation]++
		if metric.Failed {
			failed++
		}
		if metric.Parallel {
			parallel++
		}
	}

	return MetricsSummary{
		TotalOperations:    len(mc.metrics),
		FailedOperations:   failed,
		ParallelOperations: parallel,
		TotalDuration:      totalDuration,
		TotalMemory:        totalMemory,
		TotalRows:          totalRows,
		OperationCounts:    operationCounts,
		AverageDuration:    totalDuration / time.Duration(len(mc.metrics)),
	}
}

// MetricsSummary provides aggregate statistics for collected metrics.
type MetricsSummary struct {
	TotalOperations    int            `json:"total_operations"`
	FailedOperations   int            `json:"failed_operations"`
	ParallelOperations int            `json:"parallel_operations"`
	TotalDuration      time.Duration  `json:"total_duration"`
	TotalMemory        int64          `json:"total_memory"`
	TotalRows          int64          `json:"total_rows"`
	OperationCounts    map[string]int `json:"operation_counts"`
	AverageDuration    time.Duration  `json:"average_duration"`
}
