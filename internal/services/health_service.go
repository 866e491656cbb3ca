package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/burevuh-next/logistics-analyzer/internal/config"
)

// DatasetProbe reports the state of the served dataset
type DatasetProbe interface {
	DatasetPath() string
	Loaded() bool
}

// HealthService provides health check functionality
type HealthService struct {
	version   string
	buildTime string
	paths     *config.Paths
	dataset   DatasetProbe
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// ServiceHealth represents individual component health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthService creates a new health service. dataset may be nil when
// the server runs without a configured table.
func NewHealthService(version, buildTime string, paths *config.Paths, dataset DatasetProbe, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		buildTime: buildTime,
		paths:     paths,
		dataset:   dataset,
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.DebugContext(ctx, "health check",
		slog.Duration("uptime", time.Since(hs.startTime)))
	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck reports whether the configured dataset and directories are usable
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services: map[string]interface{}{
			"dataset": hs.checkDataset(),
			"reports": hs.checkReportsDir(),
		},
	}

	for name, service := range status.Services {
		if sh, ok := service.(ServiceHealth); ok && sh.Status != "ready" {
			status.Status = "not_ready"
			hs.logger.WarnContext(ctx, "component not ready",
				slog.String("service", name),
				slog.String("message", sh.Message))
		}
	}
	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(_ context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	result := map[string]interface{}{
		"version":    hs.version,
		"go_version": runtime.Version(),
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
		"start_time": hs.startTime.Format(time.RFC3339),
	}
	if hs.buildTime != "" {
		result["build_time"] = hs.buildTime
	}
	return result
}

// DatasetPath returns the served table, or "" when none is configured
func (hs *HealthService) DatasetPath() string {
	if hs.dataset == nil {
		return ""
	}
	return hs.dataset.DatasetPath()
}

func (hs *HealthService) checkDataset() ServiceHealth {
	path := hs.DatasetPath()
	if path == "" {
		return ServiceHealth{Status: "not_ready", Message: "no dataset configured"}
	}
	if !config.FileExists(path) {
		return ServiceHealth{Status: "not_ready", Message: fmt.Sprintf("dataset not found: %s", path)}
	}
	if !hs.dataset.Loaded() {
		return ServiceHealth{Status: "ready", Message: "dataset not analysed yet"}
	}
	return ServiceHealth{Status: "ready"}
}

func (hs *HealthService) checkReportsDir() ServiceHealth {
	if hs.paths == nil {
		return ServiceHealth{Status: "ready", Message: "no reports directory"}
	}
	info, err := os.Stat(hs.paths.ReportsDir)
	if err != nil {
		return ServiceHealth{Status: "not_ready", Message: fmt.Sprintf("reports directory unavailable: %v", err)}
	}
	if !info.IsDir() {
		return ServiceHealth{Status: "not_ready", Message: fmt.Sprintf("%s is not a directory", hs.paths.ReportsDir)}
	}
	return ServiceHealth{Status: "ready"}
}
