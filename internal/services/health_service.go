package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"gpacalc/internal/config"
	"gpacalc/internal/validation"
	"gpacalc/pkg/contracts"
)

// HealthService provides health check functionality
type HealthService struct {
	export    config.ExportConfig
	files     *validation.FileValidator
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Runtime   map[string]interface{}   `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

// ServiceHealth represents individual dependency health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthService creates a health service reporting on the export target.
func NewHealthService(export config.ExportConfig, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		export:    export,
		files:     validation.NewFileValidator(logger),
		startTime: time.Now(),
		logger:    logger,
	}
}

// HealthCheck returns overall health status. With verbose set it also
// includes readiness of dependencies and runtime details.
func (hs *HealthService) HealthCheck(ctx context.Context, verbose bool) HealthStatus {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   contracts.Version,
	}
	if !verbose {
		return status
	}

	status.Runtime = hs.runtimeInfo()
	status.Services = map[string]ServiceHealth{
		"export": hs.checkExportHealth(),
	}
	for _, sh := range status.Services {
		if sh.Status != "ready" {
			status.Status = "degraded"
		}
	}

	hs.logger.DebugContext(ctx, "health check completed", slog.String("status", status.Status))
	return status
}

// Version returns build information.
func (hs *HealthService) Version() contracts.VersionInfo {
	return contracts.GetVersionInfo()
}

func (hs *HealthService) runtimeInfo() map[string]interface{} {
	return map[string]interface{}{
		"uptime_seconds": time.Since(hs.startTime).Seconds(),
		"go_version":     runtime.Version(),
		"goroutines":     runtime.NumGoroutine(),
		"os":             runtime.GOOS,
		"arch":           runtime.GOARCH,
	}
}

// checkExportHealth reports whether the configured output directory is writable.
// An empty directory means outputs go next to each input, which cannot be checked up front.
func (hs *HealthService) checkExportHealth() ServiceHealth {
	if hs.export.OutputDir == "" {
		return ServiceHealth{Status: "ready", Message: "outputs are written next to each roster"}
	}
	if err := hs.files.ValidateOutputDirectory(hs.export.OutputDir); err != nil {
		return ServiceHealth{Status: "not_ready", Message: err.Error()}
	}
	return ServiceHealth{Status: "ready"}
}
