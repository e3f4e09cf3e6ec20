package health

import (
	"context"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fleetops/fleetd/internal/pkg/database"
)

// BuildInfo contains information about the build
type BuildInfo struct {
	Version     string    `json:"version"`
	GitCommit   string    `json:"git_commit"`
	BuildTime   string    `json:"build_time"`
	ServiceName string    `json:"service_name"`
	GoVersion   string    `json:"go_version"`
	Hostname    string    `json:"hostname"`
	ServerTime  time.Time `json:"server_time"`
}

// DefaultBuildInfo contains default build information
var DefaultBuildInfo = BuildInfo{
	Version:   "development",
	GitCommit: "unknown",
	BuildTime: "unknown",
	GoVersion: runtime.Version(),
}

// DependencyStatus reports a single dependency's health
type DependencyStatus struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// ReadinessReport aggregates dependency checks
type ReadinessReport struct {
	Status       string             `json:"status"`
	Dependencies []DependencyStatus `json:"dependencies"`
}

// NewPingHandler creates a handler for the ping endpoint
func NewPingHandler(serviceName string) echo.HandlerFunc {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	buildInfo := DefaultBuildInfo
	buildInfo.ServiceName = serviceName

	if version := os.Getenv("VERSION"); version != "" {
		buildInfo.Version = version
	}
	if gitCommit := os.Getenv("GIT_COMMIT"); gitCommit != "" {
		buildInfo.GitCommit = gitCommit
	}
	if buildTime := os.Getenv("BUILD_TIME"); buildTime != "" {
		buildInfo.BuildTime = buildTime
	}

	return func(c echo.Context) error {
		buildInfo.Hostname = hostname
		buildInfo.ServerTime = time.Now()

		return c.JSON(http.StatusOK, buildInfo)
	}
}

// NewReadinessHandler checks backing stores before reporting ready
func NewReadinessHandler(pg *database.PostgresClient, rd *database.RedisClient) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
		defer cancel()

		report := ReadinessReport{Status: "ready"}

		pgStatus := DependencyStatus{Name: "postgres", Status: "up"}
		if err := pg.GetDB().PingContext(ctx); err != nil {
			pgStatus.Status = "down"
			pgStatus.Error = err.Error()
			report.Status = "not ready"
		}
		report.Dependencies = append(report.Dependencies, pgStatus)

		rdStatus := DependencyStatus{Name: "redis", Status: "up"}
		if _, err := rd.GetClient().Ping(ctx).Result(); err != nil {
			rdStatus.Status = "down"
			rdStatus.Error = err.Error()
			report.Status = "not ready"
		}
		report.Dependencies = append(report.Dependencies, rdStatus)

		code := http.StatusOK
		if report.Status != "ready" {
			code = http.StatusServiceUnavailable
		}
		return c.JSON(code, report)
	}
}

// RegisterHealthEndpoints registers the health check endpoints
func RegisterHealthEndpoints(e *echo.Echo, serviceName string, pg *database.PostgresClient, rd *database.RedisClient) {
	e.GET("/ping", NewPingHandler(serviceName))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})

	e.GET("/ready", NewReadinessHandler(pg, rd))
}
