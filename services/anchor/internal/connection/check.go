package connection

import (
	"context"
	"time"

	"github.com/redbco/redb-driverhub/pkg/driverloader"
	"github.com/redbco/redb-driverhub/pkg/plugin"
	"github.com/redbco/redb-driverhub/services/anchor/internal/telemetry"
)

// TestStatus is the outcome of a connection test.
type TestStatus string

const (
	TestSucceeded TestStatus = "succeeded"
	TestFailed    TestStatus = "failed"
)

// TestResult is the connection test response.
type TestResult struct {
	Status        TestStatus `json:"status"`
	Message       string     `json:"message,omitempty"`
	PluginID      string     `json:"pluginId,omitempty"`
	DBMSName      string     `json:"dbmsName"`
	DBMSVersion   string     `json:"dbmsVersion,omitempty"`
	DriverName    string     `json:"driverName"`
	DriverVersion string     `json:"driverVersion,omitempty"`
	PingMillis    int64      `json:"pingMillis"`
}

// Test connects with req, measures one ping and disconnects without
// registering anything. Configuration and driver-load problems are returned
// as errors; an unreachable server yields a failed result.
func (r *Registry) Test(ctx context.Context, req Request) (*TestResult, error) {
	t, err := r.resolve(req)
	if err != nil {
		return nil, err
	}

	res := &TestResult{DBMSName: t.capability.Name}
	describeDriver(res, t.primary().Descriptor())

	ctx, span := telemetry.Tracer().Start(ctx, "connection.test")
	defer span.End()

	d, err := r.dial(ctx, t, req.Config)
	r.metrics.ObserveConnect(string(t.engine), err == nil)
	if err != nil {
		if plugin.IsConfigurationError(err) || driverloader.IsDriverLoadError(err) || plugin.IsUnsupported(err) {
			return nil, err
		}
		res.Status = TestFailed
		res.Message = err.Error()
		return res, nil
	}
	defer d.close()

	describeDriver(res, d.plugin.Descriptor())
	res.DBMSVersion = d.version

	start := time.Now()
	if err := d.conn.PingContext(ctx); err != nil {
		res.Status = TestFailed
		res.Message = err.Error()
		return res, nil
	}
	res.PingMillis = time.Since(start).Milliseconds()
	res.Status = TestSucceeded
	return res, nil
}

func describeDriver(res *TestResult, desc plugin.Descriptor) {
	res.PluginID = desc.ID
	res.DriverName = desc.Artifact.Coordinates()
	if desc.Artifact.Artifact == "" {
		res.DriverName = desc.Name
	}
	res.DriverVersion = desc.Version
	if desc.Artifact.Version != nil {
		res.DriverVersion = *desc.Artifact.Version
	}
}
