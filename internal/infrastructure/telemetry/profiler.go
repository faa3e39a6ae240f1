package telemetry

import (
	"errors"
	"fmt"
	"os"
	"sync"

	otelpyroscope "github.com/grafana/otel-profiling-go"
	"github.com/grafana/pyroscope-go"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Profiler wraps a running Pyroscope profiler
type Profiler struct {
	profiler *pyroscope.Profiler
	logger   *zap.Logger
	once     sync.Once
}

// StartProfiler starts continuous CPU and memory profiling
func StartProfiler(appName, serverAddress string, logger *zap.Logger) (*Profiler, error) {
	if serverAddress == "" {
		return nil, errors.New("profiler server address is required when profiling is enabled")
	}

	tags := map[string]string{}
	if hostname, err := os.Hostname(); err == nil {
		tags["hostname"] = hostname
	}

	p, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: appName,
		ServerAddress:   serverAddress,
		Logger:          pyroscopeLogger{logger.Named("pyroscope").Sugar()},
		Tags:            tags,
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start Pyroscope profiler: %w", err)
	}
	logger.Info("Pyroscope profiler started", zap.String("server_address", serverAddress))
	return &Profiler{profiler: p, logger: logger}, nil
}

// WrapTracerProvider labels CPU samples with the active span id so profiles
// can be opened from a trace
func (p *Profiler) WrapTracerProvider(tp trace.TracerProvider) trace.TracerProvider {
	return otelpyroscope.NewTracerProvider(tp)
}

// Stop flushes and stops the profiler. Safe to call more than once.
func (p *Profiler) Stop() error {
	var err error
	p.once.Do(func() {
		err = p.profiler.Stop()
	})
	return err
}

// pyroscopeLogger adapts zap to pyroscope.Logger (Infof, Debugf, Errorf)
type pyroscopeLogger struct {
	*zap.SugaredLogger
}

