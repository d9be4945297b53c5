// Command dvrouter is the distance-vector routing daemon process
// entrypoint: loads configuration, wires the UDP transport and the
// kernel forwarding plane, and runs the event loop until signaled.
package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"dvrouter/config"
	"dvrouter/core"
	"dvrouter/forwarding"
	zapfactory "dvrouter/logging/zap"
	"dvrouter/transport"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	dryRun := flag.Bool("dry-run", false, "use the logging-only forwarding plane instead of netlink")
	logLevel := flag.String("log-level", "", "overrides the configured log level")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load configuration from %q: %v", *configPath, err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	level := cfg.LogLevel
	if *logLevel != "" {
		level = *logLevel
	}
	if level == "" {
		level = "info"
	}

	zapLog, err := zapfactory.New(zapfactory.Config{Level: level, Encoding: "json", File: cfg.LogFile})
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = zapLog.Sync() }()

	runID := uuid.NewString()
	rootLog := zapfactory.NewAdapter(zapLog).With(core.F("run_id", runID)).Named(cfg.RouterID)
	rootLog.Info("starting", core.F("config", *configPath), core.F("dry_run", *dryRun))

	tr, err := transport.Listen(fmt.Sprintf("0.0.0.0:%d", cfg.ListenPort))
	if err != nil {
		rootLog.Error("fatal: failed to bind listener", core.F("err", err))
		os.Exit(1)
	}
	defer func() { _ = tr.Close() }()

	var plane forwarding.Plane
	if *dryRun {
		plane = &forwarding.LoggingPlane{Log: func(msg string, kv ...any) {
			rootLog.Info(msg, kvToFields(kv)...)
		}}
	} else {
		netlinkPlane, err := forwarding.NewNetlinkPlane(cfg.Interface, 0, func(msg string, kv ...any) {
			rootLog.Warn(msg, kvToFields(kv)...)
		})
		if err != nil {
			rootLog.Error("fatal: failed to resolve forwarding interface", core.F("interface", cfg.Interface), core.F("err", err))
			os.Exit(1)
		}
		plane = netlinkPlane
	}

	router := core.NewRouter(buildRouterConfig(cfg), tr, plane, core.SystemClock{}, rootLog, nil)

	stop := make(chan struct{})
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		rootLog.Info("shutdown signal received")
		close(stop)
	}()

	router.Run(stop)
	rootLog.Info("stopped")
}

func buildRouterConfig(cfg *config.Config) core.RouterConfig {
	neighbors := make([]core.Neighbor, 0, len(cfg.Neighbors))
	for _, nb := range cfg.Neighbors {
		neighbors = append(neighbors, core.Neighbor{
			ID:   nb.ID,
			Addr: net.JoinHostPort(nb.IP, fmt.Sprint(nb.Port)),
			Metrics: core.Metrics{
				LatencyMS:     nb.Metrics.LatencyMS,
				BandwidthMbps: nb.Metrics.BandwidthMbps,
			},
		})
	}

	updateInterval := time.Duration(cfg.UpdateIntervalSeconds) * time.Second
	timeoutInterval := time.Duration(cfg.TimeoutIntervalSeconds) * time.Second
	holdDownInterval := time.Duration(cfg.HoldDownIntervalSeconds) * time.Second

	defaults := core.DefaultConfig()
	if updateInterval == 0 {
		updateInterval = defaults.UpdateInterval
	}
	if timeoutInterval == 0 {
		timeoutInterval = defaults.TimeoutInterval
	}
	if holdDownInterval == 0 {
		holdDownInterval = defaults.HoldDownInterval
	}

	return core.RouterConfig{
		Self:             cfg.RouterID,
		Neighbors:        neighbors,
		Network:          cfg.NetworkMap,
		UpdateInterval:   updateInterval,
		TimeoutInterval:  timeoutInterval,
		HoldDownInterval: holdDownInterval,
		Infinity:         defaults.Infinity,
		RecvTimeout:      defaults.RecvTimeout,
		TickSleep:        defaults.TickSleep,
	}
}

func kvToFields(kv []any) []core.Field {
	fields := make([]core.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		fields = append(fields, core.F(key, kv[i+1]))
	}
	return fields
}
