package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/danmuck/edgecam/internal/hardware"
	"github.com/danmuck/edgecam/internal/logging"
	"github.com/danmuck/edgecam/internal/observability"
	"github.com/danmuck/edgecam/internal/session"
)

func main() {
	var (
		configPath string
		serverAddr string
		serverPort int
		clientName string
		simulation bool
		debug      bool
		opsAddr    string
	)
	pflag.StringVar(&configPath, "config", "", "path to TOML config file")
	pflag.StringVar(&serverAddr, "server", "", "controller address (overrides config)")
	pflag.IntVar(&serverPort, "port", 0, "controller port (overrides config)")
	pflag.StringVar(&clientName, "name", "", "client name (overrides config)")
	pflag.BoolVar(&simulation, "simulation", false, "use simulated hardware")
	pflag.BoolVar(&debug, "debug", false, "enable debug logging")
	pflag.StringVar(&opsAddr, "ops-addr", "", "local health/metrics listen address")
	pflag.Parse()

	logging.ConfigureRuntime()
	logger := observability.InitLogger("edgecam")
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	observability.RegisterMetrics()

	cfg := defaultAppConfig()
	if configPath != "" {
		loaded, err := loadAppConfig(configPath)
		if err != nil {
			logger.Fatal().Err(err).Str("path", configPath).Msg("config load failed")
		}
		cfg = loaded
	}
	if pflag.CommandLine.Changed("server") {
		cfg.ServerAddress = serverAddr
	}
	if pflag.CommandLine.Changed("port") {
		cfg.ServerPort = serverPort
	}
	if pflag.CommandLine.Changed("name") {
		cfg.Session.ClientName = clientName
	}
	if pflag.CommandLine.Changed("simulation") {
		cfg.Session.SimulationMode = simulation
	}
	if pflag.CommandLine.Changed("ops-addr") {
		cfg.OpsAddr = opsAddr
	}
	if cfg.Session.Hostname == "" {
		if hostname, err := os.Hostname(); err == nil {
			cfg.Session.Hostname = hostname
		}
	}
	cfg.Session = cfg.Session.WithDefaults()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	collab := buildCollaborators(cfg, logger)

	opsServer := startOpsServer(cfg, logger)

	url := cfg.serverURL()
	logger.Info().
		Str("server", url).
		Str("client", cfg.Session.ClientName).
		Bool("simulation", cfg.Session.SimulationMode).
		Msg("edgecam starting")

	dialer := session.NewWebsocketDialer(url, cfg.Session)
	supervisor := session.NewSupervisor(cfg.Session, collab, logger)
	controller := session.NewController(cfg.Session, dialer, supervisor, logger)

	runErr := controller.Run(ctx)

	// park the gimbal before the process goes away
	if collab.Servos != nil {
		pos := collab.Servos.Center()
		logger.Info().
			Float64("pan", pos.Pan).
			Float64("tilt", pos.Tilt).
			Msg("servos centered for shutdown")
	}

	if opsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := opsServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("ops server shutdown")
		}
	}

	switch {
	case runErr == nil, errors.Is(runErr, context.Canceled):
		logger.Info().Msg("edgecam exiting")
	default:
		logger.Error().Err(runErr).Msg("edgecam exiting")
		os.Exit(1)
	}
}

// buildCollaborators assembles the hardware the session streams from. Real
// device drivers are not wired in this build, so a request for physical
// hardware degrades to the simulated devices with a warning.
func buildCollaborators(cfg appConfig, logger zerolog.Logger) session.Collaborators {
	if !cfg.Session.SimulationMode {
		logger.Warn().Msg("no physical camera driver available, using simulated hardware")
	}

	camera := hardware.NewSimCamera(cfg.CameraWidth, cfg.CameraHeight, cfg.EnableDepth)
	collab := session.Collaborators{
		Camera: camera,
		Servos: hardware.NewSimServos(),
		System: hardware.HostMetrics{},
	}
	if cfg.EnableDepth {
		collab.Depth = camera
	}
	if cfg.EnableAudio {
		collab.Audio = hardware.NewSimAudio()
	}
	return collab
}

func startOpsServer(cfg appConfig, logger zerolog.Logger) *http.Server {
	if cfg.OpsAddr == "" {
		return nil
	}
	router := observability.NewOpsRouter(observability.OpsConfig{
		Addr:        cfg.OpsAddr,
		CorsOrigins: cfg.CorsOrigins,
		Version:     version,
	}, logger)
	server := &http.Server{Addr: cfg.OpsAddr, Handler: router}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Str("addr", cfg.OpsAddr).Msg("ops server failed")
		}
	}()
	logger.Info().Str("addr", cfg.OpsAddr).Msg("ops endpoint listening")
	return server
}
