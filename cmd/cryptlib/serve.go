package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/cryptlib/encryption"
	"github.com/kbukum/cryptlib/logger"
	"github.com/kbukum/cryptlib/observability"
	"github.com/kbukum/cryptlib/server"
	"github.com/kbukum/cryptlib/util"
	"github.com/kbukum/cryptlib/version"
)

type serveCommand struct {
	Port int `long:"port" description:"Override server.port"`
}

func (cmd *serveCommand) Execute(args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Port != 0 {
		cfg.Server.Port = cmd.Port
	}
	logger.Init(cfg.Logging)
	log := logger.GetGlobalLogger()

	shutdownTelemetry, err := initTelemetry(ctx, cfg.Telemetry.Enabled, cfg.TracerConfig(), cfg.MeterConfig())
	if err != nil {
		return err
	}
	defer shutdownTelemetry()

	metrics, err := observability.NewCryptoMetrics(observability.Meter(serviceName))
	if err != nil {
		return err
	}

	svcOpts, err := cfg.ServiceOptions()
	if err != nil {
		return err
	}
	svcOpts = append(svcOpts, encryption.WithLogger(log), encryption.WithRecorder(metrics))
	svc := encryption.NewService(svcOpts...)

	srv := server.New(cfg.Server, log, server.WithServiceName(cfg.Name), server.WithMetrics(metrics))
	server.NewAPI(svc, nil).Register(srv.GinEngine())
	srv.RegisterDefaultEndpoints(cfg.Name, string(svc.Envelope()), svc.KDF(),
		server.CipherCheck(), server.EntropyCheck(nil))

	log.Info("cryptlib starting", logger.Fields(
		"version", version.GetShortVersion(),
		"environment", cfg.Environment,
		logger.FieldEnvelope, string(svc.Envelope()),
		logger.FieldKDF, svc.KDF(),
		"salt", util.MaskSecret(cfg.Crypto.Salt, 2),
		"telemetry", cfg.Telemetry.Enabled,
		"tls", cfg.Server.TLS.IsEnabled(),
	))

	if err := srv.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return srv.Stop(context.Background())
}

// initTelemetry installs OTLP trace and metric providers when enabled and
// returns a function that flushes and stops them.
func initTelemetry(ctx context.Context, enabled bool, tc observability.TracerConfig, mc observability.MeterConfig) (func(), error) {
	if !enabled {
		return func() {}, nil
	}

	tp, err := observability.InitTracer(ctx, &tc)
	if err != nil {
		return nil, err
	}
	mp, err := observability.InitMeter(ctx, &mc)
	if err != nil {
		_ = tp.Shutdown(context.Background())
		return nil, err
	}

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mp.Shutdown(shutdownCtx); err != nil {
			logger.Warn("meter shutdown failed", logger.Fields(logger.FieldError, err.Error()))
		}
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Warn("tracer shutdown failed", logger.Fields(logger.FieldError, err.Error()))
		}
	}, nil
}
