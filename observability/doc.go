// Package observability provides OpenTelemetry tracing and metrics for the
// encryption service.
//
// Tracing:
//
//	cfg := observability.DefaultTracerConfig("cryptlib")
//	tp, err := observability.InitTracer(ctx, &cfg)
//	defer tp.Shutdown(ctx)
//
// Metrics:
//
//	metrics, err := observability.NewCryptoMetrics(observability.Meter("cryptlib"))
//	svc := encryption.NewService(encryption.WithRecorder(metrics))
//
// Health checks:
//
//	health := observability.CheckAll(ctx, "cryptlib", version.GetVersion(), selfTest)
package observability
