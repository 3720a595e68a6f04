package observability

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/annel0/voxel-excavation/internal/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// InitTelemetry настраивает экспорт трасс по OTLP/HTTP и устанавливает
// глобальный TracerProvider. Спаны раскопки (engine.excavate) и HTTP-запросов
// (otelgin) уходят в него автоматически.
//
// Адрес коллектора берётся из OTEL_EXPORTER_OTLP_ENDPOINT (по умолчанию
// localhost:4318). Долю сэмплирования задаёт EXCAVATION_TRACE_RATIO; при
// пустом значении пишутся все трассы — поток спанов здесь определяется
// темпом кликов игрока, а не нагрузкой сервиса.
//
// Возвращает функцию shutdown, которую нужно вызвать при завершении.
func InitTelemetry(ctx context.Context, serviceName string) (func(context.Context) error, error) {
	exp, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(serviceName)),
	)
	if err != nil {
		return nil, err
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exp, trace.WithBatchTimeout(2*time.Second)),
		trace.WithResource(res),
		trace.WithSampler(samplerFromEnv()),
	)
	otel.SetTracerProvider(tp)

	logging.Info("📡 OpenTelemetry инициализирован (service=%s)", serviceName)

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return tp.Shutdown(ctx)
	}, nil
}

func samplerFromEnv() trace.Sampler {
	ratio := os.Getenv("EXCAVATION_TRACE_RATIO")
	switch ratio {
	case "", "1", "1.0":
		return trace.AlwaysSample()
	case "0", "0.0":
		return trace.NeverSample()
	}
	if f, err := strconv.ParseFloat(ratio, 64); err == nil && f > 0 && f < 1 {
		return trace.ParentBased(trace.TraceIDRatioBased(f))
	}
	logging.Warn("EXCAVATION_TRACE_RATIO=%q не распознан, сэмплируем всё", ratio)
	return trace.AlwaysSample()
}
