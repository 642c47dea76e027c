package infra

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type TelemetryRessources struct {
	TracerProvider    trace.TracerProvider
	Tracer            trace.Tracer
	TextMapPropagator propagation.TextMapPropagator
}

func NoopTelemetry() TelemetryRessources {
	return TelemetryRessources{
		TracerProvider:    noop.NewTracerProvider(),
		Tracer:            &noop.Tracer{},
		TextMapPropagator: propagation.TraceContext{},
	}
}

// InitTelemetry exports spans over OTLP gRPC. The collector endpoint is read by the
// exporter from the standard OTEL_EXPORTER_OTLP_* variables.
func InitTelemetry(configuration TelemetryConfiguration, apiVersion string) (TelemetryRessources, error) {
	if !configuration.Enabled {
		return NoopTelemetry(), nil
	}

	exporter, err := otlptracegrpc.New(context.Background())
	if err != nil {
		return TelemetryRessources{}, fmt.Errorf("otlptracegrpc.New error: %w", err)
	}

	res, err := resource.New(context.Background(),
		resource.WithTelemetrySDK(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(configuration.ApplicationName),
			semconv.ServiceVersion(apiVersion),
		),
	)
	if err != nil {
		return TelemetryRessources{}, fmt.Errorf("resource.New error: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(RenewalsSampler{SamplingMap: configuration.SamplingMap}),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	tracer := tp.Tracer(configuration.ApplicationName)

	propagators := propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	)

	otel.SetTextMapPropagator(propagators)

	return TelemetryRessources{
		TracerProvider:    tp,
		Tracer:            tracer,
		TextMapPropagator: propagators,
	}, nil
}

const DEFAULT_SAMPLING_RATE = 0.3

var (
	defaultSpanNamesSampling = map[string]float64{
		"RenewalUsecase.ScoreAssets": 0.1,
	}

	defaultRoutePrefixSampling = map[string]float64{
		"/liveness": 0.0,
		"/metrics":  0.0,
	}
)

// RenewalsSampler samples http ingress spans by route prefix and internal spans by
// name. Children of a dropped span are dropped too.
type RenewalsSampler struct {
	SamplingMap TelemetrySamplingMap
}

func (RenewalsSampler) Description() string {
	return "renewals-sampler"
}

func (rs RenewalsSampler) ShouldSample(p sdktrace.SamplingParameters) sdktrace.SamplingResult {
	psc := trace.SpanContextFromContext(p.ParentContext)

	if psc.HasTraceID() && !psc.IsSampled() {
		return sdktrace.NeverSample().ShouldSample(p)
	}

	route := ""
	for _, attr := range p.Attributes {
		if attr.Key == semconv.HTTPRouteKey {
			route = attr.Value.AsString()
			break
		}
	}

	prob := rs.ratio(p.Name, route, psc.IsSampled())

	decision := sdktrace.Drop
	traceId := binary.BigEndian.Uint64(p.TraceID[:8])
	if traceId < uint64(prob*float64(math.MaxUint64)) {
		decision = sdktrace.RecordAndSample
	}

	return sdktrace.SamplingResult{
		Decision:   decision,
		Attributes: p.Attributes,
		Tracestate: psc.TraceState(),
	}
}

func (rs RenewalsSampler) ratio(spanName, route string, parentSampled bool) float64 {
	if route != "" {
		for _, rates := range []map[string]float64{rs.SamplingMap.HttpRoutes, defaultRoutePrefixSampling} {
			for prefix, prob := range rates {
				if strings.HasPrefix(route, prefix) {
					return prob
				}
			}
		}
		return DEFAULT_SAMPLING_RATE
	}

	if parentSampled {
		return 1.0
	}
	if prob, ok := rs.SamplingMap.SpanNames[spanName]; ok {
		return prob
	}
	if prob, ok := defaultSpanNamesSampling[spanName]; ok {
		return prob
	}
	return 1.0
}
