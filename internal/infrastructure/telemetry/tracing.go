package telemetry

import (
	"context"
	"fmt"

	"github.com/gadgetstock/backend/internal/domain/access"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName names the tracer used for business spans
const TracerName = "gadgetstock-backend"

// StartServiceSpan starts a span named "<service>.<method>" tagged with the actor
//
//	ctx, span := telemetry.StartServiceSpan(ctx, "transfer", "receive", actor)
//	defer span.End()
func StartServiceSpan(ctx context.Context, service, method string, actor access.Actor, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs,
		attribute.String("service.component", service),
		attribute.String("actor.user_id", actor.UserID.String()),
		attribute.String("actor.branch_id", actor.BranchID.String()),
		attribute.Bool("actor.admin_branch", actor.IsAdminBranch),
	)
	return otel.Tracer(TracerName).Start(ctx, service+"."+method,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...))
}

// EndSpan records err (if any) and ends the span. Use with a named error return:
//
//	defer func() { telemetry.EndSpan(span, err) }()
func EndSpan(span trace.Span, err error) {
	if err != nil {
		RecordError(span, err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// RecordError marks the span failed
func RecordError(span trace.Span, err error) {
	if err == nil || !span.IsRecording() {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// Attr converts a value to a span attribute
func Attr(key string, value any) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case bool:
		return attribute.Bool(key, v)
	case fmt.Stringer:
		return attribute.String(key, v.String())
	default:
		return attribute.String(key, fmt.Sprint(v))
	}
}
