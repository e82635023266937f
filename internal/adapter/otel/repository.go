package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/neomorfeo/statuskit/internal/domain"
)

const tracerName = "github.com/neomorfeo/statuskit/internal/adapter/otel"

// TracingStatusRepository wraps a domain.StatusRepository with OpenTelemetry
// tracing. Each method creates a span with semantic attributes and records
// errors.
type TracingStatusRepository struct {
	next   domain.StatusRepository
	tracer trace.Tracer
}

// Compile-time check: TracingStatusRepository implements domain.StatusRepository.
var _ domain.StatusRepository = (*TracingStatusRepository)(nil)

// NewTracingStatusRepository creates a tracing decorator around the given repository.
func NewTracingStatusRepository(next domain.StatusRepository) *TracingStatusRepository {
	return &TracingStatusRepository{
		next:   next,
		tracer: otel.Tracer(tracerName),
	}
}

func (r *TracingStatusRepository) Insert(ctx context.Context, status domain.StatusDefinition) error {
	ctx, span := r.tracer.Start(ctx, "StatusRepository.Insert",
		trace.WithAttributes(
			attribute.String("status.id", status.ID),
			attribute.String("status.code", status.Code),
			attribute.String("status.type", string(status.StatusType)),
		),
	)
	defer span.End()

	err := r.next.Insert(ctx, status)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (r *TracingStatusRepository) GetByID(ctx context.Context, orgID, id string) (domain.StatusDefinition, error) {
	ctx, span := r.tracer.Start(ctx, "StatusRepository.GetByID",
		trace.WithAttributes(attribute.String("status.id", id)),
	)
	defer span.End()

	status, err := r.next.GetByID(ctx, orgID, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return status, err
}

func (r *TracingStatusRepository) GetByCode(ctx context.Context, orgID string, statusType domain.StatusType, code string) (domain.StatusDefinition, error) {
	ctx, span := r.tracer.Start(ctx, "StatusRepository.GetByCode",
		trace.WithAttributes(
			attribute.String("status.code", code),
			attribute.String("status.type", string(statusType)),
		),
	)
	defer span.End()

	status, err := r.next.GetByCode(ctx, orgID, statusType, code)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return status, err
}

func (r *TracingStatusRepository) ListByType(ctx context.Context, orgID string, statusType domain.StatusType) ([]domain.StatusDefinition, error) {
	ctx, span := r.tracer.Start(ctx, "StatusRepository.ListByType",
		trace.WithAttributes(attribute.String("status.type", string(statusType))),
	)
	defer span.End()

	statuses, err := r.next.ListByType(ctx, orgID, statusType)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(attribute.Int("result.count", len(statuses)))
	}
	return statuses, err
}

func (r *TracingStatusRepository) MaxDisplayOrder(ctx context.Context, orgID string, statusType domain.StatusType) (int, error) {
	ctx, span := r.tracer.Start(ctx, "StatusRepository.MaxDisplayOrder",
		trace.WithAttributes(attribute.String("status.type", string(statusType))),
	)
	defer span.End()

	max, err := r.next.MaxDisplayOrder(ctx, orgID, statusType)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return max, err
}

func (r *TracingStatusRepository) Update(ctx context.Context, status domain.StatusDefinition) error {
	ctx, span := r.tracer.Start(ctx, "StatusRepository.Update",
		trace.WithAttributes(
			attribute.String("status.id", status.ID),
			attribute.String("status.code", status.Code),
		),
	)
	defer span.End()

	err := r.next.Update(ctx, status)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (r *TracingStatusRepository) Delete(ctx context.Context, orgID, id string) error {
	ctx, span := r.tracer.Start(ctx, "StatusRepository.Delete",
		trace.WithAttributes(attribute.String("status.id", id)),
	)
	defer span.End()

	err := r.next.Delete(ctx, orgID, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (r *TracingStatusRepository) Reorder(ctx context.Context, orgID string, statusType domain.StatusType, orderedIDs []string) error {
	ctx, span := r.tracer.Start(ctx, "StatusRepository.Reorder",
		trace.WithAttributes(
			attribute.String("status.type", string(statusType)),
			attribute.Int("reorder.count", len(orderedIDs)),
		),
	)
	defer span.End()

	err := r.next.Reorder(ctx, orgID, statusType, orderedIDs)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
