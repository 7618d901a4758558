package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"farmacia/internal/core/domain/model/kernel"
	"farmacia/internal/core/domain/model/notification"
	"farmacia/internal/core/domain/model/order"
	"farmacia/internal/core/ports"
	"farmacia/internal/pkg/errs"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// ErrPersistenceFailed marks a transition whose status write did not reach the store.
// Nothing was propagated; the same request may be resubmitted.
var ErrPersistenceFailed = errors.New("order status could not be persisted")

var (
	tracer = otel.Tracer("farmacia/commands")
	meter  = otel.Meter("farmacia/commands")

	transitionsCounter, _ = meter.Int64Counter("order_transitions_total",
		metric.WithDescription("Transition requests by outcome"))
	handoffsCounter, _ = meter.Int64Counter("order_notification_handoffs_total",
		metric.WithDescription("Customer notification hand-offs produced"))
)

// Outcome is the non-error result of a transition request.
type Outcome int

const (
	Succeeded Outcome = iota + 1
	Denied
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case Denied:
		return "denied"
	default:
		return "unknown"
	}
}

// TransitionResult reports a handled request.
//
// On Succeeded, Order is the order as persisted and Handoff is set when staff must relay a
// customer message. On Denied, Order is the copy the decision was made on and Reason names
// both statuses.
type TransitionResult struct {
	Outcome Outcome
	Order   *order.Order
	Reason  string
	NoOp    bool
	Handoff *notification.Handoff
}

// RequestTransitionCommandHandler moves orders through their lifecycle.
//
// A request is checked against the transition rules using the latest copy the views hold,
// falling back to the store. A legal request is written in its own unit of work, propagated to
// every view, and then, depending on the operating mode, either turned into a customer
// hand-off link or announced to the platform.
//
// Example:
//
//	cmd, _ := NewRequestTransitionCommand(orderID, order.Confirmed)
//	result, err := handler.Handle(ctx, cmd)
//	switch {
//	case errs.IsRetryable(err):
//	    // show "try again"
//	case err != nil:
//	    return err
//	case result.Outcome == Denied:
//	    fmt.Println(result.Reason)
//	case result.Handoff != nil:
//	    open(result.Handoff.URL)
//	}
type RequestTransitionCommandHandler struct {
	uowFactory OrderUoWFactory
	views      OrderViews
	composer   Composer
	settings   ports.SettingsSource
	publisher  ports.StatusEventPublisher
	clock      ports.Clock
	logger     *slog.Logger
}

// NewRequestTransitionCommandHandler wires the controller. publisher may be nil, in which case
// platform-managed transitions are not announced.
func NewRequestTransitionCommandHandler(
	uowFactory OrderUoWFactory,
	views OrderViews,
	composer Composer,
	settings ports.SettingsSource,
	publisher ports.StatusEventPublisher,
	clock ports.Clock,
	logger *slog.Logger,
) RequestTransitionCommandHandler {
	return RequestTransitionCommandHandler{
		uowFactory: uowFactory,
		views:      views,
		composer:   composer,
		settings:   settings,
		publisher:  publisher,
		clock:      clock,
		logger:     logger.With("component", "request_transition_handler"),
	}
}

// Handle processes a transition request. Denials are results, not errors. A returned error
// either wraps ErrPersistenceFailed (retryable) or reports an invalid command or a missing order.
func (h RequestTransitionCommandHandler) Handle(
	ctx context.Context,
	cmd RequestTransitionCommand,
) (TransitionResult, error) {
	if err := cmd.Validate(); err != nil {
		return TransitionResult{}, err
	}

	ctx, span := tracer.Start(ctx, "RequestTransition", trace.WithAttributes(
		attribute.String("order.id", cmd.OrderID().String()),
		attribute.String("order.requested_status", cmd.Status().String()),
	))
	defer span.End()

	result, err := h.handle(ctx, cmd)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		transitionsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "failed")))
		return TransitionResult{}, err
	}

	span.SetAttributes(
		attribute.String("transition.outcome", result.Outcome.String()),
		attribute.Bool("transition.noop", result.NoOp),
	)
	transitionsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", result.Outcome.String())))
	return result, nil
}

func (h RequestTransitionCommandHandler) handle(
	ctx context.Context,
	cmd RequestTransitionCommand,
) (TransitionResult, error) {
	current, err := h.currentOrder(ctx, cmd.OrderID())
	if err != nil {
		return TransitionResult{}, err
	}

	decision := order.ValidateTransition(current.Status(), cmd.Status())
	if !decision.Allowed {
		h.logger.InfoContext(ctx, "Transition denied",
			"order_id", cmd.OrderID().String(), "reason", decision.Reason)
		return TransitionResult{Outcome: Denied, Order: current, Reason: decision.Reason}, nil
	}

	updated, err := h.persist(ctx, cmd.OrderID(), ports.OrderPatch{
		Status:    cmd.Status(),
		UpdatedAt: h.nextUpdatedAt(current.UpdatedAt()),
	})
	if err != nil {
		return TransitionResult{}, err
	}

	h.views.Propagate(updated)

	result := TransitionResult{Outcome: Succeeded, Order: updated, NoOp: decision.NoOp}
	if decision.NoOp {
		return result, nil
	}

	cfg := h.settings.Current()
	if !cfg.NotifiesManually() {
		h.publish(ctx, current.Status(), updated)
		return result, nil
	}

	if updated.Status() == order.Pending {
		return result, nil
	}

	if msg, ok := h.composer.Compose(updated, updated.Status(), cfg.Store); ok {
		handoff := msg.Handoff()
		result.Handoff = &handoff
		handoffsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("status", updated.Status().String())))
	}

	return result, nil
}

// currentOrder prefers the views' copy, which may be newer than a store read that raced a
// local transition.
func (h RequestTransitionCommandHandler) currentOrder(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if o, ok := h.views.Lookup(id); ok {
		return o, nil
	}

	o, err := h.uowFactory.Create().OrderRepository().Get(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrPersistenceFailed, errs.NewTemporaryError("read order", err))
	}
	return o, nil
}

func (h RequestTransitionCommandHandler) persist(
	ctx context.Context,
	id kernel.UUID,
	patch ports.OrderPatch,
) (*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, persistenceFailure(err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	updated, err := uow.OrderRepository().Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil, err
		}
		return nil, persistenceFailure(err)
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, persistenceFailure(err)
	}

	return updated, nil
}

func (h RequestTransitionCommandHandler) publish(ctx context.Context, previous order.Status, updated *order.Order) {
	if h.publisher == nil {
		return
	}

	event := ports.OrderStatusChanged{
		OrderID:     updated.ID().String(),
		OrderNumber: updated.Number(),
		CustomerID:  updated.Customer().ID,
		Previous:    previous,
		Current:     updated.Status(),
		ChangedAt:   updated.UpdatedAt(),
	}
	if err := h.publisher.Publish(ctx, event); err != nil {
		h.logger.WarnContext(ctx, "Status change event not published",
			"order_id", event.OrderID, "status", event.Current.String(), "error", err)
	}
}

// nextUpdatedAt never goes backwards, even if the clock does, and keeps microsecond precision
// so the value survives a round trip through the store unchanged.
func (h RequestTransitionCommandHandler) nextUpdatedAt(previous time.Time) time.Time {
	now := h.clock.Now().UTC().Truncate(time.Microsecond)
	floor := previous.UTC().Truncate(time.Microsecond).Add(time.Microsecond)
	if now.Before(floor) {
		return floor
	}
	return now
}

func persistenceFailure(cause error) error {
	return fmt.Errorf("%w: %w", ErrPersistenceFailed, errs.NewTemporaryError("update order status", cause))
}
