// Package http exposes the order lifecycle over a JSON API on echo.
package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"farmacia/internal/core/application/usecases/commands"
	"farmacia/internal/core/application/usecases/queries"
	"farmacia/internal/core/domain/model/kernel"
	"farmacia/internal/core/domain/model/order"
	"farmacia/internal/jobs"
	"farmacia/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Refresher triggers a staff list refresh, joining one already in flight.
type Refresher interface {
	RefreshNow(ctx context.Context) (jobs.RefreshResult, error)
}

// PollingToggle switches the polling scheduler on and off.
type PollingToggle interface {
	SetPollingEnabled(enabled bool) error
	PollingEnabled() bool
}

// Handlers groups the use cases the server dispatches to.
type Handlers struct {
	RequestTransition  commands.RequestTransitionCommandHandler
	PlaceOrder         commands.PlaceOrderCommandHandler
	ListStaffOrders    queries.ListStaffOrdersQueryHandler
	GetOrderDetail     queries.GetOrderDetailQueryHandler
	AllowedTransitions queries.GetAllowedTransitionsQueryHandler
	GetTracking        queries.GetTrackingQueryHandler
	GetCustomerOrders  queries.GetCustomerOrdersQueryHandler
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	handlers  Handlers
	refresher Refresher
	polling   PollingToggle
	logger    *slog.Logger
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(handlers Handlers, refresher Refresher, polling PollingToggle, logger *slog.Logger) *Server {
	return &Server{
		handlers:  handlers,
		refresher: refresher,
		polling:   polling,
		logger:    logger.With("component", "http_server"),
	}
}

// Register mounts every route on e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1")
	api.GET("/orders", s.ListOrders)
	api.POST("/orders", s.PlaceOrder)
	api.POST("/orders/refresh", s.RefreshOrders)
	api.GET("/orders/:id", s.GetOrder)
	api.GET("/orders/:id/transitions", s.GetAllowedTransitions)
	api.PATCH("/orders/:id/status", s.RequestTransition)
	api.GET("/polling", s.GetPolling)
	api.PUT("/polling", s.SetPolling)
	api.GET("/tracking/:id", s.GetTracking)
	api.GET("/customers/orders", s.GetCustomerOrders)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

// ListOrders handles GET /api/v1/orders - the staff list, optionally filtered.
func (s *Server) ListOrders(ctx echo.Context) error {
	status := order.Unknown
	if raw := ctx.QueryParam("status"); raw != "" {
		parsed, err := order.ParseStatus(raw)
		if err != nil {
			return badRequest(ctx, "Invalid status filter: "+err.Error())
		}
		status = parsed
	}

	query, err := queries.NewListStaffOrdersQuery(ctx.QueryParam("search"), status)
	if err != nil {
		return badRequest(ctx, "Invalid filter: "+err.Error())
	}

	views, err := s.handlers.ListStaffOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err, "Failed to retrieve orders")
	}

	return ctx.JSON(http.StatusOK, toOrders(views))
}

// PlaceOrder handles POST /api/v1/orders - checkout hands over a new order.
func (s *Server) PlaceOrder(ctx echo.Context) error {
	var body NewOrder
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewPlaceOrderCommand(orderID, body.details())
	if err != nil {
		return badRequest(ctx, "Invalid order data: "+err.Error())
	}

	if err := s.handlers.PlaceOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err, "Failed to place order")
	}

	return ctx.JSON(http.StatusCreated, Created{ID: orderID.String()})
}

// RefreshOrders handles POST /api/v1/orders/refresh - an immediate refresh of the staff list.
func (s *Server) RefreshOrders(ctx echo.Context) error {
	result, err := s.refresher.RefreshNow(ctx.Request().Context())
	if err != nil {
		s.logger.WarnContext(ctx.Request().Context(), "Manual refresh failed", "error", err)
		return ctx.JSON(http.StatusServiceUnavailable, Error{
			Code:    http.StatusServiceUnavailable,
			Message: "Could not refresh orders, try again",
		})
	}

	return ctx.JSON(http.StatusOK, RefreshResponse{Orders: result.Orders, Shared: result.Shared})
}

// GetOrder handles GET /api/v1/orders/:id - the staff detail view.
func (s *Server) GetOrder(ctx echo.Context) error {
	id, err := orderID(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	query, err := queries.NewGetOrderDetailQuery(id)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	detail, err := s.handlers.GetOrderDetail.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err, "Failed to retrieve order")
	}

	return ctx.JSON(http.StatusOK, OrderDetail{
		Order:              toOrder(detail.OrderView),
		AllowedTransitions: toStatuses(detail.AllowedTransitions),
	})
}

// GetAllowedTransitions handles GET /api/v1/orders/:id/transitions - the status selector.
func (s *Server) GetAllowedTransitions(ctx echo.Context) error {
	id, err := orderID(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	query, err := queries.NewGetAllowedTransitionsQuery(id)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	allowed, err := s.handlers.AllowedTransitions.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err, "Failed to retrieve transitions")
	}

	options := make([]StatusOption, 0, len(allowed.Options))
	for _, opt := range allowed.Options {
		options = append(options, StatusOption{
			Status:  toStatus(opt.StatusView),
			Enabled: opt.Enabled,
			Current: opt.Current,
		})
	}

	return ctx.JSON(http.StatusOK, AllowedTransitions{Current: toStatus(allowed.Current), Options: options})
}

// RequestTransition handles PATCH /api/v1/orders/:id/status.
// 200 on success or no-op, 409 when the rules deny it, 503 when it could not be saved.
func (s *Server) RequestTransition(ctx echo.Context) error {
	id, err := orderID(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	var body TransitionRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	status, err := order.ParseStatus(strings.TrimSpace(body.Status))
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	cmd, err := commands.NewRequestTransitionCommand(id, status)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	result, err := s.handlers.RequestTransition.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err, "Failed to update order status")
	}

	if result.Outcome == commands.Denied {
		return ctx.JSON(http.StatusConflict, Error{
			Code:    http.StatusConflict,
			Message: result.Reason,
		})
	}

	response := TransitionResponse{
		ID:        result.Order.ID().String(),
		Number:    result.Order.Number(),
		Status:    Status{Code: result.Order.Status().String(), Label: result.Order.Status().Label()},
		UpdatedAt: result.Order.UpdatedAt(),
		NoOp:      result.NoOp,
	}
	if result.Handoff != nil {
		response.HandoffURL = result.Handoff.URL
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetPolling handles GET /api/v1/polling.
func (s *Server) GetPolling(ctx echo.Context) error {
	enabled := s.polling.PollingEnabled()
	return ctx.JSON(http.StatusOK, PollingState{Enabled: &enabled})
}

// SetPolling handles PUT /api/v1/polling - the staff toggle for automatic refresh.
func (s *Server) SetPolling(ctx echo.Context) error {
	var body PollingState
	if err := ctx.Bind(&body); err != nil || body.Enabled == nil {
		return badRequest(ctx, `Body must be {"enabled": true|false}`)
	}

	if err := s.polling.SetPollingEnabled(*body.Enabled); err != nil {
		return s.fail(ctx, err, "Failed to toggle polling")
	}

	enabled := s.polling.PollingEnabled()
	return ctx.JSON(http.StatusOK, PollingState{Enabled: &enabled})
}

// GetTracking handles GET /api/v1/tracking/:id - the customer's view of one order.
func (s *Server) GetTracking(ctx echo.Context) error {
	id, err := orderID(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	query, err := queries.NewGetTrackingQuery(id)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	tracking, err := s.handlers.GetTracking.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err, "Failed to retrieve tracking")
	}

	steps := make([]TrackingStep, 0, len(tracking.Steps))
	for _, step := range tracking.Steps {
		steps = append(steps, TrackingStep{Status: toStatus(step.StatusView), Reached: step.Reached})
	}

	return ctx.JSON(http.StatusOK, Tracking{
		ID:        tracking.OrderID.String(),
		Number:    tracking.Number,
		Status:    toStatus(tracking.Status),
		Steps:     steps,
		Total:     tracking.Total,
		UpdatedAt: tracking.UpdatedAt,
	})
}

// GetCustomerOrders handles GET /api/v1/customers/orders - a customer's order history.
func (s *Server) GetCustomerOrders(ctx echo.Context) error {
	query, err := queries.NewGetCustomerOrdersQuery(order.CustomerRef{
		ID:    ctx.QueryParam("customer_id"),
		Name:  ctx.QueryParam("name"),
		Phone: ctx.QueryParam("phone"),
		Email: ctx.QueryParam("email"),
	})
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	views, err := s.handlers.GetCustomerOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err, "Failed to retrieve orders")
	}

	return ctx.JSON(http.StatusOK, toOrders(views))
}

func orderID(ctx echo.Context) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Param("id"))
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: message})
}

// fail maps a use case error to a response.
func (s *Server) fail(ctx echo.Context, err error, message string) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, Error{Code: http.StatusNotFound, Message: err.Error()})
	case errs.IsRetryable(err):
		return ctx.JSON(http.StatusServiceUnavailable, Error{
			Code:    http.StatusServiceUnavailable,
			Message: message + ", try again",
		})
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return badRequest(ctx, err.Error())
	default:
		s.logger.ErrorContext(ctx.Request().Context(), message, "error", err)
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: message,
		})
	}
}
