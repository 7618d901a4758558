package ports

import (
	"context"
	"time"

	"farmacia/internal/core/domain/model/order"
)

// OrderStatusChanged is emitted after a transition is persisted in platform-managed mode,
// so the platform's own notifier can inform the customer.
type OrderStatusChanged struct {
	OrderID     string       `json:"order_id"`
	OrderNumber string       `json:"order_number"`
	CustomerID  string       `json:"customer_id,omitempty"`
	Previous    order.Status `json:"previous_status"`
	Current     order.Status `json:"status"`
	ChangedAt   time.Time    `json:"changed_at"`
}

// StatusEventPublisher hands status changes to the platform. Delivery is best effort.
type StatusEventPublisher interface {
	Publish(ctx context.Context, event OrderStatusChanged) error
}
