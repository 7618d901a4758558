package http

import (
	"time"

	"farmacia/internal/core/application/usecases/queries"
	"farmacia/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type Status struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

type Customer struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

type LineItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
}

type Amounts struct {
	Subtotal    string `json:"subtotal"`
	DeliveryFee string `json:"delivery_fee"`
	Discount    string `json:"discount"`
	Total       string `json:"total"`
}

type Order struct {
	ID              string     `json:"id"`
	Number          string     `json:"number"`
	Status          Status     `json:"status"`
	Customer        Customer   `json:"customer"`
	Items           []LineItem `json:"items"`
	Amounts         Amounts    `json:"amounts"`
	DeliveryAddress string     `json:"delivery_address"`
	PaymentMethod   string     `json:"payment_method"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type OrderDetail struct {
	Order

	AllowedTransitions []Status `json:"allowed_transitions"`
}

type StatusOption struct {
	Status

	Enabled bool `json:"enabled"`
	Current bool `json:"current"`
}

type AllowedTransitions struct {
	Current Status         `json:"current"`
	Options []StatusOption `json:"options"`
}

// TransitionRequest is the body of PATCH /api/v1/orders/:id/status.
type TransitionRequest struct {
	Status string `json:"status"`
}

// TransitionResponse reports an applied (or no-op) transition. HandoffURL is set when staff
// must open it to message the customer.
type TransitionResponse struct {
	ID         string    `json:"id"`
	Number     string    `json:"number"`
	Status     Status    `json:"status"`
	UpdatedAt  time.Time `json:"updated_at"`
	NoOp       bool      `json:"no_op"`
	HandoffURL string    `json:"handoff_url,omitempty"`
}

type TrackingStep struct {
	Status

	Reached bool `json:"reached"`
}

type Tracking struct {
	ID        string         `json:"id"`
	Number    string         `json:"number"`
	Status    Status         `json:"status"`
	Steps     []TrackingStep `json:"steps"`
	Total     string         `json:"total"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type PollingState struct {
	Enabled *bool `json:"enabled"`
}

type RefreshResponse struct {
	Orders int  `json:"orders"`
	Shared bool `json:"shared"`
}

// NewOrderItem is one line of a checkout submission. Prices accept JSON numbers or strings.
type NewOrderItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

type NewOrderAmounts struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`
}

// NewOrder is the body of POST /api/v1/orders, sent by checkout.
type NewOrder struct {
	Number          string          `json:"number"`
	Customer        Customer        `json:"customer"`
	Items           []NewOrderItem  `json:"items"`
	Amounts         NewOrderAmounts `json:"amounts"`
	DeliveryAddress string          `json:"delivery_address"`
	PaymentMethod   string          `json:"payment_method"`
}

type Created struct {
	ID string `json:"id"`
}

func (n NewOrder) details() order.Details {
	items := make([]order.LineItem, 0, len(n.Items))
	for _, item := range n.Items {
		items = append(items, order.LineItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}

	return order.Details{
		Number: n.Number,
		Customer: order.Customer{
			ID:    n.Customer.ID,
			Name:  n.Customer.Name,
			Phone: n.Customer.Phone,
			Email: n.Customer.Email,
		},
		Items: items,
		Amounts: order.Amounts{
			Subtotal:    n.Amounts.Subtotal,
			DeliveryFee: n.Amounts.DeliveryFee,
			Discount:    n.Amounts.Discount,
			Total:       n.Amounts.Total,
		},
		DeliveryAddress: n.DeliveryAddress,
		PaymentMethod:   n.PaymentMethod,
	}
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func toStatus(v queries.StatusView) Status {
	return Status{Code: v.Code, Label: v.Label}
}

func toStatuses(views []queries.StatusView) []Status {
	out := make([]Status, 0, len(views))
	for _, v := range views {
		out = append(out, toStatus(v))
	}
	return out
}

func toOrder(v queries.OrderView) Order {
	items := make([]LineItem, 0, len(v.Items))
	for _, item := range v.Items {
		items = append(items, LineItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: money(item.UnitPrice),
			Quantity:  item.Quantity,
			LineTotal: money(item.LineTotal),
		})
	}

	return Order{
		ID:     v.ID.String(),
		Number: v.Number,
		Status: toStatus(v.Status),
		Customer: Customer{
			ID:    v.Customer.ID,
			Name:  v.Customer.Name,
			Phone: v.Customer.Phone,
			Email: v.Customer.Email,
		},
		Items: items,
		Amounts: Amounts{
			Subtotal:    money(v.Amounts.Subtotal),
			DeliveryFee: money(v.Amounts.DeliveryFee),
			Discount:    money(v.Amounts.Discount),
			Total:       money(v.Amounts.Total),
		},
		DeliveryAddress: v.DeliveryAddress,
		PaymentMethod:   v.PaymentMethod,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
	}
}

func toOrders(views []queries.OrderView) []Order {
	out := make([]Order, 0, len(views))
	for _, v := range views {
		out = append(out, toOrder(v))
	}
	return out
}
