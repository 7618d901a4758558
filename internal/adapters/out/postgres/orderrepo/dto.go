// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"farmacia/internal/core/domain/model/kernel"
	"farmacia/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Timestamps are written by the application, never by GORM.
type OrderDTO struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Number          string          `gorm:"type:varchar(32);not null;uniqueIndex"`
	Customer        CustomerDTO     `gorm:"embedded;embeddedPrefix:customer_"`
	Subtotal        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	DeliveryFee     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Discount        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Total           decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	DeliveryAddress string          `gorm:"type:text;not null"`
	PaymentMethod   string          `gorm:"type:varchar(32);not null"`
	Status          string          `gorm:"type:varchar(32);not null;index"`
	CreatedAt       time.Time       `gorm:"not null;index;autoCreateTime:false"`
	UpdatedAt       time.Time       `gorm:"not null;autoUpdateTime:false"`
	Items           []LineItemDTO   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// CustomerDTO is the customer snapshot embedded in the order row.
type CustomerDTO struct {
	ID    string `gorm:"type:varchar(64);index"`
	Name  string `gorm:"type:varchar(255);not null"`
	Phone string `gorm:"type:varchar(32)"`
	Email string `gorm:"type:varchar(255)"`
}

// LineItemDTO represents one order line. Position preserves the checkout order of items.
type LineItemDTO struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position  int             `gorm:"type:int;not null"`
	ProductID string          `gorm:"type:varchar(64);not null"`
	Name      string          `gorm:"type:varchar(255);not null"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Quantity  int             `gorm:"type:int;not null"`
}

// TableName overrides GORM's default "line_item_dtos".
func (LineItemDTO) TableName() string {
	return "order_items"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(o *order.Order) OrderDTO {
	orderID := o.ID().Bytes()
	c := o.Customer()
	a := o.Amounts()

	items := make([]LineItemDTO, 0, len(o.Items()))
	for i, item := range o.Items() {
		items = append(items, LineItemDTO{
			OrderID:   orderID,
			Position:  i,
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}

	return OrderDTO{
		ID:     orderID,
		Number: o.Number(),
		Customer: CustomerDTO{
			ID:    c.ID,
			Name:  c.Name,
			Phone: c.Phone,
			Email: c.Email,
		},
		Subtotal:        a.Subtotal,
		DeliveryFee:     a.DeliveryFee,
		Discount:        a.Discount,
		Total:           a.Total,
		DeliveryAddress: o.DeliveryAddress(),
		PaymentMethod:   o.PaymentMethod(),
		Status:          o.Status().String(),
		CreatedAt:       o.CreatedAt().UTC(),
		UpdatedAt:       o.UpdatedAt().UTC(),
		Items:           items,
	}
}

// toDomain converts a database DTO to an order domain aggregate using RestoreOrder.
// Items are expected in Position order.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	items := make([]order.LineItem, 0, len(dto.Items))
	for _, item := range dto.Items {
		items = append(items, order.LineItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}

	details := order.Details{
		Number: dto.Number,
		Customer: order.Customer{
			ID:    dto.Customer.ID,
			Name:  dto.Customer.Name,
			Phone: dto.Customer.Phone,
			Email: dto.Customer.Email,
		},
		Items: items,
		Amounts: order.Amounts{
			Subtotal:    dto.Subtotal,
			DeliveryFee: dto.DeliveryFee,
			Discount:    dto.Discount,
			Total:       dto.Total,
		},
		DeliveryAddress: dto.DeliveryAddress,
		PaymentMethod:   dto.PaymentMethod,
	}

	return order.RestoreOrder(id, details, status, dto.CreatedAt.UTC(), dto.UpdatedAt.UTC())
}
