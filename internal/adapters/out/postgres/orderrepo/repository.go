package orderrepo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"farmacia/internal/core/domain/model/kernel"
	"farmacia/internal/core/domain/model/order"
	"farmacia/internal/core/ports"
	"farmacia/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ ports.OrderRepository = (*GormOrderRepository)(nil)

// sortColumns maps the sortable fields to their columns.
var sortColumns = map[ports.SortField]string{
	ports.SortByCreatedAt: "created_at",
	ports.SortByUpdatedAt: "updated_at",
	ports.SortByNumber:    "number",
}

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
	logger  *slog.Logger
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker, logger *slog.Logger) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
		logger:  logger,
	}
}

// List retrieves orders with their items, sorted and capped by spec. A row that does not
// restore into a valid order is logged and left out, so one bad row cannot hide the rest.
func (r *GormOrderRepository) List(ctx context.Context, spec ports.ListSpec) ([]*order.Order, error) {
	column, ok := sortColumns[spec.SortBy]
	if !ok {
		return nil, errs.NewValueIsInvalidErrorWithCause("sort by", fmt.Errorf("%q is not sortable", spec.SortBy))
	}

	query := r.db.WithContext(ctx).
		Preload("Items", orderedItems).
		Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: spec.Descending}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}})
	if spec.Limit > 0 {
		query = query.Limit(spec.Limit)
	}

	var dtos []OrderDTO
	if err := query.Find(&dtos).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			r.logger.WarnContext(ctx, "Skipping order that cannot be restored",
				"order_id", dto.ID.String(), "number", dto.Number, "error", err)
			continue
		}
		orders = append(orders, o)
	}

	return orders, nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).
		Preload("Items", orderedItems).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// Add saves a new order and its items to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes the status and timestamp of an existing order, then reads it back.
func (r *GormOrderRepository) Update(
	ctx context.Context,
	id kernel.UUID,
	patch ports.OrderPatch,
) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := patch.Status.Validate(); err != nil {
		return nil, err
	}
	if patch.UpdatedAt.IsZero() {
		return nil, errs.NewValueIsRequiredError("updated at")
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ?", id.Bytes()).
		Updates(map[string]any{
			"status":     patch.Status.String(),
			"updated_at": patch.UpdatedAt.UTC(),
		})
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}

	stored, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	r.tracker.TrackAggregate(stored.ID(), stored)
	return stored, nil
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("position")
}
