package queries

import (
	"context"
)

// ListStaffOrdersQueryHandler serves the staff list from the view synchronizer, so a list
// read right after a transition shows the new status.
type ListStaffOrdersQueryHandler struct {
	views Views
}

func NewListStaffOrdersQueryHandler(views Views) ListStaffOrdersQueryHandler {
	return ListStaffOrdersQueryHandler{views: views}
}

// Handle returns the matching orders in list order.
func (h ListStaffOrdersQueryHandler) Handle(ctx context.Context, query ListStaffOrdersQuery) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders, err := h.views.StaffList(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		if query.matches(o) {
			result = append(result, newOrderView(o))
		}
	}
	return result, nil
}
