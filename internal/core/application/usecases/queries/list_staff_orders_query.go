package queries

import (
	"errors"
	"strings"

	"farmacia/internal/core/domain/model/order"
	"farmacia/internal/pkg/guard"
)

var (
	ErrListStaffOrdersQueryIsNotConstructed = errors.New(
		"ListStaffOrdersQuery must be created via NewListStaffOrdersQuery constructor",
	)
)

// ListStaffOrdersQuery reads the staff order list, optionally narrowed by a free-text
// search over number, customer name, phone and email, and by status.
//
// Example:
//
//	query, err := NewListStaffOrdersQuery("ana", order.Pending)
//	orders, err := handler.Handle(ctx, query)
type ListStaffOrdersQuery struct {
	search string
	status order.Status

	guard guard.ConstructorGuard
}

// NewListStaffOrdersQuery builds the query. order.Unknown means "any status".
func NewListStaffOrdersQuery(search string, status order.Status) (ListStaffOrdersQuery, error) {
	if status != order.Unknown {
		if err := status.Validate(); err != nil {
			return ListStaffOrdersQuery{}, err
		}
	}

	return ListStaffOrdersQuery{
		search: strings.TrimSpace(search),
		status: status,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q ListStaffOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListStaffOrdersQueryIsNotConstructed)
}

func (q ListStaffOrdersQuery) Search() string       { return q.search }
func (q ListStaffOrdersQuery) Status() order.Status { return q.status }

func (q ListStaffOrdersQuery) matches(o *order.Order) bool {
	if q.status != order.Unknown && o.Status() != q.status {
		return false
	}
	return o.MatchesSearch(q.search)
}
