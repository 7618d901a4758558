package queries_test

import (
	"testing"

	"farmacia/internal/core/application/usecases/queries"
	"farmacia/internal/core/domain/model/order"
	"farmacia/internal/core/domain/model/order/ordertest"
	"farmacia/internal/core/ports"
	"farmacia/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewGetCustomerOrdersQuery(t *testing.T) {
	_, err := queries.NewGetCustomerOrdersQuery(order.CustomerRef{Phone: "  "})
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestGetCustomerOrdersQueryHandler_Handle(t *testing.T) {
	registered := ordertest.New(t)
	guest := ordertest.New(t,
		ordertest.WithNumber("1050"),
		ordertest.WithCustomer(order.Customer{Name: "Ana Souza", Phone: "11 98765 4321"}),
	)
	stranger := ordertest.New(t,
		ordertest.WithNumber("1051"),
		ordertest.WithCustomer(order.Customer{Name: "Davi", Phone: "31 91234 5678"}),
	)
	all := []*order.Order{registered, guest, stranger}
	spec := ports.ListSpec{SortBy: ports.SortByCreatedAt, Descending: true}

	testCases := []struct {
		name    string
		ref     order.CustomerRef
		numbers []string
	}{
		{"by id", order.CustomerRef{ID: "cus_7781"}, []string{"1042"}},
		{"by phone in any format", order.CustomerRef{Phone: "+55 (11) 98765-4321"}, []string{"1042", "1050"}},
		{"by name", order.CustomerRef{Name: "davi"}, []string{"1051"}},
		{"no match", order.CustomerRef{Email: "nobody@example.com"}, []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := new(MockOrderStore)
			store.On("List", mock.Anything, spec).Return(all, nil).Once()
			h := queries.NewGetCustomerOrdersQueryHandler(store)
			q, err := queries.NewGetCustomerOrdersQuery(tc.ref)
			require.NoError(t, err)

			result, err := h.Handle(t.Context(), q)

			require.NoError(t, err)
			numbers := make([]string, 0, len(result))
			for _, v := range result {
				numbers = append(numbers, v.Number)
			}
			assert.Equal(t, tc.numbers, numbers)
			store.AssertExpectations(t)
		})
	}
}
