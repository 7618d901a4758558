package order

import (
	"errors"
	"fmt"

	"farmacia/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// AmountsTolerance is the rounding slack accepted between total and its components.
var AmountsTolerance = decimal.New(1, -2)

// Amounts are the monetary figures captured at checkout. The lifecycle core reads them and
// never recomputes them.
type Amounts struct {
	Subtotal    decimal.Decimal
	DeliveryFee decimal.Decimal
	Discount    decimal.Decimal
	Total       decimal.Decimal
}

// Validate checks that no figure is negative and that
// Total == Subtotal + DeliveryFee - Discount within AmountsTolerance.
func (a Amounts) Validate() error {
	var negatives []error
	for name, v := range map[string]decimal.Decimal{
		"subtotal":     a.Subtotal,
		"delivery fee": a.DeliveryFee,
		"discount":     a.Discount,
		"total":        a.Total,
	} {
		if v.IsNegative() {
			negatives = append(negatives, errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("%s is negative", v)))
		}
	}
	if err := errors.Join(negatives...); err != nil {
		return err
	}

	expected := a.Subtotal.Add(a.DeliveryFee).Sub(a.Discount)
	if a.Total.Sub(expected).Abs().GreaterThan(AmountsTolerance) {
		return errs.NewValueIsInvalidErrorWithCause(
			"total",
			fmt.Errorf("%s does not match subtotal + delivery fee - discount = %s", a.Total, expected),
		)
	}

	return nil
}

// LineItem is one product line of an order.
type LineItem struct {
	ProductID string
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

// Validate checks the product reference, quantity and price of the line.
func (i LineItem) Validate() error {
	var problems []error
	if i.ProductID == "" {
		problems = append(problems, errs.NewValueIsRequiredError("item product id"))
	}
	if i.Quantity <= 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"item quantity", fmt.Errorf("%d is not greater than 0", i.Quantity)))
	}
	if i.UnitPrice.IsNegative() {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"item unit price", fmt.Errorf("%s is negative", i.UnitPrice)))
	}
	return errors.Join(problems...)
}

// LineTotal is UnitPrice * Quantity.
func (i LineItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
