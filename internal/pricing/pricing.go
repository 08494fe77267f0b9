// Package pricing holds the money rules shared by carts and orders.
package pricing

import "github.com/shopspring/decimal"

// TaxRate is applied to the subtotal only, never to the delivery fee.
var TaxRate = decimal.RequireFromString("0.05")

type Totals struct {
	Subtotal    decimal.Decimal `json:"subtotal"    bson:"subtotal"`
	DeliveryFee decimal.Decimal `json:"deliveryFee" bson:"delivery_fee"`
	Tax         decimal.Decimal `json:"tax"         bson:"tax"`
	TotalAmount decimal.Decimal `json:"totalAmount" bson:"total_amount"`
}

func LineTotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

// Compute derives subtotal, tax and total from line totals. Every cart and
// order path goes through here so repeated reads never drift.
func Compute(lineTotals []decimal.Decimal, deliveryFee decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, lt := range lineTotals {
		subtotal = subtotal.Add(lt)
	}
	tax := subtotal.Mul(TaxRate)
	return Totals{
		Subtotal:    subtotal,
		DeliveryFee: deliveryFee,
		Tax:         tax,
		TotalAmount: subtotal.Add(deliveryFee).Add(tax),
	}
}

// Zero is the projection of an empty cart.
func Zero() Totals {
	return Totals{Subtotal: decimal.Zero, DeliveryFee: decimal.Zero, Tax: decimal.Zero, TotalAmount: decimal.Zero}
}
