package domain

// CartItem pairs a product with a requested quantity. The product is a
// snapshot of the catalog entry at the time the item entered the cart.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// CartTotals holds the derived money values for a cart. They are
// recomputed on every read, never stored.
type CartTotals struct {
	Subtotal   float64 `json:"subtotal"`
	Discount   float64 `json:"discount"`
	GrandTotal float64 `json:"grandTotal"`
	ItemCount  int     `json:"itemCount"`
}

// ComputeCartTotals derives subtotal, discount and grand total for the
// given items using the purchasing user's discount rate.
func ComputeCartTotals(items []CartItem, discountRate float64) CartTotals {
	var totals CartTotals
	for _, item := range items {
		totals.Subtotal += item.Product.Price * float64(item.Quantity)
		totals.ItemCount += item.Quantity
	}
	totals.Discount = totals.Subtotal * discountRate
	totals.GrandTotal = totals.Subtotal - totals.Discount
	return totals
}
