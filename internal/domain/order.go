package domain

import "time"

// OrderStatus is one of the fixed order lifecycle states. The nominal
// sequence below is informational only: status updates are admin-directed
// and the ledger accepts any target state from any current state.
type OrderStatus string

const (
	StatusOrderConfirmed       OrderStatus = "ORDER_CONFIRMED"
	StatusAwaitingPayment      OrderStatus = "AWAITING_PAYMENT"
	StatusPaymentProofUploaded OrderStatus = "PAYMENT_PROOF_UPLOADED"
	StatusPaymentConfirmed     OrderStatus = "PAYMENT_CONFIRMED"
	StatusProcessing           OrderStatus = "PROCESSING"
	StatusShipped              OrderStatus = "SHIPPED"
	StatusInTransit            OrderStatus = "IN_TRANSIT"
	StatusInCustoms            OrderStatus = "IN_CUSTOMS"
	StatusNearingDelivery      OrderStatus = "NEARING_DELIVERY"
	StatusDelivered            OrderStatus = "DELIVERED"
	StatusCancelled            OrderStatus = "CANCELLED"
)

// OrderStatuses lists every order status in nominal lifecycle order,
// with CANCELLED last.
var OrderStatuses = []OrderStatus{
	StatusOrderConfirmed,
	StatusAwaitingPayment,
	StatusPaymentProofUploaded,
	StatusPaymentConfirmed,
	StatusProcessing,
	StatusShipped,
	StatusInTransit,
	StatusInCustoms,
	StatusNearingDelivery,
	StatusDelivered,
	StatusCancelled,
}

// ValidOrderStatus reports whether s is one of the known statuses.
func ValidOrderStatus(s OrderStatus) bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Order is an immutable snapshot of a cart at checkout time plus a
// mutable status/annotation trail. Subtotal, DiscountApplied and
// GrandTotal are computed once at creation and never recomputed from the
// items, even if product prices later change.
type Order struct {
	ID              string      `json:"id"`
	UserID          string      `json:"userId"`
	OrderDate       time.Time   `json:"orderDate"`
	Items           []CartItem  `json:"items"`
	Subtotal        float64     `json:"subtotal"`
	DiscountApplied float64     `json:"discountApplied"`
	GrandTotal      float64     `json:"grandTotal"`
	Status          OrderStatus `json:"status"`

	PaymentProofURL   string `json:"paymentProofUrl,omitempty"`
	CustomerNotes     string `json:"customerNotes,omitempty"`
	ContainerPhotoURL string `json:"containerPhotoUrl,omitempty"`
	AdminNotes        string `json:"adminNotes,omitempty"`
}
