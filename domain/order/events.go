package order

// Event names written to the outbox.
const (
	EventPlaced               = "order.placed"
	EventDetailAdded          = "order.detail_added"
	EventStatusChanged        = "order.status_changed"
	EventPaymentStatusChanged = "order.payment_status_changed"
)
