package orders

const (
	TopicOrderCreated  = "payment.order.created"
	TopicPaymentStatus = "payment.status"
)

// Partition key = order_id, supaya semua event 1 order maintain urutan.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
