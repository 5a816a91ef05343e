package gateway

import "context"

// Order is an external payment order awaiting checkout.
type Order struct {
	ID          string
	AmountMinor int64
	Currency    string
}

// PaymentGateway is the trust boundary to the payment provider. CreateOrder
// opens an order for the payable amount; VerifySignature authenticates a
// settlement callback before any state changes.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amountMinor int64, receipt string, notes map[string]string) (*Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
	KeyID() string
}
