package request_models

type InitiateRechargeRequest struct {
	AmountMinor  int64  `json:"amount_minor" binding:"required"`
	DiscountCode string `json:"discount_code"`
}

// Field names follow the gateway's checkout callback payload.
type VerifyRechargeRequest struct {
	OrderID   string `json:"razorpay_order_id" binding:"required"`
	PaymentID string `json:"razorpay_payment_id" binding:"required"`
	Signature string `json:"razorpay_signature" binding:"required"`
}

type RedeemGiftCardRequest struct {
	Code string `json:"code" binding:"required"`
}

type ValidateDiscountRequest struct {
	Code        string `json:"code" binding:"required"`
	AmountMinor int64  `json:"amount_minor" binding:"required"`
}

type UnlockFeatureRequest struct {
	FeatureName string `json:"feature_name" binding:"required"`
	// Ignored for catalog add-ons, whose price is resolved server-side.
	AmountMinor int64 `json:"amount_minor"`
}

type ManageSubscriptionRequest struct {
	Action   string `json:"action" binding:"required"` // add_seats | extend_subscription
	Quantity int    `json:"quantity"`
	Months   int    `json:"months"`
}

type AdminCreditRequest struct {
	CompanyID   string `json:"company_id" binding:"required"`
	AmountMinor int64  `json:"amount_minor" binding:"required"`
	Description string `json:"description"`
}

type CreateGiftCardRequest struct {
	AmountMinor int64  `json:"amount_minor" binding:"required"`
	ExpiresAt   *int64 `json:"expires_at"`
}
