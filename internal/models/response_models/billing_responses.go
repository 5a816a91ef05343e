package response_models

import "github.com/google/uuid"

type InitiateRechargeResponse struct {
	OrderID              string `json:"order_id"`
	PayableAmountMinor   int64  `json:"payable_amount_minor"`
	CreditAmountMinor    int64  `json:"credit_amount_minor"`
	DiscountAppliedMinor int64  `json:"discount_applied_minor"`
	Currency             string `json:"currency"`
	KeyID                string `json:"key_id"`
}

type VerifyRechargeResponse struct {
	NewBalanceMinor int64 `json:"new_balance_minor"`
}

type BalanceResponse struct {
	BalanceMinor int64 `json:"balance_minor"`
}

type RedeemGiftCardResponse struct {
	AmountMinor     int64 `json:"amount_minor"`
	NewBalanceMinor int64 `json:"new_balance_minor"`
}

type DiscountValidationResponse struct {
	Valid               bool   `json:"valid"`
	DiscountPercentage  int    `json:"discount_percentage,omitempty"`
	DiscountAmountMinor int64  `json:"discount_amount_minor,omitempty"`
	FinalAmountMinor    int64  `json:"final_amount_minor,omitempty"`
	Message             string `json:"message"`
}

type UnlockFeatureResponse struct {
	FeatureName     string `json:"feature_name"`
	NewBalanceMinor int64  `json:"new_balance_minor"`
}

type TransactionResponse struct {
	ID          uuid.UUID              `json:"id"`
	AmountMinor int64                  `json:"amount_minor"`
	Type        string                 `json:"type"`
	Status      string                 `json:"status"`
	ReferenceID *string                `json:"reference_id,omitempty"`
	Description string                 `json:"description"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt   int64                  `json:"created_at"`
}

type ManageSubscriptionResponse struct {
	CostMinor              int64  `json:"cost_minor"`
	TotalLicenses          int    `json:"total_licenses"`
	SubscriptionValidUntil *int64 `json:"subscription_valid_until,omitempty"`
	NewBalanceMinor        int64  `json:"new_balance_minor"`
}

type SweepResult struct {
	CompanyID uuid.UUID `json:"company_id"`
	Status    string    `json:"status"` // renewed | failed_insufficient_funds
}

type SweepResponse struct {
	ProcessedCount int           `json:"processed_count"`
	Results        []SweepResult `json:"results"`
}

type GiftCardResponse struct {
	Code        string `json:"code"`
	AmountMinor int64  `json:"amount_minor"`
	ExpiresAt   *int64 `json:"expires_at,omitempty"`
}
