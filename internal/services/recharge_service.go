package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"leadflow/internal/gateway"
	"leadflow/internal/models/db_models"
	"leadflow/internal/models/request_models"
	"leadflow/internal/models/response_models"
	"leadflow/internal/repositories"
	"leadflow/pkg/utils"
)

type RechargeConfig struct {
	MinAmountMinor int64         // minimum top-up, minor units
	PendingTTL     time.Duration // how long an unsettled order stays claimable
}

// RechargeService drives the two-phase top-up: an external order plus a
// pending ledger row on initiation, then a signature-verified settlement that
// credits the wallet.
type RechargeService interface {
	Initiate(ctx context.Context, companyID uuid.UUID, req request_models.InitiateRechargeRequest) (*response_models.InitiateRechargeResponse, error)
	Verify(ctx context.Context, orderID, paymentID, signature string) (*response_models.VerifyRechargeResponse, error)
	ExpirePending(ctx context.Context) (int64, error)
}

type rechargeService struct {
	gw        gateway.PaymentGateway
	discounts DiscountService
	txnRepo   repositories.TransactionRepository
	cfg       RechargeConfig
}

func NewRechargeService(gw gateway.PaymentGateway, discounts DiscountService, txnRepo repositories.TransactionRepository, cfg RechargeConfig) RechargeService {
	if cfg.MinAmountMinor <= 0 {
		cfg.MinAmountMinor = 10000 // ₹100
	}
	if cfg.PendingTTL <= 0 {
		cfg.PendingTTL = 24 * time.Hour
	}
	return &rechargeService{
		gw:        gw,
		discounts: discounts,
		txnRepo:   txnRepo,
		cfg:       cfg,
	}
}

func (r *rechargeService) Initiate(ctx context.Context, companyID uuid.UUID, req request_models.InitiateRechargeRequest) (*response_models.InitiateRechargeResponse, error) {
	if req.AmountMinor < r.cfg.MinAmountMinor {
		return nil, fmt.Errorf("%w: minimum recharge amount is %d", utils.ErrValidation, r.cfg.MinAmountMinor)
	}

	payable := req.AmountMinor
	var discountApplied int64
	appliedCode := ""

	if req.DiscountCode != "" {
		check, err := r.discounts.Validate(ctx, req.DiscountCode, req.AmountMinor)
		if err != nil {
			return nil, err
		}
		// An unusable code is ignored rather than rejected; the caller pays
		// full price, same as entering no code.
		if check.Valid {
			payable = check.FinalAmountMinor
			discountApplied = check.DiscountAmountMinor
			appliedCode = req.DiscountCode
		}
	}

	receipt := fmt.Sprintf("wal_%d", time.Now().UnixMilli())
	order, err := r.gw.CreateOrder(ctx, payable, receipt, map[string]string{
		"company_id":    companyID.String(),
		"type":          "wallet_recharge",
		"credit_amount": fmt.Sprintf("%d", req.AmountMinor),
		"discount_code": appliedCode,
	})
	if err != nil {
		return nil, err
	}

	// The pending row stores the FULL requested credit, not the discounted
	// payable: settle at ₹900 for a ₹1000 top-up with 10% off, credit ₹1000.
	orderID := order.ID
	description := "Wallet recharge via Razorpay"
	if appliedCode != "" {
		description = fmt.Sprintf("%s (Code: %s)", description, appliedCode)
	}
	txn := &db_models.WalletTransaction{
		CompanyID:   companyID,
		AmountMinor: req.AmountMinor,
		Type:        db_models.TxnCreditRecharge,
		ReferenceID: &orderID,
		Description: description,
		Metadata: map[string]interface{}{
			"payable_amount_minor":  payable,
			"discount_code":         appliedCode,
			"discount_amount_minor": discountApplied,
			"razorpay_order_id":     order.ID,
		},
	}
	if err := r.txnRepo.CreatePending(ctx, txn); err != nil {
		return nil, fmt.Errorf("log pending recharge: %w", err)
	}

	return &response_models.InitiateRechargeResponse{
		OrderID:              order.ID,
		PayableAmountMinor:   payable,
		CreditAmountMinor:    req.AmountMinor,
		DiscountAppliedMinor: discountApplied,
		Currency:             order.Currency,
		KeyID:                r.gw.KeyID(),
	}, nil
}

func (r *rechargeService) Verify(ctx context.Context, orderID, paymentID, signature string) (*response_models.VerifyRechargeResponse, error) {
	if orderID == "" || paymentID == "" || signature == "" {
		return nil, fmt.Errorf("%w: missing required parameters", utils.ErrValidation)
	}

	// Nothing happens before the callback proves itself.
	if !r.gw.VerifySignature(orderID, paymentID, signature) {
		return nil, utils.ErrIntegrity
	}

	settled, newBalance, err := r.txnRepo.SettleRecharge(ctx, orderID, paymentID)
	if err != nil {
		return nil, err
	}

	// The settlement is the one point a discount code's usage counts.
	if code, ok := settled.Metadata["discount_code"].(string); ok && code != "" {
		if err := r.discounts.RecordUse(ctx, code); err != nil {
			log.Printf("record discount use %q for order %s: %v", code, orderID, err)
		}
	}

	return &response_models.VerifyRechargeResponse{NewBalanceMinor: newBalance}, nil
}

func (r *rechargeService) ExpirePending(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-r.cfg.PendingTTL).Unix()
	expired, err := r.txnRepo.ExpirePending(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if expired > 0 {
		log.Printf("expired %d stale pending recharge(s)", expired)
	}
	return expired, nil
}
