package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"leadflow/internal/models/db_models"
	"leadflow/internal/models/request_models"
	"leadflow/internal/models/response_models"
	"leadflow/internal/repositories"
	"leadflow/pkg/notify"
	"leadflow/pkg/utils"
)

type SubscriptionConfig struct {
	SeatPriceMinor int64 // monthly price per seat, minor units
}

// Multi-month prepayment discounts, percent off.
var extendDiscountPct = map[int]int{1: 0, 3: 10, 6: 20, 12: 40}

type SubscriptionService interface {
	// RunSweep auto-debits seat renewals for companies expiring within 24h of
	// now. Safe to re-run and safe to overlap: the extension is guarded on
	// the previous validity, and a run that loses that race refunds its
	// debit, so a company is never charged twice for one window.
	RunSweep(ctx context.Context, now time.Time) (*response_models.SweepResponse, error)
	Manage(ctx context.Context, companyID uuid.UUID, req request_models.ManageSubscriptionRequest) (*response_models.ManageSubscriptionResponse, error)
}

type subscriptionService struct {
	companyRepo repositories.CompanyRepository
	wallet      WalletService
	notifier    notify.Notifier
	cfg         SubscriptionConfig
}

func NewSubscriptionService(companyRepo repositories.CompanyRepository, wallet WalletService, notifier notify.Notifier, cfg SubscriptionConfig) SubscriptionService {
	if cfg.SeatPriceMinor <= 0 {
		cfg.SeatPriceMinor = 50000 // ₹500 per seat per month
	}
	return &subscriptionService{
		companyRepo: companyRepo,
		wallet:      wallet,
		notifier:    notifier,
		cfg:         cfg,
	}
}

func (s *subscriptionService) RunSweep(ctx context.Context, now time.Time) (*response_models.SweepResponse, error) {
	threshold := now.Add(24 * time.Hour).Unix()

	companies, err := s.companyRepo.ListDueForRenewal(ctx, threshold)
	if err != nil {
		return nil, err
	}

	resp := &response_models.SweepResponse{
		ProcessedCount: len(companies),
		Results:        []response_models.SweepResult{},
	}

	for _, listed := range companies {
		// Re-read before charging; a concurrent or repeated sweep may have
		// renewed this company since the listing query ran.
		company, err := s.companyRepo.FindByID(ctx, listed.ID)
		if err != nil {
			log.Printf("sweep: reload failed for company %s: %v", listed.ID, err)
			continue
		}
		if company == nil || company.SubscriptionValidUntil == nil || *company.SubscriptionValidUntil >= threshold {
			continue
		}
		seats := company.TotalLicenses
		if seats == 0 {
			continue
		}

		cost := int64(seats) * s.cfg.SeatPriceMinor

		_, err = s.wallet.Debit(ctx, company.ID, cost, db_models.TxnDebitAutoRenewal, "Monthly subscription auto-renewal")
		if err != nil {
			var insufficient *utils.InsufficientFundsError
			if !errors.As(err, &insufficient) {
				log.Printf("sweep: debit failed for company %s: %v", company.ID, err)
				continue
			}

			if err := s.companyRepo.SetSubscriptionStatus(ctx, company.ID, db_models.SubStatusPastDue); err != nil {
				log.Printf("sweep: mark past_due failed for company %s: %v", company.ID, err)
			}
			s.notifyRenewalFailure(ctx, company, seats, insufficient)
			resp.Results = append(resp.Results, response_models.SweepResult{
				CompanyID: company.ID,
				Status:    "failed_insufficient_funds",
			})
			continue
		}

		// Extend by one calendar month from the previous validity, not from
		// now, so late sweeps do not shorten the paid window. The guard on
		// the previous value is what makes overlapping sweeps charge once.
		prevValidUntil := *company.SubscriptionValidUntil
		newValidUntil := utils.AddCalendarMonths(prevValidUntil, 1)
		extended, err := s.companyRepo.ExtendSubscription(ctx, company.ID, prevValidUntil, newValidUntil)
		if err != nil {
			log.Printf("sweep: extend failed for company %s after debit: %v", company.ID, err)
			s.refundRenewal(ctx, company.ID, cost)
			continue
		}
		if !extended {
			// Another run renewed this company between our read and our
			// write; its debit covers the window, ours goes back.
			s.refundRenewal(ctx, company.ID, cost)
			continue
		}

		resp.Results = append(resp.Results, response_models.SweepResult{
			CompanyID: company.ID,
			Status:    "renewed",
		})
	}

	return resp, nil
}

func (s *subscriptionService) refundRenewal(ctx context.Context, companyID uuid.UUID, cost int64) {
	if _, err := s.wallet.Credit(ctx, companyID, cost, db_models.TxnCreditManualAdjustment,
		"Refund: Monthly subscription auto-renewal failed", nil, nil); err != nil {
		log.Printf("CRITICAL: compensating credit failed for company %s (%d minor): %v", companyID, cost, err)
	}
}

func (s *subscriptionService) notifyRenewalFailure(ctx context.Context, company *db_models.Company, seats int, insufficient *utils.InsufficientFundsError) {
	recipient := company.BillingEmail
	if recipient == "" {
		// No address on file; the log notifier still records the event.
		recipient = company.ID.String()
	}
	if err := s.notifier.Notify(ctx, recipient, "Subscription renewal failed",
		fmt.Sprintf("Auto-renewal of %d seat(s) needs %d but the wallet holds %d. Please recharge.",
			seats, insufficient.Required, insufficient.CurrentBalance)); err != nil {
		log.Printf("sweep: notify failed for company %s: %v", company.ID, err)
	}
}

func (s *subscriptionService) Manage(ctx context.Context, companyID uuid.UUID, req request_models.ManageSubscriptionRequest) (*response_models.ManageSubscriptionResponse, error) {
	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, fmt.Errorf("%w: company not found", utils.ErrNotFound)
	}

	switch req.Action {
	case "add_seats":
		return s.addSeats(ctx, company, req.Quantity)
	case "extend_subscription":
		return s.extend(ctx, company, req.Months)
	default:
		return nil, fmt.Errorf("%w: invalid action", utils.ErrValidation)
	}
}

func (s *subscriptionService) addSeats(ctx context.Context, company *db_models.Company, qty int) (*response_models.ManageSubscriptionResponse, error) {
	if qty < 1 {
		return nil, fmt.Errorf("%w: invalid quantity", utils.ErrValidation)
	}

	now := time.Now()

	// New seats pay pro-rata for the remainder of the current window; an
	// expired (or never started) subscription restarts with a 30-day window.
	var daysRemaining int64
	var restartUntil *int64
	if company.SubscriptionValidUntil != nil && *company.SubscriptionValidUntil > now.Unix() {
		daysRemaining = utils.CeilDiv(*company.SubscriptionValidUntil-now.Unix(), 86400)
	} else {
		daysRemaining = 30
		v := now.Add(30 * 24 * time.Hour).Unix()
		restartUntil = &v
	}

	cost := utils.CeilDiv(s.cfg.SeatPriceMinor*daysRemaining*int64(qty), 30)
	description := fmt.Sprintf("Purchased %d seat(s) for %d days", qty, daysRemaining)

	newValidUntil := int64(0)
	if restartUntil != nil {
		newValidUntil = *restartUntil
	} else {
		newValidUntil = *company.SubscriptionValidUntil
	}

	// Seats and the restarted window land in one statement, so a compensated
	// failure grants nothing.
	newBalance, err := s.wallet.DebitThenDo(ctx, company.ID, cost, db_models.TxnDebitLicensePurchase, description,
		func(ctx context.Context) error {
			return s.companyRepo.GrantSeats(ctx, company.ID, qty, restartUntil)
		})
	if err != nil {
		return nil, err
	}

	return &response_models.ManageSubscriptionResponse{
		CostMinor:              cost,
		TotalLicenses:          company.TotalLicenses + qty,
		SubscriptionValidUntil: &newValidUntil,
		NewBalanceMinor:        newBalance,
	}, nil
}

func (s *subscriptionService) extend(ctx context.Context, company *db_models.Company, months int) (*response_models.ManageSubscriptionResponse, error) {
	pct, ok := extendDiscountPct[months]
	if !ok {
		return nil, fmt.Errorf("%w: invalid duration", utils.ErrValidation)
	}

	seats := company.TotalLicenses
	if seats < 1 {
		seats = 1
	}

	base := int64(seats) * s.cfg.SeatPriceMinor * int64(months)
	cost := base - utils.PercentOf(base, pct)

	// Extend from the current validity when still live, else from now.
	now := time.Now().Unix()
	from := now
	if company.SubscriptionValidUntil != nil && *company.SubscriptionValidUntil > now {
		from = *company.SubscriptionValidUntil
	}
	newValidUntil := utils.AddCalendarMonths(from, months)

	description := fmt.Sprintf("Extended subscription by %d month(s) (%d%% off)", months, pct)

	newBalance, err := s.wallet.DebitThenDo(ctx, company.ID, cost, db_models.TxnDebitLicensePurchase, description,
		func(ctx context.Context) error {
			return s.companyRepo.UpdateSubscription(ctx, company.ID, newValidUntil, db_models.SubStatusActive)
		})
	if err != nil {
		return nil, err
	}

	return &response_models.ManageSubscriptionResponse{
		CostMinor:              cost,
		TotalLicenses:          company.TotalLicenses,
		SubscriptionValidUntil: &newValidUntil,
		NewBalanceMinor:        newBalance,
	}, nil
}
