package services_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"leadflow/internal/gateway"
	"leadflow/internal/models/db_models"
	"leadflow/pkg/utils"
)

// In-memory stand-ins for the gorm repositories. They reproduce the
// load-bearing semantics exactly: conditional decrements, one-shot claims and
// settlement flips are all guarded by a single mutex, so the concurrency
// tests exercise the same "exactly one winner" behavior the SQL gives us.

type fakeWalletRepo struct {
	mu       sync.Mutex
	balances map[uuid.UUID]int64
	ledger   []*db_models.WalletTransaction
}

func newFakeWalletRepo() *fakeWalletRepo {
	return &fakeWalletRepo{balances: map[uuid.UUID]int64{}}
}

func (f *fakeWalletRepo) FindByCompany(_ context.Context, companyID uuid.UUID) (*db_models.Wallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	bal, ok := f.balances[companyID]
	if !ok {
		return nil, nil
	}
	return &db_models.Wallet{CompanyID: companyID, BalanceMinor: bal}, nil
}

func (f *fakeWalletRepo) CreditWithLog(_ context.Context, companyID uuid.UUID, amountMinor int64, txn *db_models.WalletTransaction) (int64, error) {
	if amountMinor <= 0 {
		return 0, fmt.Errorf("%w: credit amount must be positive", utils.ErrValidation)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances[companyID] += amountMinor
	txn.ID = uuid.New()
	txn.CompanyID = companyID
	txn.AmountMinor = amountMinor
	txn.Status = db_models.TxnStatusSuccess
	txn.CreatedAt = time.Now().Unix()
	f.ledger = append(f.ledger, txn)
	return f.balances[companyID], nil
}

func (f *fakeWalletRepo) DebitWithLog(_ context.Context, companyID uuid.UUID, amountMinor int64, txn *db_models.WalletTransaction) (int64, error) {
	if amountMinor <= 0 {
		return 0, fmt.Errorf("%w: debit amount must be positive", utils.ErrValidation)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	current := f.balances[companyID]
	if current < amountMinor {
		return 0, &utils.InsufficientFundsError{CurrentBalance: current, Required: amountMinor}
	}
	f.balances[companyID] = current - amountMinor
	txn.ID = uuid.New()
	txn.CompanyID = companyID
	txn.AmountMinor = amountMinor
	txn.Status = db_models.TxnStatusSuccess
	txn.CreatedAt = time.Now().Unix()
	f.ledger = append(f.ledger, txn)
	return f.balances[companyID], nil
}

// ledgerSum folds the signed success entries for one company.
func (f *fakeWalletRepo) ledgerSum(companyID uuid.UUID) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sum int64
	for _, t := range f.ledger {
		if t.CompanyID == companyID && t.Status == db_models.TxnStatusSuccess {
			sum += t.Type.SignedAmount(t.AmountMinor)
		}
	}
	return sum
}

func (f *fakeWalletRepo) countByType(companyID uuid.UUID, txnType db_models.TxnType) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, t := range f.ledger {
		if t.CompanyID == companyID && t.Type == txnType {
			n++
		}
	}
	return n
}

type fakeTransactionRepo struct {
	mu      sync.Mutex
	wallets *fakeWalletRepo
	pending map[string]*db_models.WalletTransaction
}

func newFakeTransactionRepo(wallets *fakeWalletRepo) *fakeTransactionRepo {
	return &fakeTransactionRepo{wallets: wallets, pending: map[string]*db_models.WalletTransaction{}}
}

func (f *fakeTransactionRepo) CreatePending(_ context.Context, txn *db_models.WalletTransaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if txn.ReferenceID == nil {
		return fmt.Errorf("pending transaction needs a reference id")
	}
	if _, exists := f.pending[*txn.ReferenceID]; exists {
		return gorm.ErrDuplicatedKey
	}
	txn.ID = uuid.New()
	txn.Status = db_models.TxnStatusPending
	txn.CreatedAt = time.Now().Unix()
	f.pending[*txn.ReferenceID] = txn
	return nil
}

func (f *fakeTransactionRepo) SettleRecharge(_ context.Context, referenceID, paymentID string) (*db_models.WalletTransaction, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	txn, ok := f.pending[referenceID]
	if !ok || txn.Status != db_models.TxnStatusPending {
		return nil, 0, fmt.Errorf("%w: transaction not found or already processed", utils.ErrNotFound)
	}
	if txn.Metadata == nil {
		txn.Metadata = map[string]interface{}{}
	}
	txn.Metadata["razorpay_payment_id"] = paymentID
	txn.Status = db_models.TxnStatusSuccess

	f.wallets.mu.Lock()
	f.wallets.balances[txn.CompanyID] += txn.AmountMinor
	f.wallets.ledger = append(f.wallets.ledger, txn)
	newBalance := f.wallets.balances[txn.CompanyID]
	f.wallets.mu.Unlock()

	settled := *txn
	return &settled, newBalance, nil
}

func (f *fakeTransactionRepo) ExpirePending(_ context.Context, before int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var expired int64
	for _, txn := range f.pending {
		if txn.Status == db_models.TxnStatusPending && txn.Type == db_models.TxnCreditRecharge && txn.CreatedAt < before {
			txn.Status = db_models.TxnStatusFailed
			expired++
		}
	}
	return expired, nil
}

func (f *fakeTransactionRepo) ListByCompany(_ context.Context, companyID uuid.UUID, limit, offset int) ([]db_models.WalletTransaction, error) {
	f.wallets.mu.Lock()
	defer f.wallets.mu.Unlock()
	var out []db_models.WalletTransaction
	for _, t := range f.wallets.ledger {
		if t.CompanyID == companyID {
			out = append(out, *t)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeTransactionRepo) statusOf(referenceID string) db_models.TxnStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	if txn, ok := f.pending[referenceID]; ok {
		return txn.Status
	}
	return ""
}

type fakeGiftCardRepo struct {
	mu    sync.Mutex
	cards map[string]*db_models.GiftCard
}

func newFakeGiftCardRepo() *fakeGiftCardRepo {
	return &fakeGiftCardRepo{cards: map[string]*db_models.GiftCard{}}
}

func (f *fakeGiftCardRepo) FindByCode(_ context.Context, code string) (*db_models.GiftCard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	card, ok := f.cards[code]
	if !ok {
		return nil, nil
	}
	copied := *card
	return &copied, nil
}

func (f *fakeGiftCardRepo) Claim(_ context.Context, code string, companyID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	card, ok := f.cards[code]
	if !ok || card.IsRedeemed {
		return false, nil
	}
	now := time.Now().Unix()
	card.IsRedeemed = true
	card.RedeemedBy = &companyID
	card.RedeemedAt = &now
	return true, nil
}

func (f *fakeGiftCardRepo) Create(_ context.Context, card *db_models.GiftCard) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.cards[card.Code]; exists {
		return gorm.ErrDuplicatedKey
	}
	card.ID = uuid.New()
	f.cards[card.Code] = card
	return nil
}

type fakeDiscountRepo struct {
	mu    sync.Mutex
	codes map[string]*db_models.DiscountCode
}

func newFakeDiscountRepo() *fakeDiscountRepo {
	return &fakeDiscountRepo{codes: map[string]*db_models.DiscountCode{}}
}

func (f *fakeDiscountRepo) FindActiveByCode(_ context.Context, code string) (*db_models.DiscountCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	promo, ok := f.codes[code]
	if !ok || !promo.Active {
		return nil, nil
	}
	copied := *promo
	return &copied, nil
}

func (f *fakeDiscountRepo) IncrementUse(_ context.Context, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if promo, ok := f.codes[code]; ok {
		promo.UsesCount++
	}
	return nil
}

type fakeCompanyRepo struct {
	mu         sync.Mutex
	companies  map[uuid.UUID]*db_models.Company
	failUpdate error // injected fault for the compensation tests
}

func newFakeCompanyRepo() *fakeCompanyRepo {
	return &fakeCompanyRepo{companies: map[uuid.UUID]*db_models.Company{}}
}

func (f *fakeCompanyRepo) FindByID(_ context.Context, id uuid.UUID) (*db_models.Company, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	company, ok := f.companies[id]
	if !ok {
		return nil, nil
	}
	copied := *company
	return &copied, nil
}

func (f *fakeCompanyRepo) ListDueForRenewal(_ context.Context, before int64) ([]db_models.Company, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var due []db_models.Company
	for _, c := range f.companies {
		if c.SubscriptionValidUntil == nil || *c.SubscriptionValidUntil >= before {
			continue
		}
		if c.SubscriptionStatus != db_models.SubStatusActive && c.SubscriptionStatus != db_models.SubStatusPastDue {
			continue
		}
		due = append(due, *c)
	}
	return due, nil
}

func (f *fakeCompanyRepo) UpdateSubscription(_ context.Context, companyID uuid.UUID, validUntil int64, status db_models.SubscriptionStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdate != nil {
		return f.failUpdate
	}
	if c, ok := f.companies[companyID]; ok {
		c.SubscriptionValidUntil = &validUntil
		c.SubscriptionStatus = status
	}
	return nil
}

func (f *fakeCompanyRepo) SetSubscriptionStatus(_ context.Context, companyID uuid.UUID, status db_models.SubscriptionStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.companies[companyID]; ok {
		c.SubscriptionStatus = status
	}
	return nil
}

func (f *fakeCompanyRepo) ExtendSubscription(_ context.Context, companyID uuid.UUID, prevValidUntil, newValidUntil int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdate != nil {
		return false, f.failUpdate
	}
	c, ok := f.companies[companyID]
	if !ok || c.SubscriptionValidUntil == nil || *c.SubscriptionValidUntil != prevValidUntil {
		return false, nil
	}
	c.SubscriptionValidUntil = &newValidUntil
	c.SubscriptionStatus = db_models.SubStatusActive
	return true, nil
}

func (f *fakeCompanyRepo) GrantSeats(_ context.Context, companyID uuid.UUID, qty int, restartUntil *int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdate != nil {
		return f.failUpdate
	}
	if c, ok := f.companies[companyID]; ok {
		c.TotalLicenses += qty
		if restartUntil != nil {
			c.SubscriptionValidUntil = restartUntil
			c.SubscriptionStatus = db_models.SubStatusActive
		}
	}
	return nil
}

type fakeFeatureUnlockRepo struct {
	mu        sync.Mutex
	unlocks   map[string]bool
	companies *fakeCompanyRepo
	failWith  error // injected fault for the compensation tests
}

func newFakeFeatureUnlockRepo(companies *fakeCompanyRepo) *fakeFeatureUnlockRepo {
	return &fakeFeatureUnlockRepo{unlocks: map[string]bool{}, companies: companies}
}

func unlockKey(companyID uuid.UUID, featureName string) string {
	return companyID.String() + "/" + featureName
}

func (f *fakeFeatureUnlockRepo) Exists(_ context.Context, companyID uuid.UUID, featureName string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.unlocks[unlockKey(companyID, featureName)], nil
}

// Create mirrors the real repository: the unlock row and the company feature
// flag land together or not at all.
func (f *fakeFeatureUnlockRepo) Create(_ context.Context, unlock *db_models.FeatureUnlock) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	key := unlockKey(unlock.CompanyID, unlock.FeatureName)
	if f.unlocks[key] {
		return gorm.ErrDuplicatedKey
	}
	f.unlocks[key] = true

	f.companies.mu.Lock()
	if c, ok := f.companies.companies[unlock.CompanyID]; ok {
		if c.Features == nil {
			c.Features = map[string]interface{}{}
		}
		c.Features[unlock.FeatureName] = true
	}
	f.companies.mu.Unlock()
	return nil
}

const testGatewaySecret = "test-secret"

type fakeGateway struct {
	mu         sync.Mutex
	orders     int
	lastAmount int64
	failCreate bool
}

func (f *fakeGateway) CreateOrder(_ context.Context, amountMinor int64, _ string, _ map[string]string) (*gateway.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return nil, fmt.Errorf("%w: order creation returned 503", utils.ErrUpstream)
	}
	f.orders++
	f.lastAmount = amountMinor
	return &gateway.Order{
		ID:          fmt.Sprintf("order_%06d", f.orders),
		AmountMinor: amountMinor,
		Currency:    "INR",
	}, nil
}

func (f *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return signGatewayPayload(orderID, paymentID) == signature
}

func (f *fakeGateway) KeyID() string { return "rzp_test_fake" }

func signGatewayPayload(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(testGatewaySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
