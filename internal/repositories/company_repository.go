package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"leadflow/internal/models/db_models"
)

type CompanyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.Company, error)
	// ListDueForRenewal returns companies whose subscription expires before
	// the given unix timestamp and is still renewable (active or past_due).
	ListDueForRenewal(ctx context.Context, before int64) ([]db_models.Company, error)
	UpdateSubscription(ctx context.Context, companyID uuid.UUID, validUntil int64, status db_models.SubscriptionStatus) error
	// ExtendSubscription moves the renewal window, but only if it still sits
	// at prevValidUntil. A false return means a concurrent renewal already
	// moved it and the caller's charge must be handed back.
	ExtendSubscription(ctx context.Context, companyID uuid.UUID, prevValidUntil, newValidUntil int64) (bool, error)
	SetSubscriptionStatus(ctx context.Context, companyID uuid.UUID, status db_models.SubscriptionStatus) error
	// GrantSeats adds licenses and, when restartUntil is set, resets the
	// renewal window in the same statement.
	GrantSeats(ctx context.Context, companyID uuid.UUID, qty int, restartUntil *int64) error
}

type companyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{
		db: db,
	}
}

func (c *companyRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Company, error) {
	var company db_models.Company
	err := c.db.WithContext(ctx).First(&company, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &company, nil
}

func (c *companyRepository) ListDueForRenewal(ctx context.Context, before int64) ([]db_models.Company, error) {
	var companies []db_models.Company
	err := c.db.WithContext(ctx).
		Where("subscription_valid_until < ? AND subscription_status IN ?",
			before,
			[]db_models.SubscriptionStatus{db_models.SubStatusActive, db_models.SubStatusPastDue}).
		Find(&companies).Error
	if err != nil {
		return nil, err
	}
	return companies, nil
}

func (c *companyRepository) UpdateSubscription(ctx context.Context, companyID uuid.UUID, validUntil int64, status db_models.SubscriptionStatus) error {
	return c.db.WithContext(ctx).Model(&db_models.Company{}).
		Where("id = ?", companyID).
		Updates(map[string]interface{}{
			"subscription_valid_until": validUntil,
			"subscription_status":      status,
			"updated_at":               time.Now().Unix(),
		}).Error
}

func (c *companyRepository) ExtendSubscription(ctx context.Context, companyID uuid.UUID, prevValidUntil, newValidUntil int64) (bool, error) {
	res := c.db.WithContext(ctx).Model(&db_models.Company{}).
		Where("id = ? AND subscription_valid_until = ?", companyID, prevValidUntil).
		Updates(map[string]interface{}{
			"subscription_valid_until": newValidUntil,
			"subscription_status":      db_models.SubStatusActive,
			"updated_at":               time.Now().Unix(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (c *companyRepository) SetSubscriptionStatus(ctx context.Context, companyID uuid.UUID, status db_models.SubscriptionStatus) error {
	return c.db.WithContext(ctx).Model(&db_models.Company{}).
		Where("id = ?", companyID).
		Updates(map[string]interface{}{
			"subscription_status": status,
			"updated_at":          time.Now().Unix(),
		}).Error
}

func (c *companyRepository) GrantSeats(ctx context.Context, companyID uuid.UUID, qty int, restartUntil *int64) error {
	updates := map[string]interface{}{
		"total_licenses": gorm.Expr("total_licenses + ?", qty),
		"updated_at":     time.Now().Unix(),
	}
	if restartUntil != nil {
		updates["subscription_valid_until"] = *restartUntil
		updates["subscription_status"] = db_models.SubStatusActive
	}
	return c.db.WithContext(ctx).Model(&db_models.Company{}).
		Where("id = ?", companyID).
		Updates(updates).Error
}
