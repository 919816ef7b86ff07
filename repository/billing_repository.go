package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"melodex/apperr"
	"melodex/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BillingRepository tracks plans, subscriptions and payment records.
// Record keeping only; there is no payment gateway behind it.
type BillingRepository interface {
	CreatePlan(ctx context.Context, plan *model.SubscriptionPlan) error
	ListPlans(ctx context.Context) ([]model.SubscriptionPlan, error)

	// Subscribe assigns the plan to the user, records a successful
	// payment with a fresh transaction ID and flips the user's premium
	// flag, all in one transaction.
	Subscribe(ctx context.Context, userID, planID uint64, paymentMethod string) (*model.Subscription, error)
	// Cancel marks the subscription cancelled. Owner or admin only.
	Cancel(ctx context.Context, subscriptionID, requesterID uint64, admin bool) error
}

type gormBillingRepository struct {
	db *gorm.DB
}

// NewBillingRepository creates a GORM-backed BillingRepository.
func NewBillingRepository(gdb *gorm.DB) BillingRepository {
	return &gormBillingRepository{db: gdb}
}

func (r *gormBillingRepository) CreatePlan(ctx context.Context, plan *model.SubscriptionPlan) error {
	if err := r.db.WithContext(ctx).Create(plan).Error; err != nil {
		return fmt.Errorf("failed to create plan: %w", err)
	}
	return nil
}

func (r *gormBillingRepository) ListPlans(ctx context.Context) ([]model.SubscriptionPlan, error) {
	var plans []model.SubscriptionPlan
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return plans, nil
}

func (r *gormBillingRepository) Subscribe(ctx context.Context, userID, planID uint64, paymentMethod string) (*model.Subscription, error) {
	var sub *model.Subscription

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var plan model.SubscriptionPlan
		err := tx.First(&plan, planID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("plan")
		}
		if err != nil {
			return fmt.Errorf("failed to load plan: %w", err)
		}

		now := time.Now()
		sub = &model.Subscription{
			UserID:    userID,
			PlanID:    planID,
			StartDate: now,
			EndDate:   now.Add(30 * 24 * time.Hour),
			Status:    model.SubscriptionActive,
			AutoRenew: true,
		}
		if err := tx.Create(sub).Error; err != nil {
			return fmt.Errorf("failed to create subscription: %w", err)
		}

		payment := &model.Payment{
			UserID:         userID,
			SubscriptionID: &sub.ID,
			Amount:         plan.Price,
			PaymentDate:    now,
			Status:         model.PaymentSuccess,
			TransactionID:  uuid.NewString(),
			PaymentMethod:  paymentMethod,
		}
		if err := tx.Create(payment).Error; err != nil {
			return fmt.Errorf("failed to record payment: %w", err)
		}

		premium := plan.PlanType != model.PlanFree
		err = tx.Model(&model.User{}).Where("id = ?", userID).Update("is_premium", premium).Error
		if err != nil {
			return fmt.Errorf("failed to update premium flag: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func (r *gormBillingRepository) Cancel(ctx context.Context, subscriptionID, requesterID uint64, admin bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sub model.Subscription
		err := tx.First(&sub, subscriptionID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("subscription")
		}
		if err != nil {
			return fmt.Errorf("failed to load subscription: %w", err)
		}

		if !admin && sub.UserID != requesterID {
			return apperr.Forbidden("only the subscriber or an administrator may cancel a subscription")
		}

		err = tx.Model(&sub).Update("status", model.SubscriptionCancelled).Error
		if err != nil {
			return fmt.Errorf("failed to cancel subscription: %w", err)
		}

		err = tx.Model(&model.User{}).Where("id = ?", sub.UserID).Update("is_premium", false).Error
		if err != nil {
			return fmt.Errorf("failed to clear premium flag: %w", err)
		}
		return nil
	})
}
