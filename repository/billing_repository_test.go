package repository

import (
	"context"
	"errors"
	"testing"

	"melodex/apperr"
	"melodex/model"

	"gorm.io/gorm"
)

func seedBilling(t *testing.T, gdb *gorm.DB) (user model.User, plan model.SubscriptionPlan) {
	t.Helper()
	user = model.User{Username: "ana", Email: "ana@example.com", PasswordHash: "x"}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	plan = model.SubscriptionPlan{Name: "Individual", PlanType: model.PlanIndividual, Price: 9.99}
	if err := gdb.Create(&plan).Error; err != nil {
		t.Fatalf("create plan: %v", err)
	}
	return user, plan
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()

	t.Run("activates the subscription and records the payment", func(t *testing.T) {
		gdb := newTestDB(t)
		user, plan := seedBilling(t, gdb)
		repo := NewBillingRepository(gdb)

		sub, err := repo.Subscribe(ctx, user.ID, plan.ID, "credit_card")
		if err != nil {
			t.Fatalf("Subscribe: %v", err)
		}
		if sub.Status != model.SubscriptionActive {
			t.Fatalf("expected ACTIVE, got %q", sub.Status)
		}
		if !sub.EndDate.After(sub.StartDate) {
			t.Fatal("end date must follow start date")
		}

		var payment model.Payment
		if err := gdb.Where("subscription_id = ?", sub.ID).First(&payment).Error; err != nil {
			t.Fatalf("load payment: %v", err)
		}
		if payment.Status != model.PaymentSuccess || payment.Amount != plan.Price {
			t.Fatalf("unexpected payment %+v", payment)
		}
		if payment.TransactionID == "" {
			t.Fatal("payment needs a transaction ID")
		}

		var reloaded model.User
		if err := gdb.First(&reloaded, user.ID).Error; err != nil {
			t.Fatalf("reload user: %v", err)
		}
		if !reloaded.IsPremium {
			t.Fatal("paid plan must flip the premium flag")
		}
	})

	t.Run("free plan does not grant premium", func(t *testing.T) {
		gdb := newTestDB(t)
		user, _ := seedBilling(t, gdb)
		free := model.SubscriptionPlan{Name: "Free", PlanType: model.PlanFree, Price: 0}
		if err := gdb.Create(&free).Error; err != nil {
			t.Fatalf("create plan: %v", err)
		}
		repo := NewBillingRepository(gdb)

		if _, err := repo.Subscribe(ctx, user.ID, free.ID, "none"); err != nil {
			t.Fatalf("Subscribe: %v", err)
		}

		var reloaded model.User
		if err := gdb.First(&reloaded, user.ID).Error; err != nil {
			t.Fatalf("reload user: %v", err)
		}
		if reloaded.IsPremium {
			t.Fatal("free plan must not grant premium")
		}
	})

	t.Run("unknown plan", func(t *testing.T) {
		gdb := newTestDB(t)
		user, _ := seedBilling(t, gdb)
		repo := NewBillingRepository(gdb)

		_, err := repo.Subscribe(ctx, user.ID, 999, "credit_card")
		var appErr *apperr.Error
		if !errors.As(err, &appErr) || appErr.Kind != apperr.KindNotFound {
			t.Fatalf("expected not found, got %v", err)
		}
	})
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("owner cancels and loses premium", func(t *testing.T) {
		gdb := newTestDB(t)
		user, plan := seedBilling(t, gdb)
		repo := NewBillingRepository(gdb)

		sub, err := repo.Subscribe(ctx, user.ID, plan.ID, "credit_card")
		if err != nil {
			t.Fatalf("Subscribe: %v", err)
		}

		if err := repo.Cancel(ctx, sub.ID, user.ID, false); err != nil {
			t.Fatalf("Cancel: %v", err)
		}

		var reloadedSub model.Subscription
		if err := gdb.First(&reloadedSub, sub.ID).Error; err != nil {
			t.Fatalf("reload subscription: %v", err)
		}
		if reloadedSub.Status != model.SubscriptionCancelled {
			t.Fatalf("expected CANCELLED, got %q", reloadedSub.Status)
		}

		var reloadedUser model.User
		if err := gdb.First(&reloadedUser, user.ID).Error; err != nil {
			t.Fatalf("reload user: %v", err)
		}
		if reloadedUser.IsPremium {
			t.Fatal("cancellation must clear the premium flag")
		}
	})

	t.Run("strangers may not cancel, admins may", func(t *testing.T) {
		gdb := newTestDB(t)
		user, plan := seedBilling(t, gdb)
		repo := NewBillingRepository(gdb)

		sub, err := repo.Subscribe(ctx, user.ID, plan.ID, "credit_card")
		if err != nil {
			t.Fatalf("Subscribe: %v", err)
		}

		err = repo.Cancel(ctx, sub.ID, user.ID+1, false)
		var appErr *apperr.Error
		if !errors.As(err, &appErr) || appErr.Kind != apperr.KindForbidden {
			t.Fatalf("expected forbidden, got %v", err)
		}

		if err := repo.Cancel(ctx, sub.ID, user.ID+1, true); err != nil {
			t.Fatalf("admin Cancel: %v", err)
		}
	})
}
