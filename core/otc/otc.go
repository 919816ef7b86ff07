// Package otc implements the time-boxed one-time-code email login
// protocol. Each (email, code) instance moves ISSUED → VERIFIED,
// EXPIRED or SUPERSEDED; superseding is implicit, since verification
// only ever considers the most recently issued matching code.
package otc

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"melodex/apperr"
	"melodex/cache"
	"melodex/core/auth"
	"melodex/core/mail"
	"melodex/logger"
	"melodex/model"

	"gorm.io/gorm"
)

// Service issues and verifies one-time login codes.
type Service struct {
	db       *gorm.DB
	tokens   *auth.TokenIssuer
	mailer   mail.Mailer
	throttle *cache.CodeThrottle
	ttl      time.Duration

	// injectable for tests
	now      func() time.Time
	randCode func() (string, error)
}

// NewService creates a Service. throttle may be nil.
func NewService(gdb *gorm.DB, tokens *auth.TokenIssuer, mailer mail.Mailer, throttle *cache.CodeThrottle, ttl time.Duration) *Service {
	return &Service{
		db:       gdb,
		tokens:   tokens,
		mailer:   mailer,
		throttle: throttle,
		ttl:      ttl,
		now:      time.Now,
		randCode: generateCode,
	}
}

// generateCode returns a uniformly random six-digit code in
// 100000–999999, matching the historical redeemable space (no leading
// zeros).
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate login code: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+100000), nil
}

// IssueCode generates, persists and dispatches a login code for a
// registered email. The code is persisted before dispatch; a mail
// transport failure is logged and does not invalidate the code. The
// code is never returned to the caller.
func (s *Service) IssueCode(ctx context.Context, email string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to look up email: %w", err)
	}
	if count == 0 {
		return apperr.Validation("email", "email not registered")
	}

	ok, err := s.throttle.Allow(ctx, email)
	if err != nil {
		// Throttle is advisory; a broken Redis must not block login.
		logger.Warn("login code throttle check failed", logger.ErrorField(err))
	} else if !ok {
		return apperr.Validation("email", "a code was sent recently, try again later")
	}

	code, err := s.randCode()
	if err != nil {
		return err
	}

	record := &model.LoginCode{
		Email:     email,
		Code:      code,
		CreatedAt: s.now(),
		Used:      false,
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to persist login code: %w", err)
	}

	go func(to, code string) {
		body := fmt.Sprintf("Your login code is: %s\n\nIt expires in %d minutes.", code, int(s.ttl.Minutes()))
		if err := s.mailer.Send(to, "Your Melodex login code", body); err != nil {
			logger.Error("failed to dispatch login code email",
				logger.String("email", to),
				logger.ErrorField(err))
		}
	}(email, code)

	return nil
}

// VerifyCode exchanges a valid code for a credential pair and profile
// snapshot. The lookup, compare-and-set redemption and credential
// issuance run inside one transaction: the code is consumed if and
// only if credentials are issued. Under concurrent verification of the
// same code instance exactly one caller succeeds; the loser gets
// apperr.ErrInvalidCode.
func (s *Service) VerifyCode(ctx context.Context, email, code string) (auth.TokenPair, model.UserSnapshot, error) {
	var pair auth.TokenPair
	var snapshot model.UserSnapshot

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record model.LoginCode
		err := tx.
			Where("email = ? AND code = ? AND used = ?", email, code, false).
			Order("created_at DESC").
			First(&record).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrInvalidCode
		}
		if err != nil {
			return fmt.Errorf("failed to look up login code: %w", err)
		}

		if s.now().Sub(record.CreatedAt) > s.ttl {
			return apperr.ErrExpiredCode
		}

		// Compare-and-set redemption: only one transaction may flip
		// used false → true for this row.
		res := tx.Model(&model.LoginCode{}).
			Where("id = ? AND used = ?", record.ID, false).
			Update("used", true)
		if res.Error != nil {
			return fmt.Errorf("failed to redeem login code: %w", res.Error)
		}
		if res.RowsAffected != 1 {
			return apperr.ErrInvalidCode
		}

		var user model.User
		err = tx.Where("email = ?", email).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrInvalidCode
		}
		if err != nil {
			return fmt.Errorf("failed to load user for login code: %w", err)
		}

		pair, err = s.tokens.IssuePair(&user)
		if err != nil {
			return err
		}
		snapshot = user.Snapshot()
		return nil
	})
	if err != nil {
		return auth.TokenPair{}, model.UserSnapshot{}, err
	}
	return pair, snapshot, nil
}
