package model

import "time"

// Subscription plan types.
const (
	PlanFree       = "FREE"
	PlanIndividual = "INDIVIDUAL"
	PlanFamily     = "FAMILY"
)

// Subscription statuses.
const (
	SubscriptionActive    = "ACTIVE"
	SubscriptionCancelled = "CANCELLED"
	SubscriptionExpired   = "EXPIRED"
)

// Payment statuses.
const (
	PaymentPending  = "PENDING"
	PaymentSuccess  = "SUCCESS"
	PaymentFailed   = "FAILED"
	PaymentRefunded = "REFUNDED"
)

// SubscriptionPlan is a purchasable plan definition.
type SubscriptionPlan struct {
	ID          uint64  `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"size:100;not null" json:"name"`
	Description string  `gorm:"type:text" json:"description,omitempty"`
	Price       float64 `gorm:"not null;default:0" json:"price"`
	PlanType    string  `gorm:"size:20;not null;default:FREE" json:"plan_type"`
	MaxUsers    int     `gorm:"not null;default:1" json:"max_users"`
	Features    string  `gorm:"type:text" json:"features,omitempty"` // JSON-encoded list
}

// Subscription assigns a plan to a user.
type Subscription struct {
	ID        uint64            `gorm:"primaryKey" json:"id"`
	UserID    uint64            `gorm:"index;not null" json:"user_id"`
	User      *User             `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	PlanID    uint64            `gorm:"index;not null" json:"plan_id"`
	Plan      *SubscriptionPlan `gorm:"constraint:OnDelete:CASCADE" json:"plan,omitempty"`
	StartDate time.Time         `json:"start_date"`
	EndDate   time.Time         `json:"end_date"`
	Status    string            `gorm:"size:20;not null;default:ACTIVE" json:"status"`
	AutoRenew bool              `gorm:"not null;default:true" json:"auto_renew"`
}

// Payment records a payment transaction. SubscriptionID is nulled when
// the subscription is deleted.
type Payment struct {
	ID             uint64        `gorm:"primaryKey" json:"id"`
	UserID         uint64        `gorm:"index;not null" json:"user_id"`
	User           *User         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	SubscriptionID *uint64       `gorm:"index" json:"subscription_id,omitempty"`
	Subscription   *Subscription `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	Amount         float64       `gorm:"not null" json:"amount"`
	PaymentDate    time.Time     `json:"payment_date"`
	Status         string        `gorm:"size:20;not null;default:PENDING" json:"status"`
	TransactionID  string        `gorm:"size:100;uniqueIndex;not null" json:"transaction_id"`
	PaymentMethod  string        `gorm:"size:50" json:"payment_method,omitempty"`
}
