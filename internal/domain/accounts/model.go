package accounts

import "time"

const (
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

const (
	StatusNone    = "none"
	StatusTrial   = "trial"
	StatusActive  = "active"
	StatusExpired = "expired"
)

// Account is one registered principal. ID mirrors the identity service's
// principal id, so the credentials row and this record share a key.
//
// At most one of TrialEndsAt / SubscriptionEndsAt is set at a time:
// status trial carries TrialEndsAt, status active carries SubscriptionEndsAt,
// none/expired carry neither.
type Account struct {
	ID                 string `gorm:"primaryKey;size:36"`
	Email              string `gorm:"not null;uniqueIndex:idx_accounts_email"`
	Role               string `gorm:"type:varchar(20);not null;default:'teacher'"`
	SubscriptionStatus string `gorm:"type:varchar(20);not null;default:'none'"`
	TrialEndsAt        *time.Time
	SubscriptionEndsAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (a *Account) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}
