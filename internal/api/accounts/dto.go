package accounts

import (
	"time"

	"edustream-app/internal/domain/accounts"
	"edustream-app/internal/domain/entitlement"
	"edustream-app/internal/session"
)

type AccountDTO struct {
	ID                 string     `json:"id"`
	Email              string     `json:"email"`
	Role               string     `json:"role"`
	SubscriptionStatus string     `json:"subscription_status"`
	TrialEndsAt        *time.Time `json:"trial_ends_at,omitempty"`
	SubscriptionEndsAt *time.Time `json:"subscription_ends_at,omitempty"`
}

type AccessDTO struct {
	HasAccess          bool       `json:"has_access"`
	Status             string     `json:"status"`
	TrialEndsAt        *time.Time `json:"trial_ends_at,omitempty"`
	TrialSecondsLeft   *int64     `json:"trial_seconds_left,omitempty"`
	SubscriptionEndsAt *time.Time `json:"subscription_ends_at,omitempty"`
}

type ImpersonationDTO struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// MeResponse is the dashboard payload: the effective account, its access
// window, and the impersonation banner when an admin is viewing as someone
// else.
type MeResponse struct {
	Account       AccountDTO        `json:"account"`
	Access        AccessDTO         `json:"access"`
	Impersonating *ImpersonationDTO `json:"impersonating,omitempty"`
}

type SessionResponse struct {
	Real          AccountDTO        `json:"real"`
	Impersonating *ImpersonationDTO `json:"impersonating,omitempty"`
}

func toAccountDTO(a accounts.Account) AccountDTO {
	return AccountDTO{
		ID:                 a.ID,
		Email:              a.Email,
		Role:               a.Role,
		SubscriptionStatus: a.SubscriptionStatus,
		TrialEndsAt:        a.TrialEndsAt,
		SubscriptionEndsAt: a.SubscriptionEndsAt,
	}
}

func toAccessDTO(s entitlement.Snapshot) AccessDTO {
	dto := AccessDTO{
		HasAccess:          s.HasAccess,
		Status:             s.Status,
		TrialEndsAt:        s.TrialEndsAt,
		SubscriptionEndsAt: s.EndsAt,
	}
	if s.TrialTimeLeft > 0 {
		secs := int64(s.TrialTimeLeft.Seconds())
		dto.TrialSecondsLeft = &secs
	}
	return dto
}

func toImpersonationDTO(sess *session.Session) *ImpersonationDTO {
	target, ok := sess.Impersonating()
	if !ok {
		return nil
	}
	return &ImpersonationDTO{ID: target.ID, Email: target.Email}
}
