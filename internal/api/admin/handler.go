package admin

import (
	"errors"
	"net/http"
	"time"

	"edustream-app/internal/app/http/middleware"
	"edustream-app/internal/domain/accounts"
	"edustream-app/internal/domain/entitlement"
	"edustream-app/internal/domain/subscription"
	"edustream-app/internal/projection"
	"edustream-app/internal/session"
	"edustream-app/internal/store"

	"github.com/gin-gonic/gin"
)

type AccountRow struct {
	ID                 string     `json:"id"`
	Email              string     `json:"email"`
	Role               string     `json:"role"`
	SubscriptionStatus string     `json:"subscription_status"`
	TrialEndsAt        *time.Time `json:"trial_ends_at,omitempty"`
	SubscriptionEndsAt *time.Time `json:"subscription_ends_at,omitempty"`
	HasAccess          bool       `json:"has_access"`
	DaysRemaining      *int       `json:"days_remaining,omitempty"`
}

func toRow(a accounts.Account, now time.Time) AccountRow {
	row := AccountRow{
		ID:                 a.ID,
		Email:              a.Email,
		Role:               a.Role,
		SubscriptionStatus: a.SubscriptionStatus,
		TrialEndsAt:        a.TrialEndsAt,
		SubscriptionEndsAt: a.SubscriptionEndsAt,
		HasAccess:          entitlement.HasAccess(&a, now),
	}
	if a.SubscriptionStatus == accounts.StatusActive && a.SubscriptionEndsAt != nil && a.SubscriptionEndsAt.After(now) {
		days := int(a.SubscriptionEndsAt.Sub(now).Hours() / 24)
		row.DaysRemaining = &days
	}
	return row
}

// ListAccounts serves the management table from the live directory. The
// directory feed starts on the first admin request, not at boot.
func ListAccounts(c *gin.Context) {
	projection.Directory.Ensure()

	now := time.Now()
	all := projection.Directory.Accounts()
	rows := make([]AccountRow, 0, len(all))
	for _, a := range all {
		rows = append(rows, toRow(a, now))
	}
	c.JSON(http.StatusOK, gin.H{"accounts": rows})
}

// ActivateSubscription grants a paid window after a manual payment:
// ends = start date + duration in whole 24h days. Works from any prior state
// and clears a leftover trial window.
func ActivateSubscription(c *gin.Context) {
	var input struct {
		StartDate    string `json:"start_date" binding:"required"`
		DurationDays int    `json:"duration_days" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date and duration_days are required"})
		return
	}

	startDate, err := time.Parse("2006-01-02", input.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must be YYYY-MM-DD"})
		return
	}

	fields, err := subscription.Activate(startDate, input.DurationDays)
	if errors.Is(err, subscription.ErrInvalidDuration) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "duration_days must be at least 1"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to activate subscription"})
		return
	}

	err = store.Accounts.Update(c.Request.Context(), c.Param("id"), fields)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to activate subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subscription activated"})
}

// DeactivateSubscription revokes access immediately. The trial window, if
// any, is left untouched; an expired trial grants nothing anyway.
func DeactivateSubscription(c *gin.Context) {
	err := store.Accounts.Update(c.Request.Context(), c.Param("id"), subscription.Deactivate())
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subscription deactivated"})
}

// Impersonate starts viewing as the target account. Starting a second one
// replaces the first; there is no stacking.
func Impersonate(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	err := sess.BeginImpersonation(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, session.ErrNotAdmin):
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	case errors.Is(err, session.ErrTargetNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to impersonate"})
		return
	}

	target, _ := sess.Impersonating()
	c.JSON(http.StatusOK, gin.H{"impersonating": gin.H{"id": target.ID, "email": target.Email}})
}

// StopImpersonating ends the overlay. Calling it while not impersonating is a
// no-op, not an error.
func StopImpersonating(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	sess.EndImpersonation()
	c.JSON(http.StatusOK, gin.H{"message": "Stopped impersonating"})
}
