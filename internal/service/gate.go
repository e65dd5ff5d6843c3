package service

import (
	"time"

	"zapdispatch/internal/models"
)

// SubscriptionActive is the precondition checked before any scanning happens
// for a tenant. Non-privileged tenants whose subscription end time is in the
// past have their whole poll cycle skipped with no side effects and no error;
// the check repeats every cycle, so a renewed subscription resumes dispatch
// on the next tick.
func SubscriptionActive(tenant *models.Tenant, now time.Time) bool {
	if tenant.Privileged() {
		return true
	}
	if tenant.SubscriptionEndsAt.IsZero() {
		return false
	}
	return !tenant.SubscriptionEndsAt.Before(now)
}
