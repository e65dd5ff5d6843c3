package models

import "time"

type TenantRole string

const (
	TenantRoleAdmin TenantRole = "admin"
	TenantRoleUser  TenantRole = "user"
)

// Tenant is one dashboard account. Its send-channel token authenticates
// outbound deliveries, and its subscription expiry gates all dispatching.
type Tenant struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Role               TenantRole `json:"role"`
	Token              string     `json:"-"`
	MessageTemplate    string     `json:"messageTemplate"`
	BulkSendDelaySec   int        `json:"bulkSendDelaySec"`
	SubscriptionEndsAt time.Time  `json:"subscriptionEndsAt"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// Privileged reports whether the tenant bypasses the subscription gate.
func (t *Tenant) Privileged() bool {
	return t.Role == TenantRoleAdmin
}
