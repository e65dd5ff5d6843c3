package models

import (
	"errors"
	"time"
)

type ActionStatus string

const (
	ActionStatusPending ActionStatus = "pending"
	ActionStatusClaimed ActionStatus = "claimed"
	ActionStatusSent    ActionStatus = "sent"
	ActionStatusError   ActionStatus = "error"
)

// Benign claim outcomes. The claim engine raises these when a candidate turns
// out not to be claimable inside the transaction; callers skip the candidate
// for the current cycle without logging an error.
var (
	ErrNotDueYet             = errors.New("action not due yet")
	ErrAlreadyProcessed      = errors.New("action already processed")
	ErrAlreadyBeingProcessed = errors.New("action already being processed")
	ErrActionDeleted         = errors.New("action deleted")
)

// IsBenignClaimOutcome reports whether err is one of the expected
// claim-precondition failures rather than a real fault.
func IsBenignClaimOutcome(err error) bool {
	return errors.Is(err, ErrNotDueYet) ||
		errors.Is(err, ErrAlreadyProcessed) ||
		errors.Is(err, ErrAlreadyBeingProcessed) ||
		errors.Is(err, ErrActionDeleted)
}

// ScheduledMessage is a unit of deferred outbound work created from the
// dashboard: a message to a target (usually a group address) fired at
// TriggerAt, optionally repeating daily.
type ScheduledMessage struct {
	ID          int64        `json:"id"`
	OwnerID     string       `json:"ownerId"`
	Target      string       `json:"target"`
	Message     string       `json:"message"`
	ImageURL    *string      `json:"imageUrl,omitempty"`
	TriggerAt   time.Time    `json:"triggerAt"`
	RepeatDaily bool         `json:"repeatDaily"`
	Status      ActionStatus `json:"status"`
	ClaimedAt   *time.Time   `json:"claimedAt,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// Claimable reports whether the message looks eligible outside a transaction.
// The authoritative check happens again inside the claim transaction.
func (m *ScheduledMessage) Claimable(now time.Time, staleness time.Duration) bool {
	switch m.Status {
	case ActionStatusPending:
		return !m.TriggerAt.After(now)
	case ActionStatusClaimed:
		return m.ClaimedAt != nil && now.Sub(*m.ClaimedAt) > staleness
	default:
		return false
	}
}
