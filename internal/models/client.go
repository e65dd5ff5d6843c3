package models

import "time"

type ClientStatus string

const (
	ClientStatusActive   ClientStatus = "active"
	ClientStatusOverdue  ClientStatus = "overdue"
	ClientStatusInactive ClientStatus = "inactive"
)

// Client is a billing record owned by a tenant. An active client whose due
// date has passed is itself an eligible due-date action: claiming it flips
// the status to overdue before any notice is sent, and that transition is
// permanent for this mechanism.
type Client struct {
	ID           int64        `json:"id"`
	OwnerID      string       `json:"ownerId"`
	Name         string       `json:"name"`
	Phone        string       `json:"phone"`
	Email        string       `json:"email"`
	Subscription string       `json:"subscription"`
	Amount       string       `json:"amount"`
	DueDate      time.Time    `json:"dueDate"`
	Status       ClientStatus `json:"status"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// DueDateFormat renders timestamps the way billing notices expect them.
const DueDateFormat = "02/01/2006"
