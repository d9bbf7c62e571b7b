package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a persisted order
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusClosed   Status = "closed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusClosed:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// Order is the server's view of a persisted order, as returned by list and
// detail endpoints
type Order struct {
	ID         int64           `json:"id"`
	Code       string          `json:"code"`
	Status     Status          `json:"status"`
	ClientID   int64           `json:"client_id"`
	ClientName string          `json:"client_name"`
	EntityType string          `json:"entity_type"`
	EntityID   int64           `json:"entity_id"`
	Total      decimal.Decimal `json:"total"`
	Paid       decimal.Decimal `json:"paid"`
	Remaining  decimal.Decimal `json:"remaining"`
	CreatedAt  time.Time       `json:"created_at"`
}
