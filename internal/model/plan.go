package model

import "github.com/shopspring/decimal"

// Priority tags a planned payment.
type Priority string

const (
	PriorityUrgent    Priority = "urgent"
	PriorityStrategic Priority = "strategic"
)

// PlannedPayment is one recommended payment in a plan.
type PlannedPayment struct {
	AccountID   string              `json:"account_id"`
	Institution string              `json:"institution"`
	AccountName string              `json:"account_name"`
	Kind        Kind                `json:"kind"`
	Balance     decimal.Decimal     `json:"balance"`
	APR         decimal.NullDecimal `json:"apr"`
	Minimum     decimal.Decimal     `json:"minimum"`
	Suggested   decimal.Decimal     `json:"suggested"`
	Priority    Priority            `json:"priority"`
	Shortfall   bool                `json:"shortfall,omitempty"`
}
