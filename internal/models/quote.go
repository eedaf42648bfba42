// Package models defines the data structures for the investment projection engine.
package models

import (
	"time"
)

// QuoteStatus represents the lifecycle state of a stored quote.
type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "draft"
	QuoteStatusFinal    QuoteStatus = "final"
	QuoteStatusArchived QuoteStatus = "archived"
)

// Quote is a persisted projection run: the immutable input snapshot plus the
// computed results, stored as JSON documents. The core never reads these
// back into its own state; persistence is purely a record of a run.
type Quote struct {
	ID           string          `json:"id" db:"id"`
	PropertyName string          `json:"property_name" db:"property_name"`
	ClientName   string          `json:"client_name,omitempty" db:"client_name"`
	Status       QuoteStatus     `json:"status" db:"status"`
	Inputs       OIInputs        `json:"inputs" db:"inputs"`
	Mortgage     *MortgageInputs `json:"mortgage,omitempty" db:"mortgage"`
	Projection   *Projection     `json:"projection,omitempty" db:"projection"`
	Exits        *ExitAnalysis   `json:"exits,omitempty" db:"exits"`
	SnapshotKey  string          `json:"snapshot_key,omitempty" db:"snapshot_key"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

// QuoteCreate represents data needed to store a new quote.
type QuoteCreate struct {
	PropertyName string          `json:"property_name"`
	ClientName   string          `json:"client_name,omitempty"`
	Inputs       OIInputs        `json:"inputs"`
	Mortgage     *MortgageInputs `json:"mortgage,omitempty"`
	Projection   *Projection     `json:"projection,omitempty"`
	Exits        *ExitAnalysis   `json:"exits,omitempty"`
}

// QuoteSummary is a lightweight view for list endpoints.
type QuoteSummary struct {
	ID           string      `json:"id"`
	PropertyName string      `json:"property_name"`
	ClientName   string      `json:"client_name,omitempty"`
	Status       QuoteStatus `json:"status"`
	BasePrice    float64     `json:"base_price"`
	Currency     string      `json:"currency"`
	CreatedAt    time.Time   `json:"created_at"`
}

// ToSummary converts a Quote to QuoteSummary.
func (q *Quote) ToSummary() QuoteSummary {
	return QuoteSummary{
		ID:           q.ID,
		PropertyName: q.PropertyName,
		ClientName:   q.ClientName,
		Status:       q.Status,
		BasePrice:    q.Inputs.BasePrice,
		Currency:     q.Inputs.Currency,
		CreatedAt:    q.CreatedAt,
	}
}
