package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Donation is the canonical shape of a supporter contribution. It is produced
// by normalization from the provider payload and never mutated afterwards
// except for its Read/Shown acknowledgment flags.
type Donation struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Comment     string          `json:"comment"`
	Amount      decimal.Decimal `json:"amount"`
	CompletedAt time.Time       `json:"completedAt"`
	Read        bool            `json:"read"`
	Shown       bool            `json:"shown"`
	Streamer    string          `json:"streamer"`
	Incentive   string          `json:"incentive,omitempty"`
	Matched     bool            `json:"matched,omitempty"`
}

// Placeholder is the sentinel record that keeps the overlay's donation list
// non-empty after a clear. It arrives pre-acknowledged so it never surfaces
// in the reader dashboard.
func Placeholder() Donation {
	return Donation{
		ID:       "0",
		Name:     "Required Differentiator",
		Comment:  "No Comments",
		Amount:   decimal.Zero,
		Read:     true,
		Shown:    true,
		Streamer: "MAIN",
	}
}
