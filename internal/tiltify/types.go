package tiltify

import (
	"encoding/json"
	"time"
)

// Donation is the provider-shaped donation payload. The same shape arrives
// via the webhook channel and the REST donation listings, so normalization
// happens in one place downstream.
type Donation struct {
	ID          string      `json:"id"`
	CampaignID  string      `json:"campaign_id"`
	Name        string      `json:"name"`
	Comments    string      `json:"comments"`
	Amount      json.Number `json:"amount"`
	ProcessedAt time.Time   `json:"processed_at"`
	Poll        *Poll       `json:"poll,omitempty"`
	PollItem    *PollItem   `json:"poll_item,omitempty"`
	Matches     []Match     `json:"donation_matches,omitempty"`
}

// Campaign is the campaign snapshot. Only the identity fields and the running
// total are consumed by the engine.
type Campaign struct {
	ID    string      `json:"id"`
	Slug  string      `json:"slug"`
	Name  string      `json:"name"`
	Total json.Number `json:"total"`
}

// Poll is a donation poll keyed by its question text.
type Poll struct {
	ID      string     `json:"id"`
	Query   string     `json:"query"`
	Active  bool       `json:"active"`
	Options []PollItem `json:"options,omitempty"`
}

// PollItem is a single poll answer with its accumulated amount.
type PollItem struct {
	ID     string      `json:"id"`
	Answer string      `json:"answer"`
	Total  json.Number `json:"total_amount_raised,omitempty"`
}

// Match is an active or expired donation-matching pledge.
type Match struct {
	ID          string      `json:"id"`
	MatchedBy   string      `json:"matched_by"`
	Active      bool        `json:"active"`
	Multiplier  json.Number `json:"multiplier,omitempty"`
	AmountTotal json.Number `json:"total_amount_raised,omitempty"`
	EndsAt      *time.Time  `json:"ends_at,omitempty"`
}

// ScheduleEntry is one slot of the event schedule mirror.
type ScheduleEntry struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
}

// Target is a fundraising target mirror entry.
type Target struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	AmountRaised json.Number `json:"amount_raised,omitempty"`
	AmountGoal   json.Number `json:"amount,omitempty"`
}

// Reward is a donation reward mirror entry.
type Reward struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Amount   json.Number `json:"amount,omitempty"`
	Active   bool        `json:"active"`
	Quantity int         `json:"quantity,omitempty"`
}
