package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/kinstone/starbar/internal/domain"
	"github.com/kinstone/starbar/internal/tiltify"
)

// Normalize maps a provider-shaped donation onto the canonical record. The
// inbound payload is never modified; records with a non-numeric or negative
// amount are rejected.
func Normalize(raw tiltify.Donation) (domain.Donation, error) {
	amount, err := decimal.NewFromString(raw.Amount.String())
	if err != nil {
		return domain.Donation{}, fmt.Errorf("%w: %q", domain.ErrBadAmount, raw.Amount.String())
	}
	if amount.IsNegative() {
		return domain.Donation{}, fmt.Errorf("%w: negative %s", domain.ErrBadAmount, amount)
	}

	d := domain.Donation{
		ID:          raw.ID,
		Name:        raw.Name,
		Comment:     raw.Comments,
		Amount:      amount,
		CompletedAt: raw.ProcessedAt,
		Streamer:    "MAIN",
		Matched:     len(raw.Matches) > 0,
	}
	if raw.Poll != nil {
		d.Streamer = raw.Poll.Query
		if raw.PollItem != nil {
			d.Incentive = raw.PollItem.Answer
		}
	}
	return d, nil
}
