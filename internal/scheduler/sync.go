package scheduler

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/kinstone/starbar/internal/domain"
	"github.com/kinstone/starbar/internal/engine"
	"github.com/kinstone/starbar/internal/infra"
	"github.com/kinstone/starbar/internal/tiltify"
)

// CampaignAPI is the pull side of the remote platform. The engine only needs
// fetch semantics; connection lifecycle belongs to the client.
type CampaignAPI interface {
	Campaign(ctx context.Context) (tiltify.Campaign, error)
	RecentDonations(ctx context.Context) ([]tiltify.Donation, error)
	AllDonations(ctx context.Context) ([]tiltify.Donation, error)
	Polls(ctx context.Context) ([]tiltify.Poll, error)
	Schedule(ctx context.Context) ([]tiltify.ScheduleEntry, error)
	Targets(ctx context.Context) ([]tiltify.Target, error)
	Rewards(ctx context.Context) ([]tiltify.Reward, error)
	Matches(ctx context.Context) ([]tiltify.Match, error)
}

// Syncer feeds pulled campaign state into the ledger and mirrors. Every
// operation is idempotent, so overlapping or repeated cycles merge cleanly.
type Syncer struct {
	api     CampaignAPI
	ledger  *engine.Ledger
	mirrors *engine.Mirrors
	log     infra.Logger
}

// NewSyncer wires a remote API to the engine state owners.
func NewSyncer(api CampaignAPI, ledger *engine.Ledger, mirrors *engine.Mirrors, log infra.Logger) *Syncer {
	return &Syncer{api: api, ledger: ledger, mirrors: mirrors, log: log}
}

// Bootstrap rebuilds the seen set and active queue from the full donation
// history. Push events must not be trusted until this has run once.
func (s *Syncer) Bootstrap(ctx context.Context) error {
	raws, err := s.api.AllDonations(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap donations: %w", err)
	}
	loaded := s.ledger.Rehydrate(raws)
	s.log.Info().Int("seen", len(raws)).Int("active", loaded).Msg("sync: rehydrated donation history")

	if err := s.pullTotal(ctx); err != nil {
		return err
	}
	// Warm the metadata mirrors now instead of waiting out the first
	// 120-second tick; a failure here is not fatal, the cycle retries it.
	if err := s.Metadata(ctx); err != nil {
		s.log.Warn().Err(err).Msg("sync: metadata warm-up failed")
	}
	return nil
}

// Recent pulls the latest donations and the campaign total. Pull-only mode
// runs this every few seconds in place of push delivery.
func (s *Syncer) Recent(ctx context.Context) error {
	raws, err := s.api.RecentDonations(ctx)
	if err != nil {
		return fmt.Errorf("recent donations: %w", err)
	}
	for _, raw := range raws {
		s.ledger.Ingest(raw)
	}
	return s.pullTotal(ctx)
}

// FullHistory refreshes the seen set from the complete donation listing so
// identifiers acknowledged long ago stay known.
func (s *Syncer) FullHistory(ctx context.Context) error {
	raws, err := s.api.AllDonations(ctx)
	if err != nil {
		return fmt.Errorf("full history: %w", err)
	}
	ids := make([]string, 0, len(raws))
	for _, raw := range raws {
		ids = append(ids, raw.ID)
	}
	s.ledger.Resync(ids)
	return nil
}

// Metadata refreshes every metadata mirror. Each fetch fails independently;
// one flaky endpoint must not starve the others.
func (s *Syncer) Metadata(ctx context.Context) error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if polls, err := s.api.Polls(ctx); err != nil {
		keep(fmt.Errorf("polls: %w", err))
	} else {
		s.mirrors.UpdatePolls(polls)
	}
	if schedule, err := s.api.Schedule(ctx); err != nil {
		keep(fmt.Errorf("schedule: %w", err))
	} else {
		s.mirrors.UpdateSnapshot(domain.SnapshotSchedule, schedule)
	}
	if targets, err := s.api.Targets(ctx); err != nil {
		keep(fmt.Errorf("targets: %w", err))
	} else {
		s.mirrors.UpdateSnapshot(domain.SnapshotTargets, targets)
	}
	if rewards, err := s.api.Rewards(ctx); err != nil {
		keep(fmt.Errorf("rewards: %w", err))
	} else {
		s.mirrors.UpdateSnapshot(domain.SnapshotRewards, rewards)
	}
	keep(s.RefreshMatches(ctx))
	return firstErr
}

// RefreshMatches re-pulls donation-match state. Also fired off-cycle when a
// matched donation arrives mid-ingest.
func (s *Syncer) RefreshMatches(ctx context.Context) error {
	matches, err := s.api.Matches(ctx)
	if err != nil {
		return fmt.Errorf("matches: %w", err)
	}
	s.mirrors.UpdateMatches(matches)
	return nil
}

func (s *Syncer) pullTotal(ctx context.Context) error {
	campaign, err := s.api.Campaign(ctx)
	if err != nil {
		return fmt.Errorf("campaign: %w", err)
	}
	total, err := decimal.NewFromString(campaign.Total.String())
	if err != nil {
		s.log.Debug().Str("total", campaign.Total.String()).Msg("sync: non-numeric campaign total")
		return nil
	}
	s.mirrors.UpdateTotal(total)
	return nil
}
