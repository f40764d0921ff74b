package engine

import (
	"sync"

	"github.com/kinstone/starbar/internal/domain"
	"github.com/kinstone/starbar/internal/infra"
	"github.com/kinstone/starbar/internal/tiltify"
)

// Ledger owns the active donation queue and the set of every donation
// identifier ever observed. The seen set is a superset of the queue: an
// acknowledged donation leaves the queue but stays in the seen set forever,
// which is what makes ingest idempotent across the push and pull channels.
type Ledger struct {
	mu    sync.Mutex
	queue []domain.Donation
	seen  map[string]struct{}

	obs Observer
	log infra.Logger

	// matchActive reports whether any donation-match multiplier is live;
	// refreshMatches re-pulls match state. Both optional.
	matchActive    func() bool
	refreshMatches func()
}

// NewLedger constructs an empty ledger.
func NewLedger(log infra.Logger, obs Observer) *Ledger {
	return &Ledger{
		seen: make(map[string]struct{}),
		obs:  obs,
		log:  log,
	}
}

// OnMatchRefresh installs the hooks used to keep donation-match state fresh
// when a matched donation arrives.
func (l *Ledger) OnMatchRefresh(active func() bool, refresh func()) {
	l.matchActive = active
	l.refreshMatches = refresh
}

// Ingest records a donation unless its identifier has already been observed.
// The whole check-then-insert runs under one lock hold, so a webhook delivery
// and a concurrent poll of the same donation can never both insert it.
func (l *Ledger) Ingest(raw tiltify.Donation) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.seen[raw.ID]; ok {
		return false
	}
	d, err := Normalize(raw)
	if err != nil {
		// Remember the id anyway so the next poll cycle does not reject
		// the same record again.
		l.seen[raw.ID] = struct{}{}
		l.log.Debug().Err(err).Str("donation_id", raw.ID).Msg("ledger: dropping donation")
		return false
	}

	if l.refreshMatches != nil && (d.Matched || (l.matchActive != nil && l.matchActive())) {
		// Fire-and-forget; match state catches up outside the critical section.
		go l.refreshMatches()
	}
	if l.obs != nil {
		l.obs.DonationPushed(d)
	}
	l.queue = append(l.queue, d)
	l.seen[d.ID] = struct{}{}
	return true
}

// Rehydrate rebuilds the queue and seen set from a full-history pull after a
// restart. Every identifier is remembered; records whose amount fails numeric
// parsing are kept out of the active queue.
func (l *Ledger) Rehydrate(raws []tiltify.Donation) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	loaded := 0
	for _, raw := range raws {
		if _, ok := l.seen[raw.ID]; ok {
			continue
		}
		l.seen[raw.ID] = struct{}{}
		d, err := Normalize(raw)
		if err != nil {
			l.log.Debug().Err(err).Str("donation_id", raw.ID).Msg("ledger: filtered on load")
			continue
		}
		l.queue = append(l.queue, d)
		loaded++
	}
	return loaded
}

// Resync folds a freshly fetched superset of identifiers into the seen set.
// Active records are never removed and no notifications fire; identifiers
// observed this session are kept even if the fetch came back short.
func (l *Ledger) Resync(ids []string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	seen := make(map[string]struct{}, len(ids)+len(l.seen))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	for id := range l.seen {
		seen[id] = struct{}{}
	}
	l.seen = seen
}

// Active returns a copy of the active display queue.
func (l *Ledger) Active() []domain.Donation {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.Donation, len(l.queue))
	copy(out, l.queue)
	return out
}

// Seen reports whether an identifier has ever been observed.
func (l *Ledger) Seen(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.seen[id]
	return ok
}
