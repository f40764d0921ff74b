package engine

import (
	"bytes"
	"encoding/json"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/kinstone/starbar/internal/domain"
	"github.com/kinstone/starbar/internal/infra"
	"github.com/kinstone/starbar/internal/tiltify"
)

// Mirrors owns the campaign total and the cached metadata snapshots. The
// total only ever moves up; snapshots are replaced wholesale and only when
// their serialized form actually changed, so identical re-fetches stay quiet.
type Mirrors struct {
	mu      sync.Mutex
	total   decimal.Decimal
	polls   map[string]tiltify.Poll
	snaps   map[domain.SnapshotKind]json.RawMessage
	matches []tiltify.Match

	obs Observer
	log infra.Logger
}

// NewMirrors constructs an empty mirror set with a zero total.
func NewMirrors(log infra.Logger, obs Observer) *Mirrors {
	return &Mirrors{
		polls: make(map[string]tiltify.Poll),
		snaps: make(map[domain.SnapshotKind]json.RawMessage),
		obs:   obs,
		log:   log,
	}
}

// UpdateTotal applies a candidate total only if it is strictly greater than
// the current one. Lower candidates are out-of-order deliveries between the
// push and pull channels and are dropped silently.
func (m *Mirrors) UpdateTotal(candidate decimal.Decimal) bool {
	m.mu.Lock()
	if candidate.LessThanOrEqual(m.total) {
		m.mu.Unlock()
		return false
	}
	m.total = candidate
	m.mu.Unlock()

	if m.obs != nil {
		m.obs.MirrorUpdated(domain.MirrorTotal)
	}
	return true
}

// Total returns the current campaign total.
func (m *Mirrors) Total() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.total
}

// UpdateSnapshot replaces a metadata mirror wholesale when its serialized
// form differs from the cached one. Returns whether a replacement happened.
func (m *Mirrors) UpdateSnapshot(kind domain.SnapshotKind, value any) bool {
	buf, err := json.Marshal(value)
	if err != nil {
		m.log.Warn().Err(err).Str("kind", string(kind)).Msg("mirrors: snapshot not serializable")
		return false
	}

	m.mu.Lock()
	if bytes.Equal(m.snaps[kind], buf) {
		m.mu.Unlock()
		return false
	}
	m.snaps[kind] = buf
	m.mu.Unlock()

	if m.obs != nil {
		m.obs.MirrorUpdated(string(kind))
	}
	return true
}

// Snapshot returns the cached serialized mirror, or nil when never fetched.
func (m *Mirrors) Snapshot(kind domain.SnapshotKind) json.RawMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snaps[kind]
}

// UpdatePolls replaces the whole poll mapping from a fetched listing,
// following the same diff-and-replace rule as the other snapshot mirrors.
func (m *Mirrors) UpdatePolls(list []tiltify.Poll) bool {
	byQuery := make(map[string]tiltify.Poll, len(list))
	for _, p := range list {
		byQuery[p.Query] = p
	}
	if !m.UpdateSnapshot(domain.SnapshotPolls, byQuery) {
		return false
	}
	m.mu.Lock()
	m.polls = byQuery
	m.mu.Unlock()
	return true
}

// UpdatePoll merges a single poll into the mapping by its query key. Push
// deliveries come one poll at a time, so this inserts or overwrites rather
// than replacing the whole mirror.
func (m *Mirrors) UpdatePoll(p tiltify.Poll) {
	m.mu.Lock()
	m.polls[p.Query] = p
	buf, err := json.Marshal(m.polls)
	if err == nil {
		m.snaps[domain.SnapshotPolls] = buf
	}
	m.mu.Unlock()

	if m.obs != nil {
		m.obs.MirrorUpdated(string(domain.SnapshotPolls))
	}
}

// Polls returns a copy of the poll mapping keyed by query.
func (m *Mirrors) Polls() map[string]tiltify.Poll {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]tiltify.Poll, len(m.polls))
	for k, v := range m.polls {
		out[k] = v
	}
	return out
}

// UpdateMatches replaces the donation-match mirror and keeps a typed copy so
// the ledger can ask whether any multiplier is currently live.
func (m *Mirrors) UpdateMatches(list []tiltify.Match) bool {
	changed := m.UpdateSnapshot(domain.SnapshotMatches, list)
	m.mu.Lock()
	m.matches = list
	m.mu.Unlock()
	return changed
}

// MatchActive reports whether at least one donation-match pledge is live.
func (m *Mirrors) MatchActive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, match := range m.matches {
		if match.Active {
			return true
		}
	}
	return false
}
