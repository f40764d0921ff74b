package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/kinstone/starbar/internal/domain"
)

// Total returns the campaign total both raw and formatted for display.
func (a *App) Total(w http.ResponseWriter, r *http.Request) {
	total := a.Mirrors.Total()
	a.json(w, http.StatusOK, map[string]any{
		"total":     total,
		"formatted": FormatAmount(total, a.Currency),
	})
}

// Polls returns the poll mapping keyed by question.
func (a *App) Polls(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, a.Mirrors.Polls())
}

// Schedule, Targets, Rewards and Matches serve the raw cached snapshots; the
// mirrors already hold them serialized, so no re-encoding happens here.

func (a *App) Schedule(w http.ResponseWriter, r *http.Request) {
	a.snapshot(w, domain.SnapshotSchedule)
}

func (a *App) Targets(w http.ResponseWriter, r *http.Request) {
	a.snapshot(w, domain.SnapshotTargets)
}

func (a *App) Rewards(w http.ResponseWriter, r *http.Request) {
	a.snapshot(w, domain.SnapshotRewards)
}

func (a *App) Matches(w http.ResponseWriter, r *http.Request) {
	a.snapshot(w, domain.SnapshotMatches)
}

func (a *App) snapshot(w http.ResponseWriter, kind domain.SnapshotKind) {
	buf := a.Mirrors.Snapshot(kind)
	if buf == nil {
		buf = json.RawMessage("[]")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf)
}
