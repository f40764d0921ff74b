package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kinstone/starbar/internal/domain"
)

// DonationsList returns the active display queue for the overlay and the
// reader dashboard.
func (a *App) DonationsList(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{"items": a.Ledger.Active()})
}

// DonationsClear resets the display queue between events.
func (a *App) DonationsClear(w http.ResponseWriter, r *http.Request) {
	a.Ledger.ClearAll()
	a.json(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// DonationMarkRead acknowledges a donation from the reader side.
func (a *App) DonationMarkRead(w http.ResponseWriter, r *http.Request) {
	a.acknowledge(w, chi.URLParam(r, "id"), a.Ledger.MarkRead)
}

// DonationMarkShown acknowledges a donation from the overlay side.
func (a *App) DonationMarkShown(w http.ResponseWriter, r *http.Request) {
	a.acknowledge(w, chi.URLParam(r, "id"), a.Ledger.MarkShown)
}

func (a *App) acknowledge(w http.ResponseWriter, id string, mark func(string) error) {
	if err := mark(id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "donation not found")
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "acknowledgment failed")
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}
