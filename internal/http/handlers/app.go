package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/kinstone/starbar/internal/engine"
	"github.com/kinstone/starbar/internal/infra"
	"github.com/kinstone/starbar/internal/webhook"
)

// App is the handler container. Gate is nil when push mode is disabled; the
// webhook endpoint then acknowledges and discards everything.
type App struct {
	Log      infra.Logger
	Ledger   *engine.Ledger
	Mirrors  *engine.Mirrors
	Gate     *webhook.Gate
	Events   *EventHub
	Currency string
}

func NewApp(log infra.Logger, ledger *engine.Ledger, mirrors *engine.Mirrors, gate *webhook.Gate, events *EventHub, currency string) *App {
	return &App{
		Log:      log,
		Ledger:   ledger,
		Mirrors:  mirrors,
		Gate:     gate,
		Events:   events,
		Currency: currency,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, msg string) {
	a.json(w, status, map[string]any{
		"error": map[string]string{"code": code, "message": msg},
	})
}
