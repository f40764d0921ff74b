package httpapi

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/kinstone/starbar/internal/http/handlers"
	"github.com/kinstone/starbar/internal/infra"
	"github.com/kinstone/starbar/internal/middleware"
)

func NewRouter(app *handlers.App, log infra.Logger, allowedOrigins []string) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, chimw.RealIP, chimw.Recoverer, middleware.Logger(log), middleware.CORS(allowedOrigins))

	// Health
	r.Get("/v1/healthz", app.Health)

	// Push channel; always answers 200 per provider contract.
	r.Post("/webhook", app.Webhook)

	r.Route("/donations", func(r chi.Router) {
		r.Get("/", app.DonationsList)
		r.Delete("/", app.DonationsClear)
		r.Post("/{id}/read", app.DonationMarkRead)
		r.Post("/{id}/shown", app.DonationMarkShown)
	})

	// Read surface for the presentation layer.
	r.Get("/total", app.Total)
	r.Get("/polls", app.Polls)
	r.Get("/schedule", app.Schedule)
	r.Get("/targets", app.Targets)
	r.Get("/rewards", app.Rewards)
	r.Get("/matches", app.Matches)
	r.Get("/events", app.EventStream)

	return r
}
