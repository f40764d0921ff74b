package handlers

import (
	"io"
	"net/http"
)

// Signature headers sent by the provider alongside each delivery.
const (
	HeaderSignature = "X-Tiltify-Signature"
	HeaderTimestamp = "X-Tiltify-Timestamp"
)

// Webhook receives push deliveries. The provider retries on any non-200
// response, so this endpoint acknowledges success unconditionally: invalid
// signatures, malformed bodies, and disabled push mode all still get a 200.
// The gate decides silently whether the payload reaches the engine.
func (a *App) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err == nil && a.Gate != nil {
		a.Gate.Handle(r.Header.Get(HeaderTimestamp), r.Header.Get(HeaderSignature), body)
	}
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}
