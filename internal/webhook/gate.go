package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/kinstone/starbar/internal/engine"
	"github.com/kinstone/starbar/internal/infra"
	"github.com/kinstone/starbar/internal/tiltify"
)

const (
	eventDonationUpdated = "donation_updated"
	eventFactUpdated     = "fact_updated"
)

// Gate verifies that inbound push messages genuinely come from the donation
// platform before they may touch engine state. Unverified payloads are
// dropped without any caller-visible trace; the transport layer acknowledges
// them anyway so the provider never enters its retry loop.
type Gate struct {
	secret   []byte
	campaign string
	ledger   *engine.Ledger
	mirrors  *engine.Mirrors
	log      infra.Logger
}

type envelope struct {
	Meta struct {
		EventType string `json:"event_type"`
	} `json:"meta"`
	Data json.RawMessage `json:"data"`
}

// NewGate constructs a gate bound to one campaign and one shared secret.
func NewGate(secret, campaign string, ledger *engine.Ledger, mirrors *engine.Mirrors, log infra.Logger) *Gate {
	return &Gate{
		secret:   []byte(secret),
		campaign: campaign,
		ledger:   ledger,
		mirrors:  mirrors,
		log:      log,
	}
}

// Verify recomputes the signature over timestamp + "." + body and compares it
// to the claimed one. The provider signs the raw request body as sent.
func (g *Gate) Verify(timestamp, signature string, body []byte) bool {
	mac := hmac.New(sha256.New, g.secret)
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Handle verifies and dispatches one inbound message. Events for any other
// campaign, unknown event types, and malformed payloads are all ignored.
func (g *Gate) Handle(timestamp, signature string, body []byte) {
	if !g.Verify(timestamp, signature, body) {
		g.log.Debug().Msg("webhook: signature mismatch")
		return
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		g.log.Debug().Err(err).Msg("webhook: malformed envelope")
		return
	}

	switch env.Meta.EventType {
	case eventDonationUpdated:
		var d tiltify.Donation
		if err := json.Unmarshal(env.Data, &d); err != nil {
			g.log.Debug().Err(err).Msg("webhook: malformed donation payload")
			return
		}
		if d.CampaignID != g.campaign {
			return
		}
		g.ledger.Ingest(d)
	case eventFactUpdated:
		var c tiltify.Campaign
		if err := json.Unmarshal(env.Data, &c); err != nil {
			g.log.Debug().Err(err).Msg("webhook: malformed fact payload")
			return
		}
		if c.ID != g.campaign {
			return
		}
		total, err := decimal.NewFromString(c.Total.String())
		if err != nil {
			g.log.Debug().Err(err).Msg("webhook: non-numeric total")
			return
		}
		g.mirrors.UpdateTotal(total)
	default:
		g.log.Debug().Str("event_type", env.Meta.EventType).Msg("webhook: unhandled event type")
	}
}
