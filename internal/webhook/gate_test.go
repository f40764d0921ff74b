package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/kinstone/starbar/internal/engine"
)

func sign(secret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%s.%s", timestamp, body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func newTestGate(secret string) (*Gate, *engine.Ledger, *engine.Mirrors) {
	ledger := engine.NewLedger(zerolog.Nop(), nil)
	mirrors := engine.NewMirrors(zerolog.Nop(), nil)
	return NewGate(secret, "camp-1", ledger, mirrors, zerolog.Nop()), ledger, mirrors
}

func TestVerifyKnownVector(t *testing.T) {
	g, _, _ := newTestGate("s")
	body := []byte(`{"x":1}`)

	if !g.Verify("1000", sign("s", "1000", body), body) {
		t.Fatal("correctly signed message must verify")
	}
	if g.Verify("1000", "bogus", body) {
		t.Fatal("wrong signature must be rejected")
	}
	if g.Verify("1001", sign("s", "1000", body), body) {
		t.Fatal("replayed signature with different timestamp must be rejected")
	}
}

func TestHandleDispatchesDonation(t *testing.T) {
	g, ledger, _ := newTestGate("secret")
	body := []byte(`{"meta":{"event_type":"donation_updated"},"data":{"id":"d1","campaign_id":"camp-1","name":"Alice","comments":"hi","amount":"25"}}`)

	g.Handle("1700000000", sign("secret", "1700000000", body), body)

	if got := len(ledger.Active()); got != 1 {
		t.Fatalf("expected donation ingested, queue len %d", got)
	}
}

func TestHandleIgnoresOtherCampaigns(t *testing.T) {
	g, ledger, mirrors := newTestGate("secret")

	donation := []byte(`{"meta":{"event_type":"donation_updated"},"data":{"id":"d1","campaign_id":"other","name":"Alice","amount":"25"}}`)
	g.Handle("1", sign("secret", "1", donation), donation)

	fact := []byte(`{"meta":{"event_type":"fact_updated"},"data":{"id":"other","total":"99"}}`)
	g.Handle("2", sign("secret", "2", fact), fact)

	if len(ledger.Active()) != 0 {
		t.Fatal("donation for another campaign must not ingest")
	}
	if !mirrors.Total().IsZero() {
		t.Fatal("fact for another campaign must not move the total")
	}
}

func TestHandleDispatchesTotal(t *testing.T) {
	g, _, mirrors := newTestGate("secret")
	body := []byte(`{"meta":{"event_type":"fact_updated"},"data":{"id":"camp-1","total":"123.45"}}`)

	g.Handle("1", sign("secret", "1", body), body)

	if got := mirrors.Total(); !got.Equal(decimal.RequireFromString("123.45")) {
		t.Fatalf("expected total 123.45, got %s", got)
	}
}

func TestHandleDropsBadSignatureSilently(t *testing.T) {
	g, ledger, mirrors := newTestGate("secret")
	body := []byte(`{"meta":{"event_type":"donation_updated"},"data":{"id":"d1","campaign_id":"camp-1","amount":"25"}}`)

	g.Handle("1", "not-the-signature", body)

	if len(ledger.Active()) != 0 || !mirrors.Total().IsZero() {
		t.Fatal("unverified payload must not reach the engine")
	}
}
