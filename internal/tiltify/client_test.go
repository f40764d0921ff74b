package tiltify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func newTestServer(t *testing.T, tokenCalls *atomic.Int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /oauth/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls.Add(1)
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-1",
			"expires_in":   3600,
			"token_type":   "bearer",
		})
	})
	mux.HandleFunc("GET /api/public/campaigns/camp-1", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"id": "camp-1", "slug": "my-campaign", "total": "150.25"},
		})
	})
	mux.HandleFunc("GET /api/public/campaigns/camp-1/donations", func(w http.ResponseWriter, r *http.Request) {
		after := r.URL.Query().Get("after")
		switch after {
		case "":
			json.NewEncoder(w).Encode(map[string]any{
				"data":     []map[string]any{{"id": "d1", "amount": "10"}, {"id": "d2", "amount": "20"}},
				"metadata": map[string]any{"after": "cursor-1"},
			})
		case "cursor-1":
			json.NewEncoder(w).Encode(map[string]any{
				"data":     []map[string]any{{"id": "d3", "amount": "30"}},
				"metadata": map[string]any{"after": ""},
			})
		default:
			t.Errorf("unexpected cursor %q", after)
		}
	})
	return httptest.NewServer(mux)
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := NewClient(Options{
		BaseURL:      baseURL,
		ClientID:     "id",
		ClientSecret: "secret",
		Campaign:     "camp-1",
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestNewClientRequiresCredentials(t *testing.T) {
	if _, err := NewClient(Options{Campaign: "camp-1"}); err == nil {
		t.Fatal("expected ErrMissingCredentials")
	}
}

func TestCampaignFetch(t *testing.T) {
	var tokenCalls atomic.Int32
	srv := newTestServer(t, &tokenCalls)
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	campaign, err := c.Campaign(context.Background())
	if err != nil {
		t.Fatalf("Campaign: %v", err)
	}
	if campaign.ID != "camp-1" || campaign.Total.String() != "150.25" {
		t.Fatalf("unexpected campaign: %+v", campaign)
	}
}

func TestAllDonationsPaginates(t *testing.T) {
	var tokenCalls atomic.Int32
	srv := newTestServer(t, &tokenCalls)
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	donations, err := c.AllDonations(context.Background())
	if err != nil {
		t.Fatalf("AllDonations: %v", err)
	}
	if len(donations) != 3 {
		t.Fatalf("expected 3 donations across pages, got %d", len(donations))
	}
	if donations[2].ID != "d3" {
		t.Fatalf("expected cursor order preserved, got %+v", donations)
	}
}

func TestTokenIsCachedAcrossCalls(t *testing.T) {
	var tokenCalls atomic.Int32
	srv := newTestServer(t, &tokenCalls)
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	ctx := context.Background()
	if _, err := c.Campaign(ctx); err != nil {
		t.Fatalf("Campaign: %v", err)
	}
	if _, err := c.AllDonations(ctx); err != nil {
		t.Fatalf("AllDonations: %v", err)
	}
	if got := tokenCalls.Load(); got != 1 {
		t.Fatalf("expected a single token fetch, got %d", got)
	}
}
