package infra

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TILTIFY_CAMPAIGN", "TILTIFY_CLIENT_ID", "TILTIFY_CLIENT_SECRET",
		"TILTIFY_WEBHOOK_SECRET", "TILTIFY_WEBHOOK_ID",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.APIBaseURL != "https://v5api.tiltify.com" {
		t.Fatalf("APIBaseURL mismatch: %q", cfg.APIBaseURL)
	}
	if cfg.MetadataInterval != 2*time.Minute {
		t.Fatalf("MetadataInterval mismatch: %v", cfg.MetadataInterval)
	}
	if cfg.HistoryInterval != 15*time.Minute {
		t.Fatalf("HistoryInterval mismatch: %v", cfg.HistoryInterval)
	}
	if cfg.RecentInterval != 5*time.Second {
		t.Fatalf("RecentInterval mismatch: %v", cfg.RecentInterval)
	}
}

func TestMissingCampaignDisablesFeature(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.CampaignConfigured() {
		t.Fatal("engine should be disabled without campaign credentials")
	}
	if cfg.PushEnabled() {
		t.Fatal("push should be disabled without webhook credentials")
	}
}

func TestPushEnabledNeedsBothWebhookValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("TILTIFY_WEBHOOK_SECRET", "shh")

	cfg, _ := LoadConfig()
	if cfg.PushEnabled() {
		t.Fatal("secret alone must not enable push mode")
	}

	t.Setenv("TILTIFY_WEBHOOK_ID", "wh-1")
	cfg, _ = LoadConfig()
	if !cfg.PushEnabled() {
		t.Fatal("secret plus id should enable push mode")
	}
}

func TestIntervalOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("RECENT_POLL_SECONDS", "2")
	t.Setenv("METADATA_POLL_SECONDS", "30")

	cfg, _ := LoadConfig()
	if cfg.RecentInterval != 2*time.Second {
		t.Fatalf("RecentInterval mismatch: %v", cfg.RecentInterval)
	}
	if cfg.MetadataInterval != 30*time.Second {
		t.Fatalf("MetadataInterval mismatch: %v", cfg.MetadataInterval)
	}
}
