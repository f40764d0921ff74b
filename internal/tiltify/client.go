package tiltify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/kinstone/starbar/internal/infra"
)

// ErrMissingCredentials indicates the client was configured without an
// application id/secret pair.
var ErrMissingCredentials = errors.New("tiltify: client credentials are required")

const donationPageSize = 100

// Options configures the Tiltify public API client.
type Options struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Campaign     string
	HTTPClient   *http.Client
	Logger       *infra.Logger
}

// Client performs HTTP calls to the Tiltify public campaign API using an
// application access token fetched via the client-credentials grant.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	campaign     string
	httpClient   *http.Client
	logger       *infra.Logger

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

type listEnvelope[T any] struct {
	Data     []T `json:"data"`
	Metadata struct {
		After string `json:"after"`
	} `json:"metadata"`
}

type itemEnvelope[T any] struct {
	Data T `json:"data"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.ClientID) == "" || strings.TrimSpace(opts.ClientSecret) == "" {
		return nil, ErrMissingCredentials
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://v5api.tiltify.com"
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Client{
		baseURL:      baseURL,
		clientID:     strings.TrimSpace(opts.ClientID),
		clientSecret: strings.TrimSpace(opts.ClientSecret),
		campaign:     strings.TrimSpace(opts.Campaign),
		httpClient:   httpClient,
		logger:       logger,
	}, nil
}

// Campaign fetches the campaign snapshot, including the running total.
func (c *Client) Campaign(ctx context.Context) (Campaign, error) {
	var env itemEnvelope[Campaign]
	if err := c.get(ctx, c.campaignPath(""), nil, &env); err != nil {
		return Campaign{}, err
	}
	return env.Data, nil
}

// RecentDonations fetches the latest page of donations, newest first.
func (c *Client) RecentDonations(ctx context.Context) ([]Donation, error) {
	var env listEnvelope[Donation]
	q := url.Values{"limit": {"20"}}
	if err := c.get(ctx, c.campaignPath("/donations"), q, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// AllDonations walks the donation listing to exhaustion using the provider's
// cursor pagination. Used by the slow full-history refresh, never by the
// fast poll cycle.
func (c *Client) AllDonations(ctx context.Context) ([]Donation, error) {
	var all []Donation
	after := ""
	for {
		q := url.Values{"limit": {fmt.Sprint(donationPageSize)}}
		if after != "" {
			q.Set("after", after)
		}
		var env listEnvelope[Donation]
		if err := c.get(ctx, c.campaignPath("/donations"), q, &env); err != nil {
			return nil, err
		}
		all = append(all, env.Data...)
		if env.Metadata.After == "" || len(env.Data) == 0 {
			return all, nil
		}
		after = env.Metadata.After
	}
}

// Polls fetches the campaign's donation polls.
func (c *Client) Polls(ctx context.Context) ([]Poll, error) {
	var env listEnvelope[Poll]
	if err := c.get(ctx, c.campaignPath("/polls"), nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// Schedule fetches the event schedule.
func (c *Client) Schedule(ctx context.Context) ([]ScheduleEntry, error) {
	var env listEnvelope[ScheduleEntry]
	if err := c.get(ctx, c.campaignPath("/schedule"), nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// Targets fetches the fundraising targets.
func (c *Client) Targets(ctx context.Context) ([]Target, error) {
	var env listEnvelope[Target]
	if err := c.get(ctx, c.campaignPath("/targets"), nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// Rewards fetches the donation rewards.
func (c *Client) Rewards(ctx context.Context) ([]Reward, error) {
	var env listEnvelope[Reward]
	if err := c.get(ctx, c.campaignPath("/rewards"), nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// Matches fetches the campaign's donation-matching pledges.
func (c *Client) Matches(ctx context.Context) ([]Match, error) {
	var env listEnvelope[Match]
	if err := c.get(ctx, c.campaignPath("/donation_matches"), nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (c *Client) campaignPath(suffix string) string {
	return "/api/public/campaigns/" + url.PathEscape(c.campaign) + suffix
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("tiltify: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("tiltify: http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("tiltify: %s returned %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("tiltify: decode response: %w", err)
	}
	return nil
}

// token returns a cached application token, refreshing it shortly before it
// expires. Concurrent poll cycles share one refresh.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	payload, err := json.Marshal(map[string]string{
		"grant_type":    "client_credentials",
		"client_id":     c.clientID,
		"client_secret": c.clientSecret,
		"scope":         "public",
	})
	if err != nil {
		return "", fmt.Errorf("tiltify: encode token request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/oauth/token", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("tiltify: build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("tiltify: token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("tiltify: token endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("tiltify: decode token response: %w", err)
	}
	if tok.AccessToken == "" {
		return "", errors.New("tiltify: token response missing access_token")
	}

	c.accessToken = tok.AccessToken
	ttl := time.Duration(tok.ExpiresIn) * time.Second
	if ttl <= 0 {
		ttl = time.Hour
	}
	// Refresh a minute early so in-flight cycles never race expiry.
	c.tokenExpiry = time.Now().Add(ttl - time.Minute)
	return c.accessToken, nil
}
