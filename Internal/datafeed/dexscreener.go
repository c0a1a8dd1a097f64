package datafeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fazecat/dexsignals/Internal/types"
)

// ErrUpstream marks transport failures and non-2xx answers from the provider.
var ErrUpstream = errors.New("upstream unavailable")

// MaxAddressesPerQuery is the provider's limit for comma-separated token lookups.
const MaxAddressesPerQuery = 30

// MarketData is the market-data collaborator consumed by the scanner.
type MarketData interface {
	TokenPairs(ctx context.Context, addresses []string) ([]types.Pair, error)
	LatestProfiles(ctx context.Context) ([]types.TokenListing, error)
	TopBoosts(ctx context.Context) ([]types.TokenListing, error)
}

// Client talks to the DexScreener REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "https://api.dexscreener.com"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type pairsResponse struct {
	SchemaVersion string       `json:"schemaVersion"`
	Pairs         []types.Pair `json:"pairs"`
}

// TokenPairs returns every pair trading any of the given token addresses.
func (c *Client) TokenPairs(ctx context.Context, addresses []string) ([]types.Pair, error) {
	cleaned := make([]string, 0, len(addresses))
	for _, a := range addresses {
		if a = strings.TrimSpace(a); a != "" {
			cleaned = append(cleaned, url.PathEscape(a))
		}
	}
	if len(cleaned) == 0 {
		return nil, nil
	}
	if len(cleaned) > MaxAddressesPerQuery {
		return nil, fmt.Errorf("token pairs: %d addresses exceeds limit of %d", len(cleaned), MaxAddressesPerQuery)
	}

	endpoint := fmt.Sprintf("%s/latest/dex/tokens/%s", c.baseURL, strings.Join(cleaned, ","))
	var r pairsResponse
	if err := c.getJSON(ctx, endpoint, &r); err != nil {
		return nil, fmt.Errorf("token pairs: %w", err)
	}
	return r.Pairs, nil
}

// LatestProfiles returns the trending token-profiles listing.
func (c *Client) LatestProfiles(ctx context.Context) ([]types.TokenListing, error) {
	var listings []types.TokenListing
	if err := c.getJSON(ctx, c.baseURL+"/token-profiles/latest/v1", &listings); err != nil {
		return nil, fmt.Errorf("latest profiles: %w", err)
	}
	return listings, nil
}

// TopBoosts returns the top boosted tokens listing.
func (c *Client) TopBoosts(ctx context.Context) ([]types.TokenListing, error) {
	var listings []types.TokenListing
	if err := c.getJSON(ctx, c.baseURL+"/token-boosts/top/v1", &listings); err != nil {
		return nil, fmt.Errorf("top boosts: %w", err)
	}
	return listings, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: API returned status %d", ErrUpstream, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}
	return nil
}
