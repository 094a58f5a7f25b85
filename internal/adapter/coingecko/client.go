package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// DefaultURL is the CoinGecko simple price endpoint
const DefaultURL = "https://api.coingecko.com/api/v3/simple/price"

// Client fetches EUR prices of crypto assets keyed by CoinGecko coin id
type Client struct {
	baseURL string
	client  *http.Client
	log     logrus.FieldLogger
}

// NewClient initializes a new CoinGecko client
func NewClient(baseURL string, log logrus.FieldLogger) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// Prices returns the EUR price of every id the API knows about.
// Ids missing from the response are logged and left out of the map.
func (c *Client) Prices(ctx context.Context, ids []string) (map[string]decimal.Decimal, error) {
	if len(ids) == 0 {
		return map[string]decimal.Decimal{}, nil
	}

	params := url.Values{}
	params.Set("ids", strings.Join(ids, ","))
	params.Set("vs_currencies", "eur")

	var payload any
	if err := c.getJSON(ctx, c.baseURL+"?"+params.Encode(), &payload); err != nil {
		return nil, err
	}

	prices := make(map[string]decimal.Decimal, len(ids))
	for _, id := range ids {
		price, err := extractPrice(payload, id)
		if err != nil {
			c.log.WithField("coin", id).WithError(err).Warn("no quote for coin")
			continue
		}
		prices[id] = price
	}
	return prices, nil
}

func (c *Client) getJSON(ctx context.Context, addr string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// extractPrice reads $["<id>"].eur from a decoded simple/price response
func extractPrice(payload any, id string) (decimal.Decimal, error) {
	path := fmt.Sprintf("$[%q].eur", id)
	val, err := jsonpath.Get(path, payload)
	if err != nil {
		return decimal.Zero, fmt.Errorf("error parsing %q: %w", path, err)
	}
	// jsonpath may wrap a single match in a list
	if list, ok := val.([]any); ok && len(list) > 0 {
		val = list[0]
	}

	f, ok := val.(float64)
	if !ok {
		return decimal.Zero, fmt.Errorf("price at %q is not a number: %v", path, val)
	}
	price := decimal.NewFromFloat(f)
	if !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("price at %q must be positive", path)
	}
	return price, nil
}
