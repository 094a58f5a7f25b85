package ecb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// DefaultURL is the ECB daily euro foreign exchange reference rates feed
const DefaultURL = "https://www.ecb.europa.eu/stats/eurofxref/eurofxref-daily.xml"

// Client fetches euro reference rates from the European Central Bank
type Client struct {
	url    string
	client *http.Client
	log    logrus.FieldLogger
}

// NewClient initializes a new ECB client
func NewClient(url string, log logrus.FieldLogger) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// Fetch returns units of each currency per 1 EUR, EUR included
func (c *Client) Fetch(ctx context.Context) (map[string]decimal.Decimal, error) {
	body, err := c.sendRequest(ctx)
	if err != nil {
		return nil, err
	}
	return parseRates(body)
}

// sendRequest downloads the XML feed
func (c *Client) sendRequest(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.log.Debugf("ECB XML response: %d bytes", len(body))
	return body, nil
}

// parseRates extracts every <Cube currency="..." rate="..."/> element
func parseRates(raw []byte) (map[string]decimal.Decimal, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}

	cubes := doc.FindElements("//Cube[@currency]")
	if len(cubes) == 0 {
		return nil, errors.New("no rate data found in XML")
	}

	rates := map[string]decimal.Decimal{"EUR": decimal.NewFromInt(1)}
	for _, cube := range cubes {
		code := cube.SelectAttrValue("currency", "")
		rate, err := decimal.NewFromString(cube.SelectAttrValue("rate", ""))
		if err != nil {
			return nil, fmt.Errorf("failed to parse rate for %s: %w", code, err)
		}
		if !rate.IsPositive() {
			return nil, fmt.Errorf("rate for %s must be positive", code)
		}
		rates[code] = rate
	}

	return rates, nil
}
