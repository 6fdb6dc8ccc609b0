package quoting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/MuzPas1/fleety-mobile/pkg/errors"
)

const (
	defaultTimeout              = 10 * time.Second
	responseBodyReadLimit int64 = 64 * 1024
)

var errBaseURLRequired = errors.New("quoting base url is required")

// Quote is the delivery-fee/time/tax-applicability snapshot resolved for a
// restaurant and destination pair. Immutable once fetched.
type Quote struct {
	RestaurantID  string  `json:"restaurant_id"`
	DistanceKm    float64 `json:"distance_km"`
	FeeAmount     int64   `json:"fee_amount"`
	EtaLabel      string  `json:"eta_label"`
	TaxApplicable bool    `json:"tax_applicable"`
}

// Client wraps the external delivery-quote service.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewClient builds a quote-service client for the given base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}

	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// GetQuote fetches the delivery quote for a restaurant and destination address.
//
// Missing or malformed fields in the response decode to zero/false defaults
// instead of failing: a cart screen should degrade to a zero fee rather than
// refuse to render.
func (c *Client) GetQuote(ctx context.Context, restaurantID, addressID string) (Quote, error) {
	if c == nil {
		return Quote{}, pkgerrors.New(pkgerrors.CodeDependency, "quoting client not configured")
	}
	if strings.TrimSpace(restaurantID) == "" {
		return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "restaurant id is required")
	}

	query := url.Values{}
	query.Set("restaurant_id", restaurantID)
	if addressID != "" {
		query.Set("address_id", addressID)
	}
	endpoint := fmt.Sprintf("%s/calculate-delivery-fee?%s", c.baseURL, query.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Quote{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build quote request")
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Quote{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute quote request")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	if err != nil {
		return Quote{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read quote response")
	}

	if resp.StatusCode != http.StatusOK {
		return Quote{}, pkgerrors.Wrap(
			pkgerrors.CodeDependency,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
			"quote request failed",
		)
	}

	quote := decodeQuote(body)
	quote.RestaurantID = restaurantID
	return quote, nil
}

// decodeQuote extracts known fields one by one so that a single bad field
// degrades to its zero value without discarding the rest of the payload.
func decodeQuote(body []byte) Quote {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return Quote{}
	}

	var quote Quote
	if raw, ok := fields["deliveryFee"]; ok {
		var fee int64
		if json.Unmarshal(raw, &fee) == nil && fee >= 0 {
			quote.FeeAmount = fee
		}
	}
	if raw, ok := fields["distance"]; ok {
		var distance float64
		if json.Unmarshal(raw, &distance) == nil && distance >= 0 {
			quote.DistanceKm = distance
		}
	}
	if raw, ok := fields["chargesGST"]; ok {
		var applicable bool
		if json.Unmarshal(raw, &applicable) == nil {
			quote.TaxApplicable = applicable
		}
	}
	if raw, ok := fields["deliveryTime"]; ok {
		var label string
		if json.Unmarshal(raw, &label) == nil {
			quote.EtaLabel = label
		}
	}
	return quote
}
