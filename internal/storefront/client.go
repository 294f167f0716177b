package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/fjod/go_food/internal/domain"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	msgCartEmpty     = "Your cart is empty!"
	msgGenericFail   = "Something went wrong."
	msgTransportFail = "Something went wrong. Please try again."
)

// DeliveryFee is the flat display fee in catalog currency.
var DeliveryFee = decimal.NewFromInt(domain.DeliveryFeeUSD)

var (
	ErrCartEmpty = errors.New(msgCartEmpty)
	// ErrNotSignedIn means the user has no session token and belongs on the cart page.
	ErrNotSignedIn = errors.New("not signed in")
)

// OrderError carries the message the checkout page shows the user.
type OrderError struct {
	Message string
}

func (e *OrderError) Error() string {
	return e.Message
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type apiResponse struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	SessionURL string          `json:"session_url"`
	Data       json.RawMessage `json:"data"`
}

// FetchFoods loads the catalog shown on the menu page.
func (c *Client) FetchFoods(ctx context.Context) ([]domain.Food, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/food/list", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch foods: %w", err)
	}
	defer resp.Body.Close()

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode food list: %w", err)
	}
	if !body.Success {
		return nil, fmt.Errorf("food list returned status %d: %s", resp.StatusCode, body.Message)
	}

	var foods []domain.Food
	if err := json.Unmarshal(body.Data, &foods); err != nil {
		return nil, fmt.Errorf("failed to decode food list: %w", err)
	}
	return foods, nil
}

// Checkout is the state behind the place-order page.
type Checkout struct {
	Token  string
	UserID string
	Foods  []domain.Food
	// Cart maps food id to quantity.
	Cart map[string]int

	client *Client
}

func (c *Client) NewCheckout(token, userID string, foods []domain.Food, cart map[string]int) *Checkout {
	return &Checkout{
		Token:  token,
		UserID: userID,
		Foods:  foods,
		Cart:   cart,
		client: c,
	}
}

func (co *Checkout) Subtotal() decimal.Decimal {
	return lo.Reduce(co.Foods, func(sum decimal.Decimal, f domain.Food, _ int) decimal.Decimal {
		qty := co.Cart[f.ID.Hex()]
		if qty <= 0 {
			return sum
		}
		return sum.Add(decimal.NewFromFloat(f.Price).Mul(decimal.NewFromInt(int64(qty))))
	}, decimal.Zero)
}

func (co *Checkout) DeliveryFee() decimal.Decimal {
	if co.Subtotal().IsZero() {
		return decimal.Zero
	}
	return DeliveryFee
}

func (co *Checkout) Total() decimal.Decimal {
	return co.Subtotal().Add(co.DeliveryFee())
}

// CanCheckout is false when the page should send the user back to the cart.
func (co *Checkout) CanCheckout() bool {
	return co.Token != "" && !co.Subtotal().IsZero()
}

type orderItem struct {
	domain.Food
	Quantity int `json:"quantity"`
}

type placeOrderRequest struct {
	UserID  string         `json:"userId"`
	Address domain.Address `json:"address"`
	Items   []orderItem    `json:"items"`
	Amount  float64        `json:"amount"`
}

// PlaceOrder submits the cart and returns the payment page URL to redirect to.
func (co *Checkout) PlaceOrder(ctx context.Context, addr Address) (string, error) {
	if co.Token == "" {
		return "", ErrNotSignedIn
	}
	if err := addr.Validate(); err != nil {
		return "", &OrderError{Message: err.Error()}
	}

	items := lo.FilterMap(co.Foods, func(f domain.Food, _ int) (orderItem, bool) {
		qty := co.Cart[f.ID.Hex()]
		return orderItem{Food: f, Quantity: qty}, qty > 0
	})
	if len(items) == 0 {
		return "", ErrCartEmpty
	}

	payload, err := json.Marshal(placeOrderRequest{
		UserID:  co.UserID,
		Address: addr.toDomain(),
		Items:   items,
		Amount:  co.Total().InexactFloat64(),
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, co.client.baseURL+"/api/order/place", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("token", co.Token)

	resp, err := co.client.httpClient.Do(req)
	if err != nil {
		log.Printf("place order request failed: %v", err)
		return "", &OrderError{Message: msgTransportFail}
	}
	defer resp.Body.Close()

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		log.Printf("place order returned unreadable body (status %d): %v", resp.StatusCode, err)
		return "", &OrderError{Message: msgTransportFail}
	}

	if body.Success && body.SessionURL != "" {
		return body.SessionURL, nil
	}
	if body.Message != "" {
		return "", &OrderError{Message: body.Message}
	}
	return "", &OrderError{Message: msgGenericFail}
}
