package storefront

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/fjod/go_food/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testFoods() []domain.Food {
	return []domain.Food{
		{ID: primitive.NewObjectID(), Name: "Greek salad", Price: 12},
		{ID: primitive.NewObjectID(), Name: "Veg salad", Price: 18},
		{ID: primitive.NewObjectID(), Name: "Clover salad", Price: 16.5},
	}
}

func validAddress() Address {
	return Address{
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
		Email:     gofakeit.Email(),
		Street:    gofakeit.Street(),
		City:      gofakeit.City(),
		State:     gofakeit.State(),
		Zipcode:   gofakeit.Zip(),
		Country:   gofakeit.Country(),
		Phone:     gofakeit.Phone(),
	}
}

func TestCheckout_Totals(t *testing.T) {
	foods := testFoods()
	c := NewClient("http://unused", time.Second)

	co := c.NewCheckout("tok", "u1", foods, map[string]int{
		foods[0].ID.Hex(): 2,
		foods[2].ID.Hex(): 1,
		"unknown":         5,
	})

	assert.Equal(t, "40.5", co.Subtotal().String())
	assert.Equal(t, "2", co.DeliveryFee().String())
	assert.Equal(t, "42.5", co.Total().String())
	assert.True(t, co.CanCheckout())
}

func TestCheckout_EmptyCart(t *testing.T) {
	co := NewClient("http://unused", time.Second).NewCheckout("tok", "u1", testFoods(), map[string]int{})

	assert.True(t, co.Subtotal().IsZero())
	assert.True(t, co.DeliveryFee().IsZero())
	assert.True(t, co.Total().IsZero())
	assert.False(t, co.CanCheckout())

	_, err := co.PlaceOrder(context.Background(), validAddress())
	assert.ErrorIs(t, err, ErrCartEmpty)
	assert.Equal(t, "Your cart is empty!", err.Error())
}

func TestCheckout_NoToken(t *testing.T) {
	foods := testFoods()
	co := NewClient("http://unused", time.Second).NewCheckout("", "u1", foods, map[string]int{foods[0].ID.Hex(): 1})

	assert.False(t, co.CanCheckout())
	_, err := co.PlaceOrder(context.Background(), validAddress())
	assert.ErrorIs(t, err, ErrNotSignedIn)
}

func TestCheckout_PlaceOrder_Success(t *testing.T) {
	foods := testFoods()

	var gotToken string
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/order/place", r.URL.Path)
		gotToken = r.Header.Get("token")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"success":true,"session_url":"https://checkout.stripe.com/c/pay/cs_1"}`))
	}))
	defer srv.Close()

	co := NewClient(srv.URL+"/", 5*time.Second).NewCheckout("tok", "u1", foods, map[string]int{foods[1].ID.Hex(): 3})

	addr := validAddress()
	url, err := co.PlaceOrder(context.Background(), addr)
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_1", url)
	assert.Equal(t, "tok", gotToken)

	assert.Equal(t, "u1", got["userId"])
	sentAddr, ok := got["address"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, addr.FirstName, sentAddr["firstName"])
	assert.Equal(t, addr.Zipcode, sentAddr["zipcode"])
	assert.Equal(t, float64(56), got["amount"])
	items, ok := got["items"].([]interface{})
	require.True(t, ok)
	require.Len(t, items, 1)
	item := items[0].(map[string]interface{})
	assert.Equal(t, foods[1].ID.Hex(), item["_id"])
	assert.Equal(t, float64(3), item["quantity"])
}

func TestCheckout_PlaceOrder_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"server message", http.StatusBadRequest, `{"success":false,"message":"Minimum order amount is ₹50. Please add more items."}`, "Minimum order amount is ₹50. Please add more items."},
		{"no message", http.StatusOK, `{"success":false}`, "Something went wrong."},
		{"not json", http.StatusBadGateway, `<html>bad gateway</html>`, "Something went wrong. Please try again."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			foods := testFoods()
			co := NewClient(srv.URL, 5*time.Second).NewCheckout("tok", "u1", foods, map[string]int{foods[0].ID.Hex(): 1})

			_, err := co.PlaceOrder(context.Background(), validAddress())
			var orderErr *OrderError
			require.ErrorAs(t, err, &orderErr)
			assert.Equal(t, tt.message, orderErr.Message)
		})
	}
}

func TestCheckout_PlaceOrder_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	foods := testFoods()
	co := NewClient(srv.URL, time.Second).NewCheckout("tok", "u1", foods, map[string]int{foods[0].ID.Hex(): 1})

	_, err := co.PlaceOrder(context.Background(), validAddress())
	assert.EqualError(t, err, "Something went wrong. Please try again.")
}

func TestFetchFoods(t *testing.T) {
	foods := testFoods()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/food/list", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": foods})
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL, time.Second).FetchFoods(context.Background())
	require.NoError(t, err)
	assert.Equal(t, foods, got)
}

func TestAddress_Validate(t *testing.T) {
	assert.NoError(t, validAddress().Validate())

	addr := validAddress()
	addr.Zipcode = "  "
	assert.EqualError(t, addr.Validate(), "zipcode is required")
}
