package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Mo7Ati/dawlystore-storefront/pkg/types"
	"github.com/google/uuid"
)

// Login exchanges credentials for a platform access token.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	var out LoginResult
	if err := c.do(ctx, http.MethodPost, "/v1/storefront/auth/login", "", "auth_login", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the customer profile for the given access token.
func (c *Client) Me(ctx context.Context, token string) (*Customer, error) {
	var out Customer
	if err := c.do(ctx, http.MethodGet, "/v1/storefront/auth/me", token, "auth_me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListStores returns browsable vendor stores.
func (c *Client) ListStores(ctx context.Context, q StoreQuery) ([]StoreSummary, error) {
	var out []StoreSummary
	path := "/v1/storefront/stores" + q.encode()
	if err := c.do(ctx, http.MethodGet, path, "", "stores_list", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetStore returns a single vendor store.
func (c *Client) GetStore(ctx context.Context, storeID uuid.UUID) (*StoreSummary, error) {
	var out StoreSummary
	path := fmt.Sprintf("/v1/storefront/stores/%s", storeID)
	if err := c.do(ctx, http.MethodGet, path, "", "stores_get", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListProducts returns catalog products, optionally scoped to a store.
func (c *Client) ListProducts(ctx context.Context, q ProductQuery) ([]Product, error) {
	var out []Product
	path := "/v1/storefront/products" + q.encode()
	if err := c.do(ctx, http.MethodGet, path, "", "products_list", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProduct returns a single catalog product with its options and
// additions.
func (c *Client) GetProduct(ctx context.Context, productID uuid.UUID) (*Product, error) {
	var out Product
	path := fmt.Sprintf("/v1/storefront/products/%s", productID)
	if err := c.do(ctx, http.MethodGet, path, "", "products_get", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAddresses returns the customer's saved delivery addresses.
func (c *Client) ListAddresses(ctx context.Context, token string) ([]types.Address, error) {
	var out []types.Address
	if err := c.do(ctx, http.MethodGet, "/v1/storefront/addresses", token, "addresses_list", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateAddress saves a new delivery address for the customer.
func (c *Client) CreateAddress(ctx context.Context, token string, addr types.Address) (*types.Address, error) {
	var out types.Address
	if err := c.do(ctx, http.MethodPost, "/v1/storefront/addresses", token, "addresses_create", addr, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteAddress removes a saved delivery address.
func (c *Client) DeleteAddress(ctx context.Context, token string, addressID uuid.UUID) error {
	path := fmt.Sprintf("/v1/storefront/addresses/%s", addressID)
	return c.do(ctx, http.MethodDelete, path, token, "addresses_delete", nil, nil)
}

// ListOrders returns the customer's order history.
func (c *Client) ListOrders(ctx context.Context, token string) ([]OrderSummary, error) {
	var out []OrderSummary
	if err := c.do(ctx, http.MethodGet, "/v1/storefront/orders", token, "orders_list", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetOrder returns one historical order in full.
func (c *Client) GetOrder(ctx context.Context, token string, orderID uuid.UUID) (*OrderDetail, error) {
	var out OrderDetail
	path := fmt.Sprintf("/v1/storefront/orders/%s", orderID)
	if err := c.do(ctx, http.MethodGet, path, token, "orders_get", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ValidateCheckout submits the cart projection for server-side
// validation. A failed validation is a successful call: the result
// carries per-item errors instead of a session.
func (c *Client) ValidateCheckout(ctx context.Context, token string, req ValidateCheckoutRequest) (*ValidateCheckoutResult, error) {
	var out ValidateCheckoutResult
	if err := c.do(ctx, http.MethodPost, "/v1/storefront/checkout/validate", token, "checkout_validate", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// InitiatePayment opens payment for a previously validated session.
func (c *Client) InitiatePayment(ctx context.Context, token string, sessionID uuid.UUID, method string) (*PaymentRedirect, error) {
	var out PaymentRedirect
	body := map[string]string{"session_id": sessionID.String(), "payment_method": method}
	if err := c.do(ctx, http.MethodPost, "/v1/storefront/checkout/pay", token, "checkout_pay", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StoreQuery holds list filters for stores.
type StoreQuery struct {
	Search string
	Page   int
	Limit  int
}

func (q StoreQuery) encode() string {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Page > 0 {
		v.Set("page", fmt.Sprint(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", fmt.Sprint(q.Limit))
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

// ProductQuery holds list filters for products.
type ProductQuery struct {
	StoreID *uuid.UUID
	Search  string
	Page    int
	Limit   int
}

func (q ProductQuery) encode() string {
	v := url.Values{}
	if q.StoreID != nil {
		v.Set("store_id", q.StoreID.String())
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Page > 0 {
		v.Set("page", fmt.Sprint(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", fmt.Sprint(q.Limit))
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}
