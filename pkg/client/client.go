// Package client is an API client for the customer service that keeps
// a local mirror of the customer list: Load replaces it wholesale,
// Create appends the server echo, Delete removes by id.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
)

// Customer is the client-side view of a customer record.
type Customer struct {
	ID        snowflake.ID `json:"id"`
	Name      string       `json:"name"`
	Email     string       `json:"email"`
	Status    bool         `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
}

type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger

	mu        sync.Mutex
	loaded    bool
	customers []Customer
}

func New(baseURL string, httpClient *http.Client, log *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		log:     log.Named("customer.client"),
	}
}

// Load fetches the full customer list and replaces local state wholesale.
func (c *Client) Load(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/customers", nil)
	if err != nil {
		return err
	}

	var customers []Customer
	if err := c.do(req, http.StatusOK, &customers); err != nil {
		return err
	}

	c.mu.Lock()
	c.customers = customers
	c.loaded = true
	c.mu.Unlock()
	return nil
}

// Create posts a new customer and appends the server echo to local
// state without re-fetching.
func (c *Client) Create(ctx context.Context, name, email string) (Customer, error) {
	payload, err := json.Marshal(map[string]string{"name": name, "email": email})
	if err != nil {
		return Customer{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/customer", bytes.NewReader(payload))
	if err != nil {
		return Customer{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	var created Customer
	if err := c.do(req, http.StatusCreated, &created); err != nil {
		return Customer{}, err
	}

	c.mu.Lock()
	c.customers = append(c.customers, created)
	c.mu.Unlock()
	return created, nil
}

// Delete removes the customer remotely, then locally. A remote failure
// is logged and swallowed, leaving local state unchanged; that mirrors
// the frontend this client replaces and can desynchronize from server
// truth.
func (c *Client) Delete(ctx context.Context, id snowflake.ID) {
	target := fmt.Sprintf("%s/customer?id=%s", c.baseURL, url.QueryEscape(id.String()))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, target, nil)
	if err != nil {
		c.log.Warn("delete customer", zap.String("customer_id", id.String()), zap.Error(err))
		return
	}

	if err := c.do(req, http.StatusNoContent, nil); err != nil {
		c.log.Warn("delete customer", zap.String("customer_id", id.String()), zap.Error(err))
		return
	}

	c.mu.Lock()
	kept := c.customers[:0]
	for _, customer := range c.customers {
		if customer.ID != id {
			kept = append(kept, customer)
		}
	}
	c.customers = kept
	c.mu.Unlock()
}

// Customers returns a copy of the local state.
func (c *Client) Customers() []Customer {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Customer, len(c.customers))
	copy(out, c.customers)
	return out
}

// Loaded reports whether the initial fetch has completed.
func (c *Client) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

func (c *Client) do(req *http.Request, wantStatus int, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		var apiErr struct {
			Message string `json:"message"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Message != "" {
			return fmt.Errorf("%s %s: %s", req.Method, req.URL.Path, apiErr.Message)
		}
		return fmt.Errorf("%s %s: unexpected status %d", req.Method, req.URL.Path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
