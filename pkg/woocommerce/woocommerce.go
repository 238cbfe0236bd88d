package woocommerce

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const maxResponseSizeBytes = 8 << 20

type Config struct {
	BaseURL        string        `split_words:"true" required:"true"`
	ConsumerKey    string        `split_words:"true" required:"true"`
	ConsumerSecret string        `split_words:"true" required:"true"`
	Timeout        time.Duration `split_words:"true" default:"15s"`
	PerPage        int           `split_words:"true" default:"100"`
	MaxPages       int           `split_words:"true" default:"50"`
}

// StatusError is a non-2xx answer from the store API.
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("woocommerce %s %s: http status=%d body=%s", e.Method, e.Path, e.Status, e.Body)
}

// Client talks to the WooCommerce REST API (wc/v3) with basic auth.
type Client struct {
	baseURL        string
	consumerKey    string
	consumerSecret string
	perPage        int
	maxPages       int
	httpClient     *http.Client
}

type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func NewClient(cfg Config, opts ...Option) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, errors.New("woocommerce base url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.ConsumerKey) == "" || strings.TrimSpace(cfg.ConsumerSecret) == "" {
		return nil, errors.New("woocommerce consumer key and secret are required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	perPage := cfg.PerPage
	if perPage <= 0 || perPage > 100 {
		perPage = 100
	}
	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = 50
	}

	client := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		consumerKey:    strings.TrimSpace(cfg.ConsumerKey),
		consumerSecret: strings.TrimSpace(cfg.ConsumerSecret),
		perPage:        perPage,
		maxPages:       maxPages,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

func MustNew(cfg Config, opts ...Option) *Client {
	client, err := NewClient(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return client
}

// GetOrder returns nil, nil when the order does not exist.
func (c *Client) GetOrder(ctx context.Context, id string) (*Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("order id is required")
	}

	var order Order
	found, err := c.do(ctx, http.MethodGet, "/orders/"+url.PathEscape(id), nil, &order)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &order, nil
}

// SearchOrders pages through /orders?search= until an empty page.
func (c *Client) SearchOrders(ctx context.Context, query string) ([]Order, error) {
	q := url.Values{}
	q.Set("search", strings.TrimSpace(query))
	return c.pagedOrders(ctx, q)
}

func (c *Client) pagedOrders(ctx context.Context, q url.Values) ([]Order, error) {
	var all []Order
	for page := 1; page <= c.maxPages; page++ {
		q.Set("page", strconv.Itoa(page))
		q.Set("per_page", strconv.Itoa(c.perPage))

		var orders []Order
		if _, err := c.do(ctx, http.MethodGet, "/orders", q, &orders); err != nil {
			return nil, err
		}
		if len(orders) == 0 {
			return all, nil
		}
		all = append(all, orders...)
	}
	return all, nil
}

// do reports found=false only for 404 on GET.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, out any) (bool, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("build woocommerce request: %w", err)
	}
	req.SetBasicAuth(c.consumerKey, c.consumerSecret)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("execute woocommerce request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return false, fmt.Errorf("read woocommerce response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound && method == http.MethodGet && len(query) == 0 {
		return false, nil
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return false, &StatusError{Method: method, Path: path, Status: resp.StatusCode, Body: string(raw)}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return false, fmt.Errorf("decode woocommerce response: %w", err)
		}
	}
	return true, nil
}
