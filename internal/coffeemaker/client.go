package coffeemaker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"coffee-bff/internal/config"
	"coffee-bff/internal/models"
	"coffee-bff/internal/resilience"
)

const (
	InventoryPath = "/api/v1/inventory"
	RecipesPath   = "/api/v1/recipes"
)

// APIError is a non-2xx answer from the CoffeeMaker API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("coffeemaker: status %d: %s", e.Status, e.Message)
}

// Client talks to the CoffeeMaker REST API. Calls are never retried.
type Client struct {
	baseURL string
	client  *http.Client
	breaker *resilience.CircuitBreaker

	mu          sync.Mutex
	lastFailure error
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.CoffeeMakerURL,
		client: &http.Client{
			Timeout: cfg.UpstreamTimeout,
		},
		breaker: resilience.NewCircuitBreaker("coffeemaker", cfg.BreakerThreshold, cfg.BreakerCooldown),
	}
}

func (c *Client) GetInventory(ctx context.Context) (*models.Inventory, error) {
	var inv models.Inventory
	if err := c.do(ctx, http.MethodGet, InventoryPath, nil, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (c *Client) GetRecipes(ctx context.Context) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := c.do(ctx, http.MethodGet, RecipesPath, nil, &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

func (c *Client) CreateRecipe(ctx context.Context, recipe models.Recipe) error {
	return c.do(ctx, http.MethodPost, RecipesPath, recipe, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, target any) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	err := c.breaker.Execute(func() error {
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("%s %s: %w", method, path, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return errorFromResponse(resp)
		}

		if target == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return fmt.Errorf("decode %s response: %w", path, err)
		}
		return nil
	}, func(err error) resilience.Verdict {
		return classify(ctx, err)
	})

	switch {
	case errors.Is(err, resilience.ErrCircuitOpen), errors.Is(err, resilience.ErrCircuitHalfOpen):
		// Report why the breaker opened, not just that it is open.
		if last := c.lastError(); last != nil {
			return fmt.Errorf("%w: %w", err, last)
		}
	case err != nil && classify(ctx, err) == resilience.Failure:
		c.recordFailure(err)
	}
	return err
}

func (c *Client) recordFailure(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastFailure = err
}

func (c *Client) lastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastFailure
}

// classify keeps client errors (4xx) and calls abandoned by the caller
// from tripping the breaker.
func classify(ctx context.Context, err error) resilience.Verdict {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return resilience.Ignore
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status < 500 {
		return resilience.Success
	}
	return resilience.Failure
}

func errorFromResponse(resp *http.Response) *APIError {
	apiErr := &APIError{Status: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err == nil {
		var body models.ErrorBody
		if json.Unmarshal(data, &body) == nil {
			apiErr.Message = body.Message
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
