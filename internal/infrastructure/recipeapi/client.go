package recipeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/udayvalera/recipe-basket/internal/domain"
	"github.com/udayvalera/recipe-basket/internal/requestid"
)

// Backend endpoints, relative to the API base path
const (
	pathItems          = "items"
	pathAddItem        = "items/add"
	pathGenerateRecipe = "recipes/basket/generate-recipe"
	pathHistory        = "recipes/history"
)

const (
	// DefaultBaseURL is used when ClientConfig.BaseURL is empty
	DefaultBaseURL = "http://localhost:5000/api/"

	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "RecipeBasket/1.0"

	maxResponseBytes = 10 << 20
	maxErrorBytes    = 512
)

// ClientConfig configures a Client. It is copied at construction.
type ClientConfig struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	// Headers are sent with every request
	Headers map[string]string
	// RequestsPerSecond throttles outbound calls; zero means unlimited
	RequestsPerSecond float64
	Burst             int
	Debug             bool
	Logger            logrus.FieldLogger
	// HTTPClient overrides the transport; Timeout is ignored when set
	HTTPClient *http.Client
}

var _ domain.RecipeService = (*Client)(nil)

// Client handles communication with the recipe backend
type Client struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	headers     map[string]string
	rateLimiter *rate.Limiter
	logger      logrus.FieldLogger
	debug       bool
}

// NewClient creates a new recipe backend client
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	// keep the API base path when resolving relative endpoints
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Client{
		httpClient:  httpClient,
		baseURL:     baseURL,
		userAgent:   userAgent,
		headers:     maps.Clone(cfg.Headers),
		rateLimiter: limiter,
		logger:      logger.WithField("component", "recipeapi"),
		debug:       cfg.Debug,
	}
}

// debugLog logs only when debug mode is enabled
func (c *Client) debugLog(format string, args ...interface{}) {
	if c.debug {
		c.logger.Infof(format, args...)
	}
}

// ListIngredients returns the full ingredient catalog
func (c *Client) ListIngredients(ctx context.Context) ([]domain.Ingredient, error) {
	var dtos []ingredientDTO
	if err := c.do(ctx, http.MethodGet, pathItems, nil, &dtos); err != nil {
		return nil, err
	}

	c.debugLog("ListIngredients returned %d ingredients", len(dtos))
	return mapIngredients(dtos), nil
}

// AddIngredient creates a catalog entry named name
func (c *Client) AddIngredient(ctx context.Context, name string) (*domain.Ingredient, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: ingredient name is required", domain.ErrValidation)
	}

	var env itemEnvelope
	if err := c.do(ctx, http.MethodPost, pathAddItem, addIngredientRequest{Item: name}, &env); err != nil {
		return nil, err
	}

	ingredient, err := unwrapItem(env)
	if err != nil {
		return nil, err
	}

	c.debugLog("AddIngredient %q created %s (%s)", name, ingredient.ID, env.Message)
	return ingredient, nil
}

// GenerateRecipe asks the backend for a recipe using the given ingredient names
func (c *Client) GenerateRecipe(ctx context.Context, names []string) (*domain.Recipe, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: at least one ingredient name is required", domain.ErrValidation)
	}

	var env recipeEnvelope
	if err := c.do(ctx, http.MethodPost, pathGenerateRecipe, generateRecipeRequest{Items: names}, &env); err != nil {
		return nil, err
	}

	recipe, err := unwrapRecipe(env)
	if err != nil {
		return nil, err
	}

	c.debugLog("GenerateRecipe from %d ingredients returned %q", len(names), recipe.Title)
	return recipe, nil
}

// FetchHistory returns previously generated recipes
func (c *Client) FetchHistory(ctx context.Context) ([]domain.Recipe, error) {
	var dtos []recipeDTO
	if err := c.do(ctx, http.MethodGet, pathHistory, nil, &dtos); err != nil {
		return nil, err
	}

	c.debugLog("FetchHistory returned %d recipes", len(dtos))
	return mapRecipes(dtos), nil
}

// endpoint resolves path against the base URL
func (c *Client) endpoint(path string) (string, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(path)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}

// do executes a JSON request and decodes a 2xx response body into out
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %w", domain.ErrTransport, err)
	}

	reqURL, err := c.endpoint(path)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	_, id := requestid.Ensure(ctx)
	req.Header.Set(requestid.Header, id)

	c.debugLog("%s %s (request_id=%s)", method, reqURL, id)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := readLimitedBody(resp.Body, maxErrorBytes)
		c.debugLog("%s %s failed - Status: %d, Body: %s", method, reqURL, resp.StatusCode, string(raw))
		return fmt.Errorf("%w: status %d: %s", domain.ErrTransport, resp.StatusCode, errorMessage(resp.StatusCode, raw))
	}

	raw, err := readLimitedBody(resp.Body, maxResponseBytes)
	if err != nil {
		return fmt.Errorf("%w: reading response: %w", domain.ErrTransport, err)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", domain.ErrMalformedResponse, err)
	}

	return nil
}

// readLimitedBody reads at most limit bytes from r
func readLimitedBody(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, limit))
}

// errorMessage extracts a human-readable message from an error response body
func errorMessage(status int, raw []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}

	if text := strings.TrimSpace(string(raw)); text != "" {
		return text
	}
	return http.StatusText(status)
}
