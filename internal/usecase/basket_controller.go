package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/udayvalera/recipe-basket/internal/domain"
	"github.com/udayvalera/recipe-basket/internal/requestid"
)

var (
	// ErrNoIngredientsSelected is returned when a generation is requested for an empty selection
	ErrNoIngredientsSelected = fmt.Errorf("%w: no ingredients selected", domain.ErrValidation)

	// ErrNoResolvableNames is returned when none of the selected IDs is in the catalog
	ErrNoResolvableNames = fmt.Errorf("%w: no resolvable ingredient names", domain.ErrValidation)
)

// BasketControllerConfig holds configuration for the basket controller
type BasketControllerConfig struct {
	Logger logrus.FieldLogger
	// OnWarning, when set, is called synchronously for every partial-mismatch warning
	OnWarning func(domain.Warning)
}

// BasketController resolves a selection of ingredient IDs and requests a recipe for it.
// At most one generation runs at a time; a concurrent call fails with domain.ErrBusy.
type BasketController struct {
	service   domain.RecipeService
	logger    logrus.FieldLogger
	onWarning func(domain.Warning)

	inProgress atomic.Bool

	mu      sync.RWMutex
	lastErr error
}

// NewBasketController creates a new basket controller
func NewBasketController(service domain.RecipeService, config BasketControllerConfig) *BasketController {
	logger := config.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &BasketController{
		service:   service,
		logger:    logger.WithField("component", "basket"),
		onWarning: config.OnWarning,
	}
}

// InProgress reports whether a generation is pending
func (c *BasketController) InProgress() bool {
	return c.inProgress.Load()
}

// LastError returns the error of the most recently settled generation, nil after a success
func (c *BasketController) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// Generate resolves selectedIDs against catalog and returns the generated recipe
func (c *BasketController) Generate(ctx context.Context, selectedIDs []string, catalog []domain.Ingredient) (*domain.Recipe, error) {
	result, err := c.GenerateBasket(ctx, selectedIDs, catalog)
	if err != nil {
		return nil, err
	}
	return result.Recipe, nil
}

// GenerateBasket is Generate that also reports the partial-mismatch warning, if any.
// Flow: idle -> pending -> validate -> resolve -> generate -> idle
func (c *BasketController) GenerateBasket(
	ctx context.Context,
	selectedIDs []string,
	catalog []domain.Ingredient,
) (result *domain.GenerateResult, err error) {
	if !c.inProgress.CompareAndSwap(false, true) {
		return nil, domain.ErrBusy
	}
	defer func() {
		c.setLastError(err)
		c.inProgress.Store(false)
	}()

	if len(selectedIDs) == 0 {
		return nil, ErrNoIngredientsSelected
	}

	names, unresolved := ResolveNames(selectedIDs, catalog)
	if len(names) == 0 {
		return nil, ErrNoResolvableNames
	}

	var warning *domain.Warning
	if len(unresolved) > 0 {
		warning = c.warn(ctx, len(selectedIDs), len(names), unresolved)
	}

	recipe, err := c.service.GenerateRecipe(ctx, names)
	if err != nil {
		c.logger.WithError(err).
			WithField("request_id", requestid.FromContext(ctx)).
			Error("recipe generation failed")
		return nil, fmt.Errorf("%w: %w", domain.ErrGeneration, err)
	}
	if recipe == nil {
		return nil, fmt.Errorf("%w: %w: empty recipe", domain.ErrGeneration, domain.ErrMalformedResponse)
	}

	return &domain.GenerateResult{Recipe: recipe, Warning: warning}, nil
}

// warn emits the partial-mismatch signal
func (c *BasketController) warn(ctx context.Context, selected, resolved int, unresolved []string) *domain.Warning {
	warning := domain.Warning{
		Message:       fmt.Sprintf("%d of %d selected ingredients could not be resolved", len(unresolved), selected),
		UnresolvedIDs: unresolved,
	}

	c.logger.WithFields(logrus.Fields{
		"selected":       selected,
		"resolved":       resolved,
		"unresolved_ids": unresolved,
		"request_id":     requestid.FromContext(ctx),
	}).Warn("generating recipe from a partial selection")

	if c.onWarning != nil {
		c.onWarning(warning)
	}

	return &warning
}

func (c *BasketController) setLastError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = err
}
