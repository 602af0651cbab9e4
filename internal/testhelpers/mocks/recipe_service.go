package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/udayvalera/recipe-basket/internal/domain"
)

// MockRecipeService is a testify mock of domain.RecipeService
type MockRecipeService struct {
	mock.Mock
}

var _ domain.RecipeService = (*MockRecipeService)(nil)

func (m *MockRecipeService) ListIngredients(ctx context.Context) ([]domain.Ingredient, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Ingredient), args.Error(1)
}

func (m *MockRecipeService) AddIngredient(ctx context.Context, name string) (*domain.Ingredient, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ingredient), args.Error(1)
}

func (m *MockRecipeService) GenerateRecipe(ctx context.Context, names []string) (*domain.Recipe, error) {
	args := m.Called(ctx, names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Recipe), args.Error(1)
}

func (m *MockRecipeService) FetchHistory(ctx context.Context) ([]domain.Recipe, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Recipe), args.Error(1)
}
