package domain

import "context"

// RecipeService defines the operations offered by the remote recipe backend
type RecipeService interface {
	ListIngredients(ctx context.Context) ([]Ingredient, error)
	AddIngredient(ctx context.Context, name string) (*Ingredient, error)
	GenerateRecipe(ctx context.Context, names []string) (*Recipe, error)
	FetchHistory(ctx context.Context) ([]Recipe, error)
}
