package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/udayvalera/recipe-basket/internal/domain"
	"github.com/udayvalera/recipe-basket/internal/testhelpers/mocks"
)

var testCatalog = []domain.Ingredient{
	{ID: "a", Name: "Egg"},
	{ID: "b", Name: "Milk"},
}

func newTestController(svc domain.RecipeService) (*BasketController, *test.Hook) {
	logger, hook := test.NewNullLogger()
	return NewBasketController(svc, BasketControllerConfig{Logger: logger}), hook
}

func TestNewBasketController(t *testing.T) {
	ctrl := NewBasketController(&mocks.MockRecipeService{}, BasketControllerConfig{})

	require.NotNil(t, ctrl)
	assert.False(t, ctrl.InProgress())
	assert.NoError(t, ctrl.LastError())
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()

	t.Run("sends resolved names in selection order", func(t *testing.T) {
		svc := &mocks.MockRecipeService{}
		recipe := &domain.Recipe{ID: "r1", Title: "Custard", Ingredients: []string{"Egg", "Milk"}}
		svc.On("GenerateRecipe", mock.Anything, []string{"Egg", "Milk"}).Return(recipe, nil).Once()
		ctrl, hook := newTestController(svc)

		got, err := ctrl.Generate(ctx, []string{"a", "b"}, testCatalog)

		require.NoError(t, err)
		assert.Equal(t, recipe, got)
		assert.Empty(t, hook.AllEntries())
		svc.AssertExpectations(t)
	})

	t.Run("reversed selection reverses names", func(t *testing.T) {
		svc := &mocks.MockRecipeService{}
		svc.On("GenerateRecipe", mock.Anything, []string{"Milk", "Egg"}).Return(&domain.Recipe{ID: "r1"}, nil).Once()
		ctrl, _ := newTestController(svc)

		_, err := ctrl.Generate(ctx, []string{"b", "a"}, testCatalog)

		require.NoError(t, err)
		svc.AssertExpectations(t)
	})

	t.Run("empty selection fails without network call", func(t *testing.T) {
		svc := &mocks.MockRecipeService{}
		ctrl, _ := newTestController(svc)

		got, err := ctrl.Generate(ctx, nil, testCatalog)

		assert.Nil(t, got)
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.ErrorIs(t, err, ErrNoIngredientsSelected)
		assert.Contains(t, err.Error(), "no ingredients selected")
		assert.False(t, ctrl.InProgress())
		assert.ErrorIs(t, ctrl.LastError(), ErrNoIngredientsSelected)
		svc.AssertNotCalled(t, "GenerateRecipe", mock.Anything, mock.Anything)
	})

	t.Run("no catalog matches fails without network call", func(t *testing.T) {
		svc := &mocks.MockRecipeService{}
		ctrl, _ := newTestController(svc)

		got, err := ctrl.Generate(ctx, []string{"x", "y"}, testCatalog)

		assert.Nil(t, got)
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Contains(t, err.Error(), "no resolvable ingredient names")
		assert.False(t, ctrl.InProgress())
		svc.AssertNotCalled(t, "GenerateRecipe", mock.Anything, mock.Anything)
	})

	t.Run("partial match proceeds with subset and warns", func(t *testing.T) {
		svc := &mocks.MockRecipeService{}
		svc.On("GenerateRecipe", mock.Anything, []string{"Egg"}).Return(&domain.Recipe{ID: "r1"}, nil).Once()

		var warnings []domain.Warning
		logger, hook := test.NewNullLogger()
		ctrl := NewBasketController(svc, BasketControllerConfig{
			Logger:    logger,
			OnWarning: func(w domain.Warning) { warnings = append(warnings, w) },
		})

		result, err := ctrl.GenerateBasket(ctx, []string{"a", "x"}, []domain.Ingredient{{ID: "a", Name: "Egg"}})

		require.NoError(t, err)
		require.NotNil(t, result.Warning)
		assert.Equal(t, []string{"x"}, result.Warning.UnresolvedIDs)
		assert.Equal(t, "1 of 2 selected ingredients could not be resolved", result.Warning.Message)

		require.Len(t, warnings, 1)
		assert.Equal(t, *result.Warning, warnings[0])

		require.Len(t, hook.AllEntries(), 1)
		entry := hook.LastEntry()
		assert.Equal(t, logrus.WarnLevel, entry.Level)
		assert.Equal(t, 2, entry.Data["selected"])
		assert.Equal(t, 1, entry.Data["resolved"])
		assert.Equal(t, []string{"x"}, entry.Data["unresolved_ids"])

		assert.NoError(t, ctrl.LastError())
		svc.AssertExpectations(t)
	})

	t.Run("service failure surfaces generation error", func(t *testing.T) {
		svc := &mocks.MockRecipeService{}
		cause := errors.Join(domain.ErrTransport, errors.New("status 500: model overloaded"))
		svc.On("GenerateRecipe", mock.Anything, []string{"Egg"}).Return(nil, cause).Once()
		ctrl, hook := newTestController(svc)

		got, err := ctrl.Generate(ctx, []string{"a"}, testCatalog)

		assert.Nil(t, got)
		assert.ErrorIs(t, err, domain.ErrGeneration)
		assert.ErrorIs(t, err, domain.ErrTransport)
		assert.Contains(t, err.Error(), "model overloaded")
		assert.False(t, ctrl.InProgress())
		assert.ErrorIs(t, ctrl.LastError(), domain.ErrGeneration)
		assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	})

	t.Run("malformed response is a generation error", func(t *testing.T) {
		svc := &mocks.MockRecipeService{}
		svc.On("GenerateRecipe", mock.Anything, mock.Anything).Return(nil, domain.ErrMalformedResponse).Once()
		ctrl, _ := newTestController(svc)

		_, err := ctrl.Generate(ctx, []string{"a"}, testCatalog)

		assert.ErrorIs(t, err, domain.ErrGeneration)
		assert.ErrorIs(t, err, domain.ErrMalformedResponse)
	})

	t.Run("nil recipe without error is malformed", func(t *testing.T) {
		svc := &mocks.MockRecipeService{}
		svc.On("GenerateRecipe", mock.Anything, mock.Anything).Return(nil, nil).Once()
		ctrl, _ := newTestController(svc)

		_, err := ctrl.Generate(ctx, []string{"a"}, testCatalog)

		assert.ErrorIs(t, err, domain.ErrMalformedResponse)
	})

	t.Run("success clears previous error", func(t *testing.T) {
		svc := &mocks.MockRecipeService{}
		svc.On("GenerateRecipe", mock.Anything, mock.Anything).Return(nil, domain.ErrTransport).Once()
		svc.On("GenerateRecipe", mock.Anything, mock.Anything).Return(&domain.Recipe{ID: "r1"}, nil).Once()
		ctrl, _ := newTestController(svc)

		_, err := ctrl.Generate(ctx, []string{"a"}, testCatalog)
		require.Error(t, err)
		require.Error(t, ctrl.LastError())

		_, err = ctrl.Generate(ctx, []string{"a"}, testCatalog)
		require.NoError(t, err)
		assert.NoError(t, ctrl.LastError())
	})
}

func TestGenerate_InProgress(t *testing.T) {
	for _, outcome := range []string{"success", "failure"} {
		t.Run(outcome, func(t *testing.T) {
			started := make(chan struct{})
			release := make(chan struct{})

			svc := &mocks.MockRecipeService{}
			call := svc.On("GenerateRecipe", mock.Anything, []string{"Egg"}).Run(func(mock.Arguments) {
				close(started)
				<-release
			}).Once()
			if outcome == "success" {
				call.Return(&domain.Recipe{ID: "r1"}, nil)
			} else {
				call.Return(nil, domain.ErrTransport)
			}
			ctrl, _ := newTestController(svc)

			assert.False(t, ctrl.InProgress())

			var wg sync.WaitGroup
			var err error
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err = ctrl.Generate(context.Background(), []string{"a"}, testCatalog)
			}()

			<-started
			assert.True(t, ctrl.InProgress())

			close(release)
			wg.Wait()

			assert.False(t, ctrl.InProgress())
			if outcome == "success" {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, domain.ErrGeneration)
			}
		})
	}
}

func TestGenerate_BusyRejectsConcurrentCall(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	svc := &mocks.MockRecipeService{}
	svc.On("GenerateRecipe", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Return(&domain.Recipe{ID: "r1"}, nil).Once()
	ctrl, _ := newTestController(svc)

	done := make(chan error, 1)
	go func() {
		_, err := ctrl.Generate(context.Background(), []string{"a"}, testCatalog)
		done <- err
	}()
	<-started

	_, err := ctrl.Generate(context.Background(), []string{"b"}, testCatalog)
	assert.ErrorIs(t, err, domain.ErrBusy)
	assert.NoError(t, ctrl.LastError(), "busy rejection must not overwrite last error")

	close(release)
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("first generation did not settle")
	}

	assert.False(t, ctrl.InProgress())
	svc.AssertNumberOfCalls(t, "GenerateRecipe", 1)
}

func TestGenerate_PanicClearsInProgress(t *testing.T) {
	svc := &mocks.MockRecipeService{}
	svc.On("GenerateRecipe", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		panic("backend exploded")
	})
	ctrl, _ := newTestController(svc)

	assert.Panics(t, func() {
		_, _ = ctrl.Generate(context.Background(), []string{"a"}, testCatalog)
	})
	assert.False(t, ctrl.InProgress())
}
