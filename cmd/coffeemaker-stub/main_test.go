package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"coffee-bff/internal/coffeemaker"
	"coffee-bff/internal/config"
	"coffee-bff/internal/guard"
	"coffee-bff/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGuards(t *testing.T, s *store, failWith string) (*guard.Dispatcher, *coffeemaker.Client) {
	t.Helper()
	srv := httptest.NewServer(newMux(s, failWith))
	t.Cleanup(srv.Close)

	client := coffeemaker.NewClient(&config.Config{
		CoffeeMakerURL:   srv.URL,
		UpstreamTimeout:  2 * time.Second,
		BreakerThreshold: 10,
		BreakerCooldown:  time.Minute,
	})
	return guard.NewDispatcher(client), client
}

func TestGuardsAgainstStub(t *testing.T) {
	s := newStore()
	d, client := newGuards(t, s, "")
	ctx := context.Background()

	out := d.CheckAddRecipe(ctx)
	require.True(t, out.Blocked())
	assert.Equal(t, guard.KindNoIngredients, out.Notice.Kind)

	require.NoError(t, s.addIngredient("Coffee"))
	require.NoError(t, s.addIngredient("milk"))

	assert.Equal(t, "customrecipe.html", d.CheckAddRecipe(ctx).Navigate)
	assert.Equal(t, "inventory.html", d.CheckInventoryUpdate(ctx).Navigate)
	assert.Equal(t, guard.KindNoRecipes, d.CheckMake(ctx).Notice.Kind)

	for _, name := range []string{"Latte", "Mocha", "Americano"} {
		form := models.RecipeForm{Name: name, Price: 3, Ingredients: []models.IngredientForm{{Name: "coffee", Quantity: 1}}}
		require.Equal(t, "index.html", d.SubmitRecipe(ctx, form).Navigate)
	}

	out = d.CheckAddRecipe(ctx)
	require.True(t, out.Blocked())
	assert.Equal(t, guard.KindRecipeCap, out.Notice.Kind)
	assert.Equal(t, "editrecipe.html", d.CheckEdit(ctx).Navigate)
	assert.Equal(t, "deleterecipe.html", d.CheckDelete(ctx).Navigate)

	err := client.CreateRecipe(ctx, models.NewRecipe(nil, "Espresso", 2))
	var apiErr *coffeemaker.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInsufficientStorage, apiErr.Status)
}

func TestDuplicateRecipeShowsServerMessage(t *testing.T) {
	s := newStore()
	d, _ := newGuards(t, s, "")
	form := models.RecipeForm{Name: "Latte", Price: 3, Ingredients: []models.IngredientForm{{Name: "coffee", Quantity: 1}}}

	require.False(t, d.SubmitRecipe(context.Background(), form).Blocked())
	out := d.SubmitRecipe(context.Background(), form)

	require.True(t, out.Blocked())
	assert.Equal(t, guard.KindGenericError, out.Notice.Kind)
	assert.Equal(t, "Recipe with the name Latte already exists", out.Notice.Body)
}

func TestFailingStub(t *testing.T) {
	d, _ := newGuards(t, newStore(), "db down")

	out := d.CheckInventoryUpdate(context.Background())

	require.True(t, out.Blocked())
	assert.Equal(t, guard.KindInternalError, out.Notice.Kind)
	assert.Equal(t, "db down - please try again later.", out.Notice.Body)
}

func TestStoreIngredients(t *testing.T) {
	s := newStore()

	require.NoError(t, s.addIngredient(" Sugar "))
	err := s.addIngredient("sugar")

	var se *statusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusConflict, se.status)
	assert.Equal(t, "sugar", s.inventory().Ingredients[0].Name)

	s.clearInventory()
	assert.Empty(t, s.inventory().Ingredients)
}

func TestStoreDeleteRecipe(t *testing.T) {
	s := newStore()
	require.NoError(t, s.addRecipe(models.NewRecipe(nil, "Latte", 3)))

	require.NoError(t, s.deleteRecipe("Latte"))
	assert.Empty(t, s.listRecipes())

	var se *statusError
	require.True(t, errors.As(s.deleteRecipe("Latte"), &se))
	assert.Equal(t, http.StatusNotFound, se.status)
}
