package guard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"coffee-bff/internal/coffeemaker"
	"coffee-bff/internal/models"
)

// MaxRecipes is how many recipes the CoffeeMaker holds at once.
const MaxRecipes = 3

// unreachableMessage is shown when no HTTP answer came back at all.
const unreachableMessage = "Unable to reach the CoffeeMaker service. Check your connection and try again."

// Dispatcher runs the precondition checks behind each UI button. Every check
// issues its GETs one after another and stops at the first failure or
// blocking condition.
type Dispatcher struct {
	backend Backend
}

func NewDispatcher(backend Backend) *Dispatcher {
	return &Dispatcher{backend: backend}
}

// Dispatch runs the guard bound to a UI button class.
func (d *Dispatcher) Dispatch(ctx context.Context, button string) (Outcome, error) {
	b, ok := bindings[button]
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownAction, button)
	}
	slog.Debug("Dispatching guard", "button", button, "action", b.action)
	return b.check(d, ctx), nil
}

func (d *Dispatcher) CheckAddRecipe(ctx context.Context) Outcome {
	const action = ActionAddRecipe

	ingredients, err := d.ingredientCount(ctx)
	if err != nil {
		return blocked(action, handleAPIError(action, err))
	}
	if ingredients < 1 {
		return blocked(action, Render(KindNoIngredients, ""))
	}

	recipes, err := d.recipeCount(ctx)
	if err != nil {
		return blocked(action, handleAPIError(action, err))
	}
	if recipes >= MaxRecipes {
		return blocked(action, Render(KindRecipeCap, ""))
	}
	return navigate(action, PageCustomRecipe)
}

func (d *Dispatcher) CheckInventoryUpdate(ctx context.Context) Outcome {
	const action = ActionUpdateInventory

	ingredients, err := d.ingredientCount(ctx)
	if err != nil {
		return blocked(action, handleAPIError(action, err))
	}
	if ingredients < 1 {
		return blocked(action, Render(KindNoIngredientsUpdate, ""))
	}
	return navigate(action, PageInventory)
}

func (d *Dispatcher) CheckEdit(ctx context.Context) Outcome {
	const action = ActionEditRecipe

	ingredients, err := d.ingredientCount(ctx)
	if err != nil {
		return blocked(action, handleAPIError(action, err))
	}
	if ingredients < 1 {
		return blocked(action, Render(KindNoIngredients, ""))
	}
	return d.requireRecipes(ctx, action, PageEditRecipe)
}

func (d *Dispatcher) CheckDelete(ctx context.Context) Outcome {
	return d.requireRecipes(ctx, ActionDeleteRecipe, PageDeleteRecipe)
}

func (d *Dispatcher) CheckMake(ctx context.Context) Outcome {
	return d.requireRecipes(ctx, ActionMakeCoffee, PageMakeCoffee)
}

// SubmitRecipe sends the custom recipe form to the CoffeeMaker and returns
// the user to the index page on success.
func (d *Dispatcher) SubmitRecipe(ctx context.Context, form models.RecipeForm) Outcome {
	const action = ActionSubmitRecipe

	if msg := validateRecipeForm(form); msg != "" {
		return blocked(action, Render(KindGenericError, msg))
	}
	if err := d.backend.CreateRecipe(ctx, form.Recipe()); err != nil {
		return blocked(action, handleAPIError(action, err))
	}
	slog.Info("Recipe submitted", "name", form.Name, "ingredients", len(form.Ingredients))
	return navigate(action, PageIndex)
}

func (d *Dispatcher) requireRecipes(ctx context.Context, action Action, page string) Outcome {
	recipes, err := d.recipeCount(ctx)
	if err != nil {
		return blocked(action, handleAPIError(action, err))
	}
	if recipes < 1 {
		return blocked(action, Render(KindNoRecipes, ""))
	}
	return navigate(action, page)
}

func (d *Dispatcher) ingredientCount(ctx context.Context) (int, error) {
	inv, err := d.backend.GetInventory(ctx)
	if err != nil {
		return 0, err
	}
	return len(inv.Ingredients), nil
}

func (d *Dispatcher) recipeCount(ctx context.Context) (int, error) {
	recipes, err := d.backend.GetRecipes(ctx)
	if err != nil {
		return 0, err
	}
	return len(recipes), nil
}

// handleAPIError turns a failed CoffeeMaker call into the dialog shown to
// the user. Failures are terminal for the interaction.
func handleAPIError(action Action, err error) Notice {
	var apiErr *coffeemaker.APIError
	if !errors.As(err, &apiErr) {
		slog.Error("CoffeeMaker unreachable", "action", action, "error", err)
		return Render(KindGenericError, unreachableMessage)
	}

	slog.Error("CoffeeMaker request failed", "action", action, "status", apiErr.Status, "error", apiErr.Message)
	if apiErr.Status == http.StatusInternalServerError {
		return Render(KindInternalError, apiErr.Message)
	}
	return Render(KindGenericError, apiErr.Message)
}

func validateRecipeForm(form models.RecipeForm) string {
	switch {
	case form.Name == "":
		return "Recipe name is required."
	case form.Price < 0:
		return "Price must be a non-negative integer."
	case len(form.Ingredients) == 0:
		return "A recipe needs at least one ingredient."
	}
	for _, in := range form.Ingredients {
		if in.Name == "" {
			return "Every ingredient needs a name."
		}
		if in.Quantity < 1 {
			return fmt.Sprintf("Quantity of %s must be a positive integer.", in.Name)
		}
	}
	return ""
}
