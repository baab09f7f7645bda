package guard

import (
	"context"
	"errors"
	"sort"

	"coffee-bff/internal/models"
)

type Action string

const (
	ActionAddRecipe       Action = "add_recipe"
	ActionUpdateInventory Action = "update_inventory"
	ActionEditRecipe      Action = "edit_recipe"
	ActionDeleteRecipe    Action = "delete_recipe"
	ActionMakeCoffee      Action = "make_coffee"
	ActionSubmitRecipe    Action = "submit_recipe"
)

// Pages the browser is sent to once a guard passes.
const (
	PageIndex        = "index.html"
	PageInventory    = "inventory.html"
	PageCustomRecipe = "customrecipe.html"
	PageMakeCoffee   = "makecoffee.html"
	PageDeleteRecipe = "deleterecipe.html"
	PageEditRecipe   = "editrecipe.html"
)

var ErrUnknownAction = errors.New("no action bound to button")

// Outcome is what the browser does after a click: follow Navigate, or show
// Notice. Exactly one of the two is set.
type Outcome struct {
	Action   Action  `json:"action"`
	Navigate string  `json:"navigate,omitempty"`
	Notice   *Notice `json:"notice,omitempty"`
}

func (o Outcome) Blocked() bool {
	return o.Notice != nil
}

func navigate(action Action, page string) Outcome {
	return Outcome{Action: action, Navigate: page}
}

func blocked(action Action, n Notice) Outcome {
	return Outcome{Action: action, Notice: &n}
}

// Backend is the part of the CoffeeMaker API the guards read.
type Backend interface {
	GetInventory(ctx context.Context) (*models.Inventory, error)
	GetRecipes(ctx context.Context) ([]models.Recipe, error)
	CreateRecipe(ctx context.Context, recipe models.Recipe) error
}

type binding struct {
	action Action
	check  func(*Dispatcher, context.Context) Outcome
}

// bindings maps UI button classes to their guard. Built once, never mutated.
var bindings = map[string]binding{
	"addRecipe":       {ActionAddRecipe, (*Dispatcher).CheckAddRecipe},
	"updateInventory": {ActionUpdateInventory, (*Dispatcher).CheckInventoryUpdate},
	"editRecipe":      {ActionEditRecipe, (*Dispatcher).CheckEdit},
	"deleteRecipe":    {ActionDeleteRecipe, (*Dispatcher).CheckDelete},
	"makeCoffee":      {ActionMakeCoffee, (*Dispatcher).CheckMake},
}

// Buttons lists the bound button classes in a stable order.
func Buttons() []string {
	out := make([]string, 0, len(bindings))
	for b := range bindings {
		out = append(out, b)
	}
	sort.Strings(out)
	return out
}
