package guard

// Kind identifies one of the fixed dialogs the UI knows how to show.
type Kind string

const (
	KindNoIngredients       Kind = "no_ingredients"
	KindNoIngredientsUpdate Kind = "no_ingredients_update"
	KindRecipeCap           Kind = "recipe_cap"
	KindNoRecipes           Kind = "no_recipes"
	KindInternalError       Kind = "internal_error"
	KindGenericError        Kind = "generic_error"
)

// Notice is a modal dialog the browser renders instead of navigating.
// Element is the DOM id of the modal to open.
type Notice struct {
	Kind     Kind   `json:"kind"`
	Element  string `json:"element"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	Closable bool   `json:"closable"`
}

type template struct {
	element  string
	title    string
	body     string
	closable bool
}

var catalogue = map[Kind]template{
	KindNoIngredients: {
		element:  "addIngredientModal",
		title:    "No ingredients in inventory",
		body:     "To add a recipe, you must add an ingredient to the inventory.",
		closable: true,
	},
	KindNoIngredientsUpdate: {
		element:  "addIngredientModal",
		title:    "No ingredients in inventory",
		body:     "To update the inventory, you must have ingredients in the inventory.",
		closable: true,
	},
	KindRecipeCap: {
		element:  "deleteRecipeModal",
		title:    "Recipe limit (3) reached",
		body:     "To add another recipe, you must first delete an existing one.",
		closable: true,
	},
	KindNoRecipes: {
		element:  "noRecipesModal",
		title:    "No recipes found in inventory",
		body:     "You must first add a recipe.",
		closable: true,
	},
	KindInternalError: {
		element: "errorModal",
		title:   "Internal server error occurred (500)",
	},
	KindGenericError: {
		element: "errorModal",
		title:   "An error occurred",
	},
}

// Render builds the notice for kind. message is the server-provided text and
// is only used by the error kinds.
func Render(kind Kind, message string) Notice {
	tmpl, ok := catalogue[kind]
	if !ok {
		kind, tmpl = KindGenericError, catalogue[KindGenericError]
		if message == "" {
			message = "An unexpected error occurred."
		}
	}

	body := tmpl.body
	switch kind {
	case KindInternalError:
		body = message + " - please try again later."
	case KindGenericError:
		body = message
	}

	return Notice{
		Kind:     kind,
		Element:  tmpl.element,
		Title:    tmpl.title,
		Body:     body,
		Closable: tmpl.closable,
	}
}
