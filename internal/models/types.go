package models

// Ingredient is a named inventory item. ID is assigned by the CoffeeMaker
// service and is always nil on the client side.
type Ingredient struct {
	ID       *int64 `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type Recipe struct {
	Ingredients []Ingredient `json:"ingredients"`
	Name        string       `json:"name"`
	Price       int          `json:"price"`
}

type Inventory struct {
	Ingredients []Ingredient `json:"ingredients"`
}

// ErrorBody is what the CoffeeMaker API sends back on a failed request.
type ErrorBody struct {
	Message string `json:"message"`
}

func NewIngredient(name string, quantity int) Ingredient {
	return Ingredient{
		ID:       nil,
		Name:     name,
		Quantity: quantity,
	}
}

func NewRecipe(ingredients []Ingredient, name string, price int) Recipe {
	if ingredients == nil {
		ingredients = []Ingredient{}
	}
	return Recipe{
		Ingredients: ingredients,
		Name:        name,
		Price:       price,
	}
}

// RecipeForm is the payload posted by the custom recipe page.
type RecipeForm struct {
	Name        string           `json:"name"`
	Price       int              `json:"price"`
	Ingredients []IngredientForm `json:"ingredients"`
}

type IngredientForm struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Recipe converts the form into the shape the CoffeeMaker API accepts.
func (f RecipeForm) Recipe() Recipe {
	ingredients := make([]Ingredient, 0, len(f.Ingredients))
	for _, in := range f.Ingredients {
		ingredients = append(ingredients, NewIngredient(in.Name, in.Quantity))
	}
	return NewRecipe(ingredients, f.Name, f.Price)
}
