package main

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"coffee-bff/internal/models"
)

const maxRecipes = 3

// statusError pairs an HTTP status with the message sent to the caller.
type statusError struct {
	status  int
	message string
}

func (e *statusError) Error() string { return e.message }

// store is an in-memory stand-in for the CoffeeMaker database.
type store struct {
	mu          sync.Mutex
	nextID      int64
	ingredients []models.Ingredient
	recipes     []models.Recipe
}

func newStore() *store {
	return &store{nextID: 1}
}

func (s *store) inventory() models.Inventory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.Inventory{Ingredients: append([]models.Ingredient{}, s.ingredients...)}
}

func (s *store) addIngredient(name string) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return &statusError{http.StatusBadRequest, "Ingredient name is required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, in := range s.ingredients {
		if in.Name == name {
			return &statusError{http.StatusConflict, name + " already exists in the Inventory"}
		}
	}
	id := s.nextID
	s.nextID++
	s.ingredients = append(s.ingredients, models.Ingredient{ID: &id, Name: name, Quantity: 1})
	return nil
}

func (s *store) clearInventory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ingredients = nil
}

func (s *store) listRecipes() []models.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Recipe{}, s.recipes...)
}

func (s *store) addRecipe(r models.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.recipes {
		if strings.EqualFold(existing.Name, r.Name) {
			return &statusError{http.StatusConflict, fmt.Sprintf("Recipe with the name %s already exists", r.Name)}
		}
	}
	if len(s.recipes) >= maxRecipes {
		return &statusError{http.StatusInsufficientStorage, fmt.Sprintf("Insufficient space in recipe book for recipe %s", r.Name)}
	}
	s.recipes = append(s.recipes, r)
	return nil
}

func (s *store) deleteRecipe(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.recipes {
		if r.Name == name {
			s.recipes = append(s.recipes[:i], s.recipes[i+1:]...)
			return nil
		}
	}
	return &statusError{http.StatusNotFound, "No recipe found for name " + name}
}
