// Command coffeemaker-stub serves an in-memory CoffeeMaker API so the
// gateway can be run without the real backend.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"coffee-bff/internal/models"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	port := os.Getenv("STUB_PORT")
	if port == "" {
		port = "8090"
	}

	// STUB_FAIL makes every read answer 500 with this message.
	failWith := os.Getenv("STUB_FAIL")

	slog.Info("CoffeeMaker stub listening", "port", port, "fail", failWith != "")
	if err := http.ListenAndServe(fmt.Sprintf(":%s", port), newMux(newStore(), failWith)); err != nil {
		slog.Error("Server shutdown error", "error", err)
		os.Exit(1)
	}
}

func newMux(s *store, failWith string) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/inventory", func(w http.ResponseWriter, r *http.Request) {
		if failWith != "" {
			writeJSON(w, http.StatusInternalServerError, models.ErrorBody{Message: failWith})
			return
		}
		writeJSON(w, http.StatusOK, s.inventory())
	})

	mux.HandleFunc("POST /api/v1/inventory/{name}", func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("name")
		if err := s.addIngredient(name); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, models.ErrorBody{Message: name + " successfully created"})
	})

	mux.HandleFunc("DELETE /api/v1/inventory", func(w http.ResponseWriter, r *http.Request) {
		s.clearInventory()
		writeJSON(w, http.StatusOK, models.ErrorBody{Message: "Inventory was successfully cleared"})
	})

	mux.HandleFunc("GET /api/v1/recipes", func(w http.ResponseWriter, r *http.Request) {
		if failWith != "" {
			writeJSON(w, http.StatusInternalServerError, models.ErrorBody{Message: failWith})
			return
		}
		writeJSON(w, http.StatusOK, s.listRecipes())
	})

	mux.HandleFunc("POST /api/v1/recipes", func(w http.ResponseWriter, r *http.Request) {
		var recipe models.Recipe
		if err := json.NewDecoder(r.Body).Decode(&recipe); err != nil {
			writeJSON(w, http.StatusBadRequest, models.ErrorBody{Message: "Invalid recipe"})
			return
		}
		if err := s.addRecipe(recipe); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, models.ErrorBody{Message: recipe.Name + " successfully created"})
	})

	mux.HandleFunc("DELETE /api/v1/recipes/{name}", func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("name")
		if err := s.deleteRecipe(name); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, models.ErrorBody{Message: name + " was deleted successfully"})
	})

	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("JSON encode error", "error", err)
	}
}

func writeErr(w http.ResponseWriter, err error) {
	var se *statusError
	if errors.As(err, &se) {
		writeJSON(w, se.status, models.ErrorBody{Message: se.message})
		return
	}
	writeJSON(w, http.StatusInternalServerError, models.ErrorBody{Message: err.Error()})
}
