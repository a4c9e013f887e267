package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"fintrack/internal/core"
)

type categoryRequest struct {
	Name        string    `json:"name"`
	Kind        core.Kind `json:"kind"`
	BudgetCents int64     `json:"budget_cents"`
	Color       string    `json:"color"`
}

func (req categoryRequest) toDomain(id int64) core.Category {
	color := strings.TrimSpace(req.Color)
	if color == "" {
		color = "#3498db"
	}
	return core.Category{
		ID:     id,
		Name:   strings.TrimSpace(req.Name),
		Kind:   req.Kind,
		Budget: core.Money{Cents: req.BudgetCents},
		Color:  color,
	}
}

// handleCategories serves GET (list, optional ?kind=) and POST (create) on
// /api/categories.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		kind := core.Kind(r.URL.Query().Get("kind"))
		if kind != "" {
			if err := kind.Validate(); err != nil {
				writeError(w, http.StatusBadRequest, "invalid kind, want 'income' or 'expense'")
				return
			}
		}
		categories, err := s.store.ListCategories(r.Context(), kind)
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
		if categories == nil {
			categories = []core.Category{}
		}
		writeJSON(w, http.StatusOK, categories)
	case http.MethodPost:
		var req categoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		c := req.toDomain(0)
		if err := c.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		id, err := s.store.CreateCategory(r.Context(), c)
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
		c.ID = id
		writeJSON(w, http.StatusCreated, c)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

// handleCategoryByID serves GET, PUT and DELETE on /api/categories/{id}.
// Deletion fails with 409 while transactions still reference the category.
func (s *Server) handleCategoryByID(w http.ResponseWriter, r *http.Request) {
	id, tail, ok := pathID(r.URL.Path, "/api/categories/")
	if !ok || tail != "" {
		writeError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		c, err := s.store.GetCategory(r.Context(), id)
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	case http.MethodPut:
		var req categoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		existing, err := s.store.GetCategory(r.Context(), id)
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
		c := req.toDomain(id)
		// Kind is fixed at creation; updates change name, budget, color.
		c.Kind = existing.Kind
		if err := c.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := s.store.UpdateCategory(r.Context(), c); err != nil {
			writeStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	case http.MethodDelete:
		if err := s.store.DeleteCategory(r.Context(), id); err != nil {
			writeStoreError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, "GET, PUT, DELETE")
	}
}
