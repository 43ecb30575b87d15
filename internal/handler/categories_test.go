package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/braseiro-pdv/api/internal/database"
	"github.com/braseiro-pdv/api/internal/handler"
)

type mockCategoryStore struct {
	categories map[uuid.UUID]database.Category
}

func newMockCategoryStore() *mockCategoryStore {
	return &mockCategoryStore{categories: make(map[uuid.UUID]database.Category)}
}

func (m *mockCategoryStore) ListCategories(_ context.Context) ([]database.Category, error) {
	out := make([]database.Category, 0, len(m.categories))
	for _, c := range m.categories {
		if c.IsActive {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCategoryStore) CreateCategory(_ context.Context, arg database.CreateCategoryParams) (database.Category, error) {
	c := database.Category{
		ID:        uuid.New(),
		Name:      arg.Name,
		SortOrder: arg.SortOrder,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	m.categories[c.ID] = c
	return c, nil
}

func (m *mockCategoryStore) UpdateCategory(_ context.Context, arg database.UpdateCategoryParams) (database.Category, error) {
	c, ok := m.categories[arg.ID]
	if !ok || !c.IsActive {
		return database.Category{}, pgx.ErrNoRows
	}
	c.Name = arg.Name
	c.SortOrder = arg.SortOrder
	m.categories[arg.ID] = c
	return c, nil
}

func (m *mockCategoryStore) SoftDeleteCategory(_ context.Context, id uuid.UUID) (uuid.UUID, error) {
	c, ok := m.categories[id]
	if !ok || !c.IsActive {
		return uuid.Nil, pgx.ErrNoRows
	}
	c.IsActive = false
	m.categories[id] = c
	return id, nil
}

func setupCategoryRouter(store *mockCategoryStore) *chi.Mux {
	h := handler.NewCategoryHandler(store)
	r := chi.NewRouter()
	r.Route("/categories", h.RegisterRoutes)
	return r
}

func TestCategoryList_Empty(t *testing.T) {
	router := setupCategoryRouter(newMockCategoryStore())

	rr := doRequest(t, router, "GET", "/categories", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	if got := decodeListResponse(t, rr); len(got) != 0 {
		t.Errorf("categories: got %d, want 0", len(got))
	}
}

func TestCategoryCreate(t *testing.T) {
	store := newMockCategoryStore()
	router := setupCategoryRouter(store)

	rr := doRequest(t, router, "POST", "/categories", map[string]interface{}{
		"name":       "Espetinhos",
		"sort_order": 1,
	})

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	if resp["name"] != "Espetinhos" {
		t.Errorf("name: got %v, want Espetinhos", resp["name"])
	}
	if len(store.categories) != 1 {
		t.Errorf("stored categories: got %d, want 1", len(store.categories))
	}
}

func TestCategoryCreate_MissingName(t *testing.T) {
	router := setupCategoryRouter(newMockCategoryStore())

	rr := doRequest(t, router, "POST", "/categories", map[string]interface{}{"sort_order": 2})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestCategoryUpdate(t *testing.T) {
	store := newMockCategoryStore()
	c, _ := store.CreateCategory(context.Background(), database.CreateCategoryParams{Name: "Bebidas", SortOrder: 5})
	router := setupCategoryRouter(store)

	rr := doRequest(t, router, "PUT", "/categories/"+c.ID.String(), map[string]interface{}{
		"name":       "Bebidas Geladas",
		"sort_order": 3,
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	if resp["name"] != "Bebidas Geladas" {
		t.Errorf("name: got %v, want Bebidas Geladas", resp["name"])
	}
}

func TestCategoryUpdate_NotFound(t *testing.T) {
	router := setupCategoryRouter(newMockCategoryStore())

	rr := doRequest(t, router, "PUT", "/categories/"+uuid.NewString(), map[string]interface{}{
		"name": "Sobremesas",
	})

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestCategoryDelete(t *testing.T) {
	store := newMockCategoryStore()
	c, _ := store.CreateCategory(context.Background(), database.CreateCategoryParams{Name: "Porções", SortOrder: 2})
	router := setupCategoryRouter(store)

	rr := doRequest(t, router, "DELETE", "/categories/"+c.ID.String(), nil)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNoContent)
	}
	if store.categories[c.ID].IsActive {
		t.Error("expected category to be soft-deleted")
	}

	// second delete hits the inactive row
	rr = doRequest(t, router, "DELETE", "/categories/"+c.ID.String(), nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}
