package handler_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/braseiro-pdv/api/internal/database"
	"github.com/braseiro-pdv/api/internal/handler"
)

type mockProductStore struct {
	categories     map[uuid.UUID]bool
	products       map[uuid.UUID]database.Product
	customizations map[uuid.UUID]database.Customization
}

func newMockProductStore() *mockProductStore {
	return &mockProductStore{
		categories:     make(map[uuid.UUID]bool),
		products:       make(map[uuid.UUID]database.Product),
		customizations: make(map[uuid.UUID]database.Customization),
	}
}

func (m *mockProductStore) ListProducts(_ context.Context, arg database.ListProductsParams) ([]database.Product, error) {
	out := make([]database.Product, 0, len(m.products))
	for _, p := range m.products {
		if !p.IsActive {
			continue
		}
		if arg.CategoryID.Valid && p.CategoryID != arg.CategoryID {
			continue
		}
		if arg.Search.Valid && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(arg.Search.String)) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *mockProductStore) GetProduct(_ context.Context, id uuid.UUID) (database.Product, error) {
	p, ok := m.products[id]
	if !ok || !p.IsActive {
		return database.Product{}, pgx.ErrNoRows
	}
	return p, nil
}

func (m *mockProductStore) CreateProduct(_ context.Context, arg database.CreateProductParams) (database.Product, error) {
	if arg.CategoryID.Valid && !m.categories[uuid.UUID(arg.CategoryID.Bytes)] {
		return database.Product{}, &pgconn.PgError{Code: "23503", ConstraintName: "products_category_id_fkey"}
	}
	p := database.Product{
		ID:          uuid.New(),
		CategoryID:  arg.CategoryID,
		Name:        arg.Name,
		Description: arg.Description,
		Price:       arg.Price,
		ImageURL:    arg.ImageURL,
		IsActive:    true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	m.products[p.ID] = p
	return p, nil
}

func (m *mockProductStore) UpdateProduct(_ context.Context, arg database.UpdateProductParams) (database.Product, error) {
	p, ok := m.products[arg.ID]
	if !ok || !p.IsActive {
		return database.Product{}, pgx.ErrNoRows
	}
	p.CategoryID = arg.CategoryID
	p.Name = arg.Name
	p.Description = arg.Description
	p.Price = arg.Price
	p.ImageURL = arg.ImageURL
	m.products[arg.ID] = p
	return p, nil
}

func (m *mockProductStore) SoftDeleteProduct(_ context.Context, id uuid.UUID) (uuid.UUID, error) {
	p, ok := m.products[id]
	if !ok || !p.IsActive {
		return uuid.Nil, pgx.ErrNoRows
	}
	p.IsActive = false
	m.products[id] = p
	return id, nil
}

func (m *mockProductStore) ListCustomizationsByProduct(_ context.Context, productID uuid.UUID) ([]database.Customization, error) {
	out := make([]database.Customization, 0)
	for _, c := range m.customizations {
		if c.ProductID == productID && c.IsActive {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockProductStore) CreateCustomization(_ context.Context, arg database.CreateCustomizationParams) (database.Customization, error) {
	if _, ok := m.products[arg.ProductID]; !ok {
		return database.Customization{}, &pgconn.PgError{Code: "23503", ConstraintName: "customizations_product_id_fkey"}
	}
	c := database.Customization{
		ID:        uuid.New(),
		ProductID: arg.ProductID,
		Name:      arg.Name,
		Price:     arg.Price,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	m.customizations[c.ID] = c
	return c, nil
}

func (m *mockProductStore) SoftDeleteCustomization(_ context.Context, arg database.SoftDeleteCustomizationParams) (uuid.UUID, error) {
	c, ok := m.customizations[arg.ID]
	if !ok || !c.IsActive || c.ProductID != arg.ProductID {
		return uuid.Nil, pgx.ErrNoRows
	}
	c.IsActive = false
	m.customizations[arg.ID] = c
	return arg.ID, nil
}

func (m *mockProductStore) addCategory() uuid.UUID {
	id := uuid.New()
	m.categories[id] = true
	return id
}

func setupProductRouter(store *mockProductStore) *chi.Mux {
	h := handler.NewProductHandler(store)
	r := chi.NewRouter()
	r.Route("/products", h.RegisterRoutes)
	return r
}

func TestProductCreate(t *testing.T) {
	store := newMockProductStore()
	catID := store.addCategory()
	router := setupProductRouter(store)

	rr := doRequest(t, router, "POST", "/products", map[string]string{
		"category_id": catID.String(),
		"name":        "Espetinho de Picanha",
		"price":       "12.5",
	})

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	if resp["price"] != "12.50" {
		t.Errorf("price: got %v, want 12.50", resp["price"])
	}
}

func TestProductCreate_NegativePrice(t *testing.T) {
	router := setupProductRouter(newMockProductStore())

	rr := doRequest(t, router, "POST", "/products", map[string]string{
		"name":  "Produto Errado",
		"price": "-3.00",
	})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestProductCreate_UnknownCategory(t *testing.T) {
	router := setupProductRouter(newMockProductStore())

	rr := doRequest(t, router, "POST", "/products", map[string]string{
		"category_id": uuid.NewString(),
		"name":        "Órfão",
		"price":       "10.00",
	})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestProductList_SearchFilter(t *testing.T) {
	store := newMockProductStore()
	router := setupProductRouter(store)
	for _, name := range []string{"Espetinho de Picanha", "Espetinho de Frango", "Refrigerante"} {
		doRequest(t, router, "POST", "/products", map[string]string{"name": name, "price": "10.00"})
	}

	rr := doRequest(t, router, "GET", "/products?search=espetinho", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	if list := decodeListResponse(t, rr); len(list) != 2 {
		t.Errorf("products: got %d, want 2", len(list))
	}
}

func TestProductGet_NotFound(t *testing.T) {
	router := setupProductRouter(newMockProductStore())

	rr := doRequest(t, router, "GET", "/products/"+uuid.NewString(), nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestProductUpdateAndDelete(t *testing.T) {
	store := newMockProductStore()
	router := setupProductRouter(store)

	rr := doRequest(t, router, "POST", "/products", map[string]string{"name": "Marmitex", "price": "20.00"})
	id := decodeResponse(t, rr)["id"].(string)

	rr = doRequest(t, router, "PUT", "/products/"+id, map[string]string{"name": "Marmitex G", "price": "24.00"})
	if rr.Code != http.StatusOK {
		t.Fatalf("update: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	if resp := decodeResponse(t, rr); resp["name"] != "Marmitex G" {
		t.Errorf("name: got %v, want Marmitex G", resp["name"])
	}

	rr = doRequest(t, router, "DELETE", "/products/"+id, nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete: got %d, want %d", rr.Code, http.StatusNoContent)
	}
	rr = doRequest(t, router, "GET", "/products/"+id, nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("get after delete: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestCustomizationLifecycle(t *testing.T) {
	store := newMockProductStore()
	router := setupProductRouter(store)

	rr := doRequest(t, router, "POST", "/products", map[string]string{"name": "X-Burger", "price": "18.00"})
	productID := decodeResponse(t, rr)["id"].(string)

	rr = doRequest(t, router, "POST", "/products/"+productID+"/customizations", map[string]string{
		"name":  "Bacon extra",
		"price": "4.00",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create customization: got %d, want %d; body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}
	custID := decodeResponse(t, rr)["id"].(string)

	rr = doRequest(t, router, "GET", "/products/"+productID+"/customizations", nil)
	if list := decodeListResponse(t, rr); len(list) != 1 {
		t.Fatalf("customizations: got %d, want 1", len(list))
	}

	rr = doRequest(t, router, "DELETE", "/products/"+productID+"/customizations/"+custID, nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete customization: got %d, want %d", rr.Code, http.StatusNoContent)
	}

	rr = doRequest(t, router, "GET", "/products/"+productID+"/customizations", nil)
	if list := decodeListResponse(t, rr); len(list) != 0 {
		t.Errorf("customizations after delete: got %d, want 0", len(list))
	}
}
