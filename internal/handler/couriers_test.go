package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/braseiro-pdv/api/internal/database"
	"github.com/braseiro-pdv/api/internal/handler"
)

type mockCourierStore struct {
	couriers map[uuid.UUID]database.Courier
}

func newMockCourierStore() *mockCourierStore {
	return &mockCourierStore{couriers: make(map[uuid.UUID]database.Courier)}
}

func (m *mockCourierStore) ListCouriers(_ context.Context, status pgtype.Text) ([]database.Courier, error) {
	out := make([]database.Courier, 0, len(m.couriers))
	for _, c := range m.couriers {
		if !c.IsActive {
			continue
		}
		if status.Valid && c.Status != status.String {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (m *mockCourierStore) GetCourier(_ context.Context, id uuid.UUID) (database.Courier, error) {
	c, ok := m.couriers[id]
	if !ok || !c.IsActive {
		return database.Courier{}, pgx.ErrNoRows
	}
	return c, nil
}

func (m *mockCourierStore) CreateCourier(_ context.Context, arg database.CreateCourierParams) (database.Courier, error) {
	c := database.Courier{
		ID:        uuid.New(),
		Name:      arg.Name,
		Phone:     arg.Phone,
		Status:    arg.Status,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	m.couriers[c.ID] = c
	return c, nil
}

func (m *mockCourierStore) UpdateCourierStatus(_ context.Context, arg database.UpdateCourierStatusParams) (database.Courier, error) {
	c, ok := m.couriers[arg.ID]
	if !ok || !c.IsActive {
		return database.Courier{}, pgx.ErrNoRows
	}
	c.Status = arg.Status
	m.couriers[arg.ID] = c
	return c, nil
}

func (m *mockCourierStore) SoftDeleteCourier(_ context.Context, id uuid.UUID) (uuid.UUID, error) {
	c, ok := m.couriers[id]
	if !ok || !c.IsActive {
		return uuid.Nil, pgx.ErrNoRows
	}
	c.IsActive = false
	m.couriers[id] = c
	return id, nil
}

func setupCourierRouter(store *mockCourierStore) *chi.Mux {
	h := handler.NewCourierHandler(store)
	r := chi.NewRouter()
	r.Route("/couriers", h.RegisterRoutes)
	return r
}

func TestCourierCreate_StartsAvailable(t *testing.T) {
	store := newMockCourierStore()
	router := setupCourierRouter(store)

	rr := doRequest(t, router, "POST", "/couriers", map[string]string{
		"name":  "Carlos Moto",
		"phone": "11955554444",
	})

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	if resp["status"] != "AVAILABLE" {
		t.Errorf("status: got %v, want AVAILABLE", resp["status"])
	}
}

func TestCourierCreate_MissingName(t *testing.T) {
	router := setupCourierRouter(newMockCourierStore())

	rr := doRequest(t, router, "POST", "/couriers", map[string]string{"phone": "11955554444"})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestCourierList_StatusFilter(t *testing.T) {
	store := newMockCourierStore()
	a, _ := store.CreateCourier(context.Background(), database.CreateCourierParams{Name: "Disponível", Status: "AVAILABLE"})
	store.CreateCourier(context.Background(), database.CreateCourierParams{Name: "Ocupado", Status: "BUSY"})
	router := setupCourierRouter(store)

	rr := doRequest(t, router, "GET", "/couriers?status=AVAILABLE", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	list := decodeListResponse(t, rr)
	if len(list) != 1 {
		t.Fatalf("couriers: got %d, want 1", len(list))
	}
	if list[0]["id"] != a.ID.String() {
		t.Errorf("courier id: got %v, want %s", list[0]["id"], a.ID)
	}
}

func TestCourierList_InvalidStatusFilter(t *testing.T) {
	router := setupCourierRouter(newMockCourierStore())

	rr := doRequest(t, router, "GET", "/couriers?status=SLEEPING", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestCourierUpdateStatus(t *testing.T) {
	store := newMockCourierStore()
	c, _ := store.CreateCourier(context.Background(), database.CreateCourierParams{Name: "Carlos", Status: "AVAILABLE"})
	router := setupCourierRouter(store)

	rr := doRequest(t, router, "PATCH", "/couriers/"+c.ID.String()+"/status", map[string]string{"status": "BUSY"})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	if resp := decodeResponse(t, rr); resp["status"] != "BUSY" {
		t.Errorf("status: got %v, want BUSY", resp["status"])
	}

	rr = doRequest(t, router, "PATCH", "/couriers/"+c.ID.String()+"/status", map[string]string{"status": "RESTING"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("invalid status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestCourierDelete_NotFound(t *testing.T) {
	router := setupCourierRouter(newMockCourierStore())

	rr := doRequest(t, router, "DELETE", "/couriers/"+uuid.NewString(), nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}
