package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/braseiro-pdv/api/internal/database"
	"github.com/braseiro-pdv/api/internal/enum"
)

// CourierStore defines the database methods needed by courier handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type CourierStore interface {
	ListCouriers(ctx context.Context, status pgtype.Text) ([]database.Courier, error)
	GetCourier(ctx context.Context, id uuid.UUID) (database.Courier, error)
	CreateCourier(ctx context.Context, arg database.CreateCourierParams) (database.Courier, error)
	UpdateCourierStatus(ctx context.Context, arg database.UpdateCourierStatusParams) (database.Courier, error)
	SoftDeleteCourier(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// CourierHandler handles courier registry endpoints.
type CourierHandler struct {
	store CourierStore
}

// NewCourierHandler creates a new CourierHandler.
func NewCourierHandler(store CourierStore) *CourierHandler {
	return &CourierHandler{store: store}
}

// RegisterRoutes registers courier endpoints on the given Chi router.
func (h *CourierHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Patch("/{id}/status", h.UpdateStatus)
	r.Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

type createCourierRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type updateCourierStatusRequest struct {
	Status string `json:"status"`
}

type courierResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone"`
	Status    string    `json:"status"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func toCourierResponse(c database.Courier) courierResponse {
	resp := courierResponse{
		ID:        c.ID,
		Name:      c.Name,
		Status:    c.Status,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
	}
	if c.Phone.Valid {
		resp.Phone = &c.Phone.String
	}
	return resp
}

// --- Handlers ---

// List returns active couriers, optionally filtered by status.
func (h *CourierHandler) List(w http.ResponseWriter, r *http.Request) {
	status := pgtype.Text{}
	if v := r.URL.Query().Get("status"); v != "" {
		if !enum.ValidCourierStatus(v) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status"})
			return
		}
		status = pgtype.Text{String: v, Valid: true}
	}

	couriers, err := h.store.ListCouriers(r.Context(), status)
	if err != nil {
		log.Printf("ERROR: list couriers: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]courierResponse, len(couriers))
	for i, c := range couriers {
		resp[i] = toCourierResponse(c)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Create registers a new courier. New couriers start AVAILABLE.
func (h *CourierHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCourierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	phone := pgtype.Text{}
	if req.Phone != "" {
		phone = pgtype.Text{String: req.Phone, Valid: true}
	}

	courier, err := h.store.CreateCourier(r.Context(), database.CreateCourierParams{
		Name:   req.Name,
		Phone:  phone,
		Status: enum.CourierStatusAvailable,
	})
	if err != nil {
		log.Printf("ERROR: create courier: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toCourierResponse(courier))
}

// UpdateStatus changes a courier's availability status.
func (h *CourierHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	courierID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid courier ID"})
		return
	}

	var req updateCourierStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if !enum.ValidCourierStatus(req.Status) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status"})
		return
	}

	courier, err := h.store.UpdateCourierStatus(r.Context(), database.UpdateCourierStatusParams{
		ID:     courierID,
		Status: req.Status,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "courier not found"})
			return
		}
		log.Printf("ERROR: update courier status: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toCourierResponse(courier))
}

// Delete soft-deletes a courier by setting is_active=false.
func (h *CourierHandler) Delete(w http.ResponseWriter, r *http.Request) {
	courierID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid courier ID"})
		return
	}

	_, err = h.store.SoftDeleteCourier(r.Context(), courierID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "courier not found"})
			return
		}
		log.Printf("ERROR: delete courier: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
