package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/braseiro-pdv/api/internal/database"
	"github.com/braseiro-pdv/api/internal/enum"
)

// CouponStore defines the database methods needed by coupon handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type CouponStore interface {
	ListCoupons(ctx context.Context) ([]database.Coupon, error)
	CreateCoupon(ctx context.Context, arg database.CreateCouponParams) (database.Coupon, error)
	DeactivateCoupon(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// CouponHandler handles coupon management endpoints. Applying a coupon to a
// draft happens through the PDV session endpoints.
type CouponHandler struct {
	store CouponStore
}

// NewCouponHandler creates a new CouponHandler.
func NewCouponHandler(store CouponStore) *CouponHandler {
	return &CouponHandler{store: store}
}

// RegisterRoutes registers coupon endpoints on the given Chi router.
func (h *CouponHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Delete("/{id}", h.Deactivate)
}

// --- Request / Response types ---

type createCouponRequest struct {
	Code      string `json:"code"`
	Kind      string `json:"kind"`
	Value     string `json:"value"`
	ExpiresAt string `json:"expires_at"`
}

type couponResponse struct {
	ID        uuid.UUID  `json:"id"`
	Code      string     `json:"code"`
	Kind      string     `json:"kind"`
	Value     string     `json:"value"`
	IsActive  bool       `json:"is_active"`
	ExpiresAt *time.Time `json:"expires_at"`
	CreatedAt time.Time  `json:"created_at"`
}

func toCouponResponse(c database.Coupon) couponResponse {
	resp := couponResponse{
		ID:        c.ID,
		Code:      c.Code,
		Kind:      c.Kind,
		Value:     numericMoneyString(c.Value),
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
	}
	if c.ExpiresAt.Valid {
		resp.ExpiresAt = &c.ExpiresAt.Time
	}
	return resp
}

// --- Handlers ---

// List returns all coupons, active and inactive.
func (h *CouponHandler) List(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.store.ListCoupons(r.Context())
	if err != nil {
		log.Printf("ERROR: list coupons: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]couponResponse, len(coupons))
	for i, c := range coupons {
		resp[i] = toCouponResponse(c)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Create registers a new coupon. Codes are stored uppercase so lookup at the
// PDV is case-insensitive.
func (h *CouponHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Code == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "code is required"})
		return
	}
	if !enum.ValidAdjustmentKind(req.Kind) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "kind must be PERCENTAGE or FIXED_AMOUNT"})
		return
	}
	if req.Value == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "value is required"})
		return
	}

	value, err := parsePrice(req.Value)
	if err != nil {
		if errors.Is(err, errNegativePrice) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "value must not be negative"})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid value"})
		return
	}

	expiresAt := pgtype.Timestamptz{}
	if req.ExpiresAt != "" {
		ts, err := time.Parse(time.RFC3339, req.ExpiresAt)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "expires_at must be RFC 3339"})
			return
		}
		expiresAt = pgtype.Timestamptz{Time: ts, Valid: true}
	}

	coupon, err := h.store.CreateCoupon(r.Context(), database.CreateCouponParams{
		Code:      strings.ToUpper(req.Code),
		Kind:      req.Kind,
		Value:     value,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		log.Printf("ERROR: create coupon: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toCouponResponse(coupon))
}

// Deactivate disables a coupon so it can no longer be applied.
func (h *CouponHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	couponID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid coupon ID"})
		return
	}

	_, err = h.store.DeactivateCoupon(r.Context(), couponID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "coupon not found"})
			return
		}
		log.Printf("ERROR: deactivate coupon: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
