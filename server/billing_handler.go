package server

import (
	"net/http"

	"melodex/apperr"
	"melodex/model"
)

// PlanRequest is the admin plan-creation body.
type PlanRequest struct {
	Name        string  `json:"name"`
	PlanType    string  `json:"plan_type"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
	MaxUsers    int     `json:"max_users,omitempty"`
	Features    string  `json:"features,omitempty"`
}

// SubscribeRequest attaches a plan to the calling user.
type SubscribeRequest struct {
	PlanID        uint64 `json:"plan_id"`
	PaymentMethod string `json:"payment_method"`
}

func validPlanType(t string) bool {
	switch t {
	case model.PlanFree, model.PlanIndividual, model.PlanFamily:
		return true
	}
	return false
}

func (h *APIHandler) ListPlansHandler(w http.ResponseWriter, r *http.Request) {
	plans, err := h.billing.ListPlans(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, plans, "")
}

func (h *APIHandler) CreatePlanHandler(w http.ResponseWriter, r *http.Request) {
	var req PlanRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.Name == "" {
		respondError(w, apperr.Validation("name", "name is required"))
		return
	}
	if !validPlanType(req.PlanType) {
		respondError(w, apperr.Validation("plan_type", "must be one of FREE, INDIVIDUAL, FAMILY"))
		return
	}
	if req.Price < 0 {
		respondError(w, apperr.Validation("price", "must not be negative"))
		return
	}
	if req.MaxUsers <= 0 {
		req.MaxUsers = 1
	}

	plan := &model.SubscriptionPlan{
		Name:        req.Name,
		PlanType:    req.PlanType,
		Price:       req.Price,
		Description: req.Description,
		MaxUsers:    req.MaxUsers,
		Features:    req.Features,
	}
	if err := h.billing.CreatePlan(r.Context(), plan); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, plan, "")
}

func (h *APIHandler) SubscribeHandler(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	if claims == nil {
		respondError(w, apperr.AuthenticationFailed("authentication required"))
		return
	}

	var req SubscribeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.PaymentMethod == "" {
		respondError(w, apperr.Validation("payment_method", "payment method is required"))
		return
	}

	sub, err := h.billing.Subscribe(r.Context(), claims.UserID, req.PlanID, req.PaymentMethod)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, sub, "Subscription activated")
}

func (h *APIHandler) CancelSubscriptionHandler(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	if claims == nil {
		respondError(w, apperr.AuthenticationFailed("authentication required"))
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.billing.Cancel(r.Context(), id, claims.UserID, claims.Admin()); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, nil, "Subscription cancelled")
}
