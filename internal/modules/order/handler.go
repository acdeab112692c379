package order

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmulenga/kwacha-commerce/internal/api"
	"github.com/dmulenga/kwacha-commerce/internal/modules/catalog"
)

// Handler exposes order HTTP endpoints. All routes sit behind the auth
// middleware when one is supplied.
type Handler struct {
	service Service
	authMW  func(http.Handler) http.Handler
}

func NewHandler(service Service, authMW func(http.Handler) http.Handler) *Handler {
	return &Handler{service: service, authMW: authMW}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/orders", func(r chi.Router) {
		if h.authMW != nil {
			r.Use(h.authMW)
		}
		r.Post("/", h.placeOrder)
		r.Get("/", h.listOrders)
		r.Get("/{id}", h.getOrder)
		r.Put("/{id}", h.updateStatus)
		r.Put("/{id}/pay", h.markProcessing)
		r.Put("/{id}/deliver", h.markDelivered)
		r.Delete("/{id}", h.deleteOrder)
		r.Get("/user/{user_id}", h.listUserOrders)
	})
}

// placeOrderPayload accepts both the multi-item shape and the legacy flat
// single-item shape (item_name + quantity).
type placeOrderPayload struct {
	UserID      int64             `json:"user_id"`
	DisplayName string            `json:"display_name,omitempty"`
	Items       []LineItemRequest `json:"items,omitempty"`
	ItemName    string            `json:"item_name,omitempty"`
	Quantity    int               `json:"quantity,omitempty"`
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var payload placeOrderPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, err.Error())
		return
	}

	req := PlaceOrderRequest{
		UserID:      payload.UserID,
		DisplayName: payload.DisplayName,
		Items:       payload.Items,
	}
	if len(req.Items) == 0 && payload.ItemName != "" {
		req.Items = []LineItemRequest{{Name: payload.ItemName, Quantity: payload.Quantity}}
	}

	o, err := h.service.PlaceOrder(r.Context(), req)
	if err != nil {
		h.failPlacement(w, err)
		return
	}
	api.Respond(w, http.StatusCreated, o)
}

func (h *Handler) failPlacement(w http.ResponseWriter, err error) {
	var stockErr *catalog.StockError
	switch {
	case errors.As(err, &stockErr):
		api.Fail(w, http.StatusConflict, api.CodeInsufficientStock, stockErr.Error())
	case errors.Is(err, ErrOwnerNotFound), errors.Is(err, catalog.ErrProductNotFound):
		api.Fail(w, http.StatusNotFound, api.CodeNotFound, err.Error())
	case errors.Is(err, ErrInvalidLineItem):
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, err.Error())
	default:
		api.Fail(w, http.StatusInternalServerError, api.CodeInternal, "failed to place order")
	}
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}
	o, err := h.service.GetOrder(r.Context(), id)
	if err != nil {
		h.failLookup(w, err)
		return
	}
	api.Respond(w, http.StatusOK, o)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListOrders(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, api.CodeInternal, "failed to list orders")
		return
	}
	if orders == nil {
		orders = []*Order{}
	}
	api.Respond(w, http.StatusOK, orders)
}

func (h *Handler) listUserOrders(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "user_id"), 10, 64)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, "invalid user id")
		return
	}
	orders, err := h.service.ListUserOrders(r.Context(), userID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, api.CodeInternal, "failed to list orders")
		return
	}
	if orders == nil {
		orders = []*Order{}
	}
	api.Respond(w, http.StatusOK, orders)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, err.Error())
		return
	}
	o, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		h.failTransition(w, err)
		return
	}
	api.Respond(w, http.StatusOK, o)
}

func (h *Handler) markProcessing(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}
	o, err := h.service.MarkProcessing(r.Context(), id)
	if err != nil {
		h.failTransition(w, err)
		return
	}
	api.Respond(w, http.StatusOK, o)
}

func (h *Handler) markDelivered(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}
	o, err := h.service.MarkDelivered(r.Context(), id)
	if err != nil {
		h.failTransition(w, err)
		return
	}
	api.Respond(w, http.StatusOK, o)
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}
	found, err := h.service.DeleteOrder(r.Context(), id)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, api.CodeInternal, "failed to delete order")
		return
	}
	if !found {
		api.Fail(w, http.StatusNotFound, api.CodeNotFound, "order not found")
		return
	}
	api.Respond(w, http.StatusOK, map[string]string{"status": "order deleted"})
}

func (h *Handler) failLookup(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrOrderNotFound) {
		api.Fail(w, http.StatusNotFound, api.CodeNotFound, err.Error())
		return
	}
	api.Fail(w, http.StatusInternalServerError, api.CodeInternal, "failed to fetch order")
}

func (h *Handler) failTransition(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrOrderNotFound):
		api.Fail(w, http.StatusNotFound, api.CodeNotFound, err.Error())
	case errors.Is(err, ErrInvalidStatus):
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, err.Error())
	case errors.Is(err, ErrInvalidTransition):
		api.Fail(w, http.StatusBadRequest, api.CodeInvalidTransition, err.Error())
	default:
		api.Fail(w, http.StatusInternalServerError, api.CodeInternal, "failed to update order")
	}
}

func (h *Handler) orderID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, "invalid order id")
		return 0, false
	}
	return id, true
}
