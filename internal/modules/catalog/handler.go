package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmulenga/kwacha-commerce/internal/api"
)

// Handler exposes catalog HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", h.listProducts)
		r.Post("/", h.createProduct)
		r.Get("/{id}", h.getProduct)
		r.Put("/{id}", h.updateProduct)
		r.Delete("/{id}", h.deleteProduct)
	})
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	products, err := h.service.ListProducts(r.Context(), search)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, api.CodeInternal, "failed to list products")
		return
	}
	if products == nil {
		products = []*Product{}
	}
	api.Respond(w, http.StatusOK, products)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, err.Error())
		return
	}
	p, err := h.service.CreateProduct(r.Context(), req)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, err.Error())
		return
	}
	api.Respond(w, http.StatusCreated, p)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, "invalid product id")
		return
	}
	p, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			api.Fail(w, http.StatusNotFound, api.CodeNotFound, err.Error())
			return
		}
		api.Fail(w, http.StatusInternalServerError, api.CodeInternal, "failed to fetch product")
		return
	}
	api.Respond(w, http.StatusOK, p)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, "invalid product id")
		return
	}
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, err.Error())
		return
	}
	p, err := h.service.UpdateProduct(r.Context(), id, req)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			api.Fail(w, http.StatusNotFound, api.CodeNotFound, err.Error())
			return
		}
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, err.Error())
		return
	}
	api.Respond(w, http.StatusOK, p)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, "invalid product id")
		return
	}
	found, err := h.service.DeleteProduct(r.Context(), id)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, api.CodeInternal, "failed to delete product")
		return
	}
	if !found {
		api.Fail(w, http.StatusNotFound, api.CodeNotFound, "product not found")
		return
	}
	api.Respond(w, http.StatusOK, map[string]string{"status": "product deleted"})
}
