package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmulenga/kwacha-commerce/internal/api"
)

// Handler exposes user HTTP endpoints. Routes other than registration sit
// behind the auth middleware when one is supplied.
type Handler struct {
	service Service
	authMW  func(http.Handler) http.Handler
}

func NewHandler(service Service, authMW func(http.Handler) http.Handler) *Handler {
	return &Handler{service: service, authMW: authMW}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/users", func(r chi.Router) {
		r.Post("/register", h.registerUser)
		r.Group(func(r chi.Router) {
			if h.authMW != nil {
				r.Use(h.authMW)
			}
			r.Get("/", h.listUsers)
			r.Get("/{id}", h.getUser)
			r.Delete("/{id}", h.deleteUser)
		})
	})
}

func (h *Handler) registerUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, err.Error())
		return
	}
	u, err := h.service.RegisterUser(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, err.Error())
		return
	}
	api.Respond(w, http.StatusCreated, u)
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, api.CodeInternal, "failed to list users")
		return
	}
	if users == nil {
		users = []*User{}
	}
	api.Respond(w, http.StatusOK, users)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, "invalid user id")
		return
	}
	u, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			api.Fail(w, http.StatusNotFound, api.CodeNotFound, err.Error())
			return
		}
		api.Fail(w, http.StatusInternalServerError, api.CodeInternal, "failed to fetch user")
		return
	}
	api.Respond(w, http.StatusOK, u)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, "invalid user id")
		return
	}
	found, err := h.service.DeleteUser(r.Context(), id)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, api.CodeInternal, "failed to delete user")
		return
	}
	if !found {
		api.Fail(w, http.StatusNotFound, api.CodeNotFound, "user not found")
		return
	}
	api.Respond(w, http.StatusOK, map[string]string{"status": "user deleted"})
}
