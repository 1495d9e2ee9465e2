package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mikrodash/mikrodash/internal/api/middleware"
	"github.com/mikrodash/mikrodash/internal/domain"
	"github.com/mikrodash/mikrodash/internal/service"
)

type RouterHandler struct {
	svc *service.RouterService
}

func NewRouterHandler(svc *service.RouterService) *RouterHandler {
	return &RouterHandler{svc: svc}
}

type routerRequest struct {
	Name     string `json:"name"`
	IP       string `json:"ip"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *RouterHandler) List(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	routers, err := h.svc.List(r.Context(), *identity)
	if err != nil {
		if errors.Is(err, service.ErrTimeout) {
			writeError(w, http.StatusGatewayTimeout, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch routers")
		return
	}

	if routers == nil {
		routers = []domain.Router{}
	}
	writeJSON(w, http.StatusOK, routers)
}

func (h *RouterHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req routerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	router, err := h.svc.Create(r.Context(), *identity, service.RouterInput{
		Name:     req.Name,
		IP:       req.IP,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			writeError(w, http.StatusBadRequest, "name, ip, and username are required")
		case errors.Is(err, service.ErrTimeout):
			writeError(w, http.StatusGatewayTimeout, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to add router")
		}
		return
	}

	writeJSON(w, http.StatusCreated, router)
}

func (h *RouterHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid router id")
		return
	}

	var req routerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	router, err := h.svc.Update(r.Context(), *identity, id, service.RouterInput{
		Name:     req.Name,
		IP:       req.IP,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			writeError(w, http.StatusBadRequest, "name, ip, and username are required")
		case errors.Is(err, service.ErrRouterNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrTimeout):
			writeError(w, http.StatusGatewayTimeout, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to update router")
		}
		return
	}

	writeJSON(w, http.StatusOK, router)
}

func (h *RouterHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid router id")
		return
	}

	if err := h.svc.Delete(r.Context(), *identity, id); err != nil {
		switch {
		case errors.Is(err, service.ErrRouterNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrTimeout):
			writeError(w, http.StatusGatewayTimeout, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to delete router")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
