package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mikrodash/mikrodash/internal/api/middleware"
	"github.com/mikrodash/mikrodash/internal/domain"
	"github.com/mikrodash/mikrodash/internal/service"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type registerRequest struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	TenantName       string `json:"tenantName"`
	SecurityQuestion string `json:"securityQuestion"`
	SecurityAnswer   string `json:"securityAnswer"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token  string         `json:"token"`
	User   *domain.User   `json:"user"`
	Tenant *domain.Tenant `json:"tenant"`
}

type sessionResponse struct {
	User   *domain.User   `json:"user"`
	Tenant *domain.Tenant `json:"tenant"`
}

type securityQuestionRequest struct {
	Email string `json:"email"`
}

type securityQuestionResponse struct {
	Question string `json:"question"`
}

type resetPasswordRequest struct {
	Email          string `json:"email"`
	SecurityAnswer string `json:"securityAnswer"`
	NewPassword    string `json:"newPassword"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.svc.Register(r.Context(), service.RegisterInput{
		Name:             req.Name,
		Email:            req.Email,
		Password:         req.Password,
		TenantName:       req.TenantName,
		SecurityQuestion: req.SecurityQuestion,
		SecurityAnswer:   req.SecurityAnswer,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrEmailTaken):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrTimeout):
			writeError(w, http.StatusGatewayTimeout, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "server error during registration")
		}
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{Token: res.Token, User: res.User, Tenant: res.Tenant})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, err.Error())
		case errors.Is(err, service.ErrTimeout):
			writeError(w, http.StatusGatewayTimeout, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "server error during login")
		}
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: res.Token, User: res.User, Tenant: res.Tenant})
}

// Me resolves the verified token back to its user and tenant. The frontend
// calls it with a short deadline on startup and treats any failure as an
// invalid session.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, tenant, err := h.svc.CurrentSession(r.Context(), *identity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrTimeout):
			writeError(w, http.StatusGatewayTimeout, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{User: user, Tenant: tenant})
}

func (h *AuthHandler) SecurityQuestion(w http.ResponseWriter, r *http.Request) {
	var req securityQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	question, err := h.svc.SecurityQuestion(r.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrEmailNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrTimeout):
			writeError(w, http.StatusGatewayTimeout, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, securityQuestionResponse{Question: question})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.svc.ResetPassword(r.Context(), req.Email, req.SecurityAnswer, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrEmailNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrWrongAnswer):
			writeError(w, http.StatusUnauthorized, err.Error())
		case errors.Is(err, service.ErrTimeout):
			writeError(w, http.StatusGatewayTimeout, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "password has been reset successfully"})
}
