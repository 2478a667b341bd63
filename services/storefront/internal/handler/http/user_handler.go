package http

import (
	"encoding/json"
	"net/http"

	"StorefrontPlatform/pkg/errors"
	"StorefrontPlatform/services/storefront/internal/auth"
	"StorefrontPlatform/services/storefront/internal/service"
)

// handleRegister обрабатывает запросы на регистрацию
func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.handleError(w, r, errors.InvalidArgument("invalid request body"))
		return
	}

	user, err := h.users.Register(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Message: "User added successfully.",
		User:    &UserDTO{User: user},
	})
}

// handleLogin обрабатывает запросы на аутентификацию
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.handleError(w, r, errors.InvalidArgument("invalid request body"))
		return
	}

	result, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Message:        "Login successful",
		Token:          result.Token,
		Role:           result.Role,
		ExpirationTime: result.ExpirationTime,
	})
}

// handleMyInfo возвращает текущего пользователя с историей заказов
func (h *Handler) handleMyInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.users.MyInfo(r.Context(), auth.PrincipalFrom(r.Context()))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{
		User: &UserDTO{User: info.User, OrderItemList: info.Items},
	})
}

// handleAllUsers возвращает всех пользователей, только для ADMIN
func (h *Handler) handleAllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.AllUsers(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Message:  "Success",
		UserList: users,
	})
}
