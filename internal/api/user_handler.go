package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"vivendi/backend/internal/service"
)

type UserHandler struct {
	users service.UserService
	rp    *Responder
}

func NewUserHandler(users service.UserService, rp *Responder) *UserHandler {
	return &UserHandler{users: users, rp: rp}
}

type CreateUserRequest struct {
	Username string  `json:"username" validate:"required"`
	Password string  `json:"password" validate:"required,min=6"`
	Role     string  `json:"role" validate:"required,oneof=admin client"`
	ClientID *string `json:"clientId" validate:"omitempty,uuid4"`
}

func (req *CreateUserRequest) normalize() {
	req.Username = strings.TrimSpace(req.Username)
}

type UpdateUserRequest struct {
	Username *string `json:"username" validate:"omitempty,min=1"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin client"`
	ClientID *string `json:"clientId" validate:"omitempty,uuid4"`
}

func (req *UpdateUserRequest) normalize() {
	if req.Username != nil {
		trimmed := strings.TrimSpace(*req.Username)
		req.Username = &trimmed
	}
}

// List godoc
// @Summary  List users
// @Tags     Users
// @Produce  json
// @Success  200  {object}  DataResponse
// @Router   /v1/users [get]
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		h.rp.Error(w, r, err)
		return
	}
	h.rp.Data(w, http.StatusOK, users)
}

// Create godoc
// @Summary  Create a user
// @Tags     Users
// @Accept   json
// @Produce  json
// @Param    user  body      CreateUserRequest  true  "User"
// @Success  201   {object}  DataResponse
// @Failure  400   {object}  ErrorBody
// @Router   /v1/users [post]
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.rp.Error(w, r, err)
		return
	}

	user, err := h.users.Create(r.Context(), service.CreateUserInput{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
		ClientID: req.ClientID,
	})
	if err != nil {
		h.rp.Error(w, r, err)
		return
	}
	h.rp.Data(w, http.StatusCreated, user)
}

// Update godoc
// @Summary  Update a user
// @Tags     Users
// @Accept   json
// @Produce  json
// @Param    id    path      string             true  "User id"
// @Param    user  body      UpdateUserRequest  true  "Fields to update"
// @Success  200   {object}  DataResponse
// @Failure  404   {object}  ErrorBody
// @Router   /v1/users/{id} [put]
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := validateID(id); err != nil {
		h.rp.Error(w, r, err)
		return
	}

	var req UpdateUserRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.rp.Error(w, r, err)
		return
	}

	user, err := h.users.Update(r.Context(), id, service.UpdateUserInput{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
		ClientID: req.ClientID,
	})
	if err != nil {
		h.rp.Error(w, r, err)
		return
	}
	h.rp.Data(w, http.StatusOK, user)
}

// Delete godoc
// @Summary  Delete a user
// @Tags     Users
// @Produce  json
// @Param    id   path      string  true  "User id"
// @Success  200  {object}  DataResponse
// @Failure  404  {object}  ErrorBody
// @Router   /v1/users/{id} [delete]
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := validateID(id); err != nil {
		h.rp.Error(w, r, err)
		return
	}

	if err := h.users.Delete(r.Context(), id); err != nil {
		h.rp.Error(w, r, err)
		return
	}
	h.rp.Data(w, http.StatusOK, map[string]bool{"success": true})
}
