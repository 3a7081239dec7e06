package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"vivendi/backend/internal/service"
)

type ClientHandler struct {
	clients service.ClientService
	rp      *Responder
}

func NewClientHandler(clients service.ClientService, rp *Responder) *ClientHandler {
	return &ClientHandler{clients: clients, rp: rp}
}

type CreateClientRequest struct {
	Name string `json:"name" validate:"required"`
}

func (req *CreateClientRequest) normalize() {
	req.Name = strings.TrimSpace(req.Name)
}

type UpdateClientRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1"`
}

func (req *UpdateClientRequest) normalize() {
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		req.Name = &trimmed
	}
}

// List godoc
// @Summary  List clients
// @Tags     Clients
// @Produce  json
// @Success  200  {object}  DataResponse
// @Router   /v1/clients [get]
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	clients, err := h.clients.List(r.Context())
	if err != nil {
		h.rp.Error(w, r, err)
		return
	}
	h.rp.Data(w, http.StatusOK, clients)
}

// Get godoc
// @Summary  Get one client
// @Tags     Clients
// @Produce  json
// @Param    id   path      string  true  "Client id"
// @Success  200  {object}  DataResponse
// @Failure  404  {object}  ErrorBody
// @Router   /v1/clients/{id} [get]
func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := validateID(id); err != nil {
		h.rp.Error(w, r, err)
		return
	}

	client, err := h.clients.Get(r.Context(), id)
	if err != nil {
		h.rp.Error(w, r, err)
		return
	}
	h.rp.Data(w, http.StatusOK, client)
}

// Create godoc
// @Summary  Create a client
// @Tags     Clients
// @Accept   json
// @Produce  json
// @Param    client  body      CreateClientRequest  true  "Client"
// @Success  201     {object}  DataResponse
// @Failure  400     {object}  ErrorBody
// @Router   /v1/clients [post]
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateClientRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.rp.Error(w, r, err)
		return
	}

	client, err := h.clients.Create(r.Context(), req.Name)
	if err != nil {
		h.rp.Error(w, r, err)
		return
	}
	h.rp.Data(w, http.StatusCreated, client)
}

// Update godoc
// @Summary  Update a client
// @Tags     Clients
// @Accept   json
// @Produce  json
// @Param    id      path      string               true  "Client id"
// @Param    client  body      UpdateClientRequest  true  "Fields to update"
// @Success  200     {object}  DataResponse
// @Failure  404     {object}  ErrorBody
// @Router   /v1/clients/{id} [put]
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := validateID(id); err != nil {
		h.rp.Error(w, r, err)
		return
	}

	var req UpdateClientRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.rp.Error(w, r, err)
		return
	}

	client, err := h.clients.Update(r.Context(), id, req.Name)
	if err != nil {
		h.rp.Error(w, r, err)
		return
	}
	h.rp.Data(w, http.StatusOK, client)
}

// Delete godoc
// @Summary  Delete a client
// @Tags     Clients
// @Produce  json
// @Param    id   path      string  true  "Client id"
// @Success  200  {object}  DataResponse
// @Failure  400  {object}  ErrorBody
// @Failure  404  {object}  ErrorBody
// @Router   /v1/clients/{id} [delete]
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := validateID(id); err != nil {
		h.rp.Error(w, r, err)
		return
	}

	if err := h.clients.Delete(r.Context(), id); err != nil {
		h.rp.Error(w, r, err)
		return
	}
	h.rp.Data(w, http.StatusOK, map[string]bool{"success": true})
}
