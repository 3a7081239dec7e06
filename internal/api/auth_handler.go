package api

import (
	"net/http"
	"strings"

	"vivendi/backend/internal/model"
	"vivendi/backend/internal/service"
)

type AuthHandler struct {
	auth service.AuthService
	rp   *Responder
}

func NewAuthHandler(auth service.AuthService, rp *Responder) *AuthHandler {
	return &AuthHandler{auth: auth, rp: rp}
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (req *LoginRequest) normalize() {
	req.Username = strings.TrimSpace(req.Username)
}

// MeResponse echoes the caller's token and resolved identity.
type MeResponse struct {
	Token      string     `json:"token"`
	User       model.User `json:"user"`
	ClientName string     `json:"clientName,omitempty"`
}

// Login godoc
// @Summary      Log in
// @Description  Exchanges credentials for a signed token.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        credentials  body      LoginRequest  true  "Credentials"
// @Success      200          {object}  DataResponse
// @Failure      400          {object}  ErrorBody
// @Failure      401          {object}  ErrorBody
// @Router       /v1/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.rp.Error(w, r, err)
		return
	}

	result, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.rp.Error(w, r, err)
		return
	}

	h.rp.Data(w, http.StatusOK, result)
}

// Me godoc
// @Summary      Current identity
// @Description  Returns the identity resolved from the x-auth-token header.
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  DataResponse
// @Failure      401  {object}  ErrorBody
// @Router       /v1/auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())

	h.rp.Data(w, http.StatusOK, MeResponse{
		Token:      r.Header.Get(AuthTokenHeader),
		User:       identity.User,
		ClientName: identity.ClientName,
	})
}
